package cart

import (
	"github.com/google/uuid"

	"github.com/spoxpro/spoxpro-backend/internal/identity"
)

// Owner identifies whose cart a query targets. Exactly one field is set.
type Owner struct {
	UserID     *uuid.UUID
	GuestToken *string
}

// OwnerForUser keys the cart on an authenticated user.
func OwnerForUser(id uuid.UUID) Owner {
	return Owner{UserID: &id}
}

// OwnerForGuest keys the cart on a guest cookie token.
func OwnerForGuest(token string) Owner {
	return Owner{GuestToken: &token}
}

// OwnerForPrincipal maps a resolved principal to a cart owner. The second
// return is false for anonymous principals, which have no cart.
func OwnerForPrincipal(p identity.Principal) (Owner, bool) {
	switch {
	case p.IsAuthenticated():
		return OwnerForUser(p.UserID), true
	case p.IsGuest():
		return OwnerForGuest(p.GuestToken), true
	default:
		return Owner{}, false
	}
}

// Valid reports whether exactly one owner key is set.
func (o Owner) Valid() bool {
	return (o.UserID != nil) != (o.GuestToken != nil)
}
