package identity

import (
	"github.com/google/uuid"

	"github.com/spoxpro/spoxpro-backend/pkg/enums"
)

// Principal is the resolved identity a request acts as. Authenticated
// principals carry a user ID, guest principals carry a cookie token, and
// anonymous principals carry neither.
type Principal struct {
	Kind       enums.PrincipalKind
	UserID     uuid.UUID
	IsAdmin    bool
	GuestToken string
	AccessID   string
}

// Anonymous returns the zero-identity principal.
func Anonymous() Principal {
	return Principal{Kind: enums.PrincipalAnonymous}
}

// IsAuthenticated reports whether the principal is a logged-in user.
func (p Principal) IsAuthenticated() bool {
	return p.Kind == enums.PrincipalAuthenticated
}

// IsGuest reports whether the principal is keyed by a guest cookie.
func (p Principal) IsGuest() bool {
	return p.Kind == enums.PrincipalGuest
}

// CartKey returns the stable identifier the cart is keyed on, or empty for
// anonymous principals.
func (p Principal) CartKey() string {
	switch p.Kind {
	case enums.PrincipalAuthenticated:
		return p.UserID.String()
	case enums.PrincipalGuest:
		return p.GuestToken
	default:
		return ""
	}
}
