package enums

// PrincipalKind discriminates the identity a cart is keyed on.
type PrincipalKind string

const (
	PrincipalAuthenticated PrincipalKind = "authenticated"
	PrincipalGuest         PrincipalKind = "guest"
	PrincipalAnonymous     PrincipalKind = "anonymous"
)
