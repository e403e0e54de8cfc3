package middleware

import (
	"context"

	"github.com/spoxpro/spoxpro-backend/internal/identity"
)

type contextKey string

const ctxPrincipal contextKey = "principal"

// PrincipalFromContext returns the resolved principal, or the anonymous
// principal when the resolver middleware did not run.
func PrincipalFromContext(ctx context.Context) identity.Principal {
	if ctx == nil {
		return identity.Anonymous()
	}
	if p, ok := ctx.Value(ctxPrincipal).(identity.Principal); ok {
		return p
	}
	return identity.Anonymous()
}

// WithPrincipal injects the principal into the context.
func WithPrincipal(ctx context.Context, p identity.Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxPrincipal, p)
}
