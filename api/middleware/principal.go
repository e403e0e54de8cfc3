package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/spoxpro/spoxpro-backend/api/responses"
	"github.com/spoxpro/spoxpro-backend/internal/identity"
	"github.com/spoxpro/spoxpro-backend/pkg/enums"
	pkgerrors "github.com/spoxpro/spoxpro-backend/pkg/errors"
	"github.com/spoxpro/spoxpro-backend/pkg/logger"
)

// GuestCookieName is the cookie carrying the anonymous shopper token.
const GuestCookieName = "sx_guest"

// Principal resolves request credentials into a principal and seeds the
// context with it. Requests with neither a bearer token nor a known guest
// cookie get a fresh guest cookie minted so the cart works immediately.
func Principal(resolver *identity.Resolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			principal, err := resolver.Resolve(ctx, bearerToken(r), guestCookie(r))
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}

			if !principal.IsAuthenticated() && !principal.IsGuest() {
				token, mintErr := resolver.MintGuestToken(ctx)
				if mintErr != nil {
					responses.WriteError(ctx, logg, w, mintErr)
					return
				}
				setGuestCookie(w, token, resolver.GuestTTL())
				principal = identity.Principal{Kind: enums.PrincipalGuest, GuestToken: token}
			}

			ctx = WithPrincipal(ctx, principal)
			if logg != nil {
				ctx = logg.WithPrincipal(ctx, string(principal.Kind), principal.CartKey())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests whose principal is not a signed-in user.
func RequireAuth(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !PrincipalFromContext(r.Context()).IsAuthenticated() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin rejects non-admin principals.
func RequireAdmin(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFromContext(r.Context())
			if !p.IsAuthenticated() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}
			if !p.IsAdmin {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "admin access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}

func guestCookie(r *http.Request) string {
	cookie, err := r.Cookie(GuestCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func setGuestCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     GuestCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
