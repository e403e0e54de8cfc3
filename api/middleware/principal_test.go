package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/spoxpro/spoxpro-backend/internal/identity"
	pkgAuth "github.com/spoxpro/spoxpro-backend/pkg/auth"
	"github.com/spoxpro/spoxpro-backend/pkg/auth/session"
	"github.com/spoxpro/spoxpro-backend/pkg/config"
	"github.com/spoxpro/spoxpro-backend/pkg/enums"
)

var principalJWTConfig = config.JWTConfig{
	Secret:            "middleware-test-secret",
	Issuer:            "spoxpro-test",
	ExpirationMinutes: 10,
}

type fakeSessions struct {
	active map[string]bool
}

func (f *fakeSessions) HasSession(_ context.Context, accessID string) (bool, error) {
	return f.active[accessID], nil
}

type fakeGuestRegistry struct {
	tokens map[string]bool
}

func (f *fakeGuestRegistry) RegisterGuestCookie(_ context.Context, token string, _ time.Duration) error {
	f.tokens[token] = true
	return nil
}

func (f *fakeGuestRegistry) GuestCookieExists(_ context.Context, token string) (bool, error) {
	return f.tokens[token], nil
}

func newTestResolver(t *testing.T, sessions *fakeSessions, guests *fakeGuestRegistry) *identity.Resolver {
	t.Helper()
	resolver, err := identity.NewResolver(identity.ResolverParams{
		JWTConfig:   principalJWTConfig,
		GuestTTL:    time.Hour,
		Sessions:    sessions,
		GuestTokens: guests,
	})
	if err != nil {
		t.Fatalf("build resolver: %v", err)
	}
	return resolver
}

func capturePrincipal(captured *identity.Principal) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestPrincipalMintsGuestCookieForNewVisitor(t *testing.T) {
	guests := &fakeGuestRegistry{tokens: map[string]bool{}}
	resolver := newTestResolver(t, &fakeSessions{active: map[string]bool{}}, guests)

	var principal identity.Principal
	handler := Principal(resolver, nil)(capturePrincipal(&principal))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if !principal.IsGuest() {
		t.Fatalf("expected guest principal, got %s", principal.Kind)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != GuestCookieName {
		t.Fatalf("expected one guest cookie, got %v", cookies)
	}
	if !guests.tokens[cookies[0].Value] {
		t.Fatalf("minted token not registered")
	}
	if !cookies[0].HttpOnly {
		t.Fatalf("guest cookie must be http-only")
	}
}

func TestPrincipalKeepsKnownGuest(t *testing.T) {
	guests := &fakeGuestRegistry{tokens: map[string]bool{"known-token": true}}
	resolver := newTestResolver(t, &fakeSessions{active: map[string]bool{}}, guests)

	var principal identity.Principal
	handler := Principal(resolver, nil)(capturePrincipal(&principal))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(&http.Cookie{Name: GuestCookieName, Value: "known-token"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if principal.GuestToken != "known-token" {
		t.Fatalf("expected existing guest token, got %q", principal.GuestToken)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("known guest should not get a new cookie")
	}
}

func TestPrincipalResolvesBearerOverGuestCookie(t *testing.T) {
	accessID := session.NewAccessID()
	userID := uuid.New()
	sessions := &fakeSessions{active: map[string]bool{accessID: true}}
	guests := &fakeGuestRegistry{tokens: map[string]bool{"guest-token": true}}
	resolver := newTestResolver(t, sessions, guests)

	token, err := pkgAuth.MintAccessToken(principalJWTConfig, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: userID,
		Email:  "bearer@example.com",
		JTI:    accessID,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	var principal identity.Principal
	handler := Principal(resolver, nil)(capturePrincipal(&principal))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.AddCookie(&http.Cookie{Name: GuestCookieName, Value: "guest-token"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !principal.IsAuthenticated() {
		t.Fatalf("expected authenticated principal, got %s", principal.Kind)
	}
	if principal.UserID != userID || principal.AccessID != accessID {
		t.Fatalf("unexpected principal %+v", principal)
	}
}

func TestPrincipalRejectsRevokedSession(t *testing.T) {
	accessID := session.NewAccessID()
	resolver := newTestResolver(t, &fakeSessions{active: map[string]bool{}}, &fakeGuestRegistry{tokens: map[string]bool{}})

	token, err := pkgAuth.MintAccessToken(principalJWTConfig, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		JTI:    accessID,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	var principal identity.Principal
	handler := Principal(resolver, nil)(capturePrincipal(&principal))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestRequireAuthAndRequireAdmin(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	// Anonymous principal.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	RequireAuth(nil)(ok).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401 got %d", rec.Code)
	}

	// Authenticated, not admin.
	authed := req.WithContext(WithPrincipal(req.Context(), identity.Principal{
		Kind:   enums.PrincipalAuthenticated,
		UserID: uuid.New(),
	}))
	rec = httptest.NewRecorder()
	RequireAdmin(nil)(ok).ServeHTTP(rec, authed)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("shopper: expected 403 got %d", rec.Code)
	}

	// Admin.
	admin := req.WithContext(WithPrincipal(req.Context(), identity.Principal{
		Kind:    enums.PrincipalAuthenticated,
		UserID:  uuid.New(),
		IsAdmin: true,
	}))
	rec = httptest.NewRecorder()
	RequireAdmin(nil)(ok).ServeHTTP(rec, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin: expected 200 got %d", rec.Code)
	}
}
