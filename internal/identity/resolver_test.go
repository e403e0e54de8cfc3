package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/spoxpro/spoxpro-backend/pkg/auth"
	"github.com/spoxpro/spoxpro-backend/pkg/config"
	"github.com/spoxpro/spoxpro-backend/pkg/enums"
	apperrors "github.com/spoxpro/spoxpro-backend/pkg/errors"
)

type stubSessions struct {
	live map[string]bool
}

func (s *stubSessions) HasSession(ctx context.Context, accessID string) (bool, error) {
	return s.live[accessID], nil
}

type stubGuests struct {
	tokens map[string]bool
}

func (s *stubGuests) RegisterGuestCookie(ctx context.Context, token string, ttl time.Duration) error {
	s.tokens[token] = true
	return nil
}

func (s *stubGuests) GuestCookieExists(ctx context.Context, token string) (bool, error) {
	return s.tokens[token], nil
}

func newTestResolver(t *testing.T, sessions *stubSessions, guests *stubGuests) (*Resolver, config.JWTConfig) {
	t.Helper()
	cfg := config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "spoxpro",
		ExpirationMinutes: 15,
	}
	resolver, err := NewResolver(ResolverParams{
		JWTConfig:   cfg,
		GuestTTL:    time.Hour,
		Sessions:    sessions,
		GuestTokens: guests,
	})
	require.NoError(t, err)
	return resolver, cfg
}

func TestResolveBearerToken(t *testing.T) {
	sessions := &stubSessions{live: map[string]bool{}}
	guests := &stubGuests{tokens: map[string]bool{}}
	resolver, cfg := newTestResolver(t, sessions, guests)

	userID := uuid.New()
	jti := "jti-1"
	sessions.live[jti] = true

	token, err := auth.MintAccessToken(cfg, time.Now(), auth.AccessTokenPayload{
		UserID:  userID,
		IsAdmin: true,
		JTI:     jti,
	})
	require.NoError(t, err)

	principal, err := resolver.Resolve(context.Background(), token, "")
	require.NoError(t, err)
	require.Equal(t, enums.PrincipalAuthenticated, principal.Kind)
	require.Equal(t, userID, principal.UserID)
	require.True(t, principal.IsAdmin)
	require.Equal(t, jti, principal.AccessID)
}

func TestResolveBearerWinsOverGuestCookie(t *testing.T) {
	sessions := &stubSessions{live: map[string]bool{"jti-2": true}}
	guests := &stubGuests{tokens: map[string]bool{"guest-abc": true}}
	resolver, cfg := newTestResolver(t, sessions, guests)

	token, err := auth.MintAccessToken(cfg, time.Now(), auth.AccessTokenPayload{
		UserID: uuid.New(),
		JTI:    "jti-2",
	})
	require.NoError(t, err)

	principal, err := resolver.Resolve(context.Background(), token, "guest-abc")
	require.NoError(t, err)
	require.Equal(t, enums.PrincipalAuthenticated, principal.Kind)
	require.Empty(t, principal.GuestToken)
}

func TestResolveInvalidBearerDoesNotFallBack(t *testing.T) {
	sessions := &stubSessions{live: map[string]bool{}}
	guests := &stubGuests{tokens: map[string]bool{"guest-abc": true}}
	resolver, _ := newTestResolver(t, sessions, guests)

	_, err := resolver.Resolve(context.Background(), "garbage-token", "guest-abc")
	require.Error(t, err)
	typed := apperrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, apperrors.CodeUnauthorized, typed.Code())
}

func TestResolveRevokedSession(t *testing.T) {
	sessions := &stubSessions{live: map[string]bool{}}
	guests := &stubGuests{tokens: map[string]bool{}}
	resolver, cfg := newTestResolver(t, sessions, guests)

	token, err := auth.MintAccessToken(cfg, time.Now(), auth.AccessTokenPayload{
		UserID: uuid.New(),
		JTI:    "revoked-jti",
	})
	require.NoError(t, err)

	_, err = resolver.Resolve(context.Background(), token, "")
	typed := apperrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, apperrors.CodeUnauthorized, typed.Code())
}

func TestResolveGuestCookie(t *testing.T) {
	sessions := &stubSessions{live: map[string]bool{}}
	guests := &stubGuests{tokens: map[string]bool{"guest-xyz": true}}
	resolver, _ := newTestResolver(t, sessions, guests)

	principal, err := resolver.Resolve(context.Background(), "", "guest-xyz")
	require.NoError(t, err)
	require.Equal(t, enums.PrincipalGuest, principal.Kind)
	require.Equal(t, "guest-xyz", principal.GuestToken)
	require.Equal(t, "guest-xyz", principal.CartKey())
}

func TestResolveUnknownGuestCookieIsAnonymous(t *testing.T) {
	sessions := &stubSessions{live: map[string]bool{}}
	guests := &stubGuests{tokens: map[string]bool{}}
	resolver, _ := newTestResolver(t, sessions, guests)

	principal, err := resolver.Resolve(context.Background(), "", "expired-token")
	require.NoError(t, err)
	require.Equal(t, enums.PrincipalAnonymous, principal.Kind)
}

func TestMintGuestToken(t *testing.T) {
	sessions := &stubSessions{live: map[string]bool{}}
	guests := &stubGuests{tokens: map[string]bool{}}
	resolver, _ := newTestResolver(t, sessions, guests)

	token, err := resolver.MintGuestToken(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.True(t, guests.tokens[token])

	principal, err := resolver.Resolve(context.Background(), "", token)
	require.NoError(t, err)
	require.Equal(t, enums.PrincipalGuest, principal.Kind)
}
