package identity

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/spoxpro/spoxpro-backend/pkg/auth"
	"github.com/spoxpro/spoxpro-backend/pkg/config"
	"github.com/spoxpro/spoxpro-backend/pkg/enums"
	apperrors "github.com/spoxpro/spoxpro-backend/pkg/errors"
)

const guestTokenBytes = 32

type sessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

type guestRegistry interface {
	RegisterGuestCookie(ctx context.Context, token string, ttl time.Duration) error
	GuestCookieExists(ctx context.Context, token string) (bool, error)
}

// Resolver turns request credentials into a Principal. A bearer token always
// wins over a guest cookie; a malformed or revoked bearer token is rejected
// outright rather than falling back to guest identity.
type Resolver struct {
	jwtCfg   config.JWTConfig
	guestTTL time.Duration
	sessions sessionChecker
	guests   guestRegistry
}

// ResolverParams collects the dependencies for NewResolver.
type ResolverParams struct {
	JWTConfig   config.JWTConfig
	GuestTTL    time.Duration
	Sessions    sessionChecker
	GuestTokens guestRegistry
}

// NewResolver validates dependencies and constructs a Resolver.
func NewResolver(params ResolverParams) (*Resolver, error) {
	if params.Sessions == nil {
		return nil, fmt.Errorf("session checker is required")
	}
	if params.GuestTokens == nil {
		return nil, fmt.Errorf("guest registry is required")
	}
	if params.GuestTTL <= 0 {
		return nil, fmt.Errorf("guest ttl must be positive")
	}
	return &Resolver{
		jwtCfg:   params.JWTConfig,
		guestTTL: params.GuestTTL,
		sessions: params.Sessions,
		guests:   params.GuestTokens,
	}, nil
}

// Resolve determines the acting principal from the optional bearer token and
// guest cookie value.
func (r *Resolver) Resolve(ctx context.Context, bearer, guestToken string) (Principal, error) {
	bearer = strings.TrimSpace(bearer)
	if bearer != "" {
		return r.resolveBearer(ctx, bearer)
	}

	guestToken = strings.TrimSpace(guestToken)
	if guestToken != "" {
		ok, err := r.guests.GuestCookieExists(ctx, guestToken)
		if err != nil {
			return Anonymous(), apperrors.Wrap(apperrors.CodeDependency, err, "checking guest cookie")
		}
		if ok {
			return Principal{Kind: enums.PrincipalGuest, GuestToken: guestToken}, nil
		}
		// Expired or unknown cookie degrades to anonymous so the client
		// can be reissued a fresh one.
	}

	return Anonymous(), nil
}

func (r *Resolver) resolveBearer(ctx context.Context, bearer string) (Principal, error) {
	claims, err := auth.ParseAccessToken(r.jwtCfg, bearer)
	if err != nil {
		return Anonymous(), apperrors.Wrap(apperrors.CodeUnauthorized, err, "invalid access token")
	}

	has, err := r.sessions.HasSession(ctx, claims.ID)
	if err != nil {
		return Anonymous(), apperrors.Wrap(apperrors.CodeDependency, err, "checking session")
	}
	if !has {
		return Anonymous(), apperrors.New(apperrors.CodeUnauthorized, "session revoked")
	}

	return Principal{
		Kind:     enums.PrincipalAuthenticated,
		UserID:   claims.UserID,
		IsAdmin:  claims.IsAdmin,
		AccessID: claims.ID,
	}, nil
}

// MintGuestToken issues a fresh guest cookie token and records it in the
// registry for its configured lifetime.
func (r *Resolver) MintGuestToken(ctx context.Context) (string, error) {
	token, err := NewGuestToken()
	if err != nil {
		return "", err
	}
	if err := r.guests.RegisterGuestCookie(ctx, token, r.guestTTL); err != nil {
		return "", apperrors.Wrap(apperrors.CodeDependency, err, "registering guest cookie")
	}
	return token, nil
}

// GuestTTL exposes the configured cookie lifetime for Set-Cookie headers.
func (r *Resolver) GuestTTL() time.Duration {
	return r.guestTTL
}

// NewGuestToken produces an opaque random token for guest identity.
func NewGuestToken() (string, error) {
	bytes := make([]byte, guestTokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generating guest token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
