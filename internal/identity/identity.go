// Package identity turns request credentials into a trusted principal.
package identity

import (
	"context"
	"fmt"
	"net/http"

	"github.com/RubachokBoss/course-service/internal/config"
	"github.com/RubachokBoss/course-service/internal/models"
)

// Provider authenticates a request. It returns nil, nil when the request
// carries no credentials and an unauthenticated error when they are invalid.
type Provider interface {
	Authenticate(r *http.Request) (*models.Principal, error)
}

func NewProvider(cfg config.AuthConfig) (Provider, error) {
	switch cfg.Provider {
	case config.AuthProviderHeader:
		return NewHeaderProvider(cfg.Header.UserIDHeader, cfg.Header.RoleHeader), nil
	case config.AuthProviderJWT:
		return NewJWTProvider(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.Leeway), nil
	default:
		return nil, fmt.Errorf("unknown auth provider %q", cfg.Provider)
	}
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p *models.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the authenticated principal, or nil.
func PrincipalFrom(ctx context.Context) *models.Principal {
	p, _ := ctx.Value(principalKey{}).(*models.Principal)
	return p
}
