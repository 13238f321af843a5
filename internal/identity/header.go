package identity

import (
	"net/http"
	"strings"

	"github.com/RubachokBoss/course-service/internal/apperror"
	"github.com/RubachokBoss/course-service/internal/models"
)

// HeaderProvider trusts identity headers set by an authenticating gateway.
type HeaderProvider struct {
	userIDHeader string
	roleHeader   string
}

func NewHeaderProvider(userIDHeader, roleHeader string) *HeaderProvider {
	return &HeaderProvider{
		userIDHeader: userIDHeader,
		roleHeader:   roleHeader,
	}
}

func (p *HeaderProvider) Authenticate(r *http.Request) (*models.Principal, error) {
	id := strings.TrimSpace(r.Header.Get(p.userIDHeader))
	if id == "" {
		return nil, nil
	}

	role := models.Role(strings.ToLower(strings.TrimSpace(r.Header.Get(p.roleHeader))))
	if !role.IsValid() {
		return nil, apperror.Unauthenticated("missing or unknown role")
	}

	return &models.Principal{ID: id, Role: role}, nil
}
