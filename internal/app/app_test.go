package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RubachokBoss/course-service/internal/config"
	"github.com/RubachokBoss/course-service/internal/identity"
	"github.com/RubachokBoss/course-service/internal/models"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Address: ":0", RequestTimeout: 5 * time.Second},
		Store:  config.StoreConfig{Driver: config.StoreDriverMemory, MaxRetries: 5},
		Auth: config.AuthConfig{
			Provider: config.AuthProviderHeader,
			Header:   config.HeaderAuth{UserIDHeader: "X-User-ID", RoleHeader: "X-User-Role"},
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"*"}},
	}
}

func TestNewWithMemoryStore(t *testing.T) {
	a, err := New(context.Background(), memoryConfig(), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(a.close)

	rec := httptest.NewRecorder()
	a.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := `{"title":"Networks","description":"TCP/IP","chapters":[{"title":"Links"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/courses", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "teacher-1")
	req.Header.Set("X-User-Role", "teacher")
	rec = httptest.NewRecorder()
	a.server.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Content-Type"))
}

func TestNewWithJWTAuth(t *testing.T) {
	cfg := memoryConfig()
	cfg.Auth = config.AuthConfig{
		Provider: config.AuthProviderJWT,
		JWT:      config.JWTAuth{Secret: "s3cret", Issuer: "lms"},
	}
	a, err := New(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(a.close)

	token, err := identity.NewJWTProvider("s3cret", "lms", "", 0).
		Issue(models.Principal{ID: "student-1", Role: models.RoleStudent}, time.Hour, time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/courses", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	a.server.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/courses", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	a.server.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	cfg := memoryConfig()
	cfg.Store.Driver = "cassandra"

	_, err := New(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}
