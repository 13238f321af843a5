package identity

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/RubachokBoss/course-service/internal/apperror"
	"github.com/RubachokBoss/course-service/internal/models"
)

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTProvider validates HS256 bearer tokens. The subject claim is the
// principal id.
type JWTProvider struct {
	secret   []byte
	issuer   string
	audience string
	leeway   time.Duration
}

func NewJWTProvider(secret, issuer, audience string, leeway time.Duration) *JWTProvider {
	return &JWTProvider{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		leeway:   leeway,
	}
}

func (p *JWTProvider) Authenticate(r *http.Request) (*models.Principal, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, nil
	}

	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, apperror.Unauthenticated("authorization header must be a bearer token")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(p.leeway),
		jwt.WithExpirationRequired(),
	}
	if p.issuer != "" {
		opts = append(opts, jwt.WithIssuer(p.issuer))
	}
	if p.audience != "" {
		opts = append(opts, jwt.WithAudience(p.audience))
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), &claims, func(*jwt.Token) (interface{}, error) {
		return p.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperror.Unauthenticated("token has expired")
		}
		return nil, apperror.Unauthenticated("invalid token")
	}

	role := models.Role(strings.ToLower(claims.Role))
	if claims.Subject == "" || !role.IsValid() {
		return nil, apperror.Unauthenticated("token is missing subject or role")
	}

	return &models.Principal{ID: claims.Subject, Role: role}, nil
}

// Issue signs a token for the principal.
func (p *JWTProvider) Issue(principal models.Principal, ttl time.Duration, now time.Time) (string, error) {
	claims := Claims{
		Role: string(principal.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if p.issuer != "" {
		claims.Issuer = p.issuer
	}
	if p.audience != "" {
		claims.Audience = jwt.ClaimStrings{p.audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}
