package jwt

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/okboz/okboz-backend-go/internal/domain/tenant"
	"github.com/okboz/okboz-backend-go/internal/domain/user"
)

const (
	TokenTypeAccess = "access"
	TokenTypeSSE    = "sse"

	sseTokenLifetime = 5 * time.Minute
)

var ErrInvalidClaims = errors.New("invalid token claims")

// Claims is what the identity service puts into an access token.
type Claims struct {
	UserID       string
	CorporateID  string
	EmployeeID   string
	Role         user.Role
	IsSuperAdmin bool
}

// Tenant converts the claims into the context every service call receives.
func (c Claims) Tenant() tenant.Context {
	return tenant.Context{
		CorporateID:  c.CorporateID,
		UserID:       c.UserID,
		EmployeeID:   c.EmployeeID,
		Role:         c.Role,
		IsSuperAdmin: c.IsSuperAdmin,
	}
}

func (c Claims) toMap(tokenType string, expiresAt int64) map[string]interface{} {
	m := map[string]interface{}{
		"user_id":        c.UserID,
		"corporate_id":   c.CorporateID,
		"role":           string(c.Role),
		"is_super_admin": c.IsSuperAdmin,
		"type":           tokenType,
		"exp":            expiresAt,
	}
	if c.EmployeeID != "" {
		m["employee_id"] = c.EmployeeID
	}
	return m
}

// ClaimsFromMap reads claims decoded by jwtauth. The token type must match.
func ClaimsFromMap(m map[string]interface{}, tokenType string) (Claims, error) {
	if t, _ := m["type"].(string); t != tokenType {
		return Claims{}, ErrInvalidClaims
	}

	userID, _ := m["user_id"].(string)
	corporateID, _ := m["corporate_id"].(string)
	role, _ := m["role"].(string)
	if userID == "" || corporateID == "" {
		return Claims{}, ErrInvalidClaims
	}
	if !user.Role(role).IsValid() {
		return Claims{}, user.ErrInvalidRole
	}

	employeeID, _ := m["employee_id"].(string)
	superAdmin, _ := m["is_super_admin"].(bool)

	return Claims{
		UserID:       userID,
		CorporateID:  corporateID,
		EmployeeID:   employeeID,
		Role:         user.Role(role),
		IsSuperAdmin: superAdmin,
	}, nil
}

type Service interface {
	GenerateAccessToken(claims Claims) (token string, expiresAt int64, err error)
	GenerateSSEToken(claims Claims) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (Claims, error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

// GenerateAccessToken signs an access token. Production tokens come from the
// identity service sharing the secret; this is used by tooling and tests.
func (j *JWTService) GenerateAccessToken(claims Claims) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(claims.toMap(TokenTypeAccess, expiresAt))
	return tokenString, expiresAt, err
}

// GenerateSSEToken generates a short-lived token for SSE connections
func (j *JWTService) GenerateSSEToken(claims Claims) (token string, expiresIn int, err error) {
	expiresAt := time.Now().Add(sseTokenLifetime).Unix()

	_, tokenString, err := j.tokenAuth.Encode(claims.toMap(TokenTypeSSE, expiresAt))
	if err != nil {
		return "", 0, err
	}

	return tokenString, int(sseTokenLifetime.Seconds()), nil
}

// ValidateSSEToken validates an SSE token and returns its claims
func (j *JWTService) ValidateSSEToken(tokenString string) (Claims, error) {
	token, err := j.tokenAuth.Decode(tokenString)
	if err != nil {
		return Claims{}, err
	}
	if err := jwt.Validate(token, jwt.WithAcceptableSkew(30*time.Second)); err != nil {
		return Claims{}, err
	}

	return ClaimsFromMap(token.PrivateClaims(), TokenTypeSSE)
}
