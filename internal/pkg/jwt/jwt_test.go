package jwt

import (
	"testing"

	"github.com/okboz/okboz-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSSEToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "1h")
	claims := Claims{
		UserID:      "u1",
		CorporateID: "corp-1",
		EmployeeID:  "e1",
		Role:        user.RoleEmployee,
	}

	token, expiresIn, err := svc.GenerateSSEToken(claims)
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	got, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, claims, got)

	tc := got.Tenant()
	assert.Equal(t, "corp-1", tc.CorporateID)
	assert.Equal(t, "e1", tc.EmployeeID)
}

func TestValidateSSEToken_RejectsAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret", "1h")

	access, _, err := svc.GenerateAccessToken(Claims{UserID: "u1", CorporateID: "corp-1", Role: user.RoleCorporate})
	require.NoError(t, err)

	_, err = svc.ValidateSSEToken(access)
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestValidateSSEToken_RejectsForeignSecret(t *testing.T) {
	other := NewJWTService("other-secret", "1h")
	token, _, err := other.GenerateSSEToken(Claims{UserID: "u1", CorporateID: "corp-1", Role: user.RoleCorporate})
	require.NoError(t, err)

	_, err = NewJWTService("test-secret", "1h").ValidateSSEToken(token)
	assert.Error(t, err)
}

func TestClaimsFromMap(t *testing.T) {
	_, err := ClaimsFromMap(map[string]interface{}{"type": "access", "user_id": "u1"}, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidClaims)

	_, err = ClaimsFromMap(map[string]interface{}{
		"type": "access", "user_id": "u1", "corporate_id": "c1", "role": "ghost",
	}, TokenTypeAccess)
	assert.ErrorIs(t, err, user.ErrInvalidRole)

	c, err := ClaimsFromMap(map[string]interface{}{
		"type": "access", "user_id": "u1", "corporate_id": "admin", "role": "admin", "is_super_admin": true,
	}, TokenTypeAccess)
	require.NoError(t, err)
	assert.True(t, c.IsSuperAdmin)
	assert.Empty(t, c.EmployeeID)
}

func TestGenerateAccessToken_BadDuration(t *testing.T) {
	_, _, err := NewJWTService("s", "soon").GenerateAccessToken(Claims{})
	assert.Error(t, err)
}
