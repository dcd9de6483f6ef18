package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTGenerateAndValidate(t *testing.T) {
	m := NewJWTManager("test-secret", 24, "agrobook-backend")

	token, err := m.Generate(42, "ram@example.com", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "ram@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "agrobook-backend", claims.Issuer)
}

func TestJWTValidateRejectsWrongSecret(t *testing.T) {
	m1 := NewJWTManager("secret-one", 24, "agrobook-backend")
	m2 := NewJWTManager("secret-two", 24, "agrobook-backend")

	token, err := m1.Generate(1, "user@example.com", "user")
	require.NoError(t, err)

	_, err = m2.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTValidateRejectsGarbage(t *testing.T) {
	m := NewJWTManager("test-secret", 24, "agrobook-backend")

	_, err := m.Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
