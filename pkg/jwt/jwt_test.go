package jwt_test

import (
	"testing"

	"github.com/jhoicas/steel-billing/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	token, exp, err := jwt.Generate("secreto", "admin", "steel-billing", 60)
	require.NoError(t, err)
	assert.False(t, exp.IsZero())

	user, err := jwt.Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, "admin", user)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, _, err := jwt.Generate("secreto", "admin", "steel-billing", 60)
	require.NoError(t, err)

	_, err = jwt.Parse("otro-secreto", token)
	assert.Error(t, err, "un token firmado con otro secreto debe rechazarse")
}

func TestParse_Expirado(t *testing.T) {
	token, _, err := jwt.Generate("secreto", "admin", "steel-billing", -5)
	require.NoError(t, err)

	_, err = jwt.Parse("secreto", token)
	assert.Error(t, err, "un token expirado debe rechazarse")
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, _, err := jwt.Generate("", "admin", "steel-billing", 60)
	assert.Error(t, err)
}
