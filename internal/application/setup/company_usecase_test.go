package setup_test

import (
	"context"
	"testing"

	"github.com/jhoicas/steel-billing/internal/application/dto"
	"github.com/jhoicas/steel-billing/internal/application/setup"
	"github.com/jhoicas/steel-billing/internal/domain"
	"github.com/jhoicas/steel-billing/internal/infrastructure/filestore"
	"github.com/jhoicas/steel-billing/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUseCase(t *testing.T) *setup.CompanyUseCase {
	t.Helper()
	s, err := filestore.Open(t.TempDir())
	require.NoError(t, err)
	return setup.NewCompanyUseCase(s.Company(), logger.Nop())
}

func TestCompanyUseCase_SinConfigurar(t *testing.T) {
	resp, err := newUseCase(t).Get(context.Background())
	require.NoError(t, err)
	assert.False(t, resp.Configured)
	assert.Equal(t, "Ireland", resp.Country)
}

func TestCompanyUseCase_GuardarNormaliza(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	_, err := uc.Save(ctx, dto.CompanyRequest{
		Name:       "Dublin Steel Ltd ",
		VATNumber:  "ie9876543w",
		IBAN:       "ie29 aibk 9311 5212 3456 78",
		PostalCode: "d02 xy45",
		Email:      "accounts@dublinsteel.ie",
		Phone:      "+353 1 234 5678",
	})
	require.NoError(t, err)

	resp, err := uc.Get(ctx)
	require.NoError(t, err)
	assert.True(t, resp.Configured)
	assert.Equal(t, "Dublin Steel Ltd", resp.Name)
	assert.Equal(t, "IE9876543W", resp.VATNumber)
	assert.Equal(t, "IE29AIBK93115212345678", resp.IBAN)
	assert.Equal(t, "D02 XY45", resp.PostalCode)
	assert.Equal(t, "Ireland", resp.Country)
}

func TestCompanyUseCase_Validacion(t *testing.T) {
	_, err := newUseCase(t).Save(context.Background(), dto.CompanyRequest{
		Email: "x@", IBAN: "DE89370400440532013000", PostalCode: "123",
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	for _, want := range []string{"name is required", "email", "iban", "postal_code"} {
		assert.Contains(t, err.Error(), want)
	}
}
