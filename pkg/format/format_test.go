package format_test

import (
	"testing"
	"time"

	"github.com/jhoicas/steel-billing/pkg/format"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCurrency(t *testing.T) {
	assert.Equal(t, "€1,234.50", format.EUR(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "€70.97", format.EUR(decimal.RequireFromString("70.971")))
	assert.Equal(t, "€0.00", format.EUR(decimal.Zero))
	assert.Equal(t, "-€5.00", format.EUR(decimal.NewFromInt(-5)))
	assert.Equal(t, "1,000,000.00 GBP", format.Currency(decimal.NewFromInt(1000000), "GBP"))
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, "23.0%", format.Percentage(decimal.NewFromInt(23)))
	assert.Equal(t, "13.5%", format.Percentage(decimal.RequireFromString("13.5")))
}

func TestParseCurrency(t *testing.T) {
	assert.True(t, decimal.RequireFromString("1234.50").Equal(format.ParseCurrency("€1,234.50")))
	assert.True(t, format.ParseCurrency("").IsZero())
	assert.True(t, format.ParseCurrency("n/a").IsZero())
}

func TestPhone(t *testing.T) {
	assert.Equal(t, "+353 87 123 4567", format.Phone("+353 87 123 4567"))
	assert.Equal(t, "+353 12 345 678", format.Phone("+353 1 2345678"))
	assert.Equal(t, "087 123 4567", format.Phone("087-123-4567"))
	assert.Equal(t, "01 234 5678", format.Phone("(01) 2345678"))
	assert.Equal(t, "12345", format.Phone("12345"), "sin patrón se devuelve igual")
	assert.Equal(t, "", format.Phone(""))
}

func TestVATNumberEIBAN(t *testing.T) {
	assert.Equal(t, "IE 1234567 T", format.VATNumber("ie1234567t"))
	assert.Equal(t, "IE12", format.VATNumber("IE12"))
	assert.Equal(t, "IE29 0000 1234 5678 9012 34", format.IBAN("ie290000123456789012 34"))
	assert.Equal(t, "", format.IBAN(""))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "corto", format.Truncate("corto", 50))
	assert.Equal(t, "Steel ...", format.Truncate("Steel flat bar S355", 9))
}

func TestDateYDimensions(t *testing.T) {
	assert.Equal(t, "05/03/2026", format.Date(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", format.Date(time.Time{}))
	assert.Equal(t, "20mm × 20mm × 6000mm", format.Dimensions("20x20x6000"))
	assert.Equal(t, "100mm × 50mm", format.Dimensions("100mm X 50"))
	assert.Equal(t, "Ø25", format.Dimensions("Ø25"))
}
