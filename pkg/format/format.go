// Package format contiene los formateadores de presentación (moneda, teléfonos,
// IVA, IBAN, fechas y dimensiones de acero).
package format

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DateLayout formato de fecha visible para el usuario.
const DateLayout = "02/01/2006"

var printer = message.NewPrinter(language.English)

// Currency formatea amount con separador de miles y 2 decimales: €1,234.50.
// Para otra moneda el código va al final: 1,234.50 GBP.
func Currency(amount decimal.Decimal, currency string) string {
	s := printer.Sprintf("%.2f", amount.Round(2).InexactFloat64())
	if currency == "" || currency == "EUR" {
		if strings.HasPrefix(s, "-") {
			return "-€" + s[1:]
		}
		return "€" + s
	}
	return s + " " + currency
}

// EUR atajo de Currency(amount, "EUR").
func EUR(amount decimal.Decimal) string { return Currency(amount, "EUR") }

// Percentage formatea con un decimal: 23.0%.
func Percentage(value decimal.Decimal) string {
	return value.StringFixed(1) + "%"
}

// ParseCurrency interpreta "€1,234.50" como 1234.50. Devuelve cero si no es un número.
func ParseCurrency(s string) decimal.Decimal {
	clean := strings.TrimSpace(strings.NewReplacer("€", "", ",", "").Replace(s))
	if clean == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Phone formatea un teléfono irlandés. Si no reconoce el patrón lo devuelve igual.
//
//	+353 con 9 dígitos → +353 XX XXX XXXX
//	+353 con 8 dígitos → +353 XX XXX XXX
//	nacional 10 dígitos → XXX XXX XXXX
//	nacional 9 dígitos  → XX XXX XXXX
func Phone(phone string) string {
	if phone == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range phone {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	clean := b.String()

	switch {
	case strings.HasPrefix(clean, "+353"):
		n := clean[4:]
		switch len(n) {
		case 9:
			return "+353 " + n[0:2] + " " + n[2:5] + " " + n[5:9]
		case 8:
			return "+353 " + n[0:2] + " " + n[2:5] + " " + n[5:8]
		}
	case strings.HasPrefix(clean, "0"):
		switch len(clean) {
		case 10:
			return clean[0:3] + " " + clean[3:6] + " " + clean[6:10]
		case 9:
			return clean[0:2] + " " + clean[2:5] + " " + clean[5:9]
		}
	}
	return phone
}

// VATNumber formatea un número de IVA irlandés: IE 1234567 T.
func VATNumber(vat string) string {
	if vat == "" {
		return ""
	}
	clean := strings.ToUpper(strings.ReplaceAll(vat, " ", ""))
	if strings.HasPrefix(clean, "IE") && len(clean) >= 9 {
		return "IE " + clean[2:9] + " " + clean[9:]
	}
	return vat
}

// IBAN agrupa el IBAN en bloques de 4 caracteres.
func IBAN(iban string) string {
	clean := strings.ToUpper(strings.ReplaceAll(iban, " ", ""))
	var groups []string
	for i := 0; i < len(clean); i += 4 {
		end := i + 4
		if end > len(clean) {
			end = len(clean)
		}
		groups = append(groups, clean[i:end])
	}
	return strings.Join(groups, " ")
}

// Truncate corta text a maxLen caracteres terminando en "...".
func Truncate(text string, maxLen int) string {
	r := []rune(text)
	if len(r) <= maxLen {
		return text
	}
	if maxLen < 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// Date formatea t como dd/mm/aaaa (cadena vacía para la fecha cero).
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// Dimensions formatea dimensiones de acero: "20x20x6000" → "20mm × 20mm × 6000mm".
func Dimensions(dim string) string {
	if dim == "" {
		return ""
	}
	lower := strings.ToLower(dim)
	if !strings.Contains(lower, "x") {
		return dim
	}
	parts := strings.Split(lower, "x")
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if !strings.HasSuffix(p, "mm") {
			p += "mm"
		}
		parts[i] = p
	}
	return strings.Join(parts, " × ")
}
