// Package validation contiene los validadores de datos irlandeses usados en los
// formularios de empresa, clientes y productos. Un valor vacío siempre es válido:
// la obligatoriedad se comprueba aparte con Required.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneSepRe = regexp.MustCompile(`[\s\-\(\)]`)
	phoneRes   = []*regexp.Regexp{
		regexp.MustCompile(`^(\+353|0353|353)?[0-9]{8,9}$`),
		regexp.MustCompile(`^(\+353|0353|353)?[1-9][0-9]{7,8}$`),
	}
	vatRe     = regexp.MustCompile(`^IE[0-9]{7}[A-Z]{1,2}$|^IE[0-9][A-Z][0-9]{5}[A-Z]$`)
	ibanRe    = regexp.MustCompile(`^IE[0-9]{2}([A-Z]{4}|[0-9]{4})[0-9]{14}$`)
	eircodeRe = regexp.MustCompile(`^[A-Z0-9]{3}\s?[A-Z0-9]{4}$`)
)

// Errores devueltos por los validadores (mensajes visibles para el usuario).
var (
	ErrEmail    = errors.New("invalid email format")
	ErrPhone    = errors.New("invalid Irish phone number format")
	ErrVAT      = errors.New("invalid Irish VAT number format (e.g., IE1234567T)")
	ErrIBAN     = errors.New("invalid Irish IBAN format")
	ErrEircode  = errors.New("invalid Eircode format (e.g., D02 XY45)")
	ErrNegative = errors.New("value must be positive")
	ErrNumber   = errors.New("invalid number format")
)

// Email valida el formato de un email.
func Email(email string) error {
	if email == "" || emailRe.MatchString(email) {
		return nil
	}
	return ErrEmail
}

// Phone valida un teléfono irlandés, con o sin prefijo internacional (+353, 0353, 353).
// Se ignoran espacios, guiones y paréntesis.
func Phone(phone string) error {
	if phone == "" {
		return nil
	}
	clean := phoneSepRe.ReplaceAllString(phone, "")
	for _, re := range phoneRes {
		if re.MatchString(clean) {
			return nil
		}
	}
	return ErrPhone
}

// VATNumber valida un número de IVA irlandés (IE + 7 dígitos + 1-2 letras, o formato antiguo).
func VATNumber(vat string) error {
	if vat == "" || vatRe.MatchString(strings.ToUpper(vat)) {
		return nil
	}
	return ErrVAT
}

// IBAN valida un IBAN irlandés de 22 caracteres: IE, dígitos de control, código de banco
// (4 letras, o 4 dígitos en registros antiguos) y 14 dígitos. Se ignoran espacios y mayúsculas.
func IBAN(iban string) error {
	if iban == "" {
		return nil
	}
	clean := strings.ToUpper(strings.ReplaceAll(iban, " ", ""))
	if len(clean) == 22 && ibanRe.MatchString(clean) {
		return nil
	}
	return ErrIBAN
}

// Eircode valida un código postal irlandés.
func Eircode(code string) error {
	if code == "" || eircodeRe.MatchString(strings.ToUpper(code)) {
		return nil
	}
	return ErrEircode
}

// PositiveNumber valida que s sea un número >= 0.
func PositiveNumber(s string) error {
	n, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return ErrNumber
	}
	return NonNegative(n)
}

// NonNegative valida que n sea >= 0.
func NonNegative(n decimal.Decimal) error {
	if n.IsNegative() {
		return ErrNegative
	}
	return nil
}

// Percentage valida que n esté en [0, 100].
func Percentage(n decimal.Decimal) error {
	if n.IsNegative() || n.GreaterThan(decimal.NewFromInt(100)) {
		return errors.New("percentage must be between 0 and 100")
	}
	return nil
}

// Required valida que value no esté vacío ni sea solo espacios.
func Required(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// Field antepone el nombre del campo al error (nil si err es nil).
func Field(field string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", field, err)
}
