// Package numbering asigna números de factura con el formato INV-<año>-<secuencia>.
//
// Allocate solo lee: no reserva el número. La unicidad bajo escritores concurrentes
// la garantiza la capa de almacenamiento (ver repository.InvoiceCreationRunner).
package numbering

import (
	"fmt"
	"strconv"
	"strings"
)

// Prefix prefijo común de todos los números de factura.
const Prefix = "INV"

// YearPrefix devuelve "INV-<año>-".
func YearPrefix(year int) string {
	return fmt.Sprintf("%s-%d-", Prefix, year)
}

// Format construye el número para year y seq. La secuencia se rellena a 3 dígitos
// y se ensancha sin error a partir de 1000.
func Format(year, seq int) string {
	return fmt.Sprintf("%s%03d", YearPrefix(year), seq)
}

// ParseSequence extrae la secuencia (segmento después del último '-').
func ParseSequence(number string) (int, bool) {
	i := strings.LastIndex(number, "-")
	if i < 0 {
		return 0, false
	}
	seq, err := strconv.Atoi(number[i+1:])
	if err != nil {
		return 0, false
	}
	return seq, true
}

// Allocate devuelve el siguiente número para year a partir de los números existentes.
// Los números de otros años se ignoran; los sufijos que no son enteros se omiten
// del cálculo del máximo.
func Allocate(existing []string, year int) string {
	prefix := YearPrefix(year)
	maxSeq := 0
	for _, n := range existing {
		if !strings.HasPrefix(n, prefix) {
			continue
		}
		seq, ok := ParseSequence(n)
		if !ok {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return Format(year, maxSeq+1)
}
