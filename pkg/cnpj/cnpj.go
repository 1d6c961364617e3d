// Package cnpj normalizes and structurally validates company tax identifiers.
package cnpj

import "strings"

// Length is the digit count of a normalized CNPJ.
const Length = 14

// Clean strips every non-digit character from the input. It is total: any
// input, including the empty string, yields a (possibly empty) digit string.
func Clean(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValid reports whether the cleaned identifier has exactly 14 digits.
// This is a structural check only; no check-digit verification is performed.
func IsValid(cleaned string) bool {
	if len(cleaned) != Length {
		return false
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
