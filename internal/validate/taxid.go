package validate

import (
	"fmt"
	"regexp"
)

var nonDigits = regexp.MustCompile(`\D`)

// NormalizeTaxID strips everything but digits.
func NormalizeTaxID(value string) string {
	return nonDigits.ReplaceAllString(value, "")
}

// ValidateTaxID checks a Thai tax identification number: 13 digits where the
// last is a checksum over the first twelve (weights 13 down to 2, mod 11).
func ValidateTaxID(value string) (bool, float64, string) {
	if value == "" {
		return false, 0.0, "tax ID is empty"
	}

	taxID := NormalizeTaxID(value)
	if len(taxID) != 13 {
		return false, 0.0, fmt.Sprintf("tax ID must be 13 digits, got %d", len(taxID))
	}

	sum := 0
	for i := 0; i < 12; i++ {
		sum += int(taxID[i]-'0') * (13 - i)
	}
	check := (11 - sum%11) % 10

	if int(taxID[12]-'0') != check {
		return false, 0.5, "tax ID checksum failed"
	}
	return true, 0.98, ""
}
