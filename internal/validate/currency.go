package validate

import (
	"strconv"
	"strings"
)

var currencySymbols = strings.NewReplacer(
	"$", "", "₽", "", "€", "", "¥", "", "₹", "", "£", "", "฿", "",
)

// NormalizeCurrency parses a currency string into a float, handling Thai
// digits, currency symbols, and both US (1,000.50) and European (1.000,50)
// separator conventions. The rule for ambiguous inputs: exactly two digits
// after the last separator means that separator is the decimal point.
func NormalizeCurrency(text string) (float64, float64, bool) {
	if strings.TrimSpace(text) == "" {
		return 0, 0, false
	}

	text = ConvertThaiDigits(text)
	text = currencySymbols.Replace(text)
	text = strings.ReplaceAll(text, " ", "")

	commas := strings.Count(text, ",")
	periods := strings.Count(text, ".")

	switch {
	case commas > 0 && periods > 0:
		if strings.LastIndex(text, ".") > strings.LastIndex(text, ",") {
			// period is the decimal point
			text = strings.ReplaceAll(text, ",", "")
		} else {
			// comma is the decimal point
			text = strings.ReplaceAll(text, ".", "")
			text = strings.ReplaceAll(text, ",", ".")
		}
	case commas > 0:
		afterLast := text[strings.LastIndex(text, ",")+1:]
		if len(afterLast) == 2 {
			// European: 1.000,50
			text = strings.ReplaceAll(text, ".", "")
			text = strings.ReplaceAll(text, ",", ".")
		} else {
			// US grouping: 1,000
			text = strings.ReplaceAll(text, ",", "")
		}
	case periods > 1:
		// multiple periods are grouping separators
		text = strings.ReplaceAll(text, ".", "")
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, 0, false
	}

	conf := 0.95
	if value == 0 {
		conf = 0.7
	}
	return value, conf, true
}
