package table

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/invoice-pipeline/constants"
)

var numberFragment = regexp.MustCompile(`[\d.,]+`)

// NumericValidator checks cell values against their column's expected type.
type NumericValidator struct{}

// IsNumeric validates a cell for its standard column. For numeric columns it
// returns the parsed value; text columns always pass.
func (NumericValidator) IsNumeric(text string, col constants.StandardColumn) (bool, float64, float64) {
	text = strings.TrimSpace(text)

	switch col {
	case constants.ColItemName, constants.ColDescription:
		return true, 0, 0.9
	case constants.ColQuantity, constants.ColUnitPrice, constants.ColAmount:
		m := numberFragment.FindString(text)
		if m == "" {
			return false, 0, 0.1
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
		if err != nil {
			return false, 0, 0.1
		}
		return true, v, 0.95
	}
	return true, 0, 0.9
}

// ValidateRow validates every cell of a row and reports the tally.
func (v NumericValidator) ValidateRow(cells map[constants.StandardColumn]string) (bool, RowValidation) {
	var details RowValidation
	for col, text := range cells {
		ok, _, _ := v.IsNumeric(text, col)
		if ok {
			details.ValidFields++
		} else {
			details.InvalidFields++
			details.Errors = append(details.Errors, fmt.Sprintf("%s: '%s' is not numeric", col, text))
		}
	}
	return details.InvalidFields == 0, details
}
