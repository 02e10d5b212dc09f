package table

import (
	"math"
	"testing"

	"github.com/joseph-ayodele/invoice-pipeline/constants"
)

func TestIsNumeric(t *testing.T) {
	var v NumericValidator

	tests := []struct {
		name     string
		in       string
		col      constants.StandardColumn
		wantOK   bool
		wantVal  float64
		wantConf float64
	}{
		{"grouped amount", "1,070.00", constants.ColAmount, true, 1070, 0.95},
		{"plain quantity", "2", constants.ColQuantity, true, 2, 0.95},
		{"amount with unit suffix", "99.50 THB", constants.ColUnitPrice, true, 99.50, 0.95},
		// Only commas are stripped before parsing, so a single period stays
		// the decimal point: "1.070" reads as 1.07, not 1070.
		{"single period three digits", "1.070", constants.ColAmount, true, 1.07, 0.95},
		{"not a number", "n/a", constants.ColAmount, false, 0, 0.1},
		{"empty cell", "", constants.ColQuantity, false, 0, 0.1},
		{"text column passes anything", "Widget #7", constants.ColItemName, true, 0, 0.9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, val, conf := v.IsNumeric(tt.in, tt.col)
			if ok != tt.wantOK {
				t.Fatalf("IsNumeric(%q, %s) ok = %v, want %v", tt.in, tt.col, ok, tt.wantOK)
			}
			if math.Abs(val-tt.wantVal) > 1e-9 {
				t.Errorf("value = %v, want %v", val, tt.wantVal)
			}
			if conf != tt.wantConf {
				t.Errorf("confidence = %v, want %v", conf, tt.wantConf)
			}
		})
	}
}

func TestValidateRow(t *testing.T) {
	var v NumericValidator

	ok, details := v.ValidateRow(map[constants.StandardColumn]string{
		constants.ColItemName: "Widget",
		constants.ColQuantity: "2",
		constants.ColAmount:   "1,070.00",
	})
	if !ok {
		t.Fatalf("valid row rejected: %v", details.Errors)
	}
	if details.ValidFields != 3 || details.InvalidFields != 0 {
		t.Errorf("tally = %d/%d, want 3/0", details.ValidFields, details.InvalidFields)
	}

	ok, details = v.ValidateRow(map[constants.StandardColumn]string{
		constants.ColItemName: "Widget",
		constants.ColQuantity: "two",
	})
	if ok {
		t.Fatal("row with a non-numeric quantity passed")
	}
	if details.InvalidFields != 1 || len(details.Errors) != 1 {
		t.Errorf("tally = %d invalid, %d errors, want 1/1", details.InvalidFields, len(details.Errors))
	}
}
