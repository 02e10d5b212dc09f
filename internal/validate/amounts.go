package validate

import (
	"fmt"
	"math"
	"sort"

	"github.com/joseph-ayodele/invoice-pipeline/constants"
)

// ValidateAmounts checks subtotal + vat = total within tolerance and rejects
// negative amounts. With subtotal or total missing the relationship cannot
// be checked and the fields pass at reduced confidence.
func ValidateAmounts(subtotal, vat, total *float64, tolerance float64) (bool, float64, []string) {
	if subtotal == nil || total == nil {
		return true, 0.9, nil
	}

	var errs []string
	v := 0.0
	if vat != nil {
		v = *vat
	}
	if diff := math.Abs(*subtotal + v - *total); diff > tolerance {
		errs = append(errs, fmt.Sprintf(
			"amount mismatch: %g + %g != %g (diff: %g)", *subtotal, v, *total, diff))
	}

	for _, f := range []struct {
		name  string
		value *float64
	}{
		{"subtotal", subtotal},
		{"vat", vat},
		{"total", total},
	} {
		if f.value != nil && *f.value < 0 {
			errs = append(errs, f.name+" should not be negative")
		}
	}

	if len(errs) > 0 {
		return false, 0.5, errs
	}
	return true, 1.0, nil
}

// Resolution is a suggested repair for an amount mismatch.
type Resolution struct {
	Target         constants.FieldType `json:"target"`
	SuggestedValue float64             `json:"suggested_value"`
	Confidence     float64             `json:"confidence"`
}

// ResolveAmountMismatch picks which amount field is most likely wrong. Each
// hypothesis recomputes one field from the other two and scores itself by
// the mean confidence of the two trusted fields.
func ResolveAmountMismatch(subtotal, vat, total float64, confidences map[constants.FieldType]float64) Resolution {
	conf := func(ft constants.FieldType) float64 {
		if c, ok := confidences[ft]; ok {
			return c
		}
		return 0.5
	}

	scenarios := []Resolution{
		{Target: constants.TotalAmount, SuggestedValue: subtotal + vat,
			Confidence: (conf(constants.Subtotal) + conf(constants.VAT)) / 2},
		{Target: constants.VAT, SuggestedValue: total - subtotal,
			Confidence: (conf(constants.Subtotal) + conf(constants.TotalAmount)) / 2},
		{Target: constants.Subtotal, SuggestedValue: total - vat,
			Confidence: (conf(constants.VAT) + conf(constants.TotalAmount)) / 2},
	}
	sort.SliceStable(scenarios, func(i, j int) bool {
		return scenarios[i].Confidence > scenarios[j].Confidence
	})
	return scenarios[0]
}
