package validate

import (
	"math"
	"testing"
	"time"

	"github.com/joseph-ayodele/invoice-pipeline/constants"
	"github.com/joseph-ayodele/invoice-pipeline/internal/common"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine(common.ValidationConfig{AmountTolerance: 0.05}, nil)
	e.now = func() time.Time {
		return time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	}
	return e
}

func closeTo(got, want float64) bool {
	return math.Abs(got-want) < 1e-9
}

func TestValidateAndNormalizeField(t *testing.T) {
	e := newTestEngine(t)

	t.Run("buddhist date", func(t *testing.T) {
		r := e.ValidateAndNormalizeField(constants.InvoiceDate, "15/02/2567")
		if !r.IsValid || r.Status != constants.ValidationValid {
			t.Fatalf("valid Thai date rejected: %+v", r)
		}
		if r.NormalizedValue != "2024-02-15" {
			t.Errorf("normalized = %q, want 2024-02-15", r.NormalizedValue)
		}
		if !closeTo(r.ConfidenceAdjustment, 0.05) {
			t.Errorf("adjustment = %v, want 0.05", r.ConfidenceAdjustment)
		}
	})

	t.Run("future date", func(t *testing.T) {
		r := e.ValidateAndNormalizeField(constants.InvoiceDate, "01/01/2030")
		if r.IsValid || !r.NeedsReview {
			t.Fatalf("future date accepted: %+v", r)
		}
		if !closeTo(r.ConfidenceAdjustment, 0.2) {
			t.Errorf("adjustment = %v, want 0.2", r.ConfidenceAdjustment)
		}
	})

	t.Run("unparseable date", func(t *testing.T) {
		r := e.ValidateAndNormalizeField(constants.InvoiceDate, "sometime soon")
		if r.IsValid || !closeTo(r.ConfidenceAdjustment, 0.4) {
			t.Fatalf("unparseable date: %+v", r)
		}
	})

	t.Run("currency with grouping", func(t *testing.T) {
		r := e.ValidateAndNormalizeField(constants.TotalAmount, "฿1,070.00")
		if !r.IsValid {
			t.Fatalf("valid amount rejected: %+v", r)
		}
		if r.NormalizedValue != "1070.00" {
			t.Errorf("normalized = %q, want 1070.00", r.NormalizedValue)
		}
	})

	t.Run("tax id with separators", func(t *testing.T) {
		r := e.ValidateAndNormalizeField(constants.TaxID, "0-1055-43000-15-3")
		if !r.IsValid || r.NormalizedValue != "0105543000153" {
			t.Fatalf("valid tax ID rejected: %+v", r)
		}
	})

	t.Run("bad tax id checksum", func(t *testing.T) {
		r := e.ValidateAndNormalizeField(constants.TaxID, "0105543000154")
		if r.IsValid || !closeTo(r.ConfidenceAdjustment, 0.3) {
			t.Fatalf("bad checksum: %+v", r)
		}
	})

	t.Run("empty value", func(t *testing.T) {
		r := e.ValidateAndNormalizeField(constants.VendorName, "")
		if r.IsValid || !closeTo(r.ConfidenceAdjustment, 0.3) || !r.NeedsReview {
			t.Fatalf("empty value: %+v", r)
		}
	})

	t.Run("text is normalized", func(t *testing.T) {
		r := e.ValidateAndNormalizeField(constants.VendorName, "ＡＣＭＥ  Supplies")
		if !r.IsValid {
			t.Fatalf("text field rejected: %+v", r)
		}
		if r.NormalizedValue != "ACME Supplies" {
			t.Errorf("normalized = %q, want %q", r.NormalizedValue, "ACME Supplies")
		}
	})
}

func TestValidateDocumentFieldsConsistent(t *testing.T) {
	e := newTestEngine(t)
	fields := map[constants.FieldType]FieldValue{
		constants.VendorName:    {Value: "ACME Supplies Co., Ltd.", Confidence: 0.9},
		constants.InvoiceDate:   {Value: "15/02/2567", Confidence: 0.9},
		constants.TaxID:         {Value: "0105543000153", Confidence: 0.95},
		constants.Subtotal:      {Value: "1,000.00", Confidence: 0.9},
		constants.VAT:           {Value: "70.00", Confidence: 0.9},
		constants.TotalAmount:   {Value: "1,070.00", Confidence: 0.9},
		constants.InvoiceNumber: {Value: "INV-2024-001", Confidence: 0.85},
	}

	out := e.ValidateDocumentFields("doc-1", fields, nil)

	if !out.Report.OverallValid {
		t.Fatalf("consistent document marked invalid: %+v", out.Report)
	}
	if out.Report.ValidationCount != 7 || out.Report.InvalidCount != 0 {
		t.Errorf("counts = %d validated / %d invalid, want 7 / 0",
			out.Report.ValidationCount, out.Report.InvalidCount)
	}
	if len(out.Suggestions) != 0 {
		t.Errorf("unexpected suggestions: %+v", out.Suggestions)
	}

	if got := out.Fields[constants.InvoiceDate].Value; got != "2024-02-15" {
		t.Errorf("invoice_date = %q, want 2024-02-15", got)
	}
	if got := out.Fields[constants.TotalAmount].Value; got != "1070.00" {
		t.Errorf("total_amount = %q, want 1070.00", got)
	}

	// Parse confidence below 1.0 shaves the field confidence.
	if got := out.Fields[constants.InvoiceDate].Confidence; !closeTo(got, 0.85) {
		t.Errorf("invoice_date confidence = %v, want 0.85", got)
	}
	// A clean tax ID keeps its confidence.
	if got := out.Fields[constants.TaxID].Confidence; !closeTo(got, 0.95) {
		t.Errorf("tax_id confidence = %v, want 0.95", got)
	}
}

func TestValidateDocumentFieldsAmountMismatch(t *testing.T) {
	e := newTestEngine(t)
	fields := map[constants.FieldType]FieldValue{
		constants.Subtotal:    {Value: "1,000.00", Confidence: 0.9},
		constants.VAT:         {Value: "70.00", Confidence: 0.9},
		constants.TotalAmount: {Value: "1,170.00", Confidence: 0.4},
	}

	out := e.ValidateDocumentFields("doc-2", fields, nil)

	if out.Report.OverallValid {
		t.Fatal("mismatched amounts marked valid")
	}
	if len(out.Suggestions) != 1 {
		t.Fatalf("suggestions = %d, want 1", len(out.Suggestions))
	}
	s := out.Suggestions[0]
	if s.Reason != "amount_mismatch" {
		t.Errorf("reason = %q", s.Reason)
	}
	if s.BestGuess.Target != constants.TotalAmount {
		t.Errorf("repair target = %s, want %s", s.BestGuess.Target, constants.TotalAmount)
	}
	if !closeTo(s.BestGuess.SuggestedValue, 1070) {
		t.Errorf("suggested value = %v, want 1070", s.BestGuess.SuggestedValue)
	}

	found := false
	for _, f := range out.Report.FieldsNeedingReview {
		if f == "amount_relationship" {
			found = true
		}
	}
	if !found {
		t.Error("amount_relationship missing from fields needing review")
	}
	if out.Report.OverallConfidenceAdjustment <= 0.1 {
		t.Errorf("overall adjustment = %v, want > 0.1", out.Report.OverallConfidenceAdjustment)
	}
}

func TestValidateDocumentFieldsSchemaErrors(t *testing.T) {
	e := newTestEngine(t)
	schema := map[string]any{
		"type":     "object",
		"required": []any{"invoice_number"},
	}
	fields := map[constants.FieldType]FieldValue{
		constants.VendorName: {Value: "ACME", Confidence: 0.9},
	}

	out := e.ValidateDocumentFields("doc-3", fields, schema)
	if len(out.SchemaErrors) == 0 {
		t.Fatal("missing required field passed the schema check")
	}
	if out.Report.OverallValid {
		t.Error("schema violation did not invalidate the document")
	}
}

func TestValidateDocumentFieldsDeterministicOrder(t *testing.T) {
	e := newTestEngine(t)
	fields := map[constants.FieldType]FieldValue{
		constants.TotalAmount:   {Value: "100.00", Confidence: 0.9},
		constants.VendorName:    {Value: "ACME", Confidence: 0.9},
		constants.InvoiceNumber: {Value: "INV-1", Confidence: 0.9},
	}

	first := e.ValidateDocumentFields("doc-4", fields, nil)
	for i := 0; i < 5; i++ {
		again := e.ValidateDocumentFields("doc-4", fields, nil)
		for j, r := range again.Report.Results {
			if r.Field != first.Report.Results[j].Field {
				t.Fatalf("result order changed between runs: %v vs %v",
					r.Field, first.Report.Results[j].Field)
			}
		}
	}
}
