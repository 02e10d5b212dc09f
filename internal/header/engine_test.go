package header

import (
	"context"
	"reflect"
	"testing"

	"github.com/joseph-ayodele/invoice-pipeline/constants"
	"github.com/joseph-ayodele/invoice-pipeline/internal/common"
	"github.com/joseph-ayodele/invoice-pipeline/internal/llm"
)

var structuredInvoice = []string{
	"From: ACME Trading Co., Ltd.",
	"Invoice Number: INV-2024-001",
	"Date: 15/02/2024",
	"Tax ID: 0105543000153",
	"Subtotal: 1,000.00",
	"VAT (7%): 70.00",
	"Total: 1,070.00",
}

func testEngine() *Engine {
	cfg := common.LoadConfig().Header
	return NewEngine(cfg, nil, nil, nil)
}

func TestExtractStructuredInvoice(t *testing.T) {
	out := testEngine().ExtractInvoiceHeader(context.Background(), structuredInvoice, nil)

	want := map[constants.FieldType]string{
		constants.InvoiceNumber: "INV-2024-001",
		constants.InvoiceDate:   "15/02/2024",
		constants.VendorName:    "ACME Trading Co., Ltd.",
		constants.TaxID:         "0105543000153",
		constants.Subtotal:      "1,000.00",
		constants.VAT:           "70.00",
		constants.TotalAmount:   "1,070.00",
	}
	for ft, wantVal := range want {
		r, ok := out.Field(ft)
		if !ok {
			t.Errorf("field %s not extracted", ft)
			continue
		}
		if r.Value != wantVal {
			t.Errorf("field %s = %q, want %q", ft, r.Value, wantVal)
		}
		if r.Stage != constants.StageTemplate {
			t.Errorf("field %s extracted at stage %s, want template", ft, r.Stage)
		}
	}
	if out.OverallConfidence <= 0.5 {
		t.Errorf("overall confidence = %v, want > 0.5", out.OverallConfidence)
	}
	if out.FinalStage != constants.StageTemplate {
		t.Errorf("final stage = %s, want template", out.FinalStage)
	}
}

func TestRegexFallbackWhenTemplateMisses(t *testing.T) {
	// No "Total:" label+value on one line, so the template stage fails and
	// the anchor stage must find the amount on the following line.
	lines := []string{"Total due", "1,070.00"}

	out := testEngine().ExtractInvoiceHeader(context.Background(), lines,
		[]constants.FieldType{constants.TotalAmount})

	r, ok := out.Field(constants.TotalAmount)
	if !ok {
		t.Fatal("total_amount not extracted")
	}
	if r.Value != "1,070.00" {
		t.Errorf("value = %q, want 1,070.00", r.Value)
	}
	if r.Stage != constants.StageRegex {
		t.Errorf("stage = %s, want regex", r.Stage)
	}
	if r.Confidence <= 0.4 {
		t.Errorf("confidence = %v, want > 0.4", r.Confidence)
	}
}

func TestEarlierStageWins(t *testing.T) {
	// Both the template and the anchor stage can extract the invoice number
	// here; the template result must stand and later stages must not rescore it.
	lines := []string{"Invoice Number: INV-77"}

	out := testEngine().ExtractInvoiceHeader(context.Background(), lines,
		[]constants.FieldType{constants.InvoiceNumber})

	r, ok := out.Field(constants.InvoiceNumber)
	if !ok {
		t.Fatal("invoice_number not extracted")
	}
	if r.Stage != constants.StageTemplate {
		t.Errorf("stage = %s, want template", r.Stage)
	}
	for _, cand := range out.AllResults {
		if cand.Stage == constants.StageRegex && cand.Field == constants.InvoiceNumber {
			t.Error("regex stage ran for a field already accepted by template")
		}
	}
}

func TestExtractionIsDeterministic(t *testing.T) {
	e := testEngine()
	first := e.ExtractInvoiceHeader(context.Background(), structuredInvoice, nil)
	second := e.ExtractInvoiceHeader(context.Background(), structuredInvoice, nil)

	if !reflect.DeepEqual(first.Fields, second.Fields) {
		t.Error("repeated extraction produced different fields")
	}
	if first.OverallConfidence != second.OverallConfidence {
		t.Errorf("overall confidence differs: %v vs %v",
			first.OverallConfidence, second.OverallConfidence)
	}
}

func TestEmptyInput(t *testing.T) {
	out := testEngine().ExtractInvoiceHeader(context.Background(), nil, nil)

	if len(out.Fields) != 0 {
		t.Errorf("fields = %d, want 0", len(out.Fields))
	}
	if out.OverallConfidence != 0 {
		t.Errorf("overall confidence = %v, want 0", out.OverallConfidence)
	}
}

type recordingClient struct {
	calls  int
	fields []constants.FieldType
	values map[constants.FieldType]string
}

func (c *recordingClient) ExtractFields(_ context.Context, req llm.ExtractRequest) (map[constants.FieldType]string, []byte, error) {
	c.calls++
	c.fields = append([]constants.FieldType(nil), req.Fields...)
	return c.values, []byte(`{"confidence":0.9}`), nil
}

func TestLLMStageFillsWeakFields(t *testing.T) {
	cfg := common.LoadConfig().Header
	cfg.EnableLLM = true
	cfg.LLMFallbackThreshold = 0.5

	client := &recordingClient{values: map[constants.FieldType]string{
		constants.VendorName: "ACME Trading Co., Ltd.",
	}}
	e := NewEngine(cfg, nil, NewLLMExtractor(client, 0, "th", nil), nil)

	// Nothing for the rule stages to anchor on, so the vendor field reaches
	// the model with no candidate at all.
	out := e.ExtractInvoiceHeader(context.Background(), []string{"lorem ipsum"},
		[]constants.FieldType{constants.VendorName})

	if client.calls != 1 {
		t.Fatalf("client calls = %d, want 1", client.calls)
	}
	if !reflect.DeepEqual(client.fields, []constants.FieldType{constants.VendorName}) {
		t.Errorf("requested fields = %v, want [vendor_name]", client.fields)
	}
	r, ok := out.Field(constants.VendorName)
	if !ok {
		t.Fatal("vendor_name not extracted")
	}
	if r.Stage != constants.StageLLM {
		t.Errorf("stage = %s, want llm", r.Stage)
	}
	if r.Confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9", r.Confidence)
	}
}

func TestLLMStageSkippedWhenNoFieldFallsBelowThreshold(t *testing.T) {
	cfg := common.LoadConfig().Header
	cfg.EnableLLM = true
	cfg.LLMFallbackThreshold = 0

	client := &recordingClient{values: map[constants.FieldType]string{
		constants.VendorName: "ACME",
	}}
	e := NewEngine(cfg, nil, NewLLMExtractor(client, 0, "th", nil), nil)

	out := e.ExtractInvoiceHeader(context.Background(), []string{"lorem ipsum"},
		[]constants.FieldType{constants.VendorName})

	if client.calls != 0 {
		t.Errorf("client calls = %d, want 0 with a zero fallback threshold", client.calls)
	}
	if _, ok := out.Field(constants.VendorName); ok {
		t.Error("vendor_name extracted even though the model was never asked")
	}
}

func TestFieldsBelowFallback(t *testing.T) {
	remaining := []constants.FieldType{constants.VendorName, constants.TotalAmount, constants.TaxID}
	results := []ExtractionResult{
		{Field: constants.VendorName, Confidence: 0.45, Stage: constants.StageRegex},
		{Field: constants.VendorName, Confidence: 0.30, Stage: constants.StageML},
		{Field: constants.TotalAmount, Confidence: 0.20, Stage: constants.StageRegex},
	}

	// The vendor's best candidate (0.45) clears the 0.4 bar; the total's does
	// not, and the tax ID has no candidate at all.
	got := fieldsBelowFallback(remaining, results, 0.4)
	want := []constants.FieldType{constants.TotalAmount, constants.TaxID}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("fieldsBelowFallback() = %v, want %v", got, want)
	}
}

type stubModel struct {
	preds []Prediction
}

func (m stubModel) Predict(_ context.Context, _ []string, _ []constants.FieldType) ([]Prediction, error) {
	return m.preds, nil
}

func TestMLStageFillsRemainingFields(t *testing.T) {
	cfg := common.LoadConfig().Header
	ml := NewMLExtractor(stubModel{preds: []Prediction{
		{Field: constants.VendorName, Value: "ACME", Confidence: 0.72},
	}}, nil)
	e := NewEngine(cfg, ml, nil, nil)

	// Nothing for the rule stages to anchor on.
	out := e.ExtractInvoiceHeader(context.Background(), []string{"lorem ipsum"},
		[]constants.FieldType{constants.VendorName})

	r, ok := out.Field(constants.VendorName)
	if !ok {
		t.Fatal("vendor_name not extracted by ML stage")
	}
	if r.Stage != constants.StageML {
		t.Errorf("stage = %s, want ml", r.Stage)
	}
	if r.Confidence != 0.72 {
		t.Errorf("confidence = %v, want 0.72", r.Confidence)
	}
}
