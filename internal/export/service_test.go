package export

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/invoice-pipeline/constants"
	"github.com/joseph-ayodele/invoice-pipeline/internal/pipeline"
	"github.com/joseph-ayodele/invoice-pipeline/internal/routing"
	"github.com/joseph-ayodele/invoice-pipeline/internal/table"
	"github.com/joseph-ayodele/invoice-pipeline/internal/validate"
)

func sampleResult() *pipeline.Result {
	return &pipeline.Result{
		DocumentID: "doc-1",
		Confidence: 0.91,
		Validation: &validate.DocumentResult{
			Report: &validate.Report{
				FieldsNeedingReview: []string{"vendor_name"},
			},
			Fields: map[constants.FieldType]validate.FieldValue{
				constants.InvoiceNumber: {Value: "INV-2024-001", Confidence: 0.95},
				constants.VendorName:    {Value: "ACME", Confidence: 0.55},
			},
		},
		Tables: []*table.Output{
			{
				TableFound: true,
				Rows: []table.Row{
					{
						Index:      0,
						Confidence: 0.92,
						Cells: map[constants.StandardColumn]table.Cell{
							constants.ColItemName: {Value: "Widget"},
							constants.ColQuantity: {Value: "2"},
						},
					},
				},
			},
		},
		Decision: &routing.DocumentDecision{
			DocumentID:        "doc-1",
			Rule:              "default",
			Status:            constants.Approved,
			Confidence:        0.91,
			RecommendedAction: "auto_process",
		},
	}
}

func TestExportResultsXLSX(t *testing.T) {
	svc := NewService(nil)

	out, err := svc.ExportResultsXLSX([]*pipeline.Result{sampleResult()})
	if err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("workbook does not open: %v", err)
	}
	defer f.Close()

	for _, sheet := range []string{sheetFields, sheetLineItems, sheetDecisions} {
		if index, _ := f.GetSheetIndex(sheet); index == -1 {
			t.Errorf("sheet %q missing", sheet)
		}
	}

	cell := func(sheet, ref string) string {
		v, err := f.GetCellValue(sheet, ref)
		if err != nil {
			t.Fatalf("read %s!%s: %v", sheet, ref, err)
		}
		return v
	}

	// Fields are written in canonical field order; invoice_number precedes
	// vendor_name.
	if got := cell(sheetFields, "B2"); got != "invoice_number" {
		t.Errorf("fields B2 = %q, want invoice_number", got)
	}
	if got := cell(sheetFields, "C2"); got != "INV-2024-001" {
		t.Errorf("fields C2 = %q", got)
	}
	if got := cell(sheetFields, "F3"); got != "TRUE" {
		t.Errorf("vendor_name review flag = %q, want TRUE", got)
	}

	if got := cell(sheetLineItems, "D2"); got != "Widget" {
		t.Errorf("line item D2 = %q, want Widget", got)
	}
	if got := cell(sheetLineItems, "E2"); got != "2" {
		t.Errorf("line item E2 = %q, want 2", got)
	}

	if got := cell(sheetDecisions, "B2"); got != "approved" {
		t.Errorf("decision B2 = %q, want approved", got)
	}
	if got := cell(sheetDecisions, "F2"); got != "auto_process" {
		t.Errorf("decision F2 = %q, want auto_process", got)
	}
}

func TestExportEmptyResults(t *testing.T) {
	out, err := NewService(nil).ExportResultsXLSX(nil)
	if err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("empty workbook does not open: %v", err)
	}
	defer f.Close()
	if got, _ := f.GetCellValue(sheetFields, "A1"); got != "Document ID" {
		t.Errorf("header A1 = %q", got)
	}
}
