// Package export renders pipeline results as XLSX workbooks for reviewers.
package export

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/invoice-pipeline/constants"
	"github.com/joseph-ayodele/invoice-pipeline/internal/pipeline"
)

// Service produces XLSX bytes from processed documents.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

const (
	sheetFields    = "Header Fields"
	sheetLineItems = "Line Items"
	sheetDecisions = "Decisions"
)

// ExportResultsXLSX returns a workbook with one sheet of extracted header
// fields, one of table line items, and one of routing decisions.
func (s *Service) ExportResultsXLSX(results []*pipeline.Result) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	for _, sheet := range []string{sheetFields, sheetLineItems, sheetDecisions} {
		if index, _ := f.GetSheetIndex(sheet); index == -1 {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, err
			}
		}
	}
	// Drop the default sheet excelize creates.
	if index, _ := f.GetSheetIndex("Sheet1"); index != -1 {
		_ = f.DeleteSheet("Sheet1")
	}
	if index, _ := f.GetSheetIndex(sheetFields); index != -1 {
		f.SetActiveSheet(index)
	}

	write := func(sheet string, row, col int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
	writeRow := func(sheet string, row int, values ...any) {
		for i, v := range values {
			write(sheet, row, i+1, v)
		}
	}

	writeRow(sheetFields, 1, "Document ID", "Field", "Value", "Confidence", "Stage", "Needs Review")
	writeRow(sheetLineItems, 1, "Document ID", "Table", "Row", "Item", "Quantity", "Unit Price", "Amount", "Confidence")
	writeRow(sheetDecisions, 1, "Document ID", "Status", "Confidence", "Rule", "Flags", "Recommended Action", "Error")

	fieldRow, itemRow, decisionRow := 2, 2, 2
	for _, r := range results {
		if r == nil {
			continue
		}
		fieldRow = s.writeFields(writeRow, r, fieldRow)
		itemRow = s.writeLineItems(writeRow, r, itemRow)

		status, rule, flags, action := "", "", "", ""
		if r.Decision != nil {
			status = string(r.Decision.Status)
			rule = r.Decision.Rule
			flags = strings.Join(r.Decision.Flags, ", ")
			action = r.Decision.RecommendedAction
		}
		writeRow(sheetDecisions, decisionRow,
			r.DocumentID, status, r.Confidence, rule, flags, action, truncate(r.Error, 140))
		decisionRow++
	}

	_ = f.SetColWidth(sheetFields, "A", "A", 24)
	_ = f.SetColWidth(sheetFields, "B", "C", 28)
	_ = f.SetColWidth(sheetLineItems, "A", "A", 24)
	_ = f.SetColWidth(sheetLineItems, "D", "D", 32)
	_ = f.SetColWidth(sheetDecisions, "A", "A", 24)
	_ = f.SetColWidth(sheetDecisions, "E", "G", 32)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"documents", len(results),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func (s *Service) writeFields(writeRow func(string, int, ...any), r *pipeline.Result, row int) int {
	if r.Validation == nil {
		return row
	}
	review := map[string]bool{}
	for _, name := range r.Validation.Report.FieldsNeedingReview {
		review[name] = true
	}
	for _, ft := range constants.AllFieldTypes() {
		fv, ok := r.Validation.Fields[ft]
		if !ok {
			continue
		}
		stage := ""
		if r.Header != nil {
			if hr, ok := r.Header.Field(ft); ok {
				stage = string(hr.Stage)
			}
		}
		writeRow(sheetFields, row, r.DocumentID, string(ft), fv.Value, fv.Confidence, stage, review[string(ft)])
		row++
	}
	return row
}

func (s *Service) writeLineItems(writeRow func(string, int, ...any), r *pipeline.Result, row int) int {
	for ti, t := range r.Tables {
		if !t.TableFound {
			continue
		}
		for _, tr := range t.Rows {
			cell := func(col constants.StandardColumn) string {
				if c, ok := tr.Cells[col]; ok {
					return c.Value
				}
				return ""
			}
			writeRow(sheetLineItems, row,
				r.DocumentID, ti, tr.Index,
				cell(constants.ColItemName), cell(constants.ColQuantity),
				cell(constants.ColUnitPrice), cell(constants.ColAmount),
				tr.Confidence)
			row++
		}
	}
	return row
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
