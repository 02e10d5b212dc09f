package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/invoice-pipeline/constants"
	"github.com/joseph-ayodele/invoice-pipeline/internal/common"
	"github.com/joseph-ayodele/invoice-pipeline/internal/confidence"
	"github.com/joseph-ayodele/invoice-pipeline/internal/header"
	"github.com/joseph-ayodele/invoice-pipeline/internal/llm"
	"github.com/joseph-ayodele/invoice-pipeline/internal/ocr"
	"github.com/joseph-ayodele/invoice-pipeline/internal/routing"
	"github.com/joseph-ayodele/invoice-pipeline/internal/table"
	"github.com/joseph-ayodele/invoice-pipeline/internal/validate"
)

// Processor runs a document through header extraction, table extraction,
// validation, and routing. It holds no per-document state and is safe to use
// from multiple goroutines.
type Processor struct {
	cfg       *common.Config
	headerEng *header.Engine
	tableEng  *table.Engine
	validator *validate.Engine
	router    *routing.Service
	logger    *slog.Logger
}

// NewProcessor wires the engines from one configuration. llmClient may be
// nil, which disables the LLM stage regardless of configuration. router may
// be nil, in which case a service over the built-in rules is used.
func NewProcessor(cfg *common.Config, llmClient llm.Client, router *routing.Service, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if router == nil {
		router = routing.NewService(nil, nil, logger)
	}

	var llmStage *header.LLMExtractor
	if llmClient != nil && cfg.Header.EnableLLM {
		llmStage = header.NewLLMExtractor(llmClient, cfg.LLM.Timeout, "th", logger)
	}

	return &Processor{
		cfg:       cfg,
		headerEng: header.NewEngine(cfg.Header, header.NewMLExtractor(nil, logger), llmStage, logger),
		tableEng:  table.NewEngine(cfg.Table, logger),
		validator: validate.NewEngine(cfg.Valid, logger),
		router:    router,
		logger:    logger,
	}
}

// Router exposes the routing service so callers can manage rules.
func (p *Processor) Router() *routing.Service { return p.router }

// ProcessDocument runs the full pipeline over one OCR document.
func (p *Processor) ProcessDocument(ctx context.Context, doc *ocr.Document) (*Result, error) {
	if doc == nil {
		return nil, common.NewAppError("PIPELINE_INPUT", "nil document", common.ErrInvalidInput)
	}
	start := time.Now()
	p.logger.Info("pipeline.document_start", "document_id", doc.ID,
		"lines", len(doc.Lines), "boxes", len(doc.Boxes))

	result := &Result{
		DocumentID:    doc.ID,
		OCRConfidence: ocr.DocumentConfidence(doc),
	}

	// Fold fullwidth forms and collapse whitespace before the rule stages see
	// the text; OCR output mixes widths freely.
	lines := doc.Texts()
	for i := range lines {
		lines[i] = validate.NormalizeText(lines[i])
	}

	headerOut := p.headerEng.ExtractInvoiceHeader(ctx, lines, constants.AllFieldTypes())
	result.Header = headerOut

	fields := make(map[constants.FieldType]validate.FieldValue, len(headerOut.Fields))
	for ft, r := range headerOut.Fields {
		fields[ft] = validate.FieldValue{Value: r.Value, Confidence: r.Confidence}
	}
	result.Validation = p.validator.ValidateDocumentFields(doc.ID, fields, nil)

	if len(doc.Boxes) > 0 {
		result.Tables = p.tableEng.ExtractTables(doc.Boxes)
	}

	result.Confidence = p.documentConfidence(result)

	components, err := p.routeComponents(result)
	if err != nil {
		return nil, err
	}
	decision, err := p.router.RouteDocument(p.cfg.Routing.DefaultRule, doc.ID, result.Confidence, components)
	if err != nil {
		return nil, err
	}
	result.Decision = decision

	result.ProcessingTimeMS = float64(time.Since(start).Microseconds()) / 1000.0
	p.logger.Info("pipeline.document_done",
		"document_id", doc.ID,
		"status", decision.Status,
		"confidence", result.Confidence,
		"fields", len(result.Validation.Fields),
		"tables", len(result.Tables),
		"duration_ms", result.ProcessingTimeMS,
	)
	return result, nil
}

// documentConfidence blends the header confidence (after validation
// adjustments) with the mean table confidence when tables are present.
func (p *Processor) documentConfidence(r *Result) float64 {
	headerConf := r.Header.OverallConfidence
	if r.Validation != nil {
		headerConf -= r.Validation.Report.OverallConfidenceAdjustment
	}
	headerConf = confidence.Clamp(headerConf)

	var tableConfs []float64
	for _, t := range r.Tables {
		if t.TableFound {
			tableConfs = append(tableConfs, t.OverallConfidence)
		}
	}
	if len(tableConfs) == 0 {
		return headerConf
	}
	return confidence.Clamp(0.6*headerConf + 0.4*confidence.Mean(tableConfs))
}

func (p *Processor) routeComponents(r *Result) ([]routing.ComponentDecision, error) {
	ruleName := p.cfg.Routing.DefaultRule

	fieldConfs := make(map[constants.FieldType]float64, len(r.Validation.Fields))
	for ft, fv := range r.Validation.Fields {
		fieldConfs[ft] = fv.Confidence
	}
	components, err := p.router.RouteHeaderFields(ruleName, fieldConfs)
	if err != nil {
		return nil, err
	}

	for _, t := range r.Tables {
		if !t.TableFound {
			continue
		}
		rows, err := p.router.RouteTableRows(ruleName, t.RowConfidences)
		if err != nil {
			return nil, err
		}
		components = append(components, rows...)
	}
	return components, nil
}

// ProcessBatch runs the pipeline over each document independently. A panic
// or error in one item is recorded on its slot and never aborts the batch.
func (p *Processor) ProcessBatch(ctx context.Context, docs []*ocr.Document) []*Result {
	results := make([]*Result, len(docs))
	for i, doc := range docs {
		results[i] = p.processSafely(ctx, doc)
	}
	return results
}

func (p *Processor) processSafely(ctx context.Context, doc *ocr.Document) (result *Result) {
	id := ""
	if doc != nil {
		id = doc.ID
	}
	defer func() {
		if rec := recover(); rec != nil {
			p.logger.Error("pipeline.document_panic", "document_id", id, "panic", fmt.Sprint(rec))
			result = &Result{DocumentID: id, Failed: true, Error: fmt.Sprintf("panic: %v", rec)}
		}
	}()

	result, err := p.ProcessDocument(ctx, doc)
	if err != nil {
		p.logger.Error("pipeline.document_failed", "document_id", id, "error", err)
		return &Result{DocumentID: id, Failed: true, Error: err.Error()}
	}
	return result
}
