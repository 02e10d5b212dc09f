package header

import (
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/invoice-pipeline/constants"
	"github.com/joseph-ayodele/invoice-pipeline/internal/common"
)

// Engine orchestrates the extraction stages. Each stage only sees fields no
// earlier stage has accepted, so acceptance is monotone across the pipeline.
type Engine struct {
	template *TemplateExtractor
	regex    *RegexAnchorExtractor
	ml       *MLExtractor
	llm      *LLMExtractor
	cfg      common.HeaderConfig
	logger   *slog.Logger
}

// NewEngine wires the four stages. ml and llm may be nil; the corresponding
// stages then contribute nothing.
func NewEngine(cfg common.HeaderConfig, ml *MLExtractor, llmStage *LLMExtractor, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		template: NewTemplateExtractor(),
		regex:    NewRegexAnchorExtractor(cfg.ProximityWindow),
		ml:       ml,
		llm:      llmStage,
		cfg:      cfg,
		logger:   logger,
	}
}

// acceptThreshold is the per-stage minimum confidence for accepting a result.
func (e *Engine) acceptThreshold(stage constants.Stage) float64 {
	switch stage {
	case constants.StageTemplate:
		return e.cfg.TemplateThreshold
	case constants.StageRegex:
		return e.cfg.RegexThreshold
	case constants.StageML:
		return e.cfg.MLThreshold
	case constants.StageLLM:
		return e.cfg.LLMThreshold
	}
	return 1.0
}

// ExtractInvoiceHeader runs the pipeline over the OCR lines. A nil or empty
// fields slice means all known header fields. Empty input yields an empty
// output, not an error.
func (e *Engine) ExtractInvoiceHeader(ctx context.Context, lines []string, fields []constants.FieldType) *Output {
	start := time.Now()
	if len(fields) == 0 {
		fields = constants.AllFieldTypes()
	}

	accepted := make(map[constants.FieldType]ExtractionResult)
	var allResults []ExtractionResult
	remaining := make([]constants.FieldType, len(fields))
	copy(remaining, fields)

	for _, stage := range constants.StageOrder() {
		if len(remaining) == 0 {
			break
		}
		extractor := e.extractorFor(stage)
		if extractor == nil {
			continue
		}
		wanted := remaining
		if stage == constants.StageLLM {
			if !e.cfg.EnableLLM {
				continue
			}
			// The LLM only sees fields the cheaper stages left with weak
			// candidates. Fields already close to acceptance stay with
			// their best rule-based candidate.
			wanted = fieldsBelowFallback(remaining, allResults, e.cfg.LLMFallbackThreshold)
			if len(wanted) == 0 {
				e.logger.Debug("header.llm_skipped", "remaining", len(remaining))
				continue
			}
		}

		threshold := e.acceptThreshold(stage)
		results := extractor.Extract(ctx, lines, wanted)
		for _, r := range results {
			allResults = append(allResults, r)
			if r.Confidence > threshold {
				accepted[r.Field] = r
				remaining = removeField(remaining, r.Field)
			}
		}

		e.logger.Debug("header.stage_done",
			"stage", string(stage),
			"candidates", len(results),
			"accepted", len(accepted),
			"remaining", len(remaining),
		)
	}

	out := &Output{
		Fields:            accepted,
		OverallConfidence: overallConfidence(accepted),
		FinalStage:        finalStage(allResults),
		ProcessingTimeMS:  float64(time.Since(start).Microseconds()) / 1000.0,
		AllResults:        allResults,
	}

	e.logger.Info("header.extracted",
		"fields", len(accepted),
		"missing", len(remaining),
		"overall_confidence", out.OverallConfidence,
		"final_stage", string(out.FinalStage),
	)
	return out
}

func (e *Engine) extractorFor(stage constants.Stage) FieldExtractor {
	switch stage {
	case constants.StageTemplate:
		if e.template != nil {
			return e.template
		}
	case constants.StageRegex:
		if e.regex != nil {
			return e.regex
		}
	case constants.StageML:
		if e.ml != nil {
			return e.ml
		}
	case constants.StageLLM:
		if e.llm != nil {
			return e.llm
		}
	}
	return nil
}

// fieldsBelowFallback keeps the fields whose best candidate so far falls
// below the fallback threshold. A field no stage produced a candidate for
// counts as confidence zero.
func fieldsBelowFallback(remaining []constants.FieldType, results []ExtractionResult, fallback float64) []constants.FieldType {
	best := make(map[constants.FieldType]float64, len(remaining))
	for _, r := range results {
		if r.Confidence > best[r.Field] {
			best[r.Field] = r.Confidence
		}
	}
	var out []constants.FieldType
	for _, f := range remaining {
		if best[f] < fallback {
			out = append(out, f)
		}
	}
	return out
}

func removeField(fields []constants.FieldType, ft constants.FieldType) []constants.FieldType {
	out := fields[:0]
	for _, f := range fields {
		if f != ft {
			out = append(out, f)
		}
	}
	return out
}

func overallConfidence(fields map[constants.FieldType]ExtractionResult) float64 {
	if len(fields) == 0 {
		return 0
	}
	var sum float64
	for _, r := range fields {
		sum += r.Confidence
	}
	return sum / float64(len(fields))
}

// finalStage is the latest stage that produced any candidate.
func finalStage(results []ExtractionResult) constants.Stage {
	latest := constants.StageTemplate
	for _, r := range results {
		if r.Stage.Later(latest) {
			latest = r.Stage
		}
	}
	return latest
}
