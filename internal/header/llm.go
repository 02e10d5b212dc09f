package header

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/invoice-pipeline/constants"
	"github.com/joseph-ayodele/invoice-pipeline/internal/confidence"
	"github.com/joseph-ayodele/invoice-pipeline/internal/llm"
)

// defaultLLMConfidence is assigned when the model omits its own confidence.
const defaultLLMConfidence = 0.8

// LLMExtractor is stage 4: language-model extraction, invoked only for
// fields every earlier stage failed on. A failing call yields no results;
// it never fails the document.
type LLMExtractor struct {
	client  llm.Client
	timeout time.Duration
	locale  string
	logger  *slog.Logger
}

func NewLLMExtractor(client llm.Client, timeout time.Duration, locale string, logger *slog.Logger) *LLMExtractor {
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LLMExtractor{client: client, timeout: timeout, locale: locale, logger: logger}
}

func (e *LLMExtractor) Stage() constants.Stage { return constants.StageLLM }

// Supports always reports true; the schema constrains the model per call.
func (e *LLMExtractor) Supports(constants.FieldType) bool { return true }

func (e *LLMExtractor) Extract(ctx context.Context, lines []string, fields []constants.FieldType) []ExtractionResult {
	if e.client == nil || len(fields) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	values, raw, err := e.client.ExtractFields(ctx, llm.ExtractRequest{
		OCRText: strings.Join(lines, "\n"),
		Fields:  fields,
		Locale:  e.locale,
	})
	if err != nil {
		e.logger.Warn("header.llm.extract_error", "error", err, "fields", len(fields))
		return nil
	}

	conf := modelConfidence(raw)
	results := make([]ExtractionResult, 0, len(values))
	for _, ft := range fields {
		value, ok := values[ft]
		if !ok || value == "" {
			continue
		}
		results = append(results, ExtractionResult{
			Field:      ft,
			Value:      value,
			Confidence: conf,
			Source:     constants.SourceLLM,
			Stage:      constants.StageLLM,
			Evidence:   map[string]any{"model_confidence": conf},
		})
	}
	return results
}

// modelConfidence reads the optional confidence the model reported in its
// sanitized JSON body.
func modelConfidence(raw []byte) float64 {
	var probe struct {
		Confidence *float64 `json:"confidence"`
	}
	if err := json.Unmarshal(raw, &probe); err == nil && probe.Confidence != nil {
		return confidence.Clamp(*probe.Confidence)
	}
	return defaultLLMConfidence
}
