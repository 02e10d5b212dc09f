package header

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/invoice-pipeline/constants"
	"github.com/joseph-ayodele/invoice-pipeline/internal/confidence"
)

// Prediction is one field value produced by an ML model.
type Prediction struct {
	Field      constants.FieldType
	Value      string
	Confidence float64
}

// Model is the pluggable inference backend for the ML stage. Implementations
// wrap whatever NER or token-classification model is deployed.
type Model interface {
	Predict(ctx context.Context, lines []string, fields []constants.FieldType) ([]Prediction, error)
}

// MLExtractor is stage 3: model-based extraction for documents the rule
// stages could not cover. With no model configured it is a no-op stage.
type MLExtractor struct {
	model  Model
	logger *slog.Logger
}

func NewMLExtractor(model Model, logger *slog.Logger) *MLExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &MLExtractor{model: model, logger: logger}
}

func (e *MLExtractor) Stage() constants.Stage { return constants.StageML }

// Supports always reports true; the model decides per document what it can
// predict.
func (e *MLExtractor) Supports(constants.FieldType) bool { return true }

// Extract runs the model on the remaining fields. Model errors degrade to an
// empty result set rather than failing the document.
func (e *MLExtractor) Extract(ctx context.Context, lines []string, fields []constants.FieldType) []ExtractionResult {
	if e.model == nil {
		return nil
	}
	preds, err := e.model.Predict(ctx, lines, fields)
	if err != nil {
		e.logger.Warn("header.ml.predict_error", "error", err, "fields", len(fields))
		return nil
	}

	results := make([]ExtractionResult, 0, len(preds))
	for _, p := range preds {
		results = append(results, ExtractionResult{
			Field:      p.Field,
			Value:      p.Value,
			Confidence: confidence.Clamp(p.Confidence),
			Source:     constants.SourceML,
			Stage:      constants.StageML,
			Evidence:   map[string]any{"model_confidence": p.Confidence},
		})
	}
	return results
}
