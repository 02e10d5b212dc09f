package llm

import (
	"context"

	"github.com/joseph-ayodele/invoice-pipeline/constants"
)

// ExtractRequest carries the document text and the set of header fields the
// caller still needs values for.
type ExtractRequest struct {
	OCRText    string
	Fields     []constants.FieldType
	DocumentID string

	// Locale hints passed through to the prompt. Thai invoices carry Buddhist
	// calendar dates and Thai digits, so the model needs to know.
	Locale          string
	DefaultCurrency string
}

// Client is the interface the header extraction pipeline depends on. The
// returned map contains only fields the model actually produced; raw is the
// sanitized JSON body for audit logging.
type Client interface {
	ExtractFields(ctx context.Context, req ExtractRequest) (map[constants.FieldType]string, []byte, error)
}
