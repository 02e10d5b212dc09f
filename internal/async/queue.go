// Package async runs the document pipeline on a bounded worker pool for
// callers that want concurrent batch processing.
package async

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/invoice-pipeline/internal/ocr"
)

// Job is the smallest useful unit. Extend as needed later (locale overrides, trace, retry, etc).
type Job struct {
	Document    *ocr.Document
	SubmittedAt time.Time
	TraceID     string
}

// NewJob wraps a document with a fresh trace ID.
func NewJob(doc *ocr.Document) Job {
	return Job{Document: doc, SubmittedAt: time.Now(), TraceID: uuid.New().String()}
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
