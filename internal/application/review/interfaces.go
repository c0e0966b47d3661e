package review

import (
	"context"
	"errors"

	"github.com/commtrack/backend/internal/domain/review"
)

// ErrFileNotFound is returned by ObjectStorage when a key has no object
var ErrFileNotFound = errors.New("file not found")

// Extractor is the boundary to the invoice field extraction backend.
// Implementations receive the raw file bytes plus MIME type and return the
// structured fields or an error; a missing or unparsable response is an
// extraction failure, never a partial result.
type Extractor interface {
	Extract(ctx context.Context, image []byte, contentType string) (*review.RawInvoiceFields, error)
}

// ObjectStorage holds uploaded invoice files for the duration of the review
// session and beyond if a durable backend is configured.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, string, error)
	Delete(ctx context.Context, key string) error
}
