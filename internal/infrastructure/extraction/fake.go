package extraction

import (
	"context"
	"time"

	"github.com/commtrack/backend/internal/domain/review"
)

// FakeExtractor is a configurable extractor for development and tests.
// It returns the configured fields after an optional delay.
type FakeExtractor struct {
	Fields *review.RawInvoiceFields
	Err    error
	Delay  time.Duration
}

// Extract returns the configured result
func (f *FakeExtractor) Extract(ctx context.Context, image []byte, contentType string) (*review.RawInvoiceFields, error) {
	if f.Delay > 0 {
		select {
		case <-time.After(f.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.Err != nil {
		return nil, f.Err
	}
	if f.Fields != nil {
		copied := *f.Fields
		return &copied, nil
	}
	return &review.RawInvoiceFields{
		InvoiceNumber:   "INV-0001",
		Customer:        "Demo Customer",
		AmountBeforeVAT: "1000.00",
	}, nil
}
