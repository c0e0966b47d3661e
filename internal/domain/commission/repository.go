package commission

import (
	"context"

	"github.com/google/uuid"
)

// EntryRepository defines persistence operations for commission entries
type EntryRepository interface {
	Create(ctx context.Context, entry *Entry) error
	Update(ctx context.Context, entry *Entry) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	// FindByOwners returns the entries of the given owners ordered by
	// invoice month descending then creation time descending.
	// An empty owner list means all entries.
	FindByOwners(ctx context.Context, ownerIDs []uuid.UUID) ([]*Entry, error)
	// ExistsByInvoiceNumber reports whether the owner already has an entry
	// with the given invoice number, compared case-insensitively.
	ExistsByInvoiceNumber(ctx context.Context, ownerID uuid.UUID, invoiceNumber string) (bool, error)
	Count(ctx context.Context) (int64, error)
}
