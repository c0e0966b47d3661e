package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/commtrack/backend/internal/domain/commission"
	"github.com/commtrack/backend/internal/domain/shared"
	"github.com/commtrack/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormEntryRepository implements EntryRepository using GORM
type GormEntryRepository struct {
	db *gorm.DB
}

// NewGormEntryRepository creates a new GormEntryRepository
func NewGormEntryRepository(db *gorm.DB) *GormEntryRepository {
	return &GormEntryRepository{db: db}
}

// Create creates a new commission entry
func (r *GormEntryRepository) Create(ctx context.Context, entry *commission.Entry) error {
	model := models.EntryModelFromDomain(entry)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates an existing commission entry
func (r *GormEntryRepository) Update(ctx context.Context, entry *commission.Entry) error {
	model := models.EntryModelFromDomain(entry)
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a commission entry by ID
func (r *GormEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.EntryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a commission entry by ID
func (r *GormEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*commission.Entry, error) {
	var model models.EntryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOwners returns the entries of the given owners ordered by invoice
// month descending then creation time descending. An empty owner list
// returns all entries.
func (r *GormEntryRepository) FindByOwners(ctx context.Context, ownerIDs []uuid.UUID) ([]*commission.Entry, error) {
	query := r.db.WithContext(ctx).Model(&models.EntryModel{})
	if len(ownerIDs) > 0 {
		query = query.Where("owner_id IN ?", ownerIDs)
	}

	var entryModels []*models.EntryModel
	if err := query.
		Order("invoice_month desc").
		Order("created_at desc").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}

	entries := make([]*commission.Entry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = model.ToDomain()
	}
	return entries, nil
}

// ExistsByInvoiceNumber reports whether the owner already has an entry with
// the given invoice number, compared case-insensitively.
func (r *GormEntryRepository) ExistsByInvoiceNumber(ctx context.Context, ownerID uuid.UUID, invoiceNumber string) (bool, error) {
	if strings.TrimSpace(invoiceNumber) == "" {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.EntryModel{}).
		Where("owner_id = ?", ownerID).
		Where("LOWER(invoice_number) = ?", strings.ToLower(strings.TrimSpace(invoiceNumber))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Count returns the total number of commission entries
func (r *GormEntryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.EntryModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormEntryRepository implements EntryRepository
var _ commission.EntryRepository = (*GormEntryRepository)(nil)
