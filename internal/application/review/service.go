package review

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appcommission "github.com/commtrack/backend/internal/application/commission"
	"github.com/commtrack/backend/internal/domain/commission"
	"github.com/commtrack/backend/internal/domain/identity"
	"github.com/commtrack/backend/internal/domain/review"
	"github.com/commtrack/backend/internal/domain/shared"
)

// acceptedContentTypes are the upload MIME types the extraction backend
// can consume
var acceptedContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// Service runs the invoice review workflow: it owns the in-memory upload
// queue, drives the per-item extraction pipelines and commits reviewed
// drafts as commission entries.
//
// Queue items are independent state machines. All map and item access goes
// through a single mutex; the extraction pipeline runs outside the lock and
// re-enters it only to write state transitions back. There are no ordering
// guarantees across items.
type Service struct {
	mu    sync.Mutex
	items map[uuid.UUID]*review.UploadItem

	extractor   Extractor
	storage     ObjectStorage
	entries     *appcommission.EntryService
	profileRepo identity.ProfileRepository
	rates       commission.RateTable

	extractTimeout time.Duration
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewService creates a review service
func NewService(
	extractor Extractor,
	storage ObjectStorage,
	entries *appcommission.EntryService,
	profileRepo identity.ProfileRepository,
	extractTimeout time.Duration,
	maxUploadBytes int64,
	logger *zap.Logger,
) *Service {
	return &Service{
		items:          make(map[uuid.UUID]*review.UploadItem),
		extractor:      extractor,
		storage:        storage,
		entries:        entries,
		profileRepo:    profileRepo,
		rates:          commission.DefaultRates,
		extractTimeout: extractTimeout,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Upload accepts an invoice file, queues it and starts its extraction
// pipeline. The call returns as soon as the file is stored; extraction
// progress is polled through List or Get.
func (s *Service) Upload(ctx context.Context, ownerID uuid.UUID, fileName, contentType string, data []byte) (*ItemView, error) {
	if len(data) == 0 {
		return nil, shared.NewDomainError("EMPTY_FILE", "Uploaded file is empty")
	}
	if s.maxUploadBytes > 0 && int64(len(data)) > s.maxUploadBytes {
		return nil, shared.NewDomainError("FILE_TOO_LARGE",
			fmt.Sprintf("Uploaded file exceeds the %d byte limit", s.maxUploadBytes))
	}
	if !acceptedContentTypes[contentType] {
		return nil, shared.NewDomainError("UNSUPPORTED_FILE_TYPE",
			"Only JPEG, PNG, WebP and PDF uploads are supported")
	}

	item := review.NewUploadItem(ownerID, fileName, contentType, int64(len(data)))
	item.FileKey = fmt.Sprintf("uploads/%s/%s", item.ID, fileName)

	if err := s.storage.Put(ctx, item.FileKey, data, contentType); err != nil {
		s.logger.Error("Failed to store uploaded file", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to store uploaded file")
	}

	s.mu.Lock()
	s.items[item.ID] = item
	view := NewItemView(item)
	s.mu.Unlock()

	go s.runPipeline(item.ID)

	return &view, nil
}

// List returns the actor's queue items, oldest first
func (s *Service) List(_ context.Context, ownerID uuid.UUID) []ItemView {
	s.mu.Lock()
	defer s.mu.Unlock()

	var views []ItemView
	for _, item := range s.items {
		if item.OwnerID == ownerID {
			views = append(views, NewItemView(item))
		}
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].CreatedAt.Before(views[j].CreatedAt)
	})
	return views
}

// Get returns one queue item
func (s *Service) Get(_ context.Context, ownerID, itemID uuid.UUID) (*ItemView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.ownedItemLocked(ownerID, itemID)
	if err != nil {
		return nil, err
	}
	view := NewItemView(item)
	return &view, nil
}

// Retry restarts a failed item's pipeline from scratch. The previous result
// and error are discarded; there is no partial resume.
func (s *Service) Retry(_ context.Context, ownerID, itemID uuid.UUID) (*ItemView, error) {
	s.mu.Lock()
	item, err := s.ownedItemLocked(ownerID, itemID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if err := item.Reset(); err != nil {
		s.mu.Unlock()
		return nil, shared.NewDomainError("NOT_RETRYABLE", "Only failed items can be retried")
	}
	view := NewItemView(item)
	s.mu.Unlock()

	go s.runPipeline(itemID)

	return &view, nil
}

// Remove drops an item from the queue and deletes its stored file unless
// the item was already saved as an entry, in which case the file stays
// attached to that entry.
func (s *Service) Remove(ctx context.Context, ownerID, itemID uuid.UUID) error {
	s.mu.Lock()
	item, err := s.ownedItemLocked(ownerID, itemID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	delete(s.items, itemID)
	fileKey := item.FileKey
	saved := item.Saved
	s.mu.Unlock()

	if !saved && fileKey != "" {
		if err := s.storage.Delete(ctx, fileKey); err != nil {
			s.logger.Warn("Failed to delete stored file",
				zap.String("file_key", fileKey), zap.Error(err))
		}
	}
	return nil
}

// File returns the stored bytes of an item's uploaded file for preview
func (s *Service) File(ctx context.Context, ownerID, itemID uuid.UUID) ([]byte, string, error) {
	s.mu.Lock()
	item, err := s.ownedItemLocked(ownerID, itemID)
	if err != nil {
		s.mu.Unlock()
		return nil, "", err
	}
	fileKey := item.FileKey
	s.mu.Unlock()

	return s.storage.Get(ctx, fileKey)
}

// Draft returns the prefilled editable draft for a ready item
func (s *Service) Draft(ctx context.Context, ownerID, itemID uuid.UUID) (*DraftView, error) {
	s.mu.Lock()
	item, err := s.ownedItemLocked(ownerID, itemID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if item.Status != review.UploadStatusReady || item.Fields == nil {
		s.mu.Unlock()
		return nil, shared.NewDomainError("ITEM_NOT_READY", "Extraction has not produced fields for this item")
	}
	fields := *item.Fields
	s.mu.Unlock()

	rate, err := s.defaultRate(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	draft := review.NewDraftFromRaw(&fields, rate, s.rates, time.Now())
	draft.ItemID = &itemID
	view := NewDraftView(draft)
	return &view, nil
}

// BlankDraft returns the manual-entry default draft
func (s *Service) BlankDraft(ctx context.Context, ownerID uuid.UUID) (*DraftView, error) {
	rate, err := s.defaultRate(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	view := NewDraftView(review.NewBlankDraft(rate, time.Now()))
	return &view, nil
}

// SaveEntry commits one reviewed item as a commission entry. The save
// confirmation gates apply downstream; a passing save locks the item
// read-only.
func (s *Service) SaveEntry(ctx context.Context, ownerID, itemID uuid.UUID, input SaveEntryInput) (*appcommission.EntryInfo, error) {
	s.mu.Lock()
	item, err := s.ownedItemLocked(ownerID, itemID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if item.Saved {
		s.mu.Unlock()
		return nil, shared.NewDomainError("ALREADY_SAVED", "Line item was already saved")
	}
	if item.Status != review.UploadStatusReady {
		s.mu.Unlock()
		return nil, shared.NewDomainError("ITEM_NOT_READY", "Only reviewed items can be saved")
	}
	fileKey := item.FileKey
	s.mu.Unlock()

	info, err := s.entries.Create(ctx, ownerID, appcommission.CreateEntryInput{
		InvoiceNumber:    input.InvoiceNumber,
		ReceiptNumber:    input.ReceiptNumber,
		Customer:         input.Customer,
		Project:          input.Project,
		AmountBeforeVAT:  input.AmountBeforeVAT,
		CostBeforeVAT:    input.CostBeforeVAT,
		Tax:              input.Tax,
		CommissionRate:   input.CommissionRate,
		InvoiceMonth:     input.InvoiceMonth,
		ClientPaidDate:   input.ClientPaidDate,
		Note:             input.Note,
		FileKey:          fileKey,
		ConfirmZeroCost:  input.ConfirmZeroCost,
		ConfirmDuplicate: input.ConfirmDuplicate,
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if item, ok := s.items[itemID]; ok {
		if err := item.MarkSaved(info.ID); err != nil {
			s.logger.Warn("Failed to mark item saved",
				zap.String("item_id", itemID.String()), zap.Error(err))
		}
	}
	s.mu.Unlock()

	return info, nil
}

// runPipeline drives one item through parsing. It runs on its own goroutine
// with a fresh timeout context so the originating request's cancellation
// does not abort extraction.
func (s *Service) runPipeline(itemID uuid.UUID) {
	s.mu.Lock()
	item, ok := s.items[itemID]
	if !ok {
		s.mu.Unlock()
		return
	}
	if err := item.StartParsing(); err != nil {
		s.mu.Unlock()
		return
	}
	fileKey := item.FileKey
	contentType := item.ContentType
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.extractTimeout)
	defer cancel()

	data, _, err := s.storage.Get(ctx, fileKey)
	if err != nil {
		s.failItem(itemID, "stored file could not be read")
		return
	}

	fields, err := s.extractor.Extract(ctx, data, contentType)
	if err != nil {
		s.logger.Warn("Extraction failed",
			zap.String("item_id", itemID.String()), zap.Error(err))
		reason := "could not extract invoice fields"
		if ctx.Err() == context.DeadlineExceeded {
			reason = "extraction timed out"
		}
		s.failItem(itemID, reason)
		return
	}

	s.mu.Lock()
	if item, ok := s.items[itemID]; ok {
		if err := item.MarkReady(fields); err != nil {
			s.logger.Warn("Stale pipeline result dropped",
				zap.String("item_id", itemID.String()), zap.Error(err))
		}
	}
	s.mu.Unlock()
}

// failItem moves an item to the error state if it still exists
func (s *Service) failItem(itemID uuid.UUID, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item, ok := s.items[itemID]; ok {
		item.MarkError(reason)
	}
}

// ownedItemLocked fetches an item and verifies ownership. Callers hold s.mu.
func (s *Service) ownedItemLocked(ownerID, itemID uuid.UUID) (*review.UploadItem, error) {
	item, ok := s.items[itemID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if item.OwnerID != ownerID {
		return nil, shared.ErrForbidden
	}
	return item, nil
}

// defaultRate loads the owner's default commission rate
func (s *Service) defaultRate(ctx context.Context, ownerID uuid.UUID) (rate decimal.Decimal, err error) {
	owner, err := s.profileRepo.FindByID(ctx, ownerID)
	if err != nil {
		return decimal.Zero, err
	}
	return owner.DefaultCommissionRate, nil
}
