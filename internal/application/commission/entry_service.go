package commission

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/commtrack/backend/internal/domain/commission"
	"github.com/commtrack/backend/internal/domain/identity"
	"github.com/commtrack/backend/internal/domain/shared"
)

// Confirmation gates returned when a create or delete needs an explicit
// user acknowledgement before it proceeds.
const (
	GateZeroCost         = "ZERO_COST"
	GateDuplicateInvoice = "DUPLICATE_INVOICE"
	GateDeleteEntry      = "DELETE_ENTRY"
)

// EntryService handles commission entry operations.
// Every path resolves the actor's visibility scope first; ownership checks
// and the confirmation gates live here rather than in the handlers.
type EntryService struct {
	entryRepo   commission.EntryRepository
	profileRepo identity.ProfileRepository
	scopes      *ScopeResolver
	logger      *zap.Logger
}

// NewEntryService creates a new entry service
func NewEntryService(
	entryRepo commission.EntryRepository,
	profileRepo identity.ProfileRepository,
	scopes *ScopeResolver,
	logger *zap.Logger,
) *EntryService {
	return &EntryService{
		entryRepo:   entryRepo,
		profileRepo: profileRepo,
		scopes:      scopes,
		logger:      logger,
	}
}

// List returns the actor's visible entries, filtered and sorted
func (s *EntryService) List(ctx context.Context, actorID uuid.UUID, input ListInput) (*ListResult, error) {
	scope, err := s.scopes.Resolve(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if input.OwnerID != nil && !scope.CanSee(*input.OwnerID) {
		return nil, shared.ErrForbidden
	}

	entries, err := s.entryRepo.FindByOwners(ctx, scope.OwnerIDs)
	if err != nil {
		s.logger.Error("Failed to load entries", zap.Error(err))
		return nil, err
	}

	entries = commission.ApplyFilter(entries, commission.Filter{
		Search:      input.Search,
		Status:      input.Status,
		MonthPrefix: input.MonthPrefix,
		OwnerID:     input.OwnerID,
	})
	commission.ApplySort(entries, commission.Sort{Key: input.SortKey, Desc: input.SortDesc})

	names, err := s.ownerNames(ctx, entries)
	if err != nil {
		return nil, err
	}

	result := &ListResult{Entries: make([]EntryInfo, len(entries))}
	owners := make(map[uuid.UUID]bool)
	for i, e := range entries {
		result.Entries[i] = NewEntryInfo(e, names[e.OwnerID])
		owners[e.OwnerID] = true
	}
	result.MultipleOwners = len(owners) > 1

	return result, nil
}

// Get returns a single visible entry
func (s *EntryService) Get(ctx context.Context, actorID, entryID uuid.UUID) (*EntryInfo, error) {
	entry, _, err := s.visibleEntry(ctx, actorID, entryID)
	if err != nil {
		return nil, err
	}

	owner, err := s.profileRepo.FindByID(ctx, entry.OwnerID)
	if err != nil {
		return nil, err
	}

	info := NewEntryInfo(entry, owner.DisplayName)
	return &info, nil
}

// Create creates a commission entry after the confirmation gates pass.
// A blank cost needs the zero-cost confirmation and defaults to zero; a
// duplicate invoice number for the same owner needs the add-anyway
// confirmation. Neither gate ever hard-rejects.
func (s *EntryService) Create(ctx context.Context, actorID uuid.UUID, input CreateEntryInput) (*EntryInfo, error) {
	scope, err := s.scopes.Resolve(ctx, actorID)
	if err != nil {
		return nil, err
	}

	ownerID := scope.Actor.ID
	if input.OwnerID != nil {
		if !scope.CanSee(*input.OwnerID) {
			return nil, shared.ErrForbidden
		}
		ownerID = *input.OwnerID
	}

	owner := scope.Actor
	if ownerID != scope.Actor.ID {
		if owner, err = s.profileRepo.FindByID(ctx, ownerID); err != nil {
			return nil, err
		}
	}

	cost := decimal.Zero
	if input.CostBeforeVAT != nil {
		cost = *input.CostBeforeVAT
	} else if !input.ConfirmZeroCost {
		return nil, shared.NewConfirmationError(GateZeroCost,
			"Cost is blank and will default to zero")
	}

	duplicate, err := s.entryRepo.ExistsByInvoiceNumber(ctx, ownerID, input.InvoiceNumber)
	if err != nil {
		return nil, err
	}
	if duplicate && !input.ConfirmDuplicate {
		return nil, shared.NewConfirmationError(GateDuplicateInvoice,
			"An entry with this invoice number already exists for this owner")
	}

	rate := owner.DefaultCommissionRate
	if input.CommissionRate != nil {
		rate = *input.CommissionRate
	}

	entry, err := commission.NewEntry(commission.NewEntryInput{
		OwnerID:         ownerID,
		InvoiceNumber:   input.InvoiceNumber,
		ReceiptNumber:   input.ReceiptNumber,
		Customer:        input.Customer,
		Project:         input.Project,
		AmountBeforeVAT: input.AmountBeforeVAT,
		CostBeforeVAT:   cost,
		Tax:             input.Tax,
		CommissionRate:  rate,
		InvoiceMonth:    input.InvoiceMonth,
		ClientPaidDate:  input.ClientPaidDate,
		Note:            input.Note,
		FileKey:         input.FileKey,
	})
	if err != nil {
		return nil, err
	}

	if err := s.entryRepo.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to create entry", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Entry created",
		zap.String("entry_id", entry.ID.String()),
		zap.String("owner_id", ownerID.String()),
		zap.String("invoice_number", entry.InvoiceNumber),
	)

	info := NewEntryInfo(entry, owner.DisplayName)
	return &info, nil
}

// Update applies inline edits. Invalid values are applied anyway and come
// back as warnings so the caller can correct them in place.
func (s *EntryService) Update(ctx context.Context, actorID, entryID uuid.UUID, input UpdateEntryInput) (*UpdateResult, error) {
	entry, _, err := s.visibleEntry(ctx, actorID, entryID)
	if err != nil {
		return nil, err
	}

	if input.InvoiceNumber != nil {
		entry.SetInvoiceNumber(*input.InvoiceNumber)
	}
	if input.ReceiptNumber != nil {
		entry.SetReceiptNumber(*input.ReceiptNumber)
	}
	if input.Customer != nil {
		entry.SetCustomer(*input.Customer)
	}
	if input.Project != nil {
		entry.SetProject(*input.Project)
	}
	if input.AmountBeforeVAT != nil {
		entry.SetAmountBeforeVAT(*input.AmountBeforeVAT)
	}
	if input.CostBeforeVAT != nil {
		entry.SetCostBeforeVAT(*input.CostBeforeVAT)
	}
	if input.Tax != nil {
		entry.SetTax(*input.Tax)
	}
	if input.CommissionRate != nil {
		entry.SetCommissionRate(*input.CommissionRate)
	}
	if input.InvoiceMonth != nil {
		entry.SetInvoiceMonth(*input.InvoiceMonth)
	}
	if input.ClearClientPaidDate {
		entry.SetClientPaidDate(nil)
	} else if input.ClientPaidDate != nil {
		entry.SetClientPaidDate(input.ClientPaidDate)
	}
	if input.ClearCompanyPaidDate {
		entry.SetCompanyPaidDate(nil)
	} else if input.CompanyPaidDate != nil {
		entry.SetCompanyPaidDate(input.CompanyPaidDate)
	}
	if input.Note != nil {
		entry.SetNote(*input.Note)
	}

	if err := s.entryRepo.Update(ctx, entry); err != nil {
		s.logger.Error("Failed to update entry", zap.Error(err))
		return nil, err
	}

	owner, err := s.profileRepo.FindByID(ctx, entry.OwnerID)
	if err != nil {
		return nil, err
	}

	return &UpdateResult{
		Entry:    NewEntryInfo(entry, owner.DisplayName),
		Warnings: entry.Warnings(),
	}, nil
}

// ChangeStatus applies a direct status edit
func (s *EntryService) ChangeStatus(ctx context.Context, actorID, entryID uuid.UUID, input ChangeStatusInput) (*EntryInfo, error) {
	entry, _, err := s.visibleEntry(ctx, actorID, entryID)
	if err != nil {
		return nil, err
	}

	if err := entry.ChangeStatus(input.Status, input.CompanyPaidDate); err != nil {
		return nil, err
	}

	if err := s.entryRepo.Update(ctx, entry); err != nil {
		s.logger.Error("Failed to update entry status", zap.Error(err))
		return nil, err
	}

	owner, err := s.profileRepo.FindByID(ctx, entry.OwnerID)
	if err != nil {
		return nil, err
	}

	info := NewEntryInfo(entry, owner.DisplayName)
	return &info, nil
}

// Delete removes an entry. Deletion is irreversible and needs the confirm
// flag set.
func (s *EntryService) Delete(ctx context.Context, actorID, entryID uuid.UUID, confirm bool) error {
	entry, _, err := s.visibleEntry(ctx, actorID, entryID)
	if err != nil {
		return err
	}

	if !confirm {
		return shared.NewConfirmationError(GateDeleteEntry,
			"Deleting an entry is irreversible")
	}

	if err := s.entryRepo.Delete(ctx, entry.ID); err != nil {
		s.logger.Error("Failed to delete entry", zap.Error(err))
		return err
	}

	s.logger.Info("Entry deleted",
		zap.String("entry_id", entry.ID.String()),
		zap.String("actor_id", actorID.String()),
	)

	return nil
}

// visibleEntry loads an entry and verifies it falls inside the actor's scope
func (s *EntryService) visibleEntry(ctx context.Context, actorID, entryID uuid.UUID) (*commission.Entry, *Scope, error) {
	scope, err := s.scopes.Resolve(ctx, actorID)
	if err != nil {
		return nil, nil, err
	}

	entry, err := s.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		return nil, nil, err
	}

	if !scope.CanSee(entry.OwnerID) {
		return nil, nil, shared.ErrForbidden
	}

	return entry, scope, nil
}

// ownerNames resolves the display names for the owners in the entry set
func (s *EntryService) ownerNames(ctx context.Context, entries []*commission.Entry) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string)
	for _, e := range entries {
		if _, ok := names[e.OwnerID]; ok {
			continue
		}
		owner, err := s.profileRepo.FindByID(ctx, e.OwnerID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				names[e.OwnerID] = ""
				continue
			}
			return nil, err
		}
		names[e.OwnerID] = owner.DisplayName
	}
	return names, nil
}
