package commission

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/commtrack/backend/internal/domain/commission"
)

// EntryInfo is the commission entry view returned to callers
type EntryInfo struct {
	ID              uuid.UUID
	OwnerID         uuid.UUID
	OwnerName       string
	InvoiceNumber   string
	ReceiptNumber   string
	Customer        string
	Project         string
	AmountBeforeVAT decimal.Decimal
	CostBeforeVAT   decimal.Decimal
	Tax             decimal.Decimal
	CommissionRate  decimal.Decimal
	NetTotal        decimal.Decimal
	NetToPay        decimal.Decimal
	InvoiceMonth    time.Time
	ClientPaidDate  *time.Time
	CompanyPaidDate *time.Time
	Status          commission.Status
	Note            string
	FileKey         string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewEntryInfo builds the view from a domain entry
func NewEntryInfo(e *commission.Entry, ownerName string) EntryInfo {
	return EntryInfo{
		ID:              e.ID,
		OwnerID:         e.OwnerID,
		OwnerName:       ownerName,
		InvoiceNumber:   e.InvoiceNumber,
		ReceiptNumber:   e.ReceiptNumber,
		Customer:        e.Customer,
		Project:         e.Project,
		AmountBeforeVAT: e.AmountBeforeVAT,
		CostBeforeVAT:   e.CostBeforeVAT,
		Tax:             e.Tax,
		CommissionRate:  e.CommissionRate,
		NetTotal:        e.NetTotal,
		NetToPay:        e.NetToPay,
		InvoiceMonth:    e.InvoiceMonth,
		ClientPaidDate:  e.ClientPaidDate,
		CompanyPaidDate: e.CompanyPaidDate,
		Status:          e.Status,
		Note:            e.Note,
		FileKey:         e.FileKey,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

// ListInput carries the filter and sort state for a list request
type ListInput struct {
	Search      string
	Status      *commission.Status
	MonthPrefix string
	OwnerID     *uuid.UUID
	SortKey     commission.SortKey
	SortDesc    bool
}

// ListResult is the filtered, sorted view of visible entries.
// MultipleOwners reports whether the view spans more than one owner,
// which drives the owner column in exports.
type ListResult struct {
	Entries        []EntryInfo
	MultipleOwners bool
}

// CreateEntryInput contains the fields for creating an entry.
// A nil OwnerID means the acting user. A nil CostBeforeVAT is a blank cost
// and trips the zero-cost confirmation gate. A nil CommissionRate falls back
// to the owner's default rate.
type CreateEntryInput struct {
	OwnerID          *uuid.UUID
	InvoiceNumber    string
	ReceiptNumber    string
	Customer         string
	Project          string
	AmountBeforeVAT  decimal.Decimal
	CostBeforeVAT    *decimal.Decimal
	Tax              decimal.Decimal
	CommissionRate   *decimal.Decimal
	InvoiceMonth     time.Time
	ClientPaidDate   *time.Time
	Note             string
	FileKey          string
	ConfirmZeroCost  bool
	ConfirmDuplicate bool
}

// UpdateEntryInput contains inline edits; nil fields stay unchanged.
// The paid dates are cleared with the explicit clear flags since a nil
// pointer already means "leave untouched".
type UpdateEntryInput struct {
	InvoiceNumber        *string
	ReceiptNumber        *string
	Customer             *string
	Project              *string
	AmountBeforeVAT      *decimal.Decimal
	CostBeforeVAT        *decimal.Decimal
	Tax                  *decimal.Decimal
	CommissionRate       *decimal.Decimal
	InvoiceMonth         *time.Time
	ClientPaidDate       *time.Time
	ClearClientPaidDate  bool
	CompanyPaidDate      *time.Time
	ClearCompanyPaidDate bool
	Note                 *string
}

// UpdateResult pairs the updated entry with field-level warnings.
// Warnings never block the edit; they flag values to correct in place.
type UpdateResult struct {
	Entry    EntryInfo
	Warnings []string
}

// ChangeStatusInput contains a direct status edit
type ChangeStatusInput struct {
	Status          commission.Status
	CompanyPaidDate *time.Time
}
