package review

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/commtrack/backend/internal/domain/review"
)

// ItemView is the upload queue item view returned to callers
type ItemView struct {
	ID          uuid.UUID
	FileName    string
	ContentType string
	Size        int64
	Status      review.UploadStatus
	Fields      *review.RawInvoiceFields
	ErrorReason string
	Attempts    int
	Saved       bool
	EntryID     *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewItemView builds the view from a queue item
func NewItemView(item *review.UploadItem) ItemView {
	view := ItemView{
		ID:          item.ID,
		FileName:    item.FileName,
		ContentType: item.ContentType,
		Size:        item.Size,
		Status:      item.Status,
		ErrorReason: item.ErrorReason,
		Attempts:    item.Attempts,
		Saved:       item.Saved,
		EntryID:     item.EntryID,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
	if item.Fields != nil {
		fields := *item.Fields
		view.Fields = &fields
	}
	return view
}

// ConversionView carries the display metadata of a currency conversion
type ConversionView struct {
	OriginalAmount   decimal.Decimal
	OriginalCurrency string
	Rate             decimal.Decimal
}

// DraftView is the prefilled, editable candidate entry for one queue item
// or for a blank manual entry
type DraftView struct {
	ItemID          *uuid.UUID
	InvoiceNumber   string
	ReceiptNumber   string
	Customer        string
	Project         string
	AmountBeforeVAT decimal.Decimal
	CostBeforeVAT   *decimal.Decimal
	Tax             decimal.Decimal
	CommissionRate  decimal.Decimal
	InvoiceMonth    time.Time
	ClientPaidDate  *time.Time
	Conversion      *ConversionView
}

// NewDraftView builds the view from a domain draft
func NewDraftView(d *review.Draft) DraftView {
	view := DraftView{
		ItemID:          d.ItemID,
		InvoiceNumber:   d.InvoiceNumber,
		ReceiptNumber:   d.ReceiptNumber,
		Customer:        d.Customer,
		Project:         d.Project,
		AmountBeforeVAT: d.AmountBeforeVAT,
		CostBeforeVAT:   d.CostBeforeVAT,
		Tax:             d.Tax,
		CommissionRate:  d.CommissionRate,
		InvoiceMonth:    d.InvoiceMonth,
		ClientPaidDate:  d.ClientPaidDate,
	}
	if d.Conversion != nil {
		view.Conversion = &ConversionView{
			OriginalAmount:   d.Conversion.Original.Amount(),
			OriginalCurrency: string(d.Conversion.Original.Currency()),
			Rate:             d.Conversion.Rate,
		}
	}
	return view
}

// SaveEntryInput carries the reviewed, possibly edited draft values for
// committing one queue item as a commission entry. A nil CostBeforeVAT is a
// blank cost and trips the zero-cost confirmation gate downstream; a nil
// CommissionRate falls back to the owner's default rate.
type SaveEntryInput struct {
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
	ConfirmZeroCost  bool
	ConfirmDuplicate bool
}
