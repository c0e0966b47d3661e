package review

import (
	"strings"
	"time"

	"github.com/commtrack/backend/internal/domain/commission"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// invoiceDateFormats are tried in order when parsing an extracted date
var invoiceDateFormats = []string{
	"2006-01-02",
	"02/01/2006",
	"02.01.2006",
	"January 2, 2006",
}

// Draft is an editable candidate entry produced by the review workflow,
// either from extracted fields or as a blank manual-entry record.
// CostBeforeVAT stays nil until the user fills it in or confirms a zero
// default at save time.
type Draft struct {
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
	Conversion      *commission.Conversion
	FileKey         string
}

// NewBlankDraft produces the manual-entry default: everything empty, the
// acting user's default rate, and the current month.
func NewBlankDraft(defaultRate decimal.Decimal, now time.Time) *Draft {
	return &Draft{
		CommissionRate: defaultRate,
		InvoiceMonth:   commission.FirstOfMonth(now),
	}
}

// NewDraftFromRaw maps extracted raw fields into a draft.
// The invoice date falls back to the first day of the current month when
// absent or unparsable, and is normalized to the first day of its month on
// success. Foreign amounts are converted through the rate table, keeping
// conversion metadata for display. Cost is always left blank.
func NewDraftFromRaw(raw *RawInvoiceFields, defaultRate decimal.Decimal, rates commission.RateTable, now time.Time) *Draft {
	extracted := parseInvoiceDate(raw.InvoiceDate, now)

	amount := decimal.Zero
	if raw.AmountBeforeVAT != "" {
		if d, err := decimal.NewFromString(strings.TrimSpace(raw.AmountBeforeVAT)); err == nil {
			amount = d
		}
	}
	converted, conversion := rates.Convert(amount, raw.CurrencyCode)

	draft := &Draft{
		InvoiceNumber:   strings.TrimSpace(raw.InvoiceNumber),
		ReceiptNumber:   strings.TrimSpace(raw.ReceiptNumber),
		Customer:        strings.TrimSpace(raw.Customer),
		Project:         strings.TrimSpace(raw.ProjectDescription),
		AmountBeforeVAT: converted,
		CommissionRate:  defaultRate,
		InvoiceMonth:    commission.FirstOfMonth(extracted),
		Conversion:      conversion,
	}

	// An extracted receipt number means the client already paid; surface the
	// extracted date (or its fallback) as the client-paid date. Status is
	// still assigned at save time from this date.
	if draft.ReceiptNumber != "" {
		paid := extracted
		draft.ClientPaidDate = &paid
	}

	return draft
}

// parseInvoiceDate returns the extracted date, falling back to the first day
// of the current month when the value is absent or unparsable.
func parseInvoiceDate(value string, now time.Time) time.Time {
	value = strings.TrimSpace(value)
	if value != "" {
		for _, layout := range invoiceDateFormats {
			if t, err := time.Parse(layout, value); err == nil {
				return t
			}
		}
	}
	return commission.FirstOfMonth(now)
}
