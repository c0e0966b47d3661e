package commission

import (
	"strings"
	"time"

	"github.com/commtrack/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the payment lifecycle of a commission entry
type Status string

const (
	StatusUnpaid   Status = "unpaid"   // Client has not paid yet
	StatusEligible Status = "eligible" // Client paid, company has not paid the freelancer
	StatusPaid     Status = "paid"     // Company paid the freelancer
)

// IsValid reports whether the status is one of the known values
func (s Status) IsValid() bool {
	switch s {
	case StatusUnpaid, StatusEligible, StatusPaid:
		return true
	}
	return false
}

var oneHundred = decimal.NewFromInt(100)

// Entry represents one invoice-derived commission record.
// NetTotal and NetToPay are derived fields, recomputed from amount, cost and
// rate on every mutation that touches them - never edited independently.
type Entry struct {
	shared.BaseAggregateRoot
	OwnerID         uuid.UUID
	InvoiceNumber   string
	ReceiptNumber   string
	Customer        string
	Project         string
	AmountBeforeVAT decimal.Decimal
	CostBeforeVAT   decimal.Decimal
	Tax             decimal.Decimal
	CommissionRate  decimal.Decimal // percent, 0-100
	NetTotal        decimal.Decimal
	NetToPay        decimal.Decimal
	InvoiceMonth    time.Time // normalized to the first day of the month
	ClientPaidDate  *time.Time
	CompanyPaidDate *time.Time
	Status          Status
	Note            string
	FileKey         string
}

// NewEntryInput contains the fields needed to create an entry
type NewEntryInput struct {
	OwnerID         uuid.UUID
	InvoiceNumber   string
	ReceiptNumber   string
	Customer        string
	Project         string
	AmountBeforeVAT decimal.Decimal
	CostBeforeVAT   decimal.Decimal
	Tax             decimal.Decimal
	CommissionRate  decimal.Decimal
	InvoiceMonth    time.Time
	ClientPaidDate  *time.Time
	Note            string
	FileKey         string
}

// NewEntry creates a commission entry with computed derived fields.
// Status is assigned from the client-paid date: set means eligible, absent
// means unpaid.
func NewEntry(input NewEntryInput) (*Entry, error) {
	if input.OwnerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Entry owner is required")
	}
	if strings.TrimSpace(input.InvoiceNumber) == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}

	status := StatusUnpaid
	if input.ClientPaidDate != nil {
		status = StatusEligible
	}

	e := &Entry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OwnerID:           input.OwnerID,
		InvoiceNumber:     strings.TrimSpace(input.InvoiceNumber),
		ReceiptNumber:     strings.TrimSpace(input.ReceiptNumber),
		Customer:          strings.TrimSpace(input.Customer),
		Project:           strings.TrimSpace(input.Project),
		AmountBeforeVAT:   input.AmountBeforeVAT,
		CostBeforeVAT:     input.CostBeforeVAT,
		Tax:               input.Tax,
		CommissionRate:    input.CommissionRate,
		InvoiceMonth:      FirstOfMonth(input.InvoiceMonth),
		ClientPaidDate:    input.ClientPaidDate,
		Status:            status,
		Note:              input.Note,
		FileKey:           input.FileKey,
	}
	e.recompute()

	return e, nil
}

// FirstOfMonth normalizes a date to the first day of its month
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// recompute refreshes the derived financial fields.
// No rounding here; display formatting rounds for presentation only.
func (e *Entry) recompute() {
	e.NetTotal = e.AmountBeforeVAT.Sub(e.CostBeforeVAT)
	e.NetToPay = e.NetTotal.Mul(e.CommissionRate).Div(oneHundred)
}

// RefreshDerived recomputes NetTotal and NetToPay from amount, cost and rate.
// Loading code calls it so the derived fields always follow the formula
// instead of the precision the storage happened to keep.
func (e *Entry) RefreshDerived() {
	e.recompute()
}

func (e *Entry) touch() {
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

// SetAmountBeforeVAT applies an inline edit to the invoice amount
func (e *Entry) SetAmountBeforeVAT(amount decimal.Decimal) {
	e.AmountBeforeVAT = amount
	e.recompute()
	e.touch()
}

// SetCostBeforeVAT applies an inline edit to the cost
func (e *Entry) SetCostBeforeVAT(cost decimal.Decimal) {
	e.CostBeforeVAT = cost
	e.recompute()
	e.touch()
}

// SetCommissionRate applies an inline edit to the commission rate
func (e *Entry) SetCommissionRate(rate decimal.Decimal) {
	e.CommissionRate = rate
	e.recompute()
	e.touch()
}

// SetTax applies an inline edit to the tax amount
func (e *Entry) SetTax(tax decimal.Decimal) {
	e.Tax = tax
	e.touch()
}

// SetInvoiceNumber applies an inline edit to the invoice number
func (e *Entry) SetInvoiceNumber(number string) {
	e.InvoiceNumber = strings.TrimSpace(number)
	e.touch()
}

// SetReceiptNumber applies an inline edit to the receipt number
func (e *Entry) SetReceiptNumber(number string) {
	e.ReceiptNumber = strings.TrimSpace(number)
	e.touch()
}

// SetCustomer applies an inline edit to the customer name
func (e *Entry) SetCustomer(customer string) {
	e.Customer = strings.TrimSpace(customer)
	e.touch()
}

// SetProject applies an inline edit to the project description
func (e *Entry) SetProject(project string) {
	e.Project = strings.TrimSpace(project)
	e.touch()
}

// SetNote applies an inline edit to the note
func (e *Entry) SetNote(note string) {
	e.Note = note
	e.touch()
}

// SetInvoiceMonth applies an inline edit to the invoice month,
// normalized to the first day of the month
func (e *Entry) SetInvoiceMonth(month time.Time) {
	e.InvoiceMonth = FirstOfMonth(month)
	e.touch()
}

// SetClientPaidDate applies a direct edit of the client-paid date.
// Setting a date while the entry is unpaid auto-transitions it to eligible.
// This side effect fires only on direct edits of this field.
func (e *Entry) SetClientPaidDate(date *time.Time) {
	e.ClientPaidDate = date
	if date != nil && e.Status == StatusUnpaid {
		e.Status = StatusEligible
	}
	e.touch()
}

// SetCompanyPaidDate applies a direct edit of the company-paid date
// with no status side effect
func (e *Entry) SetCompanyPaidDate(date *time.Time) {
	e.CompanyPaidDate = date
	e.touch()
}

// ChangeStatus applies a direct status edit. Explicit edits are authoritative
// and may move backward. Transitioning to paid requires a company-paid date:
// if none is stored and none is supplied, the change is abandoned and the
// entry is left untouched.
func (e *Entry) ChangeStatus(status Status, companyPaidDate *time.Time) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Status must be one of unpaid, eligible, paid")
	}

	if status == StatusPaid && e.CompanyPaidDate == nil {
		if companyPaidDate == nil {
			return shared.NewDomainError("COMPANY_PAID_DATE_REQUIRED",
				"Marking an entry paid requires the company-paid date")
		}
		e.CompanyPaidDate = companyPaidDate
	}

	e.Status = status
	e.touch()

	return nil
}

// Warnings reports validation issues on the current field values.
// Inline edits are applied even when invalid; the issues surface as
// feedback for correction-in-place rather than blocking the edit.
func (e *Entry) Warnings() []string {
	var warnings []string
	if e.AmountBeforeVAT.IsNegative() {
		warnings = append(warnings, "amount before VAT is negative")
	}
	if e.CostBeforeVAT.IsNegative() {
		warnings = append(warnings, "cost before VAT is negative")
	}
	if e.CommissionRate.IsNegative() || e.CommissionRate.GreaterThan(oneHundred) {
		warnings = append(warnings, "commission rate is outside 0-100")
	}
	if e.InvoiceNumber == "" {
		warnings = append(warnings, "invoice number is empty")
	}
	if e.Customer == "" {
		warnings = append(warnings, "customer is empty")
	}
	return warnings
}
