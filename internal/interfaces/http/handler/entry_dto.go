package handler

import (
	"time"

	"github.com/google/uuid"

	appcommission "github.com/commtrack/backend/internal/application/commission"
)

// dateLayout is the wire format for bare dates and invoice months
const dateLayout = "2006-01-02"

// EntryResponse represents a commission entry in responses.
// Money fields are serialized as fixed-point strings.
type EntryResponse struct {
	ID              uuid.UUID `json:"id"`
	OwnerID         uuid.UUID `json:"owner_id"`
	OwnerName       string    `json:"owner_name,omitempty"`
	InvoiceNumber   string    `json:"invoice_number"`
	ReceiptNumber   string    `json:"receipt_number,omitempty"`
	Customer        string    `json:"customer"`
	Project         string    `json:"project,omitempty"`
	AmountBeforeVAT string    `json:"amount_before_vat"`
	CostBeforeVAT   string    `json:"cost_before_vat"`
	Tax             string    `json:"tax"`
	CommissionRate  string    `json:"commission_rate"`
	NetTotal        string    `json:"net_total"`
	NetToPay        string    `json:"net_to_pay"`
	InvoiceMonth    string    `json:"invoice_month"`
	ClientPaidDate  string    `json:"client_paid_date,omitempty"`
	CompanyPaidDate string    `json:"company_paid_date,omitempty"`
	Status          string    `json:"status"`
	Note            string    `json:"note,omitempty"`
	FileKey         string    `json:"file_key,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toEntryResponse(e appcommission.EntryInfo) EntryResponse {
	return EntryResponse{
		ID:              e.ID,
		OwnerID:         e.OwnerID,
		OwnerName:       e.OwnerName,
		InvoiceNumber:   e.InvoiceNumber,
		ReceiptNumber:   e.ReceiptNumber,
		Customer:        e.Customer,
		Project:         e.Project,
		AmountBeforeVAT: e.AmountBeforeVAT.StringFixed(2),
		CostBeforeVAT:   e.CostBeforeVAT.StringFixed(2),
		Tax:             e.Tax.StringFixed(2),
		CommissionRate:  e.CommissionRate.String(),
		NetTotal:        e.NetTotal.StringFixed(2),
		NetToPay:        e.NetToPay.StringFixed(2),
		InvoiceMonth:    e.InvoiceMonth.Format("2006-01"),
		ClientPaidDate:  formatDatePtr(e.ClientPaidDate),
		CompanyPaidDate: formatDatePtr(e.CompanyPaidDate),
		Status:          string(e.Status),
		Note:            e.Note,
		FileKey:         e.FileKey,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func toEntryResponses(infos []appcommission.EntryInfo) []EntryResponse {
	out := make([]EntryResponse, len(infos))
	for i, info := range infos {
		out[i] = toEntryResponse(info)
	}
	return out
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

// ListEntriesRequest represents the list query parameters
type ListEntriesRequest struct {
	Search  string `form:"search"`
	Status  string `form:"status" binding:"omitempty,oneof=unpaid eligible paid"`
	Month   string `form:"month"`
	OwnerID string `form:"owner_id" binding:"omitempty,uuid"`
	Sort    string `form:"sort"`
	Desc    bool   `form:"desc"`
}

// CreateEntryRequest represents the entry creation request body.
// A null cost_before_vat is a blank cost and requires confirm_zero_cost; a
// duplicate invoice number requires confirm_duplicate.
type CreateEntryRequest struct {
	OwnerID          *string  `json:"owner_id" binding:"omitempty,uuid"`
	InvoiceNumber    string   `json:"invoice_number" binding:"required"`
	ReceiptNumber    string   `json:"receipt_number"`
	Customer         string   `json:"customer"`
	Project          string   `json:"project"`
	AmountBeforeVAT  float64  `json:"amount_before_vat"`
	CostBeforeVAT    *float64 `json:"cost_before_vat"`
	Tax              float64  `json:"tax"`
	CommissionRate   *float64 `json:"commission_rate"`
	InvoiceMonth     string   `json:"invoice_month" binding:"required"`
	ClientPaidDate   string   `json:"client_paid_date"`
	Note             string   `json:"note"`
	ConfirmZeroCost  bool     `json:"confirm_zero_cost"`
	ConfirmDuplicate bool     `json:"confirm_duplicate"`
}

// UpdateEntryRequest represents the inline edit request body; absent fields
// stay unchanged and the clear flags blank the paid dates
type UpdateEntryRequest struct {
	InvoiceNumber        *string  `json:"invoice_number"`
	ReceiptNumber        *string  `json:"receipt_number"`
	Customer             *string  `json:"customer"`
	Project              *string  `json:"project"`
	AmountBeforeVAT      *float64 `json:"amount_before_vat"`
	CostBeforeVAT        *float64 `json:"cost_before_vat"`
	Tax                  *float64 `json:"tax"`
	CommissionRate       *float64 `json:"commission_rate"`
	InvoiceMonth         *string  `json:"invoice_month"`
	ClientPaidDate       *string  `json:"client_paid_date"`
	ClearClientPaidDate  bool     `json:"clear_client_paid_date"`
	CompanyPaidDate      *string  `json:"company_paid_date"`
	ClearCompanyPaidDate bool     `json:"clear_company_paid_date"`
	Note                 *string  `json:"note"`
}

// UpdateEntryResponse pairs the updated entry with validation warnings
type UpdateEntryResponse struct {
	Entry    EntryResponse `json:"entry"`
	Warnings []string      `json:"warnings,omitempty"`
}

// ChangeStatusRequest represents the direct status edit request body
type ChangeStatusRequest struct {
	Status          string `json:"status" binding:"required,oneof=unpaid eligible paid"`
	CompanyPaidDate string `json:"company_paid_date"`
}
