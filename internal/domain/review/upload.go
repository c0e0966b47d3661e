package review

import (
	"time"

	"github.com/commtrack/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UploadStatus represents the lifecycle of one queued invoice file
type UploadStatus string

const (
	UploadStatusUploading UploadStatus = "uploading"
	UploadStatusParsing   UploadStatus = "parsing"
	UploadStatusReady     UploadStatus = "ready"
	UploadStatusError     UploadStatus = "error"
)

// RawInvoiceFields is the structured record returned by the extraction
// boundary. InvoiceNumber and AmountBeforeVAT are required; everything else
// is best effort.
type RawInvoiceFields struct {
	InvoiceNumber      string `json:"invoice_number"`
	ReceiptNumber      string `json:"receipt_number,omitempty"`
	Customer           string `json:"customer,omitempty"`
	AmountBeforeVAT    string `json:"amount_before_vat"`
	CurrencyCode       string `json:"currency_code,omitempty"`
	InvoiceDate        string `json:"invoice_date,omitempty"`
	ProjectDescription string `json:"project_description,omitempty"`
}

// UploadItem tracks one file's upload/extraction progress for the duration
// of a review session. Items are transient: they live in memory only and
// each one is an independent state machine owning its own status and result.
type UploadItem struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	FileName    string
	ContentType string
	Size        int64
	FileKey     string
	Status      UploadStatus
	Fields      *RawInvoiceFields
	ErrorReason string
	Attempts    int
	Saved       bool
	EntryID     *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewUploadItem creates a queue item in the uploading state
func NewUploadItem(ownerID uuid.UUID, fileName, contentType string, size int64) *UploadItem {
	now := time.Now()
	return &UploadItem{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
		Status:      UploadStatusUploading,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// StartParsing moves the item from uploading to parsing
func (u *UploadItem) StartParsing() error {
	if u.Status != UploadStatusUploading {
		return shared.ErrInvalidState
	}
	u.Status = UploadStatusParsing
	u.Attempts++
	u.UpdatedAt = time.Now()
	return nil
}

// MarkReady stores the extraction result and moves the item to ready
func (u *UploadItem) MarkReady(fields *RawInvoiceFields) error {
	if u.Status != UploadStatusParsing {
		return shared.ErrInvalidState
	}
	u.Status = UploadStatusReady
	u.Fields = fields
	u.ErrorReason = ""
	u.UpdatedAt = time.Now()
	return nil
}

// MarkError moves the item to the error state with a human-readable reason
func (u *UploadItem) MarkError(reason string) {
	u.Status = UploadStatusError
	u.ErrorReason = reason
	u.Fields = nil
	u.UpdatedAt = time.Now()
}

// Reset restarts the item's pipeline from the beginning for a retry.
// There is no partial resume: result and error are discarded.
func (u *UploadItem) Reset() error {
	if u.Status != UploadStatusError {
		return shared.ErrInvalidState
	}
	u.Status = UploadStatusUploading
	u.Fields = nil
	u.ErrorReason = ""
	u.UpdatedAt = time.Now()
	return nil
}

// MarkSaved locks the item after its draft was committed as an entry
func (u *UploadItem) MarkSaved(entryID uuid.UUID) error {
	if u.Saved {
		return shared.NewDomainError("ALREADY_SAVED", "Line item was already saved")
	}
	u.Saved = true
	u.EntryID = &entryID
	u.UpdatedAt = time.Now()
	return nil
}
