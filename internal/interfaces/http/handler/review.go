package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appreview "github.com/commtrack/backend/internal/application/review"
	"github.com/commtrack/backend/internal/domain/review"
)

// UploadItemResponse represents one review queue item in responses
type UploadItemResponse struct {
	ID          uuid.UUID                `json:"id"`
	FileName    string                   `json:"file_name"`
	ContentType string                   `json:"content_type"`
	Size        int64                    `json:"size"`
	Status      string                   `json:"status"`
	Fields      *review.RawInvoiceFields `json:"fields,omitempty"`
	ErrorReason string                   `json:"error_reason,omitempty"`
	Attempts    int                      `json:"attempts"`
	Saved       bool                     `json:"saved"`
	EntryID     *uuid.UUID               `json:"entry_id,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

func toUploadItemResponse(item appreview.ItemView) UploadItemResponse {
	return UploadItemResponse{
		ID:          item.ID,
		FileName:    item.FileName,
		ContentType: item.ContentType,
		Size:        item.Size,
		Status:      string(item.Status),
		Fields:      item.Fields,
		ErrorReason: item.ErrorReason,
		Attempts:    item.Attempts,
		Saved:       item.Saved,
		EntryID:     item.EntryID,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

// ConversionResponse carries the display metadata of a currency conversion
type ConversionResponse struct {
	OriginalAmount   string `json:"original_amount"`
	OriginalCurrency string `json:"original_currency"`
	Rate             string `json:"rate"`
}

// DraftResponse represents a prefilled candidate entry awaiting review
type DraftResponse struct {
	ItemID          *uuid.UUID          `json:"item_id,omitempty"`
	InvoiceNumber   string              `json:"invoice_number"`
	ReceiptNumber   string              `json:"receipt_number,omitempty"`
	Customer        string              `json:"customer,omitempty"`
	Project         string              `json:"project,omitempty"`
	AmountBeforeVAT string              `json:"amount_before_vat"`
	CostBeforeVAT   *string             `json:"cost_before_vat"`
	Tax             string              `json:"tax"`
	CommissionRate  string              `json:"commission_rate"`
	InvoiceMonth    string              `json:"invoice_month"`
	ClientPaidDate  string              `json:"client_paid_date,omitempty"`
	Conversion      *ConversionResponse `json:"conversion,omitempty"`
}

func toDraftResponse(d *appreview.DraftView) DraftResponse {
	resp := DraftResponse{
		ItemID:          d.ItemID,
		InvoiceNumber:   d.InvoiceNumber,
		ReceiptNumber:   d.ReceiptNumber,
		Customer:        d.Customer,
		Project:         d.Project,
		AmountBeforeVAT: d.AmountBeforeVAT.StringFixed(2),
		Tax:             d.Tax.StringFixed(2),
		CommissionRate:  d.CommissionRate.String(),
		InvoiceMonth:    d.InvoiceMonth.Format("2006-01"),
		ClientPaidDate:  formatDatePtr(d.ClientPaidDate),
	}
	if d.CostBeforeVAT != nil {
		cost := d.CostBeforeVAT.StringFixed(2)
		resp.CostBeforeVAT = &cost
	}
	if d.Conversion != nil {
		resp.Conversion = &ConversionResponse{
			OriginalAmount:   d.Conversion.OriginalAmount.StringFixed(2),
			OriginalCurrency: d.Conversion.OriginalCurrency,
			Rate:             d.Conversion.Rate.String(),
		}
	}
	return resp
}

// SaveEntryRequest carries the reviewed draft values for committing one
// queue item as a commission entry
type SaveEntryRequest struct {
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

// ReviewHandler handles the invoice review workflow endpoints
type ReviewHandler struct {
	BaseHandler
	reviewService *appreview.Service
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService *appreview.Service) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// RegisterRoutes registers review routes
func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rv := rg.Group("/review")
	{
		rv.GET("/draft", h.BlankDraft)
		uploads := rv.Group("/uploads")
		{
			uploads.POST("", h.Upload)
			uploads.GET("", h.List)
			uploads.GET("/:id", h.Get)
			uploads.POST("/:id/retry", h.Retry)
			uploads.DELETE("/:id", h.Remove)
			uploads.GET("/:id/file", h.File)
			uploads.GET("/:id/draft", h.Draft)
			uploads.POST("/:id/save", h.Save)
		}
	}
}

// Upload accepts an invoice file and queues it for extraction
func (h *ReviewHandler) Upload(c *gin.Context) {
	ownerID, ok := h.getUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing file field")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Cannot read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.BadRequest(c, "Cannot read uploaded file")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	item, err := h.reviewService.Upload(c.Request.Context(), ownerID, fileHeader.Filename, contentType, data)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toUploadItemResponse(*item))
}

// List returns the caller's review queue, oldest first
func (h *ReviewHandler) List(c *gin.Context) {
	ownerID, ok := h.getUserID(c)
	if !ok {
		return
	}

	items := h.reviewService.List(c.Request.Context(), ownerID)
	out := make([]UploadItemResponse, len(items))
	for i, item := range items {
		out[i] = toUploadItemResponse(item)
	}
	h.Success(c, out)
}

// Get returns one queue item with its extraction state
func (h *ReviewHandler) Get(c *gin.Context) {
	ownerID, ok := h.getUserID(c)
	if !ok {
		return
	}
	itemID, ok := h.pathID(c)
	if !ok {
		return
	}

	item, err := h.reviewService.Get(c.Request.Context(), ownerID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toUploadItemResponse(*item))
}

// Retry restarts extraction for a failed item
func (h *ReviewHandler) Retry(c *gin.Context) {
	ownerID, ok := h.getUserID(c)
	if !ok {
		return
	}
	itemID, ok := h.pathID(c)
	if !ok {
		return
	}

	item, err := h.reviewService.Retry(c.Request.Context(), ownerID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toUploadItemResponse(*item))
}

// Remove drops an item from the queue
func (h *ReviewHandler) Remove(c *gin.Context) {
	ownerID, ok := h.getUserID(c)
	if !ok {
		return
	}
	itemID, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.reviewService.Remove(c.Request.Context(), ownerID, itemID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// File streams the original uploaded file for preview
func (h *ReviewHandler) File(c *gin.Context) {
	ownerID, ok := h.getUserID(c)
	if !ok {
		return
	}
	itemID, ok := h.pathID(c)
	if !ok {
		return
	}

	data, contentType, err := h.reviewService.File(c.Request.Context(), ownerID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, data)
}

// Draft returns the prefilled candidate entry for a ready item
func (h *ReviewHandler) Draft(c *gin.Context) {
	ownerID, ok := h.getUserID(c)
	if !ok {
		return
	}
	itemID, ok := h.pathID(c)
	if !ok {
		return
	}

	draft, err := h.reviewService.Draft(c.Request.Context(), ownerID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toDraftResponse(draft))
}

// BlankDraft returns an empty candidate entry for manual input
func (h *ReviewHandler) BlankDraft(c *gin.Context) {
	ownerID, ok := h.getUserID(c)
	if !ok {
		return
	}

	draft, err := h.reviewService.BlankDraft(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toDraftResponse(draft))
}

// Save commits a reviewed item as a commission entry and locks the item
func (h *ReviewHandler) Save(c *gin.Context) {
	ownerID, ok := h.getUserID(c)
	if !ok {
		return
	}
	itemID, ok := h.pathID(c)
	if !ok {
		return
	}

	var req SaveEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request format")
		return
	}

	invoiceMonth, ok := h.parseMonth(c, req.InvoiceMonth)
	if !ok {
		return
	}
	clientPaidDate, ok := h.parseDatePtr(c, req.ClientPaidDate, "Invalid client paid date")
	if !ok {
		return
	}

	input := appreview.SaveEntryInput{
		InvoiceNumber:    req.InvoiceNumber,
		ReceiptNumber:    req.ReceiptNumber,
		Customer:         req.Customer,
		Project:          req.Project,
		AmountBeforeVAT:  toDecimal(req.AmountBeforeVAT),
		CostBeforeVAT:    toDecimalPtr(req.CostBeforeVAT),
		Tax:              toDecimal(req.Tax),
		CommissionRate:   toDecimalPtr(req.CommissionRate),
		InvoiceMonth:     invoiceMonth,
		ClientPaidDate:   clientPaidDate,
		Note:             req.Note,
		ConfirmZeroCost:  req.ConfirmZeroCost,
		ConfirmDuplicate: req.ConfirmDuplicate,
	}

	info, err := h.reviewService.SaveEntry(c.Request.Context(), ownerID, itemID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toEntryResponse(*info))
}
