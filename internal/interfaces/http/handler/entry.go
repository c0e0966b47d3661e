package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appcommission "github.com/commtrack/backend/internal/application/commission"
	"github.com/commtrack/backend/internal/domain/commission"
)

// EntryHandler handles commission entry endpoints
type EntryHandler struct {
	BaseHandler
	entryService *appcommission.EntryService
}

// NewEntryHandler creates a new entry handler
func NewEntryHandler(entryService *appcommission.EntryService) *EntryHandler {
	return &EntryHandler{entryService: entryService}
}

// RegisterRoutes registers entry routes
func (h *EntryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	entries := rg.Group("/entries")
	{
		entries.GET("", h.List)
		entries.POST("", h.Create)
		entries.GET("/:id", h.Get)
		entries.PUT("/:id", h.Update)
		entries.PUT("/:id/status", h.ChangeStatus)
		entries.DELETE("/:id", h.Delete)
	}
}

// List returns the entries visible to the caller, filtered and sorted
func (h *EntryHandler) List(c *gin.Context) {
	actorID, ok := h.getUserID(c)
	if !ok {
		return
	}

	var req ListEntriesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	input, ok := h.toListInput(c, req)
	if !ok {
		return
	}

	result, err := h.entryService.List(c.Request.Context(), actorID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{
		"entries":         toEntryResponses(result.Entries),
		"multiple_owners": result.MultipleOwners,
	})
}

// Get returns a single entry by ID
func (h *EntryHandler) Get(c *gin.Context) {
	actorID, ok := h.getUserID(c)
	if !ok {
		return
	}
	entryID, ok := h.pathID(c)
	if !ok {
		return
	}

	info, err := h.entryService.Get(c.Request.Context(), actorID, entryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toEntryResponse(*info))
}

// Create records a new commission entry
func (h *EntryHandler) Create(c *gin.Context) {
	actorID, ok := h.getUserID(c)
	if !ok {
		return
	}

	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request format")
		return
	}

	ownerID, ok := h.optionalUUID(c, req.OwnerID, "Invalid owner ID")
	if !ok {
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

	input := appcommission.CreateEntryInput{
		OwnerID:          ownerID,
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

	info, err := h.entryService.Create(c.Request.Context(), actorID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toEntryResponse(*info))
}

// Update applies inline edits and returns the recomputed entry with warnings
func (h *EntryHandler) Update(c *gin.Context) {
	actorID, ok := h.getUserID(c)
	if !ok {
		return
	}
	entryID, ok := h.pathID(c)
	if !ok {
		return
	}

	var req UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request format")
		return
	}

	input := appcommission.UpdateEntryInput{
		InvoiceNumber:        req.InvoiceNumber,
		ReceiptNumber:        req.ReceiptNumber,
		Customer:             req.Customer,
		Project:              req.Project,
		AmountBeforeVAT:      toDecimalPtr(req.AmountBeforeVAT),
		CostBeforeVAT:        toDecimalPtr(req.CostBeforeVAT),
		Tax:                  toDecimalPtr(req.Tax),
		CommissionRate:       toDecimalPtr(req.CommissionRate),
		ClearClientPaidDate:  req.ClearClientPaidDate,
		ClearCompanyPaidDate: req.ClearCompanyPaidDate,
		Note:                 req.Note,
	}

	if req.InvoiceMonth != nil {
		month, ok := h.parseMonth(c, *req.InvoiceMonth)
		if !ok {
			return
		}
		input.InvoiceMonth = &month
	}
	if input.ClientPaidDate, ok = h.parseDatePtr(c, strValue(req.ClientPaidDate), "Invalid client paid date"); !ok {
		return
	}
	if input.CompanyPaidDate, ok = h.parseDatePtr(c, strValue(req.CompanyPaidDate), "Invalid company paid date"); !ok {
		return
	}

	result, err := h.entryService.Update(c.Request.Context(), actorID, entryID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, UpdateEntryResponse{
		Entry:    toEntryResponse(result.Entry),
		Warnings: result.Warnings,
	})
}

// ChangeStatus edits the payout status directly
func (h *EntryHandler) ChangeStatus(c *gin.Context) {
	actorID, ok := h.getUserID(c)
	if !ok {
		return
	}
	entryID, ok := h.pathID(c)
	if !ok {
		return
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request format")
		return
	}

	companyPaidDate, ok := h.parseDatePtr(c, req.CompanyPaidDate, "Invalid company paid date")
	if !ok {
		return
	}

	info, err := h.entryService.ChangeStatus(c.Request.Context(), actorID, entryID, appcommission.ChangeStatusInput{
		Status:          commission.Status(req.Status),
		CompanyPaidDate: companyPaidDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toEntryResponse(*info))
}

// Delete removes an entry after confirmation
func (h *EntryHandler) Delete(c *gin.Context) {
	actorID, ok := h.getUserID(c)
	if !ok {
		return
	}
	entryID, ok := h.pathID(c)
	if !ok {
		return
	}

	confirm := c.Query("confirm") == "true"
	if err := h.entryService.Delete(c.Request.Context(), actorID, entryID, confirm); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *BaseHandler) toListInput(c *gin.Context, req ListEntriesRequest) (appcommission.ListInput, bool) {
	input := appcommission.ListInput{
		Search:      req.Search,
		MonthPrefix: req.Month,
		SortKey:     commission.SortKey(req.Sort),
		SortDesc:    req.Desc,
	}
	if req.Status != "" {
		status := commission.Status(req.Status)
		input.Status = &status
	}
	if req.OwnerID != "" {
		ownerID, err := uuid.Parse(req.OwnerID)
		if err != nil {
			h.BadRequest(c, "Invalid owner ID")
			return input, false
		}
		input.OwnerID = &ownerID
	}
	return input, true
}

func (h *BaseHandler) parseMonth(c *gin.Context, raw string) (time.Time, bool) {
	month, err := time.Parse("2006-01", raw)
	if err != nil {
		h.BadRequest(c, "Invalid invoice month, expected YYYY-MM")
		return time.Time{}, false
	}
	return month, true
}

func (h *BaseHandler) parseDatePtr(c *gin.Context, raw, message string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	date, err := time.Parse(dateLayout, raw)
	if err != nil {
		h.BadRequest(c, message)
		return nil, false
	}
	return &date, true
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
