package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	appexport "github.com/commtrack/backend/internal/application/export"
)

// ExportHandler streams the current entry view as a spreadsheet download
type ExportHandler struct {
	BaseHandler
	exportService *appexport.Service
}

// NewExportHandler creates a new export handler
func NewExportHandler(exportService *appexport.Service) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// RegisterRoutes registers the export route
func (h *ExportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/entries/export", h.Export)
}

// Export renders the filtered, sorted view as an XLSX attachment.
// It accepts the same query parameters as the entry list.
func (h *ExportHandler) Export(c *gin.Context) {
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

	artifact, err := h.exportService.Export(c.Request.Context(), actorID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.FileName))
	c.Data(http.StatusOK, artifact.ContentType, artifact.Data)
}
