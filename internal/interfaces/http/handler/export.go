package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/furnitureops/backend/internal/application/export"
	"github.com/furnitureops/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// ExportHandler serves tabular downloads
type ExportHandler struct {
	BaseHandler
	exportService *export.Service
	metrics       *telemetry.AppMetrics
}

// NewExportHandler creates a new ExportHandler. metrics may be nil.
func NewExportHandler(exportService *export.Service, metrics *telemetry.AppMetrics) *ExportHandler {
	return &ExportHandler{exportService: exportService, metrics: metrics}
}

// ExportQuery selects format and an optional status filter. Format is
// matched case-insensitively by the export service.
type ExportQuery struct {
	Format string `form:"format" binding:"max=10"`
	Status string `form:"status" binding:"max=50"`
}

// Export godoc
// @ID           exportResource
// @Summary      Export a resource
// @Description  Streams customers, orders, invoices, tasks or production records as an attachment. At most 10000 rows; X-Export-Truncated is set when rows were cut.
// @Tags         exports
// @Produce      text/csv
// @Produce      text/tab-separated-values
// @Produce      text/html
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        resource path string true "customers, orders, invoices, tasks or production"
// @Param        format query string false "csv, tsv, html or xlsx (any case)" default(csv)
// @Param        status query string false "Status (stage for production)"
// @Success      200 {file} binary
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /exports/{resource} [get]
func (h *ExportHandler) Export(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q ExportQuery
	if !h.bindQuery(c, &q) {
		return
	}

	started := time.Now()
	file, err := h.exportService.Export(c.Request.Context(), tenantID, export.Request{
		Resource: c.Param("resource"),
		Format:   q.Format,
		Status:   q.Status,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.metrics.ExportGenerated(c.Request.Context(), c.Param("resource"), string(file.Format), time.Since(started))

	c.Header("Content-Disposition", `attachment; filename="`+file.Name+`"`)
	c.Header("X-Export-Rows", strconv.Itoa(file.Rows))
	if file.Truncated {
		c.Header("X-Export-Truncated", "true")
	}
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
