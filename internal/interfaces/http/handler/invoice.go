package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/furnitureops/backend/internal/application/finance"
	"github.com/furnitureops/backend/internal/infrastructure/logger"
	"github.com/furnitureops/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxWebhookBody bounds signature callbacks
const maxWebhookBody = 1 << 20

// InvoiceHandler handles invoice, payment and invoice document endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService  *finance.InvoiceService
	documentService *finance.DocumentService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *finance.InvoiceService, documentService *finance.DocumentService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService:  invoiceService,
		documentService: documentService,
	}
}

// PDFLinkResponse is a presigned download link
type PDFLinkResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// WebhookResult reports how many events changed an invoice
type WebhookResult struct {
	Applied int `json:"applied"`
}

// Create godoc
// @ID           createInvoice
// @Summary      Create an invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body finance.CreateInvoiceRequest true "Invoice"
// @Success      201 {object} APIResponse[finance.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.caller(c)
	if !ok {
		return
	}
	var req finance.CreateInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// CreateFromOrder godoc
// @ID           createInvoiceFromOrder
// @Summary      Invoice an order
// @Description  One line per order item. An order has at most one open invoice.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body finance.CreateFromOrderRequest true "Order to bill"
// @Success      201 {object} APIResponse[finance.InvoiceResponse]
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/from-order [post]
func (h *InvoiceHandler) CreateFromOrder(c *gin.Context) {
	tenantID, userID, ok := h.caller(c)
	if !ok {
		return
	}
	var req finance.CreateFromOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.CreateFromOrder(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// GetByID godoc
// @ID           getInvoice
// @Summary      Get an invoice
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[finance.InvoiceResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	byID(&h.BaseHandler, c, h.invoiceService.GetByID)
}

// List godoc
// @ID           listInvoices
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Param        search query string false "Invoice number"
// @Param        status query string false "Invoice status"
// @Param        customer_id query string false "Customer ID" format(uuid)
// @Param        order_id query string false "Order ID" format(uuid)
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]finance.InvoiceResponse]
// @Security     BearerAuth
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter finance.InvoiceListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	list, total, err := h.invoiceService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateInvoice
// @Summary      Update a draft invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body finance.UpdateInvoiceRequest true "Fields to change"
// @Success      200 {object} APIResponse[finance.InvoiceResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req finance.UpdateInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Delete godoc
// @ID           deleteInvoice
// @Summary      Delete a draft invoice
// @Tags         invoices
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	deleteByID(&h.BaseHandler, c, h.invoiceService.Delete)
}

// Send godoc
// @ID           sendInvoice
// @Summary      Issue an invoice
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[finance.InvoiceResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/send [post]
func (h *InvoiceHandler) Send(c *gin.Context) {
	byID(&h.BaseHandler, c, h.invoiceService.Send)
}

// Void godoc
// @ID           voidInvoice
// @Summary      Void an invoice
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[finance.InvoiceResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/void [post]
func (h *InvoiceHandler) Void(c *gin.Context) {
	byID(&h.BaseHandler, c, h.invoiceService.Void)
}

// RecordPayment godoc
// @ID           recordInvoicePayment
// @Summary      Record a payment
// @Description  The amount may not exceed the outstanding balance
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body finance.RecordPaymentRequest true "Payment"
// @Success      201 {object} APIResponse[finance.PaymentResult]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/payments [post]
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	tenantID, userID, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req finance.RecordPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.invoiceService.RecordPayment(c.Request.Context(), tenantID, userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ListInvoicePayments godoc
// @ID           listInvoicePayments
// @Summary      Payments of an invoice
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[[]finance.PaymentResponse]
// @Security     BearerAuth
// @Router       /invoices/{id}/payments [get]
func (h *InvoiceHandler) ListInvoicePayments(c *gin.Context) {
	byID(&h.BaseHandler, c, h.invoiceService.ListInvoicePayments)
}

// ListPayments godoc
// @ID           listPayments
// @Summary      List payments
// @Tags         payments
// @Produce      json
// @Param        invoice_id query string false "Invoice ID" format(uuid)
// @Param        customer_id query string false "Customer ID" format(uuid)
// @Param        method query string false "Payment method"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]finance.PaymentResponse]
// @Security     BearerAuth
// @Router       /payments [get]
func (h *InvoiceHandler) ListPayments(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter finance.PaymentListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	list, total, err := h.invoiceService.ListPayments(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list, total, filter.Page, filter.PageSize)
}

// DownloadPDF godoc
// @ID           downloadInvoicePDF
// @Summary      Render and download the invoice PDF
// @Description  Renders the invoice, archives it and streams the file
// @Tags         invoices
// @Produce      application/pdf
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {file} binary
// @Failure      404 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	pdf, err := h.documentService.RenderPDF(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+pdf.FileName+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf.Data)
}

// PDFLink godoc
// @ID           getInvoicePDFLink
// @Summary      Presigned link to the archived PDF
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[PDFLinkResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/pdf-link [get]
func (h *InvoiceHandler) PDFLink(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	url, expires, err := h.documentService.PDFDownloadURL(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, PDFLinkResponse{URL: url, ExpiresAt: expires})
}

// RequestSignature godoc
// @ID           requestInvoiceSignature
// @Summary      Send an invoice for e-signature
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body finance.SignatureRequest false "Envelope subject and message"
// @Success      200 {object} APIResponse[finance.InvoiceResponse]
// @Failure      422 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/signature [post]
func (h *InvoiceHandler) RequestSignature(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req finance.SignatureRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}

	invoice, err := h.documentService.RequestSignature(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// SignatureWebhook godoc
// @ID           esignWebhook
// @Summary      E-signature provider callback
// @Description  Verified with an HMAC of the raw body passed as the signature query parameter
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        signature query string false "Hex HMAC-SHA256 of the body"
// @Success      200 {object} APIResponse[WebhookResult]
// @Failure      401 {object} ErrorResponse
// @Router       /webhooks/esign [post]
func (h *InvoiceHandler) SignatureWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Unable to read request body")
		return
	}
	signature := c.Query("signature")
	if signature == "" {
		signature = c.GetHeader("X-Signature")
	}

	applied, err := h.documentService.HandleSignatureWebhook(c.Request.Context(), body, signature)
	if err != nil {
		if errors.Is(err, finance.ErrInvalidWebhookSignature) {
			logger.GetGinLogger(c).Warn("Rejected e-sign webhook", zap.String("client_ip", c.ClientIP()))
		}
		h.HandleError(c, err)
		return
	}
	h.Success(c, WebhookResult{Applied: applied})
}
