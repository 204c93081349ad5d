package finance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/furnitureops/backend/internal/domain/crm"
	"github.com/furnitureops/backend/internal/domain/finance"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/furnitureops/backend/internal/infrastructure/esign"
	"github.com/furnitureops/backend/internal/infrastructure/printing"
	"github.com/furnitureops/backend/internal/infrastructure/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidWebhookSignature is returned when a signature callback fails HMAC verification
var ErrInvalidWebhookSignature = shared.NewDomainError("UNAUTHORIZED", "Invalid webhook signature")

// DocumentConfig configures invoice document handling
type DocumentConfig struct {
	CompanyName    string
	WebhookSecret  string
	DownloadURLTTL time.Duration
}

// DocumentService renders invoice PDFs, archives them and runs the
// e-signature workflow.
type DocumentService struct {
	invoiceRepo  finance.InvoiceRepository
	customerRepo crm.CustomerRepository
	renderer     printing.PDFRenderer
	store        storage.ObjectStore
	signer       esign.Signer
	cfg          DocumentConfig
	logger       *zap.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	invoiceRepo finance.InvoiceRepository,
	customerRepo crm.CustomerRepository,
	renderer printing.PDFRenderer,
	store storage.ObjectStore,
	signer esign.Signer,
	cfg DocumentConfig,
	logger *zap.Logger,
) *DocumentService {
	if cfg.DownloadURLTTL <= 0 {
		cfg.DownloadURLTTL = 15 * time.Minute
	}
	return &DocumentService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		renderer:     renderer,
		store:        store,
		signer:       signer,
		cfg:          cfg,
		logger:       logger,
	}
}

// InvoicePDFKey is the archive key of an invoice PDF
func InvoicePDFKey(inv *finance.Invoice) string {
	return fmt.Sprintf("invoices/%s/%s.pdf", inv.TenantID, inv.InvoiceNumber)
}

// RenderPDF renders the invoice, archives it to object storage and records the key
func (s *DocumentService) RenderPDF(ctx context.Context, tenantID, id uuid.UUID) (*InvoicePDF, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, inv.CustomerID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return s.render(ctx, inv, customer)
}

func (s *DocumentService) render(ctx context.Context, inv *finance.Invoice, customer *crm.Customer) (*InvoicePDF, error) {
	start := time.Now()
	data, err := printing.RenderInvoicePDF(ctx, s.renderer, s.invoiceDocument(inv, customer))
	if err != nil {
		return nil, shared.WrapDomainError("EXTERNAL_SERVICE_ERROR", "Failed to render invoice PDF", err)
	}

	key := InvoicePDFKey(inv)
	if err := s.store.Put(ctx, key, data, "application/pdf"); err != nil {
		return nil, shared.WrapDomainError("EXTERNAL_SERVICE_ERROR", "Failed to archive invoice PDF", err)
	}
	if inv.PDFKey != key {
		inv.AttachPDF(key)
		if err := s.invoiceRepo.Save(ctx, inv); err != nil {
			return nil, err
		}
	}
	s.logger.Info("Invoice PDF rendered",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("key", key),
		zap.Int("bytes", len(data)),
		zap.Duration("duration", time.Since(start)))

	return &InvoicePDF{
		FileName: inv.InvoiceNumber + ".pdf",
		Key:      key,
		Data:     data,
	}, nil
}

// PDFDownloadURL returns a presigned URL for the archived PDF
func (s *DocumentService) PDFDownloadURL(ctx context.Context, tenantID, id uuid.UUID) (string, time.Time, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return "", time.Time{}, err
	}
	if inv.PDFKey == "" {
		return "", time.Time{}, shared.NewDomainError("NOT_FOUND", "Invoice PDF has not been rendered")
	}
	return s.store.PresignDownload(ctx, inv.PDFKey, s.cfg.DownloadURLTTL)
}

// RequestSignature sends an issued invoice to the customer for e-signature
func (s *DocumentService) RequestSignature(ctx context.Context, tenantID, id uuid.UUID, req SignatureRequest) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if inv.Status == finance.InvoiceStatusDraft || inv.Status == finance.InvoiceStatusVoid {
		return nil, shared.NewDomainError("INVALID_STATE", "Only issued invoices can be sent for signature")
	}
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, inv.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer.Email == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer has no email address to sign with")
	}

	pdf, err := s.render(ctx, inv, customer)
	if err != nil {
		return nil, err
	}
	first, last := splitName(customer.Name)
	documentID, err := s.signer.CreateDocument(ctx, esign.DocumentRequest{
		Name:     "Invoice " + inv.InvoiceNumber,
		FileName: pdf.FileName,
		PDF:      pdf.Data,
		Recipient: esign.Recipient{
			Email:     customer.Email,
			FirstName: first,
			LastName:  last,
		},
		Metadata: map[string]string{
			"tenant_id":  tenantID.String(),
			"invoice_id": inv.ID.String(),
		},
	})
	if err != nil {
		return nil, shared.WrapDomainError("EXTERNAL_SERVICE_ERROR", "Failed to create signature document", err)
	}

	subject := req.Subject
	if subject == "" {
		subject = fmt.Sprintf("Please sign invoice %s", inv.InvoiceNumber)
	}
	if err := s.signer.SendDocument(ctx, documentID, subject, req.Message); err != nil {
		return nil, shared.WrapDomainError("EXTERNAL_SERVICE_ERROR", "Failed to send signature document", err)
	}
	if err := inv.RequestSignature(documentID); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	s.logger.Info("Invoice sent for signature",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("document_id", documentID))

	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// HandleSignatureWebhook applies completed or declined signature callbacks.
// Events for unknown documents are ignored.
func (s *DocumentService) HandleSignatureWebhook(ctx context.Context, body []byte, signature string) (int, error) {
	if !esign.VerifySignature(s.cfg.WebhookSecret, body, signature) {
		return 0, ErrInvalidWebhookSignature
	}
	events, err := esign.ParseEvents(body)
	if err != nil {
		return 0, shared.WrapDomainError("INVALID_INPUT", "Malformed webhook body", err)
	}

	applied := 0
	for _, ev := range events {
		var signed bool
		switch ev.Data.Status {
		case esign.StatusCompleted:
			signed = true
		case esign.StatusDeclined:
			signed = false
		default:
			continue
		}
		inv, err := s.invoiceRepo.FindBySignatureDocument(ctx, ev.Data.ID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				s.logger.Debug("Signature event for unknown document", zap.String("document_id", ev.Data.ID))
				continue
			}
			return applied, err
		}
		inv.CompleteSignature(signed)
		if err := s.invoiceRepo.Save(ctx, inv); err != nil {
			return applied, err
		}
		applied++
		s.logger.Info("Invoice signature updated",
			zap.String("invoice_id", inv.ID.String()),
			zap.String("signature_status", string(inv.SignatureStatus)))
	}
	return applied, nil
}

func (s *DocumentService) invoiceDocument(inv *finance.Invoice, customer *crm.Customer) *printing.InvoiceDocument {
	doc := &printing.InvoiceDocument{
		CompanyName:   s.cfg.CompanyName,
		InvoiceNumber: inv.InvoiceNumber,
		Status:        string(inv.Status),
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		Currency:      inv.Currency,
		Subtotal:      inv.Subtotal,
		TaxTotal:      inv.TaxTotal,
		Total:         inv.Total,
		AmountPaid:    inv.AmountPaid,
		BalanceDue:    inv.BalanceDue,
		Notes:         inv.Notes,
	}
	if customer != nil {
		doc.CustomerName = customer.Name
		doc.CustomerEmail = customer.Email
	}
	for _, l := range inv.Lines {
		doc.Lines = append(doc.Lines, printing.InvoiceLine{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			TaxRate:     l.TaxRate,
			Amount:      l.Amount(),
		})
	}
	return doc
}

func splitName(name string) (string, string) {
	first, last, _ := strings.Cut(strings.TrimSpace(name), " ")
	return first, strings.TrimSpace(last)
}
