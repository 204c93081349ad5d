package persistence

import (
	"context"
	"time"

	"github.com/furnitureops/backend/internal/domain/finance"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/furnitureops/backend/internal/infrastructure/persistence/models"
	"github.com/furnitureops/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByIDForTenant finds an invoice by ID within a tenant
func (r *GormInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindBySignatureDocument finds the invoice attached to an e-signature document.
// Provider callbacks carry no tenant, so the lookup is global.
func (r *GormInvoiceRepository) FindBySignatureDocument(ctx context.Context, documentID string) (*finance.Invoice, error) {
	if documentID == "" {
		return nil, shared.ErrNotFound
	}
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).Where("signature_document = ?", documentID).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds invoices matching the filter
func (r *GormInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	query := paginate(r.applyFilter(r.scoped(ctx, tenantID), filter), filter, InvoiceSortFields, "created_at")
	if err := query.Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return mapSlice(invoiceModels, (*models.InvoiceModel).ToDomain), nil
}

// CountForTenant counts invoices matching the filter
func (r *GormInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.scoped(ctx, tenantID), filter).Count(&count).Error
	return count, err
}

// FindOpen returns invoices that still expect payment
func (r *GormInvoiceRepository) FindOpen(ctx context.Context, tenantID uuid.UUID) ([]finance.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	err := r.scoped(ctx, tenantID).
		Where("status IN ?", []finance.InvoiceStatus{
			finance.InvoiceStatusSent,
			finance.InvoiceStatusPartial,
			finance.InvoiceStatusOverdue,
		}).
		Where("balance_due > 0").
		Order("due_date ASC").
		Find(&invoiceModels).Error
	if err != nil {
		return nil, err
	}
	return mapSlice(invoiceModels, (*models.InvoiceModel).ToDomain), nil
}

// FindOverdueCandidates returns sent or partial invoices due before the day
// of asOf in every tenant. An invoice is not overdue on its due date.
func (r *GormInvoiceRepository) FindOverdueCandidates(ctx context.Context, asOf time.Time, limit int) ([]finance.Invoice, error) {
	if limit <= 0 {
		limit = 500
	}
	y, m, d := asOf.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, asOf.Location())
	var invoiceModels []models.InvoiceModel
	err := r.db.WithContext(ctx).
		Where("status IN ?", []finance.InvoiceStatus{finance.InvoiceStatusSent, finance.InvoiceStatusPartial}).
		Where("due_date < ?", dayStart).
		Order("due_date ASC").
		Limit(limit).
		Find(&invoiceModels).Error
	if err != nil {
		return nil, err
	}
	return mapSlice(invoiceModels, (*models.InvoiceModel).ToDomain), nil
}

// FindIssuedBetween returns non-draft, non-void invoices issued in [from, to)
func (r *GormInvoiceRepository) FindIssuedBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]finance.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	err := r.scoped(ctx, tenantID).
		Where("issue_date >= ? AND issue_date < ?", from, to).
		Where("status NOT IN ?", []finance.InvoiceStatus{finance.InvoiceStatusDraft, finance.InvoiceStatusVoid}).
		Order("issue_date ASC").
		Find(&invoiceModels).Error
	if err != nil {
		return nil, err
	}
	return mapSlice(invoiceModels, (*models.InvoiceModel).ToDomain), nil
}

// FindByCustomer returns every invoice of a customer, newest first
func (r *GormInvoiceRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]finance.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	err := r.scoped(ctx, tenantID).
		Where("customer_id = ?", customerID).
		Order("issue_date DESC").
		Find(&invoiceModels).Error
	if err != nil {
		return nil, err
	}
	return mapSlice(invoiceModels, (*models.InvoiceModel).ToDomain), nil
}

// Save creates or updates an invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *finance.Invoice) error {
	return translateError(r.db.WithContext(ctx).Save(models.InvoiceModelFromDomain(invoice)).Error)
}

// SaveWithLock updates an invoice if nobody else changed it since it was loaded
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *finance.Invoice) error {
	return updateInvoiceLocked(r.db.WithContext(ctx), invoice)
}

// SaveWithPayment applies the invoice update and inserts the payment in one
// transaction. A version conflict leaves no payment behind.
func (r *GormInvoiceRepository) SaveWithPayment(ctx context.Context, invoice *finance.Invoice, payment *finance.Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateInvoiceLocked(tx, invoice); err != nil {
			return err
		}
		return translateError(tx.Create(models.PaymentModelFromDomain(payment)).Error)
	})
}

// updateInvoiceLocked writes every column where the stored version is the
// one before the in-memory mutation.
func updateInvoiceLocked(tx *gorm.DB, invoice *finance.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	result := tx.Model(model).
		Select("*").
		Where("tenant_id = ? AND version = ?", invoice.TenantID, invoice.Version-1).
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// DeleteForTenant deletes an invoice within a tenant
func (r *GormInvoiceRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant(r.db.WithContext(ctx), &models.InvoiceModel{}, tenantID, id)
}

func (r *GormInvoiceRepository) scoped(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Scopes(tenant.Scope(tenantID))
}

func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchLike(query, filter.Search, "invoice_number", "notes")
	if status, ok := filterString(filter, "status"); ok {
		query = query.Where("status = ?", status)
	}
	if id, ok := filterUUID(filter, "customer_id"); ok {
		query = query.Where("customer_id = ?", id)
	}
	if id, ok := filterUUID(filter, "order_id"); ok {
		query = query.Where("order_id = ?", id)
	}
	return query
}

var _ finance.InvoiceRepository = (*GormInvoiceRepository)(nil)

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByInvoice returns an invoice's payments, oldest first
func (r *GormPaymentRepository) FindByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]finance.Payment, error) {
	var paymentModels []models.PaymentModel
	err := r.scoped(ctx, tenantID).
		Where("invoice_id = ?", invoiceID).
		Order("paid_at ASC").
		Find(&paymentModels).Error
	if err != nil {
		return nil, err
	}
	return mapSlice(paymentModels, (*models.PaymentModel).ToDomain), nil
}

// FindAllForTenant finds payments matching the filter
func (r *GormPaymentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.Payment, error) {
	var paymentModels []models.PaymentModel
	query := paginate(r.applyFilter(r.scoped(ctx, tenantID), filter), filter, PaymentSortFields, "paid_at")
	if err := query.Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	return mapSlice(paymentModels, (*models.PaymentModel).ToDomain), nil
}

// CountForTenant counts payments matching the filter
func (r *GormPaymentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.scoped(ctx, tenantID), filter).Count(&count).Error
	return count, err
}

// FindPaidBetween returns payments received in [from, to)
func (r *GormPaymentRepository) FindPaidBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]finance.Payment, error) {
	var paymentModels []models.PaymentModel
	err := r.scoped(ctx, tenantID).
		Where("paid_at >= ? AND paid_at < ?", from, to).
		Order("paid_at ASC").
		Find(&paymentModels).Error
	if err != nil {
		return nil, err
	}
	return mapSlice(paymentModels, (*models.PaymentModel).ToDomain), nil
}

// Save creates or updates a payment
func (r *GormPaymentRepository) Save(ctx context.Context, payment *finance.Payment) error {
	return translateError(r.db.WithContext(ctx).Save(models.PaymentModelFromDomain(payment)).Error)
}

func (r *GormPaymentRepository) scoped(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.PaymentModel{}).Scopes(tenant.Scope(tenantID))
}

func (r *GormPaymentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchLike(query, filter.Search, "reference")
	if id, ok := filterUUID(filter, "invoice_id"); ok {
		query = query.Where("invoice_id = ?", id)
	}
	if id, ok := filterUUID(filter, "customer_id"); ok {
		query = query.Where("customer_id = ?", id)
	}
	if method, ok := filterString(filter, "method"); ok {
		query = query.Where("method = ?", method)
	}
	return query
}

var _ finance.PaymentRepository = (*GormPaymentRepository)(nil)
