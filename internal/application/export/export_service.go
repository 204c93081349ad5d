package export

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/furnitureops/backend/internal/domain/crm"
	"github.com/furnitureops/backend/internal/domain/finance"
	"github.com/furnitureops/backend/internal/domain/orders"
	"github.com/furnitureops/backend/internal/domain/production"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/furnitureops/backend/internal/domain/tasks"
	"github.com/furnitureops/backend/internal/infrastructure/export"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	pageSize = 100
	// MaxRows caps a single export
	MaxRows = 10000
)

// Resources lists the exportable resources
var Resources = []string{"customers", "orders", "invoices", "tasks", "production"}

// File is a rendered export ready to be served as an attachment
type File struct {
	Name        string
	Format      export.Format
	ContentType string
	Data        []byte
	Rows        int
	Truncated   bool
}

// Request selects what to export. Status narrows the rows when the resource
// has a status column.
type Request struct {
	Resource string
	Format   string
	Status   string
}

// Service renders tenant data as downloadable files
type Service struct {
	customerRepo crm.CustomerRepository
	orderRepo    orders.OrderRepository
	invoiceRepo  finance.InvoiceRepository
	taskRepo     tasks.TaskRepository
	trackingRepo production.TrackingRepository
	logger       *zap.Logger
	now          func() time.Time
}

// NewService creates an export service
func NewService(
	customerRepo crm.CustomerRepository,
	orderRepo orders.OrderRepository,
	invoiceRepo finance.InvoiceRepository,
	taskRepo tasks.TaskRepository,
	trackingRepo production.TrackingRepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		customerRepo: customerRepo,
		orderRepo:    orderRepo,
		invoiceRepo:  invoiceRepo,
		taskRepo:     taskRepo,
		trackingRepo: trackingRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// Export renders one resource in the requested format
func (s *Service) Export(ctx context.Context, tenantID uuid.UUID, req Request) (*File, error) {
	format, err := export.ParseFormat(req.Format)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_FORMAT", "Format must be one of csv, tsv, html, xlsx")
	}

	filters := map[string]any{}
	if req.Status != "" {
		filters["status"] = req.Status
	}

	var table export.Table
	var truncated bool
	switch req.Resource {
	case "customers":
		table, truncated, err = s.customers(ctx, tenantID, filters)
	case "orders":
		table, truncated, err = s.orders(ctx, tenantID, filters)
	case "invoices":
		table, truncated, err = s.invoices(ctx, tenantID, filters)
	case "tasks":
		table, truncated, err = s.tasks(ctx, tenantID, filters)
	case "production":
		if req.Status != "" {
			filters = map[string]any{"stage": req.Status}
		}
		table, truncated, err = s.production(ctx, tenantID, filters)
	default:
		return nil, shared.NewDomainError("INVALID_RESOURCE", "Unknown export resource: "+req.Resource)
	}
	if err != nil {
		return nil, err
	}

	data, err := export.Render(table, format)
	if err != nil {
		if errors.Is(err, export.ErrUnsupportedFormat) {
			return nil, shared.NewDomainError("INVALID_FORMAT", err.Error())
		}
		return nil, err
	}
	if truncated {
		s.logger.Warn("Export truncated",
			zap.String("tenant_id", tenantID.String()),
			zap.String("resource", req.Resource),
			zap.Int("max_rows", MaxRows))
	}
	return &File{
		Name:        export.Filename(req.Resource, format, s.now()),
		Format:      format,
		ContentType: format.ContentType(),
		Data:        data,
		Rows:        len(table.Rows),
		Truncated:   truncated,
	}, nil
}

func (s *Service) customers(ctx context.Context, tenantID uuid.UUID, filters map[string]any) (export.Table, bool, error) {
	list, truncated, err := collect(ctx, filters, func(ctx context.Context, f shared.Filter) ([]crm.Customer, error) {
		return s.customerRepo.FindAllForTenant(ctx, tenantID, f)
	})
	if err != nil {
		return export.Table{}, false, err
	}
	t := export.Table{
		Title:   "Customers",
		Columns: []string{"name", "email", "phone", "company", "status", "source", "tags", "lifetime_value", "last_contact_at", "created_at"},
	}
	for _, c := range list {
		t.Rows = append(t.Rows, []string{
			c.Name, c.Email, c.Phone, c.Company, string(c.Status), c.Source,
			strings.Join(c.Tags, "; "), c.LifetimeValue.StringFixed(2), timeCell(c.LastContactAt), dateTime(c.CreatedAt),
		})
	}
	return t, truncated, nil
}

func (s *Service) orders(ctx context.Context, tenantID uuid.UUID, filters map[string]any) (export.Table, bool, error) {
	list, truncated, err := collect(ctx, filters, func(ctx context.Context, f shared.Filter) ([]orders.Order, error) {
		return s.orderRepo.FindAllForTenant(ctx, tenantID, f)
	})
	if err != nil {
		return export.Table{}, false, err
	}
	t := export.Table{
		Title:   "Orders",
		Columns: []string{"order_number", "customer_id", "status", "items", "subtotal", "discount", "tax_amount", "total", "due_date", "created_at"},
	}
	for _, o := range list {
		t.Rows = append(t.Rows, []string{
			o.OrderNumber, o.CustomerID.String(), string(o.Status), strconv.Itoa(len(o.Items)),
			o.Subtotal.StringFixed(2), o.Discount.StringFixed(2), o.TaxAmount.StringFixed(2), o.Total.StringFixed(2),
			dateCell(o.DueDate), dateTime(o.CreatedAt),
		})
	}
	return t, truncated, nil
}

func (s *Service) invoices(ctx context.Context, tenantID uuid.UUID, filters map[string]any) (export.Table, bool, error) {
	list, truncated, err := collect(ctx, filters, func(ctx context.Context, f shared.Filter) ([]finance.Invoice, error) {
		return s.invoiceRepo.FindAllForTenant(ctx, tenantID, f)
	})
	if err != nil {
		return export.Table{}, false, err
	}
	t := export.Table{
		Title:   "Invoices",
		Columns: []string{"invoice_number", "customer_id", "status", "issue_date", "due_date", "currency", "total", "amount_paid", "balance_due", "signature_status"},
	}
	for _, inv := range list {
		t.Rows = append(t.Rows, []string{
			inv.InvoiceNumber, inv.CustomerID.String(), string(inv.Status),
			inv.IssueDate.Format("2006-01-02"), inv.DueDate.Format("2006-01-02"), inv.Currency,
			inv.Total.StringFixed(2), inv.AmountPaid.StringFixed(2), inv.BalanceDue.StringFixed(2), string(inv.SignatureStatus),
		})
	}
	return t, truncated, nil
}

func (s *Service) tasks(ctx context.Context, tenantID uuid.UUID, filters map[string]any) (export.Table, bool, error) {
	list, truncated, err := collect(ctx, filters, func(ctx context.Context, f shared.Filter) ([]tasks.Task, error) {
		return s.taskRepo.FindAllForTenant(ctx, tenantID, f)
	})
	if err != nil {
		return export.Table{}, false, err
	}
	t := export.Table{
		Title:   "Tasks",
		Columns: []string{"title", "status", "priority", "assignee_id", "related_type", "related_id", "due_date", "completed_at"},
	}
	for _, task := range list {
		t.Rows = append(t.Rows, []string{
			task.Title, string(task.Status), string(task.Priority), uuidCell(task.AssigneeID),
			task.RelatedType, uuidCell(task.RelatedID), dateCell(task.DueDate), timeCell(task.CompletedAt),
		})
	}
	return t, truncated, nil
}

func (s *Service) production(ctx context.Context, tenantID uuid.UUID, filters map[string]any) (export.Table, bool, error) {
	list, truncated, err := collect(ctx, filters, func(ctx context.Context, f shared.Filter) ([]production.Tracking, error) {
		return s.trackingRepo.FindAllForTenant(ctx, tenantID, f)
	})
	if err != nil {
		return export.Table{}, false, err
	}
	now := s.now()
	t := export.Table{
		Title:   "Production",
		Columns: []string{"order_id", "item", "product", "quantity", "stage", "progress", "assigned_to", "days_in_stage", "due_date", "overdue"},
	}
	for _, row := range list {
		t.Rows = append(t.Rows, []string{
			row.OrderID.String(), strconv.Itoa(row.ItemIndex + 1), row.ProductName, strconv.Itoa(row.Quantity),
			string(row.Stage), strconv.Itoa(row.Progress) + "%", row.AssignedTo,
			strconv.FormatFloat(row.DaysInStage(now), 'f', 1, 64), dateCell(row.DueDate), strconv.FormatBool(row.IsOverdue(now)),
		})
	}
	return t, truncated, nil
}

// collect pages through a listing until it runs dry or MaxRows is reached
func collect[T any](ctx context.Context, filters map[string]any, fetch func(context.Context, shared.Filter) ([]T, error)) ([]T, bool, error) {
	var out []T
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		batch, err := fetch(ctx, shared.Filter{
			Page:     page,
			PageSize: pageSize,
			OrderBy:  "created_at",
			OrderDir: "asc",
			Filters:  filters,
		})
		if err != nil {
			return nil, false, err
		}
		out = append(out, batch...)
		if len(out) >= MaxRows {
			return out[:MaxRows], true, nil
		}
		if len(batch) < pageSize {
			return out, false, nil
		}
	}
}

func dateTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func timeCell(t *time.Time) string {
	if t == nil {
		return ""
	}
	return dateTime(*t)
}

func dateCell(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func uuidCell(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
