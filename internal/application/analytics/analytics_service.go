package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/furnitureops/backend/internal/domain/analytics"
	"github.com/furnitureops/backend/internal/domain/crm"
	"github.com/furnitureops/backend/internal/domain/finance"
	"github.com/furnitureops/backend/internal/domain/orders"
	"github.com/furnitureops/backend/internal/domain/production"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/furnitureops/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultCacheTTL  = 5 * time.Minute
	topCustomerCount = 5
	maxDashboardSpan = 3 * 366 * 24 * time.Hour
)

// Service computes dashboard reports and caches them per tenant
type Service struct {
	invoiceRepo  finance.InvoiceRepository
	paymentRepo  finance.PaymentRepository
	orderRepo    orders.OrderRepository
	trackingRepo production.TrackingRepository
	customerRepo crm.CustomerRepository
	cache        cache.Cache
	ttl          time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

// NewService creates an analytics service. A nil cache disables caching.
func NewService(
	invoiceRepo finance.InvoiceRepository,
	paymentRepo finance.PaymentRepository,
	orderRepo orders.OrderRepository,
	trackingRepo production.TrackingRepository,
	customerRepo crm.CustomerRepository,
	c cache.Cache,
	ttl time.Duration,
	logger *zap.Logger,
) *Service {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Service{
		invoiceRepo:  invoiceRepo,
		paymentRepo:  paymentRepo,
		orderRepo:    orderRepo,
		trackingRepo: trackingRepo,
		customerRepo: customerRepo,
		cache:        c,
		ttl:          ttl,
		logger:       logger,
		now:          time.Now,
	}
}

// ARAging buckets the tenant's open receivables. A nil asOf means now.
func (s *Service) ARAging(ctx context.Context, tenantID uuid.UUID, asOf *time.Time) (*analytics.AgingReport, error) {
	at := s.now()
	if asOf != nil {
		at = *asOf
	}
	key := s.key(tenantID, "ar-aging", at.UTC().Format("2006-01-02"))
	report, err := cache.GetOrLoad(ctx, s.cache, key, s.ttl, func(ctx context.Context) (analytics.AgingReport, error) {
		open, err := s.invoiceRepo.FindOpen(ctx, tenantID)
		if err != nil {
			return analytics.AgingReport{}, err
		}
		names, err := s.customerNames(ctx, tenantID, open)
		if err != nil {
			return analytics.AgingReport{}, err
		}
		return analytics.BuildAging(at, open, names), nil
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// ProductionBottlenecks reports how long active items sit in each stage
func (s *Service) ProductionBottlenecks(ctx context.Context, tenantID uuid.UUID) (*analytics.BottleneckReport, error) {
	report, err := cache.GetOrLoad(ctx, s.cache, s.key(tenantID, "bottlenecks"), s.ttl, func(ctx context.Context) (analytics.BottleneckReport, error) {
		rows, err := s.trackingRepo.FindActive(ctx, tenantID)
		if err != nil {
			return analytics.BottleneckReport{}, err
		}
		return analytics.BuildBottlenecks(s.now(), rows), nil
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// RevenueDashboard summarises invoicing and collections over [from, to).
// Zero bounds default to the last twelve whole months plus the current one.
func (s *Service) RevenueDashboard(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (*analytics.RevenueDashboard, error) {
	if to.IsZero() {
		to = s.now()
	}
	if from.IsZero() {
		start := to.UTC().AddDate(0, -12, 0)
		from = time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	if !to.After(from) {
		return nil, shared.NewDomainError("INVALID_RANGE", "'to' must be after 'from'")
	}
	if to.Sub(from) > maxDashboardSpan {
		return nil, shared.NewDomainError("INVALID_RANGE", "Date range cannot exceed three years")
	}

	key := s.key(tenantID, "revenue", from.UTC().Format("20060102"), to.UTC().Format("20060102"))
	d, err := cache.GetOrLoad(ctx, s.cache, key, s.ttl, func(ctx context.Context) (analytics.RevenueDashboard, error) {
		in := analytics.RevenueInput{From: from, To: to, TopN: topCustomerCount}
		var err error
		if in.Issued, err = s.invoiceRepo.FindIssuedBetween(ctx, tenantID, from, to); err != nil {
			return analytics.RevenueDashboard{}, err
		}
		if in.Payments, err = s.paymentRepo.FindPaidBetween(ctx, tenantID, from, to); err != nil {
			return analytics.RevenueDashboard{}, err
		}
		if in.Open, err = s.invoiceRepo.FindOpen(ctx, tenantID); err != nil {
			return analytics.RevenueDashboard{}, err
		}
		counts, err := s.orderRepo.CountByStatus(ctx, tenantID)
		if err != nil {
			return analytics.RevenueDashboard{}, err
		}
		in.OrdersByStatus = make(map[string]int64, len(counts))
		for status, n := range counts {
			in.OrdersByStatus[string(status)] = n
		}
		if in.Names, err = s.customerNames(ctx, tenantID, in.Issued); err != nil {
			return analytics.RevenueDashboard{}, err
		}
		return analytics.BuildRevenueDashboard(in), nil
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Invalidate drops the tenant's undated cached reports
func (s *Service) Invalidate(ctx context.Context, tenantID uuid.UUID) {
	if s.cache == nil {
		return
	}
	keys := []string{
		s.key(tenantID, "bottlenecks"),
		s.key(tenantID, "ar-aging", s.now().UTC().Format("2006-01-02")),
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Warn("Failed to invalidate analytics cache", zap.String("tenant_id", tenantID.String()), zap.Error(err))
	}
}

func (s *Service) customerNames(ctx context.Context, tenantID uuid.UUID, invoices []finance.Invoice) (map[uuid.UUID]string, error) {
	seen := map[uuid.UUID]struct{}{}
	ids := make([]uuid.UUID, 0)
	for i := range invoices {
		id := invoices[i].CustomerID
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	customers, err := s.customerRepo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	for _, c := range customers {
		names[c.ID] = c.Name
	}
	return names, nil
}

func (s *Service) key(tenantID uuid.UUID, parts ...string) string {
	k := fmt.Sprintf("analytics:%s", tenantID)
	for _, p := range parts {
		k += ":" + p
	}
	return k
}
