package prediction

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/furnitureops/backend/internal/domain/catalog"
	"github.com/furnitureops/backend/internal/domain/crm"
	"github.com/furnitureops/backend/internal/domain/finance"
	"github.com/furnitureops/backend/internal/domain/orders"
	"github.com/furnitureops/backend/internal/domain/prediction"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultForecastPeriods = 3
	defaultHistoryMonths   = 12
	movingAverageWindow    = 3
	defaultLeadLimit       = 50
	refreshPageSize        = 100
	// orders older than this do not count towards days since last order
	orderLookback = 5 * 365 * 24 * time.Hour
)

// Service runs the forecasting and scoring heuristics and stores their results
type Service struct {
	predictionRepo prediction.Repository
	customerRepo   crm.CustomerRepository
	activityRepo   crm.ActivityRepository
	productRepo    catalog.ProductRepository
	orderRepo      orders.OrderRepository
	invoiceRepo    finance.InvoiceRepository
	paymentRepo    finance.PaymentRepository
	logger         *zap.Logger
	now            func() time.Time
}

// NewService creates a prediction service
func NewService(
	predictionRepo prediction.Repository,
	customerRepo crm.CustomerRepository,
	activityRepo crm.ActivityRepository,
	productRepo catalog.ProductRepository,
	orderRepo orders.OrderRepository,
	invoiceRepo finance.InvoiceRepository,
	paymentRepo finance.PaymentRepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		predictionRepo: predictionRepo,
		customerRepo:   customerRepo,
		activityRepo:   activityRepo,
		productRepo:    productRepo,
		orderRepo:      orderRepo,
		invoiceRepo:    invoiceRepo,
		paymentRepo:    paymentRepo,
		logger:         logger,
		now:            time.Now,
	}
}

// PredictRevenue projects collected revenue from monthly payment totals of
// the completed months before now
func (s *Service) PredictRevenue(ctx context.Context, tenantID uuid.UUID, req RevenueForecastRequest) (*PredictionResponse, error) {
	ahead := orDefault(req.MonthsAhead, defaultForecastPeriods)
	history := orDefault(req.HistoryMonths, defaultHistoryMonths)
	end := monthStart(s.now())
	start := end.AddDate(0, -history, 0)

	payments, err := s.paymentRepo.FindPaidBetween(ctx, tenantID, start, end)
	if err != nil {
		return nil, err
	}
	values := make([]float64, history)
	for _, p := range payments {
		if idx := monthIndex(start, p.PaidAt); idx >= 0 && idx < history {
			amount, _ := p.Amount.Float64()
			values[idx] += amount
		}
	}

	forecast := buildForecast(start, values, ahead, 2)
	return s.store(ctx, tenantID, prediction.TypeRevenue, "tenant", nil, forecast, prediction.Confidence(values))
}

// PredictDemand projects ordered quantities of a product per month
func (s *Service) PredictDemand(ctx context.Context, tenantID, productID uuid.UUID, req DemandForecastRequest) (*PredictionResponse, error) {
	if _, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_PRODUCT", "Product does not exist")
		}
		return nil, err
	}
	periods := orDefault(req.Periods, defaultForecastPeriods)
	history := orDefault(req.HistoryMonths, defaultHistoryMonths)
	end := monthStart(s.now())
	start := end.AddDate(0, -history, 0)

	list, err := s.orderRepo.FindCreatedBetween(ctx, tenantID, start, end)
	if err != nil {
		return nil, err
	}
	values := make([]float64, history)
	for _, o := range list {
		idx := monthIndex(start, o.CreatedAt)
		if idx < 0 || idx >= history {
			continue
		}
		for _, item := range o.Items {
			if item.ProductID != nil && *item.ProductID == productID {
				values[idx] += float64(item.Quantity)
			}
		}
	}

	forecast := buildForecast(start, values, periods, 1)
	return s.store(ctx, tenantID, prediction.TypeDemand, "product", &productID, forecast, prediction.Confidence(values))
}

// PredictChurn scores a customer's churn risk
func (s *Service) PredictChurn(ctx context.Context, tenantID, customerID uuid.UUID) (*PredictionResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	now := s.now()

	features := prediction.ChurnFeatures{
		SupportTickets:       customer.SupportTicketCount,
		DaysSinceLastContact: customer.DaysSinceContact(now),
		DaysSinceLastOrder:   -1,
	}
	features.LifetimeValue, _ = customer.LifetimeValue.Float64()

	recent, err := s.orderRepo.FindByCustomerSince(ctx, tenantID, customerID, now.Add(-orderLookback))
	if err != nil {
		return nil, err
	}
	for _, o := range recent {
		if o.Status == orders.OrderStatusCancelled {
			continue
		}
		days := int(now.Sub(o.CreatedAt).Hours() / 24)
		if features.DaysSinceLastOrder < 0 || days < features.DaysSinceLastOrder {
			features.DaysSinceLastOrder = days
		}
	}

	invoices, err := s.invoiceRepo.FindByCustomer(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	for _, inv := range invoices {
		if inv.Status == finance.InvoiceStatusOverdue {
			features.OverdueInvoices++
		}
	}

	score := prediction.ChurnScore(features)
	confidence := 0.5
	if features.DaysSinceLastContact >= 0 {
		confidence += 0.2
	}
	if features.DaysSinceLastOrder >= 0 {
		confidence += 0.2
	}

	result := ChurnPrediction{
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		Features:     features,
		Score:        score.Score,
		Risk:         score.Risk,
		Factors:      score.Factors,
	}
	return s.store(ctx, tenantID, prediction.TypeChurn, "customer", &customer.ID, result, confidence)
}

// RefreshChurn re-scores every active customer of every tenant. A failing
// customer is logged and skipped.
func (s *Service) RefreshChurn(ctx context.Context) (*ChurnRefreshResult, error) {
	tenants, err := s.customerRepo.TenantIDs(ctx)
	if err != nil {
		return nil, err
	}
	result := &ChurnRefreshResult{Tenants: len(tenants)}
	for _, tenantID := range tenants {
		for page := 1; ; page++ {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			filter := shared.Filter{Page: page, PageSize: refreshPageSize, OrderBy: "created_at", OrderDir: "asc", Filters: map[string]any{
				"status": string(crm.CustomerStatusActive),
			}}
			customers, err := s.customerRepo.FindAllForTenant(ctx, tenantID, filter)
			if err != nil {
				s.logger.Warn("Failed to list customers for churn refresh", zap.String("tenant_id", tenantID.String()), zap.Error(err))
				result.Failed++
				break
			}
			for i := range customers {
				if _, err := s.PredictChurn(ctx, tenantID, customers[i].ID); err != nil {
					result.Failed++
					s.logger.Warn("Churn prediction failed",
						zap.String("tenant_id", tenantID.String()),
						zap.String("customer_id", customers[i].ID.String()),
						zap.Error(err))
					continue
				}
				result.Scored++
			}
			if len(customers) < refreshPageSize {
				break
			}
		}
	}
	s.logger.Info("Churn refresh finished",
		zap.Int("tenants", result.Tenants),
		zap.Int("scored", result.Scored),
		zap.Int("failed", result.Failed))
	return result, nil
}

// ScoreLeads scores customers still in the lead stage, best first
func (s *Service) ScoreLeads(ctx context.Context, tenantID uuid.UUID, req LeadScoreRequest) ([]LeadScoreResponse, error) {
	limit := orDefault(req.Limit, defaultLeadLimit)
	filter := shared.Filter{Page: 1, PageSize: limit, OrderBy: "created_at", OrderDir: "desc", Filters: map[string]any{
		"status": string(crm.CustomerStatusLead),
	}}
	leads, err := s.customerRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	now := s.now()
	scored := make([]LeadScoreResponse, 0, len(leads))
	for i := range leads {
		lead := &leads[i]
		activities, err := s.activityRepo.FindByCustomer(ctx, tenantID, lead.ID, shared.Filter{Page: 1, PageSize: 100, Filters: map[string]any{}})
		if err != nil {
			return nil, err
		}
		features := prediction.LeadFeatures{
			HasEmail:       lead.Email != "",
			HasPhone:       lead.Phone != "",
			HasCompany:     lead.Company != "",
			Source:         lead.Source,
			Activities:     len(activities),
			DaysSinceTouch: lead.DaysSinceContact(now),
		}
		for _, a := range activities {
			if a.Type == crm.ActivityTypeMeeting {
				features.Meetings++
			}
			days := int(now.Sub(a.OccurredAt).Hours() / 24)
			if features.DaysSinceTouch < 0 || days < features.DaysSinceTouch {
				features.DaysSinceTouch = days
			}
		}

		score := prediction.LeadScore(features)
		resp := LeadScoreResponse{
			CustomerID:   lead.ID,
			CustomerName: lead.Name,
			Score:        score.Score,
			Grade:        score.Grade,
			Factors:      score.Factors,
		}
		if _, err := s.store(ctx, tenantID, prediction.TypeLeadScore, "customer", &lead.ID, resp, 0.6); err != nil {
			return nil, err
		}
		scored = append(scored, resp)
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	return scored, nil
}

// List retrieves a page of stored predictions
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, filter PredictionListFilter) ([]PredictionResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]any),
	}.Normalize()
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.SubjectID != nil {
		domainFilter.Filters["subject_id"] = *filter.SubjectID
	}

	list, err := s.predictionRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.predictionRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToPredictionResponses(list), total, nil
}

// Latest returns the newest prediction of a type for a subject
func (s *Service) Latest(ctx context.Context, tenantID uuid.UUID, typ string, subjectID *uuid.UUID) (*PredictionResponse, error) {
	p, err := s.predictionRepo.FindLatest(ctx, tenantID, prediction.Type(typ), subjectID)
	if err != nil {
		return nil, err
	}
	resp := ToPredictionResponse(p)
	return &resp, nil
}

func (s *Service) store(ctx context.Context, tenantID uuid.UUID, typ prediction.Type, subjectType string, subjectID *uuid.UUID, result any, confidence float64) (*PredictionResponse, error) {
	p := prediction.NewPrediction(tenantID, typ, subjectType, subjectID, toResult(result), round(confidence, 2))
	if err := s.predictionRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Debug("Prediction stored",
		zap.String("type", string(typ)),
		zap.String("tenant_id", tenantID.String()),
		zap.Float64("confidence", p.Confidence))
	resp := ToPredictionResponse(p)
	return &resp, nil
}

// buildForecast blends the linear projection with the latest moving average
func buildForecast(start time.Time, values []float64, periods, places int) SeriesForecast {
	history := make([]MonthValue, len(values))
	for i, v := range values {
		history[i] = MonthValue{Month: start.AddDate(0, i, 0).Format("2006-01"), Value: round(v, places)}
	}
	ma := prediction.MovingAverage(values, movingAverageWindow)
	level := mean(values)
	if len(ma) > 0 {
		level = ma[len(ma)-1]
	}
	linear := prediction.ProjectLinear(values, periods)

	out := SeriesForecast{
		History:       history,
		MovingAverage: make([]float64, len(ma)),
		Trend:         prediction.LinearTrend(values),
		GrowthRate:    round(prediction.GrowthRate(values), 4),
		Forecast:      make([]ForecastPoint, len(linear)),
	}
	for i, v := range ma {
		out.MovingAverage[i] = round(v, places)
	}
	for i, l := range linear {
		value := round((l+level)/2, places)
		out.Forecast[i] = ForecastPoint{
			Month:         start.AddDate(0, len(values)+i, 0).Format("2006-01"),
			Value:         value,
			Linear:        round(l, places),
			MovingAverage: round(level, places),
		}
		out.Total += value
	}
	out.Total = round(out.Total, places)
	return out
}

func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func monthIndex(start, t time.Time) int {
	t = t.UTC()
	return (t.Year()-start.Year())*12 + int(t.Month()) - int(start.Month())
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
