package prediction

import (
	"encoding/json"
	"time"

	"github.com/furnitureops/backend/internal/domain/prediction"
	"github.com/google/uuid"
)

// RevenueForecastRequest asks for a revenue projection
type RevenueForecastRequest struct {
	MonthsAhead   int `json:"months_ahead" form:"months_ahead" binding:"omitempty,min=1,max=24"`
	HistoryMonths int `json:"history_months" form:"history_months" binding:"omitempty,min=3,max=36"`
}

// DemandForecastRequest asks for a product demand projection
type DemandForecastRequest struct {
	Periods       int `json:"periods" form:"periods" binding:"omitempty,min=1,max=24"`
	HistoryMonths int `json:"history_months" form:"history_months" binding:"omitempty,min=3,max=36"`
}

// LeadScoreRequest bounds a lead scoring run
type LeadScoreRequest struct {
	Limit int `json:"limit" form:"limit" binding:"omitempty,min=1,max=500"`
}

// PredictionListFilter represents filter options for stored predictions
type PredictionListFilter struct {
	Type      string     `form:"type" binding:"omitempty,oneof=revenue churn demand lead_score"`
	SubjectID *uuid.UUID `form:"subject_id"`
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PredictionResponse represents a stored prediction
type PredictionResponse struct {
	ID          uuid.UUID      `json:"id"`
	Type        string         `json:"type"`
	SubjectType string         `json:"subject_type"`
	SubjectID   *uuid.UUID     `json:"subject_id,omitempty"`
	Result      map[string]any `json:"result"`
	Confidence  float64        `json:"confidence"`
	CreatedAt   time.Time      `json:"created_at"`
}

// MonthValue is one month of a series
type MonthValue struct {
	Month string  `json:"month"`
	Value float64 `json:"value"`
}

// ForecastPoint is one projected period
type ForecastPoint struct {
	Month         string  `json:"month"`
	Value         float64 `json:"value"`
	Linear        float64 `json:"linear"`
	MovingAverage float64 `json:"moving_average"`
}

// SeriesForecast is the result body of revenue and demand predictions
type SeriesForecast struct {
	History       []MonthValue     `json:"history"`
	MovingAverage []float64        `json:"moving_average"`
	Trend         prediction.Trend `json:"trend"`
	GrowthRate    float64          `json:"growth_rate"`
	Forecast      []ForecastPoint  `json:"forecast"`
	Total         float64          `json:"total_forecast"`
}

// ChurnPrediction is the result body of a churn prediction
type ChurnPrediction struct {
	CustomerID   uuid.UUID                `json:"customer_id"`
	CustomerName string                   `json:"customer_name"`
	Features     prediction.ChurnFeatures `json:"features"`
	Score        int                      `json:"score"`
	Risk         prediction.RiskLevel     `json:"risk"`
	Factors      []prediction.ScoreFactor `json:"factors"`
}

// LeadScoreResponse is one scored lead
type LeadScoreResponse struct {
	CustomerID   uuid.UUID                `json:"customer_id"`
	CustomerName string                   `json:"customer_name"`
	Score        int                      `json:"score"`
	Grade        string                   `json:"grade"`
	Factors      []prediction.ScoreFactor `json:"factors"`
}

// ChurnRefreshResult summarizes a nightly churn refresh
type ChurnRefreshResult struct {
	Tenants int `json:"tenants"`
	Scored  int `json:"scored"`
	Failed  int `json:"failed"`
}

// ToPredictionResponse converts a domain Prediction
func ToPredictionResponse(p *prediction.Prediction) PredictionResponse {
	return PredictionResponse{
		ID:          p.ID,
		Type:        string(p.Type),
		SubjectType: p.SubjectType,
		SubjectID:   p.SubjectID,
		Result:      p.Result,
		Confidence:  p.Confidence,
		CreatedAt:   p.CreatedAt,
	}
}

// ToPredictionResponses converts a slice of domain Predictions
func ToPredictionResponses(list []prediction.Prediction) []PredictionResponse {
	responses := make([]PredictionResponse, len(list))
	for i := range list {
		responses[i] = ToPredictionResponse(&list[i])
	}
	return responses
}

// toResult flattens a typed result into the JSON object shape it is stored in
func toResult(v any) map[string]any {
	raw, err := json.Marshal(v)
	if err != nil {
		return map[string]any{}
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]any{}
	}
	return out
}
