package prediction

// RiskLevel buckets a churn score
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ChurnFeatures are the customer signals used for churn scoring.
// A negative day count means the event never happened.
type ChurnFeatures struct {
	SupportTickets       int     `json:"support_tickets"`
	DaysSinceLastContact int     `json:"days_since_last_contact"`
	DaysSinceLastOrder   int     `json:"days_since_last_order"`
	OverdueInvoices      int     `json:"overdue_invoices"`
	LifetimeValue        float64 `json:"lifetime_value"`
}

// ScoreFactor explains one contribution to a score
type ScoreFactor struct {
	Reason string `json:"reason"`
	Points int    `json:"points"`
}

// ChurnResult is the outcome of ChurnScore
type ChurnResult struct {
	Score   int           `json:"score"`
	Risk    RiskLevel     `json:"risk"`
	Factors []ScoreFactor `json:"factors"`
}

// ChurnScore adds points for each risk signal and caps the total at 100
func ChurnScore(f ChurnFeatures) ChurnResult {
	factors := []ScoreFactor{}
	add := func(cond bool, reason string, points int) {
		if cond {
			factors = append(factors, ScoreFactor{Reason: reason, Points: points})
		}
	}

	add(f.SupportTickets > 5, "more than 5 support tickets", 20)
	add(f.DaysSinceLastContact < 0 || f.DaysSinceLastContact > 90, "no contact in 90 days", 25)
	add(f.DaysSinceLastOrder < 0 || f.DaysSinceLastOrder > 180, "no order in 180 days", 15)
	add(f.OverdueInvoices > 0, "has overdue invoices", 20)
	add(f.LifetimeValue < 1000, "lifetime value under 1000", 10)

	score := 0
	for _, fc := range factors {
		score += fc.Points
	}
	if score > 100 {
		score = 100
	}
	return ChurnResult{Score: score, Risk: riskFor(score), Factors: factors}
}

func riskFor(score int) RiskLevel {
	switch {
	case score >= 60:
		return RiskHigh
	case score >= 30:
		return RiskMedium
	}
	return RiskLow
}

// LeadFeatures are the signals used for lead scoring
type LeadFeatures struct {
	HasEmail       bool   `json:"has_email"`
	HasPhone       bool   `json:"has_phone"`
	HasCompany     bool   `json:"has_company"`
	Source         string `json:"source"`
	Activities     int    `json:"activities"`
	Meetings       int    `json:"meetings"`
	DaysSinceTouch int    `json:"days_since_touch"`
}

// LeadResult is the outcome of LeadScore
type LeadResult struct {
	Score   int           `json:"score"`
	Grade   string        `json:"grade"`
	Factors []ScoreFactor `json:"factors"`
}

// LeadScore ranks how sales-ready a lead is on 0..100
func LeadScore(f LeadFeatures) LeadResult {
	factors := []ScoreFactor{}
	add := func(cond bool, reason string, points int) {
		if cond {
			factors = append(factors, ScoreFactor{Reason: reason, Points: points})
		}
	}

	add(f.HasEmail, "email on file", 10)
	add(f.HasPhone, "phone on file", 10)
	add(f.HasCompany, "trade or company buyer", 15)
	add(f.Source == "referral", "referral source", 20)
	add(f.Source == "showroom", "showroom visit", 15)
	add(f.Activities >= 3, "three or more interactions", 15)
	add(f.Meetings > 0, "has met in person", 20)
	add(f.DaysSinceTouch >= 0 && f.DaysSinceTouch <= 14, "touched in the last two weeks", 10)

	score := 0
	for _, fc := range factors {
		score += fc.Points
	}
	if score > 100 {
		score = 100
	}
	grade := "cold"
	switch {
	case score >= 70:
		grade = "hot"
	case score >= 40:
		grade = "warm"
	}
	return LeadResult{Score: score, Grade: grade, Factors: factors}
}
