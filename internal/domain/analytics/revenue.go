package analytics

import (
	"sort"
	"time"

	"github.com/furnitureops/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MonthlyRevenue is one month of the revenue series
type MonthlyRevenue struct {
	Month     string          `json:"month"`
	Invoiced  decimal.Decimal `json:"invoiced"`
	Collected decimal.Decimal `json:"collected"`
}

// CustomerRevenue ranks a customer by invoiced amount
type CustomerRevenue struct {
	CustomerID   uuid.UUID       `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	Invoiced     decimal.Decimal `json:"invoiced"`
	InvoiceCount int             `json:"invoice_count"`
}

// RevenueDashboard summarises billing over [From, To)
type RevenueDashboard struct {
	From           time.Time         `json:"from"`
	To             time.Time         `json:"to"`
	Invoiced       decimal.Decimal   `json:"invoiced"`
	Collected      decimal.Decimal   `json:"collected"`
	Outstanding    decimal.Decimal   `json:"outstanding"`
	CollectionRate decimal.Decimal   `json:"collection_rate"`
	Monthly        []MonthlyRevenue  `json:"monthly"`
	TopCustomers   []CustomerRevenue `json:"top_customers"`
	OrdersByStatus map[string]int64  `json:"orders_by_status"`
}

// RevenueInput carries the raw rows a dashboard is built from
type RevenueInput struct {
	From, To       time.Time
	Issued         []finance.Invoice
	Payments       []finance.Payment
	Open           []finance.Invoice
	OrdersByStatus map[string]int64
	Names          map[uuid.UUID]string
	TopN           int
}

// BuildRevenueDashboard aggregates issued invoices, payments and open balances
func BuildRevenueDashboard(in RevenueInput) RevenueDashboard {
	d := RevenueDashboard{
		From:           in.From,
		To:             in.To,
		Invoiced:       decimal.Zero,
		Collected:      decimal.Zero,
		Outstanding:    decimal.Zero,
		CollectionRate: decimal.Zero,
		OrdersByStatus: in.OrdersByStatus,
	}
	if d.OrdersByStatus == nil {
		d.OrdersByStatus = map[string]int64{}
	}

	months := monthKeys(in.From, in.To)
	monthly := make(map[string]*MonthlyRevenue, len(months))
	d.Monthly = make([]MonthlyRevenue, len(months))
	for i, m := range months {
		d.Monthly[i] = MonthlyRevenue{Month: m, Invoiced: decimal.Zero, Collected: decimal.Zero}
		monthly[m] = &d.Monthly[i]
	}

	customers := map[uuid.UUID]*CustomerRevenue{}
	for i := range in.Issued {
		inv := &in.Issued[i]
		d.Invoiced = d.Invoiced.Add(inv.Total)
		if m, ok := monthly[inv.IssueDate.UTC().Format("2006-01")]; ok {
			m.Invoiced = m.Invoiced.Add(inv.Total)
		}
		c, ok := customers[inv.CustomerID]
		if !ok {
			c = &CustomerRevenue{CustomerID: inv.CustomerID, CustomerName: in.Names[inv.CustomerID], Invoiced: decimal.Zero}
			customers[inv.CustomerID] = c
		}
		c.Invoiced = c.Invoiced.Add(inv.Total)
		c.InvoiceCount++
	}
	for _, p := range in.Payments {
		d.Collected = d.Collected.Add(p.Amount)
		if m, ok := monthly[p.PaidAt.UTC().Format("2006-01")]; ok {
			m.Collected = m.Collected.Add(p.Amount)
		}
	}
	for i := range in.Open {
		if in.Open[i].Status.IsOpen() {
			d.Outstanding = d.Outstanding.Add(in.Open[i].BalanceDue)
		}
	}
	if d.Invoiced.IsPositive() {
		d.CollectionRate = d.Collected.Div(d.Invoiced).Round(4)
	}

	d.TopCustomers = make([]CustomerRevenue, 0, len(customers))
	for _, c := range customers {
		d.TopCustomers = append(d.TopCustomers, *c)
	}
	sort.Slice(d.TopCustomers, func(i, j int) bool {
		a, b := d.TopCustomers[i], d.TopCustomers[j]
		if !a.Invoiced.Equal(b.Invoiced) {
			return a.Invoiced.GreaterThan(b.Invoiced)
		}
		return a.CustomerID.String() < b.CustomerID.String()
	})
	if in.TopN > 0 && len(d.TopCustomers) > in.TopN {
		d.TopCustomers = d.TopCustomers[:in.TopN]
	}
	return d
}

// monthKeys lists the months touched by [from, to) as YYYY-MM
func monthKeys(from, to time.Time) []string {
	if !to.After(from) {
		return []string{}
	}
	from, to = from.UTC(), to.UTC()
	cur := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	var keys []string
	for cur.Before(to) {
		keys = append(keys, cur.Format("2006-01"))
		cur = cur.AddDate(0, 1, 0)
	}
	return keys
}
