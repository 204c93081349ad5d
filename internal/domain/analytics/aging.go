package analytics

import (
	"sort"
	"time"

	"github.com/furnitureops/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aging bucket labels, in report order
const (
	BucketCurrent = "current"
	Bucket1To30   = "1-30"
	Bucket31To60  = "31-60"
	Bucket61To90  = "61-90"
	BucketOver90  = "90+"
)

// AgingBuckets lists the bucket labels in report order
var AgingBuckets = []string{BucketCurrent, Bucket1To30, Bucket31To60, Bucket61To90, BucketOver90}

// BucketFor maps days past due to an aging bucket
func BucketFor(daysPastDue int) string {
	switch {
	case daysPastDue <= 0:
		return BucketCurrent
	case daysPastDue <= 30:
		return Bucket1To30
	case daysPastDue <= 60:
		return Bucket31To60
	case daysPastDue <= 90:
		return Bucket61To90
	}
	return BucketOver90
}

// BucketTotal is the outstanding amount of one bucket
type BucketTotal struct {
	Bucket string          `json:"bucket"`
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
}

// CustomerAging is one customer's outstanding balance split by bucket
type CustomerAging struct {
	CustomerID   uuid.UUID                  `json:"customer_id"`
	CustomerName string                     `json:"customer_name"`
	Buckets      map[string]decimal.Decimal `json:"buckets"`
	Total        decimal.Decimal            `json:"total"`
	OldestDays   int                        `json:"oldest_days_past_due"`
}

// AgingReport is the accounts receivable aging at a date. Bucket amounts
// always sum to TotalOutstanding.
type AgingReport struct {
	AsOf             time.Time       `json:"as_of"`
	Buckets          []BucketTotal   `json:"buckets"`
	Customers        []CustomerAging `json:"customers"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	InvoiceCount     int             `json:"invoice_count"`
}

// BuildAging buckets open invoices by days past due. Invoices without a
// positive balance or not in an open state are ignored. names resolves
// customer display names and may be nil.
func BuildAging(asOf time.Time, invoices []finance.Invoice, names map[uuid.UUID]string) AgingReport {
	totals := make(map[string]*BucketTotal, len(AgingBuckets))
	report := AgingReport{AsOf: asOf, TotalOutstanding: decimal.Zero, Buckets: make([]BucketTotal, len(AgingBuckets))}
	for i, b := range AgingBuckets {
		report.Buckets[i] = BucketTotal{Bucket: b, Amount: decimal.Zero}
		totals[b] = &report.Buckets[i]
	}

	byCustomer := map[uuid.UUID]*CustomerAging{}
	for i := range invoices {
		inv := &invoices[i]
		if !inv.Status.IsOpen() || !inv.BalanceDue.IsPositive() {
			continue
		}
		days := inv.DaysPastDue(asOf)
		bucket := BucketFor(days)

		t := totals[bucket]
		t.Amount = t.Amount.Add(inv.BalanceDue)
		t.Count++
		report.TotalOutstanding = report.TotalOutstanding.Add(inv.BalanceDue)
		report.InvoiceCount++

		c, ok := byCustomer[inv.CustomerID]
		if !ok {
			c = &CustomerAging{
				CustomerID:   inv.CustomerID,
				CustomerName: names[inv.CustomerID],
				Buckets:      make(map[string]decimal.Decimal, len(AgingBuckets)),
				Total:        decimal.Zero,
			}
			for _, b := range AgingBuckets {
				c.Buckets[b] = decimal.Zero
			}
			byCustomer[inv.CustomerID] = c
		}
		c.Buckets[bucket] = c.Buckets[bucket].Add(inv.BalanceDue)
		c.Total = c.Total.Add(inv.BalanceDue)
		if days > c.OldestDays {
			c.OldestDays = days
		}
	}

	report.Customers = make([]CustomerAging, 0, len(byCustomer))
	for _, c := range byCustomer {
		report.Customers = append(report.Customers, *c)
	}
	sort.Slice(report.Customers, func(i, j int) bool {
		a, b := report.Customers[i], report.Customers[j]
		if !a.Total.Equal(b.Total) {
			return a.Total.GreaterThan(b.Total)
		}
		return a.CustomerID.String() < b.CustomerID.String()
	})
	return report
}
