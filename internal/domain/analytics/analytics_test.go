package analytics

import (
	"testing"
	"time"

	"github.com/furnitureops/backend/internal/domain/finance"
	"github.com/furnitureops/backend/internal/domain/production"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketFor(t *testing.T) {
	cases := map[int]string{
		-5: BucketCurrent, 0: BucketCurrent, 1: Bucket1To30, 30: Bucket1To30,
		31: Bucket31To60, 60: Bucket31To60, 61: Bucket61To90, 90: Bucket61To90, 91: BucketOver90,
	}
	for days, want := range cases {
		assert.Equal(t, want, BucketFor(days), "days=%d", days)
	}
}

func invoice(customerID uuid.UUID, status finance.InvoiceStatus, balance int64, due time.Time) finance.Invoice {
	return finance.Invoice{
		CustomerID: customerID,
		Status:     status,
		BalanceDue: decimal.NewFromInt(balance),
		Total:      decimal.NewFromInt(balance),
		DueDate:    due,
	}
}

func TestBuildAging(t *testing.T) {
	asOf := time.Date(2026, 6, 30, 12, 0, 0, 0, time.UTC)
	acme, birch := uuid.New(), uuid.New()
	invoices := []finance.Invoice{
		invoice(acme, finance.InvoiceStatusSent, 100, asOf.AddDate(0, 0, 10)),
		invoice(acme, finance.InvoiceStatusOverdue, 250, asOf.AddDate(0, 0, -45)),
		invoice(birch, finance.InvoiceStatusPartial, 80, asOf.AddDate(0, 0, -5)),
		invoice(birch, finance.InvoiceStatusOverdue, 400, asOf.AddDate(0, 0, -120)),
		invoice(birch, finance.InvoiceStatusPaid, 0, asOf.AddDate(0, 0, -200)),
		invoice(acme, finance.InvoiceStatusDraft, 999, asOf.AddDate(0, 0, -200)),
	}

	report := BuildAging(asOf, invoices, map[uuid.UUID]string{acme: "Acme Interiors"})
	assert.Equal(t, 4, report.InvoiceCount)
	assert.True(t, decimal.NewFromInt(830).Equal(report.TotalOutstanding))

	sum := decimal.Zero
	amounts := map[string]decimal.Decimal{}
	for _, b := range report.Buckets {
		sum = sum.Add(b.Amount)
		amounts[b.Bucket] = b.Amount
	}
	assert.True(t, sum.Equal(report.TotalOutstanding))
	assert.True(t, decimal.NewFromInt(100).Equal(amounts[BucketCurrent]))
	assert.True(t, decimal.NewFromInt(80).Equal(amounts[Bucket1To30]))
	assert.True(t, decimal.NewFromInt(250).Equal(amounts[Bucket31To60]))
	assert.True(t, amounts[Bucket61To90].IsZero())
	assert.True(t, decimal.NewFromInt(400).Equal(amounts[BucketOver90]))

	require.Len(t, report.Customers, 2)
	assert.Equal(t, birch, report.Customers[0].CustomerID)
	assert.Equal(t, 120, report.Customers[0].OldestDays)
	assert.Equal(t, "Acme Interiors", report.Customers[1].CustomerName)
	assert.True(t, decimal.NewFromInt(350).Equal(report.Customers[1].Total))
}

func TestBuildAging_Empty(t *testing.T) {
	report := BuildAging(time.Now(), nil, nil)
	assert.Len(t, report.Buckets, 5)
	assert.True(t, report.TotalOutstanding.IsZero())
	assert.Empty(t, report.Customers)
}

func tracking(t *testing.T, stage production.Stage, enteredDaysAgo int, due *time.Time, now time.Time) production.Tracking {
	t.Helper()
	row, err := production.NewTracking(uuid.New(), uuid.New(), 0, "Chair", 2, due)
	require.NoError(t, err)
	row.Stage = stage
	row.StageEnteredAt = now.AddDate(0, 0, -enteredDaysAgo)
	return *row
}

func TestBuildBottlenecks(t *testing.T) {
	now := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -1)
	rows := []production.Tracking{
		tracking(t, production.StageCutting, 2, nil, now),
		tracking(t, production.StageFinishing, 6, &past, now),
		tracking(t, production.StageFinishing, 10, nil, now),
		tracking(t, production.StageAssembly, 1, nil, now),
	}
	done := tracking(t, production.StageCompleted, 50, nil, now)
	rows = append(rows, done)

	report := BuildBottlenecks(now, rows)
	assert.Equal(t, 4, report.ActiveItems)
	assert.Equal(t, 1, report.OverdueItems)
	require.Len(t, report.Stages, 3)
	require.NotNil(t, report.Bottleneck)
	assert.Equal(t, production.StageFinishing, report.Bottleneck.Stage)
	assert.Equal(t, 8.0, report.Bottleneck.AvgDaysInStage)
	assert.Equal(t, 10.0, report.Bottleneck.MaxDaysInStage)
	assert.Equal(t, 4, report.Bottleneck.Units)
	assert.Equal(t, production.StageCutting, report.Stages[1].Stage)
}

func TestBuildBottlenecks_Idle(t *testing.T) {
	report := BuildBottlenecks(time.Now(), nil)
	assert.Nil(t, report.Bottleneck)
	assert.Empty(t, report.Stages)
}

func TestBuildRevenueDashboard(t *testing.T) {
	from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	a, b := uuid.New(), uuid.New()
	issued := func(customer uuid.UUID, total int64, day time.Time) finance.Invoice {
		return finance.Invoice{CustomerID: customer, Total: decimal.NewFromInt(total), IssueDate: day, Status: finance.InvoiceStatusSent}
	}

	d := BuildRevenueDashboard(RevenueInput{
		From: from,
		To:   to,
		Issued: []finance.Invoice{
			issued(a, 1000, from.AddDate(0, 0, 3)),
			issued(b, 3000, from.AddDate(0, 1, 3)),
			issued(a, 1000, from.AddDate(0, 2, 3)),
		},
		Payments: []finance.Payment{
			{Amount: decimal.NewFromInt(1500), PaidAt: from.AddDate(0, 1, 10)},
		},
		Open: []finance.Invoice{
			{Status: finance.InvoiceStatusOverdue, BalanceDue: decimal.NewFromInt(700)},
			{Status: finance.InvoiceStatusVoid, BalanceDue: decimal.NewFromInt(50)},
		},
		OrdersByStatus: map[string]int64{"confirmed": 3},
		Names:          map[uuid.UUID]string{b: "Birch & Co"},
		TopN:           1,
	})

	assert.True(t, decimal.NewFromInt(5000).Equal(d.Invoiced))
	assert.True(t, decimal.NewFromInt(1500).Equal(d.Collected))
	assert.True(t, decimal.NewFromInt(700).Equal(d.Outstanding))
	assert.True(t, decimal.RequireFromString("0.3").Equal(d.CollectionRate))
	require.Len(t, d.Monthly, 3)
	assert.Equal(t, "2026-05", d.Monthly[1].Month)
	assert.True(t, decimal.NewFromInt(3000).Equal(d.Monthly[1].Invoiced))
	assert.True(t, decimal.NewFromInt(1500).Equal(d.Monthly[1].Collected))
	require.Len(t, d.TopCustomers, 1)
	assert.Equal(t, "Birch & Co", d.TopCustomers[0].CustomerName)
	assert.Equal(t, int64(3), d.OrdersByStatus["confirmed"])
}
