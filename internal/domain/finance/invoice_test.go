package finance

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newInvoice(t *testing.T) *Invoice {
	t.Helper()
	issue := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	inv, err := NewInvoice(uuid.New(), uuid.New(), []InvoiceLine{
		{Description: "Walnut sideboard", Quantity: d("1"), UnitPrice: d("2000"), TaxRate: d("0.1")},
		{Description: "Delivery", Quantity: d("1"), UnitPrice: d("150"), TaxRate: decimal.Zero},
	}, issue, issue.AddDate(0, 0, 30), "usd")
	require.NoError(t, err)
	return inv
}

func TestNewInvoice(t *testing.T) {
	inv := newInvoice(t)

	assert.Equal(t, "USD", inv.Currency)
	assert.True(t, inv.Subtotal.Equal(d("2150")))
	assert.True(t, inv.TaxTotal.Equal(d("200")))
	assert.True(t, inv.Total.Equal(d("2350")))
	assert.True(t, inv.BalanceDue.Equal(d("2350")))
	assert.Equal(t, InvoiceStatusDraft, inv.Status)
	assert.Regexp(t, `^INV-\d{8}-[0-9A-F]{6}$`, inv.InvoiceNumber)
}

func TestNewInvoice_Validation(t *testing.T) {
	now := time.Now()

	_, err := NewInvoice(uuid.New(), uuid.New(), nil, now, now, "")
	assert.Error(t, err)

	_, err = NewInvoice(uuid.New(), uuid.New(), []InvoiceLine{{Description: "x", Quantity: d("1"), UnitPrice: d("1")}}, now, now.AddDate(0, 0, -5), "")
	assert.Error(t, err)

	_, err = NewInvoice(uuid.New(), uuid.Nil, []InvoiceLine{{Description: "x", Quantity: d("1"), UnitPrice: d("1")}}, now, now, "")
	assert.Error(t, err)
}

func TestInvoice_ApplyPayment(t *testing.T) {
	inv := newInvoice(t)

	t.Run("draft invoices cannot take payments", func(t *testing.T) {
		assert.Error(t, inv.ApplyPayment(d("10"), time.Now()))
	})

	require.NoError(t, inv.Send())

	t.Run("partial payment", func(t *testing.T) {
		require.NoError(t, inv.ApplyPayment(d("1000"), time.Now()))
		assert.Equal(t, InvoiceStatusPartial, inv.Status)
		assert.True(t, inv.BalanceDue.Equal(d("1350")))
	})

	t.Run("overpayment rejected", func(t *testing.T) {
		err := inv.ApplyPayment(d("1350.01"), time.Now())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exceeds balance due")
	})

	t.Run("final payment", func(t *testing.T) {
		inv.ClearDomainEvents()
		require.NoError(t, inv.ApplyPayment(d("1350"), time.Now()))
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
		assert.True(t, inv.BalanceDue.IsZero())
		assert.NotNil(t, inv.PaidAt)
		require.Len(t, inv.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeInvoicePaid, inv.GetDomainEvents()[0].EventType())
	})

	assert.Error(t, inv.Void())
}

func TestInvoice_MarkOverdue(t *testing.T) {
	inv := newInvoice(t)
	after := inv.DueDate.AddDate(0, 0, 3)

	assert.False(t, inv.MarkOverdue(after), "drafts are never overdue")

	require.NoError(t, inv.Send())
	assert.False(t, inv.MarkOverdue(inv.DueDate.Add(-time.Hour)))
	assert.True(t, inv.MarkOverdue(after))
	assert.Equal(t, InvoiceStatusOverdue, inv.Status)
	assert.Equal(t, 3, inv.DaysPastDue(after))
	assert.False(t, inv.MarkOverdue(after), "already overdue")

	// overdue invoices still accept payment
	require.NoError(t, inv.ApplyPayment(d("100"), after))
	assert.Equal(t, InvoiceStatusPartial, inv.Status)
}

func TestInvoice_MarkOverdue_DueDate(t *testing.T) {
	inv := newInvoice(t)
	require.NoError(t, inv.Send())
	inv.ClearDomainEvents()

	noonOnDueDate := inv.DueDate.Add(12 * time.Hour)
	assert.Equal(t, 0, inv.DaysPastDue(noonOnDueDate))
	assert.False(t, inv.MarkOverdue(noonOnDueDate), "not overdue on the due date itself")
	assert.Equal(t, InvoiceStatusSent, inv.Status)
	assert.Empty(t, inv.GetDomainEvents())

	nextMorning := inv.DueDate.AddDate(0, 0, 1).Add(time.Minute)
	assert.Equal(t, 1, inv.DaysPastDue(nextMorning))
	assert.True(t, inv.MarkOverdue(nextMorning))
}

func TestInvoice_DaysPastDue_AcrossDaylightSaving(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	inv := newInvoice(t)
	// clocks go forward on 2026-03-08, a 23 hour day
	inv.DueDate = time.Date(2026, 3, 8, 0, 0, 0, 0, ny)

	assert.Equal(t, 0, inv.DaysPastDue(time.Date(2026, 3, 8, 23, 30, 0, 0, ny)))
	assert.Equal(t, 1, inv.DaysPastDue(time.Date(2026, 3, 9, 0, 0, 0, 0, ny)))
	assert.Equal(t, 2, inv.DaysPastDue(time.Date(2026, 3, 10, 8, 0, 0, 0, ny)))
	assert.Equal(t, -1, inv.DaysPastDue(time.Date(2026, 3, 7, 12, 0, 0, 0, ny)))

	// clocks go back on 2026-11-01, a 25 hour day
	inv.DueDate = time.Date(2026, 11, 1, 0, 0, 0, 0, ny)
	assert.Equal(t, 1, inv.DaysPastDue(time.Date(2026, 11, 2, 0, 0, 0, 0, ny)))
}

func TestInvoice_Void(t *testing.T) {
	inv := newInvoice(t)
	require.NoError(t, inv.Void())
	assert.Equal(t, InvoiceStatusVoid, inv.Status)
	assert.True(t, inv.BalanceDue.IsZero())
	assert.Error(t, inv.Send())
}

func TestInvoice_Signature(t *testing.T) {
	inv := newInvoice(t)
	assert.Error(t, inv.RequestSignature("doc-1"))

	require.NoError(t, inv.Send())
	require.NoError(t, inv.RequestSignature("doc-1"))
	assert.Equal(t, SignatureStatusRequested, inv.SignatureStatus)

	inv.CompleteSignature(true)
	assert.Equal(t, SignatureStatusSigned, inv.SignatureStatus)
	assert.Error(t, inv.RequestSignature("doc-2"))
}

func TestNewPayment(t *testing.T) {
	inv := newInvoice(t)

	p, err := NewPayment(inv.TenantID, inv, d("50"), PaymentMethodCard, " ch_123 ", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "ch_123", p.Reference)
	assert.Equal(t, inv.CustomerID, p.CustomerID)
	assert.False(t, p.PaidAt.IsZero())

	_, err = NewPayment(inv.TenantID, inv, d("50"), "crypto", "", time.Time{})
	assert.Error(t, err)
	_, err = NewPayment(inv.TenantID, inv, decimal.Zero, PaymentMethodCash, "", time.Time{})
	assert.Error(t, err)
}
