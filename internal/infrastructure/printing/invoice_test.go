package printing

import (
	"context"
	"testing"
	"time"

	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRenderer struct {
	doc Document
	err error
}

func (f *fakeRenderer) Render(_ context.Context, doc Document) ([]byte, error) {
	f.doc = doc
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4"), nil
}

func (f *fakeRenderer) Close() error { return nil }

func sampleInvoice() *InvoiceDocument {
	return &InvoiceDocument{
		CompanyName:   "Oak & Iron Workshop",
		InvoiceNumber: "INV-20260301-ab12cd",
		Status:        "partial",
		CustomerName:  "Jane <Doe>",
		CustomerEmail: "jane@example.com",
		IssueDate:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		Currency:      "USD",
		Lines: []InvoiceLine{{
			Description: "Walnut dining table",
			Quantity:    decimal.NewFromInt(2),
			UnitPrice:   decimal.NewFromInt(1200),
			TaxRate:     decimal.NewFromFloat(0.08),
			Amount:      decimal.NewFromInt(2400),
		}},
		Subtotal:   decimal.NewFromInt(2400),
		TaxTotal:   decimal.NewFromInt(192),
		Total:      decimal.NewFromInt(2592),
		AmountPaid: decimal.NewFromInt(500),
		BalanceDue: decimal.NewFromInt(2092),
	}
}

func TestRenderInvoiceHTML(t *testing.T) {
	html, err := RenderInvoiceHTML(sampleInvoice())
	require.NoError(t, err)

	assert.Contains(t, html, "INV-20260301-ab12cd")
	assert.Contains(t, html, "Walnut dining table")
	assert.Contains(t, html, "USD 1200.00")
	assert.Contains(t, html, "8.0%")
	assert.Contains(t, html, "USD 2092.00")
	assert.Contains(t, html, "Mar 31, 2026")
	assert.Contains(t, html, "Partial")
	assert.Contains(t, html, "Jane &lt;Doe&gt;")
	assert.NotContains(t, html, "Jane <Doe>")
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "In Progress", StatusLabel("in_progress"))
	assert.Equal(t, "Paid", StatusLabel("paid"))
	assert.Equal(t, "", StatusLabel(""))
}

func TestRenderInvoicePDF(t *testing.T) {
	r := &fakeRenderer{}
	pdf, err := RenderInvoicePDF(context.Background(), r, sampleInvoice())
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), pdf)
	assert.Equal(t, "Invoice INV-20260301-ab12cd", r.doc.Title)
	assert.Contains(t, r.doc.Footer, "pageNumber")
}

func TestRenderInvoicePDF_RendererError(t *testing.T) {
	r := &fakeRenderer{err: renderError(ErrCodeRenderTimeout, "timed out", context.DeadlineExceeded)}
	_, err := RenderInvoicePDF(context.Background(), r, sampleInvoice())

	assert.Equal(t, ErrCodeRenderTimeout, shared.ErrorCode(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWrapDocument(t *testing.T) {
	assert.Equal(t, "<html><body>x</body></html>", wrapDocument(Document{HTML: "<html><body>x</body></html>"}))

	doc := wrapDocument(Document{HTML: "<p>hi</p>", Title: "A & B"})
	assert.Contains(t, doc, "<!DOCTYPE html>")
	assert.Contains(t, doc, "<title>A &amp; B</title>")
	assert.Contains(t, doc, "<p>hi</p>")
}

func TestChromedpRenderer_RejectsEmptyHTML(t *testing.T) {
	r := NewChromedpRenderer(ChromedpConfig{RemoteURL: "ws://127.0.0.1:1"}, zap.NewNop())
	defer r.Close()

	_, err := r.Render(context.Background(), Document{HTML: "  "})
	assert.Equal(t, ErrCodeInvalidHTML, shared.ErrorCode(err))
}

func TestMMToInches(t *testing.T) {
	assert.InDelta(t, 8.2677, mmToInches(210), 0.001)
}
