package printing

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// InvoiceLine is one printable invoice row
type InvoiceLine struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
	Amount      decimal.Decimal
}

// InvoiceDocument is the data printed on an invoice
type InvoiceDocument struct {
	CompanyName   string
	InvoiceNumber string
	Status        string
	CustomerName  string
	CustomerEmail string
	IssueDate     time.Time
	DueDate       time.Time
	Currency      string
	Lines         []InvoiceLine
	Subtotal      decimal.Decimal
	TaxTotal      decimal.Decimal
	Total         decimal.Decimal
	AmountPaid    decimal.Decimal
	BalanceDue    decimal.Decimal
	Notes         string
}

var titleCaser = cases.Title(language.English)

// StatusLabel turns a snake_case status into a display label, e.g. "in_progress" -> "In Progress".
func StatusLabel(status string) string {
	return titleCaser.String(strings.ReplaceAll(status, "_", " "))
}

var invoiceTemplate = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"money": func(currency string, d decimal.Decimal) string {
		return currency + " " + d.StringFixed(2)
	},
	"qty": func(d decimal.Decimal) string {
		return d.String()
	},
	"pct": func(d decimal.Decimal) string {
		return d.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
	},
	"date": func(t time.Time) string {
		return t.Format("Jan 2, 2006")
	},
	"status": StatusLabel,
}).Parse(invoiceHTML))

// RenderInvoiceHTML fills the invoice template
func RenderInvoiceHTML(doc *InvoiceDocument) (string, error) {
	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, doc); err != nil {
		return "", renderError(ErrCodeTemplate, "failed to render invoice template", err)
	}
	return buf.String(), nil
}

// RenderInvoicePDF renders doc through r
func RenderInvoicePDF(ctx context.Context, r PDFRenderer, doc *InvoiceDocument) ([]byte, error) {
	body, err := RenderInvoiceHTML(doc)
	if err != nil {
		return nil, err
	}
	return r.Render(ctx, Document{
		HTML:  body,
		Title: "Invoice " + doc.InvoiceNumber,
		Footer: fmt.Sprintf(
			`<div style="font-size:8px;width:100%%;text-align:center">%s &middot; page <span class="pageNumber"></span> of <span class="totalPages"></span></div>`,
			template.HTMLEscapeString(doc.InvoiceNumber)),
	})
}

const invoiceHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Invoice {{.InvoiceNumber}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; font-size: 12px; color: #222; }
h1 { font-size: 22px; margin: 0 0 4px; }
.meta td { padding: 2px 12px 2px 0; }
table.lines { width: 100%; border-collapse: collapse; margin-top: 18px; }
table.lines th { text-align: left; border-bottom: 2px solid #444; padding: 6px 4px; }
table.lines td { border-bottom: 1px solid #ddd; padding: 6px 4px; }
.num { text-align: right; }
.totals { margin-top: 12px; float: right; }
.totals td { padding: 3px 8px; }
.status { display: inline-block; padding: 2px 8px; border: 1px solid #888; border-radius: 3px; }
</style>
</head>
<body>
<h1>{{.CompanyName}}</h1>
<div>Invoice <strong>{{.InvoiceNumber}}</strong> <span class="status">{{status .Status}}</span></div>
<table class="meta">
<tr><td>Bill to</td><td>{{.CustomerName}}{{if .CustomerEmail}} &lt;{{.CustomerEmail}}&gt;{{end}}</td></tr>
<tr><td>Issued</td><td>{{date .IssueDate}}</td></tr>
<tr><td>Due</td><td>{{date .DueDate}}</td></tr>
</table>
<table class="lines">
<thead><tr><th>Description</th><th class="num">Qty</th><th class="num">Unit price</th><th class="num">Tax</th><th class="num">Amount</th></tr></thead>
<tbody>
{{- $cur := .Currency}}
{{- range .Lines}}
<tr><td>{{.Description}}</td><td class="num">{{qty .Quantity}}</td><td class="num">{{money $cur .UnitPrice}}</td><td class="num">{{pct .TaxRate}}</td><td class="num">{{money $cur .Amount}}</td></tr>
{{- end}}
</tbody>
</table>
<table class="totals">
<tr><td>Subtotal</td><td class="num">{{money .Currency .Subtotal}}</td></tr>
<tr><td>Tax</td><td class="num">{{money .Currency .TaxTotal}}</td></tr>
<tr><td><strong>Total</strong></td><td class="num"><strong>{{money .Currency .Total}}</strong></td></tr>
<tr><td>Paid</td><td class="num">{{money .Currency .AmountPaid}}</td></tr>
<tr><td><strong>Balance due</strong></td><td class="num"><strong>{{money .Currency .BalanceDue}}</strong></td></tr>
</table>
{{if .Notes}}<p style="clear:both;padding-top:24px">{{.Notes}}</p>{{end}}
</body>
</html>
`
