package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	for input, want := range map[string]string{
		"":             "DESC",
		"asc":          "ASC",
		"  ASC ":       "ASC",
		"desc":         "DESC",
		"ascending":    "DESC",
		"ASC; DROP --": "DESC",
	} {
		assert.Equal(t, want, ValidateSortOrder(input), "input %q", input)
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"blank falls back", "  ", "due_date"},
		{"whitelisted", "balance_due", "balance_due"},
		{"trimmed", " invoice_number ", "invoice_number"},
		{"case sensitive", "TOTAL", "due_date"},
		{"other table's column", "client_name", "due_date"},
		{"injection", "total; DROP TABLE invoices", "due_date"},
		{"subquery", "(SELECT password_hash FROM users)", "due_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateSortField(tt.input, InvoiceSortFields, "due_date"))
		})
	}
}

func TestSortFieldWhitelists(t *testing.T) {
	whitelists := map[string]map[string]bool{
		"users":       UserSortFields,
		"customers":   CustomerSortFields,
		"activities":  ActivitySortFields,
		"collections": CollectionSortFields,
		"products":    ProductSortFields,
		"orders":      OrderSortFields,
		"tracking":    TrackingSortFields,
		"invoices":    InvoiceSortFields,
		"payments":    PaymentSortFields,
		"tasks":       TaskSortFields,
		"threads":     ThreadSortFields,
		"boards":      BoardSortFields,
		"reviews":     ReviewSortFields,
		"rules":       RuleSortFields,
		"executions":  ExecutionSortFields,
		"predictions": PredictionSortFields,
		"campaigns":   CampaignSortFields,
		"deliveries":  DeliverySortFields,
	}
	for name, fields := range whitelists {
		for common := range CommonSortFields {
			assert.True(t, fields[common], "%s missing %s", name, common)
		}
	}

	// the API sorts customers by "name" which maps onto client_name
	assert.True(t, CustomerSortFields[customerSortColumn("name")])
	assert.False(t, CustomerSortFields["name"])
	assert.False(t, UserSortFields["password_hash"])
}
