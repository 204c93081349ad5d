package automation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCondition_Evaluate(t *testing.T) {
	payload := map[string]any{
		"status":   "confirmed",
		"total":    4200.0,
		"quantity": 3,
		"note":     "rush order, white oak",
		"tags":     []any{"trade", "hotel"},
		"customer": map[string]any{"tier": "gold", "tickets": json.Number("7")},
		"amount":   "150.50",
	}

	tests := []struct {
		name string
		cond Condition
		want bool
	}{
		{"equals string", Condition{"status", OpEquals, "confirmed"}, true},
		{"equals string mismatch", Condition{"status", OpEquals, "draft"}, false},
		{"equals number across types", Condition{"quantity", OpEquals, 3.0}, true},
		{"equals numeric string", Condition{"amount", OpEquals, 150.5}, true},
		{"not_equals", Condition{"status", OpNotEquals, "draft"}, true},
		{"greater_than", Condition{"total", OpGreaterThan, 4000}, true},
		{"greater_than boundary", Condition{"total", OpGreaterThan, 4200}, false},
		{"less_than", Condition{"quantity", OpLessThan, "10"}, true},
		{"less_than non numeric", Condition{"status", OpLessThan, 10}, false},
		{"contains substring", Condition{"note", OpContains, "rush"}, true},
		{"contains substring miss", Condition{"note", OpContains, "walnut"}, false},
		{"contains array member", Condition{"tags", OpContains, "hotel"}, true},
		{"contains on number", Condition{"total", OpContains, "42"}, false},
		{"in list", Condition{"status", OpIn, []any{"confirmed", "in_production"}}, true},
		{"in list miss", Condition{"status", OpIn, []string{"draft"}}, false},
		{"in numeric list", Condition{"quantity", OpIn, []any{1, 2, 3}}, true},
		{"nested path", Condition{"customer.tier", OpEquals, "gold"}, true},
		{"nested json number", Condition{"customer.tickets", OpGreaterThan, 5}, true},
		{"missing field equals", Condition{"missing", OpEquals, "x"}, false},
		{"missing field not_equals", Condition{"missing", OpNotEquals, "x"}, true},
		{"missing nested field", Condition{"customer.region.city", OpEquals, "x"}, false},
		{"unknown operator", Condition{"status", "matches", "confirmed"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cond.Evaluate(payload))
		})
	}
}

func TestCondition_Validate(t *testing.T) {
	assert.NoError(t, Condition{"status", OpEquals, "x"}.Validate())
	assert.Error(t, Condition{"", OpEquals, "x"}.Validate())
	assert.Error(t, Condition{"status", "regex", "x"}.Validate())
	assert.Error(t, Condition{"status", OpIn, "x"}.Validate())
	assert.NoError(t, Condition{"status", OpIn, []string{"x"}}.Validate())
}

func TestRenderTemplate(t *testing.T) {
	payload := map[string]any{
		"name":     "Harbor Interiors",
		"total":    3240.0,
		"balance":  12.5,
		"customer": map[string]any{"phone": "+15550100"},
	}

	got := RenderTemplate("Hi {{name}}, order total {{ total }} ({{balance}}) to {{customer.phone}}{{missing}}.", payload)
	assert.Equal(t, "Hi Harbor Interiors, order total 3240 (12.5) to +15550100.", got)
}
