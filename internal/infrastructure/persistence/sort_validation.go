package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to every table
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = withCommon("username", "email", "display_name", "role", "last_login_at")

// CustomerSortFields contains allowed sort fields for customers
var CustomerSortFields = withCommon("client_name", "email", "company", "status", "source",
	"last_contact_at", "lifetime_value", "support_ticket_count")

// ActivitySortFields contains allowed sort fields for activities
var ActivitySortFields = withCommon("occurred_at", "type", "subject")

// CollectionSortFields contains allowed sort fields for collections
var CollectionSortFields = withCommon("name", "season", "status")

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = withCommon("sku", "name", "category", "material", "base_price", "lead_time_days")

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = withCommon("order_number", "status", "total", "due_date", "confirmed_at")

// TrackingSortFields contains allowed sort fields for production tracking
var TrackingSortFields = withCommon("stage", "progress", "due_date", "stage_entered_at", "item_index")

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = withCommon("invoice_number", "status", "issue_date", "due_date", "total", "balance_due")

// PaymentSortFields contains allowed sort fields for payments
var PaymentSortFields = withCommon("paid_at", "amount", "method")

// TaskSortFields contains allowed sort fields for tasks
var TaskSortFields = withCommon("title", "status", "priority", "due_date")

// ThreadSortFields contains allowed sort fields for message threads
var ThreadSortFields = withCommon("subject", "status", "last_message_at")

// BoardSortFields contains allowed sort fields for design boards
var BoardSortFields = withCommon("name", "status", "shared_at")

// ReviewSortFields contains allowed sort fields for factory reviews
var ReviewSortFields = withCommon("scheduled_at", "status", "outcome")

// RuleSortFields contains allowed sort fields for automation rules
var RuleSortFields = withCommon("name", "trigger_event", "priority", "trigger_count", "last_triggered_at")

// ExecutionSortFields contains allowed sort fields for automation executions
var ExecutionSortFields = withCommon("rule_name", "status", "duration_ms")

// PredictionSortFields contains allowed sort fields for predictions
var PredictionSortFields = withCommon("type", "confidence")

// CampaignSortFields contains allowed sort fields for SMS campaigns
var CampaignSortFields = withCommon("name", "status", "started_at", "completed_at")

// DeliverySortFields contains allowed sort fields for SMS deliveries
var DeliverySortFields = withCommon("status", "phone")

func withCommon(fields ...string) map[string]bool {
	m := make(map[string]bool, len(CommonSortFields)+len(fields))
	for k := range CommonSortFields {
		m[k] = true
	}
	for _, f := range fields {
		m[f] = true
	}
	return m
}
