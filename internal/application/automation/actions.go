package automation

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/furnitureops/backend/internal/application/finance"
	"github.com/furnitureops/backend/internal/application/tasks"
	"github.com/furnitureops/backend/internal/domain/automation"
	"github.com/furnitureops/backend/internal/infrastructure/notification"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaskCreator is the part of the task service used by create_task
type TaskCreator interface {
	Create(ctx context.Context, tenantID, actorID uuid.UUID, req tasks.CreateTaskRequest) (*tasks.TaskResponse, error)
}

// PaymentRecorder is the part of the invoice service used by process_payment
type PaymentRecorder interface {
	RecordPayment(ctx context.Context, tenantID, actorID, invoiceID uuid.UUID, req finance.RecordPaymentRequest) (*finance.PaymentResult, error)
}

// RecordUpdater applies whitelisted status changes for update_record
type RecordUpdater interface {
	UpdateStatus(ctx context.Context, tenantID uuid.UUID, entity string, id uuid.UUID, status string) error
}

// ActionDeps are the collaborators the built-in actions call. A nil
// dependency makes its action fail with a configuration error.
type ActionDeps struct {
	SMS      notification.SMSSender
	Email    notification.EmailSender
	Webhook  notification.WebhookPoster
	Tasks    TaskCreator
	Payments PaymentRecorder
	Records  RecordUpdater
}

// actionFunc runs one action. cfg has already been rendered against payload.
type actionFunc func(ctx context.Context, tenantID uuid.UUID, cfg, payload map[string]any) (map[string]any, error)

func (d ActionDeps) executors() map[automation.ActionType]actionFunc {
	return map[automation.ActionType]actionFunc{
		automation.ActionSendSMS:        d.sendSMS,
		automation.ActionSendEmail:      d.sendEmail,
		automation.ActionUpdateRecord:   d.updateRecord,
		automation.ActionCreateTask:     d.createTask,
		automation.ActionProcessPayment: d.processPayment,
		automation.ActionWebhook:        d.postWebhook,
	}
}

// send_sms: to (defaults to the customer's phone), message
func (d ActionDeps) sendSMS(ctx context.Context, _ uuid.UUID, cfg, payload map[string]any) (map[string]any, error) {
	if d.SMS == nil {
		return nil, errNotConfigured("sms")
	}
	to := firstNonEmpty(cfgString(cfg, "to"), lookupString(payload, "customer.phone"), lookupString(payload, "phone"))
	if to == "" {
		return nil, fmt.Errorf("send_sms: no recipient phone")
	}
	message := cfgString(cfg, "message")
	if message == "" {
		return nil, fmt.Errorf("send_sms: message is required")
	}
	id, err := d.SMS.Send(ctx, to, message)
	if err != nil {
		return nil, err
	}
	return map[string]any{"to": to, "provider_id": id}, nil
}

// send_email: to (defaults to the customer's email), subject, body
func (d ActionDeps) sendEmail(ctx context.Context, _ uuid.UUID, cfg, payload map[string]any) (map[string]any, error) {
	if d.Email == nil {
		return nil, errNotConfigured("email")
	}
	to := firstNonEmpty(cfgString(cfg, "to"), lookupString(payload, "customer.email"), lookupString(payload, "email"))
	if to == "" {
		return nil, fmt.Errorf("send_email: no recipient address")
	}
	subject := cfgString(cfg, "subject")
	if subject == "" {
		return nil, fmt.Errorf("send_email: subject is required")
	}
	id, err := d.Email.Send(ctx, to, subject, cfgString(cfg, "body"))
	if err != nil {
		return nil, err
	}
	return map[string]any{"to": to, "provider_id": id}, nil
}

// update_record: entity, id, status
func (d ActionDeps) updateRecord(ctx context.Context, tenantID uuid.UUID, cfg, _ map[string]any) (map[string]any, error) {
	if d.Records == nil {
		return nil, errNotConfigured("record updates")
	}
	entity := strings.ToLower(cfgString(cfg, "entity"))
	status := strings.ToLower(cfgString(cfg, "status"))
	id, err := cfgUUID(cfg, "id")
	if err != nil {
		return nil, fmt.Errorf("update_record: %w", err)
	}
	if err := d.Records.UpdateStatus(ctx, tenantID, entity, id, status); err != nil {
		return nil, err
	}
	return map[string]any{"entity": entity, "id": id.String(), "status": status}, nil
}

// create_task: title, description, priority, assignee_id, related_type,
// related_id, due_in_days
func (d ActionDeps) createTask(ctx context.Context, tenantID uuid.UUID, cfg, _ map[string]any) (map[string]any, error) {
	if d.Tasks == nil {
		return nil, errNotConfigured("tasks")
	}
	req := tasks.CreateTaskRequest{
		Title:       cfgString(cfg, "title"),
		Description: cfgString(cfg, "description"),
		Priority:    cfgString(cfg, "priority"),
		RelatedType: cfgString(cfg, "related_type"),
	}
	if req.Title == "" {
		return nil, fmt.Errorf("create_task: title is required")
	}
	if id, err := cfgUUID(cfg, "assignee_id"); err == nil {
		req.AssigneeID = &id
	}
	if id, err := cfgUUID(cfg, "related_id"); err == nil {
		req.RelatedID = &id
	}
	if days, ok := cfgInt(cfg, "due_in_days"); ok && days >= 0 {
		due := time.Now().AddDate(0, 0, days)
		req.DueDate = &due
	}
	task, err := d.Tasks.Create(ctx, tenantID, uuid.Nil, req)
	if err != nil {
		return nil, err
	}
	return map[string]any{"task_id": task.ID.String()}, nil
}

// process_payment: invoice_id, amount, method, reference
func (d ActionDeps) processPayment(ctx context.Context, tenantID uuid.UUID, cfg, _ map[string]any) (map[string]any, error) {
	if d.Payments == nil {
		return nil, errNotConfigured("payments")
	}
	invoiceID, err := cfgUUID(cfg, "invoice_id")
	if err != nil {
		return nil, fmt.Errorf("process_payment: %w", err)
	}
	amount, err := decimal.NewFromString(cfgString(cfg, "amount"))
	if err != nil {
		return nil, fmt.Errorf("process_payment: invalid amount %q", cfgString(cfg, "amount"))
	}
	method := cfgString(cfg, "method")
	if method == "" {
		method = "bank_transfer"
	}
	result, err := d.Payments.RecordPayment(ctx, tenantID, uuid.Nil, invoiceID, finance.RecordPaymentRequest{
		Amount:    amount,
		Method:    method,
		Reference: cfgString(cfg, "reference"),
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"payment_id":     result.Payment.ID.String(),
		"invoice_status": result.Invoice.Status,
		"balance_due":    result.Invoice.BalanceDue.String(),
	}, nil
}

// webhook: url, payload (defaults to the trigger payload)
func (d ActionDeps) postWebhook(ctx context.Context, _ uuid.UUID, cfg, payload map[string]any) (map[string]any, error) {
	if d.Webhook == nil {
		return nil, errNotConfigured("webhook")
	}
	url := cfgString(cfg, "url")
	if url == "" {
		return nil, fmt.Errorf("webhook: url is required")
	}
	body := any(payload)
	if custom, ok := cfg["payload"]; ok && custom != nil {
		body = custom
	}
	status, err := d.Webhook.Post(ctx, url, body)
	if err != nil {
		return nil, err
	}
	return map[string]any{"status_code": status}, nil
}

func errNotConfigured(what string) error {
	return fmt.Errorf("%s is not configured", what)
}

// renderConfig substitutes {{field}} placeholders in every string of cfg
func renderConfig(cfg map[string]any, payload map[string]any) map[string]any {
	out := make(map[string]any, len(cfg))
	for k, v := range cfg {
		out[k] = renderValue(v, payload)
	}
	return out
}

func renderValue(v any, payload map[string]any) any {
	switch t := v.(type) {
	case string:
		return automation.RenderTemplate(t, payload)
	case map[string]any:
		return renderConfig(t, payload)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = renderValue(item, payload)
		}
		return out
	}
	return v
}

func cfgString(cfg map[string]any, key string) string {
	v, ok := cfg[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

func cfgUUID(cfg map[string]any, key string) (uuid.UUID, error) {
	s := cfgString(cfg, key)
	if s == "" {
		return uuid.Nil, fmt.Errorf("%s is required", key)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s is not a valid id", key)
	}
	return id, nil
}

func cfgInt(cfg map[string]any, key string) (int, bool) {
	switch n := cfg[key].(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	}
	return 0, false
}

func lookupString(payload map[string]any, path string) string {
	v, ok := automation.Lookup(payload, path)
	if !ok || v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
