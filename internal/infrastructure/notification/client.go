// Package notification holds the outbound SMS, email and webhook clients
// used by automation actions and SMS campaigns.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/furnitureops/backend/internal/infrastructure/config"
	"github.com/go-resty/resty/v2"
)

// SMSSender sends a single text message and returns the provider message id
type SMSSender interface {
	Send(ctx context.Context, to, body string) (string, error)
}

// EmailSender sends a single email and returns the provider message id
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) (string, error)
}

// WebhookPoster posts a JSON payload and returns the response status code
type WebhookPoster interface {
	Post(ctx context.Context, url string, payload any) (int, error)
}

// ProviderError is returned when a provider answers with a non-2xx status
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

func newRestyClient(cfg config.ProviderConfig) *resty.Client {
	return resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500 || r.StatusCode() == 429
		}).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
}

func checkResponse(provider string, resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%s request failed: %w", provider, err)
	}
	if resp.IsError() {
		body := resp.String()
		if len(body) > 512 {
			body = body[:512]
		}
		return &ProviderError{Provider: provider, StatusCode: resp.StatusCode(), Body: body}
	}
	return nil
}
