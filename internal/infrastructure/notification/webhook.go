package notification

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/furnitureops/backend/internal/infrastructure/config"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// WebhookClient posts JSON payloads to arbitrary http(s) URLs
type WebhookClient struct {
	http   *resty.Client
	logger *zap.Logger
}

// NewWebhookClient creates a webhook client. When a secret is configured it
// is sent in the X-Webhook-Secret header.
func NewWebhookClient(cfg config.WebhookConfig, logger *zap.Logger) *WebhookClient {
	c := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "furnitureops-webhook/1")
	if cfg.Secret != "" {
		c.SetHeader("X-Webhook-Secret", cfg.Secret)
	}
	return &WebhookClient{http: c, logger: logger.Named("webhook")}
}

func (c *WebhookClient) Post(ctx context.Context, target string, payload any) (int, error) {
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return 0, errors.New("webhook url must be an absolute http(s) url")
	}
	resp, err := c.http.R().SetContext(ctx).SetBody(payload).Post(target)
	if err := checkResponse("webhook", resp, err); err != nil {
		c.logger.Warn("Webhook failed", zap.String("url", u.Host), zap.Error(err))
		if resp != nil {
			return resp.StatusCode(), err
		}
		return 0, err
	}
	return resp.StatusCode(), nil
}

var _ WebhookPoster = (*WebhookClient)(nil)
