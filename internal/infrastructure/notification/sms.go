package notification

import (
	"context"
	"errors"

	"github.com/furnitureops/backend/internal/infrastructure/config"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

type smsRequest struct {
	From string `json:"from,omitempty"`
	To   string `json:"to"`
	Body string `json:"body"`
}

type messageResponse struct {
	ID     string `json:"id"`
	Status string `json:"status,omitempty"`
}

// SMSClient sends text messages through an HTTP SMS gateway
// (POST {base}/messages with a bearer API key).
type SMSClient struct {
	http   *resty.Client
	from   string
	logger *zap.Logger
}

// NewSMSClient creates an SMS client
func NewSMSClient(cfg config.ProviderConfig, logger *zap.Logger) *SMSClient {
	return &SMSClient{http: newRestyClient(cfg), from: cfg.From, logger: logger.Named("sms")}
}

func (c *SMSClient) Send(ctx context.Context, to, body string) (string, error) {
	if to == "" {
		return "", errors.New("sms recipient is required")
	}
	var out messageResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(smsRequest{From: c.from, To: to, Body: body}).
		SetResult(&out).
		Post("/messages")
	if err := checkResponse("sms", resp, err); err != nil {
		c.logger.Warn("SMS send failed", zap.String("to", to), zap.Error(err))
		return "", err
	}
	c.logger.Debug("SMS sent", zap.String("to", to), zap.String("provider_id", out.ID))
	return out.ID, nil
}

var _ SMSSender = (*SMSClient)(nil)
