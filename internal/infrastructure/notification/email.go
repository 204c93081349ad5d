package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/furnitureops/backend/internal/infrastructure/config"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

type emailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

// EmailClient sends transactional email through an HTTP API
// (POST {base}/emails with a bearer API key).
type EmailClient struct {
	http   *resty.Client
	from   string
	logger *zap.Logger
}

// NewEmailClient creates an email client
func NewEmailClient(cfg config.EmailConfig, logger *zap.Logger) *EmailClient {
	from := cfg.From
	if cfg.FromName != "" && from != "" {
		from = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.From)
	}
	return &EmailClient{http: newRestyClient(cfg.ProviderConfig), from: from, logger: logger.Named("email")}
}

func (c *EmailClient) Send(ctx context.Context, to, subject, body string) (string, error) {
	if to == "" {
		return "", errors.New("email recipient is required")
	}
	var out messageResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(emailRequest{From: c.from, To: []string{to}, Subject: subject, Text: body}).
		SetResult(&out).
		Post("/emails")
	if err := checkResponse("email", resp, err); err != nil {
		c.logger.Warn("Email send failed", zap.String("to", to), zap.Error(err))
		return "", err
	}
	return out.ID, nil
}

var _ EmailSender = (*EmailClient)(nil)
