package notification

import (
	"github.com/furnitureops/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewSMSSender returns the HTTP client when configured, otherwise the log stub
func NewSMSSender(cfg config.ProviderConfig, logger *zap.Logger) SMSSender {
	if cfg.BaseURL == "" {
		return LogSMSSender{Logger: logger.Named("sms")}
	}
	return NewSMSClient(cfg, logger)
}

// NewEmailSender returns the HTTP client when configured, otherwise the log stub
func NewEmailSender(cfg config.EmailConfig, logger *zap.Logger) EmailSender {
	if cfg.BaseURL == "" {
		return LogEmailSender{Logger: logger.Named("email")}
	}
	return NewEmailClient(cfg, logger)
}
