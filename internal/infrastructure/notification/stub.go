package notification

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LogSMSSender logs messages instead of sending them
type LogSMSSender struct {
	Logger *zap.Logger
}

func (s LogSMSSender) Send(_ context.Context, to, body string) (string, error) {
	s.Logger.Info("SMS (not sent, provider not configured)", zap.String("to", to), zap.Int("length", len(body)))
	return "log-" + uuid.NewString(), nil
}

// LogEmailSender logs emails instead of sending them
type LogEmailSender struct {
	Logger *zap.Logger
}

func (s LogEmailSender) Send(_ context.Context, to, subject, _ string) (string, error) {
	s.Logger.Info("Email (not sent, provider not configured)", zap.String("to", to), zap.String("subject", subject))
	return "log-" + uuid.NewString(), nil
}

var (
	_ SMSSender   = LogSMSSender{}
	_ EmailSender = LogEmailSender{}
)
