package esign

import (
	"context"

	"github.com/furnitureops/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LogSigner logs signature requests without contacting PandaDoc
type LogSigner struct {
	Logger *zap.Logger
}

func (s LogSigner) CreateDocument(_ context.Context, req DocumentRequest) (string, error) {
	id := "log-" + uuid.NewString()
	s.Logger.Info("E-sign document (not sent, provider not configured)",
		zap.String("document_id", id),
		zap.String("name", req.Name),
		zap.String("recipient", req.Recipient.Email),
		zap.Int("pdf_bytes", len(req.PDF)),
	)
	return id, nil
}

func (s LogSigner) SendDocument(_ context.Context, documentID, _, _ string) error {
	s.Logger.Info("E-sign send (not sent, provider not configured)", zap.String("document_id", documentID))
	return nil
}

// NewSigner returns the PandaDoc client when an API key is configured,
// otherwise the log stub
func NewSigner(cfg config.ESignConfig, logger *zap.Logger) Signer {
	if cfg.APIKey == "" || cfg.BaseURL == "" {
		return LogSigner{Logger: logger.Named("esign")}
	}
	return NewPandaDocClient(cfg, logger)
}

var _ Signer = LogSigner{}
