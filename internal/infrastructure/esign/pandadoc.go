// Package esign requests customer signatures on invoices through PandaDoc.
package esign

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/furnitureops/backend/internal/infrastructure/config"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// PandaDoc document statuses used by this package
const (
	StatusUploaded  = "document.uploaded"
	StatusDraft     = "document.draft"
	StatusCompleted = "document.completed"
	StatusDeclined  = "document.declined"
)

// Recipient is the signer of a document
type Recipient struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Role      string `json:"role,omitempty"`
}

// DocumentRequest describes a PDF to send for signature
type DocumentRequest struct {
	Name      string
	FileName  string
	PDF       []byte
	Recipient Recipient
	Metadata  map[string]string
}

// Signer creates documents and sends them for signature
type Signer interface {
	CreateDocument(ctx context.Context, req DocumentRequest) (string, error)
	SendDocument(ctx context.Context, documentID, subject, message string) error
}

type documentPayload struct {
	Name       string            `json:"name"`
	Recipients []Recipient       `json:"recipients"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Parse      bool              `json:"parse_form_fields"`
}

type documentResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// PandaDocClient talks to the PandaDoc public API
type PandaDocClient struct {
	http         *resty.Client
	logger       *zap.Logger
	pollInterval time.Duration
	pollAttempts int
}

// NewPandaDocClient creates a client authenticated with an API key
func NewPandaDocClient(cfg config.ESignConfig, logger *zap.Logger) *PandaDocClient {
	c := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(time.Second).
		SetHeader("Authorization", "API-Key "+cfg.APIKey).
		SetHeader("Accept", "application/json")
	return &PandaDocClient{
		http:         c,
		logger:       logger.Named("pandadoc"),
		pollInterval: 2 * time.Second,
		pollAttempts: 10,
	}
}

// CreateDocument uploads the PDF and waits until PandaDoc has processed it
// into a draft, which is the only state that can be sent.
func (c *PandaDocClient) CreateDocument(ctx context.Context, req DocumentRequest) (string, error) {
	if req.Recipient.Email == "" {
		return "", errors.New("signature recipient email is required")
	}
	data, err := json.Marshal(documentPayload{
		Name:       req.Name,
		Recipients: []Recipient{withDefaultRole(req.Recipient)},
		Metadata:   req.Metadata,
	})
	if err != nil {
		return "", err
	}

	var doc documentResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("file", req.FileName, bytes.NewReader(req.PDF)).
		SetMultipartField("data", "", "application/json", bytes.NewReader(data)).
		SetResult(&doc).
		Post("/documents")
	if err := check(resp, err); err != nil {
		return "", err
	}
	c.logger.Info("PandaDoc document created", zap.String("document_id", doc.ID), zap.String("status", doc.Status))

	if doc.Status == StatusDraft {
		return doc.ID, nil
	}
	if err := c.waitForDraft(ctx, doc.ID); err != nil {
		return "", err
	}
	return doc.ID, nil
}

func (c *PandaDocClient) waitForDraft(ctx context.Context, id string) error {
	for i := 0; i < c.pollAttempts; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.pollInterval):
		}
		var doc documentResponse
		resp, err := c.http.R().SetContext(ctx).SetResult(&doc).Get("/documents/" + id)
		if err := check(resp, err); err != nil {
			return err
		}
		if doc.Status == StatusDraft {
			return nil
		}
	}
	return fmt.Errorf("pandadoc document %s not ready after %d checks", id, c.pollAttempts)
}

// SendDocument emails the document to its recipients for signature
func (c *PandaDocClient) SendDocument(ctx context.Context, documentID, subject, message string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{"subject": subject, "message": message, "silent": false}).
		Post("/documents/" + documentID + "/send")
	return check(resp, err)
}

func withDefaultRole(r Recipient) Recipient {
	if r.Role == "" {
		r.Role = "Client"
	}
	return r
}

func check(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("pandadoc request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("pandadoc returned status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

var _ Signer = (*PandaDocClient)(nil)
