package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/furnitureops/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func providerConfig(url string) config.ProviderConfig {
	return config.ProviderConfig{BaseURL: url, APIKey: "secret", From: "+15550000", Timeout: 2 * time.Second}
}

func TestSMSClient_Send(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		var req smsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "+15551234", req.To)
		assert.Equal(t, "+15550000", req.From)
		assert.Equal(t, "Your sofa is ready", req.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg-1","status":"queued"}`))
	}))
	defer srv.Close()

	id, err := NewSMSClient(providerConfig(srv.URL), zap.NewNop()).Send(context.Background(), "+15551234", "Your sofa is ready")
	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)
}

func TestSMSClient_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid number"}`))
	}))
	defer srv.Close()

	_, err := NewSMSClient(providerConfig(srv.URL), zap.NewNop()).Send(context.Background(), "+1", "hi")
	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, http.StatusBadRequest, perr.StatusCode)
	assert.Contains(t, perr.Body, "invalid number")
}

func TestSMSClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg-2"}`))
	}))
	defer srv.Close()

	cfg := providerConfig(srv.URL)
	cfg.RetryCount = 2
	id, err := NewSMSClient(cfg, zap.NewNop()).Send(context.Background(), "+15551234", "hi")
	require.NoError(t, err)
	assert.Equal(t, "msg-2", id)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestEmailClient_Send(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		var req emailRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Workshop <orders@workshop.example>", req.From)
		assert.Equal(t, []string{"dana@example.com"}, req.To)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"em-1"}`))
	}))
	defer srv.Close()

	cfg := config.EmailConfig{ProviderConfig: providerConfig(srv.URL), FromName: "Workshop"}
	cfg.From = "orders@workshop.example"
	id, err := NewEmailClient(cfg, zap.NewNop()).Send(context.Background(), "dana@example.com", "Invoice", "Body")
	require.NoError(t, err)
	assert.Equal(t, "em-1", id)
}

func TestWebhookClient_Post(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "s3cret", r.Header.Get("X-Webhook-Secret"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "order.created", body["event"])
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewWebhookClient(config.WebhookConfig{Timeout: time.Second, Secret: "s3cret"}, zap.NewNop())
	status, err := c.Post(context.Background(), srv.URL+"/hook", map[string]any{"event": "order.created"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, status)

	_, err = c.Post(context.Background(), "ftp://example.com", nil)
	assert.Error(t, err)
}

func TestFactories_FallBackToLogStubs(t *testing.T) {
	sms := NewSMSSender(config.ProviderConfig{}, zap.NewNop())
	id, err := sms.Send(context.Background(), "+15551234", "hi")
	require.NoError(t, err)
	assert.Contains(t, id, "log-")

	assert.IsType(t, LogEmailSender{}, NewEmailSender(config.EmailConfig{}, zap.NewNop()))
}
