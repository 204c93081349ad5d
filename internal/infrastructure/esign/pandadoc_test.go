package esign

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/furnitureops/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPandaDocClient_CreateAndSend(t *testing.T) {
	var sent bool
	polls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "API-Key pd-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/documents":
			require.NoError(t, r.ParseMultipartForm(1<<20))
			f, _, err := r.FormFile("file")
			require.NoError(t, err)
			pdf, _ := io.ReadAll(f)
			assert.Equal(t, "%PDF-1.4", string(pdf))
			var data documentPayload
			require.NoError(t, json.Unmarshal([]byte(r.FormValue("data")), &data))
			assert.Equal(t, "Client", data.Recipients[0].Role)
			_, _ = w.Write([]byte(`{"id":"doc-1","status":"document.uploaded"}`))
		case r.Method == http.MethodGet && r.URL.Path == "/documents/doc-1":
			polls++
			_, _ = w.Write([]byte(`{"id":"doc-1","status":"document.draft"}`))
		case r.Method == http.MethodPost && r.URL.Path == "/documents/doc-1/send":
			sent = true
			_, _ = w.Write([]byte(`{"id":"doc-1","status":"document.sent"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	cfg := config.ESignConfig{ProviderConfig: config.ProviderConfig{BaseURL: srv.URL, APIKey: "pd-key", Timeout: time.Second}}
	c := NewPandaDocClient(cfg, zap.NewNop())
	c.pollInterval = time.Millisecond

	id, err := c.CreateDocument(context.Background(), DocumentRequest{
		Name:      "INV-20260101-ABC123",
		FileName:  "invoice.pdf",
		PDF:       []byte("%PDF-1.4"),
		Recipient: Recipient{Email: "dana@example.com", FirstName: "Dana"},
	})
	require.NoError(t, err)
	assert.Equal(t, "doc-1", id)
	assert.Equal(t, 1, polls)

	require.NoError(t, c.SendDocument(context.Background(), id, "Please sign", "Thanks"))
	assert.True(t, sent)
}

func TestPandaDocClient_RequiresRecipient(t *testing.T) {
	c := NewPandaDocClient(config.ESignConfig{}, zap.NewNop())
	_, err := c.CreateDocument(context.Background(), DocumentRequest{Name: "x"})
	assert.Error(t, err)
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`[{"event":"document_state_changed","data":{"id":"doc-1","status":"document.completed"}}]`)
	mac := hmac.New(sha256.New, []byte("shared"))
	mac.Write(body)
	sig := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, VerifySignature("shared", body, sig))
	assert.False(t, VerifySignature("shared", body, "deadbeef"))
	assert.True(t, VerifySignature("", body, ""))

	events, err := ParseEvents(body)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "doc-1", events[0].Data.ID)
	assert.Equal(t, StatusCompleted, events[0].Data.Status)

	_, err = ParseEvents([]byte("{"))
	assert.Error(t, err)
}

func TestNewSigner_FallsBackToLog(t *testing.T) {
	s := NewSigner(config.ESignConfig{}, zap.NewNop())
	id, err := s.CreateDocument(context.Background(), DocumentRequest{Recipient: Recipient{Email: "a@b.c"}})
	require.NoError(t, err)
	assert.Contains(t, id, "log-")
}
