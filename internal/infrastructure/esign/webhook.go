package esign

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Event is one entry of a PandaDoc webhook delivery
type Event struct {
	Event string `json:"event"`
	Data  struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Status string `json:"status"`
	} `json:"data"`
}

// VerifySignature checks the hex HMAC-SHA256 of body against the shared key.
// An empty key disables verification.
func VerifySignature(key string, body []byte, signature string) bool {
	if key == "" {
		return true
	}
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ParseEvents decodes a webhook body
func ParseEvents(body []byte) ([]Event, error) {
	var events []Event
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("invalid pandadoc webhook body: %w", err)
	}
	return events, nil
}
