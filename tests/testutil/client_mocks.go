package testutil

import (
	"context"
	"sync"

	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/furnitureops/backend/internal/infrastructure/esign"
	"github.com/furnitureops/backend/internal/infrastructure/printing"
	"github.com/stretchr/testify/mock"
)

// MockSMSSender is a testify mock of notification.SMSSender
type MockSMSSender struct {
	mock.Mock
}

func (m *MockSMSSender) Send(ctx context.Context, to, body string) (string, error) {
	args := m.Called(ctx, to, body)
	return args.String(0), args.Error(1)
}

// MockEmailSender is a testify mock of notification.EmailSender
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, to, subject, body string) (string, error) {
	args := m.Called(ctx, to, subject, body)
	return args.String(0), args.Error(1)
}

// MockWebhookPoster is a testify mock of notification.WebhookPoster
type MockWebhookPoster struct {
	mock.Mock
}

func (m *MockWebhookPoster) Post(ctx context.Context, url string, payload any) (int, error) {
	args := m.Called(ctx, url, payload)
	return args.Int(0), args.Error(1)
}

// MockSigner is a testify mock of esign.Signer
type MockSigner struct {
	mock.Mock
}

func (m *MockSigner) CreateDocument(ctx context.Context, req esign.DocumentRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockSigner) SendDocument(ctx context.Context, documentID, subject, message string) error {
	args := m.Called(ctx, documentID, subject, message)
	return args.Error(0)
}

// FakePDFRenderer returns a fixed PDF body and remembers the last request
type FakePDFRenderer struct {
	mu   sync.Mutex
	Last printing.Document
	Err  error
}

func (f *FakePDFRenderer) Render(_ context.Context, doc printing.Document) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Last = doc
	if f.Err != nil {
		return nil, f.Err
	}
	return []byte("%PDF-1.4 test"), nil
}

func (f *FakePDFRenderer) Close() error { return nil }

// RecordingPublisher collects published events
type RecordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
	Err    error
}

func (p *RecordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return p.Err
}

// Events returns a copy of everything published so far
func (p *RecordingPublisher) Events() []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]shared.DomainEvent, len(p.events))
	copy(out, p.events)
	return out
}

// Types returns the event type of every published event, in order
func (p *RecordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.EventType()
	}
	return out
}
