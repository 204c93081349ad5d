package storage

import (
	"context"
	"net/url"
	"sync"
	"time"
)

type memoryObject struct {
	data        []byte
	contentType string
}

// MemoryObjectStorage keeps objects in process memory. Presigned URLs point
// at BaseURL and are not served; uploads in development go through Put.
type MemoryObjectStorage struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string]memoryObject
}

// NewMemoryObjectStorage creates an empty store
func NewMemoryObjectStorage(baseURL string) *MemoryObjectStorage {
	return &MemoryObjectStorage{BaseURL: baseURL, objects: make(map[string]memoryObject)}
}

func (m *MemoryObjectStorage) presign(op, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, ErrKeyRequired
	}
	if expiresIn <= 0 {
		expiresIn = 15 * time.Minute
	}
	exp := time.Now().Add(expiresIn)
	return m.BaseURL + "/" + op + "/" + url.PathEscape(key) + "?expires=" + exp.UTC().Format(time.RFC3339), exp, nil
}

func (m *MemoryObjectStorage) PresignUpload(_ context.Context, key, _ string, expiresIn time.Duration) (string, time.Time, error) {
	return m.presign("upload", key, expiresIn)
}

func (m *MemoryObjectStorage) PresignDownload(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	return m.presign("download", key, expiresIn)
}

func (m *MemoryObjectStorage) Stat(_ context.Context, key string) (ObjectInfo, bool, error) {
	if key == "" {
		return ObjectInfo{}, false, ErrKeyRequired
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return ObjectInfo{}, false, nil
	}
	return ObjectInfo{Size: int64(len(obj.data)), ContentType: obj.contentType}, true, nil
}

func (m *MemoryObjectStorage) Put(_ context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return ErrKeyRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{data: append([]byte(nil), data...), contentType: contentType}
	return nil
}

func (m *MemoryObjectStorage) Delete(_ context.Context, key string) error {
	if key == "" {
		return ErrKeyRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// Get returns the stored bytes
func (m *MemoryObjectStorage) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	return obj.data, ok
}

var _ ObjectStore = (*MemoryObjectStorage)(nil)
