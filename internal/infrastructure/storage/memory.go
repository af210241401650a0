package storage

import (
	"context"
	"net/url"
	"sync"
	"time"

	appledger "github.com/eric6923/finTrack-sub000/internal/application/ledger"
)

var _ appledger.StatementStorage = (*MemoryStatementStorage)(nil)

// MemoryStatementStorage keeps statements in process memory. Download links
// point at BaseURL and are not signed. Used in development and tests.
type MemoryStatementStorage struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryStatementStorage creates an empty store
func NewMemoryStatementStorage(baseURL string) *MemoryStatementStorage {
	if baseURL == "" {
		baseURL = "http://localhost:8080/statements"
	}
	return &MemoryStatementStorage{BaseURL: baseURL, objects: make(map[string][]byte)}
}

// Upload stores a copy of data
func (m *MemoryStatementStorage) Upload(_ context.Context, storageKey string, data []byte, _ string) error {
	if storageKey == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[storageKey] = append([]byte(nil), data...)
	return nil
}

// GenerateDownloadURL returns a plain link to the stored key
func (m *MemoryStatementStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, ErrEmptyKey
	}
	expiresAt := time.Now().Add(expiresIn)
	return m.BaseURL + "/" + url.PathEscape(storageKey) + "?expires=" + url.QueryEscape(expiresAt.UTC().Format(time.RFC3339)), expiresAt, nil
}

// Get returns a stored statement
func (m *MemoryStatementStorage) Get(storageKey string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[storageKey]
	return data, ok
}
