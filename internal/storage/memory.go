package storage

import (
	"context"
	"slices"
	"sync"
	"time"
)

var _ TokenStore = (*MemoryTokenStore)(nil)

type MemoryTokenStore struct {
	mu    sync.RWMutex
	token *Token
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (m *MemoryTokenStore) GetToken(_ context.Context) (Token, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.token == nil {
		return Token{}, ErrNotFound
	}
	token := *m.token
	token.Scopes = slices.Clone(m.token.Scopes)
	return token, nil
}

func (m *MemoryTokenStore) UpsertToken(_ context.Context, token Token) error {
	token.Scopes = slices.Clone(token.Scopes)
	token.UpdatedAt = time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()
	if token.RefreshToken == "" && m.token != nil {
		token.RefreshToken = m.token.RefreshToken
	}
	m.token = &token
	return nil
}

func (m *MemoryTokenStore) DeleteToken(_ context.Context) error {
	m.mu.Lock()
	m.token = nil
	m.mu.Unlock()
	return nil
}

func (m *MemoryTokenStore) Ping(_ context.Context) error { return nil }

func (m *MemoryTokenStore) Close() error { return nil }
