package oauth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/garrettladley/fitgate/internal/storage"
)

const loadTimeout = 5 * time.Second

var _ oauth2.TokenSource = (*StoreTokenSource)(nil)

// StoreTokenSource serves the stored token, refreshing and re-saving it when
// it has expired.
type StoreTokenSource struct {
	config *oauth2.Config
	store  storage.TokenStore

	mu    sync.Mutex
	token *oauth2.Token
}

func NewStoreTokenSource(config *oauth2.Config, store storage.TokenStore) *StoreTokenSource {
	return &StoreTokenSource{
		config: config,
		store:  store,
	}
}

func (s *StoreTokenSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != nil && s.token.Valid() {
		return s.token, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	stored, err := s.store.GetToken(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNoToken
		}
		return nil, fmt.Errorf("failed to load token: %w", err)
	}

	token := toOAuth2(stored)
	if token.Valid() {
		s.token = token
		return token, nil
	}

	if token.RefreshToken == "" {
		return nil, ErrTokenExpired
	}

	refreshed, err := s.config.TokenSource(ctx, token).Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}

	// keep the stored scopes unless Google reports a narrower set
	next := fromOAuth2(refreshed, stored.Scopes)
	if next.RefreshToken == "" {
		next.RefreshToken = stored.RefreshToken
	}
	if err := s.store.UpsertToken(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to save refreshed token: %w", err)
	}

	s.token = toOAuth2(next)
	return s.token, nil
}

// Stored returns the persisted token without refreshing it.
func (s *StoreTokenSource) Stored(ctx context.Context) (storage.Token, error) {
	token, err := s.store.GetToken(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Token{}, ErrNoToken
		}
		return storage.Token{}, fmt.Errorf("failed to load token: %w", err)
	}
	return token, nil
}

// Reset drops the cached token so the next call reloads from the store.
// Call it after a consent flow has saved a new grant.
func (s *StoreTokenSource) Reset() {
	s.mu.Lock()
	s.token = nil
	s.mu.Unlock()
}
