package storage

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"
)

var ErrNotFound = errors.New("token not found")

// Token is the persisted OAuth grant. Scopes holds what the user actually
// granted, which may be narrower than what was requested.
type Token struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Expiry       time.Time `json:"expiry"`
	Scopes       []string  `json:"scopes"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasScopes reports whether every scope in want was granted.
func (t Token) HasScopes(want ...string) bool {
	for _, scope := range want {
		if !slices.Contains(t.Scopes, scope) {
			return false
		}
	}
	return true
}

// TokenStore holds at most one token: fitgate acts for a single user.
type TokenStore interface {
	// GetToken returns ErrNotFound when no token has been saved.
	GetToken(ctx context.Context) (Token, error)

	UpsertToken(ctx context.Context, token Token) error

	DeleteToken(ctx context.Context) error

	Ping(ctx context.Context) error

	Close() error
}

func joinScopes(scopes []string) string {
	return strings.Join(scopes, " ")
}

func splitScopes(s string) []string {
	return strings.Fields(s)
}
