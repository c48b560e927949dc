package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	go_json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

var _ TokenStore = (*RedisTokenStore)(nil)

const tokenKey = "fitgate:token"

type RedisConfig struct {
	Client *redis.Client
}

type RedisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(cfg RedisConfig) *RedisTokenStore {
	return &RedisTokenStore{client: cfg.Client}
}

func (r *RedisTokenStore) GetToken(ctx context.Context) (Token, error) {
	data, err := r.client.Get(ctx, tokenKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return Token{}, ErrNotFound
	}
	if err != nil {
		return Token{}, fmt.Errorf("failed to get token: %w", err)
	}

	var token Token
	if err := go_json.Unmarshal(data, &token); err != nil {
		return Token{}, fmt.Errorf("failed to unmarshal token: %w", err)
	}
	return token, nil
}

// UpsertToken stores the token without a TTL. An expired access token is
// still needed for its refresh token.
func (r *RedisTokenStore) UpsertToken(ctx context.Context, token Token) error {
	token.UpdatedAt = time.Now()

	if token.RefreshToken == "" {
		existing, err := r.GetToken(ctx)
		switch {
		case err == nil:
			token.RefreshToken = existing.RefreshToken
		case !errors.Is(err, ErrNotFound):
			return err
		}
	}

	data, err := go_json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := r.client.Set(ctx, tokenKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set token: %w", err)
	}
	return nil
}

func (r *RedisTokenStore) DeleteToken(ctx context.Context) error {
	if err := r.client.Del(ctx, tokenKey).Err(); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

func (r *RedisTokenStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisTokenStore) Close() error {
	return r.client.Close()
}
