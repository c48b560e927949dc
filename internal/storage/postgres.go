package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	pgmigrations "github.com/garrettladley/fitgate/internal/migrations/postgres"
)

var _ TokenStore = (*PostgresTokenStore)(nil)

type PostgresTokenStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to url and applies pending migrations.
func OpenPostgres(ctx context.Context, url string) (*PostgresTokenStore, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	if err := pgmigrations.Apply(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &PostgresTokenStore{pool: pool}, nil
}

func (s *PostgresTokenStore) GetToken(ctx context.Context) (Token, error) {
	var (
		token   Token
		refresh *string
	)
	err := s.pool.QueryRow(ctx, `
		SELECT access_token, token_type, refresh_token, expiry, scopes, updated_at
		FROM tokens WHERE id = 1
	`).Scan(&token.AccessToken, &token.TokenType, &refresh, &token.Expiry, &token.Scopes, &token.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Token{}, ErrNotFound
	}
	if err != nil {
		return Token{}, fmt.Errorf("failed to get token: %w", err)
	}

	if refresh != nil {
		token.RefreshToken = *refresh
	}
	return token, nil
}

func (s *PostgresTokenStore) UpsertToken(ctx context.Context, token Token) error {
	var refresh *string
	if token.RefreshToken != "" {
		refresh = &token.RefreshToken
	}
	scopes := token.Scopes
	if scopes == nil {
		scopes = []string{}
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO tokens (id, access_token, token_type, refresh_token, expiry, scopes, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			token_type = EXCLUDED.token_type,
			refresh_token = COALESCE(EXCLUDED.refresh_token, tokens.refresh_token),
			expiry = EXCLUDED.expiry,
			scopes = EXCLUDED.scopes,
			updated_at = NOW()
	`, token.AccessToken, token.TokenType, refresh, token.Expiry, scopes)
	if err != nil {
		return fmt.Errorf("failed to upsert token: %w", err)
	}
	return nil
}

func (s *PostgresTokenStore) DeleteToken(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, "DELETE FROM tokens WHERE id = 1"); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

func (s *PostgresTokenStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresTokenStore) Close() error {
	s.pool.Close()
	return nil
}
