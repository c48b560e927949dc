package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/garrettladley/fitgate/internal/migrations"
)

var _ TokenStore = (*SQLiteTokenStore)(nil)

type SQLiteTokenStore struct {
	db *sql.DB
}

// OpenSQLite opens the database at path and applies pending migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLiteTokenStore, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer, and the token table has a single row
	db.SetMaxOpenConns(1)

	if err := migrations.Apply(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteTokenStore{db: db}, nil
}

func (s *SQLiteTokenStore) GetToken(ctx context.Context) (Token, error) {
	var (
		token   Token
		refresh sql.NullString
		scopes  string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT access_token, token_type, refresh_token, expiry, scopes, updated_at
		FROM tokens WHERE id = 1
	`).Scan(&token.AccessToken, &token.TokenType, &refresh, &token.Expiry, &scopes, &token.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Token{}, ErrNotFound
	}
	if err != nil {
		return Token{}, fmt.Errorf("failed to get token: %w", err)
	}

	token.RefreshToken = refresh.String
	token.Scopes = splitScopes(scopes)
	return token, nil
}

// UpsertToken keeps the stored refresh token when token carries none, since
// Google omits it on refresh responses.
func (s *SQLiteTokenStore) UpsertToken(ctx context.Context, token Token) error {
	var refresh sql.NullString
	if token.RefreshToken != "" {
		refresh = sql.NullString{String: token.RefreshToken, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tokens (id, access_token, token_type, refresh_token, expiry, scopes, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			access_token = excluded.access_token,
			token_type = excluded.token_type,
			refresh_token = COALESCE(excluded.refresh_token, tokens.refresh_token),
			expiry = excluded.expiry,
			scopes = excluded.scopes,
			updated_at = excluded.updated_at
	`, token.AccessToken, token.TokenType, refresh, token.Expiry.UTC(), joinScopes(token.Scopes), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert token: %w", err)
	}
	return nil
}

func (s *SQLiteTokenStore) DeleteToken(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM tokens WHERE id = 1"); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

func (s *SQLiteTokenStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteTokenStore) Close() error {
	return s.db.Close()
}
