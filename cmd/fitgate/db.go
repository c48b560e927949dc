package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/garrettladley/fitgate/internal/storage"
)

func dbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Token store management commands",
	}
	cmd.AddCommand(migrateCmd(), tokenCmd(), logoutCmd(), newMigrationCmd())
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: runE(func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			// opening the store already applied them
			if err := a.store.Ping(ctx); err != nil {
				return err
			}
			output(cmd, "Migrations applied successfully")
			return nil
		}),
	}
}

func tokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Show the stored OAuth token",
		RunE: runE(func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			token, err := a.store.GetToken(ctx)
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					output(cmd, "No token stored. Run `fitgate authorize` first.")
					return nil
				}
				return fmt.Errorf("failed to get token: %w", err)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Access Token:  %s\n", redact(token.AccessToken))
			if token.RefreshToken != "" {
				_, _ = fmt.Fprintf(out, "Refresh Token: %s\n", redact(token.RefreshToken))
			}
			_, _ = fmt.Fprintf(out, "Token Type:    %s\n", token.TokenType)
			_, _ = fmt.Fprintf(out, "Expiry:        %s\n", token.Expiry.Format(time.RFC3339))
			_, _ = fmt.Fprintf(out, "Scopes:        %s\n", strings.Join(token.Scopes, "\n               "))

			if token.Expiry.Before(time.Now()) {
				_, _ = fmt.Fprintf(out, "Status:        EXPIRED\n")
			} else {
				_, _ = fmt.Fprintf(out, "Status:        Valid (expires in %s)\n", time.Until(token.Expiry).Round(time.Second))
			}
			return nil
		}),
	}
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored OAuth token",
		RunE: runE(func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			if err := a.store.DeleteToken(ctx); err != nil {
				return fmt.Errorf("failed to delete token: %w", err)
			}
			output(cmd, "Token deleted")
			return nil
		}),
	}
}

// redact keeps enough of a secret to tell two tokens apart.
func redact(s string) string {
	const keep = 8
	if len(s) <= keep {
		return strings.Repeat("*", len(s))
	}
	return s[:keep] + "..."
}

func newMigrationCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a new migration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := os.ReadDir(dir)
			if err != nil {
				return fmt.Errorf("failed to read migrations directory: %w", err)
			}

			filename := filepath.Join(dir, fmt.Sprintf("%06d_%s.sql", nextMigrationNum(entries), args[0]))
			if _, err := os.Stat(filename); err == nil {
				return fmt.Errorf("migration file already exists: %s", filename)
			}

			content := fmt.Sprintf("-- Migration: %s\n\n", args[0])
			if err := os.WriteFile(filename, []byte(content), 0o600); err != nil {
				return fmt.Errorf("failed to create migration file: %w", err)
			}

			output(cmd, "Created migration: "+filename)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", filepath.Join("internal", "migrations", "sql"), "migrations directory")
	return cmd
}

func nextMigrationNum(entries []os.DirEntry) int {
	var last int
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		prefix, _, _ := strings.Cut(entry.Name(), "_")
		var num int
		if _, err := fmt.Sscanf(prefix, "%d", &num); err != nil {
			continue
		}
		last = max(last, num)
	}
	return last + 1
}
