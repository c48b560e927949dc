// Package paths locates fitgate's per-user files.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	appName = "fitgate"
	dbName  = "fitgate.db"
	dirMode = 0o700
)

// Dir is $XDG_CONFIG_HOME/fitgate, falling back to the platform config
// directory.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to find config directory: %w", err)
	}
	return filepath.Join(base, appName), nil
}

// DB returns the default SQLite token store path. The directory is created
// owner-only since the file holds OAuth tokens.
func DB() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return filepath.Join(dir, dbName), nil
}
