// Package redis builds the go-redis client behind the shared token store.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultClientName = "fitgate"
	dialTimeout       = 5 * time.Second
)

// Config is read from REDIS_* variables.
type Config struct {
	URL string `env:"URL"`
}

// New connects to cfg.URL and pings the server.
func New(ctx context.Context, cfg Config) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if opt.ClientName == "" {
		opt.ClientName = defaultClientName
	}
	if opt.DialTimeout == 0 {
		opt.DialTimeout = dialTimeout
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		if closeErr := client.Close(); closeErr != nil {
			err = fmt.Errorf("%w (close: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("failed to reach redis at %s: %w", opt.Addr, err)
	}
	return client, nil
}
