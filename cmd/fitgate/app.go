package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/garrettladley/fitgate/internal/client/googlefit"
	"github.com/garrettladley/fitgate/internal/config"
	"github.com/garrettladley/fitgate/internal/foreground"
	"github.com/garrettladley/fitgate/internal/gateway"
	"github.com/garrettladley/fitgate/internal/oauth"
	"github.com/garrettladley/fitgate/internal/paths"
	provider "github.com/garrettladley/fitgate/internal/provider/googlefit"
	xredis "github.com/garrettladley/fitgate/internal/redis"
	"github.com/garrettladley/fitgate/internal/render"
	"github.com/garrettladley/fitgate/internal/storage"
	"github.com/garrettladley/fitgate/internal/xslog"
)

const (
	keyStore = "store"
	keyPath  = "path"
)

var errProductionStore = errors.New("production requires DATABASE_URL or REDIS_URL")

// app is everything one command needs, built from the environment.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	loc      *time.Location
	store    storage.TokenStore
	gateway  *gateway.Gateway
	renderer *render.Renderer
}

// newApp reads the config and wires the token store, OAuth, and Google Fit
// client behind one gateway. Logs go to logOut and consent prompts to
// promptOut.
func newApp(ctx context.Context, logOut io.Writer, promptOut io.Writer) (*app, error) {
	cfg, err := config.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	logger := xslog.NewLogger(logOut, cfg.LogLevel)

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open token store: %w", err)
	}

	oauthCfg := oauth.NewConfig(cfg.Google)
	tokens := oauth.NewStoreTokenSource(oauthCfg, store)
	flow := oauth.NewConsentFlow(oauthCfg, store, oauth.WithFlowLogger(logger))

	client := googlefit.New(tokens,
		googlefit.WithBaseURL(cfg.Google.FitBaseURL),
		googlefit.WithLogger(logger),
	)
	fit := provider.New(client, tokens, flow,
		provider.WithAppName(cfg.AppName),
		provider.WithLocation(loc),
		provider.WithLogger(logger),
	)

	return &app{
		cfg:    cfg,
		logger: logger,
		loc:    loc,
		store:  store,
		gateway: gateway.New(fit, foregroundSource(cfg, promptOut),
			gateway.WithLocation(loc),
			gateway.WithLogger(logger),
		),
		renderer: render.New(render.WithLocation(loc)),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close token store", xslog.Error(err))
	}
}

func foregroundSource(cfg config.Config, out io.Writer) gateway.ForegroundSource {
	if cfg.ConsentUI == config.ConsentUINone {
		return foreground.None{}
	}
	return foreground.NewBrowser(out)
}

// openStore picks postgres, then redis, then the local SQLite file.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (storage.TokenStore, error) {
	switch {
	case cfg.DatabaseURL != "":
		logger.DebugContext(ctx, "initializing token store", slog.String(keyStore, "postgres"))
		store, err := storage.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return store, nil

	case cfg.Redis.URL != "":
		logger.DebugContext(ctx, "initializing token store", slog.String(keyStore, "redis"))
		client, err := xredis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return storage.NewRedisTokenStore(storage.RedisConfig{Client: client}), nil

	case cfg.Env.IsProduction():
		return nil, errProductionStore
	}

	path := cfg.SQLitePath
	if path == "" {
		var err error
		if path, err = paths.DB(); err != nil {
			return nil, err
		}
	}
	logger.DebugContext(ctx, "initializing token store", slog.String(keyStore, "sqlite"), slog.String(keyPath, path))
	store, err := storage.OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}
	return store, nil
}
