package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/garrettladley/fitgate/internal/bridge"
	"github.com/garrettladley/fitgate/internal/version"
	"github.com/garrettladley/fitgate/internal/xslog"
)

const shutdownTimeout = 30 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON bridge over HTTP",
		RunE: runE(func(ctx context.Context, _ *cobra.Command, a *app, _ []string) error {
			return serve(ctx, a)
		}),
	}
}

func serve(ctx context.Context, a *app) error {
	handler := bridge.NewHandler(a.gateway, bridge.WithHealthCheck(a.store.Ping))

	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           handler.Server(a.logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		attrs := []any{xslog.Port(a.cfg.Port), xslog.Version(), slog.String("env", string(a.cfg.Env))}
		if version.IsDevelopment(version.Get()) {
			attrs = append(attrs, slog.Bool("dev_build", true))
		}
		a.logger.InfoContext(ctx, "starting server", attrs...)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("server shutdown error", xslog.Error(err))
		return err
	}

	a.logger.Info("server stopped")
	return nil
}
