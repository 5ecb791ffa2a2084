package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/freekieb7/coyote/app"
	"github.com/freekieb7/coyote/config"
	"github.com/freekieb7/coyote/http"
	"github.com/freekieb7/coyote/server"
	"github.com/freekieb7/coyote/session/storage"
	"github.com/freekieb7/coyote/static"
	"github.com/freekieb7/coyote/telemetry"
)

const name = "github.com/freekieb7/coyote"

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(context.Background(), cfg); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) (err error) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))

	if cfg.Telemetry {
		if os.Getenv("OTEL_SERVICE_NAME") == "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.ServiceName)
		}

		shutdown, setupErr := telemetry.Setup(ctx)
		if setupErr != nil {
			return fmt.Errorf("setting up telemetry: %w", setupErr)
		}
		defer func() {
			err = errors.Join(err, shutdown(context.Background()))
		}()

		logger = slog.New(telemetry.NewLevelHandler(cfg.Level(), otelslog.NewHandler(name)))
	}
	slog.SetDefault(logger)

	var resources fs.FS = static.Bundle
	root := static.BundleRoot
	if cfg.StaticDir != "" {
		resources = os.DirFS(cfg.StaticDir)
		root = "."
	}

	resolver, err := static.NewResolver(resources, root, logger)
	if err != nil {
		return err
	}
	logger.Info("static resources ready", "count", resolver.Len())

	router := http.NewRouter(http.RouterOptions{
		Resolver:        resolver,
		NotFoundPath:    cfg.NotFound,
		DefaultStatusOK: cfg.DefaultOK,
		Logger:          logger,
	})
	router.Use(http.RecoverMiddleware(logger), http.LoggingMiddleware(logger))

	sessions := storage.NewMemorySessionStore()
	defer sessions.Close()

	app.New(app.Options{
		Resources: resolver,
		Users:     app.NewUserRepository(app.User{Account: "gugu", Password: "password", Email: "hkkang@woowahan.com"}),
		Sessions:  sessions,
		Logger:    logger,
	}).Register(router)

	opts := server.Options{
		ReadTimeout: cfg.ReadTimeoutDuration,
		MaxBodySize: cfg.MaxBodySize,
		Logger:      logger,
	}

	switch cfg.Mode {
	case config.ModeNetHTTP:
		return serveNetHTTP(ctx, cfg, router, opts)
	default:
		return serveRaw(ctx, cfg, router, opts)
	}
}

func serveRaw(ctx context.Context, cfg *config.Config, router *http.Router, opts server.Options) error {
	srv, err := server.New(router, opts)
	if err != nil {
		return err
	}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe(ctx, cfg.Addr)
	}()

	select {
	case err := <-serverErrCh:
		if errors.Is(err, server.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func serveNetHTTP(ctx context.Context, cfg *config.Config, router *http.Router, opts server.Options) error {
	srv := &nethttp.Server{
		Addr:        cfg.Addr,
		Handler:     otelhttp.NewHandler(server.NewAdapter(router, opts), "coyote"),
		ReadTimeout: opts.ReadTimeout,
		BaseContext: func(_ net.Listener) context.Context { return ctx },
	}

	serverErrCh := make(chan error, 1)
	go func() {
		opts.Logger.Info("listening", "addr", cfg.Addr, "mode", cfg.Mode)
		serverErrCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrCh:
		if errors.Is(err, nethttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
