package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/goliatone/go-dashboard-builder/pkg/config"
	"github.com/goliatone/go-dashboard-builder/pkg/layoutserver"
	"github.com/goliatone/go-dashboard-builder/pkg/layoutstore"
	"github.com/goliatone/go-dashboard-builder/pkg/logging"
	"github.com/goliatone/go-dashboard-builder/pkg/tracing"
)

var version = "dev"

type cli struct {
	Config  string           `short:"c" type:"path" env:"BUILDER_CONFIG" help:"Path to a YAML config file."`
	Addr    string           `default:":3001" env:"LAYOUTD_ADDR" help:"Listen address."`
	APIKey  string           `name:"api-key" env:"LAYOUTD_API_KEY" help:"Bearer token required on every request (defaults to api.api_key). Empty disables the check."`
	Driver  string           `help:"Store driver, memory or sqlite (overrides store.driver)."`
	DB      string           `name:"db" type:"path" help:"SQLite database path (overrides store.path)."`
	Version kong.VersionFlag `help:"Print the version and exit."`
}

func main() {
	var c cli
	ctx := kong.Parse(&c,
		kong.Name("layoutd"),
		kong.Description("Reference layout persistence API for the dashboard builder."),
		kong.Vars{"version": version},
		kong.UsageOnError(),
	)
	err := ctx.Run(context.Background())
	ctx.FatalIfErrorf(err)
}

func (c *cli) Run(ctx context.Context) error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return fmt.Errorf("layoutd: %w", err)
	}
	if c.Driver != "" {
		cfg.Store.Driver = c.Driver
	}
	if c.DB != "" {
		cfg.Store.Path = c.DB
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("layoutd: %w", err)
	}
	apiKey := c.APIKey
	if apiKey == "" {
		apiKey = cfg.API.APIKey
	}
	if cfg.Tracing.ServiceName == config.Defaults().Tracing.ServiceName {
		cfg.Tracing.ServiceName = "layoutd"
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("layoutd: logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracingShutdown, err := tracing.Init(ctx, cfg.Tracing, version)
	if err != nil {
		return fmt.Errorf("layoutd: tracing: %w", err)
	}

	store, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer closeStore()

	server, err := layoutserver.New(layoutserver.Config{
		Store:  store,
		APIKey: apiKey,
		Logger: logger.Named("layoutserver"),
	})
	if err != nil {
		return fmt.Errorf("layoutd: %w", err)
	}

	srv := &http.Server{
		Addr:              c.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("layoutd started",
		zap.String("addr", c.Addr),
		zap.String("store", cfg.Store.Driver),
		zap.Bool("auth", apiKey != ""),
		zap.String("version", version),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown initiated")
	case err, ok := <-errCh:
		if ok {
			logger.Error("server error", zap.Error(err))
			return fmt.Errorf("layoutd: %w", err)
		}
	}

	shutdownTimeout := cfg.Server.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}
	if err := tracingShutdown(shutdownCtx); err != nil {
		logger.Error("tracing shutdown error", zap.Error(err))
	}
	return nil
}

func openStore(ctx context.Context, cfg config.StoreConfig) (layoutstore.Store, func(), error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		store, err := layoutstore.OpenSQLite(ctx, cfg.Path, layoutstore.Options{})
		if err != nil {
			return nil, nil, fmt.Errorf("layoutd: open sqlite store: %w", err)
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return layoutstore.NewMemoryStore(layoutstore.Options{}), func() {}, nil
	}
}
