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

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"go.uber.org/zap"

	"github.com/goliatone/go-dashboard-builder/components/builder/gorouter"
	"github.com/goliatone/go-dashboard-builder/components/builder/httpapi"
	"github.com/goliatone/go-dashboard-builder/components/builder/queries"
	"github.com/goliatone/go-dashboard-builder/pkg/config"
)

type serveCmd struct {
	Addr string `help:"Listen address (overrides server.addr)."`
	Mode string `help:"Server mode, fiber or http (overrides server.mode)."`
}

func (cmd *serveCmd) Run(ctx context.Context, g *globals) error {
	rt, err := g.setup(ctx)
	if err != nil {
		return err
	}
	defer rt.close(context.Background())

	if cmd.Addr != "" {
		rt.cfg.Server.Addr = cmd.Addr
	}
	if cmd.Mode != "" {
		rt.cfg.Server.Mode = cmd.Mode
		if err := rt.cfg.Validate(); err != nil {
			return fmt.Errorf("builder: %w", err)
		}
	}

	a, err := rt.app()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	state := a.ctrl.LoadLayouts(ctx)
	rt.logger.Info("layouts loaded",
		zap.Int("count", len(state.Layouts)),
		zap.String("api", rt.cfg.API.BaseURL),
	)

	if rt.cfg.Server.Mode == config.ModeHTTP {
		return serveHTTP(ctx, rt, a)
	}
	return serveFiber(ctx, rt, a)
}

func serveFiber(ctx context.Context, rt *runtime, a *app) error {
	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:    server.Router(),
		Page:      a.page,
		API:       httpapi.NewCommandExecutor(a.ctrl, a.canvas, a.telemetry),
		State:     queries.NewStateQuery(a.ctrl),
		Broadcast: a.hook,
		BasePath:  rt.cfg.Server.BasePath,
	}); err != nil {
		return fmt.Errorf("builder: register routes: %w", err)
	}

	rt.logger.Info("builder ready",
		zap.String("mode", config.ModeFiber),
		zap.String("addr", rt.cfg.Server.Addr),
		zap.String("base_path", rt.cfg.Server.BasePath),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(rt.cfg.Server.Addr)
	}()

	select {
	case <-ctx.Done():
		rt.logger.Info("shutdown initiated")
	case err := <-errCh:
		return fmt.Errorf("builder: serve: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout(rt.cfg))
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		rt.logger.Error("server shutdown error", zap.Error(err))
	}
	return nil
}

func serveHTTP(ctx context.Context, rt *runtime, a *app) error {
	mux := http.NewServeMux()
	handlers := &httpapi.Handlers{
		API:   httpapi.NewCommandExecutor(a.ctrl, a.canvas, a.telemetry),
		State: queries.NewStateQuery(a.ctrl),
		Page:  a.page,
		Hook:  a.hook,
	}
	handlers.Mount(mux, rt.cfg.Server.BasePath)

	srv := &http.Server{
		Addr:              rt.cfg.Server.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	rt.logger.Info("builder ready",
		zap.String("mode", config.ModeHTTP),
		zap.String("addr", rt.cfg.Server.Addr),
		zap.String("base_path", rt.cfg.Server.BasePath),
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
		rt.logger.Info("shutdown initiated")
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("builder: serve: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout(rt.cfg))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		rt.logger.Error("server shutdown error", zap.Error(err))
	}
	return nil
}

func shutdownTimeout(cfg *config.Config) time.Duration {
	if cfg.Server.ShutdownTimeout <= 0 {
		return 10 * time.Second
	}
	return cfg.Server.ShutdownTimeout
}
