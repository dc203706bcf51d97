package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-dashboard-builder/components/builder"
	"github.com/goliatone/go-dashboard-builder/pkg/config"
	"github.com/goliatone/go-dashboard-builder/pkg/layoutapi"
	"github.com/goliatone/go-dashboard-builder/pkg/logging"
	"github.com/goliatone/go-dashboard-builder/pkg/tracing"
)

const noticeCapacity = 32

// runtime holds the process wide collaborators every subcommand needs.
type runtime struct {
	cfg      *config.Config
	logger   *zap.Logger
	shutdown tracing.Shutdown
}

func (g *globals) load() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, fmt.Errorf("builder: %w", err)
	}
	return cfg, nil
}

func (g *globals) setup(ctx context.Context) (*runtime, error) {
	cfg, err := g.load()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("builder: logger: %w", err)
	}
	return newRuntime(ctx, cfg, logger)
}

func newRuntime(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*runtime, error) {
	shutdown, err := tracing.Init(ctx, cfg.Tracing, version)
	if err != nil {
		return nil, fmt.Errorf("builder: tracing: %w", err)
	}
	return &runtime{cfg: cfg, logger: logger, shutdown: shutdown}, nil
}

func (rt *runtime) close(ctx context.Context) {
	if rt.shutdown != nil {
		if err := rt.shutdown(ctx); err != nil {
			rt.logger.Warn("tracing shutdown failed", zap.Error(err))
		}
	}
	_ = rt.logger.Sync()
}

func (rt *runtime) client() (*layoutapi.Client, error) {
	client, err := layoutapi.New(layoutapi.Config{
		BaseURL: rt.cfg.API.BaseURL,
		APIKey:  rt.cfg.API.APIKey,
		Timeout: rt.cfg.API.Timeout,
		Logger:  rt.logger.Named("layoutapi"),
	})
	if err != nil {
		return nil, fmt.Errorf("builder: %w", err)
	}
	return client, nil
}

// app is the assembled builder: controller, canvas and page over the remote
// layout API.
type app struct {
	client    *layoutapi.Client
	ctrl      *builder.Controller
	canvas    *builder.Canvas
	notices   *builder.NoticeLog
	hook      *builder.BroadcastHook
	page      *builder.Page
	telemetry builder.ZapTelemetry
}

func (rt *runtime) app() (*app, error) {
	client, err := rt.client()
	if err != nil {
		return nil, err
	}
	notices := builder.NewNoticeLog(noticeCapacity)
	hook := builder.NewBroadcastHook(builder.WithAllowedOrigins(rt.cfg.Server.AllowedOrigins...))
	telemetry := builder.ZapTelemetry{Logger: rt.logger.Named("telemetry")}
	ctrl := builder.NewController(builder.Options{
		API:       client,
		Notifier:  builder.MultiNotifier{notices, hook},
		Hook:      hook,
		Telemetry: telemetry,
		Logger:    rt.logger.Named("controller"),
	})

	charts := builder.NewEChartsRenderer(
		builder.WithChartTheme(rt.cfg.Charts.Theme),
		builder.WithChartAssetsHost(rt.cfg.Charts.AssetsHost),
		builder.WithChartHeight(rt.cfg.Charts.Height),
		builder.WithChartCache(builder.NewChartCache(rt.cfg.Charts.CacheTTL)),
	)
	canvas := builder.NewCanvas(ctrl, nil, builder.NewElementRenderer(charts, rt.logger.Named("render")))

	renderer, err := builder.NewTemplateRenderer()
	if err != nil {
		return nil, fmt.Errorf("builder: templates: %w", err)
	}
	page, err := builder.NewPage(builder.PageOptions{
		Controller: ctrl,
		Canvas:     canvas,
		Notices:    notices,
		Renderer:   renderer,
		BasePath:   rt.cfg.Server.BasePath,
	})
	if err != nil {
		return nil, err
	}
	return &app{
		client:    client,
		ctrl:      ctrl,
		canvas:    canvas,
		notices:   notices,
		hook:      hook,
		page:      page,
		telemetry: telemetry,
	}, nil
}
