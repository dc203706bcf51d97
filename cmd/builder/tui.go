package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/goliatone/go-dashboard-builder/components/builder/tui"
	"github.com/goliatone/go-dashboard-builder/pkg/logging"
)

type tuiCmd struct {
	LogFile string `type:"path" default:"builder-tui.log" help:"File receiving logs while the terminal UI owns the screen. Empty disables logging."`
	NoAlt   bool   `name:"no-alt-screen" help:"Render inline instead of on the alternate screen."`
}

func (cmd *tuiCmd) Run(ctx context.Context, g *globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	var sink io.Writer = io.Discard
	if cmd.LogFile != "" {
		f, err := os.OpenFile(cmd.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644) //nolint:gosec
		if err != nil {
			return fmt.Errorf("builder: open log file: %w", err)
		}
		defer f.Close()
		sink = f
	}

	rt, err := newRuntime(ctx, cfg, logging.NewWriter(cfg.Logging, sink))
	if err != nil {
		return err
	}
	defer rt.close(context.Background())

	a, err := rt.app()
	if err != nil {
		return err
	}
	model, err := tui.New(tui.Options{
		Context: ctx,
		Service: a.ctrl,
		Canvas:  a.canvas,
		Notices: a.notices,
		Logger:  rt.logger.Named("tui"),
	})
	if err != nil {
		return fmt.Errorf("builder: %w", err)
	}

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if !cmd.NoAlt {
		opts = append(opts, tea.WithAltScreen())
	}
	if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
		return fmt.Errorf("builder: tui: %w", err)
	}
	return nil
}
