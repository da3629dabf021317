// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"

	"github.com/starford/ansuz/internal/client"
	"github.com/starford/ansuz/internal/store"
	"github.com/starford/ansuz/internal/ui"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	if !app.allowNonTTY && !isatty.IsTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("stdout is not a terminal; ansuz is an interactive application")
	}

	// Structured JSON logs go to a file: the TUI owns the terminal.
	logOut := io.Writer(io.Discard)
	if cfg.App.LogFile != "" {
		f, err := os.OpenFile(cfg.App.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	endpoint := cfg.ResolveEndpoint()
	logger.Info("Configuration loaded",
		slog.String("endpoint", endpoint),
		slog.String("log_level", cfg.App.LogLevel.String()))

	remote := client.New(endpoint)
	st := store.New(remote, logger)

	progOpts := append([]tea.ProgramOption{tea.WithAltScreen()}, app.programOpts...)
	program := tea.NewProgram(ui.New(st, remote), progOpts...)

	// Wake the UI whenever the store mutates so optimistic state shows up
	// immediately instead of after the remote call settles.
	st.Subscribe(func() {
		program.Send(ui.StoreChangedMsg{})
	})

	g, gCtx := errgroup.WithContext(ctx)

	uiDone := make(chan struct{})
	g.Go(func() error {
		defer close(uiDone)
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("ui error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			program.Quit()
		case <-uiDone:
		case <-gCtx.Done():
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Stopped")
	return nil
}
