package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/softcover/shelf/internal/shared"
	"github.com/softcover/shelf/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for browsing the shelf.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Redirect logs to file to avoid interfering with TUI rendering
	logPath := filepath.Join("tmp", "shelf-tui.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer logFile.Close()

	fileLogger := shared.NewLogger(logFile)
	r.logger = fileLogger
	r.gateways.Catalog.SetLogger(fileLogger)

	// Pick up logins and logouts announced by other shelf processes.
	if r.signal != nil {
		ticks, err := r.signal.Watch(ctx)
		if err != nil {
			fileLogger.Warn("session watch unavailable", "error", err)
		} else {
			go r.session.React(ctx, ticks)
		}
	}

	model := ui.NewModel(ctx, r.session, r.engine, r.gateways.Catalog, r.config.Search.DebounceMS)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// Open opens the companion web application in the default browser.
func (r *Runner) Open(ctx context.Context, cmd *cli.Command) error {
	baseURL := r.config.Web.BaseURL
	if baseURL == "" {
		return fmt.Errorf("%w: web.base_url is not set", shared.ErrInvalidConfig)
	}

	r.logger.Info("opening web app", "url", baseURL)
	return shared.OpenBrowser(baseURL)
}
