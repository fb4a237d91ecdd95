package main

import (
	"context"
	"fmt"
	"os"

	"github.com/softcover/shelf/internal/repositories"
	"github.com/softcover/shelf/internal/services"
	"github.com/softcover/shelf/internal/shared"
	"github.com/softcover/shelf/internal/tasks"
	"github.com/urfave/cli/v3"
)

// openCache opens the local cache database and wraps it for book storage.
func (r *Runner) openCache(configPath string) (*repositories.BookCacheAdapter, func(), error) {
	config := r.config
	if _, err := os.Stat(configPath); err == nil {
		if loaded, err := shared.LoadConfig(configPath); err == nil {
			config = loaded
		}
	}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	adapter := repositories.NewBookCacheAdapter(repositories.NewBookRepository(db))
	return adapter, func() { db.Close() }, nil
}

// CacheWarm fetches the full catalog and stores every book locally.
func (r *Runner) CacheWarm(ctx context.Context, cmd *cli.Command) error {
	adapter, closeDB, err := r.openCache(cmd.String("config"))
	if err != nil {
		return err
	}
	defer closeDB()

	r.logger.Info("fetching catalog for cache warm")

	books, err := r.gateways.Catalog.List(ctx, services.ListParams{})
	if err != nil {
		return fmt.Errorf("failed to fetch catalog: %w", err)
	}

	progress := make(chan tasks.ProgressUpdate, 8)
	go r.drainProgress(progress)

	opts := tasks.WarmOpts{NumWorkers: cmd.Int("workers")}
	result, err := r.engine.WarmCache(ctx, progress, adapter, books, opts)
	close(progress)
	if err != nil {
		return fmt.Errorf("cache warm failed: %w", err)
	}

	for _, failure := range result.Errors {
		r.logger.Warn("book could not be cached", "book", failure.Endpoint, "error", failure.Error)
	}

	r.writePlain("✓ Cached %d/%d book(s)\n", result.Cached, result.Total)
	if result.Failed > 0 {
		r.writePlain("%d book(s) failed, see log\n", result.Failed)
	}
	return nil
}

// CacheList shows what is in the local cache.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	adapter, closeDB, err := r.openCache("config.toml")
	if err != nil {
		return err
	}
	defer closeDB()

	books, err := adapter.Cached()
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(books, true)
	}

	if len(books) == 0 {
		return r.writePlain("Cache is empty. Run 'shelf cache warm' first.\n")
	}

	for _, book := range books {
		r.writePlain("%4d  %s\n", book.ID, book.DisplayTitle())
	}
	return r.writePlain("\n%d cached book(s)\n", len(books))
}
