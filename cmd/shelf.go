package main

import (
	"context"
	"fmt"

	"github.com/softcover/shelf/internal/formatter"
	"github.com/softcover/shelf/internal/models"
	"github.com/softcover/shelf/internal/shared"
	"github.com/softcover/shelf/internal/tasks"
	"github.com/urfave/cli/v3"
)

// drainProgress logs engine progress updates until the channel is closed.
func (r *Runner) drainProgress(progress <-chan tasks.ProgressUpdate) {
	for update := range progress {
		r.logger.Info(update.Message, "phase", update.Phase.String())
	}
}

// ShelfShow fetches the user's list joined with catalog details.
func (r *Runner) ShelfShow(ctx context.Context, cmd *cli.Command) error {
	userID, err := r.requireUser(ctx)
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 8)
	go r.drainProgress(progress)

	result, err := r.engine.MyList(ctx, progress, userID)
	close(progress)
	if err != nil {
		return fmt.Errorf("failed to fetch shelf: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	if len(result.Items) == 0 {
		return r.writePlain("Your shelf is empty.\n")
	}

	for _, item := range result.Items {
		r.writePlain("%4d  %-14s %s", item.Entry.ID, item.Entry.Status, item.Book.DisplayTitle())
		if item.Entry.Score > 0 {
			r.writePlain("  [%.1f/5]", item.Entry.Score)
		}
		r.writePlain("\n")
	}
	r.writePlain("\n%d book(s) on your shelf\n", len(result.Items))
	if result.Dropped > 0 {
		r.writePlain("%d entries reference books no longer in the catalog\n", result.Dropped)
	}
	return nil
}

// ShelfAdd puts a catalog book on the user's list.
func (r *Runner) ShelfAdd(ctx context.Context, cmd *cli.Command) error {
	bookID, err := intArg(cmd, "book-id")
	if err != nil {
		return err
	}

	userID, err := r.requireUser(ctx)
	if err != nil {
		return err
	}

	entry := models.ListEntry{
		UserID: userID,
		BookID: bookID,
		Status: cmd.String("status"),
		Score:  cmd.Float("score"),
	}

	created, err := r.gateways.List.Add(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to add to shelf: %w", err)
	}

	r.writePlain("✓ Added book %d to your shelf (entry %d, %s)\n", created.BookID, created.ID, created.Status)
	return nil
}

// ShelfUpdate changes status, score or progress on an existing entry. Flags
// that are not set keep the entry's current values.
func (r *Runner) ShelfUpdate(ctx context.Context, cmd *cli.Command) error {
	entryID, err := intArg(cmd, "entry-id")
	if err != nil {
		return err
	}

	userID, err := r.requireUser(ctx)
	if err != nil {
		return err
	}

	entries, err := r.gateways.List.Entries(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to fetch list: %w", err)
	}

	var entry *models.ListEntry
	for i := range entries {
		if entries[i].ID == entryID {
			entry = &entries[i]
			break
		}
	}
	if entry == nil {
		return fmt.Errorf("%w: entry %d", shared.ErrEntryNotFound, entryID)
	}

	if cmd.IsSet("status") {
		entry.Status = cmd.String("status")
	}
	if cmd.IsSet("score") {
		entry.Score = cmd.Float("score")
	}
	if cmd.IsSet("progress") {
		entry.Progress = cmd.Int("progress")
	}

	updated, err := r.gateways.List.Update(ctx, *entry)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}

	r.writePlain("✓ Updated entry %d (%s)\n", updated.ID, updated.Status)
	return nil
}

// ShelfRemove takes an entry off the user's list.
func (r *Runner) ShelfRemove(ctx context.Context, cmd *cli.Command) error {
	entryID, err := intArg(cmd, "entry-id")
	if err != nil {
		return err
	}

	if _, err := r.requireUser(ctx); err != nil {
		return err
	}

	if err := r.gateways.List.Remove(ctx, entryID); err != nil {
		return fmt.Errorf("failed to remove entry: %w", err)
	}

	r.writePlain("✓ Removed entry %d\n", entryID)
	return nil
}

// ShelfExport writes the user's joined list to a file.
func (r *Runner) ShelfExport(ctx context.Context, cmd *cli.Command) error {
	output := cmd.String("output")
	format := cmd.String("format")

	userID, err := r.requireUser(ctx)
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 8)
	go r.drainProgress(progress)

	result, err := r.engine.MyList(ctx, progress, userID)
	close(progress)
	if err != nil {
		return fmt.Errorf("failed to fetch shelf: %w", err)
	}

	if err := formatter.WriteExport(result.Items, format, output); err != nil {
		return fmt.Errorf("failed to export shelf: %w", err)
	}

	r.writePlain("✓ Exported %d book(s) to %s\n", len(result.Items), output)
	return nil
}
