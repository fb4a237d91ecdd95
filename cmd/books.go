package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/softcover/shelf/internal/models"
	"github.com/softcover/shelf/internal/services"
	"github.com/softcover/shelf/internal/shared"
	"github.com/urfave/cli/v3"
)

// BooksList fetches catalog books with optional filters.
func (r *Runner) BooksList(ctx context.Context, cmd *cli.Command) error {
	params := services.ListParams{
		Search:   cmd.String("search"),
		Status:   cmd.String("status"),
		Category: cmd.String("category"),
		Page:     cmd.Int("page"),
		Limit:    cmd.Int("limit"),
	}

	r.logger.Info("fetching catalog", "search", params.Search)

	books, err := r.gateways.Catalog.List(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to fetch catalog: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(books, cmd.Bool("pretty"))
	}

	if len(books) == 0 {
		return r.writePlain("No books found.\n")
	}

	for _, book := range books {
		r.writePlain("%4d  %s\n", book.ID, book.DisplayTitle())
		if line := book.CategoryLine(); line != "" {
			r.writePlain("      %s\n", line)
		}
	}
	return r.writePlain("\n%d book(s)\n", len(books))
}

// BooksGet shows a single catalog book.
func (r *Runner) BooksGet(ctx context.Context, cmd *cli.Command) error {
	id, err := intArg(cmd, "id")
	if err != nil {
		return err
	}

	book, err := r.gateways.Catalog.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch book: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(book, true)
	}

	r.writePlain("%s\n", book.DisplayTitle())
	if book.Publisher != "" {
		r.writePlain("Publisher: %s\n", book.Publisher)
	}
	if book.Year > 0 {
		r.writePlain("Year: %d\n", book.Year)
	}
	if line := book.CategoryLine(); line != "" {
		r.writePlain("Categories: %s\n", line)
	}
	if book.ISBN != "" {
		r.writePlain("ISBN: %s\n", book.ISBN)
	}
	if book.Progress.Total > 0 {
		r.writePlain("Progress: %d/%d (%d%%)\n", book.Progress.Current, book.Progress.Total, book.Progress.Percent())
	}
	if book.Description != "" {
		r.writePlain("\n%s\n", book.Description)
	}
	return nil
}

// BooksAdd creates a catalog book.
func (r *Runner) BooksAdd(ctx context.Context, cmd *cli.Command) error {
	book := models.Book{
		Title:  cmd.String("title"),
		Author: cmd.String("author"),
		Year:   cmd.Int("year"),
		ISBN:   cmd.String("isbn"),
		Progress: models.Progress{
			Total: cmd.Int("pages"),
		},
	}
	if category := cmd.String("category"); category != "" {
		book.Categories = []string{category}
	}

	created, err := r.gateways.Catalog.Create(ctx, book)
	if err != nil {
		return fmt.Errorf("failed to add book: %w", err)
	}

	r.writePlain("✓ Added %s (id %d)\n", created.DisplayTitle(), created.ID)
	return nil
}

// BooksUpdate changes catalog fields on an existing book. Flags that are not
// set keep the book's current values.
func (r *Runner) BooksUpdate(ctx context.Context, cmd *cli.Command) error {
	id, err := intArg(cmd, "id")
	if err != nil {
		return err
	}

	book, err := r.gateways.Catalog.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch book: %w", err)
	}

	if cmd.IsSet("title") {
		book.Title = cmd.String("title")
	}
	if cmd.IsSet("author") {
		book.Author = cmd.String("author")
	}
	if cmd.IsSet("category") {
		book.Categories = []string{cmd.String("category")}
	}
	if cmd.IsSet("year") {
		book.Year = cmd.Int("year")
	}
	if cmd.IsSet("isbn") {
		book.ISBN = cmd.String("isbn")
	}
	if cmd.IsSet("pages") {
		book.Progress.Total = cmd.Int("pages")
	}

	updated, err := r.gateways.Catalog.Update(ctx, id, *book)
	if err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}

	r.writePlain("✓ Updated %s (id %d)\n", updated.DisplayTitle(), updated.ID)
	return nil
}

// BooksDelete removes a catalog book.
func (r *Runner) BooksDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := intArg(cmd, "id")
	if err != nil {
		return err
	}

	if err := r.gateways.Catalog.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}

	r.writePlain("✓ Deleted book %d\n", id)
	return nil
}

// BooksProgress updates reading progress for a book. When --total is omitted
// the book's known page count is kept.
func (r *Runner) BooksProgress(ctx context.Context, cmd *cli.Command) error {
	id, err := intArg(cmd, "id")
	if err != nil {
		return err
	}

	progress := models.Progress{
		Current: cmd.Int("current"),
		Total:   cmd.Int("total"),
	}

	if progress.Total == 0 {
		book, err := r.gateways.Catalog.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to fetch book: %w", err)
		}
		progress.Total = book.Progress.Total
	}

	updated, err := r.gateways.Catalog.UpdateProgress(ctx, id, progress)
	if err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}

	r.writePlain("✓ %s now at %d/%d (%d%%)\n",
		updated.Title, updated.Progress.Current, updated.Progress.Total, updated.Progress.Percent())
	return nil
}

// Discover searches the catalog in one shot. The TUI's search view is the
// interactive version of this.
func (r *Runner) Discover(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	books, err := r.gateways.Catalog.List(ctx, services.ListParams{
		Search: query,
		Limit:  cmd.Int("limit"),
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(books, cmd.Bool("pretty"))
	}

	if len(books) == 0 {
		return r.writePlain("No books match %q.\n", query)
	}

	for _, book := range books {
		r.writePlain("%4d  %s\n", book.ID, book.DisplayTitle())
	}
	return r.writePlain("\n%d result(s) for %q\n", len(books), query)
}

// BooksCategories lists the known category codes.
func (r *Runner) BooksCategories(ctx context.Context, cmd *cli.Command) error {
	categories := r.gateways.Catalog.Categories()

	codes := make([]int, 0, len(categories))
	for code := range categories {
		codes = append(codes, code)
	}
	sort.Ints(codes)

	for _, code := range codes {
		r.writePlain("%2d  %s\n", code, categories[code])
	}
	return nil
}
