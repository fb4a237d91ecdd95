package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/softcover/shelf/internal/models"
	"github.com/softcover/shelf/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func sampleBook() models.Book {
	return models.Book{
		ID:         42,
		Title:      "Parable of the Sower",
		Author:     "Octavia Butler",
		Categories: []string{"Science Fiction", "Dystopian"},
		Year:       1993,
		Progress:   models.Progress{Current: 50, Total: 345},
	}
}

func TestBookRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		repo := NewBookRepository(setupTestDB(t))
		book := models.NewCachedBook(0, 42, sampleBook())

		if err := repo.Create(book); err != nil {
			t.Fatalf("failed to create book: %v", err)
		}
		if book.ID() == "" {
			t.Error("book ID should be set after creation")
		}
		if book.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", book.Sequence())
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewBookRepository(setupTestDB(t))
		book := models.NewCachedBook(0, 42, sampleBook())
		if err := repo.Create(book); err != nil {
			t.Fatalf("failed to create book: %v", err)
		}

		got, err := repo.Get(book.ID())
		if err != nil {
			t.Fatalf("failed to get book: %v", err)
		}
		if got.Title() != "Parable of the Sower" || got.RemoteID() != 42 {
			t.Errorf("unexpected book: %s (%d)", got.Title(), got.RemoteID())
		}
		if got.Categories() != "Science Fiction,Dystopian" {
			t.Errorf("unexpected categories: %q", got.Categories())
		}
	})

	t.Run("Get Missing", func(t *testing.T) {
		repo := NewBookRepository(setupTestDB(t))

		if _, err := repo.Get("no-such-id"); !errors.Is(err, shared.ErrBookNotFound) {
			t.Errorf("expected ErrBookNotFound, got %v", err)
		}
	})

	t.Run("GetByRemoteID", func(t *testing.T) {
		repo := NewBookRepository(setupTestDB(t))
		if err := repo.Create(models.NewCachedBook(0, 42, sampleBook())); err != nil {
			t.Fatalf("failed to create book: %v", err)
		}

		got, err := repo.GetByRemoteID(42)
		if err != nil {
			t.Fatalf("failed to get book by remote ID: %v", err)
		}
		if got.Title() != "Parable of the Sower" {
			t.Errorf("unexpected book: %s", got.Title())
		}
	})

	t.Run("Duplicate Remote ID Rejected", func(t *testing.T) {
		repo := NewBookRepository(setupTestDB(t))
		if err := repo.Create(models.NewCachedBook(0, 42, sampleBook())); err != nil {
			t.Fatalf("failed to create book: %v", err)
		}

		if err := repo.Create(models.NewCachedBook(0, 42, sampleBook())); err == nil {
			t.Error("expected UNIQUE constraint violation")
		}
	})

	t.Run("Update", func(t *testing.T) {
		repo := NewBookRepository(setupTestDB(t))
		book := models.NewCachedBook(0, 42, sampleBook())
		if err := repo.Create(book); err != nil {
			t.Fatalf("failed to create book: %v", err)
		}

		book.SetProgress(345, 345)
		if err := repo.Update(book); err != nil {
			t.Fatalf("failed to update book: %v", err)
		}

		got, err := repo.Get(book.ID())
		if err != nil {
			t.Fatalf("failed to get book: %v", err)
		}
		if got.ProgressCurrent() != 345 {
			t.Errorf("expected updated progress, got %d", got.ProgressCurrent())
		}
	})

	t.Run("Soft Delete", func(t *testing.T) {
		repo := NewBookRepository(setupTestDB(t))
		book := models.NewCachedBook(0, 42, sampleBook())
		if err := repo.Create(book); err != nil {
			t.Fatalf("failed to create book: %v", err)
		}

		if err := repo.Delete(book.ID()); err != nil {
			t.Fatalf("failed to delete book: %v", err)
		}
		if _, err := repo.Get(book.ID()); !errors.Is(err, shared.ErrBookNotFound) {
			t.Errorf("expected deleted book to be invisible, got %v", err)
		}
		if err := repo.Delete(book.ID()); err == nil {
			t.Error("expected error deleting twice")
		}
	})

	t.Run("List With Criteria", func(t *testing.T) {
		repo := NewBookRepository(setupTestDB(t))

		other := sampleBook()
		other.ID = 43
		other.Title = "Kindred"
		other.Categories = []string{"Historical Fiction"}

		for _, b := range []models.Book{sampleBook(), other} {
			if err := repo.Create(models.NewCachedBook(0, b.ID, b)); err != nil {
				t.Fatalf("failed to create book: %v", err)
			}
		}

		all, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list books: %v", err)
		}
		if len(all) != 2 {
			t.Fatalf("expected 2 books, got %d", len(all))
		}

		byTitle, err := repo.List(map[string]any{"title": "Kindred"})
		if err != nil {
			t.Fatalf("failed to list by title: %v", err)
		}
		if len(byTitle) != 1 || byTitle[0].Title() != "Kindred" {
			t.Errorf("unexpected title filter result: %v", byTitle)
		}

		byCategory, err := repo.List(map[string]any{"category": "Dystopian"})
		if err != nil {
			t.Fatalf("failed to list by category: %v", err)
		}
		if len(byCategory) != 1 || byCategory[0].RemoteID() != 42 {
			t.Errorf("unexpected category filter result: %v", byCategory)
		}
	})
}

func TestBookCacheAdapter(t *testing.T) {
	t.Run("Caches New Book", func(t *testing.T) {
		repo := NewBookRepository(setupTestDB(t))
		adapter := NewBookCacheAdapter(repo)

		if err := adapter.CacheBook(sampleBook()); err != nil {
			t.Fatalf("failed to cache book: %v", err)
		}

		cached, err := adapter.Cached()
		if err != nil {
			t.Fatalf("failed to read cache: %v", err)
		}
		if len(cached) != 1 || cached[0].Title != "Parable of the Sower" {
			t.Errorf("unexpected cache contents: %+v", cached)
		}
	})

	t.Run("Refreshes Existing Book", func(t *testing.T) {
		repo := NewBookRepository(setupTestDB(t))
		adapter := NewBookCacheAdapter(repo)

		if err := adapter.CacheBook(sampleBook()); err != nil {
			t.Fatalf("failed to cache book: %v", err)
		}

		updated := sampleBook()
		updated.Progress = models.Progress{Current: 345, Total: 345}
		if err := adapter.CacheBook(updated); err != nil {
			t.Fatalf("failed to refresh book: %v", err)
		}

		cached, err := adapter.Cached()
		if err != nil {
			t.Fatalf("failed to read cache: %v", err)
		}
		if len(cached) != 1 {
			t.Fatalf("expected single row after refresh, got %d", len(cached))
		}
		if cached[0].Progress.Current != 345 {
			t.Errorf("expected refreshed progress, got %+v", cached[0].Progress)
		}
	})

	t.Run("Round Trips Through ToBook", func(t *testing.T) {
		repo := NewBookRepository(setupTestDB(t))
		adapter := NewBookCacheAdapter(repo)

		original := sampleBook()
		if err := adapter.CacheBook(original); err != nil {
			t.Fatalf("failed to cache book: %v", err)
		}

		cached, err := adapter.Cached()
		if err != nil {
			t.Fatalf("failed to read cache: %v", err)
		}

		got := cached[0]
		if got.ID != original.ID || got.Author != original.Author || got.Year != original.Year {
			t.Errorf("cache round trip lost fields: %+v", got)
		}
		if len(got.Categories) != 2 || got.Categories[1] != "Dystopian" {
			t.Errorf("cache round trip lost categories: %v", got.Categories)
		}
	})
}
