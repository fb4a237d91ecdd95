package repositories

import (
	"fmt"
	"strings"

	"github.com/softcover/shelf/internal/models"
)

// BookCacheAdapter implements tasks.BookCacher using BookRepository.
//
// Provides automatic book caching with deduplication via the remote_id
// constraint. Re-fetched books update the existing row; duplicate inserts
// racing each other are silently ignored (UNIQUE constraint violations).
type BookCacheAdapter struct {
	repo *BookRepository
}

// NewBookCacheAdapter creates a new BookCacheAdapter with the given repository
func NewBookCacheAdapter(repo *BookRepository) *BookCacheAdapter {
	return &BookCacheAdapter{repo: repo}
}

// CacheBook stores a catalog book locally.
// An already-cached book has its row refreshed with the latest fetch.
// Only returns errors for actual failures (not constraint violations).
func (a *BookCacheAdapter) CacheBook(book models.Book) error {
	existing, err := a.repo.GetByRemoteID(book.ID)
	if err == nil && existing != nil {
		return a.refresh(existing, book)
	}

	cached := models.NewCachedBook(0, book.ID, book)

	if err := a.repo.Create(cached); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil
		}
		return fmt.Errorf("failed to cache book: %w", err)
	}

	return nil
}

// Cached returns the locally stored catalog, newest row last.
func (a *BookCacheAdapter) Cached() ([]models.Book, error) {
	rows, err := a.repo.List(nil)
	if err != nil {
		return nil, err
	}

	books := make([]models.Book, 0, len(rows))
	for _, row := range rows {
		books = append(books, row.ToBook())
	}
	return books, nil
}

func (a *BookCacheAdapter) refresh(existing *models.CachedBook, book models.Book) error {
	fresh := models.NewCachedBook(existing.Sequence(), book.ID, book)
	fresh.SetID(existing.ID())
	fresh.SetCreatedAt(existing.CreatedAt())

	if err := a.repo.Update(fresh); err != nil {
		return fmt.Errorf("failed to refresh cached book: %w", err)
	}
	return nil
}
