package tasks

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/softcover/shelf/internal/models"
)

type fakeCacher struct {
	mu     sync.Mutex
	cached []string
	fail   map[string]error
}

func (f *fakeCacher) CacheBook(book models.Book) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.fail[book.Title]; ok {
		return err
	}
	f.cached = append(f.cached, book.Title)
	return nil
}

func TestWarmCache(t *testing.T) {
	ctx := context.Background()
	engine := NewShelfEngine(&fakeCatalog{}, &fakeList{}, &fakeInsights{})

	books := []models.Book{
		{ID: 1, Title: "Kindred"},
		{ID: 2, Title: "Parable of the Sower"},
		{ID: 3, Title: "Annihilation"},
	}

	t.Run("Caches All Books", func(t *testing.T) {
		cacher := &fakeCacher{}

		result, err := engine.WarmCache(ctx, nil, cacher, books, WarmOpts{RateLimit: 1000})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Total != 3 || result.Cached != 3 || result.Failed != 0 {
			t.Errorf("unexpected result: %+v", result)
		}

		cacher.mu.Lock()
		defer cacher.mu.Unlock()
		if len(cacher.cached) != 3 {
			t.Errorf("expected 3 cached books, got %v", cacher.cached)
		}
	})

	t.Run("Collects Per-Book Failures", func(t *testing.T) {
		cacher := &fakeCacher{fail: map[string]error{"Annihilation": errors.New("disk full")}}

		result, err := engine.WarmCache(ctx, nil, cacher, books, WarmOpts{RateLimit: 1000})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Cached != 2 || result.Failed != 1 {
			t.Errorf("unexpected result: %+v", result)
		}
		if len(result.Errors) != 1 || result.Errors[0].Endpoint != "Annihilation" {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("Empty Input", func(t *testing.T) {
		result, err := engine.WarmCache(ctx, nil, &fakeCacher{}, nil, WarmOpts{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Total != 0 || result.Cached != 0 {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("Caps Worker Count", func(t *testing.T) {
		cacher := &fakeCacher{}

		result, err := engine.WarmCache(ctx, nil, cacher, books, WarmOpts{NumWorkers: 50, RateLimit: 1000})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Cached != 3 {
			t.Errorf("expected all cached, got %+v", result)
		}
	})
}
