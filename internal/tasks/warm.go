package tasks

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"github.com/softcover/shelf/internal/models"
)

// BookCacher stores catalog books in the local cache.
// Implemented by [repositories.BookCacheAdapter].
type BookCacher interface {
	CacheBook(book models.Book) error
}

// WarmOpts contains configuration for cache warming.
type WarmOpts struct {
	NumWorkers int     // Concurrent workers (default: 5, capped at 10)
	RateLimit  float64 // Catalog requests per second when refetching (default: 5)
}

// WarmResult summarizes a cache warming run.
type WarmResult struct {
	Total  int              // Books considered
	Cached int              // Books written to the cache
	Failed int              // Books that could not be cached
	Errors []EndpointResult // Per-book failures
}

// WarmCache writes a catalog listing into the local cache so list output
// and exports keep working offline.
//
// Uses a worker pool with rate limiting; failures are collected per book
// and never abort the run.
func (e *ShelfEngine) WarmCache(ctx context.Context, progress chan<- ProgressUpdate, cacher BookCacher, books []models.Book, opts WarmOpts) (*WarmResult, error) {
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan models.Book, len(books))
	failures := make(chan EndpointResult, len(books))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for book := range jobs {
				if err := limiter.Wait(ctx); err != nil {
					failures <- EndpointResult{Endpoint: book.Title, Error: err}
					continue
				}
				if err := cacher.CacheBook(book); err != nil {
					failures <- EndpointResult{Endpoint: book.Title, Error: err}
				}
			}
		}()
	}

	go func() {
		for i, book := range books {
			select {
			case <-ctx.Done():
				close(jobs)
				return
			default:
			}

			e.sendProgress(progress, warmingUpdate(i+1, len(books), book.Title))
			jobs <- book
		}
		close(jobs)
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(failures)
		close(done)
	}()
	<-done

	result := &WarmResult{Total: len(books)}
	for failure := range failures {
		result.Errors = append(result.Errors, failure)
	}
	result.Failed = len(result.Errors)
	result.Cached = result.Total - result.Failed

	return result, nil
}
