package tasks

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce is used when a Searcher is built with no delay configured.
const DefaultDebounce = 500 * time.Millisecond

// SearchFunc executes one search against the backend.
type SearchFunc[T any] func(ctx context.Context, query string) (T, error)

// SearchResult carries the outcome of one executed search.
type SearchResult[T any] struct {
	Query string
	Data  T
	Err   error
}

// Searcher debounces a stream of queries and runs only the one the user
// settled on. Each keystroke resets the timer; a query fires only after
// the delay passes with no newer input.
//
// Completed searches for superseded queries are discarded via a generation
// counter, so a slow response to "a" can never overwrite the results for
// "abc". The newest result always wins on the Results channel.
type Searcher[T any] struct {
	mu         sync.Mutex
	search     SearchFunc[T]
	delay      time.Duration
	timer      *time.Timer
	generation uint64
	results    chan SearchResult[T]
}

// NewSearcher creates a Searcher around the given search function.
// A non-positive delay falls back to [DefaultDebounce].
func NewSearcher[T any](search SearchFunc[T], delay time.Duration) *Searcher[T] {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Searcher[T]{
		search:  search,
		delay:   delay,
		results: make(chan SearchResult[T], 1),
	}
}

// Results delivers completed, non-stale searches. The channel holds only
// the newest result; consumers that fall behind see the latest state, not
// a backlog.
func (s *Searcher[T]) Results() <-chan SearchResult[T] {
	return s.results
}

// Update registers a new query, resetting the debounce timer.
func (s *Searcher[T]) Update(ctx context.Context, query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	generation := s.generation

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() {
		s.run(ctx, generation, query)
	})
}

// Cancel drops any pending query without firing it.
func (s *Searcher[T]) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Searcher[T]) run(ctx context.Context, generation uint64, query string) {
	s.mu.Lock()
	stale := generation != s.generation
	s.mu.Unlock()
	if stale {
		return
	}

	data, err := s.search(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation {
		// A newer query fired while this one was in flight.
		return
	}

	result := SearchResult[T]{Query: query, Data: data, Err: err}
	for {
		select {
		case s.results <- result:
			return
		default:
			// Displace the unconsumed older result.
			select {
			case <-s.results:
			default:
			}
		}
	}
}
