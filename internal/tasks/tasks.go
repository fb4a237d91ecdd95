// package tasks implements multi-endpoint operations over the Softcover gateways.
//
// The core abstraction is ShelfEngine, which orchestrates the client-side
// my-list join, full data dumps, and local cache warming.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"sort"

	"github.com/softcover/shelf/internal/models"
	"github.com/softcover/shelf/internal/services"
)

// CatalogAPI is the slice of the catalog gateway the engine needs.
// Implemented by [services.CatalogService].
type CatalogAPI interface {
	List(ctx context.Context, params services.ListParams) ([]models.Book, error)
	Get(ctx context.Context, id int) (*models.Book, error)
}

// ListAPI is the slice of the userlist gateway the engine needs.
// Implemented by [services.ListService].
type ListAPI interface {
	Entries(ctx context.Context, userID int) ([]models.ListEntry, error)
}

// InsightsAPI is the slice of the insights gateway the engine needs.
// Implemented by [services.InsightsService].
type InsightsAPI interface {
	Activities(ctx context.Context, limit int) ([]models.Activity, error)
	Goals(ctx context.Context) ([]models.Goal, error)
	Stats(ctx context.Context) ([]models.Stat, error)
}

// MyListResult contains the joined view of a user's shelf.
type MyListResult struct {
	Items   []models.ShelfItem // List entries joined with their catalog books
	Dropped int                // Entries whose book no longer exists in the catalog
}

// EndpointResult represents the result of fetching data from a single backend area.
type EndpointResult struct {
	Endpoint string
	Error    error
}

// DumpResult contains all data fetched from the backend for one user.
type DumpResult struct {
	Books      []models.Book      // Full catalog
	Entries    []models.ListEntry // The user's list entries
	Activities []models.Activity  // Recent activity feed
	Goals      []models.Goal      // Reading goals
	Stats      []models.Stat      // Aggregate statistics
	Errors     []EndpointResult   // Failed endpoint fetches
}

// ShelfEngine orchestrates operations spanning several gateways.
type ShelfEngine struct {
	catalog  CatalogAPI
	list     ListAPI
	insights InsightsAPI
}

// NewShelfEngine creates a new ShelfEngine with the provided gateways.
func NewShelfEngine(catalog CatalogAPI, list ListAPI, insights InsightsAPI) *ShelfEngine {
	return &ShelfEngine{
		catalog:  catalog,
		list:     list,
		insights: insights,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ShelfEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// MyList builds the joined shelf view for a user.
//
// The backend has no pre-joined endpoint, so the engine fetches the user's
// entries and the catalog separately and joins them by book ID. Entries
// pointing at books that no longer exist are dropped and counted rather
// than surfaced as broken rows.
func (e *ShelfEngine) MyList(ctx context.Context, progress chan<- ProgressUpdate, userID int) (*MyListResult, error) {
	e.sendProgress(progress, fetchingEntriesUpdate(userID))
	entries, err := e.list.Entries(ctx, userID)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, fetchingCatalogUpdate())
	books, err := e.catalog.List(ctx, services.ListParams{})
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, joiningUpdate(len(entries)))

	byID := make(map[int]models.Book, len(books))
	for _, book := range books {
		byID[book.ID] = book
	}

	result := &MyListResult{Items: make([]models.ShelfItem, 0, len(entries))}
	for _, entry := range entries {
		book, ok := byID[entry.BookID]
		if !ok {
			result.Dropped++
			continue
		}
		result.Items = append(result.Items, models.ShelfItem{Book: book, Entry: entry})
	}

	sort.SliceStable(result.Items, func(i, j int) bool {
		return result.Items[i].Book.Title < result.Items[j].Book.Title
	})

	return result, nil
}

// Dump fetches everything the backend knows about a user.
//
// Each area is fetched independently; a failing endpoint is recorded in
// Errors and the dump continues, so partial backends still produce output.
func (e *ShelfEngine) Dump(ctx context.Context, progress chan<- ProgressUpdate, userID int) (*DumpResult, error) {
	result := &DumpResult{}
	total := 5

	e.sendProgress(progress, dumpUpdate(FetchCatalog, 1, total, "catalog"))
	if books, err := e.catalog.List(ctx, services.ListParams{}); err != nil {
		result.Errors = append(result.Errors, EndpointResult{Endpoint: "catalog", Error: err})
	} else {
		result.Books = books
	}

	e.sendProgress(progress, dumpUpdate(FetchEntries, 2, total, "list entries"))
	if entries, err := e.list.Entries(ctx, userID); err != nil {
		result.Errors = append(result.Errors, EndpointResult{Endpoint: "userlist", Error: err})
	} else {
		result.Entries = entries
	}

	e.sendProgress(progress, dumpUpdate(FetchActivities, 3, total, "activities"))
	if activities, err := e.insights.Activities(ctx, 0); err != nil {
		result.Errors = append(result.Errors, EndpointResult{Endpoint: "activities", Error: err})
	} else {
		result.Activities = activities
	}

	e.sendProgress(progress, dumpUpdate(FetchGoals, 4, total, "goals"))
	if goals, err := e.insights.Goals(ctx); err != nil {
		result.Errors = append(result.Errors, EndpointResult{Endpoint: "goals", Error: err})
	} else {
		result.Goals = goals
	}

	e.sendProgress(progress, dumpUpdate(FetchStats, 5, total, "stats"))
	if stats, err := e.insights.Stats(ctx); err != nil {
		result.Errors = append(result.Errors, EndpointResult{Endpoint: "stats", Error: err})
	} else {
		result.Stats = stats
	}

	return result, nil
}
