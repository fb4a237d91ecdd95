// Userlist gateway for per-user shelf entries
package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/softcover/shelf/internal/models"
)

// ListService talks to the userlist endpoints. Entries reference catalog
// books by ID; joining entries to books happens client-side.
type ListService struct {
	baseURL    string
	httpClient *http.Client
}

// NewListService creates a new userlist service instance.
func NewListService(baseURL string, client *http.Client) *ListService {
	if baseURL == "" {
		baseURL = defaultBaseURL + "/mylist"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &ListService{
		baseURL:    baseURL,
		httpClient: client,
	}
}

// Entries retrieves all list entries for a user.
func (l *ListService) Entries(ctx context.Context, userID int) ([]models.ListEntry, error) {
	var entries []models.ListEntry
	apiURL := fmt.Sprintf("%s/%d", l.baseURL, userID)
	if err := doRequest(ctx, l.httpClient, http.MethodGet, apiURL, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Add creates a new list entry and returns the stored record.
func (l *ListService) Add(ctx context.Context, entry models.ListEntry) (*models.ListEntry, error) {
	var created models.ListEntry
	if err := doRequest(ctx, l.httpClient, http.MethodPost, l.baseURL, entry, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update replaces a list entry and returns the stored record.
func (l *ListService) Update(ctx context.Context, entry models.ListEntry) (*models.ListEntry, error) {
	var updated models.ListEntry
	apiURL := fmt.Sprintf("%s/%d", l.baseURL, entry.ID)
	if err := doRequest(ctx, l.httpClient, http.MethodPut, apiURL, entry, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Remove deletes a list entry by ID.
func (l *ListService) Remove(ctx context.Context, entryID int) error {
	apiURL := fmt.Sprintf("%s/%d", l.baseURL, entryID)
	return doRequest(ctx, l.httpClient, http.MethodDelete, apiURL, nil, nil)
}
