// Insights gateway for activities, goals, and stats
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/softcover/shelf/internal/models"
)

// InsightsService talks to the activity feed, reading goals, and aggregate
// stats endpoints. All three wrap their payloads in a {"data": ...} envelope.
type InsightsService struct {
	activitiesURL string
	goalsURL      string
	statsURL      string
	httpClient    *http.Client
}

// NewInsightsService creates a new insights service instance.
func NewInsightsService(activitiesURL, goalsURL, statsURL string, client *http.Client) *InsightsService {
	if activitiesURL == "" {
		activitiesURL = defaultBaseURL + "/activities"
	}
	if goalsURL == "" {
		goalsURL = defaultBaseURL + "/goals"
	}
	if statsURL == "" {
		statsURL = defaultBaseURL + "/stats"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &InsightsService{
		activitiesURL: activitiesURL,
		goalsURL:      goalsURL,
		statsURL:      statsURL,
		httpClient:    client,
	}
}

// Activities retrieves the most recent activity records, newest first.
// A non-positive limit returns the backend's default page.
func (i *InsightsService) Activities(ctx context.Context, limit int) ([]models.Activity, error) {
	apiURL := i.activitiesURL
	if limit > 0 {
		apiURL += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	}

	var envelope struct {
		Data []models.Activity `json:"data"`
	}
	if err := doRequest(ctx, i.httpClient, http.MethodGet, apiURL, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// AddActivity records a new activity event.
func (i *InsightsService) AddActivity(ctx context.Context, activity models.Activity) (*models.Activity, error) {
	var envelope struct {
		Data models.Activity `json:"data"`
	}
	if err := doRequest(ctx, i.httpClient, http.MethodPost, i.activitiesURL, activity, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// Goals retrieves all reading goals for the current user.
func (i *InsightsService) Goals(ctx context.Context) ([]models.Goal, error) {
	var envelope struct {
		Data []models.Goal `json:"data"`
	}
	if err := doRequest(ctx, i.httpClient, http.MethodGet, i.goalsURL, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// CreateGoal adds a new reading goal.
func (i *InsightsService) CreateGoal(ctx context.Context, goal models.Goal) (*models.Goal, error) {
	var envelope struct {
		Data models.Goal `json:"data"`
	}
	if err := doRequest(ctx, i.httpClient, http.MethodPost, i.goalsURL, goal, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// UpdateGoal replaces a reading goal.
func (i *InsightsService) UpdateGoal(ctx context.Context, goal models.Goal) (*models.Goal, error) {
	var envelope struct {
		Data models.Goal `json:"data"`
	}
	apiURL := fmt.Sprintf("%s/%d", i.goalsURL, goal.ID)
	if err := doRequest(ctx, i.httpClient, http.MethodPut, apiURL, goal, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// Stats retrieves aggregate reading statistics.
func (i *InsightsService) Stats(ctx context.Context) ([]models.Stat, error) {
	var envelope struct {
		Data []models.Stat `json:"data"`
	}
	if err := doRequest(ctx, i.httpClient, http.MethodGet, i.statsURL, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}
