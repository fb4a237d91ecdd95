// Catalog gateway with wire-shape normalization
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/softcover/shelf/internal/models"
	"github.com/softcover/shelf/internal/shared"
)

// authorField decodes an author that arrives either as a plain string or as
// a {firstName, lastName} object, flattening to one space-joined name.
type authorField string

func (a *authorField) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = authorField(s)
		return nil
	}

	var obj struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("author is neither string nor object: %s", data)
	}

	*a = authorField(strings.TrimSpace(obj.FirstName + " " + obj.LastName))
	return nil
}

// publisherField decodes a publisher as either a plain string or a {name}
// object.
type publisherField string

func (p *publisherField) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = publisherField(s)
		return nil
	}

	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("publisher is neither string nor object: %s", data)
	}

	*p = publisherField(obj.Name)
	return nil
}

// categoryField decodes a category as either a label string or a numeric
// code resolved through the fixed lookup table.
type categoryField string

func (c *categoryField) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = categoryField(s)
		return nil
	}

	var code int
	if err := json.Unmarshal(data, &code); err != nil {
		return fmt.Errorf("category is neither string nor number: %s", data)
	}

	*c = categoryField(models.CategoryFromCode(code))
	return nil
}

// wireBook is the catalog record as the backend sends it. Several fields
// have two possible names; normalization prefers the newer one.
type wireBook struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Year        int             `json:"year"`
	PageCount   int             `json:"pageCount"`
	CurrentPage int             `json:"currentPage"`
	CoverURL    string          `json:"coverUrl"`
	Image       string          `json:"image"`
	ISBN        string          `json:"isbn"`
	Blurp       string          `json:"blurp"`
	Description string          `json:"description"`
	Score       float64         `json:"score"`
	Author      authorField     `json:"author"`
	Publisher   publisherField  `json:"publisher"`
	Category    *categoryField  `json:"category"`
	Categories  []categoryField `json:"categories"`
	Progress    *struct {
		Current int `json:"current"`
		Total   int `json:"total"`
	} `json:"progress"`
}

// CatalogService talks to the shared book catalog.
type CatalogService struct {
	baseURL    string
	httpClient *http.Client
	wrapped    bool
	logger     *log.Logger
}

// NewCatalogService creates a new catalog service instance.
//
// wrapped selects the listing contract: false expects a flat array, true
// expects records under a "data" key.
func NewCatalogService(baseURL string, client *http.Client, wrapped bool) *CatalogService {
	if baseURL == "" {
		baseURL = defaultBaseURL + "/books"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &CatalogService{
		baseURL:    baseURL,
		httpClient: client,
		wrapped:    wrapped,
		logger:     shared.NewLogger(nil),
	}
}

// SetLogger replaces the service logger.
func (c *CatalogService) SetLogger(logger *log.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// normalize folds a wire record into a [models.Book]. Impossible progress
// (current past total) is clamped and logged as a data-quality warning.
func (c *CatalogService) normalize(w wireBook) models.Book {
	book := models.Book{
		ID:          w.ID,
		Title:       w.Title,
		Author:      string(w.Author),
		Publisher:   string(w.Publisher),
		Year:        w.Year,
		ISBN:        w.ISBN,
		Score:       w.Score,
		CoverURL:    w.CoverURL,
		Description: w.Description,
	}

	if book.CoverURL == "" {
		book.CoverURL = w.Image
	}
	if book.Description == "" {
		book.Description = w.Blurp
	}

	for _, cat := range w.Categories {
		book.Categories = append(book.Categories, string(cat))
	}
	if len(book.Categories) == 0 && w.Category != nil {
		book.Categories = []string{string(*w.Category)}
	}

	if w.Progress != nil {
		book.Progress = models.Progress{Current: w.Progress.Current, Total: w.Progress.Total}
	} else {
		book.Progress = models.Progress{Current: w.CurrentPage, Total: w.PageCount}
	}

	clamped, changed := book.Progress.Clamped()
	if changed {
		c.logger.Warn("clamped impossible reading progress",
			"book_id", book.ID, "current", book.Progress.Current, "total", book.Progress.Total)
	}
	book.Progress = clamped

	return book
}

// ListParams filters a catalog listing. Zero values are omitted from the
// query string.
type ListParams struct {
	Search   string
	Status   string
	Category string
	Page     int
	Limit    int
}

func (p ListParams) encode() string {
	values := url.Values{}
	if p.Search != "" {
		values.Set("search", p.Search)
	}
	if p.Status != "" {
		values.Set("status", p.Status)
	}
	if p.Category != "" {
		values.Set("category", p.Category)
	}
	if p.Page > 0 {
		values.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		values.Set("limit", strconv.Itoa(p.Limit))
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

// List retrieves catalog records matching params, normalized to [models.Book].
func (c *CatalogService) List(ctx context.Context, params ListParams) ([]models.Book, error) {
	apiURL := c.baseURL + params.encode()

	var records []wireBook
	if c.wrapped {
		var envelope struct {
			Data []wireBook `json:"data"`
		}
		if err := doRequest(ctx, c.httpClient, http.MethodGet, apiURL, nil, &envelope); err != nil {
			return nil, err
		}
		records = envelope.Data
	} else {
		if err := doRequest(ctx, c.httpClient, http.MethodGet, apiURL, nil, &records); err != nil {
			return nil, err
		}
	}

	books := make([]models.Book, 0, len(records))
	for _, record := range records {
		books = append(books, c.normalize(record))
	}

	return books, nil
}

// Get retrieves a single catalog record by ID.
func (c *CatalogService) Get(ctx context.Context, id int) (*models.Book, error) {
	var record wireBook
	if err := doRequest(ctx, c.httpClient, http.MethodGet, fmt.Sprintf("%s/%d", c.baseURL, id), nil, &record); err != nil {
		return nil, err
	}

	book := c.normalize(record)
	return &book, nil
}

// Create adds a new catalog record and returns the stored book.
func (c *CatalogService) Create(ctx context.Context, book models.Book) (*models.Book, error) {
	var record wireBook
	if err := doRequest(ctx, c.httpClient, http.MethodPost, c.baseURL, book, &record); err != nil {
		return nil, err
	}

	created := c.normalize(record)
	return &created, nil
}

// Update replaces a catalog record and returns the stored book.
func (c *CatalogService) Update(ctx context.Context, id int, book models.Book) (*models.Book, error) {
	var record wireBook
	if err := doRequest(ctx, c.httpClient, http.MethodPut, fmt.Sprintf("%s/%d", c.baseURL, id), book, &record); err != nil {
		return nil, err
	}

	updated := c.normalize(record)
	return &updated, nil
}

// Delete removes a catalog record.
func (c *CatalogService) Delete(ctx context.Context, id int) error {
	return doRequest(ctx, c.httpClient, http.MethodDelete, fmt.Sprintf("%s/%d", c.baseURL, id), nil, nil)
}

// UpdateProgress records a new reading position and returns the updated
// book. Progress past the page count is clamped before sending.
func (c *CatalogService) UpdateProgress(ctx context.Context, id int, progress models.Progress) (*models.Book, error) {
	clamped, changed := progress.Clamped()
	if changed {
		c.logger.Warn("clamped impossible reading progress before update",
			"book_id", id, "current", progress.Current, "total", progress.Total)
	}

	var record wireBook
	apiURL := fmt.Sprintf("%s/%d/progress", c.baseURL, id)
	if err := doRequest(ctx, c.httpClient, http.MethodPut, apiURL, clamped, &record); err != nil {
		return nil, err
	}

	updated := c.normalize(record)
	return &updated, nil
}

// Categories returns the fixed category table keyed by backend code.
func (c *CatalogService) Categories() map[int]string {
	return models.CategoryLabels()
}
