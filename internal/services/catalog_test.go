package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/softcover/shelf/internal/models"
)

const catalogRecord = `{
	"id": 12,
	"title": "The Left Hand of Darkness",
	"year": 1969,
	"pageCount": 304,
	"currentPage": 40,
	"coverUrl": "https://covers.example.com/12.jpg",
	"isbn": "9780441478125",
	"blurp": "A lone envoy on a winter planet.",
	"category": 5,
	"author": {"firstName": "Ursula", "lastName": "Le Guin"},
	"publisher": {"name": "Ace Books"}
}`

func TestCatalogNormalization(t *testing.T) {
	ctx := context.Background()

	newServer := func(t *testing.T, body string) (*httptest.Server, *CatalogService) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, body)
		}))
		t.Cleanup(server.Close)
		return server, NewCatalogService(server.URL, server.Client(), false)
	}

	t.Run("Flattens Nested Author And Publisher", func(t *testing.T) {
		_, srv := newServer(t, catalogRecord)

		book, err := srv.Get(ctx, 12)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if book.Author != "Ursula Le Guin" {
			t.Errorf("expected flattened author, got %q", book.Author)
		}
		if book.Publisher != "Ace Books" {
			t.Errorf("expected publisher name, got %q", book.Publisher)
		}
		if book.Description != "A lone envoy on a winter planet." {
			t.Errorf("expected blurp as description, got %q", book.Description)
		}
		if book.Year != 1969 {
			t.Errorf("expected year 1969, got %d", book.Year)
		}
		if book.Progress.Current != 40 || book.Progress.Total != 304 {
			t.Errorf("expected progress from page fields, got %+v", book.Progress)
		}
	})

	t.Run("Maps Numeric Category To Label", func(t *testing.T) {
		_, srv := newServer(t, `{"id": 1, "title": "x", "category": 3}`)

		book, err := srv.Get(ctx, 1)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(book.Categories) != 1 || book.Categories[0] != "Fantasy" {
			t.Errorf("expected [Fantasy], got %v", book.Categories)
		}
	})

	t.Run("Accepts String Author And Category", func(t *testing.T) {
		_, srv := newServer(t, `{"id": 1, "title": "x", "author": "Octavia Butler", "categories": ["Science Fiction", 8]}`)

		book, err := srv.Get(ctx, 1)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if book.Author != "Octavia Butler" {
			t.Errorf("expected plain author, got %q", book.Author)
		}
		if len(book.Categories) != 2 || book.Categories[1] != "Horror" {
			t.Errorf("expected mixed categories resolved, got %v", book.Categories)
		}
	})

	t.Run("Clamps Impossible Progress", func(t *testing.T) {
		_, srv := newServer(t, `{"id": 1, "title": "x", "progress": {"current": 150, "total": 100}}`)

		book, err := srv.Get(ctx, 1)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if book.Progress.Current != 100 || book.Progress.Total != 100 {
			t.Errorf("expected clamped progress, got %+v", book.Progress)
		}
	})

	t.Run("Valid Progress Survives Unchanged", func(t *testing.T) {
		_, srv := newServer(t, `{"id": 1, "title": "x", "progress": {"current": 50, "total": 100}}`)

		book, err := srv.Get(ctx, 1)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if book.Progress.Current != 50 || book.Progress.Total != 100 {
			t.Errorf("expected progress unchanged, got %+v", book.Progress)
		}
	})

	t.Run("Falls Back To Image Field", func(t *testing.T) {
		_, srv := newServer(t, `{"id": 1, "title": "x", "image": "https://covers.example.com/alt.jpg"}`)

		book, err := srv.Get(ctx, 1)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if book.CoverURL != "https://covers.example.com/alt.jpg" {
			t.Errorf("expected image fallback, got %q", book.CoverURL)
		}
	})
}

func TestCatalogService(t *testing.T) {
	ctx := context.Background()

	t.Run("List", func(t *testing.T) {
		t.Run("Flat Array Contract", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/" {
					t.Errorf("expected /, got %s", r.URL.Path)
				}
				io.WriteString(w, "["+catalogRecord+"]")
			}))
			defer server.Close()

			srv := NewCatalogService(server.URL, server.Client(), false)
			books, err := srv.List(ctx, ListParams{})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(books) != 1 || books[0].Title != "The Left Hand of Darkness" {
				t.Errorf("unexpected books: %+v", books)
			}
		})

		t.Run("Wrapped Contract", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `{"data": [`+catalogRecord+`]}`)
			}))
			defer server.Close()

			srv := NewCatalogService(server.URL, server.Client(), true)
			books, err := srv.List(ctx, ListParams{})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(books) != 1 {
				t.Errorf("expected 1 book, got %d", len(books))
			}
		})

		t.Run("Encodes Filter Params", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				query := r.URL.Query()
				if query.Get("search") != "winter" {
					t.Errorf("expected search param, got %q", query.Get("search"))
				}
				if query.Get("limit") != "20" {
					t.Errorf("expected limit param, got %q", query.Get("limit"))
				}
				io.WriteString(w, "[]")
			}))
			defer server.Close()

			srv := NewCatalogService(server.URL, server.Client(), false)
			if _, err := srv.List(ctx, ListParams{Search: "winter", Limit: 20}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	})

	t.Run("UpdateProgress", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut {
				t.Errorf("expected PUT, got %s", r.Method)
			}
			if r.URL.Path != "/12/progress" {
				t.Errorf("expected /12/progress, got %s", r.URL.Path)
			}

			var progress models.Progress
			if err := json.NewDecoder(r.Body).Decode(&progress); err != nil {
				t.Fatalf("failed to decode progress: %v", err)
			}
			if progress.Current != 100 || progress.Total != 100 {
				t.Errorf("expected clamped progress on the wire, got %+v", progress)
			}

			io.WriteString(w, `{"id": 12, "title": "x", "progress": {"current": 100, "total": 100}}`)
		}))
		defer server.Close()

		srv := NewCatalogService(server.URL, server.Client(), false)
		book, err := srv.UpdateProgress(ctx, 12, models.Progress{Current: 150, Total: 100})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if book.Progress.Current != 100 {
			t.Errorf("expected updated progress, got %+v", book.Progress)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete || r.URL.Path != "/12" {
				t.Errorf("expected DELETE /12, got %s %s", r.Method, r.URL.Path)
			}
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		srv := NewCatalogService(server.URL, server.Client(), false)
		if err := srv.Delete(ctx, 12); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("Categories Table", func(t *testing.T) {
		srv := NewCatalogService("", nil, false)
		table := srv.Categories()
		if table[3] != "Fantasy" || table[1] != "Romance" || table[12] != "Dystopian" {
			t.Errorf("unexpected category table: %v", table)
		}
	})
}
