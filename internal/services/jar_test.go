package services

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileJar(t *testing.T) {
	backend := &url.URL{Scheme: "http", Host: "localhost:3500"}

	t.Run("Persists Across Instances", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cookies.json")

		jar, err := NewFileJar(path)
		if err != nil {
			t.Fatalf("failed to create jar: %v", err)
		}
		jar.SetCookies(backend, []*http.Cookie{{Name: "session", Value: "abc123"}})

		reopened, err := NewFileJar(path)
		if err != nil {
			t.Fatalf("failed to reopen jar: %v", err)
		}

		cookies := reopened.Cookies(backend)
		if len(cookies) != 1 || cookies[0].Value != "abc123" {
			t.Errorf("expected persisted session cookie, got %v", cookies)
		}
	})

	t.Run("Replaces Cookie With Same Name", func(t *testing.T) {
		jar, _ := NewFileJar(filepath.Join(t.TempDir(), "cookies.json"))
		jar.SetCookies(backend, []*http.Cookie{{Name: "session", Value: "old"}})
		jar.SetCookies(backend, []*http.Cookie{{Name: "session", Value: "new"}})

		cookies := jar.Cookies(backend)
		if len(cookies) != 1 || cookies[0].Value != "new" {
			t.Errorf("expected single replaced cookie, got %v", cookies)
		}
	})

	t.Run("Drops Expired Cookies", func(t *testing.T) {
		jar, _ := NewFileJar(filepath.Join(t.TempDir(), "cookies.json"))
		jar.SetCookies(backend, []*http.Cookie{
			{Name: "stale", Value: "x", Expires: time.Now().Add(-time.Hour)},
			{Name: "session", Value: "y", Expires: time.Now().Add(time.Hour)},
		})

		cookies := jar.Cookies(backend)
		if len(cookies) != 1 || cookies[0].Name != "session" {
			t.Errorf("expected only unexpired cookie, got %v", cookies)
		}
	})

	t.Run("MaxAge Zero Deletes", func(t *testing.T) {
		jar, _ := NewFileJar(filepath.Join(t.TempDir(), "cookies.json"))
		jar.SetCookies(backend, []*http.Cookie{{Name: "session", Value: "x"}})
		jar.SetCookies(backend, []*http.Cookie{{Name: "session", Value: "", MaxAge: -1}})

		if cookies := jar.Cookies(backend); len(cookies) != 0 {
			t.Errorf("expected cookie removed, got %v", cookies)
		}
	})

	t.Run("Hosts Are Isolated", func(t *testing.T) {
		jar, _ := NewFileJar(filepath.Join(t.TempDir(), "cookies.json"))
		jar.SetCookies(backend, []*http.Cookie{{Name: "session", Value: "x"}})

		other := &url.URL{Scheme: "http", Host: "other.example.com"}
		if cookies := jar.Cookies(other); len(cookies) != 0 {
			t.Errorf("expected no cookies for other host, got %v", cookies)
		}
	})

	t.Run("Clear Empties Jar And File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cookies.json")
		jar, _ := NewFileJar(path)
		jar.SetCookies(backend, []*http.Cookie{{Name: "session", Value: "x"}})
		jar.Clear()

		if cookies := jar.Cookies(backend); len(cookies) != 0 {
			t.Errorf("expected empty jar, got %v", cookies)
		}

		reopened, _ := NewFileJar(path)
		if cookies := reopened.Cookies(backend); len(cookies) != 0 {
			t.Errorf("expected cleared jar on disk, got %v", cookies)
		}
	})

	t.Run("Corrupt File Starts Fresh", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cookies.json")
		if err := os.WriteFile(path, []byte("not json"), 0600); err != nil {
			t.Fatalf("failed to write corrupt jar: %v", err)
		}

		jar, err := NewFileJar(path)
		if err != nil {
			t.Fatalf("expected corrupt jar to be tolerated, got %v", err)
		}
		if cookies := jar.Cookies(backend); len(cookies) != 0 {
			t.Errorf("expected empty jar, got %v", cookies)
		}
	})
}
