// File-backed cookie jar shared across shelf processes
package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// jarEntry is the serialized form of one cookie.
type jarEntry struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HTTPOnly bool      `json:"http_only,omitempty"`
}

// FileJar is an [http.CookieJar] persisted as JSON so the backend's session
// cookie survives process restarts and is shared between concurrent shelf
// processes. Cookies are keyed by host only; the client talks to a handful
// of endpoints on one backend, so path matching is not implemented.
type FileJar struct {
	mu      sync.Mutex
	path    string
	entries map[string][]jarEntry
}

// NewFileJar opens or creates a jar at path.
func NewFileJar(path string) (*FileJar, error) {
	jar := &FileJar{
		path:    path,
		entries: make(map[string][]jarEntry),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return jar, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cookie jar: %w", err)
	}

	if err := json.Unmarshal(data, &jar.entries); err != nil {
		// A corrupt jar means logging in again, not a broken client.
		jar.entries = make(map[string][]jarEntry)
	}

	return jar, nil
}

// SetCookies stores the response cookies for the URL's host and persists
// the jar. Cookies with the same name are replaced; expired or max-age=0
// cookies are dropped.
func (j *FileJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	host := u.Hostname()
	existing := j.entries[host]

	for _, cookie := range cookies {
		kept := existing[:0:0]
		for _, entry := range existing {
			if entry.Name != cookie.Name {
				kept = append(kept, entry)
			}
		}
		existing = kept

		if cookie.MaxAge < 0 || (!cookie.Expires.IsZero() && cookie.Expires.Before(time.Now())) {
			continue
		}

		entry := jarEntry{
			Name:     cookie.Name,
			Value:    cookie.Value,
			Path:     cookie.Path,
			Secure:   cookie.Secure,
			HTTPOnly: cookie.HttpOnly,
		}
		if cookie.MaxAge > 0 {
			entry.Expires = time.Now().Add(time.Duration(cookie.MaxAge) * time.Second)
		} else if !cookie.Expires.IsZero() {
			entry.Expires = cookie.Expires
		}
		existing = append(existing, entry)
	}

	j.entries[host] = existing
	j.save()
}

// Cookies returns the unexpired cookies stored for the URL's host.
func (j *FileJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()

	var cookies []*http.Cookie
	for _, entry := range j.entries[u.Hostname()] {
		if !entry.Expires.IsZero() && entry.Expires.Before(time.Now()) {
			continue
		}
		cookies = append(cookies, &http.Cookie{Name: entry.Name, Value: entry.Value})
	}

	return cookies
}

// Seed stores cookies for a host directly, used when importing a session
// captured from a browser.
func (j *FileJar) Seed(host string, cookies []*http.Cookie) {
	j.SetCookies(&url.URL{Scheme: "http", Host: host}, cookies)
}

// Clear drops all cookies and persists the empty jar.
func (j *FileJar) Clear() {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.entries = make(map[string][]jarEntry)
	j.save()
}

// save writes the jar to disk. Must be called with the lock held.
func (j *FileJar) save() {
	data, err := json.MarshalIndent(j.entries, "", "  ")
	if err != nil {
		return
	}

	if dir := filepath.Dir(j.path); dir != "." {
		os.MkdirAll(dir, 0755)
	}
	os.WriteFile(j.path, data, 0600)
}
