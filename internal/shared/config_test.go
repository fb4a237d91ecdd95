package shared

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Endpoints.Catalog != "http://localhost:3500/books" {
			t.Errorf("expected catalog endpoint http://localhost:3500/books, got %s", config.Endpoints.Catalog)
		}

		if config.Auth.Mode != "cookie" {
			t.Errorf("expected auth mode cookie, got %s", config.Auth.Mode)
		}

		if config.Catalog.WrappedResponse {
			t.Error("expected flat catalog responses by default")
		}

		if config.Search.DebounceMS != 500 {
			t.Errorf("expected 500ms debounce, got %d", config.Search.DebounceMS)
		}

		if config.Database.Path != "shelf.db" {
			t.Errorf("expected database path shelf.db, got %s", config.Database.Path)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[endpoints]
auth = "https://books.example.com/auth"
catalog = "https://books.example.com/catalog"
userlist = "https://books.example.com/mylist"

[auth]
mode = "token"
token = "abc123"

[catalog]
wrapped_response = true

[search]
debounce_ms = 250

[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Endpoints.Catalog != "https://books.example.com/catalog" {
			t.Errorf("expected custom catalog endpoint, got %s", config.Endpoints.Catalog)
		}

		if config.Auth.Mode != "token" || config.Auth.Token != "abc123" {
			t.Errorf("expected token auth, got mode %s token %s", config.Auth.Mode, config.Auth.Token)
		}

		if !config.Catalog.WrappedResponse {
			t.Error("expected wrapped_response to load as true")
		}

		if config.Search.DebounceMS != 250 {
			t.Errorf("expected 250ms debounce, got %d", config.Search.DebounceMS)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}
	})

	t.Run("LoadConfig with missing file", func(t *testing.T) {
		if _, err := LoadConfig("/nonexistent/config.toml"); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("SignalPath", func(t *testing.T) {
		config := DefaultConfig()
		config.Signal.Path = "/tmp/custom-signal"

		path, err := config.SignalPath()
		if err != nil {
			t.Fatalf("failed to resolve signal path: %v", err)
		}
		if path != "/tmp/custom-signal" {
			t.Errorf("expected configured path, got %s", path)
		}

		config.Signal.Path = ""
		path, err = config.SignalPath()
		if err != nil {
			t.Fatalf("failed to resolve default signal path: %v", err)
		}
		if !strings.Contains(path, ".shelf") {
			t.Errorf("expected default under ~/.shelf, got %s", path)
		}
	})

	t.Run("CookieJarPath", func(t *testing.T) {
		config := DefaultConfig()
		config.Auth.JarPath = "/tmp/jar.json"

		path, err := config.CookieJarPath()
		if err != nil {
			t.Fatalf("failed to resolve jar path: %v", err)
		}
		if path != "/tmp/jar.json" {
			t.Errorf("expected configured path, got %s", path)
		}

		config.Auth.JarPath = ""
		path, err = config.CookieJarPath()
		if err != nil {
			t.Fatalf("failed to resolve default jar path: %v", err)
		}
		if !strings.HasSuffix(path, "cookies.json") {
			t.Errorf("expected default cookies.json, got %s", path)
		}
	})
}
