package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Endpoints EndpointsConfig `toml:"endpoints"`
	Auth      AuthConfig      `toml:"auth"`
	Catalog   CatalogConfig   `toml:"catalog"`
	Signal    SignalConfig    `toml:"signal"`
	Search    SearchConfig    `toml:"search"`
	Database  DatabaseConfig  `toml:"database"`
	Web       WebConfig       `toml:"web"`
}

// EndpointsConfig contains the base URL of each backend service.
type EndpointsConfig struct {
	Auth       string `toml:"auth"`
	Catalog    string `toml:"catalog"`
	UserList   string `toml:"userlist"`
	Activities string `toml:"activities"`
	Goals      string `toml:"goals"`
	Stats      string `toml:"stats"`
}

// AuthConfig controls how requests carry credentials.
type AuthConfig struct {
	Mode    string `toml:"mode"` // "cookie" or "token"
	Token   string `toml:"token"`
	JarPath string `toml:"jar_path"`
}

// CatalogConfig contains catalog-specific contract switches.
type CatalogConfig struct {
	WrappedResponse bool `toml:"wrapped_response"`
}

// SignalConfig locates the cross-process session signal file.
type SignalConfig struct {
	Path string `toml:"path"`
}

// SearchConfig contains search input settings.
type SearchConfig struct {
	DebounceMS int `toml:"debounce_ms"`
}

// DatabaseConfig contains local cache database settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// WebConfig locates the companion web application.
type WebConfig struct {
	BaseURL string `toml:"base_url"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// StateDir returns the per-user state directory (~/.shelf), creating it if needed.
func StateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	dir := filepath.Join(home, ".shelf")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create state directory: %w", err)
	}
	return dir, nil
}

// SignalPath resolves the session signal file path, falling back to the state directory.
func (c *Config) SignalPath() (string, error) {
	if c.Signal.Path != "" {
		return c.Signal.Path, nil
	}
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "session-signal"), nil
}

// CookieJarPath resolves the persistent cookie jar path, falling back to the state directory.
func (c *Config) CookieJarPath() (string, error) {
	if c.Auth.JarPath != "" {
		return c.Auth.JarPath, nil
	}
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cookies.json"), nil
}
