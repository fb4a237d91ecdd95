// Shared HTTP plumbing for the Softcover gateways
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"

	"github.com/softcover/shelf/internal/shared"
)

const defaultBaseURL string = "http://localhost:3500"

// originOf reduces an endpoint URL to its scheme and host, for the raw api
// commands that address arbitrary backend paths.
func originOf(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// Gateways bundles one service per backend area, all sharing a client.
type Gateways struct {
	Auth     *AuthService
	Catalog  *CatalogService
	List     *ListService
	Insights *InsightsService
	API      *APIService
}

// NewGateways builds all services from config using a shared HTTP client.
func NewGateways(config *shared.Config, client *http.Client) *Gateways {
	if client == nil {
		client = http.DefaultClient
	}

	return &Gateways{
		Auth:     NewAuthService(config.Endpoints.Auth, client),
		Catalog:  NewCatalogService(config.Endpoints.Catalog, client, config.Catalog.WrappedResponse),
		List:     NewListService(config.Endpoints.UserList, client),
		Insights: NewInsightsService(config.Endpoints.Activities, config.Endpoints.Goals, config.Endpoints.Stats, client),
		API:      NewAPIService(originOf(config.Endpoints.Catalog), client),
	}
}

// NewHTTPClient builds the shared client for the configured auth mode.
//
// Cookie mode attaches a [FileJar] so the backend's session cookie survives
// process restarts. Token mode wraps the transport with an oauth2 static
// token source so every request carries the bearer token.
func NewHTTPClient(ctx context.Context, config *shared.Config) (*http.Client, error) {
	switch config.Auth.Mode {
	case "", "cookie":
		jarPath, err := config.CookieJarPath()
		if err != nil {
			return nil, err
		}
		jar, err := NewFileJar(jarPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open cookie jar: %w", err)
		}
		return &http.Client{Jar: jar}, nil
	case "token":
		if config.Auth.Token == "" {
			return nil, fmt.Errorf("%w: auth.mode is \"token\" but auth.token is empty", shared.ErrInvalidConfig)
		}
		source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: config.Auth.Token})
		return oauth2.NewClient(ctx, source), nil
	default:
		return nil, fmt.Errorf("%w: unknown auth.mode %q", shared.ErrInvalidConfig, config.Auth.Mode)
	}
}

// doRequest performs one JSON request against a backend and applies the
// shared error contract. A nil result discards the response body after
// status checks.
func doRequest(ctx context.Context, client *http.Client, method, apiURL string, body, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		io.Copy(io.Discard, resp.Body)
		return shared.ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Message string `json:"message"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errResp); decodeErr == nil && errResp.Message != "" {
			return shared.NewStatusError(resp.StatusCode, errResp.Message)
		}
		return shared.NewStatusError(resp.StatusCode, "")
	}

	if result == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
	}

	return nil
}
