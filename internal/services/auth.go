// Auth gateway for the Softcover account endpoints
package services

import (
	"context"
	"net/http"

	"github.com/softcover/shelf/internal/models"
)

// AuthService talks to the account endpoints: current-user lookup, login,
// registration, and logout.
type AuthService struct {
	baseURL    string
	httpClient *http.Client
}

// NewAuthService creates a new auth service instance.
func NewAuthService(baseURL string, client *http.Client) *AuthService {
	if baseURL == "" {
		baseURL = defaultBaseURL + "/auth"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &AuthService{
		baseURL:    baseURL,
		httpClient: client,
	}
}

// Me returns the account behind the current credentials.
// A 401 surfaces as [shared.ErrUnauthorized], which callers treat as "not
// logged in" rather than a failure.
func (a *AuthService) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := doRequest(ctx, a.httpClient, http.MethodGet, a.baseURL+"/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for a session.
//
// The backend sets a session cookie on success; some deployments also return
// a bearer token in the body. The token is returned when present so token
// mode can store it, but an empty token is not an error.
func (a *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	payload := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var result struct {
		Token string `json:"token"`
	}
	if err := doRequest(ctx, a.httpClient, http.MethodPost, a.baseURL+"/login", payload, &result); err != nil {
		return "", err
	}

	return result.Token, nil
}

// Register creates a new account. Registration does not log the account in;
// the caller must follow with Login.
func (a *AuthService) Register(ctx context.Context, reg models.Registration) error {
	return doRequest(ctx, a.httpClient, http.MethodPost, a.baseURL+"/register", reg, nil)
}

// Logout invalidates the session on the backend. Callers discard local
// credentials regardless of the outcome here.
func (a *AuthService) Logout(ctx context.Context) error {
	return doRequest(ctx, a.httpClient, http.MethodPost, a.baseURL+"/logout", nil, nil)
}
