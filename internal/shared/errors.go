package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Session errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrLoginFailed      = fmt.Errorf("login failed")
	ErrLogoutFailed     = fmt.Errorf("logout failed")
	ErrRegisterFailed   = fmt.Errorf("registration failed")

	// Gateway errors
	ErrNetwork           = fmt.Errorf("request could not complete")
	ErrUnauthorized      = fmt.Errorf("unauthorized, please log in again")
	ErrMalformedResponse = fmt.Errorf("malformed response")
	ErrAPIRequest        = fmt.Errorf("API request failed")
	ErrBookNotFound      = fmt.Errorf("book not found")
	ErrEntryNotFound     = fmt.Errorf("list entry not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)

// StatusError is returned by the gateway for any non-2xx response that is not
// a 401. Message carries the server-provided error message when the body had
// one, otherwise the generic "API error: <status>" fallback.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return e.Message
}

// NewStatusError builds a StatusError, substituting the generic message when
// the server body carried none.
func NewStatusError(status int, message string) *StatusError {
	if message == "" {
		message = fmt.Sprintf("API error: %d", status)
	}
	return &StatusError{Status: status, Message: message}
}
