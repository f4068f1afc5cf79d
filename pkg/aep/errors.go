package aep

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
)

// APIError represents a problem document returned by the Experience Platform
// API. Status and the server-provided title/detail are carried verbatim to aid
// debugging against the platform's own error taxonomy.
type APIError struct {
	Status int    `json:"status" yaml:"status"`
	Type   string `json:"type"   yaml:"type"`
	Title  string `json:"title"  yaml:"title"`
	Detail string `json:"detail" yaml:"detail"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (status: %d)", e.Title, e.Detail, e.Status)
	}

	return fmt.Sprintf("%s (status: %d)", e.Title, e.Status)
}

// Common static errors that can be wrapped with context.
var (
	ErrCredentialsRequired      = errors.New("credentials are required")
	ErrCredentialsFileRequired  = errors.New("credentials file or client credentials are required")
	ErrMissingCredentialField   = errors.New("missing required credential field")
	ErrAmbiguousMatch           = errors.New("multiple resources match the given attributes")
	ErrNoMatch                  = errors.New("no resource matches the given attributes")
	ErrNotSupported             = errors.New("operation is not supported by the schema registry")
	ErrStaleResource            = errors.New("resource has been deleted")
	ErrNotPersisted             = errors.New("resource has not been persisted")
	ErrGlobalReadOnly           = errors.New("global container resources are read-only")
	ErrUnknownResourceType      = errors.New("unknown resource type")
	ErrInvalidRef               = errors.New("unable to parse resource reference")
	ErrRefTypeMismatch          = errors.New("reference does not name a resource of this collection's type")
	ErrNoTokenManagerConfigured = errors.New("no token manager configured")
	ErrCircuitBreakerOpen       = errors.New("circuit breaker is open")
	ErrNoMoreItems              = errors.New("no more items")
	ErrConfigRequired           = errors.New("config is required")
)

// IsNotFound reports whether the error is a not-found response (the platform
// returns 404 for both unknown ids and deleted resources) or a Find with zero
// matches.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNoMatch) {
		return true
	}

	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusNotFound
	}

	return false
}

// IsUnauthorized reports whether the error is a credential rejection.
func IsUnauthorized(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusUnauthorized
	}

	return false
}

// IsForbidden reports whether the error is an authorization failure.
func IsForbidden(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusForbidden
	}

	return false
}

// ParseAPIError parses a non-2xx response body into an APIError. The platform
// answers with an RFC 7807 style problem document; bodies that are not JSON
// are preserved verbatim in Detail.
func ParseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{}

	err := json.Unmarshal(body, apiErr)
	if err != nil || (apiErr.Title == "" && apiErr.Detail == "") {
		apiErr.Title = http.StatusText(statusCode)
		apiErr.Detail = string(body)
	}

	apiErr.Status = statusCode

	return apiErr
}
