package resource

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig indicates invalid client configuration
var ErrInvalidConfig = errors.New("invalid resource client configuration")

// transportStatusText is reported when no HTTP response was received
const transportStatusText = "Unknown Error"

// APIError is a failed request. Status is 0 when the request never got a
// response.
type APIError struct {
	Status     int
	StatusText string
	Method     string
	URL        string
	Body       string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s failed: %v", e.Method, e.URL, e.Err)
	}
	return fmt.Sprintf("%s %s failed with status %d %s", e.Method, e.URL, e.Status, e.StatusText)
}

// Unwrap returns the transport error, if any
func (e *APIError) Unwrap() error {
	return e.Err
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.Status == 404
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.Status == 401 || e.Status == 403
}

// IsTransport reports whether no HTTP response was received
func (e *APIError) IsTransport() bool {
	return e.Status == 0
}
