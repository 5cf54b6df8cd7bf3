package scalelite

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrServerNotFound is returned when a server id is not registered.
var ErrServerNotFound = errors.New("server not found")

// APIError is returned for any non-2xx response that the client does not
// normalize. It carries the status code and body verbatim.
type APIError struct {
	// Method is the HTTP method of the failed request.
	Method string
	// Endpoint is the API endpoint name, e.g. "addServer".
	Endpoint string
	// StatusCode is the HTTP status returned by the API.
	StatusCode int
	// Body is the response body as returned by the API.
	Body string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s failed: %d %s", e.Method, e.Endpoint, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s %s failed: %d %s: %s", e.Method, e.Endpoint, e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
