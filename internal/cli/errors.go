package cli

import (
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"scalectl/internal/config"
	"scalectl/internal/reconciler"
	"scalectl/internal/scalelite"
)

// ConnectionErrorType categorizes the type of connection error.
type ConnectionErrorType int

const (
	// ConnectionErrorUnknown indicates an unclassified connection error.
	ConnectionErrorUnknown ConnectionErrorType = iota
	// ConnectionErrorTLS indicates a TLS/certificate verification error.
	ConnectionErrorTLS
	// ConnectionErrorNetwork indicates a network connectivity error (e.g., refused, unreachable).
	ConnectionErrorNetwork
	// ConnectionErrorTimeout indicates a connection timeout.
	ConnectionErrorTimeout
	// ConnectionErrorDNS indicates a DNS resolution failure.
	ConnectionErrorDNS
)

// String returns a human-readable name for the connection error type.
func (t ConnectionErrorType) String() string {
	switch t {
	case ConnectionErrorTLS:
		return "TLS certificate error"
	case ConnectionErrorNetwork:
		return "Network error"
	case ConnectionErrorTimeout:
		return "Connection timeout"
	case ConnectionErrorDNS:
		return "DNS resolution error"
	default:
		return "Connection error"
	}
}

// ConnectionError indicates that the Scalelite API could not be reached.
type ConnectionError struct {
	// Endpoint is the URL that could not be reached, without query string.
	Endpoint string
	// Type categorizes the connection error.
	Type ConnectionErrorType
	// Reason is the underlying error.
	Reason error
}

// Error returns a message with guidance for the likely cause.
func (e *ConnectionError) Error() string {
	switch e.Type {
	case ConnectionErrorTLS:
		return fmt.Sprintf(`TLS certificate verification failed for %s: %s

Possible causes:
  - Self-signed or internal CA certificate on the Scalelite host
  - Certificate issued for a different hostname than the one in --api-url`, e.Endpoint, FormatConnectionErrorReason(e.Reason))
	case ConnectionErrorNetwork:
		return fmt.Sprintf(`Connection failed to %s: %s

Possible causes:
  - Scalelite API server is not running or not reachable from here
  - Wrong host or port in --api-url`, e.Endpoint, FormatConnectionErrorReason(e.Reason))
	case ConnectionErrorTimeout:
		return fmt.Sprintf("Request to %s timed out: %s\n\nIncrease --timeout if the API is slow to answer.", e.Endpoint, FormatConnectionErrorReason(e.Reason))
	case ConnectionErrorDNS:
		return fmt.Sprintf("DNS resolution failed for %s: %s", e.Endpoint, FormatConnectionErrorReason(e.Reason))
	default:
		return fmt.Sprintf("Connection failed to %s: %v", e.Endpoint, e.Reason)
	}
}

// Unwrap returns the underlying error.
func (e *ConnectionError) Unwrap() error {
	return e.Reason
}

// Is allows errors.Is() to work with wrapped errors.
func (e *ConnectionError) Is(target error) bool {
	_, ok := target.(*ConnectionError)
	return ok
}

// ClassifyConnectionError analyzes an error and returns a ConnectionError with the appropriate type.
// If the error is nil, returns nil.
func ClassifyConnectionError(err error, endpoint string) *ConnectionError {
	if err == nil {
		return nil
	}

	connErr := &ConnectionError{
		Endpoint: endpoint,
		Type:     ConnectionErrorUnknown,
		Reason:   err,
	}

	var dnsErr *net.DNSError
	switch {
	case isTLSError(err):
		connErr.Type = ConnectionErrorTLS
	case errors.As(err, &dnsErr):
		connErr.Type = ConnectionErrorDNS
	case isTimeoutError(err):
		connErr.Type = ConnectionErrorTimeout
	case isNetworkError(err.Error()):
		connErr.Type = ConnectionErrorNetwork
	}
	return connErr
}

// isTLSError checks if the error is related to TLS/certificate issues.
func isTLSError(err error) bool {
	if err == nil {
		return false
	}

	var certErr x509.CertificateInvalidError
	var hostErr x509.HostnameError
	var unknownAuthErr x509.UnknownAuthorityError
	var systemRootsErr x509.SystemRootsError
	if errors.As(err, &certErr) || errors.As(err, &hostErr) ||
		errors.As(err, &unknownAuthErr) || errors.As(err, &systemRootsErr) {
		return true
	}

	errStr := err.Error()
	for _, keyword := range []string{"x509:", "certificate", "tls:", "TLS handshake"} {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}
	return false
}

// isTimeoutError checks if the error is a timeout.
func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	errStr := err.Error()
	return strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded")
}

// isNetworkError checks if the error string indicates a network connectivity issue.
func isNetworkError(errStr string) bool {
	networkKeywords := []string{
		"connection refused",
		"connection reset",
		"network is unreachable",
		"no route to host",
		"dial tcp",
		"connect:",
	}

	for _, keyword := range networkKeywords {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}
	return false
}

// FormatConnectionErrorReason extracts a concise reason from a connection error.
func FormatConnectionErrorReason(err error) string {
	if err == nil {
		return "unknown error"
	}

	errStr := err.Error()

	if idx := strings.Index(errStr, "x509:"); idx != -1 {
		return strings.TrimSpace(errStr[idx:])
	}
	if idx := strings.Index(errStr, "connect:"); idx != -1 {
		return strings.TrimSpace(errStr[idx:])
	}
	if colonIdx := strings.LastIndex(errStr, ":"); strings.Contains(errStr, "dial tcp") && colonIdx != -1 {
		return strings.TrimSpace(errStr[colonIdx+1:])
	}
	return errStr
}

// Describe returns the message printed for an error returned by a command.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	if report := config.DetailedReport(err); report != "" {
		return report
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return ClassifyConnectionError(urlErr.Err, stripQuery(urlErr.URL)).Error()
	}

	var apiErr *scalelite.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Sprintf("%v\n\nThe API rejected the request checksum: check --api-secret or %s.", err, config.EnvAPISecret)
		}
	}

	var pErr *reconciler.PreconditionError
	if errors.As(err, &pErr) {
		return fmt.Sprintf("precondition failed: %v", err)
	}

	return err.Error()
}

// stripQuery drops the query string, which carries the request checksum.
func stripQuery(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.RawQuery = ""
	return u.String()
}
