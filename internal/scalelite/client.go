package scalelite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"scalectl/internal/signer"
	"scalectl/pkg/logging"
)

const (
	// DefaultHTTPTimeout is the default timeout for API requests.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "scalectl"

	// RequestIDHeader carries a per-request id for correlation with API logs.
	RequestIDHeader = "X-Request-Id"

	maxResponseBytes = 4 << 20
)

// Endpoint names of the management API.
const (
	EndpointGetServers   = "getServers"
	EndpointAddServer    = "addServer"
	EndpointUpdateServer = "updateServer"
	EndpointDeleteServer = "deleteServer"
	EndpointPanicServer  = "panicServer"
)

// Client talks to one Scalelite management API with one shared secret.
type Client struct {
	baseURL    string
	secret     string
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
	requestID  func() string
}

// ClientOption configures the API client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout overrides the request timeout. Zero keeps the HTTP client's own.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// NewClient creates a client for the API rooted at baseURL, e.g.
// "https://lb.example.org/scalelite/api".
func NewClient(baseURL, secret string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid API url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid API url %q: missing host", baseURL)
	}
	if u.RawQuery != "" {
		return nil, fmt.Errorf("invalid API url %q: must not contain a query string", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		secret:     secret,
		httpClient: &http.Client{Timeout: DefaultHTTPTimeout},
		userAgent:  DefaultUserAgent,
		requestID:  uuid.NewString,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}

	return c, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListServers returns all registered servers. A 404 from the API means no
// server is registered and yields an empty slice.
func (c *Client) ListServers(ctx context.Context) ([]Server, error) {
	body, err := c.do(ctx, http.MethodGet, EndpointGetServers, nil)
	if err != nil {
		if IsNotFound(err) {
			logging.Debug("Scalelite", "getServers returned 404, treating as empty server list")
			return []Server{}, nil
		}
		return nil, err
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return []Server{}, nil
	}

	var servers []Server
	if err := json.Unmarshal(body, &servers); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", EndpointGetServers, err)
	}
	return servers, nil
}

// GetServer returns the server with the given id, or ErrServerNotFound.
func (c *Client) GetServer(ctx context.Context, id string) (*Server, error) {
	servers, err := c.ListServers(ctx)
	if err != nil {
		return nil, err
	}
	if s := FindServer(servers, id); s != nil {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrServerNotFound, id)
}

// FindServer returns the server with the given id from a listing, or nil.
func FindServer(servers []Server, id string) *Server {
	for i := range servers {
		if servers[i].ID == id {
			return &servers[i]
		}
	}
	return nil
}

// CreateServer registers a new server. The load multiplier is only sent when
// set to a non-zero value.
func (c *Client) CreateServer(ctx context.Context, spec ServerSpec) (*Response, error) {
	if spec.LoadMultiplier != nil && *spec.LoadMultiplier == 0 {
		spec.LoadMultiplier = nil
	}
	payload := map[string]interface{}{"server": spec}
	return c.post(ctx, EndpointAddServer, payload)
}

// UpdateServer applies a sparse patch to the server with the given id.
func (c *Client) UpdateServer(ctx context.Context, id string, patch ServerPatch) (*Response, error) {
	payload := map[string]interface{}{
		"id":     id,
		"server": patch,
	}
	return c.post(ctx, EndpointUpdateServer, payload)
}

// DeleteServer removes the server with the given id.
func (c *Client) DeleteServer(ctx context.Context, id string) (*Response, error) {
	return c.post(ctx, EndpointDeleteServer, map[string]interface{}{"id": id})
}

// PanicServer ends every meeting on the server and takes it out of rotation.
func (c *Client) PanicServer(ctx context.Context, id string) (*Response, error) {
	return c.post(ctx, EndpointPanicServer, map[string]interface{}{"id": id})
}

func (c *Client) post(ctx context.Context, endpoint string, payload interface{}) (*Response, error) {
	body, err := c.do(ctx, http.MethodPost, endpoint, payload)
	if err != nil {
		return nil, err
	}
	return decodeResponse(body), nil
}

// do signs and sends a single request. Non-2xx responses are returned as
// *APIError with the body attached.
func (c *Client) do(ctx context.Context, method, endpoint string, payload interface{}) ([]byte, error) {
	signedURL, err := signer.Sign(c.baseURL+"/"+endpoint, c.secret)
	if err != nil {
		return nil, err
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s payload: %w", endpoint, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, signedURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", endpoint, err)
	}

	requestID := c.requestID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logging.Debug("Scalelite", "%s %s (request %s)", method, endpoint, requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", endpoint, err)
	}

	logging.Debug("Scalelite", "%s %s returned %d (request %s)", method, endpoint, resp.StatusCode, requestID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Method:     method,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
	}

	return data, nil
}
