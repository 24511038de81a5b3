package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/petalert/internal/client/models"
	"github.com/dmitrijs2005/petalert/internal/common"
	"github.com/dmitrijs2005/petalert/internal/logging"
)

const (
	headerContentType = "Content-Type"
	headerUserAgent   = "User-Agent"
	contentTypeJSON   = "application/json"
	userAgent         = "petalert-cli/1.0"

	// DefaultTimeout is the HTTP client timeout used when none is configured.
	DefaultTimeout = 30 * time.Second
)

// HTTPClient implements Client over JSON/HTTP.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	log        logging.Logger
}

// Option configures the client.
type Option func(*HTTPClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *HTTPClient) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the HTTP client timeout. Zero leaves the transport's own
// defaults in charge.
func WithTimeout(timeout time.Duration) Option {
	return func(c *HTTPClient) {
		if c.httpClient == nil {
			c.httpClient = &http.Client{}
		}
		c.httpClient.Timeout = timeout
	}
}

// WithLogger attaches a logger for request-level debug output.
func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) {
		c.log = l
	}
}

// NewHTTPClient creates an API client for the given base URL, e.g.
// "http://localhost:5000/api".
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		log:        logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured base URL.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

func (c *HTTPClient) SignIn(ctx context.Context, req models.SignInRequest) (*models.SessionUser, error) {
	var user models.SessionUser
	if err := c.doRequest(ctx, http.MethodPost, "/auth/signin", nil, "", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) SignUp(ctx context.Context, req models.SignUpRequest) (*models.SessionUser, error) {
	var user models.SessionUser
	if err := c.doRequest(ctx, http.MethodPost, "/auth/signup", nil, "", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, token, userID string, patch models.ProfilePatch) (*models.SessionUser, error) {
	var user models.SessionUser
	path := "/users/" + url.PathEscape(userID)
	if err := c.doRequest(ctx, http.MethodPut, path, nil, token, patch, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) UserAlerts(ctx context.Context, token, owner string) ([]models.Alert, error) {
	alerts := make([]models.Alert, 0)
	q := url.Values{"owner": []string{owner}}
	if err := c.doRequest(ctx, http.MethodGet, "/alerts", q, token, nil, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

func (c *HTTPClient) UserComments(ctx context.Context, token, userID string) ([]models.Comment, error) {
	comments := make([]models.Comment, 0)
	q := url.Values{"user": []string{userID}}
	if err := c.doRequest(ctx, http.MethodGet, "/comments", q, token, nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// doRequest performs one JSON round trip. Failures before a status line is
// read, and unreadable bodies, are TransportErrors; statuses >= 400 are
// APIErrors.
func (c *HTTPClient) doRequest(ctx context.Context, method, path string, query url.Values, token string, body, result any) error {
	reqURL, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return &TransportError{Op: "build url", Err: err}
	}
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return &TransportError{Op: "create request", Err: err}
	}
	req.Header.Set(headerUserAgent, userAgent)
	if body != nil {
		req.Header.Set(headerContentType, contentTypeJSON)
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug(ctx, "request failed", "method", method, "path", path, "error", err)
		return &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: "read response", Err: err}
	}

	c.log.Debug(ctx, "request done",
		"method", method, "path", path, "status", resp.StatusCode, "took", time.Since(started))

	if resp.StatusCode >= http.StatusBadRequest {
		return parseError(resp.StatusCode, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return &TransportError{Op: "decode response", Err: err}
		}
	}
	return nil
}
