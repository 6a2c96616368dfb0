// Package api implements the HTTP client for the DocChat REST API.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/tidwall/gjson"

	"github.com/diogo/docchat/internal/config"
	apierrors "github.com/diogo/docchat/internal/errors"
	"github.com/diogo/docchat/internal/models"
)

// Client talks to a DocChat server. The auth token is read from the state
// store at Init and cleared there when the server answers 401.
type Client struct {
	httpClient tls_client.HttpClient
	baseURL    string
	state      config.StateStore
	token      string
	verbose    bool
	mu         sync.RWMutex
	closed     bool
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithVerbose enables diagnostic logging to stderr
func WithVerbose(verbose bool) ClientOption {
	return func(c *Client) {
		c.verbose = verbose
	}
}

// WithHTTPClient replaces the underlying HTTP client (used in tests)
func WithHTTPClient(httpClient tls_client.HttpClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a client for the given server base URL
func NewClient(baseURL string, state config.StateStore, opts ...ClientOption) (*Client, error) {
	if baseURL == "" {
		baseURL = models.DefaultBaseURL
	}
	if state == nil {
		return nil, fmt.Errorf("state store is required")
	}

	options := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(300),
		tls_client.WithClientProfile(profiles.Chrome_120),
	}

	httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	client := &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		state:      state,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Init loads the persisted auth token. A missing token is not an error:
// unauthenticated clients can still run the login flow.
func (c *Client) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("client is closed")
	}

	st, err := c.state.Load()
	if err != nil {
		return err
	}
	c.token = st.Token

	return nil
}

// Close shuts down the client
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// Token returns the current auth token
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// BaseURL returns the configured server base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) endpoint(path string) string {
	return c.baseURL + path
}

// newRequest builds a request with default headers and, when a token is
// present, the bearer Authorization header.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequest(method, c.endpoint(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req = req.WithContext(ctx)

	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}

	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

// do executes the request and returns the response body. Non-2xx responses
// become typed errors: 401 clears the stored token and yields an AuthError
// (only when the request actually carried a token, so the login flow never
// loops), everything else yields an APIError carrying the server's detail
// message.
func (c *Client) do(op string, req *http.Request) ([]byte, error) {
	if c.IsClosed() {
		return nil, fmt.Errorf("client is closed")
	}

	endpoint := req.URL.Path
	c.logf("%s %s", req.Method, endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apierrors.NewNetworkError(op, endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierrors.NewNetworkError(op, endpoint, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	detail := errorDetail(body)
	c.logf("%s failed: %d %s", op, resp.StatusCode, detail)

	if resp.StatusCode == http.StatusUnauthorized && req.Header.Get("Authorization") != "" {
		c.setToken("")
		if err := config.ClearToken(c.state); err != nil {
			c.logf("failed to clear stored token: %v", err)
		}
		return nil, apierrors.NewAuthError(detail)
	}

	return nil, apierrors.NewAPIError(resp.StatusCode, endpoint, detail)
}

// doJSON executes the request and decodes the response body into out
func (c *Client) doJSON(op string, req *http.Request, out interface{}) error {
	body, err := c.do(op, req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apierrors.NewParseError(fmt.Sprintf("%s: %v", op, err), "")
	}
	return nil
}

// errorDetail extracts the server's error message from a response body.
// FastAPI-style bodies carry it under "detail", either as a string or a
// validation error list.
func errorDetail(body []byte) string {
	if len(body) == 0 {
		return "empty response"
	}

	detail := gjson.GetBytes(body, "detail")
	switch {
	case detail.Type == gjson.String:
		return detail.String()
	case detail.IsArray():
		if msg := detail.Get("0.msg"); msg.Exists() {
			return msg.String()
		}
	}

	raw := strings.TrimSpace(string(body))
	if len(raw) > 200 {
		raw = raw[:200]
	}
	return raw
}

func (c *Client) logf(format string, args ...interface{}) {
	if c.verbose {
		fmt.Fprintf(os.Stderr, "[docchat] "+format+"\n", args...)
	}
}
