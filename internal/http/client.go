// Package http provides the HTTP transport for platform API clients. It
// injects the IMS bearer token and the gateway headers on every request and
// maps non-2xx responses to API errors.
package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/aepio/aep-client/internal/auth"
	"github.com/aepio/aep-client/internal/constants"
	"github.com/aepio/aep-client/pkg/aep"
)

// Request represents an HTTP request to the platform API.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Headers map[string]string

	// Body is JSON-encoded when non-nil.
	Body interface{}

	// RawBody is sent as-is when non-nil, for file uploads. Takes
	// precedence over Body; set a Content-Type header alongside it.
	RawBody io.Reader
}

// Response represents an HTTP response from the platform API.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client is an HTTP client for the platform API.
type Client struct {
	baseURL      string
	httpClient   *retryablehttp.Client
	uploadClient *retryablehttp.Client
	tokenManager auth.TokenManager
	apiKey       string
	orgID        string
	sandbox      string
	userAgent    string
	logger       aep.Logger
	debug        bool
	interceptors *aep.InterceptorChain
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger aep.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig enables retries for transient failures. Retries are
// disabled by default; the registry is not idempotent on create.
func WithRetryConfig(maxRetries int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = maxRetries
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithGatewayHeaders sets the API key and org headers the platform gateway
// requires on every request.
func WithGatewayHeaders(apiKey, orgID string) Option {
	return func(c *Client) {
		c.apiKey = apiKey
		c.orgID = orgID
	}
}

// WithSandbox sets the sandbox requests operate in.
func WithSandbox(sandbox string) Option {
	return func(c *Client) {
		c.sandbox = sandbox
	}
}

// WithInterceptors installs an interceptor chain that observes every request
// and response the client sends.
func WithInterceptors(chain *aep.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// WithHTTPTimeout overrides the underlying HTTP client timeout.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// NewClient creates a new platform HTTP client.
func NewClient(baseURL string, tokenManager auth.TokenManager, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.Logger = nil

	// Uploads stream the body, so they never retry and get a longer timeout.
	uploadClient := retryablehttp.NewClient()
	uploadClient.RetryMax = 0
	uploadClient.HTTPClient.Timeout = constants.UploadHTTPTimeout
	uploadClient.Logger = nil

	client := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   retryClient,
		uploadClient: uploadClient,
		tokenManager: tokenManager,
		sandbox:      constants.DefaultSandbox,
		userAgent:    "aep-client/1.0",
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Do executes a request against the platform API. Non-2xx responses return
// both the response and an *aep.APIError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	body, contentType, err := c.encodeBody(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	c.setGatewayHeaders(httpReq.Header)

	if c.tokenManager != nil {
		token, err := c.tokenManager.GetToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("getting token: %w", err)
		}

		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	intercepted := &aep.InterceptedRequest{
		Method:  req.Method,
		Path:    req.Path,
		Headers: httpReq.Header,
	}

	if c.interceptors != nil {
		if err := c.interceptors.ExecuteRequestInterceptors(ctx, intercepted); err != nil {
			return nil, err
		}
	}

	transport := c.httpClient
	if req.RawBody != nil {
		transport = c.uploadClient
	}

	httpResp, err := transport.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method":      req.Method,
			"url":         fullURL,
			"status_code": resp.StatusCode,
		})
	}

	var reqErr error
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		reqErr = aep.ParseAPIError(httpResp.StatusCode, respBody)
	}

	if c.interceptors != nil {
		err := c.interceptors.ExecuteResponseInterceptors(ctx, intercepted, &aep.InterceptedResponse{
			StatusCode: resp.StatusCode,
			Headers:    resp.Headers,
			Body:       resp.Body,
			Error:      reqErr,
		})
		if err != nil {
			return resp, err
		}
	}

	if reqErr != nil {
		return resp, reqErr
	}

	return resp, nil
}

func (c *Client) encodeBody(req *Request) (interface{}, string, error) {
	if req.RawBody != nil {
		return req.RawBody, "", nil
	}

	if req.Body == nil {
		return nil, "", nil
	}

	data, err := json.Marshal(req.Body)
	if err != nil {
		return nil, "", fmt.Errorf("encoding request body: %w", err)
	}

	return bytes.NewReader(data), "application/json", nil
}

func (c *Client) setGatewayHeaders(h http.Header) {
	if c.apiKey != "" {
		h.Set(constants.HeaderAPIKey, c.apiKey)
	}

	if c.orgID != "" {
		h.Set(constants.HeaderOrgID, c.orgID)
	}

	if c.sandbox != "" {
		h.Set(constants.HeaderSandbox, c.sandbox)
	}
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// GetWithHeaders performs a GET request with extra headers, used for the
// registry's Accept-header response formats.
func (c *Client) GetWithHeaders(ctx context.Context, path string, query url.Values, headers map[string]string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query, Headers: headers})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

// Upload performs a PUT request streaming raw data, used for batch file
// ingestion.
func (c *Client) Upload(ctx context.Context, path string, data io.Reader, contentType string) (*Response, error) {
	return c.Do(ctx, &Request{
		Method:  http.MethodPut,
		Path:    path,
		RawBody: data,
		Headers: map[string]string{"Content-Type": contentType},
	})
}
