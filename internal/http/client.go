// Package http is the transport used by the directory client: a single HTTPS
// round trip per call, with outcomes normalized into a Response or a typed
// error from pkg/graph.
package http

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

	"github.com/fivetwenty-io/aadgraph/internal/constants"
	"github.com/fivetwenty-io/aadgraph/pkg/graph"
	"github.com/hashicorp/go-retryablehttp"
)

const defaultUserAgent = "aadgraph-go/1.0"

// Request describes one API call. Path is appended to the client's base URL;
// URL, when set, is used verbatim instead.
type Request struct {
	Method  string
	Path    string
	URL     string
	Body    interface{}
	Headers map[string]string
}

// Response is a completed round trip.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// NoContent reports whether the response carries no body to decode.
func (r *Response) NoContent() bool {
	return r.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(r.Body)) == 0
}

// JSON returns the body as raw JSON, or nil when there is no content.
func (r *Response) JSON() json.RawMessage {
	if r.NoContent() {
		return nil
	}

	return json.RawMessage(r.Body)
}

// Client performs HTTP requests against a base URL.
type Client struct {
	baseURL    string
	httpClient *retryablehttp.Client
	logger     graph.Logger
	debug      bool
	userAgent  string
	timeout    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for debug output.
func WithLogger(logger graph.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithTimeout sets the per round trip timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// NewClient creates a transport for baseURL. Retries are disabled: a failed
// round trip is reported to the caller after one attempt.
func NewClient(baseURL string, opts ...Option) *Client {
	client := &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		userAgent: defaultUserAgent,
		timeout:   constants.DefaultHTTPTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.CheckRetry = noRetry
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.HTTPClient.Timeout = client.timeout
	retryClient.Logger = nil

	if client.logger != nil && client.debug {
		retryClient.Logger = leveledLogger{logger: client.logger}
		retryClient.RequestLogHook = client.logRequest
		retryClient.ResponseLogHook = client.logResponse
	}

	client.httpClient = retryClient

	return client
}

// StandardClient returns a *http.Client that shares this transport, for
// libraries that need the standard type.
func (c *Client) StandardClient() *http.Client {
	return c.httpClient.StandardClient()
}

// Do performs the request. Non-2xx responses are returned together with a
// *graph.APIError; network failures and undecodable 2xx bodies yield a
// *graph.TransportError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	target := c.target(req)

	body, contentType, err := EncodeBody(req.Body)
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}

	var rawBody interface{}
	if body != nil {
		rawBody = body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, target, rawBody)
	if err != nil {
		return nil, &graph.TransportError{Method: req.Method, URL: target, Err: err}
	}

	httpReq.Header.Set("Accept", constants.ContentTypeJSON)
	httpReq.Header.Set("User-Agent", c.userAgent)

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if httpResp != nil {
			_ = httpResp.Body.Close()
		}

		return nil, &graph.TransportError{Method: req.Method, URL: target, Err: err}
	}

	defer func() { _ = httpResp.Body.Close() }()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &graph.TransportError{Method: req.Method, URL: target, Err: fmt.Errorf("reading response body: %w", err)}
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       data,
	}

	if httpResp.StatusCode < http.StatusOK || httpResp.StatusCode >= http.StatusMultipleChoices {
		return resp, graph.NewAPIError(httpResp.StatusCode, data)
	}

	if !resp.NoContent() && !json.Valid(data) {
		return resp, &graph.TransportError{Method: req.Method, URL: target, Err: graph.ErrMalformedResponse}
	}

	return resp, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path})
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

// EncodeBody serializes a request body and reports its content type.
// Strings and url.Values are sent form-encoded, byte slices are sent as JSON
// verbatim, anything else is marshaled to JSON.
func EncodeBody(body interface{}) ([]byte, string, error) {
	switch value := body.(type) {
	case nil:
		return nil, "", nil
	case string:
		return []byte(value), constants.ContentTypeForm, nil
	case url.Values:
		return []byte(value.Encode()), constants.ContentTypeForm, nil
	case json.RawMessage:
		return value, constants.ContentTypeJSON, nil
	case []byte:
		return value, constants.ContentTypeJSON, nil
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return nil, "", fmt.Errorf("marshaling body: %w", err)
		}

		return data, constants.ContentTypeJSON, nil
	}
}

func (c *Client) target(req *Request) string {
	if req.URL != "" {
		return req.URL
	}

	return c.baseURL + req.Path
}

func (c *Client) logRequest(_ retryablehttp.Logger, req *http.Request, attempt int) {
	c.logger.Debug("HTTP Request", map[string]interface{}{
		"method":  req.Method,
		"url":     req.URL.String(),
		"attempt": attempt,
	})
}

func (c *Client) logResponse(_ retryablehttp.Logger, resp *http.Response) {
	c.logger.Debug("HTTP Response", map[string]interface{}{
		"status": resp.StatusCode,
		"url":    resp.Request.URL.String(),
	})
}

func noRetry(ctx context.Context, _ *http.Response, _ error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	return false, nil
}
