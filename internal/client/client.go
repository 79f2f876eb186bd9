// Package client implements graph.Client: the authenticated request engine
// and the pagination walker.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/aadgraph/internal/auth"
	"github.com/fivetwenty-io/aadgraph/internal/constants"
	"github.com/fivetwenty-io/aadgraph/internal/http"
	"github.com/fivetwenty-io/aadgraph/pkg/graph"
)

// Client implements the graph.Client interface.
type Client struct {
	httpClient   *http.Client
	tokenManager auth.TokenManager
	tenant       string
	apiVersion   string
	logger       graph.Logger
}

var _ graph.Client = (*Client)(nil)

// applyDefaults returns a copy of config with empty optional fields set.
func applyDefaults(config *graph.Config) graph.Config {
	resolved := *config

	if resolved.APIVersion == "" {
		resolved.APIVersion = constants.DefaultAPIVersion
	}

	if resolved.APIEndpoint == "" {
		resolved.APIEndpoint = constants.DefaultAPIEndpoint
	}

	if resolved.LoginEndpoint == "" {
		resolved.LoginEndpoint = constants.DefaultLoginEndpoint
	}

	if resolved.HTTPTimeout <= 0 {
		resolved.HTTPTimeout = constants.DefaultHTTPTimeout
	}

	resolved.APIEndpoint = strings.TrimSuffix(resolved.APIEndpoint, "/")
	resolved.LoginEndpoint = strings.TrimSuffix(resolved.LoginEndpoint, "/")

	return resolved
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *graph.Config) []http.Option {
	httpOpts := []http.Option{http.WithTimeout(config.HTTPTimeout)}

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	return httpOpts
}

// New creates a client that authenticates with the client-credentials grant.
// Tokens are requested through the same transport as API calls.
func New(config *graph.Config) (*Client, error) {
	err := config.Validate()
	if err != nil {
		return nil, err
	}

	resolved := applyDefaults(config)
	httpClient := http.NewClient(resolved.APIEndpoint, createHTTPClientOptions(&resolved)...)

	provider := auth.NewClientCredentialsProvider(resolved.LoginEndpoint, resolved.APIEndpoint, httpClient.StandardClient())
	managerOpts := []auth.ManagerOption{auth.WithExpiryCheck(resolved.CheckTokenExpiry)}

	if resolved.Logger != nil {
		managerOpts = append(managerOpts, auth.WithManagerLogger(resolved.Logger))
	}

	tokenManager := auth.NewOAuth2TokenManager(provider, auth.ClientIdentity{
		Tenant:       resolved.Tenant,
		ClientID:     resolved.ClientID,
		ClientSecret: resolved.ClientSecret,
		APIVersion:   resolved.APIVersion,
	}, managerOpts...)

	return newClient(&resolved, httpClient, tokenManager), nil
}

// NewWithTokenManager creates a client with a custom token manager. Only
// Tenant is required in config; credentials are the token manager's concern.
func NewWithTokenManager(config *graph.Config, tokenManager auth.TokenManager) (*Client, error) {
	if config == nil {
		return nil, graph.ErrConfigRequired
	}

	if config.Tenant == "" {
		return nil, graph.ErrTenantRequired
	}

	if tokenManager == nil {
		return nil, graph.ErrNoTokenManager
	}

	resolved := applyDefaults(config)
	httpClient := http.NewClient(resolved.APIEndpoint, createHTTPClientOptions(&resolved)...)

	return newClient(&resolved, httpClient, tokenManager), nil
}

func newClient(config *graph.Config, httpClient *http.Client, tokenManager auth.TokenManager) *Client {
	return &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		tenant:       config.Tenant,
		apiVersion:   config.APIVersion,
		logger:       config.Logger,
	}
}

// GetTokenManager returns the token manager for this client.
func (c *Client) GetTokenManager() auth.TokenManager {
	return c.tokenManager
}

// Tenant implements graph.Client.Tenant.
func (c *Client) Tenant() string {
	return c.tenant
}

// Execute implements graph.Requester.Execute.
func (c *Client) Execute(ctx context.Context, method, resourcePath string, body interface{}) (json.RawMessage, error) {
	return c.execute(ctx, &http.Request{
		Method: method,
		Path:   c.resourcePath(resourcePath),
		Body:   body,
	})
}

// Get implements graph.Requester.Get.
func (c *Client) Get(ctx context.Context, resourcePath string) (json.RawMessage, error) {
	return c.Execute(ctx, "GET", resourcePath, nil)
}

// Post implements graph.Requester.Post.
func (c *Client) Post(ctx context.Context, resourcePath string, body interface{}) (json.RawMessage, error) {
	return c.Execute(ctx, "POST", resourcePath, body)
}

// Put implements graph.Requester.Put.
func (c *Client) Put(ctx context.Context, resourcePath string, body interface{}) (json.RawMessage, error) {
	return c.Execute(ctx, "PUT", resourcePath, body)
}

// Patch implements graph.Requester.Patch.
func (c *Client) Patch(ctx context.Context, resourcePath string, body interface{}) (json.RawMessage, error) {
	return c.Execute(ctx, "PATCH", resourcePath, body)
}

// Delete implements graph.Requester.Delete.
func (c *Client) Delete(ctx context.Context, resourcePath string) (json.RawMessage, error) {
	return c.Execute(ctx, "DELETE", resourcePath, nil)
}

// Do implements graph.Requester.Do.
func (c *Client) Do(ctx context.Context, method, resourcePath string, body, out interface{}) error {
	raw, err := c.Execute(ctx, method, resourcePath, body)
	if err != nil {
		return err
	}

	if raw == nil || out == nil {
		return nil
	}

	err = json.Unmarshal(raw, out)
	if err != nil {
		return fmt.Errorf("parsing %s %s response: %w", method, resourcePath, err)
	}

	return nil
}

// execute sends req with the cached token. A 401 triggers one token refresh
// and one identical retry; whatever the retry returns is final.
func (c *Client) execute(ctx context.Context, req *http.Request) (json.RawMessage, error) {
	token, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting access token: %w", err)
	}

	resp, err := c.send(ctx, req, token)
	if graph.IsUnauthorized(err) {
		c.debug("Access token rejected, refreshing", map[string]interface{}{
			"method": req.Method,
			"path":   req.Path,
		})

		token, err = c.tokenManager.RefreshToken(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("refreshing access token: %w", err)
		}

		resp, err = c.send(ctx, req, token)
	}

	if err != nil {
		return nil, err
	}

	return resp.JSON(), nil
}

func (c *Client) send(ctx context.Context, req *http.Request, token string) (*http.Response, error) {
	attempt := *req
	attempt.Headers = map[string]string{"Authorization": "Bearer " + token}

	return c.httpClient.Do(ctx, &attempt)
}

// resourcePath turns a tenant-relative path into /{tenant}/{path} with the
// api-version parameter appended to any existing query.
func (c *Client) resourcePath(resourcePath string) string {
	ref := strings.TrimPrefix(resourcePath, "/")

	separator := "?"
	if strings.Contains(ref, "?") {
		separator = "&"
	}

	return "/" + url.PathEscape(c.tenant) + "/" + ref + separator + "api-version=" + url.QueryEscape(c.apiVersion)
}

func (c *Client) debug(msg string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.Debug(msg, fields)
	}
}
