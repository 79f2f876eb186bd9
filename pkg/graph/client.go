package graph

import (
	"context"
	"encoding/json"
	"time"
)

// Requester issues authenticated requests against the directory API.
//
// Every method returns the raw JSON body of the response. A nil RawMessage
// with a nil error means the API answered 204 No Content or an empty body.
type Requester interface {
	// Execute performs method against resourcePath. resourcePath is relative
	// to the tenant and may carry its own query string.
	Execute(ctx context.Context, method, resourcePath string, body interface{}) (json.RawMessage, error)

	Get(ctx context.Context, resourcePath string) (json.RawMessage, error)
	Post(ctx context.Context, resourcePath string, body interface{}) (json.RawMessage, error)
	Put(ctx context.Context, resourcePath string, body interface{}) (json.RawMessage, error)
	Patch(ctx context.Context, resourcePath string, body interface{}) (json.RawMessage, error)
	Delete(ctx context.Context, resourcePath string) (json.RawMessage, error)

	// Do is Execute followed by decoding the body into out. out is left
	// untouched when the response has no body.
	Do(ctx context.Context, method, resourcePath string, body, out interface{}) error
}

// Collector walks paginated collections.
type Collector interface {
	// Collect follows odata.nextLink from resourcePath until the last page and
	// returns every object whose objectType equals objectType, in order. An
	// empty objectType keeps every object.
	Collect(ctx context.Context, resourcePath, objectType string) ([]Object, error)
}

// Client is the main interface for the directory API client.
type Client interface {
	Requester
	Collector

	// Tenant returns the tenant every resource path is resolved against.
	Tenant() string
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a graph.Client.
//
// Only Tenant, ClientID and ClientSecret are required. graphclient.New fills
// in the remaining defaults and normalizes the endpoints by trimming a
// trailing slash and adding "https://" when no scheme is present.
type Config struct {
	// Tenant: directory the client acts on, either a domain name
	// ("contoso.onmicrosoft.com") or a tenant ID.
	Tenant string
	// ClientID: application (client) ID registered in the tenant.
	ClientID string
	// ClientSecret: key for ClientID. Never logged.
	ClientSecret string

	// APIVersion: value of the api-version query parameter. Defaults to "1.5".
	APIVersion string
	// APIEndpoint: base URL of the resource API. Also used as the OAuth2
	// resource identifier. Defaults to "https://graph.windows.net".
	APIEndpoint string
	// LoginEndpoint: base URL of the identity endpoint. Defaults to
	// "https://login.windows.net".
	LoginEndpoint string

	// HTTPTimeout: per round trip timeout. Defaults to 30s.
	HTTPTimeout time.Duration
	// CheckTokenExpiry: when true, a cached token that is about to expire is
	// replaced before use instead of waiting for the API to reject it.
	CheckTokenExpiry bool

	// Debug: enables HTTP request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer and the engine.
	Logger Logger
	// UserAgent: overrides the default User-Agent header.
	UserAgent string
}

// Validate reports the first missing required field.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigRequired
	}

	if c.Tenant == "" {
		return ErrTenantRequired
	}

	if c.ClientID == "" {
		return ErrClientIDRequired
	}

	if c.ClientSecret == "" {
		return ErrClientSecretRequired
	}

	return nil
}
