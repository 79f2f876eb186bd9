package graphclient

import (
	"fmt"
	"strings"

	"github.com/fivetwenty-io/aadgraph/internal/client"
	"github.com/fivetwenty-io/aadgraph/pkg/graph"
)

// New creates a new directory API client. The config is copied; endpoints in
// the copy are normalized by trimming a trailing slash and adding "https://"
// when no scheme is present.
func New(config *graph.Config) (graph.Client, error) {
	if config == nil {
		return nil, graph.ErrConfigRequired
	}

	normalized := *config
	normalized.APIEndpoint = normalizeEndpoint(normalized.APIEndpoint)
	normalized.LoginEndpoint = normalizeEndpoint(normalized.LoginEndpoint)

	c, err := client.New(&normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return c, nil
}

// NewWithClientCredentials creates a client for tenant using the default
// endpoints and API version.
func NewWithClientCredentials(tenant, clientID, clientSecret string) (graph.Client, error) {
	return New(&graph.Config{
		Tenant:       tenant,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	})
}

func normalizeEndpoint(endpoint string) string {
	if endpoint == "" {
		return ""
	}

	endpoint = strings.TrimSuffix(endpoint, "/")
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	return endpoint
}
