// Package graphclient provides the main entry point for creating directory
// API clients.
//
// New validates and normalizes a graph.Config, then wires the transport,
// the OAuth2 client-credentials token manager and the request engine:
//
//	cli, err := graphclient.New(&graph.Config{
//	  Tenant:       "contoso.onmicrosoft.com",
//	  ClientID:     clientID,
//	  ClientSecret: clientSecret,
//	})
//
// NewWithClientCredentials is a shorthand for the common case where only the
// tenant and credentials differ from the defaults.
package graphclient
