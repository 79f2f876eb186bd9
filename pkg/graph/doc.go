// Package graph provides the public types, interfaces, and helpers for working
// with an Azure AD Graph style directory API.
//
// # Overview
//
// The graph package defines the configuration (Config), the directory object
// and page types (Object, Page), the error kinds returned by a client
// (AuthenticationError, APIError, TransportError), and the Client interface.
// A concrete implementation is provided by the graphclient package, which
// wires transport, OAuth2 client-credentials authentication and the request
// engine. Most consumers import graphclient to construct a client and then
// work against the Client interface declared here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/aadgraph/pkg/graph"
//	  "github.com/fivetwenty-io/aadgraph/pkg/graphclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := graphclient.New(&graph.Config{
//	    Tenant:       "contoso.onmicrosoft.com",
//	    ClientID:     "00000000-0000-0000-0000-000000000000",
//	    ClientSecret: "secret",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  user, err := cli.Get(ctx, graph.FormatPath("users/{0}", "alice@contoso.onmicrosoft.com"))
//	  if err != nil { log.Fatal(err) }
//	  _ = user
//	}
//
// # Authentication
//
// The first request acquires an access token with the client-credentials
// grant and caches it for the lifetime of the client. When the API answers
// 401 the token is refreshed and the request is re-issued exactly once; a
// second 401 is returned to the caller as an *APIError that matches
// ErrUnauthorized.
//
// # Pagination
//
// Collect walks every page of a collection by following odata.nextLink and
// returns the objects whose objectType matches the requested type:
//
//	groups, err := cli.Collect(ctx, graph.FormatPath("users/{0}/memberOf", upn), "Group")
//
// The walk is all-or-nothing: an error on any page discards the partial
// result.
//
// # Envelopes
//
// Collection responses carry their items in a "value" field. Results are
// returned as the raw JSON body; use Unwrap to strip the envelope.
package graph
