package auth

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/aadgraph/internal/constants"
	"github.com/fivetwenty-io/aadgraph/pkg/graph"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ClientIdentity is the application a client authenticates as.
type ClientIdentity struct {
	Tenant       string
	ClientID     string
	ClientSecret string
	APIVersion   string
}

// TokenProvider exchanges a client identity for an access token.
type TokenProvider interface {
	AcquireToken(ctx context.Context, identity ClientIdentity) (*Token, error)
}

// ClientCredentialsProvider obtains tokens with the OAuth2 client-credentials
// grant. It keeps no state between calls.
type ClientCredentialsProvider struct {
	loginEndpoint string
	resource      string
	httpClient    *http.Client
}

// NewClientCredentialsProvider creates a provider that requests tokens for
// resource from loginEndpoint. A nil httpClient uses http.DefaultClient.
func NewClientCredentialsProvider(loginEndpoint, resource string, httpClient *http.Client) *ClientCredentialsProvider {
	return &ClientCredentialsProvider{
		loginEndpoint: strings.TrimSuffix(loginEndpoint, "/"),
		resource:      resource,
		httpClient:    httpClient,
	}
}

// TokenURL returns the token endpoint for tenant.
func (p *ClientCredentialsProvider) TokenURL(tenant string) string {
	return p.loginEndpoint + "/" + url.PathEscape(tenant) + constants.TokenPathSuffix
}

// AcquireToken requests a new access token. Credentials travel in the form
// body together with grant_type and resource. Failures are reported as
// *graph.AuthenticationError.
func (p *ClientCredentialsProvider) AcquireToken(ctx context.Context, identity ClientIdentity) (*Token, error) {
	config := clientcredentials.Config{
		ClientID:       identity.ClientID,
		ClientSecret:   identity.ClientSecret,
		TokenURL:       p.TokenURL(identity.Tenant),
		EndpointParams: url.Values{"resource": []string{p.resource}},
		AuthStyle:      oauth2.AuthStyleInParams,
	}

	if p.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	}

	token, err := config.Token(ctx)
	if err != nil {
		return nil, authenticationError(err)
	}

	if token.AccessToken == "" {
		return nil, &graph.AuthenticationError{Err: graph.ErrMissingAccessToken}
	}

	return &Token{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresAt:   token.Expiry,
	}, nil
}

func authenticationError(err error) *graph.AuthenticationError {
	authErr := &graph.AuthenticationError{Err: err}

	retrieveErr := &oauth2.RetrieveError{}
	if errors.As(err, &retrieveErr) {
		if retrieveErr.Response != nil {
			authErr.StatusCode = retrieveErr.Response.StatusCode
		}

		authErr.Code = retrieveErr.ErrorCode
		authErr.Message = graph.FirstLine(retrieveErr.ErrorDescription)

		if authErr.Message == "" {
			_, authErr.Message = graph.ParseErrorBody(retrieveErr.Body)
		}
	}

	return authErr
}
