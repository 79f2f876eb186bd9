package client_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/fivetwenty-io/aadgraph/internal/client"
	"github.com/fivetwenty-io/aadgraph/pkg/graph"
	"github.com/stretchr/testify/require"
)

const testTenant = "contoso"

// fakeGraph serves the identity endpoint under /{tenant}/oauth2/token and
// hands every other request to api.
type fakeGraph struct {
	t      *testing.T
	server *httptest.Server

	mu          sync.Mutex
	tokenCalls  int
	apiCalls    int
	tokenStatus int
	tokenForms  []map[string]string
	requests    []*recordedRequest

	api func(w http.ResponseWriter, r *http.Request, token string)
}

type recordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Token    string
	Body     string
}

func newFakeGraph(t *testing.T, api func(w http.ResponseWriter, r *http.Request, token string)) *fakeGraph {
	t.Helper()

	fake := &fakeGraph{t: t, api: api, tokenStatus: http.StatusOK}
	fake.server = httptest.NewServer(http.HandlerFunc(fake.serve))
	t.Cleanup(fake.server.Close)

	return fake
}

func (f *fakeGraph) serve(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/"+testTenant+"/oauth2/token" {
		f.serveToken(w, r)

		return
	}

	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.apiCalls++
	f.requests = append(f.requests, &recordedRequest{
		Method:   r.Method,
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
		Token:    token,
		Body:     string(body),
	})
	f.mu.Unlock()

	f.api(w, r, token)
}

func (f *fakeGraph) serveToken(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()

	f.mu.Lock()
	f.tokenCalls++
	n := f.tokenCalls
	status := f.tokenStatus
	f.tokenForms = append(f.tokenForms, map[string]string{
		"client_id":     r.PostForm.Get("client_id"),
		"client_secret": r.PostForm.Get("client_secret"),
		"grant_type":    r.PostForm.Get("grant_type"),
		"resource":      r.PostForm.Get("resource"),
	})
	f.mu.Unlock()

	if status != http.StatusOK {
		writeJSON(w, status, map[string]string{
			"error":             "invalid_client",
			"error_description": "AADSTS70002: Error validating credentials.\r\nTrace ID: 1",
		})

		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"token_type":   "Bearer",
		"access_token": fmt.Sprintf("tok-%d", n),
		"expires_in":   "3599",
	})
}

func (f *fakeGraph) rejectCredentials() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.tokenStatus = http.StatusUnauthorized
}

func (f *fakeGraph) counts() (tokenCalls, apiCalls int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.tokenCalls, f.apiCalls
}

func (f *fakeGraph) forms() []map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]map[string]string(nil), f.tokenForms...)
}

func (f *fakeGraph) recorded() []*recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]*recordedRequest(nil), f.requests...)
}

func (f *fakeGraph) config() *graph.Config {
	return &graph.Config{
		Tenant:        testTenant,
		ClientID:      "client-id",
		ClientSecret:  "client-secret",
		APIEndpoint:   f.server.URL,
		LoginEndpoint: f.server.URL,
	}
}

func (f *fakeGraph) client() *client.Client {
	f.t.Helper()

	c, err := client.New(f.config())
	require.NoError(f.t, err)

	return c
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
