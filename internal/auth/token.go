// Package auth acquires and caches the bearer token used by the directory
// client.
package auth

import (
	"sync"
	"time"

	"github.com/fivetwenty-io/aadgraph/internal/constants"
)

// Token represents an OAuth2 access token.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at,omitempty"`
}

// Present reports whether the token carries an access token at all.
func (t *Token) Present() bool {
	return t != nil && t.AccessToken != ""
}

// Valid checks if the token is present and not about to expire. A token
// without an expiry never expires.
func (t *Token) Valid() bool {
	if !t.Present() {
		return false
	}

	if t.ExpiresAt.IsZero() {
		return true
	}

	return time.Now().Add(constants.TokenExpirationBuffer).Before(t.ExpiresAt)
}

// TokenStore provides thread-safe token storage.
type TokenStore struct {
	mu    sync.RWMutex
	token *Token
}

// NewTokenStore creates a new token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get returns a copy of the current token, or nil.
func (s *TokenStore) Get() *Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.token == nil {
		return nil
	}

	token := *s.token

	return &token
}

// Set replaces the stored token.
func (s *TokenStore) Set(token *Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token == nil {
		s.token = nil

		return
	}

	stored := *token
	s.token = &stored
}

// Clear removes the stored token.
func (s *TokenStore) Clear() {
	s.Set(nil)
}
