package auth

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fivetwenty-io/aadgraph/pkg/graph"
)

// TokenManager manages the access token of one client.
type TokenManager interface {
	// GetToken returns the cached token, acquiring one if none is cached.
	GetToken(ctx context.Context) (string, error)
	// RefreshToken discards stale and acquires a replacement. If the cached
	// token already differs from stale, it is returned without a new
	// acquisition.
	RefreshToken(ctx context.Context, stale string) (string, error)
}

// OAuth2TokenManager caches a client-credentials token. Acquisition and
// refresh are serialized so concurrent callers never request more than one
// token for the same stale value.
type OAuth2TokenManager struct {
	provider     TokenProvider
	identity     ClientIdentity
	store        *TokenStore
	mutex        sync.Mutex
	checkExpiry  bool
	logger       graph.Logger
	acquisitions atomic.Int64
}

// ManagerOption configures an OAuth2TokenManager.
type ManagerOption func(*OAuth2TokenManager)

// WithExpiryCheck makes GetToken replace a cached token that is about to
// expire. Without it the cached token is used until the API rejects it.
func WithExpiryCheck(enabled bool) ManagerOption {
	return func(m *OAuth2TokenManager) {
		m.checkExpiry = enabled
	}
}

// WithManagerLogger sets the logger for acquisition events.
func WithManagerLogger(logger graph.Logger) ManagerOption {
	return func(m *OAuth2TokenManager) {
		m.logger = logger
	}
}

// NewOAuth2TokenManager creates a token manager for identity.
func NewOAuth2TokenManager(provider TokenProvider, identity ClientIdentity, opts ...ManagerOption) *OAuth2TokenManager {
	manager := &OAuth2TokenManager{
		provider: provider,
		identity: identity,
		store:    NewTokenStore(),
	}

	for _, opt := range opts {
		opt(manager)
	}

	return manager
}

// GetToken returns a usable access token, acquiring one if necessary.
func (m *OAuth2TokenManager) GetToken(ctx context.Context) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	token := m.store.Get()
	if m.usable(token) {
		return token.AccessToken, nil
	}

	return m.acquire(ctx)
}

// RefreshToken replaces stale with a newly acquired token.
func (m *OAuth2TokenManager) RefreshToken(ctx context.Context, stale string) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	current := m.store.Get()
	if current.Present() && current.AccessToken != stale {
		return current.AccessToken, nil
	}

	m.store.Clear()

	return m.acquire(ctx)
}

// SetToken manually sets the access token.
func (m *OAuth2TokenManager) SetToken(token string, expiresAt time.Time) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.store.Set(&Token{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	})
}

// Acquisitions returns how many tokens have been obtained from the provider.
func (m *OAuth2TokenManager) Acquisitions() int64 {
	return m.acquisitions.Load()
}

func (m *OAuth2TokenManager) usable(token *Token) bool {
	if m.checkExpiry {
		return token.Valid()
	}

	return token.Present()
}

// acquire must be called with m.mutex held.
func (m *OAuth2TokenManager) acquire(ctx context.Context) (string, error) {
	token, err := m.provider.AcquireToken(ctx, m.identity)
	if err != nil {
		return "", fmt.Errorf("failed to acquire token for tenant %s: %w", m.identity.Tenant, err)
	}

	m.store.Set(token)
	m.acquisitions.Add(1)

	if m.logger != nil {
		fields := map[string]interface{}{"tenant": m.identity.Tenant}
		if !token.ExpiresAt.IsZero() {
			fields["expires_at"] = token.ExpiresAt.Format(time.RFC3339)
		}

		m.logger.Debug("Acquired access token", fields)
	}

	return token.AccessToken, nil
}
