package auth

import (
	"context"
	"sync"
	"time"
)

// RevocationRegistry records which refresh tokens are still valid. A
// refresh token verifies only while its entry exists. pkg/redis.TokenRegistry
// is the production implementation.
type RevocationRegistry interface {
	Put(ctx context.Context, identityID, tokenID string, ttl time.Duration) error
	Exists(ctx context.Context, identityID, tokenID string) (bool, error)
	Delete(ctx context.Context, identityID, tokenID string) error
	DeleteAll(ctx context.Context, identityID string) error
}

// MemoryRegistry is an in-process RevocationRegistry for tests and
// single-instance development setups.
type MemoryRegistry struct {
	mu      sync.Mutex
	entries map[string]map[string]time.Time // identity -> jti -> expiry
	now     func() time.Time
}

var _ RevocationRegistry = (*MemoryRegistry)(nil)

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{entries: make(map[string]map[string]time.Time), now: time.Now}
}

func (m *MemoryRegistry) Put(_ context.Context, identityID, tokenID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tokens, ok := m.entries[identityID]
	if !ok {
		tokens = make(map[string]time.Time)
		m.entries[identityID] = tokens
	}
	tokens[tokenID] = m.now().Add(ttl)
	return nil
}

func (m *MemoryRegistry) Exists(_ context.Context, identityID, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	exp, ok := m.entries[identityID][tokenID]
	if !ok {
		return false, nil
	}
	if !m.now().Before(exp) {
		delete(m.entries[identityID], tokenID)
		return false, nil
	}
	return true, nil
}

func (m *MemoryRegistry) Delete(_ context.Context, identityID, tokenID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries[identityID], tokenID)
	return nil
}

func (m *MemoryRegistry) DeleteAll(_ context.Context, identityID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, identityID)
	return nil
}
