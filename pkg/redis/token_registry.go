package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRegistryPrefix namespaces refresh token entries.
const DefaultRegistryPrefix = "refresh_token"

// TokenRegistry records which refresh tokens are still valid.
// Each token lives under "<prefix>:<identityID>:<tokenID>" with a TTL equal
// to the token lifetime, so entries disappear on their own once the token
// could no longer pass signature verification anyway.
type TokenRegistry struct {
	db            redis.UniversalClient
	prefix        string
	scanBatchSize int64
}

// RegistryOption configures a TokenRegistry.
type RegistryOption func(*TokenRegistry)

// WithKeyPrefix overrides DefaultRegistryPrefix.
func WithKeyPrefix(prefix string) RegistryOption {
	return func(r *TokenRegistry) {
		if prefix != "" {
			r.prefix = prefix
		}
	}
}

// WithScanBatchSize sets the SCAN COUNT hint used by DeleteAll.
func WithScanBatchSize(n int64) RegistryOption {
	return func(r *TokenRegistry) {
		if n > 0 {
			r.scanBatchSize = n
		}
	}
}

func NewTokenRegistry(client redis.UniversalClient, opts ...RegistryOption) *TokenRegistry {
	r := &TokenRegistry{
		db:            client,
		prefix:        DefaultRegistryPrefix,
		scanBatchSize: 1000,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Put records a token entry that expires after ttl.
func (r *TokenRegistry) Put(ctx context.Context, identityID, tokenID string, ttl time.Duration) error {
	if identityID == "" || tokenID == "" || ttl <= 0 {
		return ErrInvalidRegistryEntry
	}
	if err := r.db.Set(ctx, r.key(identityID, tokenID), time.Now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to store refresh token entry: %w", err)
	}
	return nil
}

// Exists reports whether the entry is present and unexpired.
func (r *TokenRegistry) Exists(ctx context.Context, identityID, tokenID string) (bool, error) {
	if identityID == "" || tokenID == "" {
		return false, nil
	}
	n, err := r.db.Exists(ctx, r.key(identityID, tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check refresh token entry: %w", err)
	}
	return n > 0, nil
}

// Delete removes a single entry. Missing entries are not an error.
func (r *TokenRegistry) Delete(ctx context.Context, identityID, tokenID string) error {
	if identityID == "" || tokenID == "" {
		return nil
	}
	if err := r.db.Del(ctx, r.key(identityID, tokenID)).Err(); err != nil {
		return fmt.Errorf("failed to delete refresh token entry: %w", err)
	}
	return nil
}

// DeleteAll removes every entry of the identity. SCAN is used instead of
// KEYS so a large keyspace never blocks the server.
func (r *TokenRegistry) DeleteAll(ctx context.Context, identityID string) error {
	if identityID == "" {
		return nil
	}

	pattern := r.prefix + ":" + escapeGlob(identityID) + ":*"
	var cursor uint64
	for {
		keys, next, err := r.db.Scan(ctx, cursor, pattern, r.scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("failed to scan refresh token entries: %w", err)
		}
		if len(keys) > 0 {
			if err := r.db.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete refresh token entries: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (r *TokenRegistry) key(identityID, tokenID string) string {
	return r.prefix + ":" + identityID + ":" + tokenID
}

func escapeGlob(s string) string {
	return strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`).Replace(s)
}
