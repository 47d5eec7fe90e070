package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgon2Hasher_DummyHashRetriesAfterFailure(t *testing.T) {
	t.Parallel()

	h := NewArgon2Hasher(
		WithArgon2Params(Argon2Params{Memory: 64, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}),
		WithMaxConcurrentHashes(1),
	)

	// Hold the only hashing slot so the first attempt cannot compute the hash.
	require.NoError(t, h.sem.Acquire(context.Background(), 1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, h.VerifyDummy(ctx, "whatever"))
	assert.Empty(t, h.dummy)

	h.sem.Release(1)
	require.NoError(t, h.VerifyDummy(context.Background(), "whatever"))
	assert.NotEmpty(t, h.dummy)
}
