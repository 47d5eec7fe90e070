package auth_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tmplstore/pkg/auth"
)

func TestArgon2Hasher(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("hash is PHC encoded and salted", func(t *testing.T) {
		t.Parallel()
		h := fastHasher()

		first, err := h.Hash(ctx, "secret123")
		require.NoError(t, err)
		second, err := h.Hash(ctx, "secret123")
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(first, "$argon2id$v=19$m=64,t=1,p=1$"))
		assert.Len(t, strings.Split(first, "$"), 6)
		assert.NotEqual(t, first, second)
	})

	t.Run("verify accepts the right password only", func(t *testing.T) {
		t.Parallel()
		h := fastHasher()

		hash, err := h.Hash(ctx, "secret123")
		require.NoError(t, err)

		ok, err := h.Verify(ctx, hash, "secret123")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = h.Verify(ctx, hash, "secret124")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("verify reads params from the hash", func(t *testing.T) {
		t.Parallel()
		hash, err := fastHasher().Hash(ctx, "secret123")
		require.NoError(t, err)

		ok, err := auth.NewArgon2Hasher().Verify(ctx, hash, "secret123")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("malformed hashes never verify", func(t *testing.T) {
		t.Parallel()
		h := fastHasher()

		for _, hash := range []string{
			"",
			"plain",
			"$argon2i$v=19$m=64,t=1,p=1$c2FsdHNhbHRzYWx0$a2V5",
			"$argon2id$v=18$m=64,t=1,p=1$c2FsdHNhbHRzYWx0$a2V5",
			"$argon2id$v=19$m=x,t=1,p=1$c2FsdHNhbHRzYWx0$a2V5",
			"$argon2id$v=19$m=64,t=1,p=1$!!!$a2V5",
			"$argon2id$v=19$m=4294967295,t=1,p=1$c2FsdHNhbHRzYWx0$a2V5",
		} {
			ok, err := h.Verify(ctx, hash, "secret123")
			assert.NoError(t, err, hash)
			assert.False(t, ok, hash)
		}
	})

	t.Run("dummy verify succeeds", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, fastHasher().VerifyDummy(ctx, "whatever"))
	})
}
