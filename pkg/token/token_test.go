package token_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tmplstore/pkg/token"
)

type statePayload struct {
	Nonce    string `json:"n"`
	Redirect string `json:"r,omitempty"`
}

func TestGenerateParse(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		tok, err := token.Generate(statePayload{Nonce: "abc", Redirect: "/templates"}, "secret", time.Minute)
		require.NoError(t, err)
		assert.NotContains(t, tok, "=")
		assert.NotContains(t, tok, "+")

		got, err := token.Parse[statePayload](tok, "secret")
		require.NoError(t, err)
		assert.Equal(t, statePayload{Nonce: "abc", Redirect: "/templates"}, got)
	})

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()
		tok, err := token.Generate(statePayload{Nonce: "abc"}, "secret", time.Minute)
		require.NoError(t, err)

		_, err = token.Parse[statePayload](tok, "other")
		assert.ErrorIs(t, err, token.ErrSignatureInvalid)
	})

	t.Run("tampered payload", func(t *testing.T) {
		t.Parallel()
		tok, err := token.Generate(statePayload{Nonce: "abc"}, "secret", time.Minute)
		require.NoError(t, err)
		other, err := token.Generate(statePayload{Nonce: "xyz"}, "secret", time.Minute)
		require.NoError(t, err)

		_, sig, _ := strings.Cut(tok, ".")
		payload, _, _ := strings.Cut(other, ".")

		_, err = token.Parse[statePayload](payload+"."+sig, "secret")
		assert.ErrorIs(t, err, token.ErrSignatureInvalid)
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()
		tok, err := token.Generate(statePayload{Nonce: "abc"}, "secret", -2*time.Second)
		require.NoError(t, err)

		_, err = token.Parse[statePayload](tok, "secret")
		assert.ErrorIs(t, err, token.ErrExpired)
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()
		for _, bad := range []string{"", "abc", ".", "abc.", "!!!.###"} {
			_, err := token.Parse[statePayload](bad, "secret")
			assert.ErrorIs(t, err, token.ErrInvalidToken, bad)
		}
	})

	t.Run("missing secret", func(t *testing.T) {
		t.Parallel()
		_, err := token.Generate(statePayload{}, "", time.Minute)
		assert.ErrorIs(t, err, token.ErrMissingSecret)
		_, err = token.Parse[statePayload]("a.b", "")
		assert.ErrorIs(t, err, token.ErrMissingSecret)
	})
}
