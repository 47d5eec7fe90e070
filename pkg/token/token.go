package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// signatureLength is the number of HMAC-SHA256 bytes kept in the token.
const signatureLength = 16

type envelope[T any] struct {
	Payload   T     `json:"p"`
	ExpiresAt int64 `json:"e"`
}

// Generate encodes payload as JSON, stamps an expiry of now+ttl and appends a
// truncated HMAC-SHA256 signature. The result is URL safe.
func Generate[T any](payload T, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrMissingSecret
	}

	data, err := json.Marshal(envelope[T]{Payload: payload, ExpiresAt: time.Now().Add(ttl).Unix()})
	if err != nil {
		return "", fmt.Errorf("failed to encode token payload: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(data) + "." +
		base64.RawURLEncoding.EncodeToString(sign(data, secret)), nil
}

// Parse verifies the signature and expiry and decodes the payload.
func Parse[T any](token, secret string) (T, error) {
	var zero T
	if secret == "" {
		return zero, ErrMissingSecret
	}

	payloadPart, sigPart, ok := strings.Cut(token, ".")
	if !ok || payloadPart == "" || sigPart == "" {
		return zero, ErrInvalidToken
	}

	data, err := base64.RawURLEncoding.DecodeString(payloadPart)
	if err != nil {
		return zero, ErrInvalidToken
	}
	sig, err := base64.RawURLEncoding.DecodeString(sigPart)
	if err != nil {
		return zero, ErrInvalidToken
	}

	if subtle.ConstantTimeCompare(sig, sign(data, secret)) != 1 {
		return zero, ErrSignatureInvalid
	}

	var env envelope[T]
	if err := json.Unmarshal(data, &env); err != nil {
		return zero, ErrInvalidToken
	}
	if time.Now().Unix() > env.ExpiresAt {
		return zero, ErrExpired
	}

	return env.Payload, nil
}

func sign(data []byte, secret string) []byte {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(data)
	return h.Sum(nil)[:signatureLength]
}
