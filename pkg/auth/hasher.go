package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/sync/semaphore"
)

// Hasher hashes and verifies passwords.
type Hasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Verify(ctx context.Context, hash, plaintext string) (bool, error)
}

// Argon2Params are the Argon2id cost parameters. Memory is in KiB.
type Argon2Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2Params match hashes produced by the node argon2 package
// defaults, so existing password hashes keep verifying.
var DefaultArgon2Params = Argon2Params{
	Memory:      64 * 1024,
	Iterations:  3,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

// Argon2Hasher produces PHC-formatted Argon2id hashes:
//
//	$argon2id$v=19$m=65536,t=3,p=4$<salt>$<key>
//
// Each hash uses 64 MiB with default params, so concurrent hashing is
// bounded by a semaphore. Callers wait on ctx for a slot.
type Argon2Hasher struct {
	params Argon2Params
	sem    *semaphore.Weighted

	dummyMu sync.Mutex
	dummy   string
}

var _ Hasher = (*Argon2Hasher)(nil)

type HasherOption func(*Argon2Hasher)

func WithArgon2Params(p Argon2Params) HasherOption {
	return func(h *Argon2Hasher) { h.params = p }
}

// WithMaxConcurrentHashes bounds simultaneous hash computations.
// Defaults to GOMAXPROCS.
func WithMaxConcurrentHashes(n int64) HasherOption {
	return func(h *Argon2Hasher) {
		if n > 0 {
			h.sem = semaphore.NewWeighted(n)
		}
	}
}

func NewArgon2Hasher(opts ...HasherOption) *Argon2Hasher {
	h := &Argon2Hasher{params: DefaultArgon2Params}
	for _, opt := range opts {
		opt(h)
	}
	if h.sem == nil {
		h.sem = semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0)))
	}
	return h
}

func (h *Argon2Hasher) Hash(ctx context.Context, plaintext string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	key := argon2.IDKey([]byte(plaintext), salt, h.params.Iterations, h.params.Memory, h.params.Parallelism, h.params.KeyLength)
	h.sem.Release(1)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory, h.params.Iterations, h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify returns false for malformed or unsupported hashes. The only error
// is ctx ending while waiting for a hashing slot.
func (h *Argon2Hasher) Verify(ctx context.Context, hash, plaintext string) (bool, error) {
	p, salt, key, ok := decodeArgon2Hash(hash)
	if !ok {
		return false, nil
	}

	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	other := argon2.IDKey([]byte(plaintext), salt, p.Iterations, p.Memory, p.Parallelism, uint32(len(key)))
	h.sem.Release(1)

	return subtle.ConstantTimeCompare(key, other) == 1, nil
}

// VerifyDummy spends the same work as Verify against a real hash. Login
// calls it for unknown emails so response timing does not reveal whether
// an account exists.
func (h *Argon2Hasher) VerifyDummy(ctx context.Context, plaintext string) error {
	dummy, err := h.dummyHash(ctx)
	if err != nil {
		return fmt.Errorf("failed to prepare dummy hash: %w", err)
	}
	_, err = h.Verify(ctx, dummy, plaintext)
	return err
}

// dummyHash computes the reference hash on first use. A failed attempt is
// not cached, so the next call tries again.
func (h *Argon2Hasher) dummyHash(ctx context.Context) (string, error) {
	h.dummyMu.Lock()
	defer h.dummyMu.Unlock()
	if h.dummy != "" {
		return h.dummy, nil
	}
	hash, err := h.Hash(ctx, "dummy-password-for-timing")
	if err != nil {
		return "", err
	}
	h.dummy = hash
	return hash, nil
}

// maxArgon2Memory caps memory read from stored hashes (1 GiB) so a corrupt
// or hostile hash cannot exhaust the process.
const maxArgon2Memory = 1 << 20

func decodeArgon2Hash(encoded string) (Argon2Params, []byte, []byte, bool) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return Argon2Params{}, nil, nil, false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return Argon2Params{}, nil, nil, false
	}

	var p Argon2Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Iterations, &p.Parallelism); err != nil {
		return Argon2Params{}, nil, nil, false
	}
	if p.Memory == 0 || p.Memory > maxArgon2Memory || p.Iterations == 0 || p.Parallelism == 0 {
		return Argon2Params{}, nil, nil, false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return Argon2Params{}, nil, nil, false
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return Argon2Params{}, nil, nil, false
	}

	return p, salt, key, true
}
