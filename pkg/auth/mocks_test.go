package auth_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/tmplstore/pkg/auth"
)

// MockDirectory is a mock implementation of auth.Directory.
type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) Create(ctx context.Context, identity *auth.Identity) error {
	args := m.Called(ctx, identity)
	return args.Error(0)
}

func (m *MockDirectory) FindByID(ctx context.Context, id string) (*auth.Identity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Identity), args.Error(1)
}

func (m *MockDirectory) FindByEmail(ctx context.Context, email string) (*auth.Identity, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Identity), args.Error(1)
}

func (m *MockDirectory) FindByExternalID(ctx context.Context, externalID string) (*auth.Identity, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Identity), args.Error(1)
}

func (m *MockDirectory) LinkExternalID(ctx context.Context, id, externalID string) (*auth.Identity, error) {
	args := m.Called(ctx, id, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Identity), args.Error(1)
}

// fastHasher keeps argon2 cheap in tests.
func fastHasher() *auth.Argon2Hasher {
	return auth.NewArgon2Hasher(auth.WithArgon2Params(auth.Argon2Params{
		Memory:      64,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}))
}

const testSecret = "0123456789abcdef0123456789abcdef"

func testTokenConfig() auth.TokenConfig {
	return auth.TokenConfig{
		Secret:     testSecret,
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
		Issuer:     "tmplstore",
		Audience:   "tmplstore-api",
	}
}
