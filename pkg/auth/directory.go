package auth

import "context"

// Directory stores identities. Implementations return ErrIdentityNotFound
// for missing records. Create returns ErrEmailAlreadyExists on the unique
// email index and ErrExternalAccountConflict on the unique external id index.
type Directory interface {
	// Create assigns ID, CreatedAt and UpdatedAt.
	Create(ctx context.Context, identity *Identity) error
	FindByID(ctx context.Context, id string) (*Identity, error)
	FindByEmail(ctx context.Context, email string) (*Identity, error)
	FindByExternalID(ctx context.Context, externalID string) (*Identity, error)
	// LinkExternalID binds externalID to the identity unless a different
	// external id is already bound, in which case it returns
	// ErrExternalAccountConflict. The check and the write are one atomic step.
	LinkExternalID(ctx context.Context, id, externalID string) (*Identity, error)
}
