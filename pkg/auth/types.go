package auth

import "time"

// Identity is one account. It always has a password hash, an external id,
// or both.
type Identity struct {
	ID           string
	Email        string // lower-cased, unique
	PasswordHash string // empty for accounts created through OAuth
	Name         string
	ExternalID   string // OAuth subject id
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the identity can sign in with a password.
func (i *Identity) HasPassword() bool { return i.PasswordHash != "" }

// Public returns the projection safe to send to clients.
func (i *Identity) Public() PublicIdentity {
	return PublicIdentity{
		ID:        i.ID,
		Email:     i.Email,
		Name:      i.Name,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

// PublicIdentity never carries the password hash or the external id.
type PublicIdentity struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ExternalProfile is what an OAuth provider tells us about a user.
type ExternalProfile struct {
	Provider      string // e.g. "google"
	ProviderID    string
	Email         string
	EmailVerified bool
	Name          string
}

// Token is a signed token with its identifier and expiry.
type Token struct {
	Value     string
	ID        string
	ExpiresAt time.Time
}

// AuthOutcome is returned by every successful sign-in flow.
type AuthOutcome struct {
	AccessToken  string         `json:"accessToken"`
	RefreshToken string         `json:"refreshToken,omitempty"`
	User         PublicIdentity `json:"user"`
}

// RefreshOutcome is returned by Refresh. RefreshToken is set only when
// rotation is enabled.
type RefreshOutcome struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}
