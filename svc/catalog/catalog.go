package catalog

import (
	"context"
	"time"
)

// Template is one item of the marketplace.
type Template struct {
	ID           string    `json:"id" yaml:"-"`
	Name         string    `json:"name" yaml:"name"`
	Description  string    `json:"description" yaml:"description"`
	ThumbnailURL string    `json:"thumbnail_url" yaml:"thumbnail_url"`
	Category     string    `json:"category" yaml:"category"`
	CreatedAt    time.Time `json:"createdAt" yaml:"-"`
	UpdatedAt    time.Time `json:"updatedAt" yaml:"-"`
}

// TemplateStore reads templates. Lists are ordered newest first.
type TemplateStore interface {
	List(ctx context.Context) ([]Template, error)
	// FindByID returns ErrTemplateNotFound for unknown or malformed ids.
	FindByID(ctx context.Context, id string) (*Template, error)
	ListByCategory(ctx context.Context, category string) ([]Template, error)
}

// SearchIndex runs full-text queries over name and description.
type SearchIndex interface {
	Search(ctx context.Context, query string) ([]Template, error)
}

// FavoriteStore keeps the (user, template) favorite pairs.
type FavoriteStore interface {
	// ListTemplates returns the user's favorite templates, most recently
	// added first. Favorites pointing at deleted templates are skipped.
	ListTemplates(ctx context.Context, userID string) ([]Template, error)
	// Add returns ErrAlreadyFavorited when the pair exists.
	Add(ctx context.Context, userID, templateID string) error
	// Remove returns ErrFavoriteNotFound when the pair does not exist.
	Remove(ctx context.Context, userID, templateID string) error
	Exists(ctx context.Context, userID, templateID string) (bool, error)
}
