package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/tmplstore/pkg/cache"
	"github.com/dmitrymomot/tmplstore/pkg/logger"
)

const (
	DefaultCacheSize = 256
	DefaultCacheTTL  = 5 * time.Minute
)

// Service serves the template catalogue and user favorites.
type Service struct {
	templates TemplateStore
	favorites FavoriteStore
	search    SearchIndex
	cache     *cache.LRUCache[string, Template]
	logger    *slog.Logger
}

type Option func(*Service)

// WithSearchIndex sets the full-text backend. Without it the template store
// is used when it implements SearchIndex.
func WithSearchIndex(idx SearchIndex) Option {
	return func(s *Service) {
		if idx != nil {
			s.search = idx
		}
	}
}

// WithCache sets the template lookup cache. A nil cache disables caching.
func WithCache(c *cache.LRUCache[string, Template]) Option {
	return func(s *Service) { s.cache = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewService(templates TemplateStore, favorites FavoriteStore, opts ...Option) *Service {
	s := &Service{
		templates: templates,
		favorites: favorites,
		cache:     cache.NewLRUCache[string, Template](DefaultCacheSize, cache.WithTTL(DefaultCacheTTL)),
		logger:    logger.Discard(),
	}
	if idx, ok := templates.(SearchIndex); ok {
		s.search = idx
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("catalog"))
	return s
}

// List returns every template, newest first.
func (s *Service) List(ctx context.Context) ([]Template, error) {
	templates, err := s.templates.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

// Get returns a template by id.
func (s *Service) Get(ctx context.Context, id string) (*Template, error) {
	if s.cache != nil {
		if t, ok := s.cache.Get(id); ok {
			return &t, nil
		}
	}

	t, err := s.templates.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	if s.cache != nil {
		s.cache.Put(id, *t)
	}
	return t, nil
}

// Search filters by category when given, otherwise runs a full-text query.
// With neither it returns every template.
func (s *Service) Search(ctx context.Context, query, category string) ([]Template, error) {
	query = strings.TrimSpace(query)
	category = strings.TrimSpace(category)

	switch {
	case category != "":
		templates, err := s.templates.ListByCategory(ctx, category)
		if err != nil {
			return nil, fmt.Errorf("failed to list templates by category: %w", err)
		}
		return templates, nil
	case query != "":
		if s.search == nil {
			return nil, fmt.Errorf("%w: no search backend configured", ErrSearchFailed)
		}
		templates, err := s.search.Search(ctx, query)
		if err != nil {
			s.logger.ErrorContext(ctx, "template search failed", logger.Error(err))
			return nil, errors.Join(ErrSearchFailed, err)
		}
		return templates, nil
	default:
		return s.List(ctx)
	}
}

// Favorites returns the user's favorite templates, most recent first.
func (s *Service) Favorites(ctx context.Context, userID string) ([]Template, error) {
	templates, err := s.favorites.ListTemplates(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return templates, nil
}

// AddFavorite requires the template to exist.
func (s *Service) AddFavorite(ctx context.Context, userID, templateID string) error {
	if _, err := s.Get(ctx, templateID); err != nil {
		return err
	}

	if err := s.favorites.Add(ctx, userID, templateID); err != nil {
		if errors.Is(err, ErrAlreadyFavorited) {
			return ErrAlreadyFavorited
		}
		return fmt.Errorf("failed to add favorite: %w", err)
	}

	s.logger.InfoContext(ctx, "favorite added",
		logger.IdentityID(userID), logger.TemplateID(templateID), logger.Event("favorite_added"))
	return nil
}

func (s *Service) RemoveFavorite(ctx context.Context, userID, templateID string) error {
	if err := s.favorites.Remove(ctx, userID, templateID); err != nil {
		if errors.Is(err, ErrFavoriteNotFound) {
			return ErrFavoriteNotFound
		}
		return fmt.Errorf("failed to remove favorite: %w", err)
	}

	s.logger.InfoContext(ctx, "favorite removed",
		logger.IdentityID(userID), logger.TemplateID(templateID), logger.Event("favorite_removed"))
	return nil
}

func (s *Service) IsFavorite(ctx context.Context, userID, templateID string) (bool, error) {
	ok, err := s.favorites.Exists(ctx, userID, templateID)
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return ok, nil
}

// Invalidate drops cached lookups, e.g. after the catalogue was reseeded.
func (s *Service) Invalidate() {
	if s.cache != nil {
		s.cache.Clear()
	}
}
