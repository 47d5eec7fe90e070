package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tmplstore/pkg/cache"
	"github.com/dmitrymomot/tmplstore/svc/catalog"
)

func setup(t *testing.T, opts ...catalog.Option) (*catalog.Service, *MockTemplateStore, *MockFavoriteStore) {
	t.Helper()
	templates := &MockTemplateStore{}
	favorites := &MockFavoriteStore{}
	t.Cleanup(func() {
		templates.AssertExpectations(t)
		favorites.AssertExpectations(t)
	})
	return catalog.NewService(templates, favorites, opts...), templates, favorites
}

var (
	landing   = catalog.Template{ID: "t1", Name: "Landing Page", Category: "marketing"}
	dashboard = catalog.Template{ID: "t2", Name: "Admin Dashboard", Category: "admin"}
)

func TestService_Get(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("caches lookups", func(t *testing.T) {
		t.Parallel()
		svc, templates, _ := setup(t)
		templates.On("FindByID", mock.Anything, "t1").Return(&landing, nil).Once()

		for range 3 {
			got, err := svc.Get(ctx, "t1")
			require.NoError(t, err)
			assert.Equal(t, "Landing Page", got.Name)
		}
	})

	t.Run("invalidate drops cache", func(t *testing.T) {
		t.Parallel()
		svc, templates, _ := setup(t)
		templates.On("FindByID", mock.Anything, "t1").Return(&landing, nil).Twice()

		_, err := svc.Get(ctx, "t1")
		require.NoError(t, err)
		svc.Invalidate()
		_, err = svc.Get(ctx, "t1")
		require.NoError(t, err)
	})

	t.Run("without cache", func(t *testing.T) {
		t.Parallel()
		svc, templates, _ := setup(t, catalog.WithCache(nil))
		templates.On("FindByID", mock.Anything, "t1").Return(&landing, nil).Twice()

		_, err := svc.Get(ctx, "t1")
		require.NoError(t, err)
		_, err = svc.Get(ctx, "t1")
		require.NoError(t, err)
	})

	t.Run("not found is not cached", func(t *testing.T) {
		t.Parallel()
		svc, templates, _ := setup(t, catalog.WithCache(cache.NewLRUCache[string, catalog.Template](8)))
		templates.On("FindByID", mock.Anything, "nope").Return(nil, catalog.ErrTemplateNotFound).Twice()

		for range 2 {
			_, err := svc.Get(ctx, "nope")
			assert.ErrorIs(t, err, catalog.ErrTemplateNotFound)
		}
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		svc, templates, _ := setup(t)
		boom := errors.New("boom")
		templates.On("FindByID", mock.Anything, "t1").Return(nil, boom)

		_, err := svc.Get(ctx, "t1")
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, catalog.ErrTemplateNotFound)
	})
}

func TestService_Search(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("category wins over query", func(t *testing.T) {
		t.Parallel()
		idx := &MockSearchIndex{}
		svc, templates, _ := setup(t, catalog.WithSearchIndex(idx))
		templates.On("ListByCategory", mock.Anything, "admin").Return([]catalog.Template{dashboard}, nil)

		got, err := svc.Search(ctx, "landing", "admin")
		require.NoError(t, err)
		assert.Equal(t, []catalog.Template{dashboard}, got)
		idx.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
	})

	t.Run("query uses search index", func(t *testing.T) {
		t.Parallel()
		idx := &MockSearchIndex{}
		svc, _, _ := setup(t, catalog.WithSearchIndex(idx))
		idx.On("Search", mock.Anything, "landing").Return([]catalog.Template{landing}, nil)

		got, err := svc.Search(ctx, " landing ", "")
		require.NoError(t, err)
		assert.Equal(t, []catalog.Template{landing}, got)
		idx.AssertExpectations(t)
	})

	t.Run("neither returns all", func(t *testing.T) {
		t.Parallel()
		svc, templates, _ := setup(t)
		templates.On("List", mock.Anything).Return([]catalog.Template{dashboard, landing}, nil)

		got, err := svc.Search(ctx, "", "")
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("no backend", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := setup(t)
		_, err := svc.Search(ctx, "landing", "")
		assert.ErrorIs(t, err, catalog.ErrSearchFailed)
	})

	t.Run("backend failure", func(t *testing.T) {
		t.Parallel()
		idx := &MockSearchIndex{}
		svc, _, _ := setup(t, catalog.WithSearchIndex(idx))
		idx.On("Search", mock.Anything, "x").Return(nil, errors.New("cluster down"))

		_, err := svc.Search(ctx, "x", "")
		assert.ErrorIs(t, err, catalog.ErrSearchFailed)
	})
}

func TestService_Favorites(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("add requires existing template", func(t *testing.T) {
		t.Parallel()
		svc, templates, _ := setup(t)
		templates.On("FindByID", mock.Anything, "missing").Return(nil, catalog.ErrTemplateNotFound)

		err := svc.AddFavorite(ctx, "user-1", "missing")
		assert.ErrorIs(t, err, catalog.ErrTemplateNotFound)
	})

	t.Run("add and duplicate", func(t *testing.T) {
		t.Parallel()
		svc, templates, favorites := setup(t)
		templates.On("FindByID", mock.Anything, "t1").Return(&landing, nil).Once()
		favorites.On("Add", mock.Anything, "user-1", "t1").Return(nil).Once()
		favorites.On("Add", mock.Anything, "user-1", "t1").Return(catalog.ErrAlreadyFavorited).Once()

		require.NoError(t, svc.AddFavorite(ctx, "user-1", "t1"))
		assert.ErrorIs(t, svc.AddFavorite(ctx, "user-1", "t1"), catalog.ErrAlreadyFavorited)
	})

	t.Run("remove missing", func(t *testing.T) {
		t.Parallel()
		svc, _, favorites := setup(t)
		favorites.On("Remove", mock.Anything, "user-1", "t1").Return(catalog.ErrFavoriteNotFound)

		assert.ErrorIs(t, svc.RemoveFavorite(ctx, "user-1", "t1"), catalog.ErrFavoriteNotFound)
	})

	t.Run("list and check", func(t *testing.T) {
		t.Parallel()
		svc, _, favorites := setup(t)
		favorites.On("ListTemplates", mock.Anything, "user-1").Return([]catalog.Template{landing}, nil)
		favorites.On("Exists", mock.Anything, "user-1", "t1").Return(true, nil)

		got, err := svc.Favorites(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, []catalog.Template{landing}, got)

		ok, err := svc.IsFavorite(ctx, "user-1", "t1")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
