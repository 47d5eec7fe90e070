package catalog_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/tmplstore/svc/catalog"
)

type MockTemplateStore struct {
	mock.Mock
}

func (m *MockTemplateStore) List(ctx context.Context) ([]catalog.Template, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Template), args.Error(1)
}

func (m *MockTemplateStore) FindByID(ctx context.Context, id string) (*catalog.Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Template), args.Error(1)
}

func (m *MockTemplateStore) ListByCategory(ctx context.Context, category string) ([]catalog.Template, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Template), args.Error(1)
}

type MockSearchIndex struct {
	mock.Mock
}

func (m *MockSearchIndex) Search(ctx context.Context, query string) ([]catalog.Template, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Template), args.Error(1)
}

type MockFavoriteStore struct {
	mock.Mock
}

func (m *MockFavoriteStore) ListTemplates(ctx context.Context, userID string) ([]catalog.Template, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Template), args.Error(1)
}

func (m *MockFavoriteStore) Add(ctx context.Context, userID, templateID string) error {
	return m.Called(ctx, userID, templateID).Error(0)
}

func (m *MockFavoriteStore) Remove(ctx context.Context, userID, templateID string) error {
	return m.Called(ctx, userID, templateID).Error(0)
}

func (m *MockFavoriteStore) Exists(ctx context.Context, userID, templateID string) (bool, error) {
	args := m.Called(ctx, userID, templateID)
	return args.Bool(0), args.Error(1)
}
