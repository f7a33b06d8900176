package mocks

import (
	"context"

	"benchboard/internal/models"
)

type ModelCacheRepositoryMock struct {
	GetFunc           func(ctx context.Context, id string) (*models.CachedModel, error)
	AllFreshFunc      func(ctx context.Context) ([]models.CachedModel, error)
	PutFunc           func(ctx context.Context, m *models.CachedModel) error
	PutAllFunc        func(ctx context.Context, ms []models.CachedModel) error
	InvalidateFunc    func(ctx context.Context, id string) error
	InvalidateAllFunc func(ctx context.Context) error
	SweepExpiredFunc  func(ctx context.Context) (int64, error)
}

func (m *ModelCacheRepositoryMock) Get(ctx context.Context, id string) (*models.CachedModel, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, nil
}

func (m *ModelCacheRepositoryMock) AllFresh(ctx context.Context) ([]models.CachedModel, error) {
	if m.AllFreshFunc != nil {
		return m.AllFreshFunc(ctx)
	}
	return []models.CachedModel{}, nil
}

func (m *ModelCacheRepositoryMock) Put(ctx context.Context, cached *models.CachedModel) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, cached)
	}
	return nil
}

func (m *ModelCacheRepositoryMock) PutAll(ctx context.Context, ms []models.CachedModel) error {
	if m.PutAllFunc != nil {
		return m.PutAllFunc(ctx, ms)
	}
	return nil
}

func (m *ModelCacheRepositoryMock) Invalidate(ctx context.Context, id string) error {
	if m.InvalidateFunc != nil {
		return m.InvalidateFunc(ctx, id)
	}
	return nil
}

func (m *ModelCacheRepositoryMock) InvalidateAll(ctx context.Context) error {
	if m.InvalidateAllFunc != nil {
		return m.InvalidateAllFunc(ctx)
	}
	return nil
}

func (m *ModelCacheRepositoryMock) SweepExpired(ctx context.Context) (int64, error) {
	if m.SweepExpiredFunc != nil {
		return m.SweepExpiredFunc(ctx)
	}
	return 0, nil
}
