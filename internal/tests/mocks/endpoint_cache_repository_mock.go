package mocks

import (
	"context"

	"benchboard/internal/models"
)

type EndpointCacheRepositoryMock struct {
	GetFunc             func(ctx context.Context, modelID, providerName string) (*models.CachedProviderEndpoint, error)
	FreshForModelFunc   func(ctx context.Context, modelID string) ([]models.CachedProviderEndpoint, error)
	AllFreshFunc        func(ctx context.Context) ([]models.CachedProviderEndpoint, error)
	PutFunc             func(ctx context.Context, e *models.CachedProviderEndpoint) error
	PutAllFunc          func(ctx context.Context, es []models.CachedProviderEndpoint) error
	InvalidateModelFunc func(ctx context.Context, modelID string) error
	InvalidateAllFunc   func(ctx context.Context) error
	SweepExpiredFunc    func(ctx context.Context) (int64, error)
}

func (m *EndpointCacheRepositoryMock) Get(ctx context.Context, modelID, providerName string) (*models.CachedProviderEndpoint, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, modelID, providerName)
	}
	return nil, nil
}

func (m *EndpointCacheRepositoryMock) FreshForModel(ctx context.Context, modelID string) ([]models.CachedProviderEndpoint, error) {
	if m.FreshForModelFunc != nil {
		return m.FreshForModelFunc(ctx, modelID)
	}
	return []models.CachedProviderEndpoint{}, nil
}

func (m *EndpointCacheRepositoryMock) AllFresh(ctx context.Context) ([]models.CachedProviderEndpoint, error) {
	if m.AllFreshFunc != nil {
		return m.AllFreshFunc(ctx)
	}
	return []models.CachedProviderEndpoint{}, nil
}

func (m *EndpointCacheRepositoryMock) Put(ctx context.Context, e *models.CachedProviderEndpoint) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, e)
	}
	return nil
}

func (m *EndpointCacheRepositoryMock) PutAll(ctx context.Context, es []models.CachedProviderEndpoint) error {
	if m.PutAllFunc != nil {
		return m.PutAllFunc(ctx, es)
	}
	return nil
}

func (m *EndpointCacheRepositoryMock) InvalidateModel(ctx context.Context, modelID string) error {
	if m.InvalidateModelFunc != nil {
		return m.InvalidateModelFunc(ctx, modelID)
	}
	return nil
}

func (m *EndpointCacheRepositoryMock) InvalidateAll(ctx context.Context) error {
	if m.InvalidateAllFunc != nil {
		return m.InvalidateAllFunc(ctx)
	}
	return nil
}

func (m *EndpointCacheRepositoryMock) SweepExpired(ctx context.Context) (int64, error) {
	if m.SweepExpiredFunc != nil {
		return m.SweepExpiredFunc(ctx)
	}
	return 0, nil
}
