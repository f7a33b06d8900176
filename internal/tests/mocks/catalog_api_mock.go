package mocks

import (
	"context"

	"benchboard/internal/openrouter"
)

type CatalogAPIMock struct {
	ListModelsFunc    func(ctx context.Context) ([]openrouter.Model, error)
	ListEndpointsFunc func(ctx context.Context, modelID string) ([]openrouter.Endpoint, error)
}

func (m *CatalogAPIMock) ListModels(ctx context.Context) ([]openrouter.Model, error) {
	if m.ListModelsFunc != nil {
		return m.ListModelsFunc(ctx)
	}
	return []openrouter.Model{}, nil
}

func (m *CatalogAPIMock) ListEndpoints(ctx context.Context, modelID string) ([]openrouter.Endpoint, error) {
	if m.ListEndpointsFunc != nil {
		return m.ListEndpointsFunc(ctx, modelID)
	}
	return []openrouter.Endpoint{}, nil
}
