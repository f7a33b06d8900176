package services

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/singleflight"

	"benchboard/internal/models"
	"benchboard/internal/openrouter"
	"benchboard/internal/repositories"
)

// CacheSweepReport counts what a sweep removed per entity class.
type CacheSweepReport struct {
	ModelsRemoved    int64 `json:"modelsRemoved"`
	EndpointsRemoved int64 `json:"endpointsRemoved"`
}

// CatalogService is the refresh orchestrator over the cached provider
// catalog. On a miss or expiry it fetches upstream and writes through the
// cache; for a given key at most one upstream fetch is in flight at a time,
// and concurrent callers await that single fetch's outcome.
//
// A failed refresh is reported as-is. Stale rows are never served as a
// fallback.
type CatalogService interface {
	ListModels(ctx context.Context) ([]models.CachedModel, error)
	GetModel(ctx context.Context, id string) (*models.CachedModel, error)
	ListEndpoints(ctx context.Context, modelID string) ([]models.CachedProviderEndpoint, error)
	RefreshModels(ctx context.Context) ([]models.CachedModel, error)
	RefreshEndpoints(ctx context.Context, modelID string) ([]models.CachedProviderEndpoint, error)
	InvalidateModel(ctx context.Context, id string) error
	InvalidateModels(ctx context.Context) error
	InvalidateEndpoints(ctx context.Context, modelID string) error
	SweepExpired(ctx context.Context) (CacheSweepReport, error)
}

type catalogService struct {
	api           openrouter.CatalogAPI
	modelCache    repositories.ModelCacheRepository
	endpointCache repositories.EndpointCacheRepository

	// flights coalesces concurrent refreshes per cache key. This is a
	// process-local thundering-herd guard; correctness under concurrent
	// writes is already carried by the store's atomic upsert.
	flights singleflight.Group
}

func NewCatalogService(api openrouter.CatalogAPI, modelCache repositories.ModelCacheRepository, endpointCache repositories.EndpointCacheRepository) CatalogService {
	return &catalogService{
		api:           api,
		modelCache:    modelCache,
		endpointCache: endpointCache,
	}
}

const modelsFlightKey = "models"

func endpointsFlightKey(modelID string) string { return "endpoints:" + modelID }

func (s *catalogService) ListModels(ctx context.Context) ([]models.CachedModel, error) {
	fresh, err := s.modelCache.AllFresh(ctx)
	if err != nil {
		return nil, err
	}
	// An empty fresh set is indistinguishable from a miss, so an upstream
	// that truly has zero models would be re-fetched on every call. The
	// catalog is never legitimately empty, so no per-class refresh marker
	// is kept to tell the two apart.
	if len(fresh) > 0 {
		return fresh, nil
	}
	return s.refreshModelsShared(ctx)
}

func (s *catalogService) GetModel(ctx context.Context, id string) (*models.CachedModel, error) {
	if id == "" {
		return nil, fmt.Errorf("model id is required")
	}
	m, err := s.modelCache.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if m != nil {
		return m, nil
	}
	if _, err := s.refreshModelsShared(ctx); err != nil {
		return nil, err
	}
	// Still absent after a successful refresh means the id is unknown
	// upstream, which reads as not-found, not as an error.
	return s.modelCache.Get(ctx, id)
}

func (s *catalogService) ListEndpoints(ctx context.Context, modelID string) ([]models.CachedProviderEndpoint, error) {
	if modelID == "" {
		return nil, fmt.Errorf("model id is required")
	}
	fresh, err := s.endpointCache.FreshForModel(ctx, modelID)
	if err != nil {
		return nil, err
	}
	// Empty means miss here too; a model with genuinely zero endpoints is
	// re-fetched on every call, same trade-off as ListModels.
	if len(fresh) > 0 {
		return fresh, nil
	}
	return s.refreshEndpointsShared(ctx, modelID)
}

func (s *catalogService) RefreshModels(ctx context.Context) ([]models.CachedModel, error) {
	return s.refreshModelsShared(ctx)
}

func (s *catalogService) RefreshEndpoints(ctx context.Context, modelID string) ([]models.CachedProviderEndpoint, error) {
	if modelID == "" {
		return nil, fmt.Errorf("model id is required")
	}
	return s.refreshEndpointsShared(ctx, modelID)
}

// refreshModelsShared fetches the model list upstream and writes it
// through the cache, coalescing concurrent callers onto one flight.
func (s *catalogService) refreshModelsShared(ctx context.Context) ([]models.CachedModel, error) {
	ch := s.flights.DoChan(modelsFlightKey, func() (any, error) {
		wire, err := s.api.ListModels(ctx)
		if err != nil {
			return nil, err
		}
		cached := make([]models.CachedModel, 0, len(wire))
		for _, m := range wire {
			cached = append(cached, m.ToCachedModel())
		}
		if err := s.modelCache.PutAll(ctx, cached); err != nil {
			return nil, fmt.Errorf("store models: %w", err)
		}
		log.Printf("catalog: refreshed %d models", len(cached))
		return cached, nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]models.CachedModel), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *catalogService) refreshEndpointsShared(ctx context.Context, modelID string) ([]models.CachedProviderEndpoint, error) {
	ch := s.flights.DoChan(endpointsFlightKey(modelID), func() (any, error) {
		wire, err := s.api.ListEndpoints(ctx, modelID)
		if err != nil {
			return nil, err
		}
		cached := make([]models.CachedProviderEndpoint, 0, len(wire))
		for _, e := range wire {
			cached = append(cached, e.ToCachedEndpoint(modelID))
		}
		if err := s.endpointCache.PutAll(ctx, cached); err != nil {
			return nil, fmt.Errorf("store endpoints: %w", err)
		}
		log.Printf("catalog: refreshed %d endpoints for %s", len(cached), modelID)
		return cached, nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]models.CachedProviderEndpoint), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *catalogService) InvalidateModel(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("model id is required")
	}
	return s.modelCache.Invalidate(ctx, id)
}

func (s *catalogService) InvalidateModels(ctx context.Context) error {
	return s.modelCache.InvalidateAll(ctx)
}

func (s *catalogService) InvalidateEndpoints(ctx context.Context, modelID string) error {
	if modelID == "" {
		return s.endpointCache.InvalidateAll(ctx)
	}
	return s.endpointCache.InvalidateModel(ctx, modelID)
}

func (s *catalogService) SweepExpired(ctx context.Context) (CacheSweepReport, error) {
	var report CacheSweepReport
	removed, err := s.modelCache.SweepExpired(ctx)
	if err != nil {
		return report, err
	}
	report.ModelsRemoved = removed
	removed, err = s.endpointCache.SweepExpired(ctx)
	if err != nil {
		return report, err
	}
	report.EndpointsRemoved = removed
	return report, nil
}
