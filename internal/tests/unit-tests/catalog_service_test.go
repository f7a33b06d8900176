package unit_tests

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"benchboard/internal/models"
	"benchboard/internal/openrouter"
	"benchboard/internal/services"
	"benchboard/internal/tests/mocks"
)

func TestCatalogService_ListModels_ServesFreshCache(t *testing.T) {
	var apiCalls atomic.Int32
	api := &mocks.CatalogAPIMock{
		ListModelsFunc: func(ctx context.Context) ([]openrouter.Model, error) {
			apiCalls.Add(1)
			return nil, nil
		},
	}
	modelCache := &mocks.ModelCacheRepositoryMock{
		AllFreshFunc: func(ctx context.Context) ([]models.CachedModel, error) {
			return []models.CachedModel{{ID: "cached"}}, nil
		},
	}
	svc := services.NewCatalogService(api, modelCache, &mocks.EndpointCacheRepositoryMock{})

	list, err := svc.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "cached", list[0].ID)
	assert.Zero(t, apiCalls.Load(), "a fresh cache never reaches upstream")
}

func TestCatalogService_ListModels_RefreshesOnMiss(t *testing.T) {
	var stored []models.CachedModel
	api := &mocks.CatalogAPIMock{
		ListModelsFunc: func(ctx context.Context) ([]openrouter.Model, error) {
			return []openrouter.Model{
				{ID: "openai/gpt-4o", Name: "GPT-4o", ContextLength: 128000},
			}, nil
		},
	}
	modelCache := &mocks.ModelCacheRepositoryMock{
		PutAllFunc: func(ctx context.Context, ms []models.CachedModel) error {
			stored = ms
			return nil
		},
	}
	svc := services.NewCatalogService(api, modelCache, &mocks.EndpointCacheRepositoryMock{})

	list, err := svc.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "openai/gpt-4o", list[0].ID)
	require.Len(t, stored, 1, "refresh writes through the cache")
	assert.Equal(t, 128000, stored[0].ContextLength)
}

func TestCatalogService_ListModels_CoalescesConcurrentRefreshes(t *testing.T) {
	var apiCalls atomic.Int32
	release := make(chan struct{})
	api := &mocks.CatalogAPIMock{
		ListModelsFunc: func(ctx context.Context) ([]openrouter.Model, error) {
			apiCalls.Add(1)
			<-release
			return []openrouter.Model{{ID: "shared"}}, nil
		},
	}
	svc := services.NewCatalogService(api, &mocks.ModelCacheRepositoryMock{}, &mocks.EndpointCacheRepositoryMock{})

	const callers = 50
	var started, done sync.WaitGroup
	results := make([][]models.CachedModel, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		started.Add(1)
		done.Add(1)
		go func(i int) {
			defer done.Done()
			started.Done()
			results[i], errs[i] = svc.ListModels(context.Background())
		}(i)
	}
	started.Wait()
	time.Sleep(50 * time.Millisecond)
	close(release)
	done.Wait()

	assert.Equal(t, int32(1), apiCalls.Load(), "one upstream fetch for 50 concurrent lookups")
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		require.Len(t, results[i], 1)
		assert.Equal(t, "shared", results[i][0].ID)
	}
}

func TestCatalogService_EmptyUpstreamIsTreatedAsMiss(t *testing.T) {
	var apiCalls atomic.Int32
	api := &mocks.CatalogAPIMock{
		ListModelsFunc: func(ctx context.Context) ([]openrouter.Model, error) {
			apiCalls.Add(1)
			return []openrouter.Model{}, nil
		},
	}
	svc := services.NewCatalogService(api, &mocks.ModelCacheRepositoryMock{}, &mocks.EndpointCacheRepositoryMock{})

	for i := 0; i < 2; i++ {
		list, err := svc.ListModels(context.Background())
		require.NoError(t, err)
		assert.Empty(t, list)
	}
	// Zero cached entries read as a miss, so each call goes upstream again.
	assert.Equal(t, int32(2), apiCalls.Load())
}

func TestCatalogService_RefreshFailureIsNotMasked(t *testing.T) {
	var putCalls atomic.Int32
	api := &mocks.CatalogAPIMock{
		ListModelsFunc: func(ctx context.Context) ([]openrouter.Model, error) {
			return nil, assert.AnError
		},
	}
	modelCache := &mocks.ModelCacheRepositoryMock{
		PutAllFunc: func(ctx context.Context, ms []models.CachedModel) error {
			putCalls.Add(1)
			return nil
		},
	}
	svc := services.NewCatalogService(api, modelCache, &mocks.EndpointCacheRepositoryMock{})

	_, err := svc.ListModels(context.Background())
	require.ErrorIs(t, err, assert.AnError)
	assert.Zero(t, putCalls.Load(), "a failed fetch writes nothing")
}

func TestCatalogService_GetModel_UnknownAfterRefreshIsAbsent(t *testing.T) {
	api := &mocks.CatalogAPIMock{
		ListModelsFunc: func(ctx context.Context) ([]openrouter.Model, error) {
			return []openrouter.Model{{ID: "known"}}, nil
		},
	}
	svc := services.NewCatalogService(api, &mocks.ModelCacheRepositoryMock{}, &mocks.EndpointCacheRepositoryMock{})

	got, err := svc.GetModel(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCatalogService_ListEndpoints_RefreshesPerModel(t *testing.T) {
	var stored []models.CachedProviderEndpoint
	api := &mocks.CatalogAPIMock{
		ListEndpointsFunc: func(ctx context.Context, modelID string) ([]openrouter.Endpoint, error) {
			assert.Equal(t, "meta/llama-3-70b", modelID)
			return []openrouter.Endpoint{
				{ProviderName: "DeepInfra", Status: 0, UptimeLast30m: 99.4},
			}, nil
		},
	}
	endpointCache := &mocks.EndpointCacheRepositoryMock{
		PutAllFunc: func(ctx context.Context, es []models.CachedProviderEndpoint) error {
			stored = es
			return nil
		},
	}
	svc := services.NewCatalogService(api, &mocks.ModelCacheRepositoryMock{}, endpointCache)

	endpoints, err := svc.ListEndpoints(context.Background(), "meta/llama-3-70b")
	require.NoError(t, err)
	require.Len(t, endpoints, 1)
	assert.Equal(t, "DeepInfra", endpoints[0].ProviderName)
	require.Len(t, stored, 1)
	assert.Equal(t, "meta/llama-3-70b", stored[0].ModelID)
	assert.Equal(t, 99.4, stored[0].Uptime30m)
}

func TestCatalogService_SweepExpiredReportsPerClass(t *testing.T) {
	modelCache := &mocks.ModelCacheRepositoryMock{
		SweepExpiredFunc: func(ctx context.Context) (int64, error) { return 3, nil },
	}
	endpointCache := &mocks.EndpointCacheRepositoryMock{
		SweepExpiredFunc: func(ctx context.Context) (int64, error) { return 7, nil },
	}
	svc := services.NewCatalogService(&mocks.CatalogAPIMock{}, modelCache, endpointCache)

	report, err := svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), report.ModelsRemoved)
	assert.Equal(t, int64(7), report.EndpointsRemoved)
}
