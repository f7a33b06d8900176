package unit_tests

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"benchboard/internal/services"
)

func loadedBenchmarkCatalog(t *testing.T) services.BenchmarkCatalogService {
	t.Helper()
	svc := services.NewBenchmarkCatalogService()
	require.NoError(t, svc.Startup(context.Background()))
	return svc
}

func TestBenchmarkCatalog_ListGroupsIsSortedByCategory(t *testing.T) {
	svc := loadedBenchmarkCatalog(t)

	groups, err := svc.ListGroups()
	require.NoError(t, err)
	require.NotEmpty(t, groups)

	categories := make([]string, 0, len(groups))
	for _, g := range groups {
		assert.NotEmpty(t, g.Benchmarks, "category %q has no benchmarks", g.Category)
		categories = append(categories, g.Category)
	}
	assert.True(t, sort.StringsAreSorted(categories))
}

func TestBenchmarkCatalog_ListGroupsBeforeStartupFails(t *testing.T) {
	svc := services.NewBenchmarkCatalogService()
	_, err := svc.ListGroups()
	require.Error(t, err)
}

func TestBenchmarkCatalog_GetKnownBenchmark(t *testing.T) {
	svc := loadedBenchmarkCatalog(t)

	b, err := svc.Get("gsm8k")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, "gsm8k", b.ID)
	assert.NotEmpty(t, b.Name)
	assert.NotEmpty(t, b.InspectTask)
}

func TestBenchmarkCatalog_GetUnknownReturnsNil(t *testing.T) {
	svc := loadedBenchmarkCatalog(t)

	b, err := svc.Get("no-such-benchmark")
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestBenchmarkCatalog_Known(t *testing.T) {
	svc := loadedBenchmarkCatalog(t)

	assert.True(t, svc.Known("mmlu"))
	assert.True(t, svc.Known(" mmlu "), "ids are trimmed before lookup")
	assert.False(t, svc.Known("no-such-benchmark"))
}
