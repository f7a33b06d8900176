package services

import (
	"time"

	"gorm.io/gorm"

	"benchboard/internal/openrouter"
	"benchboard/internal/repositories"
)

// Services aggregates all domain services backed by the database and the
// upstream catalog API.
type Services struct {
	Catalog    CatalogService
	Results    ResultService
	Benchmarks BenchmarkCatalogService
}

// TTLs carries the per-class cache expiration windows.
type TTLs struct {
	Model    time.Duration
	Endpoint time.Duration
}

// NewServices constructs the service container using repositories backed
// by db and the given upstream client.
func NewServices(db *gorm.DB, api openrouter.CatalogAPI, ttls TTLs) *Services {
	modelCache := repositories.NewModelCacheRepository(db, ttls.Model)
	endpointCache := repositories.NewEndpointCacheRepository(db, ttls.Endpoint)
	resultRepo := repositories.NewEvalResultRepository(db)

	benchmarks := NewBenchmarkCatalogService()
	return &Services{
		Catalog:    NewCatalogService(api, modelCache, endpointCache),
		Results:    NewResultService(resultRepo, benchmarks),
		Benchmarks: benchmarks,
	}
}
