package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"benchboard/internal/assets"
	"benchboard/internal/models"
)

// BenchmarkCatalogService exposes the embedded registry of runnable
// benchmarks. The registry is static; Startup parses it once and reads are
// served from memory afterwards.
type BenchmarkCatalogService interface {
	Startup(ctx context.Context) error
	ListGroups() ([]models.BenchmarkGroup, error)
	Get(id string) (*models.Benchmark, error)
	Known(id string) bool
}

type benchmarkCatalogService struct {
	ctx context.Context

	mu         sync.RWMutex
	order      []string
	benchmarks map[string]*models.Benchmark
}

type rawBenchmarkFile struct {
	Benchmarks []rawBenchmark `json:"benchmarks"`
}

type rawBenchmark struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	InspectTask string `json:"inspectTask"`
}

func NewBenchmarkCatalogService() BenchmarkCatalogService {
	return &benchmarkCatalogService{
		benchmarks: make(map[string]*models.Benchmark),
	}
}

func (s *benchmarkCatalogService) Startup(ctx context.Context) error {
	s.ctx = ctx

	var parsed rawBenchmarkFile
	if err := json.Unmarshal(assets.BenchmarksData, &parsed); err != nil {
		return fmt.Errorf("parse benchmarks asset: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = make([]string, 0, len(parsed.Benchmarks))
	for _, b := range parsed.Benchmarks {
		id := strings.TrimSpace(b.ID)
		if id == "" {
			continue
		}
		s.order = append(s.order, id)
		s.benchmarks[id] = &models.Benchmark{
			ID:          id,
			Name:        strings.TrimSpace(b.Name),
			Description: strings.TrimSpace(b.Description),
			Category:    strings.TrimSpace(b.Category),
			InspectTask: strings.TrimSpace(b.InspectTask),
		}
	}
	return nil
}

func (s *benchmarkCatalogService) ListGroups() ([]models.BenchmarkGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.benchmarks) == 0 {
		return nil, fmt.Errorf("benchmark catalog not loaded")
	}

	byCategory := make(map[string][]models.Benchmark)
	for _, id := range s.order {
		b := s.benchmarks[id]
		byCategory[b.Category] = append(byCategory[b.Category], *b)
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	groups := make([]models.BenchmarkGroup, 0, len(categories))
	for _, category := range categories {
		groups = append(groups, models.BenchmarkGroup{
			Category:   category,
			Benchmarks: byCategory[category],
		})
	}
	return groups, nil
}

func (s *benchmarkCatalogService) Get(id string) (*models.Benchmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.benchmarks[strings.TrimSpace(id)]
	if !ok {
		return nil, nil
	}
	copied := *b
	return &copied, nil
}

func (s *benchmarkCatalogService) Known(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.benchmarks[strings.TrimSpace(id)]
	return ok
}
