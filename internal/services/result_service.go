package services

import (
	"context"
	"fmt"
	"strings"

	"benchboard/internal/models"
	"benchboard/internal/repositories"
)

// ValidProviders are the provider labels the execution engine can run
// against. An empty label on a result is allowed and means "unspecified".
var ValidProviders = []string{"openrouter", "openai", "anthropic", "google", "together", "fireworks"}

// RecordResultInput is everything the execution engine reports for one
// completed run.
type RecordResultInput struct {
	UserID             *uint
	ModelID            string
	Provider           string
	BenchmarkID        string
	Score              float64
	SamplesEvaluated   int
	CorrectCount       int
	DurationSeconds    float64
	AvgSampleLatencyMs *float64
	RunConfig          models.RunConfig
	SampleOutcomes     []models.SampleOutcome
}

// ResultPage is one page of a filtered query plus the total count of the
// filtered set.
type ResultPage struct {
	Results    []models.EvaluationResult `json:"results"`
	TotalCount int64                     `json:"totalCount"`
}

// ResultService validates and records evaluation results and exposes the
// read paths the dashboard consumes. Results are immutable once recorded.
type ResultService interface {
	Record(ctx context.Context, input RecordResultInput) (*models.EvaluationResult, error)
	Query(ctx context.Context, f repositories.ResultFilter, p repositories.Page) (*ResultPage, error)
	Get(ctx context.Context, id uint) (*models.EvaluationResult, error)
	LatestFor(ctx context.Context, modelID, benchmarkID string, userID *uint) (*models.EvaluationResult, error)
	TopByScore(ctx context.Context, benchmarkID string, limit int) ([]models.EvaluationResult, error)
	StatsFor(ctx context.Context, modelID string) (*repositories.ModelStats, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

type resultService struct {
	results    repositories.EvalResultRepository
	benchmarks BenchmarkCatalogService
}

// NewResultService builds the service; benchmarks may be nil, in which case
// benchmark ids are not checked against the catalog.
func NewResultService(results repositories.EvalResultRepository, benchmarks BenchmarkCatalogService) ResultService {
	return &resultService{results: results, benchmarks: benchmarks}
}

func (s *resultService) Record(ctx context.Context, input RecordResultInput) (*models.EvaluationResult, error) {
	if err := validateRecordInput(input); err != nil {
		return nil, err
	}
	if s.benchmarks != nil && !s.benchmarks.Known(input.BenchmarkID) {
		return nil, fmt.Errorf("unknown benchmark %q", input.BenchmarkID)
	}

	result := &models.EvaluationResult{
		UserID:             input.UserID,
		ModelID:            strings.TrimSpace(input.ModelID),
		Provider:           strings.ToLower(strings.TrimSpace(input.Provider)),
		BenchmarkID:        input.BenchmarkID,
		Score:              input.Score,
		SamplesEvaluated:   input.SamplesEvaluated,
		CorrectCount:       input.CorrectCount,
		DurationSeconds:    input.DurationSeconds,
		AvgSampleLatencyMs: input.AvgSampleLatencyMs,
	}
	if err := result.SetRunConfig(input.RunConfig); err != nil {
		return nil, fmt.Errorf("encode run config: %w", err)
	}
	if err := result.SetSampleOutcomes(input.SampleOutcomes); err != nil {
		return nil, fmt.Errorf("encode sample outcomes: %w", err)
	}

	if err := s.results.Create(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *resultService) Query(ctx context.Context, f repositories.ResultFilter, p repositories.Page) (*ResultPage, error) {
	results, total, err := s.results.Query(ctx, f, p)
	if err != nil {
		return nil, err
	}
	return &ResultPage{Results: results, TotalCount: total}, nil
}

func (s *resultService) Get(ctx context.Context, id uint) (*models.EvaluationResult, error) {
	return s.results.FindByID(ctx, id)
}

func (s *resultService) LatestFor(ctx context.Context, modelID, benchmarkID string, userID *uint) (*models.EvaluationResult, error) {
	return s.results.LatestFor(ctx, modelID, benchmarkID, userID)
}

func (s *resultService) TopByScore(ctx context.Context, benchmarkID string, limit int) ([]models.EvaluationResult, error) {
	return s.results.TopByScore(ctx, benchmarkID, limit)
}

func (s *resultService) StatsFor(ctx context.Context, modelID string) (*repositories.ModelStats, error) {
	return s.results.StatsFor(ctx, modelID)
}

func (s *resultService) Delete(ctx context.Context, id uint) (bool, error) {
	return s.results.Delete(ctx, id)
}

func validateRecordInput(input RecordResultInput) error {
	if strings.TrimSpace(input.ModelID) == "" {
		return fmt.Errorf("model id is required")
	}
	if input.BenchmarkID == "" {
		return fmt.Errorf("benchmark id is required")
	}
	if provider := strings.ToLower(strings.TrimSpace(input.Provider)); provider != "" {
		if !isValidProvider(provider) {
			return fmt.Errorf("invalid provider %q, must be one of: %s", provider, strings.Join(ValidProviders, ", "))
		}
	}
	if input.Score < 0 || input.Score > 1 {
		return fmt.Errorf("score must be between 0 and 1")
	}
	if input.SamplesEvaluated < 0 || input.CorrectCount < 0 {
		return fmt.Errorf("sample counts cannot be negative")
	}
	if input.CorrectCount > input.SamplesEvaluated {
		return fmt.Errorf("correct count %d exceeds samples evaluated %d", input.CorrectCount, input.SamplesEvaluated)
	}
	if input.DurationSeconds < 0 {
		return fmt.Errorf("duration cannot be negative")
	}
	return validateRunConfig(input.RunConfig)
}

// validateRunConfig enforces the execution engine's request bounds.
func validateRunConfig(cfg models.RunConfig) error {
	if cfg.Limit != 0 && (cfg.Limit < 1 || cfg.Limit > 10000) {
		return fmt.Errorf("limit must be between 1 and 10000")
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	if cfg.MaxTokens != 0 && (cfg.MaxTokens < 1 || cfg.MaxTokens > 32000) {
		return fmt.Errorf("max tokens must be between 1 and 32000")
	}
	if cfg.Epochs != 0 && (cfg.Epochs < 1 || cfg.Epochs > 100) {
		return fmt.Errorf("epochs must be between 1 and 100")
	}
	if cfg.Seed != nil && *cfg.Seed < 0 {
		return fmt.Errorf("seed cannot be negative")
	}
	return nil
}

func isValidProvider(provider string) bool {
	for _, p := range ValidProviders {
		if p == provider {
			return true
		}
	}
	return false
}
