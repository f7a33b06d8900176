package mocks

import (
	"context"

	"benchboard/internal/models"
	"benchboard/internal/repositories"
)

type EvalResultRepositoryMock struct {
	CreateFunc     func(ctx context.Context, r *models.EvaluationResult) error
	QueryFunc      func(ctx context.Context, f repositories.ResultFilter, p repositories.Page) ([]models.EvaluationResult, int64, error)
	FindByIDFunc   func(ctx context.Context, id uint) (*models.EvaluationResult, error)
	LatestForFunc  func(ctx context.Context, modelID, benchmarkID string, userID *uint) (*models.EvaluationResult, error)
	TopByScoreFunc func(ctx context.Context, benchmarkID string, limit int) ([]models.EvaluationResult, error)
	StatsForFunc   func(ctx context.Context, modelID string) (*repositories.ModelStats, error)
	DeleteFunc     func(ctx context.Context, id uint) (bool, error)
}

func (m *EvalResultRepositoryMock) Create(ctx context.Context, r *models.EvaluationResult) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, r)
	}
	return nil
}

func (m *EvalResultRepositoryMock) Query(ctx context.Context, f repositories.ResultFilter, p repositories.Page) ([]models.EvaluationResult, int64, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, f, p)
	}
	return []models.EvaluationResult{}, 0, nil
}

func (m *EvalResultRepositoryMock) FindByID(ctx context.Context, id uint) (*models.EvaluationResult, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *EvalResultRepositoryMock) LatestFor(ctx context.Context, modelID, benchmarkID string, userID *uint) (*models.EvaluationResult, error) {
	if m.LatestForFunc != nil {
		return m.LatestForFunc(ctx, modelID, benchmarkID, userID)
	}
	return nil, nil
}

func (m *EvalResultRepositoryMock) TopByScore(ctx context.Context, benchmarkID string, limit int) ([]models.EvaluationResult, error) {
	if m.TopByScoreFunc != nil {
		return m.TopByScoreFunc(ctx, benchmarkID, limit)
	}
	return []models.EvaluationResult{}, nil
}

func (m *EvalResultRepositoryMock) StatsFor(ctx context.Context, modelID string) (*repositories.ModelStats, error) {
	if m.StatsForFunc != nil {
		return m.StatsForFunc(ctx, modelID)
	}
	return &repositories.ModelStats{DistinctBenchmarks: []string{}}, nil
}

func (m *EvalResultRepositoryMock) Delete(ctx context.Context, id uint) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return false, nil
}
