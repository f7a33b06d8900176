package repositories

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"benchboard/internal/models"
)

// ResultFilter narrows a result query. Filters compose conjunctively; zero
// values mean "no constraint".
type ResultFilter struct {
	UserID       *uint
	ModelID      string
	BenchmarkID  string
	Provider     string
	CreatedAfter *time.Time
}

// Page bounds a result query. A non-positive limit returns everything.
type Page struct {
	Limit  int
	Offset int
}

// ModelStats is the one-pass aggregate over a model's results.
type ModelStats struct {
	TotalEvals         int64    `json:"totalEvals"`
	AvgScore           float64  `json:"avgScore"`
	DistinctBenchmarks []string `json:"distinctBenchmarks"`
}

// EvalResultRepository is the append-only store of evaluation outcomes.
// Rows are created once, read many times and removed only by explicit
// delete; nothing ever updates one in place.
type EvalResultRepository interface {
	Create(ctx context.Context, r *models.EvaluationResult) error
	// Query returns the matching page ordered by creation time descending,
	// plus the total count of the filtered set before pagination.
	Query(ctx context.Context, f ResultFilter, p Page) ([]models.EvaluationResult, int64, error)
	FindByID(ctx context.Context, id uint) (*models.EvaluationResult, error)
	LatestFor(ctx context.Context, modelID, benchmarkID string, userID *uint) (*models.EvaluationResult, error)
	TopByScore(ctx context.Context, benchmarkID string, limit int) ([]models.EvaluationResult, error)
	StatsFor(ctx context.Context, modelID string) (*ModelStats, error)
	// Delete reports whether a row was removed; a missing id is not an error.
	Delete(ctx context.Context, id uint) (bool, error)
}

type evalResultRepository struct {
	db *gorm.DB
}

func NewEvalResultRepository(db *gorm.DB) EvalResultRepository {
	return &evalResultRepository{db: db}
}

func (r *evalResultRepository) Create(ctx context.Context, result *models.EvaluationResult) error {
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(result).Error
}

func (r *evalResultRepository) Query(ctx context.Context, f ResultFilter, p Page) ([]models.EvaluationResult, int64, error) {
	var (
		results []models.EvaluationResult
		total   int64
	)
	// Count and page run in one transaction so the total always matches
	// the filtered set the page was cut from.
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := applyFilter(tx.Model(&models.EvaluationResult{}), f)
		if err := q.Count(&total).Error; err != nil {
			return err
		}
		q = applyFilter(tx.Model(&models.EvaluationResult{}), f).
			Order("created_at DESC, id DESC")
		if p.Limit > 0 {
			q = q.Limit(p.Limit)
		}
		if p.Offset > 0 {
			q = q.Offset(p.Offset)
		}
		return q.Find(&results).Error
	})
	if err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (r *evalResultRepository) FindByID(ctx context.Context, id uint) (*models.EvaluationResult, error) {
	var result models.EvaluationResult
	if err := r.db.WithContext(ctx).Take(&result, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *evalResultRepository) LatestFor(ctx context.Context, modelID, benchmarkID string, userID *uint) (*models.EvaluationResult, error) {
	q := r.db.WithContext(ctx).
		Where("model_id = ? AND benchmark_id = ?", modelID, benchmarkID)
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	var result models.EvaluationResult
	if err := q.Order("created_at DESC, id DESC").Take(&result).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *evalResultRepository) TopByScore(ctx context.Context, benchmarkID string, limit int) ([]models.EvaluationResult, error) {
	var results []models.EvaluationResult
	q := r.db.WithContext(ctx).
		Where("benchmark_id = ?", benchmarkID).
		Order("score DESC, created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *evalResultRepository) StatsFor(ctx context.Context, modelID string) (*ModelStats, error) {
	// Benchmark ids never contain commas, so GROUP_CONCAT keeps the whole
	// aggregate in a single pass over the table.
	var row struct {
		Total      int64
		AvgScore   float64
		Benchmarks string
	}
	err := r.db.WithContext(ctx).
		Model(&models.EvaluationResult{}).
		Select("COUNT(*) AS total, COALESCE(AVG(score), 0) AS avg_score, COALESCE(GROUP_CONCAT(DISTINCT benchmark_id), '') AS benchmarks").
		Where("model_id = ?", modelID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	stats := &ModelStats{
		TotalEvals:         row.Total,
		AvgScore:           row.AvgScore,
		DistinctBenchmarks: []string{},
	}
	if row.Total > 0 && row.Benchmarks != "" {
		stats.DistinctBenchmarks = strings.Split(row.Benchmarks, ",")
	}
	return stats, nil
}

func (r *evalResultRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.EvaluationResult{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func applyFilter(q *gorm.DB, f ResultFilter) *gorm.DB {
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.ModelID != "" {
		q = q.Where("model_id = ?", f.ModelID)
	}
	if f.BenchmarkID != "" {
		q = q.Where("benchmark_id = ?", f.BenchmarkID)
	}
	if f.Provider != "" {
		q = q.Where("provider = ?", f.Provider)
	}
	if f.CreatedAfter != nil {
		q = q.Where("created_at >= ?", *f.CreatedAfter)
	}
	return q
}
