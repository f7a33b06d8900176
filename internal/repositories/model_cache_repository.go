package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"benchboard/internal/models"
)

// ModelCacheRepository owns the cached model catalog. All writes go through
// the upsert path; reads apply lazy expiration and never extend an entry's
// life.
type ModelCacheRepository interface {
	// Get returns nil, nil when no row exists or the row has expired.
	Get(ctx context.Context, id string) (*models.CachedModel, error)
	AllFresh(ctx context.Context) ([]models.CachedModel, error)
	Put(ctx context.Context, m *models.CachedModel) error
	PutAll(ctx context.Context, ms []models.CachedModel) error
	// Invalidate removes one entry; a missing id is a no-op.
	Invalidate(ctx context.Context, id string) error
	InvalidateAll(ctx context.Context) error
	// SweepExpired deletes rows whose expiry is strictly in the past and
	// returns how many were removed.
	SweepExpired(ctx context.Context) (int64, error)
}

type modelCacheRepository struct {
	db  *gorm.DB
	ttl time.Duration
}

func NewModelCacheRepository(db *gorm.DB, ttl time.Duration) ModelCacheRepository {
	return &modelCacheRepository{db: db, ttl: ttl}
}

// modelUpsertColumns lists every mutable field overwritten on conflict.
var modelUpsertColumns = []string{
	"name", "description", "context_length", "price_prompt",
	"price_completion", "top_provider", "architecture_json",
	"supported_parameters_json", "fetched_at", "expires_at",
}

func (r *modelCacheRepository) Get(ctx context.Context, id string) (*models.CachedModel, error) {
	var m models.CachedModel
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Where("expires_at IS NULL OR expires_at > ?", time.Now().UTC()).
		Take(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *modelCacheRepository) AllFresh(ctx context.Context) ([]models.CachedModel, error) {
	var ms []models.CachedModel
	err := r.db.WithContext(ctx).
		Where("expires_at IS NULL OR expires_at > ?", time.Now().UTC()).
		Order("id").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return ms, nil
}

func (r *modelCacheRepository) Put(ctx context.Context, m *models.CachedModel) error {
	r.stamp(m)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(modelUpsertColumns),
	}).Create(m).Error
}

func (r *modelCacheRepository) PutAll(ctx context.Context, ms []models.CachedModel) error {
	if len(ms) == 0 {
		return nil
	}
	for i := range ms {
		r.stamp(&ms[i])
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(modelUpsertColumns),
	}).Create(&ms).Error
}

func (r *modelCacheRepository) Invalidate(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.CachedModel{}).Error
}

func (r *modelCacheRepository) InvalidateAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&models.CachedModel{}).Error
}

func (r *modelCacheRepository) SweepExpired(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < ?", time.Now().UTC()).
		Delete(&models.CachedModel{})
	return res.RowsAffected, res.Error
}

// stamp recomputes the timestamps from now + class TTL. The upsert is the
// only path that extends an entry's life.
func (r *modelCacheRepository) stamp(m *models.CachedModel) {
	now := time.Now().UTC()
	m.FetchedAt = now
	if r.ttl > 0 {
		exp := now.Add(r.ttl)
		m.ExpiresAt = &exp
	} else {
		m.ExpiresAt = nil
	}
}
