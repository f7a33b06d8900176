package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"benchboard/internal/models"
)

// EndpointCacheRepository owns the cached provider endpoints. The unique
// key is (model_id, provider_name); concurrent writes for the same pair
// resolve through a single atomic upsert, never a read-then-write.
type EndpointCacheRepository interface {
	// Get returns nil, nil when the pair is absent or expired.
	Get(ctx context.Context, modelID, providerName string) (*models.CachedProviderEndpoint, error)
	// FreshForModel returns the non-expired endpoints of one model.
	FreshForModel(ctx context.Context, modelID string) ([]models.CachedProviderEndpoint, error)
	AllFresh(ctx context.Context) ([]models.CachedProviderEndpoint, error)
	Put(ctx context.Context, e *models.CachedProviderEndpoint) error
	PutAll(ctx context.Context, es []models.CachedProviderEndpoint) error
	// InvalidateModel removes every endpoint of one model; idempotent.
	InvalidateModel(ctx context.Context, modelID string) error
	InvalidateAll(ctx context.Context) error
	SweepExpired(ctx context.Context) (int64, error)
}

type endpointCacheRepository struct {
	db  *gorm.DB
	ttl time.Duration
}

func NewEndpointCacheRepository(db *gorm.DB, ttl time.Duration) EndpointCacheRepository {
	return &endpointCacheRepository{db: db, ttl: ttl}
}

var endpointUpsertColumns = []string{
	"endpoint_model_name", "context_length", "price_prompt",
	"price_completion", "tag", "quantization", "max_completion_tokens",
	"supported_parameters_json", "status", "uptime_30m",
	"fetched_at", "expires_at",
}

func (r *endpointCacheRepository) Get(ctx context.Context, modelID, providerName string) (*models.CachedProviderEndpoint, error) {
	var e models.CachedProviderEndpoint
	err := r.db.WithContext(ctx).
		Where("model_id = ? AND provider_name = ?", modelID, providerName).
		Where("expires_at IS NULL OR expires_at > ?", time.Now().UTC()).
		Take(&e).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *endpointCacheRepository) FreshForModel(ctx context.Context, modelID string) ([]models.CachedProviderEndpoint, error) {
	var es []models.CachedProviderEndpoint
	err := r.db.WithContext(ctx).
		Where("model_id = ?", modelID).
		Where("expires_at IS NULL OR expires_at > ?", time.Now().UTC()).
		Order("provider_name").
		Find(&es).Error
	if err != nil {
		return nil, err
	}
	return es, nil
}

func (r *endpointCacheRepository) AllFresh(ctx context.Context) ([]models.CachedProviderEndpoint, error) {
	var es []models.CachedProviderEndpoint
	err := r.db.WithContext(ctx).
		Where("expires_at IS NULL OR expires_at > ?", time.Now().UTC()).
		Order("model_id, provider_name").
		Find(&es).Error
	if err != nil {
		return nil, err
	}
	return es, nil
}

func (r *endpointCacheRepository) Put(ctx context.Context, e *models.CachedProviderEndpoint) error {
	r.stamp(e)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "model_id"}, {Name: "provider_name"}},
		DoUpdates: clause.AssignmentColumns(endpointUpsertColumns),
	}).Create(e).Error
}

func (r *endpointCacheRepository) PutAll(ctx context.Context, es []models.CachedProviderEndpoint) error {
	if len(es) == 0 {
		return nil
	}
	for i := range es {
		r.stamp(&es[i])
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "model_id"}, {Name: "provider_name"}},
		DoUpdates: clause.AssignmentColumns(endpointUpsertColumns),
	}).Create(&es).Error
}

func (r *endpointCacheRepository) InvalidateModel(ctx context.Context, modelID string) error {
	return r.db.WithContext(ctx).Where("model_id = ?", modelID).Delete(&models.CachedProviderEndpoint{}).Error
}

func (r *endpointCacheRepository) InvalidateAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&models.CachedProviderEndpoint{}).Error
}

func (r *endpointCacheRepository) SweepExpired(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < ?", time.Now().UTC()).
		Delete(&models.CachedProviderEndpoint{})
	return res.RowsAffected, res.Error
}

func (r *endpointCacheRepository) stamp(e *models.CachedProviderEndpoint) {
	now := time.Now().UTC()
	e.FetchedAt = now
	if r.ttl > 0 {
		exp := now.Add(r.ttl)
		e.ExpiresAt = &exp
	} else {
		e.ExpiresAt = nil
	}
}
