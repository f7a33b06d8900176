package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"benchboard/internal/models"
)

func TestModelCacheRepository_PutGetRoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewModelCacheRepository(db, time.Hour)
	ctx := context.Background()

	before := time.Now().UTC()
	err := repo.Put(ctx, &models.CachedModel{
		ID:              "openai/gpt-4o",
		Name:            "GPT-4o",
		Description:     "flagship",
		ContextLength:   128000,
		PricePrompt:     "0.0000025",
		PriceCompletion: "0.00001",
		TopProvider:     "OpenAI",
	})
	require.NoError(t, err)

	got, err := repo.Get(ctx, "openai/gpt-4o")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "GPT-4o", got.Name)
	assert.Equal(t, 128000, got.ContextLength)
	assert.Equal(t, "0.0000025", got.PricePrompt)

	require.NotNil(t, got.ExpiresAt)
	assert.WithinDuration(t, before.Add(time.Hour), *got.ExpiresAt, 5*time.Second)
	assert.WithinDuration(t, before, got.FetchedAt, 5*time.Second)
}

func TestModelCacheRepository_UpsertReplacesRow(t *testing.T) {
	db := openTestDB(t)
	repo := NewModelCacheRepository(db, time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, &models.CachedModel{ID: "m1", Name: "first", ContextLength: 4096}))
	require.NoError(t, repo.Put(ctx, &models.CachedModel{ID: "m1", Name: "second", ContextLength: 8192}))

	var count int64
	require.NoError(t, db.Model(&models.CachedModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "upsert must not duplicate rows")

	got, err := repo.Get(ctx, "m1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "second", got.Name)
	assert.Equal(t, 8192, got.ContextLength)
}

func TestModelCacheRepository_GetMissingReturnsNil(t *testing.T) {
	db := openTestDB(t)
	repo := NewModelCacheRepository(db, time.Hour)

	got, err := repo.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestModelCacheRepository_LazyExpiration(t *testing.T) {
	db := openTestDB(t)
	repo := NewModelCacheRepository(db, time.Hour)
	ctx := context.Background()

	past := time.Now().UTC().Add(-time.Minute)
	require.NoError(t, db.Create(&models.CachedModel{
		ID:        "expired",
		Name:      "stale",
		FetchedAt: past.Add(-time.Hour),
		ExpiresAt: &past,
	}).Error)

	// Row physically present but logically absent.
	got, err := repo.Get(ctx, "expired")
	require.NoError(t, err)
	assert.Nil(t, got)

	fresh, err := repo.AllFresh(ctx)
	require.NoError(t, err)
	assert.Empty(t, fresh)

	var count int64
	require.NoError(t, db.Model(&models.CachedModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "lazy expiration must not delete")
}

func TestModelCacheRepository_SweepExpired(t *testing.T) {
	db := openTestDB(t)
	repo := NewModelCacheRepository(db, time.Hour)
	ctx := context.Background()

	now := time.Now().UTC()
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)
	require.NoError(t, db.Create(&models.CachedModel{ID: "old", FetchedAt: past, ExpiresAt: &past}).Error)
	require.NoError(t, db.Create(&models.CachedModel{ID: "live", FetchedAt: now, ExpiresAt: &future}).Error)
	require.NoError(t, db.Create(&models.CachedModel{ID: "pinned", FetchedAt: now, ExpiresAt: nil}).Error)

	removed, err := repo.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	fresh, err := repo.AllFresh(ctx)
	require.NoError(t, err)
	assert.Len(t, fresh, 2, "non-expired and never-expiring rows survive")

	removed, err = repo.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed, "second sweep removes nothing")
}

func TestModelCacheRepository_Invalidate(t *testing.T) {
	db := openTestDB(t)
	repo := NewModelCacheRepository(db, time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, &models.CachedModel{ID: "a"}))
	require.NoError(t, repo.Put(ctx, &models.CachedModel{ID: "b"}))

	require.NoError(t, repo.Invalidate(ctx, "a"))
	require.NoError(t, repo.Invalidate(ctx, "a"), "invalidating an absent key is a no-op")

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.InvalidateAll(ctx))
	fresh, err := repo.AllFresh(ctx)
	require.NoError(t, err)
	assert.Empty(t, fresh)
}

func TestModelCacheRepository_PutAll(t *testing.T) {
	db := openTestDB(t)
	repo := NewModelCacheRepository(db, time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.PutAll(ctx, []models.CachedModel{
		{ID: "m1", Name: "one"},
		{ID: "m2", Name: "two"},
	}))
	require.NoError(t, repo.PutAll(ctx, []models.CachedModel{
		{ID: "m2", Name: "two-updated"},
		{ID: "m3", Name: "three"},
	}))

	fresh, err := repo.AllFresh(ctx)
	require.NoError(t, err)
	require.Len(t, fresh, 3)
	assert.Equal(t, "two-updated", fresh[1].Name)
}
