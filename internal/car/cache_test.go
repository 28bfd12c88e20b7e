// Copyright (c) 2026 BCR. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package car_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcr-api/bcr/internal/car"
	"github.com/bcr-api/bcr/internal/platform/metrics"
)

type cacheFixture struct {
	server  *miniredis.Miniredis
	inner   *fakeCars
	metrics *metrics.Metrics
	repo    *car.CachedRepository
}

func newCacheFixture(t *testing.T) *cacheFixture {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	inner := newFakeCars(brio())
	recorder := metrics.New(prometheus.NewRegistry())

	return &cacheFixture{
		server:  server,
		inner:   inner,
		metrics: recorder,
		repo:    car.NewCachedRepository(inner, client, 5*time.Minute, recorder),
	}
}

func (fixture *cacheFixture) lookups(result string) float64 {
	return testutil.ToFloat64(fixture.metrics.CarCacheLookups.WithLabelValues(result))
}

/*
TestCachedRepository_ReadThrough checks that the second lookup is served from Redis.
*/
func TestCachedRepository_ReadThrough(t *testing.T) {
	fixture := newCacheFixture(t)
	ctx := context.Background()

	first, err := fixture.repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, fixture.server.Exists("car:1"))
	assert.Equal(t, 5*time.Minute, fixture.server.TTL("car:1"))

	second, err := fixture.repo.FindByID(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, fixture.inner.findCount())
	assert.Equal(t, 1.0, fixture.lookups(metrics.CacheMiss))
	assert.Equal(t, 1.0, fixture.lookups(metrics.CacheHit))
}

/*
TestCachedRepository_Missing does not cache a 404.
*/
func TestCachedRepository_Missing(t *testing.T) {
	fixture := newCacheFixture(t)

	_, err := fixture.repo.FindByID(context.Background(), 99)
	assertCarNotFound(t, err)
	assert.False(t, fixture.server.Exists("car:99"))
}

/*
TestCachedRepository_Invalidate evicts the entry on update and delete.
*/
func TestCachedRepository_Invalidate(t *testing.T) {
	fixture := newCacheFixture(t)
	ctx := context.Background()

	_, err := fixture.repo.FindByID(ctx, 1)
	require.NoError(t, err)
	require.True(t, fixture.server.Exists("car:1"))

	updated := brio()
	updated.ID = 1
	updated.Price = 65000
	require.NoError(t, fixture.repo.Update(ctx, updated))
	assert.False(t, fixture.server.Exists("car:1"))

	got, err := fixture.repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(65000), got.Price)

	require.NoError(t, fixture.repo.Delete(ctx, 1))
	assert.False(t, fixture.server.Exists("car:1"))

	_, err = fixture.repo.FindByID(ctx, 1)
	assertCarNotFound(t, err)
}

/*
TestCachedRepository_RedisDown falls back to the inner repository.
*/
func TestCachedRepository_RedisDown(t *testing.T) {
	fixture := newCacheFixture(t)
	fixture.server.Close()

	got, err := fixture.repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "brio", got.Name)
	assert.Equal(t, 1.0, fixture.lookups(metrics.CacheError))

	require.NoError(t, fixture.repo.Delete(context.Background(), 1))
}

/*
TestCachedRepository_CorruptEntry ignores an undecodable cache value.
*/
func TestCachedRepository_CorruptEntry(t *testing.T) {
	fixture := newCacheFixture(t)
	require.NoError(t, fixture.server.Set("car:1", "{not json"))

	got, err := fixture.repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "brio", got.Name)
	assert.Equal(t, 1.0, fixture.lookups(metrics.CacheError))

	raw, err := fixture.server.Get("car:1")
	require.NoError(t, err)
	var cached car.Car
	assert.NoError(t, json.Unmarshal([]byte(raw), &cached))
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "car:42", car.CacheKey(42))
}
