// Copyright (c) 2026 BCR. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package car

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bcr-api/bcr/internal/platform/constants"
	"github.com/bcr-api/bcr/internal/platform/ctxutil"
	"github.com/bcr-api/bcr/internal/platform/metrics"
)

// CachedRepository decorates a [Repository] with a Redis read-through cache
// for FindByID. Writes go to the inner repository first and then evict.
//
// # Failure Mode
//
// Redis errors never fail a request; the lookup falls back to the inner
// repository and the failure is counted as a cache "error".
type CachedRepository struct {
	Repository

	client  redis.Cmdable
	ttl     time.Duration
	metrics *metrics.Metrics
}

// NewCachedRepository wraps inner. recorder may be nil.
func NewCachedRepository(inner Repository, client redis.Cmdable, ttl time.Duration, recorder *metrics.Metrics) *CachedRepository {
	return &CachedRepository{
		Repository: inner,
		client:     client,
		ttl:        ttl,
		metrics:    recorder,
	}
}

// CacheKey returns the Redis key holding car id.
func CacheKey(id int64) string {
	return constants.RedisPrefixCar + strconv.FormatInt(id, 10)
}

/*
FindByID serves a car from Redis when present, otherwise from the inner
repository, populating the cache on the way out.
*/
func (repository *CachedRepository) FindByID(context context.Context, id int64) (*Car, error) {
	logger := ctxutil.GetLogger(context)
	key := CacheKey(id)

	// ── 1. Cache Lookup ───────────────────────────────────────────────────

	raw, err := repository.client.Get(context, key).Bytes()
	switch {
	case err == nil:
		var cached Car
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			repository.metrics.RecordCarCache(metrics.CacheHit)
			return &cached, nil
		}
		repository.metrics.RecordCarCache(metrics.CacheError)
		logger.WarnContext(context, "car_cache_corrupt", slog.String("key", key))
	case errors.Is(err, redis.Nil):
		repository.metrics.RecordCarCache(metrics.CacheMiss)
	default:
		repository.metrics.RecordCarCache(metrics.CacheError)
		logger.WarnContext(context, "car_cache_get_failed", slog.String("key", key), slog.Any("error", err))
	}

	// ── 2. Source of Truth ────────────────────────────────────────────────

	car, err := repository.Repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	// ── 3. Populate ───────────────────────────────────────────────────────

	if encoded, err := json.Marshal(car); err == nil {
		if err := repository.client.Set(context, key, encoded, repository.ttl).Err(); err != nil {
			logger.WarnContext(context, "car_cache_set_failed", slog.String("key", key), slog.Any("error", err))
		}
	}

	return car, nil
}

// Update writes through to the inner repository and evicts the cached entry.
func (repository *CachedRepository) Update(context context.Context, car *Car) error {
	if err := repository.Repository.Update(context, car); err != nil {
		return err
	}
	repository.evict(context, car.ID)
	return nil
}

// Delete removes the car from the inner repository and evicts the cached entry.
func (repository *CachedRepository) Delete(context context.Context, id int64) error {
	if err := repository.Repository.Delete(context, id); err != nil {
		return err
	}
	repository.evict(context, id)
	return nil
}

func (repository *CachedRepository) evict(context context.Context, id int64) {
	if err := repository.client.Del(context, CacheKey(id)).Err(); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "car_cache_evict_failed",
			slog.Int64("car_id", id),
			slog.Any("error", err),
		)
	}
}
