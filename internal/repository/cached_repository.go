package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"best-coupon/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	// CatalogCacheKey is the Redis key holding the serialised catalog snapshot.
	CatalogCacheKey = "coupons:catalog"
	// CatalogGenerationKey is bumped on every admission. A snapshot is only written
	// back if the generation did not move while the database was being read.
	CatalogGenerationKey = "coupons:catalog:generation"
)

var errStaleSnapshot = errors.New("catalog changed while loading")

// cachedCouponRepository decorates a CouponRepository with a Redis snapshot of the catalog.
// Redis is an optimisation only: any cache failure falls through to the inner repository.
type cachedCouponRepository struct {
	inner  CouponRepository
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCachedCouponRepository wraps inner so that FetchAll is served from Redis when possible.
func NewCachedCouponRepository(inner CouponRepository, client *redis.Client, ttl time.Duration, logger zerolog.Logger) CouponRepository {
	return &cachedCouponRepository{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("repository", "coupon_cache").Logger(),
	}
}

// FetchAll returns the cached snapshot, or loads and caches it on a miss.
func (r *cachedCouponRepository) FetchAll(ctx context.Context) ([]model.Coupon, error) {
	payload, err := r.client.Get(ctx, CatalogCacheKey).Bytes()
	switch {
	case err == nil:
		var coupons []model.Coupon
		decodeErr := json.Unmarshal(payload, &coupons)
		if decodeErr == nil {
			r.logger.Debug().Int("count", len(coupons)).Msg("catalog cache hit")
			return coupons, nil
		}
		r.logger.Warn().Err(decodeErr).Msg("discarding unreadable catalog cache entry")
	case errors.Is(err, redis.Nil):
		r.logger.Debug().Msg("catalog cache miss")
	default:
		r.logger.Warn().Err(err).Msg("catalog cache unavailable, reading from database")
	}

	// Read the generation before the database so a concurrent admission is detected.
	generation, genErr := r.generation(ctx)

	coupons, err := r.inner.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	if genErr != nil {
		r.logger.Warn().Err(genErr).Msg("catalog generation unavailable, not caching snapshot")
		return coupons, nil
	}

	payload, err = json.Marshal(coupons)
	if err != nil {
		r.logger.Warn().Err(err).Msg("failed to encode catalog for cache")
		return coupons, nil
	}

	if err := r.store(ctx, generation, payload); err != nil {
		if errors.Is(err, errStaleSnapshot) || errors.Is(err, redis.TxFailedErr) {
			r.logger.Debug().Msg("catalog changed during load, snapshot discarded")
		} else {
			r.logger.Warn().Err(err).Msg("failed to populate catalog cache")
		}
	}

	return coupons, nil
}

// generation returns the current catalog generation; a missing key is generation 0.
func (r *cachedCouponRepository) generation(ctx context.Context) (int64, error) {
	generation, err := r.client.Get(ctx, CatalogGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return generation, err
}

// store writes the snapshot only if the generation still matches the one read before loading.
func (r *cachedCouponRepository) store(ctx context.Context, generation int64, payload []byte) error {
	return r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, CatalogGenerationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return errStaleSnapshot
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, CatalogCacheKey, payload, r.ttl)
			return nil
		})
		return err
	}, CatalogGenerationKey)
}

// Create delegates to the inner repository and drops the cached snapshot on success.
func (r *cachedCouponRepository) Create(ctx context.Context, coupon *model.Coupon) (*model.Coupon, error) {
	created, err := r.inner.Create(ctx, coupon)
	if err != nil {
		return nil, err
	}

	// Bump the generation before dropping the snapshot so an in-flight load cannot write it back.
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, CatalogGenerationKey)
		pipe.Del(ctx, CatalogCacheKey)
		return nil
	})
	if err != nil {
		r.logger.Warn().Err(err).Str("code", created.Code).Msg("failed to invalidate catalog cache")
	}

	return created, nil
}
