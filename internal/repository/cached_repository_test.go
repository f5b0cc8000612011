package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"best-coupon/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// MockCouponRepository is a mock implementation of CouponRepository.
type MockCouponRepository struct {
	mock.Mock
}

func (m *MockCouponRepository) FetchAll(ctx context.Context) ([]model.Coupon, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Coupon), args.Error(1)
}

func (m *MockCouponRepository) Create(ctx context.Context, coupon *model.Coupon) (*model.Coupon, error) {
	args := m.Called(ctx, coupon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Coupon), args.Error(1)
}

// setupTestRedis starts a Redis testcontainer and returns a connected client.
func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	if testing.Short() {
		t.Skip("skipping testcontainers test in short mode")
	}

	ctx := context.Background()

	redisContainer, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)

	connStr, err := redisContainer.ConnectionString(ctx)
	require.NoError(t, err)

	opts, err := redis.ParseURL(connStr)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	require.NoError(t, client.Ping(ctx).Err())

	cleanup := func() {
		_ = client.Close()
		_ = redisContainer.Terminate(ctx)
	}

	return client, cleanup
}

func TestCachedCouponRepository_FetchAll(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	catalog := []model.Coupon{*newTestCoupon("A"), *newTestCoupon("B")}

	t.Run("Miss loads from inner and populates cache", func(t *testing.T) {
		require.NoError(t, client.FlushAll(ctx).Err())

		inner := new(MockCouponRepository)
		inner.On("FetchAll", ctx).Return(catalog, nil).Once()
		repo := NewCachedCouponRepository(inner, client, time.Minute, zerolog.Nop())

		coupons, err := repo.FetchAll(ctx)

		require.NoError(t, err)
		assert.Len(t, coupons, 2)

		ttl, err := client.TTL(ctx, CatalogCacheKey).Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
		inner.AssertExpectations(t)
	})

	t.Run("Hit skips inner", func(t *testing.T) {
		inner := new(MockCouponRepository)
		repo := NewCachedCouponRepository(inner, client, time.Minute, zerolog.Nop())

		coupons, err := repo.FetchAll(ctx)

		require.NoError(t, err)
		require.Len(t, coupons, 2)
		assert.Equal(t, "A", coupons[0].Code)
		assert.True(t, catalog[0].MaxDiscountAmount.Equal(coupons[0].MaxDiscountAmount))
		assert.True(t, catalog[0].EndDate.Equal(coupons[0].EndDate))
		inner.AssertNotCalled(t, "FetchAll", mock.Anything)
	})

	t.Run("Unreadable entry is replaced", func(t *testing.T) {
		require.NoError(t, client.Set(ctx, CatalogCacheKey, "not json", time.Minute).Err())

		inner := new(MockCouponRepository)
		inner.On("FetchAll", ctx).Return(catalog, nil).Once()
		repo := NewCachedCouponRepository(inner, client, time.Minute, zerolog.Nop())

		coupons, err := repo.FetchAll(ctx)

		require.NoError(t, err)
		assert.Len(t, coupons, 2)
		inner.AssertExpectations(t)
	})

	t.Run("Inner error is returned and nothing cached", func(t *testing.T) {
		require.NoError(t, client.FlushAll(ctx).Err())

		inner := new(MockCouponRepository)
		inner.On("FetchAll", ctx).Return(nil, errors.New("connection refused")).Once()
		repo := NewCachedCouponRepository(inner, client, time.Minute, zerolog.Nop())

		coupons, err := repo.FetchAll(ctx)

		require.Error(t, err)
		assert.Nil(t, coupons)

		exists, err := client.Exists(ctx, CatalogCacheKey).Result()
		require.NoError(t, err)
		assert.Equal(t, int64(0), exists)
	})
}

func TestCachedCouponRepository_CreateInvalidates(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, client.Set(ctx, CatalogCacheKey, "[]", time.Minute).Err())

	c := newTestCoupon("NEW")
	inner := new(MockCouponRepository)
	inner.On("Create", ctx, c).Return(c, nil).Once()
	repo := NewCachedCouponRepository(inner, client, time.Minute, zerolog.Nop())

	created, err := repo.Create(ctx, c)

	require.NoError(t, err)
	assert.Equal(t, "NEW", created.Code)

	exists, err := client.Exists(ctx, CatalogCacheKey).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), exists)
	inner.AssertExpectations(t)
}

func TestCachedCouponRepository_CreateConflictKeepsCache(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, client.Set(ctx, CatalogCacheKey, "[]", time.Minute).Err())

	c := newTestCoupon("DUP")
	inner := new(MockCouponRepository)
	inner.On("Create", ctx, c).Return(nil, model.ErrCouponExists).Once()
	repo := NewCachedCouponRepository(inner, client, time.Minute, zerolog.Nop())

	created, err := repo.Create(ctx, c)

	assert.ErrorIs(t, err, model.ErrCouponExists)
	assert.Nil(t, created)

	exists, err := client.Exists(ctx, CatalogCacheKey).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)
}

func TestCachedCouponRepository_RedisUnavailable(t *testing.T) {
	// Nothing listens on this address; every Redis call fails fast.
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	ctx := context.Background()
	catalog := []model.Coupon{*newTestCoupon("A")}
	c := newTestCoupon("B")

	inner := new(MockCouponRepository)
	inner.On("FetchAll", ctx).Return(catalog, nil).Once()
	inner.On("Create", ctx, c).Return(c, nil).Once()
	repo := NewCachedCouponRepository(inner, client, time.Minute, zerolog.Nop())

	coupons, err := repo.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, coupons, 1)

	created, err := repo.Create(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, "B", created.Code)

	inner.AssertExpectations(t)
}

func TestCachedCouponRepository_AdmissionDuringLoadDiscardsSnapshot(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, client.FlushAll(ctx).Err())

	stale := []model.Coupon{*newTestCoupon("A")}
	fresh := []model.Coupon{*newTestCoupon("A"), *newTestCoupon("LATE")}
	late := newTestCoupon("LATE")

	inner := new(MockCouponRepository)
	repo := NewCachedCouponRepository(inner, client, time.Minute, zerolog.Nop())

	// An admission lands after the database read but before the snapshot is written.
	inner.On("Create", ctx, late).Return(late, nil).Once()
	inner.On("FetchAll", ctx).Run(func(mock.Arguments) {
		_, err := repo.Create(ctx, late)
		require.NoError(t, err)
	}).Return(stale, nil).Once()

	coupons, err := repo.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, coupons, 1)

	exists, err := client.Exists(ctx, CatalogCacheKey).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), exists, "stale snapshot must not be cached")

	generation, err := client.Get(ctx, CatalogGenerationKey).Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(1), generation)

	// With no admission in between, the next load is cached and includes the new coupon.
	inner.On("FetchAll", ctx).Return(fresh, nil).Once()

	coupons, err = repo.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, coupons, 2)

	cached, err := repo.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, cached, 2)
	assert.Equal(t, "LATE", cached[1].Code)
	inner.AssertExpectations(t)
}
