package repository

import (
	"context"
	"errors"
	"fmt"

	"best-coupon/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// PostgreSQL SQLSTATE codes mapped to domain errors.
const (
	uniqueViolation   = "23505"
	numericOutOfRange = "22003"
)

const couponColumns = `
	code, description, discount_type, max_discount_amount,
	start_date, end_date, usage_limit_per_user,
	allowed_countries, applicable_categories, excluded_categories,
	created_at
`

// couponRepository implements the CouponRepository interface using PostgreSQL.
type couponRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCouponRepository creates a new PostgreSQL-backed coupon repository.
func NewCouponRepository(pool *pgxpool.Pool, logger zerolog.Logger) CouponRepository {
	return &couponRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "coupon").Logger(),
	}
}

// FetchAll retrieves every coupon in the catalog.
func (r *couponRepository) FetchAll(ctx context.Context) ([]model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query coupons")
		return nil, fmt.Errorf("failed to query coupons: %w", err)
	}
	defer rows.Close()

	coupons := []model.Coupon{}
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan coupon row")
			return nil, fmt.Errorf("failed to scan coupon: %w", err)
		}
		coupons = append(coupons, *c)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating coupon rows")
		return nil, fmt.Errorf("error iterating coupons: %w", err)
	}

	r.logger.Debug().Int("count", len(coupons)).Msg("fetched coupon catalog")

	return coupons, nil
}

// Create inserts a new coupon. A duplicate code yields model.ErrCouponExists.
func (r *couponRepository) Create(ctx context.Context, coupon *model.Coupon) (*model.Coupon, error) {
	query := `
		INSERT INTO coupons (
			code, description, discount_type, max_discount_amount,
			start_date, end_date, usage_limit_per_user,
			allowed_countries, applicable_categories, excluded_categories
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + couponColumns

	row := r.pool.QueryRow(ctx, query,
		coupon.Code,
		coupon.Description,
		string(coupon.DiscountType),
		coupon.MaxDiscountAmount,
		coupon.StartDate,
		coupon.EndDate,
		coupon.UsageLimitPerUser,
		nonNil(coupon.AllowedCountries),
		nonNil(coupon.ApplicableCategories),
		nonNil(coupon.ExcludedCategories),
	)

	created, err := scanCoupon(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case uniqueViolation:
				r.logger.Debug().Str("code", coupon.Code).Msg("coupon code already exists")
				return nil, model.ErrCouponExists
			case numericOutOfRange:
				r.logger.Debug().Str("code", coupon.Code).Str("detail", pgErr.Message).Msg("coupon value out of range")
				return nil, model.ErrValueOutOfRange
			}
		}
		r.logger.Error().Err(err).Str("code", coupon.Code).Msg("failed to insert coupon")
		return nil, fmt.Errorf("failed to insert coupon: %w", err)
	}

	r.logger.Info().Str("code", created.Code).Msg("coupon created")

	return created, nil
}

// scanCoupon decodes one coupon row into its typed record.
func scanCoupon(row pgx.Row) (*model.Coupon, error) {
	var (
		c            model.Coupon
		discountType string
	)

	err := row.Scan(
		&c.Code,
		&c.Description,
		&discountType,
		&c.MaxDiscountAmount,
		&c.StartDate,
		&c.EndDate,
		&c.UsageLimitPerUser,
		&c.AllowedCountries,
		&c.ApplicableCategories,
		&c.ExcludedCategories,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.DiscountType = model.DiscountType(discountType)
	c.AllowedCountries = nonNil(c.AllowedCountries)
	c.ApplicableCategories = nonNil(c.ApplicableCategories)
	c.ExcludedCategories = nonNil(c.ExcludedCategories)

	return &c, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
