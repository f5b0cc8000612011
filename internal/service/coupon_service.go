package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"best-coupon/internal/coupon"
	"best-coupon/internal/metrics"
	"best-coupon/internal/model"
	"best-coupon/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// dateOnly is accepted alongside RFC 3339 for coupon validity dates.
const dateOnly = "2006-01-02"

// couponService implements CouponService.
type couponService struct {
	repo    repository.CouponRepository
	metrics *metrics.Metrics
	now     func() time.Time
	logger  zerolog.Logger
}

// CouponServiceOption configures a coupon service.
type CouponServiceOption func(*couponService)

// WithClock overrides the clock used to evaluate validity windows.
func WithClock(now func() time.Time) CouponServiceOption {
	return func(s *couponService) {
		s.now = now
	}
}

// WithMetrics records evaluation and admission outcomes.
func WithMetrics(m *metrics.Metrics) CouponServiceOption {
	return func(s *couponService) {
		s.metrics = m
	}
}

// NewCouponService creates a new coupon service.
func NewCouponService(repo repository.CouponRepository, logger zerolog.Logger, opts ...CouponServiceOption) CouponService {
	s := &couponService{
		repo:   repo,
		now:    time.Now,
		logger: logger.With().Str("service", "coupon").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BestCoupon loads a catalog snapshot and ranks it against the request.
func (s *couponService) BestCoupon(ctx context.Context, req *model.BestCouponRequest) (*model.EligibilityResult, error) {
	if req == nil || req.User == nil || req.Cart == nil || req.Cart.Items == nil {
		return nil, model.ErrInvalidInput
	}
	for _, item := range req.Cart.Items {
		// Discounts are computed from the cart value and must never go negative.
		if item.Quantity < 0 || item.UnitPrice.IsNegative() {
			s.logger.Debug().Str("product_id", item.ProductID).Msg("rejecting negative cart line")
			return nil, model.ErrInvalidInput
		}
	}

	catalog, err := s.repo.FetchAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", req.User.UserID).Msg("failed to load coupon catalog")
		return nil, fmt.Errorf("%w: %w", model.ErrStorage, err)
	}

	// One clock reading per request so every coupon is judged at the same instant.
	best := coupon.SelectBest(*req.User, *req.Cart, catalog, s.now())
	s.metrics.ObserveEvaluation(best != nil, len(catalog))

	event := s.logger.Debug().
		Str("user_id", req.User.UserID).
		Int("catalog_size", len(catalog)).
		Int("item_count", len(req.Cart.Items))
	if best != nil {
		event.Str("coupon_code", best.Code).Str("discount", best.Discount.String()).Msg("best coupon selected")
	} else {
		event.Msg("no eligible coupon")
	}

	return best, nil
}

// CreateCoupon validates, normalises and persists a coupon definition.
func (s *couponService) CreateCoupon(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error) {
	c, err := s.buildCoupon(req)
	if err != nil {
		s.metrics.ObserveAdmission(metrics.AdmissionInvalid)
		return nil, err
	}

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		if errors.Is(err, model.ErrCouponExists) {
			s.metrics.ObserveAdmission(metrics.AdmissionConflict)
			s.logger.Info().Str("coupon_code", c.Code).Msg("coupon code already exists")
			return nil, model.ErrCouponExists
		}
		if errors.Is(err, model.ErrValueOutOfRange) {
			s.metrics.ObserveAdmission(metrics.AdmissionInvalid)
			s.logger.Info().Str("coupon_code", c.Code).Msg("coupon value out of storage range")
			return nil, model.ErrValueOutOfRange
		}
		s.metrics.ObserveAdmission(metrics.AdmissionError)
		s.logger.Error().Err(err).Str("coupon_code", c.Code).Msg("failed to create coupon")
		return nil, fmt.Errorf("%w: %w", model.ErrStorage, err)
	}

	s.metrics.ObserveAdmission(metrics.AdmissionCreated)
	s.logger.Info().
		Str("coupon_code", created.Code).
		Str("discount_type", string(created.DiscountType)).
		Msg("coupon created successfully")

	return created, nil
}

// buildCoupon validates the request and applies defaults for absent fields.
func (s *couponService) buildCoupon(req *model.CreateCouponRequest) (*model.Coupon, error) {
	if req == nil {
		return nil, model.ErrMissingFields
	}

	if req.Code == "" || req.Description == "" || req.DiscountType == "" ||
		req.StartDate == "" || req.EndDate == "" {
		return nil, model.ErrMissingFields
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		s.logger.Debug().Str("coupon_code", req.Code).Str("start_date", req.StartDate).Msg("invalid start date")
		return nil, model.NewDomainError(model.ErrCodeInvalidInput, "Invalid startDate")
	}

	endDate, err := parseDate(req.EndDate)
	if err != nil {
		s.logger.Debug().Str("coupon_code", req.Code).Str("end_date", req.EndDate).Msg("invalid end date")
		return nil, model.NewDomainError(model.ErrCodeInvalidInput, "Invalid endDate")
	}

	maxDiscount := decimal.Zero
	if req.MaxDiscountAmount != nil {
		if req.MaxDiscountAmount.IsNegative() {
			return nil, model.NewDomainError(model.ErrCodeInvalidInput, "maxDiscountAmount must not be negative")
		}
		maxDiscount = *req.MaxDiscountAmount
	}

	var usageLimit *int
	if req.UsageLimitPerUser != nil {
		if *req.UsageLimitPerUser < 0 {
			return nil, model.NewDomainError(model.ErrCodeInvalidInput, "usageLimitPerUser must not be negative")
		}
		limit := *req.UsageLimitPerUser
		usageLimit = &limit
	}

	return &model.Coupon{
		Code:                 req.Code,
		Description:          req.Description,
		DiscountType:         model.DiscountType(req.DiscountType),
		MaxDiscountAmount:    maxDiscount,
		StartDate:            startDate,
		EndDate:              endDate,
		UsageLimitPerUser:    usageLimit,
		AllowedCountries:     cloneOrEmpty(req.AllowedCountries),
		ApplicableCategories: cloneOrEmpty(req.ApplicableCategories),
		ExcludedCategories:   cloneOrEmpty(req.ExcludedCategories),
	}, nil
}

// parseDate accepts an RFC 3339 timestamp or a plain date taken as UTC midnight.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.ParseInLocation(dateOnly, value, time.UTC)
}

func cloneOrEmpty(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	return out
}
