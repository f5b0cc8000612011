package repository

import (
	"context"

	"best-coupon/internal/model"
)

// CouponRepository defines the interface for coupon catalog data access operations.
type CouponRepository interface {
	// FetchAll retrieves a snapshot of every coupon in the catalog, in no particular order.
	FetchAll(ctx context.Context) ([]model.Coupon, error)

	// Create inserts a new coupon and returns the stored record.
	// Returns model.ErrCouponExists if the code is already taken.
	Create(ctx context.Context, coupon *model.Coupon) (*model.Coupon, error)
}
