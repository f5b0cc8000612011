// Package seed loads coupon definitions from gzipped JSON-lines files, on local
// disk or in S3, and admits them into the catalog at startup.
package seed

import (
	"context"

	"best-coupon/internal/model"
)

// Loader reads coupon definitions from a named source.
type Loader interface {
	// Load returns every definition in the source, in file order.
	Load(ctx context.Context, path string) ([]model.CreateCouponRequest, error)
}

// Admitter adds a single coupon definition to the catalog.
type Admitter interface {
	CreateCoupon(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error)
}
