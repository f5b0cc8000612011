package service

import (
	"context"

	"best-coupon/internal/model"
)

// CouponService defines operations for coupon evaluation and admission.
type CouponService interface {
	// BestCoupon returns the best eligible coupon for the shopper and cart,
	// or nil if no coupon applies.
	BestCoupon(ctx context.Context, req *model.BestCouponRequest) (*model.EligibilityResult, error)

	// CreateCoupon validates a coupon definition and adds it to the catalog.
	CreateCoupon(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error)
}

// AuthService defines operations for shopper login.
type AuthService interface {
	// Login checks the credentials and returns the shopper profile.
	Login(ctx context.Context, email, password string) (*model.LoginResponse, error)
}

// TokenIssuer signs session tokens for authenticated profiles.
type TokenIssuer interface {
	Issue(profile *model.UserProfile) (string, error)
}
