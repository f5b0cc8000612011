package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts go over the wire as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// DiscountType selects how a coupon's discount is computed.
type DiscountType string

const (
	// DiscountFlat takes MaxDiscountAmount as the discount itself.
	DiscountFlat DiscountType = "FLAT"
	// DiscountPercent takes MaxDiscountAmount as both the percentage rate and the cap.
	DiscountPercent DiscountType = "PERCENT"
)

// Coupon represents a catalog coupon definition. Coupons are immutable once admitted.
type Coupon struct {
	Code                 string          `json:"code" db:"code"`
	Description          string          `json:"description" db:"description"`
	DiscountType         DiscountType    `json:"discountType" db:"discount_type"`
	MaxDiscountAmount    decimal.Decimal `json:"maxDiscountAmount" db:"max_discount_amount"`
	StartDate            time.Time       `json:"startDate" db:"start_date"`
	EndDate              time.Time       `json:"endDate" db:"end_date"`
	UsageLimitPerUser    *int            `json:"usageLimitPerUser" db:"usage_limit_per_user"`
	AllowedCountries     []string        `json:"allowedCountries" db:"allowed_countries"`
	ApplicableCategories []string        `json:"applicableCategories" db:"applicable_categories"`
	ExcludedCategories   []string        `json:"excludedCategories" db:"excluded_categories"`
	CreatedAt            time.Time       `json:"createdAt" db:"created_at"`
}

// CreateCouponRequest represents the request payload for admitting a coupon.
// Dates are kept as strings so that both RFC 3339 and plain dates can be accepted.
type CreateCouponRequest struct {
	Code                 string           `json:"code"`
	Description          string           `json:"description"`
	DiscountType         string           `json:"discountType"`
	MaxDiscountAmount    *decimal.Decimal `json:"maxDiscountAmount,omitempty"`
	StartDate            string           `json:"startDate"`
	EndDate              string           `json:"endDate"`
	UsageLimitPerUser    *int             `json:"usageLimitPerUser,omitempty"`
	AllowedCountries     []string         `json:"allowedCountries,omitempty"`
	ApplicableCategories []string         `json:"applicableCategories,omitempty"`
	ExcludedCategories   []string         `json:"excludedCategories,omitempty"`
}

// EligibilityResult is the winning coupon together with the discount it yields.
type EligibilityResult struct {
	Coupon
	Discount decimal.Decimal `json:"discount"`
}
