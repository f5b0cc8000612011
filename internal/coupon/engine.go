// Package coupon implements coupon eligibility and ranking.
//
// Everything in this package is pure: functions take the catalog snapshot and
// request context as values, never perform I/O and never mutate their inputs,
// so they are safe to call from concurrent requests.
package coupon

import (
	"time"

	"best-coupon/internal/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// SelectBest evaluates every coupon in the catalog against the shopper and cart
// at the given instant and returns the single best eligible coupon with its
// discount, or nil when nothing applies.
//
// Ranking is a strict total order: higher discount first, then the earlier end
// date, then the lexicographically smaller code. Codes are unique, so the
// result does not depend on catalog order.
func SelectBest(shopper model.ShopperContext, cart model.CartContext, catalog []model.Coupon, now time.Time) *model.EligibilityResult {
	cartValue := CartValue(cart)
	categories := Categories(cart)

	var best *model.EligibilityResult
	for _, c := range catalog {
		if !Eligible(c, shopper, categories, now) {
			continue
		}

		candidate := model.EligibilityResult{
			Coupon:   c,
			Discount: Discount(c, cartValue),
		}
		if best == nil || outranks(candidate, *best) {
			best = &candidate
		}
	}

	return best
}

// Eligible reports whether the coupon passes the temporal, usage, country and
// category gates. An empty restriction list means no restriction.
func Eligible(c model.Coupon, shopper model.ShopperContext, categories Set, now time.Time) bool {
	// Both ends of the validity window are inclusive.
	if now.Before(c.StartDate) || now.After(c.EndDate) {
		return false
	}

	// A nil limit is unlimited. Reaching the limit exactly excludes the coupon.
	if c.UsageLimitPerUser != nil && shopper.OrdersPlaced >= *c.UsageLimitPerUser {
		return false
	}

	if len(c.AllowedCountries) > 0 && !NewSet(c.AllowedCountries...).Contains(shopper.Country) {
		return false
	}

	if len(c.ApplicableCategories) > 0 && !categories.Intersects(NewSet(c.ApplicableCategories...)) {
		return false
	}

	// Exclusion is checked on its own and wins over inclusion.
	if len(c.ExcludedCategories) > 0 && categories.Intersects(NewSet(c.ExcludedCategories...)) {
		return false
	}

	return true
}

// Discount computes the discount a coupon yields for the given cart value.
//
// MaxDiscountAmount doubles as the PERCENT rate and its cap, so a PERCENT
// coupon of 10 gives 10% of the cart but never more than 10.
func Discount(c model.Coupon, cartValue decimal.Decimal) decimal.Decimal {
	switch c.DiscountType {
	case model.DiscountFlat:
		return c.MaxDiscountAmount
	case model.DiscountPercent:
		discount := c.MaxDiscountAmount.Div(hundred).Mul(cartValue)
		if !c.MaxDiscountAmount.IsZero() {
			discount = decimal.Min(discount, c.MaxDiscountAmount)
		}
		return discount
	default:
		return decimal.Zero
	}
}

// CartValue returns the sum of unit price times quantity over all cart items.
func CartValue(cart model.CartContext) decimal.Decimal {
	total := decimal.Zero
	for _, item := range cart.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// Categories returns the distinct categories present in the cart.
func Categories(cart model.CartContext) Set {
	set := NewSet()
	for _, item := range cart.Items {
		set.Add(item.Category)
	}
	return set
}

// outranks reports whether a ranks strictly before b.
func outranks(a, b model.EligibilityResult) bool {
	if cmp := a.Discount.Cmp(b.Discount); cmp != 0 {
		return cmp > 0
	}
	if !a.EndDate.Equal(b.EndDate) {
		return a.EndDate.Before(b.EndDate)
	}
	return a.Code < b.Code
}
