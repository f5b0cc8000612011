package model

import "github.com/shopspring/decimal"

// ShopperContext describes the shopper a coupon is evaluated for.
type ShopperContext struct {
	UserID        string          `json:"userId"`
	UserTier      string          `json:"userTier"`
	Country       string          `json:"country"`
	LifetimeSpend decimal.Decimal `json:"lifetimeSpend"`
	OrdersPlaced  int             `json:"ordersPlaced"`
}

// LineItem represents a single product line in a cart.
type LineItem struct {
	ProductID string          `json:"productId"`
	Category  string          `json:"category"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

// CartContext represents the cart a coupon is evaluated against.
// A nil Items slice means the field was absent from the request.
type CartContext struct {
	Items []LineItem `json:"items"`
}

// BestCouponRequest represents the request payload for selecting the best coupon.
type BestCouponRequest struct {
	User *ShopperContext `json:"user"`
	Cart *CartContext    `json:"cart"`
}

// BestCouponResponse represents the response payload for coupon selection.
type BestCouponResponse struct {
	Success    bool               `json:"success"`
	BestCoupon *EligibilityResult `json:"bestCoupon"`
}

// CreateCouponResponse represents the response payload for coupon admission.
type CreateCouponResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Data    *Coupon `json:"data"`
}
