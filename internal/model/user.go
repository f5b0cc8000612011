package model

import "github.com/shopspring/decimal"

// UserProfile is the public view of an account. It never carries credentials.
type UserProfile struct {
	UserID        string          `json:"userId"`
	Email         string          `json:"email"`
	UserTier      string          `json:"userTier"`
	Country       string          `json:"country"`
	LifetimeSpend decimal.Decimal `json:"lifetimeSpend"`
	OrdersPlaced  int             `json:"ordersPlaced"`
}

// LoginRequest represents the request payload for logging in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents the response payload for a successful login.
type LoginResponse struct {
	Success bool         `json:"success"`
	User    *UserProfile `json:"user"`
	Token   string       `json:"token,omitempty"`
}
