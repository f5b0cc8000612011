package handler

import (
	"net/http"

	"best-coupon/internal/model"
	"best-coupon/internal/service"

	"github.com/rs/zerolog"
)

// CouponHandler handles coupon-related HTTP requests.
type CouponHandler struct {
	service service.CouponService
	logger  zerolog.Logger
}

// NewCouponHandler creates a new coupon handler.
func NewCouponHandler(service service.CouponService, logger zerolog.Logger) *CouponHandler {
	return &CouponHandler{
		service: service,
		logger:  logger.With().Str("handler", "coupon").Logger(),
	}
}

// BestCoupon handles POST /best-coupon requests.
func (h *CouponHandler) BestCoupon(w http.ResponseWriter, r *http.Request) {
	var req model.BestCouponRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "Invalid JSON body", h.logger)
		return
	}

	best, err := h.service.BestCoupon(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.BestCouponResponse{
		Success:    true,
		BestCoupon: best,
	})
}

// CreateCoupon handles POST /create-coupon requests.
func (h *CouponHandler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req model.CreateCouponRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "Invalid JSON body", h.logger)
		return
	}

	created, err := h.service.CreateCoupon(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, model.CreateCouponResponse{
		Success: true,
		Message: "Coupon created successfully",
		Data:    created,
	})
}
