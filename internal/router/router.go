package router

import (
	"net/http"

	"best-coupon/internal/handler"
	"best-coupon/internal/metrics"
	"best-coupon/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	couponHandler *handler.CouponHandler,
	authHandler *handler.AuthHandler,
	m *metrics.Metrics,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Applied in order: RequestID -> Recovery -> Logging -> Metrics -> CORS
	// RequestID runs first so a recovered panic still reports its correlation id.
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics(m))
	r.Use(middleware.CORS)

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	r.Get("/health", handler.Health)
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Post("/best-coupon", couponHandler.BestCoupon)
	r.Post("/login", authHandler.Login)

	// Only admission is guarded; evaluation and login stay public.
	r.With(middleware.APIKeyAuth(apiKey, logger)).Post("/create-coupon", couponHandler.CreateCoupon)

	return r
}
