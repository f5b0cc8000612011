package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"best-coupon/internal/middleware"
	"best-coupon/internal/model"

	"github.com/rs/zerolog"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code, code and message.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, logger zerolog.Logger) {
	correlationID := middleware.RequestIDFromContext(r.Context())

	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("error", code).
		Str("message", message).
		Int("status", status).
		Str("request_id", correlationID).
		Msg("handler error")

	writeJSON(w, status, model.ErrorResponse{
		Success:       false,
		Error:         code,
		Message:       message,
		CorrelationID: correlationID,
	})
}

// writeServiceError maps a service error onto the error envelope. Anything that
// is not a client-facing domain error is reported as a generic server error.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		logger.Error().Err(err).Str("request_id", middleware.RequestIDFromContext(r.Context())).Msg("unexpected service error")
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "Server error", logger)
		return
	}

	switch domainErr.Code {
	case model.ErrCodeInvalidInput, model.ErrCodeInvalidJSON:
		writeError(w, r, http.StatusBadRequest, domainErr.Code, domainErr.Message, logger)
	case model.ErrCodeConflict:
		writeError(w, r, http.StatusConflict, domainErr.Code, domainErr.Message, logger)
	case model.ErrCodeUnauthorised:
		writeError(w, r, http.StatusUnauthorized, domainErr.Code, domainErr.Message, logger)
	default:
		// Keep the cause in the logs only.
		logger.Error().Err(err).Str("request_id", middleware.RequestIDFromContext(r.Context())).Msg("service failure")
		writeError(w, r, http.StatusInternalServerError, domainErr.Code, "Server error", logger)
	}
}

// decodeJSON decodes the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
}

// Health handles GET /health requests.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// NotFound handles requests for unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, model.ErrorResponse{
		Success:       false,
		Error:         "NOT_FOUND",
		Message:       "Route not found",
		CorrelationID: middleware.RequestIDFromContext(r.Context()),
	})
}

// MethodNotAllowed handles requests with an unsupported method for a known route.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, model.ErrorResponse{
		Success:       false,
		Error:         "METHOD_NOT_ALLOWED",
		Message:       "Method not allowed",
		CorrelationID: middleware.RequestIDFromContext(r.Context()),
	})
}
