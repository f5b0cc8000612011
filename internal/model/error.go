package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Success       bool   `json:"success"`
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON   = "INVALID_JSON"
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeConflict      = "CONFLICT"
	ErrCodeStorage       = "STORAGE_ERROR"
	ErrCodeUnauthorised  = "UNAUTHORIZED"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidInput       = NewDomainError(ErrCodeInvalidInput, "Invalid input")
	ErrMissingFields      = NewDomainError(ErrCodeInvalidInput, "Required fields missing")
	ErrMissingCredentials = NewDomainError(ErrCodeInvalidInput, "Email and password required")
	ErrCouponExists       = NewDomainError(ErrCodeConflict, "Coupon code already exists")
	ErrValueOutOfRange    = NewDomainError(ErrCodeInvalidInput, "Coupon value out of range")
	ErrStorage            = NewDomainError(ErrCodeStorage, "Server error")
	ErrInvalidCredentials = NewDomainError(ErrCodeUnauthorised, "Invalid credentials")
)
