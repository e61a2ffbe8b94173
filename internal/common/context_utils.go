package common

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// StatusCode maps a domain error onto an HTTP status.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInsufficientStock):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// SendDomainError writes err using the standardized envelope. Internal errors
// are not echoed to the client.
func SendDomainError(c echo.Context, err error) error {
	status := StatusCode(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}
	return c.JSON(status, CreateErrorResponse(ErrorCode(err), message, nil))
}

// ParseID reads a UUID path parameter.
func ParseID(c echo.Context, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(c.Param(name))
	if raw == "" {
		return uuid.Nil, Validationf("%s is required", name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, Validationf("%s has invalid UUID format", name)
	}
	return id, nil
}

// ValidatePositiveInteger validates positive integer values with upper bounds
func ValidatePositiveInteger(value int, fieldName string, maxValue int) error {
	if value <= 0 {
		return Validationf("%s must be positive", fieldName)
	}
	if value > maxValue {
		return Validationf("%s cannot exceed %d", fieldName, maxValue)
	}
	return nil
}

// ValidateRequiredString validates required string fields
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return Validationf("%s is required", fieldName)
	}
	return nil
}

// ValidateOptionalString trims an optional string and enforces its length.
// Blank values collapse to nil.
func ValidateOptionalString(value *string, fieldName string, maxLength int) (*string, error) {
	if value == nil {
		return nil, nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil, nil
	}
	if len(v) > maxLength {
		return nil, Validationf("%s cannot exceed %d characters", fieldName, maxLength)
	}
	return &v, nil
}

// Paginate clamps limit/offset the same way across list endpoints.
func Paginate(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
