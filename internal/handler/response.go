package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dafibh/kikoba/kikoba-backend/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation   = "https://kikoba.app/errors/validation"
	ErrorTypeNotFound     = "https://kikoba.app/errors/not-found"
	ErrorTypeUnauthorized = "https://kikoba.app/errors/unauthorized"
	ErrorTypeForbidden    = "https://kikoba.app/errors/forbidden"
	ErrorTypeConflict     = "https://kikoba.app/errors/conflict"
	ErrorTypeInternal     = "https://kikoba.app/errors/internal"
	ErrorTypeUnavailable  = "https://kikoba.app/errors/unavailable"
)

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ProblemDetails{
		Type:     ErrorTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewUnauthorizedError creates an unauthorized error response
func NewUnauthorizedError(c echo.Context, detail string) error {
	return c.JSON(http.StatusUnauthorized, ProblemDetails{
		Type:     ErrorTypeUnauthorized,
		Title:    "Unauthorized",
		Status:   http.StatusUnauthorized,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewForbiddenError creates a forbidden error response
func NewForbiddenError(c echo.Context, detail string) error {
	return c.JSON(http.StatusForbidden, ProblemDetails{
		Type:     ErrorTypeForbidden,
		Title:    "Forbidden",
		Status:   http.StatusForbidden,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, detail string) error {
	return c.JSON(http.StatusConflict, ProblemDetails{
		Type:     ErrorTypeConflict,
		Title:    "Conflict",
		Status:   http.StatusConflict,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewServiceUnavailableError creates a service unavailable error response
func NewServiceUnavailableError(c echo.Context, detail string) error {
	return c.JSON(http.StatusServiceUnavailable, ProblemDetails{
		Type:     ErrorTypeUnavailable,
		Title:    "Service Unavailable",
		Status:   http.StatusServiceUnavailable,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// handleServiceError maps a service error onto a problem response. field names the
// request field a validation error is reported against.
func handleServiceError(c echo.Context, err error, field, action string) error {
	switch {
	case domain.IsValidationError(err):
		log.Debug().Err(err).Str("path", c.Request().URL.Path).Msg("Validation failed")
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: field, Message: err.Error()},
		})
	case domain.IsNotFoundError(err):
		return NewNotFoundError(c, err.Error())
	case errors.Is(err, domain.ErrAlreadyExists):
		return NewConflictError(c, err.Error())
	default:
		log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("Failed to " + action)
		return NewInternalError(c, "Failed to "+action)
	}
}

// validationField picks the request field a service validation error belongs to
func validationField(err error, fields map[error]string, fallback string) string {
	for target, field := range fields {
		if errors.Is(err, target) {
			return field
		}
	}
	return fallback
}

// paramError is a path or query parameter that could not be parsed
type paramError struct {
	field   string
	message string
}

func (e *paramError) Error() string {
	return e.field + ": " + e.message
}

// paramProblem writes the validation response for a paramError
func paramProblem(c echo.Context, err error) error {
	var pe *paramError
	if !errors.As(err, &pe) {
		return NewValidationError(c, err.Error(), nil)
	}
	return NewValidationError(c, "Invalid "+pe.field, []ValidationError{
		{Field: pe.field, Message: pe.message},
	})
}

// parseID reads a positive int32 path parameter
func parseID(c echo.Context, name string) (int32, error) {
	return parsePositiveID(c.Param(name), name)
}

func parsePositiveID(raw, field string) (int32, error) {
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, &paramError{field: field, message: "Must be a positive integer"}
	}
	return int32(id), nil
}

// parseAmount reads a currency amount sent as a string or number
func parseAmount(value string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(value), ",", ""))
}

// formatAmount renders currency as a whole number, the way members read it
func formatAmount(d decimal.Decimal) int64 {
	return d.IntPart()
}

// formatDate renders a calendar date as YYYY-MM-DD
func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

const dateLayout = "2006-01-02"
