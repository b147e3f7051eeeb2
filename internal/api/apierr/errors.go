package apierr

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/mcoot/mcregbot/internal/model"
	"github.com/mcoot/mcregbot/internal/services/outcome"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeInvalidName          = "INVALID_NAME"
	CodeAlreadyRegistered    = "ALREADY_REGISTERED"
	CodeNotRegistered        = "NOT_REGISTERED"
	CodeNameTaken            = "NAME_TAKEN"
	CodeAuthorityUnavailable = "AUTHORITY_UNAVAILABLE"
	CodeRotationBlocked      = "ROTATION_BLOCKED"
	CodeCooldownActive       = "COOLDOWN_ACTIVE"
	CodeInconsistentState    = "INCONSISTENT_STATE"
	CodeInternalError        = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)

	var cooldown *model.CooldownError
	if errors.As(err, &cooldown) {
		secs := int(cooldown.Remaining.Round(time.Second) / time.Second)
		w.Header().Set("Retry-After", strconv.Itoa(max(secs, 1)))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	if errors.Is(err, model.ErrBindingNotFound) {
		return &httpError{http.StatusNotFound, APIError{CodeNotRegistered, "Identity is not registered"}}
	}

	switch outcome.Classify(err) {
	case outcome.KindInvalidName:
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidName, "Player name must be 3-16 letters, digits or underscores"}}
	case outcome.KindAlreadyRegistered:
		return &httpError{http.StatusConflict, APIError{CodeAlreadyRegistered, "Identity is already registered"}}
	case outcome.KindNotRegistered:
		return &httpError{http.StatusNotFound, APIError{CodeNotRegistered, "Identity is not registered"}}
	case outcome.KindNameTaken:
		return &httpError{http.StatusConflict, APIError{CodeNameTaken, "Player name is already taken"}}
	case outcome.KindAuthorityUnavailable:
		return &httpError{http.StatusServiceUnavailable, APIError{CodeAuthorityUnavailable, "Game server is unavailable, try again later"}}
	case outcome.KindRotationBlocked:
		return &httpError{http.StatusForbidden, APIError{CodeRotationBlocked, "Name change is not available"}}
	case outcome.KindCooldownActive:
		return &httpError{http.StatusTooManyRequests, APIError{CodeCooldownActive, err.Error()}}
	case outcome.KindInconsistentState:
		return &httpError{http.StatusBadGateway, APIError{CodeInconsistentState, "Game server and local records diverged; an operator has been notified"}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
