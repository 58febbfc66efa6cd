package errors

import (
	"fmt"
	"net/http"
	"time"
)

type ErrorCode string

const (
	ErrCodeListingValidationFailed ErrorCode = "LISTING_VALIDATION_FAILED"
	ErrCodeQueryExecutionFailed    ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout            ErrorCode = "QUERY_TIMEOUT"
	ErrCodeInvalidFormData         ErrorCode = "INVALID_FORM_DATA"
	ErrCodeInternal                ErrorCode = "INTERNAL_ERROR"
)

// StandardError is the JSON error body returned by the HTTP handlers.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Status    int                    `json:"status"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewListingValidationError reports a stored row that failed schema checks.
// The message mirrors the page error shown to users.
func NewListingValidationError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeListingValidationFailed,
		Message:   fmt.Sprintf("Invalid data: %s", err.Error()),
		Details:   err.Error(),
		Status:    HTTPStatus(ErrCodeListingValidationFailed),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewQueryExecutionFailedError(err error) *StandardError {
	return newFetchError(ErrCodeQueryExecutionFailed, err, true)
}

func NewQueryTimeoutError(err error) *StandardError {
	return newFetchError(ErrCodeQueryTimeout, err, true)
}

// NewInternalError covers any other failure while fetching listings. A nil
// or message-less error yields the generic unknown-error text.
func NewInternalError(err error) *StandardError {
	return newFetchError(ErrCodeInternal, err, false)
}

func newFetchError(code ErrorCode, err error, retryable bool) *StandardError {
	stdErr := &StandardError{
		Code:      code,
		Message:   "An unknown error occurred while fetching listings",
		Status:    HTTPStatus(code),
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
	if err != nil && err.Error() != "" {
		stdErr.Message = fmt.Sprintf("An error occurred while fetching listings: %s", err.Error())
		stdErr.Details = err.Error()
	}
	return stdErr
}

func NewInvalidFormDataError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidFormData,
		Message:   "Invalid form data",
		Details:   details,
		Status:    HTTPStatus(ErrCodeInvalidFormData),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// HTTPStatus maps an error code to the response status of the load path.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeListingValidationFailed,
		ErrCodeInvalidFormData:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorCategory groups codes for logging.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeListingValidationFailed, ErrCodeInvalidFormData:
		return "client"
	case ErrCodeQueryExecutionFailed, ErrCodeQueryTimeout:
		return "storage"
	default:
		return "internal"
	}
}
