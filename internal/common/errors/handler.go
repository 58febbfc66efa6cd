package errors

import (
	"encoding/json"
	"net/http"
	"time"
)

type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Respond normalizes err, logs it and writes it as the JSON response body.
func (h *ErrorHandler) Respond(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := h.Normalize(err)
	h.logError(r, stdErr)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(stdErr.Status)
	if encErr := json.NewEncoder(w).Encode(stdErr); encErr != nil {
		h.logger.Error("failed to encode error response", map[string]interface{}{
			"error": encErr,
		})
	}
}

func (h *ErrorHandler) Normalize(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		if stdErr.Status == 0 {
			stdErr.Status = HTTPStatus(stdErr.Code)
		}
		return stdErr
	}
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   details,
		Status:    http.StatusInternalServerError,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func (h *ErrorHandler) logError(r *http.Request, stdErr *StandardError) {
	fields := map[string]interface{}{
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"status":        stdErr.Status,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
	if r != nil {
		fields["method"] = r.Method
		fields["path"] = r.URL.Path
	}
	h.logger.Error("request failed", fields)
}
