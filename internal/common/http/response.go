// internal/common/http/response.go
package http

import (
	"encoding/json"
	"net/http"
	"time"
)

// WriteJSON writes v with the given status. Headers are already sent when
// the returned encode error is non-nil.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// WithTimeout derives the per-request handler deadline. A zero timeout keeps
// the request context as is.
func WithTimeout(r *http.Request, timeout time.Duration) (*http.Request, func()) {
	if timeout <= 0 {
		return r, func() {}
	}
	ctx, cancel := contextWithTimeout(r, timeout)
	return r.WithContext(ctx), cancel
}
