package server

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	apperrors "cpu-listings/internal/common/errors"
	httputil "cpu-listings/internal/common/http"
	"cpu-listings/internal/common/logger"
	"cpu-listings/internal/common/observability"
)

const RequestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

func (s *statusRecorder) code() int {
	if s.status == 0 {
		return http.StatusOK
	}
	return s.status
}

func recorderFor(w http.ResponseWriter) *statusRecorder {
	if rec, ok := w.(*statusRecorder); ok {
		return rec
	}
	return &statusRecorder{ResponseWriter: w}
}

// requestIDMiddleware keeps an incoming X-Request-ID or assigns a new one.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(httputil.WithRequestID(r.Context(), id)))
	})
}

func accessLogMiddleware(log logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := recorderFor(w)
			next.ServeHTTP(rec, r)

			log.Info("request completed", map[string]interface{}{
				"requestId":  httputil.RequestID(r.Context()),
				"method":     r.Method,
				"path":       r.URL.Path,
				"route":      routeName(r),
				"status":     rec.code(),
				"bytes":      rec.bytes,
				"durationMs": time.Since(start).Milliseconds(),
			})
		})
	}
}

func observeMiddleware(obs *observability.Observability) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := recorderFor(w)
			next.ServeHTTP(rec, r)

			route := routeName(r)
			obs.RecordRequest(r.Context(), route, rec.code())
			obs.RecordRequestDuration(r.Context(), route, time.Since(start), rec.code())
		})
	}
}

// recoverMiddleware turns a handler panic into a 500 JSON error.
func recoverMiddleware(log logger.Logger) mux.MiddlewareFunc {
	errHandler := apperrors.NewErrorHandler(log)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					log.Error("handler panicked", map[string]interface{}{
						"requestId": httputil.RequestID(r.Context()),
						"panic":     p,
						"stack":     string(debug.Stack()),
					})
					errHandler.Respond(w, r, fmt.Errorf("panic: %v", p))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if name := route.GetName(); name != "" {
			return name
		}
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
