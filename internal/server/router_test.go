package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cpu-listings/internal/common/config"
	apperrors "cpu-listings/internal/common/errors"
	"cpu-listings/internal/common/logger"
	"cpu-listings/internal/listings"
	"cpu-listings/internal/models"
)

type fakeHealth struct{ err error }

func (f fakeHealth) HealthCheck(ctx context.Context, timeout time.Duration) error { return f.err }

type panickingSource struct{}

func (panickingSource) ListListings(ctx context.Context) ([]models.Listing, error) {
	panic("boom")
}

func testConfig() *config.Config {
	return &config.Config{
		Handlers: map[string]config.HandlerConfig{},
		Metrics:  config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func seededService(t *testing.T) *listings.Service {
	t.Helper()
	m := listings.NewMemoryQuerier()
	cpuA, cpuB := uuid.NewString(), uuid.NewString()
	s1, s2 := uuid.NewString(), uuid.NewString()
	m.Insert("cpu_models", listings.Record{"id": cpuA, "name": "CPU-A"}, listings.Record{"id": cpuB, "name": "CPU-B"})
	m.Insert("suppliers", listings.Record{"id": s1, "name": "S1"}, listings.Record{"id": s2, "name": "S2"})
	m.Insert("listings",
		listings.Record{"id": uuid.NewString(), "cpu_model_id": cpuA, "supplier_id": s1, "price": int64(150), "shipping_cost": int64(1000), "url": "https://s1.example/a"},
		listings.Record{"id": uuid.NewString(), "cpu_model_id": cpuB, "supplier_id": s2, "price": int64(50), "shipping_cost": int64(500), "url": "https://s2.example/b"},
	)
	svc, err := listings.NewService(m)
	require.NoError(t, err)
	return svc
}

func newTestRouter(t *testing.T, cfg *config.Config, source listings.Source, health HealthChecker) http.Handler {
	return NewRouter(Options{
		Config: cfg,
		Source: source,
		Health: health,
		Logger: logger.NewTestLogger(t),
	})
}

func TestRouter_LoadPath(t *testing.T) {
	router := newTestRouter(t, testConfig(), seededService(t), nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cpu-listings?budget=1.00", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	var body struct {
		AllListings []map[string]interface{} `json:"allListings"`
		Listings    []map[string]interface{} `json:"listings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.AllListings, 2)
	require.Len(t, body.Listings, 1)
	assert.Equal(t, "CPU-B", body.Listings[0]["name"])
}

func TestRouter_ActionPath(t *testing.T) {
	router := newTestRouter(t, testConfig(), seededService(t), nil)

	form := url.Values{"budget": {"1.00"}}
	req := httptest.NewRequest(http.MethodPost, "/cpu-listings", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-42", rec.Header().Get(RequestIDHeader))

	var result struct {
		Type   string `json:"type"`
		Status int    `json:"status"`
		Data   string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "success", result.Type)
	assert.Equal(t, 200, result.Status)
	assert.Contains(t, result.Data, `"budget":1`)
	assert.Contains(t, result.Data, `"Listings":[{`)
}

func TestRouter_DisabledRoute(t *testing.T) {
	cfg := testConfig()
	cfg.Handlers["budget-action"] = config.HandlerConfig{Enabled: false}
	router := newTestRouter(t, cfg, seededService(t), nil)

	req := httptest.NewRequest(http.MethodPost, "/cpu-listings", strings.NewReader("budget=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_Health(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		router := newTestRouter(t, testConfig(), seededService(t), fakeHealth{})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
	})

	t.Run("database down", func(t *testing.T) {
		router := newTestRouter(t, testConfig(), seededService(t), fakeHealth{err: errors.New("postgres health check failed: dial tcp: refused")})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"unhealthy"`)
	})
}

func TestRouter_Metrics(t *testing.T) {
	router := newTestRouter(t, testConfig(), seededService(t), nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cpu-listings?budget=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `listing_requests_total{outcome="success",route="load-listings"}`)
}

func TestRouter_MetricsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Enabled = false
	router := newTestRouter(t, cfg, seededService(t), nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_RecoversPanics(t *testing.T) {
	router := newTestRouter(t, testConfig(), panickingSource{}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cpu-listings", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body apperrors.StandardError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, apperrors.ErrCodeInternal, body.Code)
}

func TestNewHTTPServer(t *testing.T) {
	srv := NewHTTPServer(config.ServerConfig{Address: ":9090", ReadTimeout: 1500, WriteTimeout: 3000}, http.NotFoundHandler())
	assert.Equal(t, ":9090", srv.Addr)
	assert.Equal(t, 1500*time.Millisecond, srv.ReadTimeout)
	assert.Equal(t, 3*time.Second, srv.WriteTimeout)
}
