package loadlistings

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	apperrors "cpu-listings/internal/common/errors"
	httputil "cpu-listings/internal/common/http"
	"cpu-listings/internal/common/logger"
	"cpu-listings/internal/common/metrics"
	"cpu-listings/internal/common/validation"
	"cpu-listings/internal/listings"
)

const (
	Route = "load-listings"
)

type Handler struct {
	config     *Config
	source     listings.Source
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, source listings.Source, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"route": Route})
	return &Handler{
		config:     config,
		source:     source,
		errHandler: apperrors.NewErrorHandler(log),
		logger:     log,
	}
}

// ServeHTTP answers GET /cpu-listings?budget=&enhanced=.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		metrics.RequestDuration.WithLabelValues(Route).Observe(time.Since(start).Seconds())
	}()

	query := r.URL.Query()
	input := Input{
		Budget:   query.Get("budget"),
		Enhanced: query.Get("enhanced") == "true",
	}

	h.logger.Debug("loading listings", map[string]interface{}{
		"requestId": httputil.RequestID(r.Context()),
		"budget":    input.Budget,
		"enhanced":  input.Enhanced,
	})

	r, cancel := httputil.WithTimeout(r, h.config.Timeout)
	defer cancel()

	output, err := h.execute(r.Context(), &input)
	if err != nil {
		stdErr := classify(err)
		metrics.RequestsTotal.WithLabelValues(Route, string(stdErr.Code)).Inc()
		h.errHandler.Respond(w, r, stdErr)
		return
	}

	metrics.RequestsTotal.WithLabelValues(Route, "success").Inc()
	metrics.ObserveListings(Route, len(output.AllListings), len(output.Listings))

	if err := httputil.WriteJSON(w, http.StatusOK, output); err != nil {
		h.logger.Error("failed to write response", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, fmt.Errorf("input cannot be nil")
	}

	all, err := h.source.ListListings(ctx)
	if err != nil {
		return nil, err
	}

	if input.Enhanced {
		return &Output{AllListings: all, Listings: all}, nil
	}

	budget := listings.ParseBudget(input.Budget)
	if !budget.Valid {
		metrics.InvalidBudgets.WithLabelValues(Route).Inc()
		h.logger.Warn("budget is not a number, no listings match", map[string]interface{}{
			"budget": input.Budget,
		})
	}

	return &Output{
		AllListings: all,
		Listings:    listings.FilterByBudget(all, budget),
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// classify maps a fetch failure to its response: schema violations are the
// caller's 400, everything else a 500.
func classify(err error) *apperrors.StandardError {
	var vErr *validation.ValidationError
	switch {
	case errors.As(err, &vErr):
		return apperrors.NewListingValidationError(err)
	case errors.Is(err, listings.ErrQueryTimeout):
		return apperrors.NewQueryTimeoutError(err)
	case errors.Is(err, listings.ErrQueryExecutionFailed):
		return apperrors.NewQueryExecutionFailedError(err)
	default:
		return apperrors.NewInternalError(err)
	}
}
