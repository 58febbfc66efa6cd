package budgetaction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"mime"
	"net/http"
	"time"

	apperrors "cpu-listings/internal/common/errors"
	httputil "cpu-listings/internal/common/http"
	"cpu-listings/internal/common/logger"
	"cpu-listings/internal/common/metrics"
	"cpu-listings/internal/common/validation"
	"cpu-listings/internal/listings"
	"cpu-listings/internal/models"
)

const (
	Route = "budget-action"
)

var ErrInvalidFormData = errors.New("INVALID_FORM_DATA")

type Handler struct {
	config *Config
	source listings.Source
	logger logger.Logger
}

func NewHandler(config *Config, source listings.Source, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		source: source,
		logger: log.WithFields(map[string]interface{}{"route": Route}),
	}
}

// ServeHTTP answers a form POST to /cpu-listings. Every failure is reported
// with the same generic payload and status 200; the cause is only logged.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		metrics.RequestDuration.WithLabelValues(Route).Observe(time.Since(start).Seconds())
	}()

	r, cancel := httputil.WithTimeout(r, h.config.Timeout)
	defer cancel()

	result, err := h.handle(r)
	if err != nil {
		stdErr := classify(err)
		metrics.RequestsTotal.WithLabelValues(Route, string(stdErr.Code)).Inc()
		h.logger.Error("action failed", map[string]interface{}{
			"requestId":     httputil.RequestID(r.Context()),
			"errorCode":     string(stdErr.Code),
			"errorCategory": apperrors.GetErrorCategory(stdErr.Code),
			"error":         err,
		})
		h.write(w, Failure{Error: FailureMessage})
		return
	}

	metrics.RequestsTotal.WithLabelValues(Route, "success").Inc()
	h.write(w, result)
}

func (h *Handler) handle(r *http.Request) (*Result, error) {
	input, err := h.parseInput(r)
	if err != nil {
		return nil, err
	}
	h.logger.Info("received budget", map[string]interface{}{
		"requestId": httputil.RequestID(r.Context()),
		"budget":    input.Budget.Raw,
		"valid":     input.Budget.Valid,
	})

	payload, err := h.execute(r.Context(), input)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return &Result{Type: "success", Status: http.StatusOK, Data: string(data)}, nil
}

func (h *Handler) parseInput(r *http.Request) (*Input, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormData, err)
	}

	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormData, err)
		}
	case "multipart/form-data":
		if err := r.ParseMultipartForm(h.config.MaxMemory); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormData, err)
		}
		// a file in the budget field never coerces to a number
		if _, isValue := r.PostForm["budget"]; !isValue && len(r.MultipartForm.File["budget"]) > 0 {
			raw := r.MultipartForm.File["budget"][0].Filename
			return &Input{Budget: models.Budget{Value: math.NaN(), Raw: raw}}, nil
		}
	default:
		return nil, fmt.Errorf("%w: unsupported content type %q", ErrInvalidFormData, mediaType)
	}

	return &Input{Budget: listings.ParseBudget(r.PostForm.Get("budget"))}, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Payload, error) {
	if input == nil {
		return nil, fmt.Errorf("input cannot be nil")
	}

	all, err := h.source.ListListings(ctx)
	if err != nil {
		return nil, err
	}

	if !input.Budget.Valid {
		metrics.InvalidBudgets.WithLabelValues(Route).Inc()
	}
	visible := listings.FilterByBudget(all, input.Budget)
	metrics.ObserveListings(Route, len(all), len(visible))

	return &Payload{
		Budget:      input.Budget,
		Listings:    visible,
		AllListings: all,
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Payload, error) {
	return h.execute(ctx, input)
}

func (h *Handler) write(w http.ResponseWriter, v interface{}) {
	if err := httputil.WriteJSON(w, http.StatusOK, v); err != nil {
		h.logger.Error("failed to write response", map[string]interface{}{
			"error": err,
		})
	}
}

func classify(err error) *apperrors.StandardError {
	var vErr *validation.ValidationError
	switch {
	case errors.Is(err, ErrInvalidFormData):
		return apperrors.NewInvalidFormDataError(err.Error())
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
