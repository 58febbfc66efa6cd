package listings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"cpu-listings/internal/common/metrics"
	"cpu-listings/internal/common/validation"
	"cpu-listings/internal/models"
)

var (
	ErrQueryExecutionFailed = errors.New("QUERY_EXECUTION_FAILED")
	ErrQueryTimeout         = errors.New("QUERY_TIMEOUT")
	ErrValidationFailed     = validation.ErrValidationFailed
)

// QueryError tags a storage failure with its kind while keeping the
// driver's message as its own.
type QueryError struct {
	Kind error
	Err  error
}

func (e *QueryError) Error() string {
	return e.Err.Error()
}

func (e *QueryError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Fetcher reads validated listing rows through a Querier.
type Fetcher struct {
	querier   Querier
	validator *validation.Validator
	query     SelectQuery
	tracer    trace.Tracer
}

func NewFetcher(querier Querier) (*Fetcher, error) {
	query := ListingQuery()
	schema, err := RowSchema(query.Columns)
	if err != nil {
		return nil, fmt.Errorf("derive listing schema: %w", err)
	}
	validator, err := validation.NewValidator(schema)
	if err != nil {
		return nil, err
	}
	return &Fetcher{
		querier:   querier,
		validator: validator,
		query:     query,
		tracer:    otel.Tracer("cpu-listings/listings"),
	}, nil
}

// Fetch returns every listing whose model and supplier exist, ordered by
// stored price. The first row failing validation aborts with a
// *validation.ValidationError.
func (f *Fetcher) Fetch(ctx context.Context) ([]models.Row, error) {
	ctx, span := f.tracer.Start(ctx, "listings.fetch")
	defer span.End()

	records, err := f.querier.Select(ctx, f.query)
	if err != nil {
		kind := ErrQueryExecutionFailed
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			kind = ErrQueryTimeout
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, kind.Error())
		return nil, &QueryError{Kind: kind, Err: err}
	}
	span.SetAttributes(attribute.Int("listings.rows", len(records)))

	rows := make([]models.Row, 0, len(records))
	for i, rec := range records {
		if err := f.validator.Validate(i, rec); err != nil {
			metrics.ValidationFailures.Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, "validation failed")
			return nil, err
		}

		row, err := decodeRow(rec)
		if err != nil {
			return nil, fmt.Errorf("decode row %d: %w", i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func decodeRow(rec Record) (models.Row, error) {
	var row models.Row
	raw, err := json.Marshal(rec)
	if err != nil {
		return row, err
	}
	if err := json.Unmarshal(raw, &row); err != nil {
		return row, err
	}
	return row, nil
}
