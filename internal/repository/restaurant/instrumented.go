package restaurant

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kailas-cloud/restodex/internal/db"
	domrest "github.com/kailas-cloud/restodex/internal/domain/restaurant"
	"github.com/kailas-cloud/restodex/internal/domain/search/query"
	"github.com/kailas-cloud/restodex/internal/metrics"
)

const tracerName = "github.com/kailas-cloud/restodex/internal/repository/restaurant"

// InstrumentedStore wraps a record store with a span and metrics per call.
type InstrumentedStore struct {
	inner  store
	tracer trace.Tracer
}

// InstrumentOption configures an InstrumentedStore.
type InstrumentOption func(*InstrumentedStore)

// WithTracer injects a tracer instead of the global provider's.
func WithTracer(t trace.Tracer) InstrumentOption {
	return func(s *InstrumentedStore) { s.tracer = t }
}

// NewInstrumentedStore wraps inner.
func NewInstrumentedStore(inner store, opts ...InstrumentOption) *InstrumentedStore {
	s := &InstrumentedStore{inner: inner}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	return s
}

// FindMatching implements store.
func (s *InstrumentedStore) FindMatching(
	ctx context.Context, p query.Predicate, skip, limit int,
) ([]domrest.Record, error) {
	ctx, span := s.tracer.Start(ctx, "store.FindMatching", trace.WithAttributes(
		attribute.String("restodex.predicate", p.Key()),
		attribute.Int("restodex.skip", skip),
		attribute.Int("restodex.limit", limit),
	))
	start := time.Now()

	records, err := s.inner.FindMatching(ctx, p, skip, limit)

	span.SetAttributes(attribute.Int("restodex.returned", len(records)))
	finish(span, db.OpFind, start, err)
	return records, err
}

// CountMatching implements store.
func (s *InstrumentedStore) CountMatching(ctx context.Context, p query.Predicate) (int, error) {
	ctx, span := s.tracer.Start(ctx, "store.CountMatching", trace.WithAttributes(
		attribute.String("restodex.predicate", p.Key()),
	))
	start := time.Now()

	n, err := s.inner.CountMatching(ctx, p)

	span.SetAttributes(attribute.Int("restodex.count", n))
	finish(span, db.OpCount, start, err)
	return n, err
}

// FindOne implements store.
func (s *InstrumentedStore) FindOne(ctx context.Context, c query.Condition) (domrest.Record, error) {
	ctx, span := s.tracer.Start(ctx, "store.FindOne", trace.WithAttributes(
		attribute.String("restodex.field", string(c.Field)),
		attribute.String("restodex.value", c.Value),
	))
	start := time.Now()

	rec, err := s.inner.FindOne(ctx, c)

	finish(span, db.OpFindOne, start, err)
	return rec, err
}

func finish(span trace.Span, op string, start time.Time, err error) {
	status := "ok"
	switch {
	case errors.Is(err, db.ErrKeyNotFound):
		status = "not_found"
	case err != nil:
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	metrics.ObserveStoreCall(op, status, time.Since(start))
	span.End()
}
