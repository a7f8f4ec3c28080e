package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/sharebite/sharebite-api/internal/domain"
	"github.com/sharebite/sharebite-api/internal/platform/metrics"
	"github.com/sharebite/sharebite-api/internal/redact"
	"github.com/sharebite/sharebite-api/internal/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentedFoodStore decorates a store.FoodStore with a span and latency
// metrics per call. Not-found and malformed-identifier results are expected
// outcomes and are not counted as errors.
type InstrumentedFoodStore struct {
	next   store.FoodStore
	driver string
	tracer trace.Tracer
}

var _ store.FoodStore = (*InstrumentedFoodStore)(nil)

// NewInstrumentedFoodStore wraps next. A nil provider uses the global one.
func NewInstrumentedFoodStore(next store.FoodStore, driver string, tp trace.TracerProvider) *InstrumentedFoodStore {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &InstrumentedFoodStore{
		next:   next,
		driver: driver,
		tracer: tp.Tracer(tracerName),
	}
}

// Find implements store.FoodStore.
func (s *InstrumentedFoodStore) Find(ctx context.Context, filter store.FoodFilter) (foods []*domain.Food, err error) {
	ctx, done := s.start(ctx, "find",
		attribute.Bool("filter.donor", filter.DonorEmail != ""),
		attribute.Bool("filter.requester", filter.RequestedBy != ""))
	defer func() { done(err, attribute.Int("result.count", len(foods))) }()
	return s.next.Find(ctx, filter)
}

// FindSortedByExpiry implements store.FoodStore.
func (s *InstrumentedFoodStore) FindSortedByExpiry(ctx context.Context) (foods []*domain.Food, err error) {
	ctx, done := s.start(ctx, "find_sorted")
	defer func() { done(err, attribute.Int("result.count", len(foods))) }()
	return s.next.FindSortedByExpiry(ctx)
}

// GetByID implements store.FoodStore.
func (s *InstrumentedFoodStore) GetByID(ctx context.Context, id domain.FoodID) (food *domain.Food, err error) {
	ctx, done := s.start(ctx, "get", attribute.String("food.id", id.String()))
	defer func() { done(err) }()
	return s.next.GetByID(ctx, id)
}

// Insert implements store.FoodStore.
func (s *InstrumentedFoodStore) Insert(ctx context.Context, food *domain.Food) (id domain.FoodID, err error) {
	ctx, done := s.start(ctx, "insert")
	defer func() { done(err, attribute.String("food.id", id.String())) }()
	return s.next.Insert(ctx, food)
}

// Update implements store.FoodStore.
func (s *InstrumentedFoodStore) Update(
	ctx context.Context,
	id domain.FoodID,
	patch domain.FoodPatch,
) (result domain.UpdateResult, err error) {
	ctx, done := s.start(ctx, "update",
		attribute.String("food.id", id.String()),
		attribute.Int("patch.fields", patch.Len()))
	defer func() {
		done(err,
			attribute.Int64("result.matched", result.MatchedCount),
			attribute.Int64("result.modified", result.ModifiedCount))
	}()
	return s.next.Update(ctx, id, patch)
}

// Delete implements store.FoodStore.
func (s *InstrumentedFoodStore) Delete(ctx context.Context, id domain.FoodID) (result domain.DeleteResult, err error) {
	ctx, done := s.start(ctx, "delete", attribute.String("food.id", id.String()))
	defer func() { done(err, attribute.Int64("result.deleted", result.DeletedCount)) }()
	return s.next.Delete(ctx, id)
}

// Ping implements store.FoodStore.
func (s *InstrumentedFoodStore) Ping(ctx context.Context) (err error) {
	ctx, done := s.start(ctx, "ping")
	defer func() { done(err) }()
	return s.next.Ping(ctx)
}

// Close implements store.FoodStore.
func (s *InstrumentedFoodStore) Close(ctx context.Context) error {
	return s.next.Close(ctx)
}

func (s *InstrumentedFoodStore) start(
	ctx context.Context,
	operation string,
	attrs ...attribute.KeyValue,
) (context.Context, func(error, ...attribute.KeyValue)) {
	started := time.Now()
	ctx, span := s.tracer.Start(ctx, "FoodStore."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(append(attrs,
			attribute.String("db.system", s.driver),
			attribute.String("db.operation", operation))...),
	)

	return ctx, func(err error, resultAttrs ...attribute.KeyValue) {
		defer span.End()
		metrics.StoreOperationDuration.WithLabelValues(s.driver, operation).
			Observe(time.Since(started).Seconds())

		if err != nil && !isExpected(err) {
			metrics.StoreOperationErrors.WithLabelValues(s.driver, operation).Inc()
			span.SetStatus(codes.Error, redact.Error(err))
			return
		}
		span.SetAttributes(resultAttrs...)
	}
}

func isExpected(err error) bool {
	return errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrMalformedID)
}
