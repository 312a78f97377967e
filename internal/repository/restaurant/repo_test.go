package restaurant

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/trace/noop"

	"github.com/kailas-cloud/restodex/internal/db"
	"github.com/kailas-cloud/restodex/internal/domain"
	domrest "github.com/kailas-cloud/restodex/internal/domain/restaurant"
	"github.com/kailas-cloud/restodex/internal/domain/search/query"
)

func TestRepo_Find(t *testing.T) {
	ms := &mockStore{findFn: func(_ context.Context, p query.Predicate, skip, limit int) ([]domrest.Record, error) {
		if p.Kind() != query.KindAll || skip != 15 || limit != 15 {
			t.Errorf("unexpected args: %v %d %d", p, skip, limit)
		}
		return []domrest.Record{record("1")}, nil
	}}

	got, err := New(ms).Find(context.Background(), query.All(), 15, 15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d records", len(got))
	}
}

func TestRepo_StoreErrorsBecomeUnavailable(t *testing.T) {
	storeErr := &db.Error{Op: db.OpFind, Err: errors.New("connection reset")}
	ms := &mockStore{
		findFn: func(context.Context, query.Predicate, int, int) ([]domrest.Record, error) {
			return nil, storeErr
		},
		countFn: func(context.Context, query.Predicate) (int, error) { return 0, storeErr },
		oneFn: func(context.Context, query.Condition) (domrest.Record, error) {
			return domrest.Record{}, storeErr
		},
	}
	r := New(ms)
	ctx := context.Background()

	_, findErr := r.Find(ctx, query.All(), 0, 15)
	_, countErr := r.Count(ctx, query.All())
	_, getErr := r.GetByExternalID(ctx, "1")

	for name, err := range map[string]error{"find": findErr, "count": countErr, "get": getErr} {
		if !errors.Is(err, domain.ErrStoreUnavailable) {
			t.Errorf("%s: err = %v, want ErrStoreUnavailable", name, err)
		}
		var dbErr *db.Error
		if !errors.As(err, &dbErr) {
			t.Errorf("%s: underlying db.Error lost", name)
		}
	}
}

func TestRepo_GetByExternalID(t *testing.T) {
	ms := &mockStore{oneFn: func(_ context.Context, c query.Condition) (domrest.Record, error) {
		if c.Field != query.ExternalID || c.Op != query.Equals || c.Value != "42" {
			t.Errorf("condition = %v", c)
		}
		return record("42"), nil
	}}

	rec, err := New(ms).GetByExternalID(context.Background(), "42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ExternalID() != "42" {
		t.Errorf("ExternalID() = %q", rec.ExternalID())
	}
}

func TestRepo_GetByExternalID_NotFound(t *testing.T) {
	ms := &mockStore{oneFn: func(context.Context, query.Condition) (domrest.Record, error) {
		return domrest.Record{}, db.ErrKeyNotFound
	}}

	_, err := New(ms).GetByExternalID(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if errors.Is(err, domain.ErrStoreUnavailable) {
		t.Error("not found must not look like a store failure")
	}
}

func TestInstrumentedStore_PassesThrough(t *testing.T) {
	calls := 0
	ms := &mockStore{
		findFn: func(context.Context, query.Predicate, int, int) ([]domrest.Record, error) {
			calls++
			return []domrest.Record{record("1"), record("2")}, nil
		},
		countFn: func(context.Context, query.Predicate) (int, error) {
			calls++
			return 2, nil
		},
		oneFn: func(context.Context, query.Condition) (domrest.Record, error) {
			calls++
			return domrest.Record{}, db.ErrKeyNotFound
		},
	}
	s := NewInstrumentedStore(ms, WithTracer(noop.NewTracerProvider().Tracer("test")))
	ctx := context.Background()

	recs, err := s.FindMatching(ctx, query.All(), 0, 15)
	if err != nil || len(recs) != 2 {
		t.Fatalf("FindMatching = %v, %v", recs, err)
	}
	n, err := s.CountMatching(ctx, query.All())
	if err != nil || n != 2 {
		t.Fatalf("CountMatching = %d, %v", n, err)
	}
	if _, err := s.FindOne(ctx, query.Eq(query.ExternalID, "x")); !errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("FindOne err = %v", err)
	}
	if calls != 3 {
		t.Errorf("inner calls = %d, want 3", calls)
	}
}

func TestInstrumentedStore_DefaultTracer(t *testing.T) {
	s := NewInstrumentedStore(&mockStore{})
	if s.tracer == nil {
		t.Fatal("expected global tracer")
	}
	if _, err := s.CountMatching(context.Background(), query.All()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
