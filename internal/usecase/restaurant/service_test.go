package restaurant

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/restodex/internal/domain"
	domrest "github.com/kailas-cloud/restodex/internal/domain/restaurant"
)

// --- Mocks ---

type mockFinder struct {
	records map[string]domrest.Record
	err     error
	calls   int
}

func (m *mockFinder) GetByExternalID(_ context.Context, id string) (domrest.Record, error) {
	m.calls++
	if m.err != nil {
		return domrest.Record{}, m.err
	}
	r, ok := m.records[id]
	if !ok {
		return domrest.Record{}, fmt.Errorf("get %s: %w", id, domain.ErrNotFound)
	}
	return r, nil
}

// blockingFinder waits until the lookup context ends.
type blockingFinder struct{}

func (blockingFinder) GetByExternalID(ctx context.Context, _ string) (domrest.Record, error) {
	<-ctx.Done()
	return domrest.Record{}, ctx.Err()
}

type countingFailures struct{ n int }

func (c *countingFailures) Inc() { c.n++ }

func record(id string) domrest.Record {
	return domrest.New(map[string]any{
		"restaurant": map[string]any{"id": id, "name": "R" + id},
	})
}

// --- Tests ---

func TestGet_Found(t *testing.T) {
	f := &mockFinder{records: map[string]domrest.Record{"17": record("17")}}
	svc := New(f, nil, zap.NewNop())

	r, ok := svc.Get(context.Background(), "17")
	if !ok {
		t.Fatal("expected found")
	}
	if r.Name() != "R17" {
		t.Errorf("Name() = %q", r.Name())
	}
}

func TestGet_NotFound(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	failures := &countingFailures{}
	svc := New(&mockFinder{}, failures, zap.New(core))

	r, ok := svc.Get(context.Background(), "missing")
	if ok {
		t.Fatal("expected not found")
	}
	if !r.IsZero() {
		t.Error("expected zero record")
	}
	if logs.Len() != 0 {
		t.Errorf("not-found should not log, got %d entries", logs.Len())
	}
	if failures.n != 0 {
		t.Errorf("failures = %d, want 0", failures.n)
	}
}

func TestGet_StoreErrorAbsorbed(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	failures := &countingFailures{}
	f := &mockFinder{err: fmt.Errorf("find: %w: %w", domain.ErrStoreUnavailable, errors.New("conn reset"))}
	svc := New(f, failures, zap.New(core))

	_, ok := svc.Get(context.Background(), "17")
	if ok {
		t.Fatal("expected not found on store failure")
	}
	if logs.Len() != 1 {
		t.Fatalf("logged %d entries, want 1", logs.Len())
	}
	if got := logs.All()[0].ContextMap()["id"]; got != "17" {
		t.Errorf("logged id = %v", got)
	}
	if failures.n != 1 {
		t.Errorf("failures = %d, want 1", failures.n)
	}
}

func TestGet_TimeoutAbsorbed(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	failures := &countingFailures{}
	svc := New(blockingFinder{}, failures, zap.New(core), WithTimeout(10*time.Millisecond))

	done := make(chan bool, 1)
	go func() {
		_, ok := svc.Get(context.Background(), "17")
		done <- ok
	}()

	select {
	case ok := <-done:
		if ok {
			t.Fatal("expected absent on timeout")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Get did not honour the lookup timeout")
	}
	if failures.n != 1 {
		t.Errorf("failures = %d, want 1", failures.n)
	}
	if logs.Len() != 1 {
		t.Fatalf("logged %d entries, want 1", logs.Len())
	}
	if err, _ := logs.All()[0].ContextMap()["error"].(string); err != context.DeadlineExceeded.Error() {
		t.Errorf("logged error = %q", err)
	}
}
