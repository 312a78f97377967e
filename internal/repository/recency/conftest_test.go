package recency

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/restodex/internal/domain"
	domrest "github.com/kailas-cloud/restodex/internal/domain/restaurant"
)

// mockFinder serves records from a map and counts calls per id.
type mockFinder struct {
	mu      sync.Mutex
	records map[string]domrest.Record
	err     error
	calls   map[string]int
	total   atomic.Int64
	gate    chan struct{}
	entered chan struct{} // receives once per call that reaches the gate
}

func newMockFinder(ids ...string) *mockFinder {
	m := &mockFinder{records: make(map[string]domrest.Record), calls: make(map[string]int)}
	for _, id := range ids {
		m.records[id] = domrest.New(map[string]any{"restaurant": map[string]any{"id": id}})
	}
	return m
}

func (m *mockFinder) GetByExternalID(ctx context.Context, id string) (domrest.Record, error) {
	m.total.Add(1)
	if m.entered != nil {
		m.entered <- struct{}{}
	}
	if m.gate != nil {
		select {
		case <-m.gate:
		case <-ctx.Done():
			return domrest.Record{}, ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[id]++
	if m.err != nil {
		return domrest.Record{}, m.err
	}
	rec, ok := m.records[id]
	if !ok {
		return domrest.Record{}, domain.ErrNotFound
	}
	return rec, nil
}

func (m *mockFinder) callsFor(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[id]
}

// joinCounter returns a hook for Cache.joined and a channel that closes once
// n callers have registered with the load group.
func joinCounter(n int) (func(), <-chan struct{}) {
	var count atomic.Int64
	done := make(chan struct{})
	return func() {
		if count.Add(1) == int64(n) {
			close(done)
		}
	}, done
}

func newTestCache(t *testing.T, inner *mockFinder, capacity int, opts ...Option) *Cache {
	t.Helper()
	c, err := New(inner, capacity, zap.NewNop(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}
