package restodex

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/restodex/internal/db/memory"
	domrest "github.com/kailas-cloud/restodex/internal/domain/restaurant"
)

func seeded(n int) *memory.Store {
	store := memory.NewStore()
	for i := 1; i <= n; i++ {
		store.Insert(domrest.New(map[string]any{
			"_id": fmt.Sprintf("64b7f0c2a1b2c3d4e5f6%04x", i),
			"restaurant": map[string]any{
				"id":          fmt.Sprintf("%d", i),
				"name":        fmt.Sprintf("Bistro %d", i),
				"location":    map[string]any{"address": "Rue 1"},
				"user_rating": map[string]any{"aggregate_rating": "4.2"},
				"cuisines":    []any{"French", "Cafe"},
			},
		}))
	}
	return store
}

func newTestClient(t *testing.T, store *memory.Store, reg prometheus.Registerer, opts ...Option) *Client {
	t.Helper()
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}
	obs, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}
	c, err := wireClient(store, cfg, obs)
	if err != nil {
		t.Fatalf("wireClient: %v", err)
	}
	return c
}

func TestNew_RequiresDriver(t *testing.T) {
	if _, err := New(context.Background()); err == nil {
		t.Fatal("expected error without a store option")
	}
}

func TestClient_Search(t *testing.T) {
	c := newTestClient(t, seeded(20), nil)

	p := c.Search(context.Background(), "", 2)
	if p.Page != 2 || p.TotalPages != 2 || len(p.Items) != 5 {
		t.Fatalf("page=%d total=%d items=%d", p.Page, p.TotalPages, len(p.Items))
	}
	r := p.Items[0]
	if r.ID != "16" || r.Name != "Bistro 16" || r.Cuisines != "French, Cafe" || r.Rating != "4.2" {
		t.Errorf("unexpected item %+v", r)
	}
	if r.NativeID == "" || r.Document == nil {
		t.Error("expected native id and document")
	}
}

func TestClient_SearchPageSize(t *testing.T) {
	c := newTestClient(t, seeded(20), nil, WithPageSize(4))

	p := c.Search(context.Background(), "bistro", 1)
	if len(p.Items) != 4 || p.TotalPages != 5 {
		t.Errorf("items=%d total=%d", len(p.Items), p.TotalPages)
	}
}

func TestClient_Restaurant(t *testing.T) {
	c := newTestClient(t, seeded(3), nil)

	r, ok := c.Restaurant(context.Background(), "2")
	if !ok || r.Name != "Bistro 2" {
		t.Fatalf("Restaurant(2) = %+v, %v", r, ok)
	}
	if _, ok := c.Restaurant(context.Background(), "99"); ok {
		t.Error("expected not found")
	}
}

func TestClient_RestaurantServedFromCache(t *testing.T) {
	store := seeded(3)
	c := newTestClient(t, store, nil)
	ctx := context.Background()

	if _, ok := c.Restaurant(ctx, "1"); !ok {
		t.Fatal("expected found")
	}
	store.FailWith(errors.New("down"))
	if _, ok := c.Restaurant(ctx, "1"); !ok {
		t.Error("cached restaurant should survive store outage")
	}
	if _, ok := c.Restaurant(ctx, "2"); ok {
		t.Error("uncached restaurant should be absent while store is down")
	}
}

func TestClient_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	store := seeded(3)
	c := newTestClient(t, store, reg)
	ctx := context.Background()

	c.Search(ctx, "", 1)
	store.FailWith(errors.New("down"))
	c.Search(ctx, "", 1)
	c.Restaurant(ctx, "3")

	m := c.obs.metrics
	if got := testutil.ToFloat64(m.operations.WithLabelValues("search", "ok")); got != 2 {
		t.Errorf("search ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.failures.WithLabelValues("search")); got != 1 {
		t.Errorf("search failures = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.failures.WithLabelValues("restaurant")); got != 1 {
		t.Errorf("restaurant failures = %v, want 1", got)
	}
}

func TestClient_PingAndHealth(t *testing.T) {
	store := seeded(1)
	c := newTestClient(t, store, nil)
	ctx := context.Background()

	if err := c.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if h := c.Health(ctx); h.Status != "ok" || h.Checks["database"] != "ok" {
		t.Errorf("Health = %+v", h)
	}

	store.FailWith(errors.New("down"))
	if err := c.Ping(ctx); err == nil {
		t.Error("expected ping error")
	}
	if h := c.Health(ctx); h.Status != "error" {
		t.Errorf("Health.Status = %q, want error", h.Status)
	}
}

func TestRegisterOrReuse(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := newSDKMetrics(reg)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := newSDKMetrics(reg)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first.operations != second.operations {
		t.Error("expected second client to reuse registered collectors")
	}
}

func TestObserver_NilSafe(t *testing.T) {
	var o *observer
	o.observe("search", timeZero(), nil)
	failureCounter{}.Inc()
}
