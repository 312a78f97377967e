package restaurant

import (
	"context"

	domrest "github.com/kailas-cloud/restodex/internal/domain/restaurant"
	"github.com/kailas-cloud/restodex/internal/domain/search/query"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	findFn  func(ctx context.Context, p query.Predicate, skip, limit int) ([]domrest.Record, error)
	countFn func(ctx context.Context, p query.Predicate) (int, error)
	oneFn   func(ctx context.Context, c query.Condition) (domrest.Record, error)
}

func (m *mockStore) FindMatching(
	ctx context.Context, p query.Predicate, skip, limit int,
) ([]domrest.Record, error) {
	if m.findFn != nil {
		return m.findFn(ctx, p, skip, limit)
	}
	return nil, nil
}

func (m *mockStore) CountMatching(ctx context.Context, p query.Predicate) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, p)
	}
	return 0, nil
}

func (m *mockStore) FindOne(ctx context.Context, c query.Condition) (domrest.Record, error) {
	if m.oneFn != nil {
		return m.oneFn(ctx, c)
	}
	return domrest.Record{}, nil
}

func record(id string) domrest.Record {
	return domrest.New(map[string]any{"restaurant": map[string]any{"id": id}})
}
