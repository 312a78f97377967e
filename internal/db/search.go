package db

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/restodex/internal/domain/restaurant"
	"github.com/kailas-cloud/restodex/internal/domain/search/query"
)

// RecordFinder selects restaurant records by predicate.
type RecordFinder interface {
	// FindMatching returns at most limit records matching p, after skipping
	// skip of them, in the store's natural order.
	FindMatching(ctx context.Context, p query.Predicate, skip, limit int) ([]restaurant.Record, error)
	// CountMatching returns the number of records matching p.
	CountMatching(ctx context.Context, p query.Predicate) (int, error)
	// FindOne returns the first record satisfying c, or ErrKeyNotFound.
	FindOne(ctx context.Context, c query.Condition) (restaurant.Record, error)
}

// CheckWindow validates a skip/limit pair.
func CheckWindow(skip, limit int) error {
	if skip < 0 {
		return fmt.Errorf("%w: skip must be non-negative, got %d", ErrInvalidWindow, skip)
	}
	if limit <= 0 {
		return fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidWindow, limit)
	}
	return nil
}
