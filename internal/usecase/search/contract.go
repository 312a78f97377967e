package search

import (
	"context"

	domrest "github.com/kailas-cloud/restodex/internal/domain/restaurant"
	"github.com/kailas-cloud/restodex/internal/domain/search/query"
)

// Repository defines the storage contract for search operations.
type Repository interface {
	Find(ctx context.Context, p query.Predicate, skip, limit int) ([]domrest.Record, error)
	Count(ctx context.Context, p query.Predicate) (int, error)
}

// FailureCounter records failures absorbed into empty results.
type FailureCounter interface {
	Inc()
}
