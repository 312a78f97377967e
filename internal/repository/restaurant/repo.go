package restaurant

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/restodex/internal/db"
	"github.com/kailas-cloud/restodex/internal/domain"
	domrest "github.com/kailas-cloud/restodex/internal/domain/restaurant"
	"github.com/kailas-cloud/restodex/internal/domain/search/query"
)

// store is the consumer interface for record lookups (ISP).
type store interface {
	FindMatching(ctx context.Context, p query.Predicate, skip, limit int) ([]domrest.Record, error)
	CountMatching(ctx context.Context, p query.Predicate) (int, error)
	FindOne(ctx context.Context, c query.Condition) (domrest.Record, error)
}

// Repo maps record store results onto domain errors.
type Repo struct {
	store store
}

// New creates a restaurant repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Find returns a window of records matching p.
func (r *Repo) Find(ctx context.Context, p query.Predicate, skip, limit int) ([]domrest.Record, error) {
	records, err := r.store.FindMatching(ctx, p, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("find restaurants %s: %w: %w", p, domain.ErrStoreUnavailable, err)
	}
	return records, nil
}

// Count returns the number of records matching p.
func (r *Repo) Count(ctx context.Context, p query.Predicate) (int, error) {
	n, err := r.store.CountMatching(ctx, p)
	if err != nil {
		return 0, fmt.Errorf("count restaurants %s: %w: %w", p, domain.ErrStoreUnavailable, err)
	}
	return n, nil
}

// GetByExternalID returns the record whose restaurant.id equals id.
func (r *Repo) GetByExternalID(ctx context.Context, id string) (domrest.Record, error) {
	rec, err := r.store.FindOne(ctx, query.Eq(query.ExternalID, id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domrest.Record{}, domain.ErrNotFound
		}
		return domrest.Record{}, fmt.Errorf("get restaurant %s: %w: %w", id, domain.ErrStoreUnavailable, err)
	}
	return rec, nil
}
