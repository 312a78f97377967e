// Package memory implements db.Store over an in-process slice of records.
// Records keep insertion order, which stands in for the store's natural order.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/kailas-cloud/restodex/internal/db"
	"github.com/kailas-cloud/restodex/internal/domain/restaurant"
	"github.com/kailas-cloud/restodex/internal/domain/search/query"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Store is an in-memory record store.
type Store struct {
	mu      sync.RWMutex
	records []restaurant.Record
	err     error
}

// NewStore creates a store holding the given records.
func NewStore(records ...restaurant.Record) *Store {
	return &Store{records: records}
}

// Insert appends records.
func (s *Store) Insert(records ...restaurant.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
}

// FailWith makes every subsequent call return err. nil restores normal operation.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// FindMatching returns a window of matching records in insertion order.
func (s *Store) FindMatching(
	ctx context.Context, p query.Predicate, skip, limit int,
) ([]restaurant.Record, error) {
	if err := s.check(ctx); err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}
	if err := db.CheckWindow(skip, limit); err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}
	match, err := p.Matcher()
	if err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]restaurant.Record, 0, limit)
	seen := 0
	for _, r := range s.records {
		if !match(r) {
			continue
		}
		if seen >= skip {
			out = append(out, r)
			if len(out) == limit {
				break
			}
		}
		seen++
	}
	return out, nil
}

// CountMatching counts matching records.
func (s *Store) CountMatching(ctx context.Context, p query.Predicate) (int, error) {
	if err := s.check(ctx); err != nil {
		return 0, &db.Error{Op: db.OpCount, Err: err}
	}
	match, err := p.Matcher()
	if err != nil {
		return 0, &db.Error{Op: db.OpCount, Err: err}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, r := range s.records {
		if match(r) {
			n++
		}
	}
	return n, nil
}

// FindOne returns the first record satisfying c.
func (s *Store) FindOne(ctx context.Context, c query.Condition) (restaurant.Record, error) {
	if err := s.check(ctx); err != nil {
		return restaurant.Record{}, &db.Error{Op: db.OpFindOne, Err: err}
	}
	match, err := query.Any(c).Matcher()
	if err != nil {
		return restaurant.Record{}, &db.Error{Op: db.OpFindOne, Err: err}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records {
		if match(r) {
			return r, nil
		}
	}
	return restaurant.Record{}, db.ErrKeyNotFound
}

// Ping reports the injected failure, if any.
func (s *Store) Ping(ctx context.Context) error {
	return s.check(ctx)
}

// Close is a no-op.
func (s *Store) Close() {}

// WaitForReady returns immediately unless a failure is injected.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	return s.Ping(ctx)
}

func (s *Store) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}
