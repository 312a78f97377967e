package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kailas-cloud/restodex/internal/db"
	"github.com/kailas-cloud/restodex/internal/domain/restaurant"
	"github.com/kailas-cloud/restodex/internal/domain/search/query"
)

// FindMatching returns a window of matching records in natural order.
func (s *Store) FindMatching(
	ctx context.Context, p query.Predicate, skip, limit int,
) ([]restaurant.Record, error) {
	if err := db.CheckWindow(skip, limit); err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}
	filter, err := buildFilter(p)
	if err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}

	opts := options.Find().SetSkip(int64(skip)).SetLimit(int64(limit))
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}

	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}

	out := make([]restaurant.Record, len(docs))
	for i, d := range docs {
		out[i] = restaurant.New(normalizeDoc(d))
	}
	return out, nil
}

// CountMatching counts matching documents.
func (s *Store) CountMatching(ctx context.Context, p query.Predicate) (int, error) {
	filter, err := buildFilter(p)
	if err != nil {
		return 0, &db.Error{Op: db.OpCount, Err: err}
	}
	n, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, &db.Error{Op: db.OpCount, Err: err}
	}
	return int(n), nil
}

// FindOne returns the first document satisfying c.
func (s *Store) FindOne(ctx context.Context, c query.Condition) (restaurant.Record, error) {
	filter, err := buildCondition(c)
	if err != nil {
		return restaurant.Record{}, &db.Error{Op: db.OpFindOne, Err: err}
	}

	var doc bson.M
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return restaurant.Record{}, db.ErrKeyNotFound
		}
		return restaurant.Record{}, &db.Error{Op: db.OpFindOne, Err: err}
	}
	return restaurant.New(normalizeDoc(doc)), nil
}
