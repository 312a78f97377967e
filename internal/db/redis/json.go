package redis

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/restodex/internal/db"
	"github.com/kailas-cloud/restodex/internal/domain"
	"github.com/kailas-cloud/restodex/internal/domain/restaurant"
)

// getByNativeID loads the document stored under a native id.
func (s *Store) getByNativeID(ctx context.Context, nativeID string) (restaurant.Record, error) {
	key := s.key(strings.ToLower(nativeID))
	cmd := s.b().Arbitrary("JSON.GET").Keys(key).Build()
	raw, err := s.do(ctx, cmd).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return restaurant.Record{}, db.ErrKeyNotFound
		}
		return restaurant.Record{}, &db.Error{Op: db.OpJSONGet, Err: err}
	}
	if raw == "" {
		return restaurant.Record{}, db.ErrKeyNotFound
	}
	return s.decode(key, raw)
}

// decode parses a stored JSON document. Documents written without an _id
// field get one from their key.
func (s *Store) decode(key, raw string) (restaurant.Record, error) {
	var r restaurant.Record
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return restaurant.Record{}, &db.Error{Op: db.OpDecode, Err: err}
	}
	doc := r.Document()
	if doc == nil {
		return restaurant.Record{}, &db.Error{Op: db.OpDecode, Err: domain.ErrInvalidDocument}
	}
	if _, ok := doc[restaurant.PathNativeID]; !ok {
		doc[restaurant.PathNativeID] = strings.TrimPrefix(key, s.prefix)
	}
	return r, nil
}
