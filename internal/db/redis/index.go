package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/restodex/internal/db"
	"github.com/kailas-cloud/restodex/internal/domain/search/query"
)

// fieldAliases maps searchable fields to their index attribute names.
var fieldAliases = map[query.Field]string{
	query.ExternalID: "external_id",
	query.Name:       "name",
	query.Address:    "address",
	query.Rating:     "rating",
	query.Cuisines:   "cuisines",
}

// RestaurantIndex returns the FT index definition the store queries.
// Exact fields are case-sensitive whole-value tags; pattern fields are
// case-insensitive tags with a suffix trie for contains queries.
func RestaurantIndex(name, prefix string) *db.IndexDefinition {
	return db.NewIndex(name).
		Prefix(prefix).
		ExactTag("$."+string(query.ExternalID), fieldAliases[query.ExternalID]).
		ContainsTag("$."+string(query.Name), fieldAliases[query.Name], "|").
		ContainsTag("$."+string(query.Address), fieldAliases[query.Address], "|").
		ExactTag("$."+string(query.Rating), fieldAliases[query.Rating]).
		ContainsTag("$."+string(query.Cuisines), fieldAliases[query.Cuisines], "|").
		MustBuild()
}

// EnsureIndex creates the restaurant index unless it already exists.
func (s *Store) EnsureIndex(ctx context.Context) error {
	ok, err := s.IndexExists(ctx, s.index)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	err = s.CreateIndex(ctx, RestaurantIndex(s.index, s.prefix))
	if err != nil && !errors.Is(err, db.ErrIndexExists) {
		return err
	}
	return nil
}

// CreateIndex creates an FT index from the given definition.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	args, err := buildCreateArgs(def)
	if err != nil {
		return err
	}

	cmd := s.b().Arbitrary("FT.CREATE").Args(args...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "index already exists") {
			return db.ErrIndexExists
		}
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	return nil
}

// IndexExists probes index existence via FT.INFO; "unknown index name" means absent.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	cmd := s.b().Arbitrary("FT.INFO").Args(name).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "unknown index name") || isRedisErr(err, "no such index") {
			return false, nil
		}
		return false, &db.Error{Op: db.OpIndexInfo, Err: err}
	}
	return true, nil
}

// CheckIndex fails when the store's own search index is missing.
func (s *Store) CheckIndex(ctx context.Context) error {
	ok, err := s.IndexExists(ctx, s.index)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("search index %q missing", s.index)
	}
	return nil
}

func buildCreateArgs(idx *db.IndexDefinition) ([]string, error) {
	if err := idx.Validate(); err != nil {
		return nil, err
	}

	storage := idx.StorageType
	if storage == "" {
		storage = db.StorageJSON
	}
	args := []string{idx.Name, "ON", string(storage)}

	if len(idx.Prefixes) > 0 {
		args = append(args, "PREFIX", strconv.Itoa(len(idx.Prefixes)))
		args = append(args, idx.Prefixes...)
	}

	args = append(args, "SCHEMA")
	for i := range idx.Fields {
		fieldArgs, err := buildFieldArgs(&idx.Fields[i])
		if err != nil {
			return nil, err
		}
		args = append(args, fieldArgs...)
	}
	return args, nil
}

func buildFieldArgs(f *db.IndexField) ([]string, error) {
	args := []string{f.Name}
	if f.Alias != "" {
		args = append(args, "AS", f.Alias)
	}

	switch f.Type {
	case db.IndexFieldText:
		args = append(args, "TEXT")
	case db.IndexFieldTag:
		args = append(args, "TAG")
		if f.TagSeparator != "" {
			args = append(args, "SEPARATOR", f.TagSeparator)
		}
		if f.TagCaseSensitive {
			args = append(args, "CASESENSITIVE")
		}
		if f.TagSuffixTrie {
			args = append(args, "WITHSUFFIXTRIE")
		}
	default:
		return nil, errors.New("unknown field type")
	}
	return args, nil
}
