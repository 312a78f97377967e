package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/restodex/internal/db"
	"github.com/kailas-cloud/restodex/internal/domain/restaurant"
	"github.com/kailas-cloud/restodex/internal/domain/search/query"
)

// FindMatching returns a window of matching records via FT.SEARCH.
// Pattern conditions match the term literally as a case-insensitive
// substring; regular expression syntax is not interpreted.
func (s *Store) FindMatching(
	ctx context.Context, p query.Predicate, skip, limit int,
) ([]restaurant.Record, error) {
	if err := db.CheckWindow(skip, limit); err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	if p.Kind() == query.KindNativeID {
		if skip > 0 {
			return nil, nil
		}
		r, err := s.getByNativeID(ctx, p.ID())
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return []restaurant.Record{r}, nil
	}

	q, err := buildQuery(p)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	args := []string{
		s.index, q,
		"LIMIT", strconv.Itoa(skip), strconv.Itoa(limit),
		"RETURN", "1", "$",
		"DIALECT", "2",
	}
	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	return s.parseDocuments(raw)
}

// CountMatching returns the match count via FT.SEARCH with LIMIT 0 0.
func (s *Store) CountMatching(ctx context.Context, p query.Predicate) (int, error) {
	if p.Kind() == query.KindNativeID {
		_, err := s.getByNativeID(ctx, p.ID())
		switch {
		case errors.Is(err, db.ErrKeyNotFound):
			return 0, nil
		case err != nil:
			return 0, err
		default:
			return 1, nil
		}
	}

	q, err := buildQuery(p)
	if err != nil {
		return 0, &db.Error{Op: db.OpSearch, Err: err}
	}
	cmd := s.b().Arbitrary("FT.SEARCH").Args(s.index, q, "LIMIT", "0", "0", "DIALECT", "2").Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return 0, &db.Error{Op: db.OpSearch, Err: err}
	}
	if len(raw) == 0 {
		return 0, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return 0, fmt.Errorf("parse count: %w", err)
	}
	return int(total), nil
}

// FindOne returns the first record satisfying c.
func (s *Store) FindOne(ctx context.Context, c query.Condition) (restaurant.Record, error) {
	records, err := s.FindMatching(ctx, query.Any(c), 0, 1)
	if err != nil {
		return restaurant.Record{}, err
	}
	if len(records) == 0 {
		return restaurant.Record{}, db.ErrKeyNotFound
	}
	return records[0], nil
}

// parseDocuments reads a RESP2 reply shaped [total, key1, ["$", json1], ...].
func (s *Store) parseDocuments(raw []rueidis.RedisMessage) ([]restaurant.Record, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	if _, err := raw[0].AsInt64(); err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}

	out := make([]restaurant.Record, 0, (len(raw)-1)/2)
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}
		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}
		doc, ok := jsonField(fields)
		if !ok {
			continue
		}
		r, err := s.decode(key, doc)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func jsonField(fields []rueidis.RedisMessage) (string, bool) {
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil || name != "$" {
			continue
		}
		v, err := fields[j+1].ToString()
		if err != nil {
			return "", false
		}
		return v, true
	}
	return "", false
}

// --- Query building ---

// buildQuery translates a predicate into an FT.SEARCH query string.
func buildQuery(p query.Predicate) (string, error) {
	switch p.Kind() {
	case query.KindAll:
		return "*", nil
	case query.KindAny:
		conds := p.Conditions()
		if len(conds) == 0 {
			return "", errors.New("empty disjunction")
		}
		parts := make([]string, 0, len(conds))
		for _, c := range conds {
			part, err := buildCondition(c)
			if err != nil {
				return "", err
			}
			parts = append(parts, part)
		}
		if len(parts) == 1 {
			return parts[0], nil
		}
		return "(" + strings.Join(parts, " | ") + ")", nil
	default:
		return "", fmt.Errorf("predicate kind %d has no query form", p.Kind())
	}
}

func buildCondition(c query.Condition) (string, error) {
	alias, ok := fieldAliases[c.Field]
	if !ok {
		return "", fmt.Errorf("field %q is not indexed", c.Field)
	}
	escaped := tagEscaper.Replace(c.Value)
	switch c.Op {
	case query.Equals:
		return fmt.Sprintf("@%s:{%s}", alias, escaped), nil
	case query.Pattern:
		return fmt.Sprintf("@%s:{*%s*}", alias, escaped), nil
	default:
		return "", fmt.Errorf("unsupported op %s", c.Op)
	}
}

var tagEscaper = strings.NewReplacer(
	`\`, `\\`,
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"[", "\\[",
	"]", "\\]",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	"/", "\\/",
	"?", "\\?",
	" ", "\\ ",
)
