package mongo

import (
	"fmt"
	"regexp"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kailas-cloud/restodex/internal/domain/search/query"
)

// buildFilter translates a predicate into a find filter.
// Pattern conditions become case-insensitive $regex matches.
func buildFilter(p query.Predicate) (bson.M, error) {
	switch p.Kind() {
	case query.KindAll:
		return bson.M{}, nil
	case query.KindNativeID:
		oid, err := primitive.ObjectIDFromHex(p.ID())
		if err != nil {
			return nil, fmt.Errorf("native id: %w", err)
		}
		return bson.M{"_id": oid}, nil
	case query.KindAny:
		conds := p.Conditions()
		if len(conds) == 0 {
			return nil, fmt.Errorf("empty disjunction")
		}
		or := make(bson.A, 0, len(conds))
		for _, c := range conds {
			m, err := buildCondition(c)
			if err != nil {
				return nil, err
			}
			or = append(or, m)
		}
		return bson.M{"$or": or}, nil
	default:
		return nil, fmt.Errorf("unknown predicate kind %d", p.Kind())
	}
}

// decimalPattern accepts plain decimal literals only; ParseFloat alone would
// also take "NaN", "Inf" and hex floats.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// numericValue returns the number a token denotes, if any. Integers stay
// int64 so large ids compare exactly.
func numericValue(v string) (any, bool) {
	if !decimalPattern.MatchString(v) {
		return nil, false
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, false
	}
	return f, true
}

// buildCondition maps one condition onto a field filter. Equality on a
// numeric token also matches documents that store the field as a number.
func buildCondition(c query.Condition) (bson.M, error) {
	path := string(c.Field)
	switch c.Op {
	case query.Equals:
		if n, ok := numericValue(c.Value); ok {
			return bson.M{"$or": bson.A{bson.M{path: c.Value}, bson.M{path: n}}}, nil
		}
		return bson.M{path: c.Value}, nil
	case query.Pattern:
		return bson.M{path: primitive.Regex{Pattern: c.Value, Options: "i"}}, nil
	default:
		return nil, fmt.Errorf("unsupported op %s", c.Op)
	}
}
