package query

import (
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kailas-cloud/restodex/internal/domain/restaurant"
)

// Field is a searchable record field, named by its document path.
type Field string

// Searchable fields.
const (
	ExternalID Field = restaurant.PathExternalID
	Name       Field = restaurant.PathName
	Address    Field = restaurant.PathAddress
	Rating     Field = restaurant.PathRating
	Cuisines   Field = restaurant.PathCuisines
)

// Op is the comparison applied by a condition.
type Op int

const (
	// Equals matches the exact token.
	Equals Op = iota
	// Pattern matches a case-insensitive regular expression anywhere in the value.
	Pattern
)

func (o Op) String() string {
	switch o {
	case Equals:
		return "eq"
	case Pattern:
		return "pattern"
	default:
		return "unknown"
	}
}

// Condition is a single field comparison.
type Condition struct {
	Field Field
	Op    Op
	Value string
}

// Eq creates an exact-match condition.
func Eq(f Field, v string) Condition { return Condition{Field: f, Op: Equals, Value: v} }

// Like creates a case-insensitive pattern condition.
func Like(f Field, v string) Condition { return Condition{Field: f, Op: Pattern, Value: v} }

func (c Condition) String() string {
	return fmt.Sprintf("%s %s %q", c.Field, c.Op, c.Value)
}

// Kind is the shape of a predicate.
type Kind int

const (
	// KindAll matches every record.
	KindAll Kind = iota
	// KindNativeID matches exactly the record with the given store-native id.
	KindNativeID
	// KindAny matches records satisfying at least one condition.
	KindAny
)

// Predicate is a structured selection over restaurant records.
type Predicate struct {
	kind       Kind
	nativeID   string
	conditions []Condition
}

// All returns a predicate matching every record.
func All() Predicate { return Predicate{kind: KindAll} }

// NativeID returns a predicate matching the record with the given store-native id.
func NativeID(hex string) Predicate {
	return Predicate{kind: KindNativeID, nativeID: strings.ToLower(hex)}
}

// Any returns a disjunction of conditions.
func Any(conds ...Condition) Predicate {
	return Predicate{kind: KindAny, conditions: conds}
}

// Kind returns the predicate shape.
func (p Predicate) Kind() Kind { return p.kind }

// ID returns the native id of a KindNativeID predicate.
func (p Predicate) ID() string { return p.nativeID }

// Conditions returns the disjuncts of a KindAny predicate.
func (p Predicate) Conditions() []Condition { return p.conditions }

// Key returns a canonical string for the predicate, usable as a cache key.
func (p Predicate) Key() string {
	switch p.kind {
	case KindNativeID:
		return "id:" + p.nativeID
	case KindAny:
		parts := make([]string, len(p.conditions))
		for i, c := range p.conditions {
			parts[i] = c.String()
		}
		return "any:" + strings.Join(parts, "|")
	default:
		return "all"
	}
}

func (p Predicate) String() string { return p.Key() }

// IsNativeID reports whether s is a well-formed store-native identifier
// (24 hexadecimal characters).
func IsNativeID(s string) bool {
	return primitive.IsValidObjectID(s)
}

// ForTerm builds the predicate for a free-text search term.
// An empty term matches everything. A well-formed native id selects that
// record only. Anything else matches on external id, name, address,
// rating or cuisines.
func ForTerm(term string) Predicate {
	if term == "" {
		return All()
	}
	if IsNativeID(term) {
		return NativeID(term)
	}
	return Any(
		Eq(ExternalID, term),
		Like(Name, term),
		Like(Address, term),
		Eq(Rating, term),
		Like(Cuisines, term),
	)
}

// Matcher compiles the predicate into an in-memory record test.
// Returns an error if a pattern is not a valid regular expression.
func (p Predicate) Matcher() (func(restaurant.Record) bool, error) {
	switch p.kind {
	case KindAll:
		return func(restaurant.Record) bool { return true }, nil
	case KindNativeID:
		id := p.nativeID
		return func(r restaurant.Record) bool {
			return strings.EqualFold(r.NativeID(), id)
		}, nil
	case KindAny:
		tests := make([]func(restaurant.Record) bool, 0, len(p.conditions))
		for _, c := range p.conditions {
			fn, err := c.matcher()
			if err != nil {
				return nil, err
			}
			tests = append(tests, fn)
		}
		return func(r restaurant.Record) bool {
			for _, fn := range tests {
				if fn(r) {
					return true
				}
			}
			return false
		}, nil
	default:
		return nil, fmt.Errorf("unknown predicate kind %d", p.kind)
	}
}

func (c Condition) matcher() (func(restaurant.Record) bool, error) {
	path := string(c.Field)
	switch c.Op {
	case Equals:
		want := c.Value
		return func(r restaurant.Record) bool {
			for _, v := range r.Values(path) {
				if v == want {
					return true
				}
			}
			return false
		}, nil
	case Pattern:
		re, err := regexp.Compile("(?i)" + c.Value)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern for %s: %w", c.Field, err)
		}
		return func(r restaurant.Record) bool {
			for _, v := range r.Values(path) {
				if re.MatchString(v) {
					return true
				}
			}
			return false
		}, nil
	default:
		return nil, fmt.Errorf("unknown op %d", c.Op)
	}
}
