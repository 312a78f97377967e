package restaurant

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Document paths of the fields the service reads.
const (
	PathNativeID   = "_id"
	PathExternalID = "restaurant.id"
	PathName       = "restaurant.name"
	PathAddress    = "restaurant.location.address"
	PathRating     = "restaurant.user_rating.aggregate_rating"
	PathCuisines   = "restaurant.cuisines"
)

// Record is a restaurant document as stored. The document is passed through
// unmodified; accessors read the fields the service needs.
type Record struct {
	doc map[string]any
}

// New wraps a decoded document.
func New(doc map[string]any) Record {
	return Record{doc: doc}
}

// IsZero reports whether the record wraps no document.
func (r Record) IsZero() bool { return r.doc == nil }

// Document returns the underlying document.
func (r Record) Document() map[string]any { return r.doc }

// NativeID returns the store-native identifier in text form.
func (r Record) NativeID() string { return r.Text(PathNativeID) }

// ExternalID returns the application-level restaurant identifier.
func (r Record) ExternalID() string { return r.Text(PathExternalID) }

// Name returns the restaurant name.
func (r Record) Name() string { return r.Text(PathName) }

// Address returns the street address.
func (r Record) Address() string { return r.Text(PathAddress) }

// Rating returns the aggregate rating token.
func (r Record) Rating() string { return r.Text(PathRating) }

// Cuisines returns the cuisines as stored, lists joined with ", ".
func (r Record) Cuisines() string { return r.Text(PathCuisines) }

// Lookup walks a dotted path through nested objects.
func (r Record) Lookup(path string) (any, bool) {
	var cur any = r.doc
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Text renders the value at path as a string. Missing values render empty.
func (r Record) Text(path string) string {
	return strings.Join(r.Values(path), ", ")
}

// Values returns the scalar values at path. A list yields one value per
// element; a scalar yields a single value.
func (r Record) Values(path string) []string {
	v, ok := r.Lookup(path)
	if !ok || v == nil {
		return nil
	}
	if list, ok := v.([]any); ok {
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := scalarText(item); ok {
				out = append(out, s)
			}
		}
		return out
	}
	if list, ok := v.([]string); ok {
		return list
	}
	if s, ok := scalarText(v); ok {
		return []string{s}
	}
	return nil
}

// MarshalJSON encodes the underlying document.
func (r Record) MarshalJSON() ([]byte, error) {
	if r.doc == nil {
		return []byte("null"), nil
	}
	return json.Marshal(r.doc)
}

// UnmarshalJSON decodes a document, keeping numbers in their original text.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	r.doc = doc
	return nil
}

func scalarText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case int:
		return strconv.Itoa(t), true
	case int32:
		return strconv.FormatInt(int64(t), 10), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	case fmt.Stringer:
		return t.String(), true
	default:
		return "", false
	}
}
