package query

import (
	"testing"

	"github.com/kailas-cloud/restodex/internal/domain/restaurant"
)

func rec(nativeID, externalID, name, address, rating, cuisines string) restaurant.Record {
	return restaurant.New(map[string]any{
		"_id": nativeID,
		"restaurant": map[string]any{
			"id":          externalID,
			"name":        name,
			"location":    map[string]any{"address": address},
			"user_rating": map[string]any{"aggregate_rating": rating},
			"cuisines":    cuisines,
		},
	})
}

func TestForTerm_Empty(t *testing.T) {
	p := ForTerm("")
	if p.Kind() != KindAll {
		t.Fatalf("Kind() = %d, want KindAll", p.Kind())
	}
	match, err := p.Matcher()
	if err != nil {
		t.Fatalf("Matcher: %v", err)
	}
	if !match(restaurant.New(map[string]any{})) {
		t.Error("empty term should match any record")
	}
}

func TestForTerm_NativeID(t *testing.T) {
	const id = "507f1f77bcf86cd799439011"
	p := ForTerm(id)
	if p.Kind() != KindNativeID {
		t.Fatalf("Kind() = %d, want KindNativeID", p.Kind())
	}
	if p.ID() != id {
		t.Errorf("ID() = %q", p.ID())
	}
	if len(p.Conditions()) != 0 {
		t.Error("native id predicate must not carry field conditions")
	}

	match, _ := p.Matcher()
	// a record whose name contains the id text must not match
	other := rec("64b7f0c2a1b2c3d4e5f60718", "1", id, "", "", "")
	if match(other) {
		t.Error("native id predicate matched by name")
	}
	if !match(rec(id, "2", "x", "", "", "")) {
		t.Error("native id predicate did not match its record")
	}
}

func TestForTerm_NotNativeID(t *testing.T) {
	tests := []string{
		"507f1f77bcf86cd79943901",   // 23 chars
		"507f1f77bcf86cd7994390111", // 25 chars
		"507f1f77bcf86cd79943901z",  // non-hex
		"pizza",
	}
	for _, term := range tests {
		t.Run(term, func(t *testing.T) {
			if ForTerm(term).Kind() != KindAny {
				t.Errorf("ForTerm(%q) should be a disjunction", term)
			}
		})
	}
}

func TestForTerm_Disjunction(t *testing.T) {
	p := ForTerm("Pizza")
	conds := p.Conditions()
	want := []Condition{
		{ExternalID, Equals, "Pizza"},
		{Name, Pattern, "Pizza"},
		{Address, Pattern, "Pizza"},
		{Rating, Equals, "Pizza"},
		{Cuisines, Pattern, "Pizza"},
	}
	if len(conds) != len(want) {
		t.Fatalf("got %d conditions, want %d", len(conds), len(want))
	}
	for i := range want {
		if conds[i] != want[i] {
			t.Errorf("condition %d = %v, want %v", i, conds[i], want[i])
		}
	}
}

func TestMatcher_Disjunction(t *testing.T) {
	tests := []struct {
		name  string
		term  string
		r     restaurant.Record
		match bool
	}{
		{"name case-insensitive", "pizza", rec("", "1", "Joe's PIZZA", "", "", ""), true},
		{"address substring", "avenue", rec("", "1", "", "5th Avenue", "", ""), true},
		{"cuisines substring", "thai", rec("", "1", "", "", "", "Thai, Asian"), true},
		{"external id exact", "123", rec("", "123", "", "", "", ""), true},
		{"external id not substring", "12", rec("", "123", "", "", "", ""), false},
		{"rating exact", "4.5", rec("", "1", "", "", "4.5", ""), true},
		{"rating not prefix", "4.5", rec("", "1", "", "", "4.55", ""), false},
		{"rating case-sensitive token", "Excellent", rec("", "1", "", "", "excellent", ""), false},
		{"no field matches", "sushi", rec("", "1", "Burger Barn", "Main St", "3.9", "American"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, err := ForTerm(tt.term).Matcher()
			if err != nil {
				t.Fatalf("Matcher: %v", err)
			}
			if got := match(tt.r); got != tt.match {
				t.Errorf("match = %v, want %v", got, tt.match)
			}
		})
	}
}

func TestMatcher_InvalidPattern(t *testing.T) {
	if _, err := ForTerm("(unclosed").Matcher(); err == nil {
		t.Fatal("expected error for invalid pattern")
	}
}

func TestPredicate_Key(t *testing.T) {
	if All().Key() != "all" {
		t.Errorf("All().Key() = %q", All().Key())
	}
	if NativeID("507F1F77BCF86CD799439011").Key() != "id:507f1f77bcf86cd799439011" {
		t.Errorf("native id key not normalized: %q", NativeID("507F1F77BCF86CD799439011").Key())
	}
	if ForTerm("a").Key() == ForTerm("b").Key() {
		t.Error("different terms share a key")
	}
	if ForTerm("a").Key() != ForTerm("a").Key() {
		t.Error("same term produced different keys")
	}
}
