package restodex

import domrest "github.com/kailas-cloud/restodex/internal/domain/restaurant"

// Restaurant is one record as stored, with its common fields extracted.
// List-valued fields are joined with ", ".
type Restaurant struct {
	NativeID string
	ID       string
	Name     string
	Address  string
	Rating   string
	Cuisines string

	// Document is the full stored document.
	Document map[string]any
}

// Page is one page of search results.
type Page struct {
	Query      string
	Page       int
	TotalPages int
	Items      []Restaurant
}

func restaurantFromRecord(r domrest.Record) Restaurant {
	return Restaurant{
		NativeID: r.NativeID(),
		ID:       r.ExternalID(),
		Name:     r.Name(),
		Address:  r.Address(),
		Rating:   r.Rating(),
		Cuisines: r.Cuisines(),
		Document: r.Document(),
	}
}
