// Package geocode translates free-text location strings to coordinates.
package geocode

import "context"

// Point is a resolved [longitude, latitude] pair.
type Point struct {
	Lng float64
	Lat float64
}

// Geocoder resolves a free-text location to a coordinate pair.
// A location that yields no candidates resolves to (nil, nil), not an
// error: a typo in a search box must degrade the search, not break it.
type Geocoder interface {
	Geocode(ctx context.Context, location string) (*Point, error)
}
