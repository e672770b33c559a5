package types

import "github.com/google/uuid"

// Place is the canonical place shape every provider payload is normalised
// into. A Place is always fully formed: enrichment failures keep the
// previous value instead of leaving fields half-filled.
type Place struct {
	ID            *uuid.UUID `json:"id,omitempty"` // set only for places sourced from the spatial store
	Name          string     `json:"name"`
	Address       string     `json:"address"`
	Category      string     `json:"category"` // most specific leaf segment of the provider category path
	Latitude      *float64   `json:"latitude"`
	Longitude     *float64   `json:"longitude"`
	Rating        float64    `json:"rating"` // 0 when no secondary-provider rating is known
	ReviewSummary string     `json:"reviewSummary"`
	ImageURLs     []string   `json:"imageUrls"` // capped at 3 entries
}

// Coordinate is the ephemeral result of a location-name lookup.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
