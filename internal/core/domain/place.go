package domain

import "errors"

var ErrNotLoggedIn = errors.New("not logged in")

// Coordinates represents a geographic point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Creator identifies the user that published a place.
type Creator struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Place is a single shared location record. Places are immutable on the
// client: the whole collection is replaced on every fetch, never patched.
type Place struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Address     string      `json:"address"`
	Image       string      `json:"image"`
	Location    Coordinates `json:"location"`
	Creator     Creator     `json:"creator"`
}
