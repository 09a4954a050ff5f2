// README: Entity set extracted from a single visitor message.
package entity

import "townguide/internal/types"

// Subject is who the request is about.
type Subject struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// PlaceRef is a verbatim catalog name match.
type PlaceRef struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Type     string      `json:"type"`
	Location types.Point `json:"coordinates"`
}

// Set is sparse: a zero field means "not mentioned".
type Set struct {
	Subject      *Subject  `json:"subject,omitempty"`
	Presence     string    `json:"presence,omitempty"`
	Timing       string    `json:"timing,omitempty"`
	Place        *PlaceRef `json:"place,omitempty"`
	Time         string    `json:"time,omitempty"`
	Date         string    `json:"date,omitempty"`
	Proximity    string    `json:"proximity,omitempty"`
	WithKids     bool      `json:"withKids,omitempty"`
	WithDog      bool      `json:"withDog,omitempty"`
	Dietary      string    `json:"dietary,omitempty"`
	LicensePlate string    `json:"licensePlate,omitempty"`
	Duration     int       `json:"duration,omitempty"`
}
