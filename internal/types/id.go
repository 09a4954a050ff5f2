// README: Identity and coordinate value objects shared by modules.
package types

import "github.com/google/uuid"

// ID identifies a user or guest session.
type ID string

// NewID returns a random identifier for guest sessions.
func NewID() ID {
	return ID(uuid.NewString())
}

func (id ID) String() string { return string(id) }

// IsZero reports whether no identity is present.
func (id ID) IsZero() bool { return id == "" }

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// IsZero reports whether the point was never set.
func (p Point) IsZero() bool { return p.Lat == 0 && p.Lng == 0 }
