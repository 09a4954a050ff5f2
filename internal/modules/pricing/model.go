// README: Parking zone tariffs and fee quotes.
package pricing

import (
	"errors"

	"townguide/internal/types"
)

var (
	ErrInvalidDuration = errors.New("parking duration must be positive")
	ErrExceedsMaxHours = errors.New("duration exceeds the zone's maximum stay")
	ErrZoneNotFound    = errors.New("parking zone not found")
)

// DefaultZone is used when the caller does not know the zone.
const DefaultZone = "varkor"

type Zone struct {
	Code       string
	Name       string
	HourlyRate types.Money
	// MaxHours of 0 means unlimited.
	MaxHours int
}

// Quote is a fee estimate for one parking session.
type Quote struct {
	Zone       string      `json:"zone"`
	Hours      int         `json:"hours"`
	HourlyRate types.Money `json:"hourlyRate"`
	Total      types.Money `json:"total"`
}
