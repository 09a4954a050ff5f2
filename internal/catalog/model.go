// README: Read-only reference datasets (attractions, restaurants, events, hotels, practical info).
package catalog

import "townguide/internal/types"

const (
	TypeAttraction = "attraction"
	TypeRestaurant = "restaurant"
	TypeHotel      = "hotel"
	TypeEvent      = "event"
)

// Tier is the monetization level of a listing.
type Tier string

const (
	TierNone   Tier = "none"
	TierSilver Tier = "silver"
	TierGold   Tier = "gold"
)

// Place is one reference record. Kind further narrows Type (museum, cafe, ...).
type Place struct {
	ID             string      `yaml:"id" json:"id"`
	Name           string      `yaml:"name" json:"name"`
	Aliases        []string    `yaml:"aliases,omitempty" json:"-"`
	Type           string      `yaml:"type" json:"type"`
	Kind           string      `yaml:"kind,omitempty" json:"kind,omitempty"`
	Description    string      `yaml:"description" json:"description"`
	Address        string      `yaml:"address,omitempty" json:"address,omitempty"`
	Priority       int         `yaml:"priority" json:"priority"`
	Amenities      []string    `yaml:"amenities,omitempty" json:"amenities,omitempty"`
	Tags           []string    `yaml:"tags,omitempty" json:"tags,omitempty"`
	Tier           Tier        `yaml:"tier,omitempty" json:"tier,omitempty"`
	Sponsored      bool        `yaml:"sponsored,omitempty" json:"sponsored,omitempty"`
	Location       types.Point `yaml:"coordinates" json:"coordinates"`
	RomanticRating float64     `yaml:"romantic_rating,omitempty" json:"romanticRating,omitempty"`
	ChildFriendly  bool        `yaml:"child_friendly,omitempty" json:"childFriendly,omitempty"`
	OpeningHours   string      `yaml:"opening_hours,omitempty" json:"openingHours,omitempty"`
	Date           string      `yaml:"date,omitempty" json:"date,omitempty"`
	BookingURL     string      `yaml:"booking_url,omitempty" json:"bookingUrl,omitempty"`
}

// HasFeature reports whether name appears among amenities or tags.
func (p Place) HasFeature(name string) bool {
	for _, a := range p.Amenities {
		if a == name {
			return true
		}
	}
	for _, t := range p.Tags {
		if t == name {
			return true
		}
	}
	return false
}

// Names returns the display name followed by aliases.
func (p Place) Names() []string {
	out := make([]string, 0, 1+len(p.Aliases))
	out = append(out, p.Name)
	return append(out, p.Aliases...)
}

// PracticalInfo is a short how-to entry (pharmacy, ATM, toilets, parking rules).
type PracticalInfo struct {
	ID    string `yaml:"id" json:"id"`
	Topic string `yaml:"topic" json:"topic"`
	Title string `yaml:"title" json:"title"`
	Text  string `yaml:"text" json:"text"`
}
