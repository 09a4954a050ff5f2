// README: Visitor preference profile consumed by place ranking.
package profile

// Neutral is the value of a preference nobody has expressed.
const Neutral = 0.5

// Profile scores are in [0,1].
type Profile struct {
	IndoorPreference  float64 `json:"indoorPreference"`
	OutdoorPreference float64 `json:"outdoorPreference"`
	RomanticScore     float64 `json:"romanticScore"`
	FamilyScore       float64 `json:"familyScore"`
	PizzaPreference   float64 `json:"pizzaPreference"`
	CulturePreference float64 `json:"culturePreference"`
}

// Default returns an all-neutral profile.
func Default() Profile {
	return Profile{
		IndoorPreference:  Neutral,
		OutdoorPreference: Neutral,
		RomanticScore:     Neutral,
		FamilyScore:       Neutral,
		PizzaPreference:   Neutral,
		CulturePreference: Neutral,
	}
}

// Clamp forces every score into [0,1].
func (p Profile) Clamp() Profile {
	c := func(v float64) float64 {
		switch {
		case v < 0:
			return 0
		case v > 1:
			return 1
		}
		return v
	}
	return Profile{
		IndoorPreference:  c(p.IndoorPreference),
		OutdoorPreference: c(p.OutdoorPreference),
		RomanticScore:     c(p.RomanticScore),
		FamilyScore:       c(p.FamilyScore),
		PizzaPreference:   c(p.PizzaPreference),
		CulturePreference: c(p.CulturePreference),
	}
}
