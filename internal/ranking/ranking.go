// README: Deterministic place scoring (motion, weather, profile, monetization) and distance shortlists.
package ranking

import (
	"math"
	"sort"

	"townguide/internal/catalog"
	"townguide/internal/geo"
	"townguide/internal/modules/profile"
	"townguide/internal/types"
	"townguide/internal/weather"
)

// Feature names looked up in amenities and tags.
const (
	FeatureIndoor          = "indoor"
	FeatureOutdoor         = "outdoor"
	FeatureWalkingOnly     = "walking_only"
	FeatureWalkingFriendly = "walking_friendly"
	FeatureTerrace         = "terrace"
	FeatureShadedTerrace   = "shaded_terrace"
	FeatureHeated          = "heated"
	FeatureIceCream        = "ice_cream"
	FeatureCoffee          = "coffee"
	FeaturePizza           = "pizza"
	FeatureCulture         = "culture"
	FeatureMuseum          = "museum"
	FeatureNature          = "nature"
)

const defaultBase = 50

// Options are the live inputs; nil Weather or Profile skips those modifiers.
type Options struct {
	Weather *weather.Weather
	Profile *profile.Profile
	Speed   float64
}

// Ranked is a place with its derived score. DistanceKm is set by FilterNearby.
type Ranked struct {
	catalog.Place
	FinalScore int      `json:"finalScore"`
	DistanceKm *float64 `json:"_distanceKm,omitempty"`
}

// Score never returns a negative value.
func Score(p catalog.Place, opts Options) int {
	s := float64(defaultBase)
	if p.Priority > 0 {
		s = float64(p.Priority * 5)
	}
	s += motion(p, opts.Speed)
	if opts.Weather != nil {
		s += weatherFit(p, *opts.Weather)
	}
	if opts.Profile != nil {
		s += affinity(p, *opts.Profile)
	}
	s += monetization(p)
	return int(math.Round(math.Max(s, 0)))
}

func motion(p catalog.Place, speed float64) float64 {
	var d float64
	if speed > 10 && p.HasFeature(FeatureWalkingOnly) {
		d -= 15
	}
	if speed < 3 && p.HasFeature(FeatureWalkingFriendly) {
		d += 10
	}
	return d
}

func weatherFit(p catalog.Place, w weather.Weather) float64 {
	indoor := p.HasFeature(FeatureIndoor)
	outdoor := p.HasFeature(FeatureOutdoor)
	shaded := p.HasFeature(FeatureShadedTerrace)
	terrace := p.HasFeature(FeatureTerrace) || shaded

	var d float64
	if w.IsRain {
		if outdoor && !indoor {
			d -= 25
		}
		if indoor {
			d += 15
		}
	} else if w.IsCloudy && outdoor && !terrace {
		d -= 8
	}
	if w.TempC < 5 {
		if p.HasFeature(FeatureHeated) {
			d += 10
		}
		if outdoor {
			d -= 15
		}
	}
	if w.TempC > 28 {
		if shaded {
			d += 8
		}
		if outdoor && !shaded {
			d -= 10
		}
		if p.HasFeature(FeatureIceCream) || p.HasFeature(FeatureCoffee) {
			d += 12
		}
	}
	return d
}

func affinity(p catalog.Place, pr profile.Profile) float64 {
	var d float64
	if pr.IndoorPreference > 0.7 && p.HasFeature(FeatureIndoor) {
		d += 10
	}
	if pr.IndoorPreference < 0.3 && p.HasFeature(FeatureOutdoor) {
		d += 8
	}
	if pr.RomanticScore > 0.5 && p.RomanticRating > 6 {
		d += 8
	}
	if pr.FamilyScore > 0.5 && p.ChildFriendly {
		d += 12
	}
	if pr.PizzaPreference > 0.6 && (p.HasFeature(FeaturePizza) || p.Kind == "pizzeria") {
		d += 15
	}
	if pr.CulturePreference > 0.6 && (p.HasFeature(FeatureCulture) || p.HasFeature(FeatureMuseum) || p.Kind == "museum") {
		d += 10
	}
	if pr.OutdoorPreference > 0.6 && p.HasFeature(FeatureNature) {
		d += 10
	}
	return d
}

// monetization is added on top of the organic score.
func monetization(p catalog.Place) float64 {
	var d float64
	switch p.Tier {
	case catalog.TierGold:
		d += 15
	case catalog.TierSilver:
		d += 8
	}
	if p.Sponsored {
		d += 20
	}
	return d
}

// Rank scores every place and sorts by score, highest first. Equal scores
// keep their input order.
func Rank(places []catalog.Place, opts Options) []Ranked {
	out := make([]Ranked, len(places))
	for i, p := range places {
		out[i] = Ranked{Place: p, FinalScore: Score(p, opts)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FinalScore > out[j].FinalScore
	})
	return out
}

// FilterNearby keeps places within radiusKm of origin, nearest first, capped
// at limit (no cap when limit <= 0). Scores are carried through untouched.
func FilterNearby(places []Ranked, origin types.Point, radiusKm float64, limit int) []Ranked {
	out := make([]Ranked, 0, len(places))
	for _, p := range places {
		d, ok := geo.Within(origin, p.Location, radiusKm)
		if !ok {
			continue
		}
		p.DistanceKm = &d
		out = append(out, p)
	}
	geo.SortByDistance(out, func(r Ranked) float64 { return *r.DistanceKm })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Top returns at most n entries of an already ranked list.
func Top(ranked []Ranked, n int) []Ranked {
	if n <= 0 || len(ranked) <= n {
		return ranked
	}
	return ranked[:n]
}
