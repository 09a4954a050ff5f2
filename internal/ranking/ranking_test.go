package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"townguide/internal/catalog"
	"townguide/internal/modules/profile"
	"townguide/internal/types"
	"townguide/internal/weather"
)

func TestScore_GoldOutdoorInRain(t *testing.T) {
	p := catalog.Place{Priority: 8, Tier: catalog.TierGold, Amenities: []string{FeatureOutdoor}}
	opts := Options{Weather: &weather.Weather{TempC: 15, IsRain: true}, Speed: 5}
	assert.Equal(t, 30, Score(p, opts))
}

func TestScore_Modifiers(t *testing.T) {
	tests := []struct {
		name  string
		place catalog.Place
		opts  Options
		want  int
	}{
		{"no priority uses base 50", catalog.Place{}, Options{Speed: 5}, 50},
		{"priority base", catalog.Place{Priority: 6}, Options{Speed: 5}, 30},
		{"driving past walking only", catalog.Place{Priority: 6, Amenities: []string{FeatureWalkingOnly}}, Options{Speed: 40}, 15},
		{"strolling to walking friendly", catalog.Place{Priority: 6, Tags: []string{FeatureWalkingFriendly}}, Options{Speed: 1}, 40},
		{"indoor in rain", catalog.Place{Priority: 6, Amenities: []string{FeatureIndoor, FeatureOutdoor}}, Options{Speed: 5, Weather: &weather.Weather{TempC: 15, IsRain: true}}, 45},
		{"cloudy without terrace", catalog.Place{Priority: 6, Amenities: []string{FeatureOutdoor}}, Options{Speed: 5, Weather: &weather.Weather{TempC: 15, IsCloudy: true}}, 22},
		{"cloudy with terrace", catalog.Place{Priority: 6, Amenities: []string{FeatureOutdoor, FeatureTerrace}}, Options{Speed: 5, Weather: &weather.Weather{TempC: 15, IsCloudy: true}}, 30},
		{"cold heated indoor", catalog.Place{Priority: 6, Amenities: []string{FeatureIndoor, FeatureHeated}}, Options{Speed: 5, Weather: &weather.Weather{TempC: 0}}, 40},
		{"cold outdoor", catalog.Place{Priority: 6, Amenities: []string{FeatureOutdoor}}, Options{Speed: 5, Weather: &weather.Weather{TempC: 0}}, 15},
		{"hot shaded terrace", catalog.Place{Priority: 6, Amenities: []string{FeatureOutdoor, FeatureShadedTerrace}}, Options{Speed: 5, Weather: &weather.Weather{TempC: 32}}, 38},
		{"hot unshaded outdoor", catalog.Place{Priority: 6, Amenities: []string{FeatureOutdoor}}, Options{Speed: 5, Weather: &weather.Weather{TempC: 32}}, 20},
		{"hot ice cream", catalog.Place{Priority: 6, Tags: []string{FeatureIceCream}}, Options{Speed: 5, Weather: &weather.Weather{TempC: 32}}, 42},
		{"silver", catalog.Place{Priority: 6, Tier: catalog.TierSilver}, Options{Speed: 5}, 38},
		{"sponsored gold", catalog.Place{Priority: 6, Tier: catalog.TierGold, Sponsored: true}, Options{Speed: 5}, 65},
		{"clamped at zero", catalog.Place{Priority: 1, Amenities: []string{FeatureOutdoor, FeatureWalkingOnly}}, Options{Speed: 40, Weather: &weather.Weather{TempC: 0, IsRain: true}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.place, tt.opts))
		})
	}
}

func TestScore_ProfileAffinity(t *testing.T) {
	pr := profile.Default()
	pr.RomanticScore = 0.9
	pr.FamilyScore = 0.9
	pr.PizzaPreference = 0.9
	pr.CulturePreference = 0.9
	pr.OutdoorPreference = 0.9
	pr.IndoorPreference = 0.1

	tests := []struct {
		name  string
		place catalog.Place
		want  int
	}{
		{"romantic", catalog.Place{Priority: 6, RomanticRating: 8}, 38},
		{"child friendly", catalog.Place{Priority: 6, ChildFriendly: true}, 42},
		{"pizza by tag", catalog.Place{Priority: 6, Tags: []string{FeaturePizza}}, 45},
		{"pizza by kind", catalog.Place{Priority: 6, Kind: "pizzeria"}, 45},
		{"museum", catalog.Place{Priority: 6, Kind: "museum"}, 40},
		{"nature outdoors for an outdoor type", catalog.Place{Priority: 6, Tags: []string{FeatureNature}, Amenities: []string{FeatureOutdoor}}, 48},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.place, Options{Speed: 5, Profile: &pr}))
		})
	}

	indoorType := profile.Default()
	indoorType.IndoorPreference = 0.9
	assert.Equal(t, 40, Score(catalog.Place{Priority: 6, Amenities: []string{FeatureIndoor}}, Options{Speed: 5, Profile: &indoorType}))

	neutral := profile.Default()
	assert.Equal(t, 30, Score(catalog.Place{Priority: 6, RomanticRating: 9, ChildFriendly: true}, Options{Speed: 5, Profile: &neutral}))
}

func TestScore_MonotonicInPriorityAndNonNegative(t *testing.T) {
	pr := profile.Default()
	pr.IndoorPreference = 0.1
	variants := []struct {
		place catalog.Place
		opts  Options
	}{
		{catalog.Place{}, Options{}},
		{catalog.Place{Amenities: []string{FeatureOutdoor, FeatureWalkingOnly}}, Options{Speed: 50, Weather: &weather.Weather{TempC: -5, IsRain: true}}},
		{catalog.Place{Amenities: []string{FeatureIndoor, FeatureHeated}, Tier: catalog.TierGold}, Options{Speed: 1, Weather: &weather.Weather{TempC: 35, IsCloudy: true}, Profile: &pr}},
		{catalog.Place{Tags: []string{FeatureIceCream}, Sponsored: true}, Options{Weather: &weather.Weather{TempC: 30}}},
	}
	for _, v := range variants {
		prev := -1
		for prio := 1; prio <= 10; prio++ {
			p := v.place
			p.Priority = prio
			got := Score(p, v.opts)
			assert.GreaterOrEqual(t, got, 0)
			assert.GreaterOrEqual(t, got, prev, "priority %d", prio)
			prev = got
		}
	}
}

func TestRank_SortsDescendingAndStable(t *testing.T) {
	places := []catalog.Place{
		{ID: "a", Priority: 5},
		{ID: "b", Priority: 9},
		{ID: "c", Priority: 5},
		{ID: "d", Priority: 3, Sponsored: true},
	}
	ranked := Rank(places, Options{Speed: 5})
	require.Len(t, ranked, 4)

	ids := make([]string, len(ranked))
	for i, r := range ranked {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids)
	assert.Equal(t, 45, ranked[0].FinalScore)
	assert.Equal(t, 35, ranked[1].FinalScore)
	// the source slice is untouched
	assert.Equal(t, "a", places[0].ID)
}

func TestFilterNearby(t *testing.T) {
	center := types.Point{Lat: 47.3896, Lng: 16.5402}
	ranked := Rank([]catalog.Place{
		{ID: "far", Priority: 10, Location: types.Point{Lat: 47.3720, Lng: 16.4650}},
		{ID: "near", Priority: 1, Location: types.Point{Lat: 47.3897, Lng: 16.5403}},
		{ID: "mid", Priority: 5, Location: types.Point{Lat: 47.3950, Lng: 16.5300}},
	}, Options{})

	got := FilterNearby(ranked, center, 2, 0)
	require.Len(t, got, 2)
	assert.Equal(t, "near", got[0].ID)
	assert.Equal(t, "mid", got[1].ID)
	require.NotNil(t, got[0].DistanceKm)
	assert.Less(t, *got[0].DistanceKm, 0.1)
	assert.Equal(t, 5, got[0].FinalScore)

	capped := FilterNearby(ranked, center, 0, 1)
	require.Len(t, capped, 1)
	assert.Equal(t, "near", capped[0].ID)

	assert.Nil(t, ranked[0].DistanceKm)
}

func TestTop(t *testing.T) {
	r := []Ranked{{FinalScore: 3}, {FinalScore: 2}, {FinalScore: 1}}
	assert.Len(t, Top(r, 2), 2)
	assert.Len(t, Top(r, 5), 3)
	assert.Len(t, Top(r, 0), 3)
}
