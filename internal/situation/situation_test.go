package situation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"townguide/internal/modules/conversation"
	"townguide/internal/types"
)

var center = types.Point{Lat: 47.3896, Lng: 16.5402}

func user(msg string) conversation.Message {
	return conversation.Message{Role: conversation.RoleUser, Content: msg}
}

func assistant(msg string) conversation.Message {
	return conversation.Message{Role: conversation.RoleAssistant, Content: msg}
}

func TestAnalyze_Status(t *testing.T) {
	a := NewAnalyzer(center, 5, 30)

	tests := []struct {
		name        string
		in          Input
		status      Status
		approaching bool
		canPark     bool
	}{
		{"no location", Input{}, Unknown, false, false},
		{"town center", Input{Location: &center}, InCity, false, true},
		{"castle district", Input{Location: &types.Point{Lat: 47.3889, Lng: 16.5390}}, InCity, false, true},
		// Szombathely is about 18 km south.
		{"driving in", Input{Location: &types.Point{Lat: 47.2307, Lng: 16.6218}, Speed: 60}, NotInCity, true, false},
		{"parked nearby town", Input{Location: &types.Point{Lat: 47.2307, Lng: 16.6218}, Speed: 0}, NotInCity, false, false},
		// Budapest is far beyond the approach radius.
		{"far away and moving", Input{Location: &types.Point{Lat: 47.4979, Lng: 19.0402}, Speed: 90}, NotInCity, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := a.Analyze(tt.in, nil)
			assert.Equal(t, tt.status, s.Status)
			assert.Equal(t, tt.approaching, s.Approaching)
			assert.Equal(t, tt.canPark, s.CanParkNow)
			assert.Equal(t, tt.in.Speed, s.Speed)
			if tt.in.Location == nil {
				assert.Nil(t, s.UserDistanceKm)
			} else {
				require.NotNil(t, s.UserDistanceKm)
			}
		})
	}
}

func TestAnalyze_CompanionMakesParkingPossible(t *testing.T) {
	a := NewAnalyzer(center, 5, 30)
	far := types.Point{Lat: 47.4979, Lng: 19.0402}

	s := a.Analyze(Input{Location: &far}, []conversation.Message{
		user("A feleségem már bent van a városban."),
	})
	assert.Equal(t, NotInCity, s.Status)
	assert.True(t, s.WifeInCity)
	assert.True(t, s.AnyoneInCity)
	assert.True(t, s.CanParkNow)
}

func TestCompanionInTown(t *testing.T) {
	tests := []struct {
		name    string
		history []conversation.Message
		want    bool
	}{
		{"empty", nil, false},
		{"noun without presence", []conversation.Message{user("a feleségemmel jövünk")}, false},
		{"presence without companion", []conversation.Message{user("már ott vagyok")}, false},
		{"hungarian", []conversation.Message{user("a párom már odaért")}, true},
		{"english", []conversation.Message{user("my wife is already there")}, true},
		{"assistant messages ignored", []conversation.Message{assistant("a feleséged már ott van?")}, false},
		{
			name: "outside three user message window",
			history: []conversation.Message{
				user("a feleségem már bent van"),
				user("hol lehet enni"),
				assistant("..."),
				user("és pizzát?"),
				user("köszi"),
			},
			want: false,
		},
		{
			name: "assistant turns do not count toward window",
			history: []conversation.Message{
				user("a feleségem már bent van"),
				assistant("..."),
				user("hol lehet enni"),
				assistant("..."),
				user("köszi"),
			},
			want: true,
		},
		// Negation is a known blind spot of the heuristic.
		{"negated still matches", []conversation.Message{user("a feleségem még nem ért oda, de már ott van a húga")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompanionInTown(tt.history))
		})
	}
}

func TestNewAnalyzer_Defaults(t *testing.T) {
	a := NewAnalyzer(center, 0, -1)
	assert.Equal(t, DefaultRadiusKm, a.radiusKm)
	assert.Equal(t, DefaultApproachKm, a.approachKm)
}

func TestAnalyze_Pure(t *testing.T) {
	a := NewAnalyzer(center, 5, 30)
	loc := types.Point{Lat: 47.30, Lng: 16.60}
	in := Input{Location: &loc, Speed: 20}
	h := []conversation.Message{user("szia")}
	assert.Equal(t, a.Analyze(in, h), a.Analyze(in, h))
}
