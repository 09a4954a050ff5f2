// README: Geographic relationship between the visitor and the town, plus the companion-in-town heuristic.
package situation

import (
	"regexp"
	"strings"

	"townguide/internal/geo"
	"townguide/internal/modules/conversation"
	"townguide/internal/types"
)

type Status string

const (
	InCity    Status = "in_city"
	NotInCity Status = "not_in_city"
	Unknown   Status = "unknown"
)

// Thresholds used when no configuration is supplied.
const (
	DefaultRadiusKm        = 5.0
	DefaultApproachKm      = 30.0
	ApproachingSpeedKmh    = 10.0
	companionHistoryWindow = 3
)

// Situation is advisory and recomputed every turn.
type Situation struct {
	Speed          float64  `json:"speed"`
	Status         Status   `json:"status"`
	AnyoneInCity   bool     `json:"anyoneInCity"`
	WifeInCity     bool     `json:"wifeInCity"`
	Approaching    bool     `json:"approaching"`
	UserDistanceKm *float64 `json:"userDistanceKm"`
	CanParkNow     bool     `json:"canParkNow"`
}

// KnownStatus maps the zero value to Unknown.
func (s Situation) KnownStatus() Status {
	if s.Status == "" {
		return Unknown
	}
	return s.Status
}

// Input is the frontend-supplied part of the analysis.
type Input struct {
	Location *types.Point
	Speed    float64
}

// A companion noun and a presence phrase in the same message. Negation is
// not handled: "a feleségem még nem ért oda" still matches.
var (
	companionRe = regexp.MustCompile(`feleség|férj|párom|nejem|asszony|barátnőm|barátom|wife|husband|partner|girlfriend|boyfriend`)
	presenceRe  = regexp.MustCompile(`már (?:ott|bent|benn|kint|a városban|odaért|megérkezett|parkol)|ott van|bent van|benn van|kint van|odaért|megérkezett|already (?:there|in town|inside|outside|parked)|is in town`)
)

type Analyzer struct {
	center     types.Point
	radiusKm   float64
	approachKm float64
}

// NewAnalyzer uses the default thresholds for non-positive values.
func NewAnalyzer(center types.Point, radiusKm, approachKm float64) *Analyzer {
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	if approachKm <= 0 {
		approachKm = DefaultApproachKm
	}
	return &Analyzer{center: center, radiusKm: radiusKm, approachKm: approachKm}
}

// Analyze is pure. history is oldest first and should already include the
// current message as its last user entry.
func (a *Analyzer) Analyze(in Input, history []conversation.Message) Situation {
	s := Situation{Speed: in.Speed, Status: Unknown}

	if in.Location != nil {
		d := geo.Distance(*in.Location, a.center)
		s.UserDistanceKm = &d
		if d <= a.radiusKm {
			s.Status = InCity
		} else {
			s.Status = NotInCity
			s.Approaching = in.Speed > ApproachingSpeedKmh && d < a.approachKm
		}
	}

	s.WifeInCity = CompanionInTown(history)
	s.AnyoneInCity = s.Status == InCity || s.WifeInCity
	s.CanParkNow = s.Status == InCity || s.WifeInCity
	return s
}

// CompanionInTown scans the last three user messages.
func CompanionInTown(history []conversation.Message) bool {
	seen := 0
	for i := len(history) - 1; i >= 0 && seen < companionHistoryWindow; i-- {
		m := history[i]
		if m.Role != conversation.RoleUser {
			continue
		}
		seen++
		text := strings.ToLower(m.Content)
		if companionRe.MatchString(text) && presenceRe.MatchString(text) {
			return true
		}
	}
	return false
}
