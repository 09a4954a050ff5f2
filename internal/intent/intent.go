// README: Regex intent classifier and priority resolver.
package intent

import (
	"regexp"
	"sort"
	"strings"
)

// Intent is a coarse request category.
type Intent string

const (
	Emergency     Intent = "emergency"
	Parking       Intent = "parking"
	ParkingInfo   Intent = "parking_info"
	Food          Intent = "food"
	Attractions   Intent = "attractions"
	Navigation    Intent = "navigation"
	Hotels        Intent = "hotels"
	Events        Intent = "events"
	Tours         Intent = "tours"
	Shopping      Intent = "shopping"
	Practical     Intent = "practical"
	Families      Intent = "families"
	Accessibility Intent = "accessibility"
	Smalltalk     Intent = "smalltalk"
	Unknown       Intent = "unknown"
)

// Word edges; \b does not understand accented letters.
const (
	wb = `(?:^|[^\p{L}\p{N}])`
	we = `(?:$|[^\p{L}\p{N}])`
)

type rule struct {
	intent  Intent
	pattern *regexp.Regexp
}

// rules are evaluated independently; order only fixes the order of the
// classifier output before resolution.
var rules = []rule{
	{Emergency, regexp.MustCompile(
		`mentőt?` + we + `|mentők|rendőr|baleset|vérz|eszméletlen|szívroham|tűzoltó|` +
			wb + `tűz` + we + `|` + wb + `112` + we + `|` + wb + `sos` + we + `|segítség!|` +
			`emergency|ambulance|police|heart attack|call 911`)},
	{Parking, regexp.MustCompile(
		`parkol(?:ni|nék|nánk|ok|jak|junk|nom)` + we + `|parkolójegy|parkolás(?:t)? (?:indít|kezd|fizet)|` +
			`(?:indítsd|indítsa|kezdd) (?:el )?a parkolást|jegyet (?:vennék|veszek|váltanék)|` +
			`start parking|park my car|parking ticket|pay for parking`)},
	{ParkingInfo, regexp.MustCompile(
		`hol (?:lehet|tudok|tudnék|tudunk|érdemes) (?:\p{L}+ )?parkolni|mennyibe kerül a parkolás|` +
			`parkolási (?:díj|információ|lehetőség|övezet)|parkolás (?:ára|díja)|` +
			`van (?:ingyenes |fizetős )?parkoló|parkolóhely(?:et)? (?:hol|merre)|` +
			`where (?:can i|to|should i) park|parking (?:info|price|cost|rules)`)},
	{Food, regexp.MustCompile(
		wb + `enni` + we + `|` + wb + `egyek` + we + `|éhes|étterem|éttermet|ebéd|vacsor|reggeliz|` +
			`kaja|kajál|pizz|kávé|cukrászd|fagyi|lángos|` + wb + `(?:eat|food|lunch|dinner|breakfast|restaurant|coffee|hungry)`)},
	{Attractions, regexp.MustCompile(
		`látnivaló|nevezetesség|múzeum|` + wb + `vár(?:at|ba|ban|hoz)?` + we + `|templom|kilátó|` +
			`mit (?:érdemes )?(?:meg)?nézni|mit lehet csinálni|` +
			`sightseeing|attraction|museum|castle|what to see|things to do`)},
	{Navigation, regexp.MustCompile(
		`hogy(?:an)? jutok|merre van|útvonal|navigál|vezess el|mutasd az utat|odatalál|` +
			`how do i get|directions|navigate|route to|take me to`)},
	{Hotels, regexp.MustCompile(
		`szállás|hotel|szálloda|panzió|apartman|vendégház|megszáll|éjszakára|` +
			`accommodation|where to stay|place to stay`)},
	{Events, regexp.MustCompile(
		`esemény|programok|koncert|fesztivál|rendezvény|kiállítás|mi lesz|mi történik|` +
			wb + `events?` + we + `|concert|festival|what's on`)},
	{Tours, regexp.MustCompile(
		`túra|túrá|városnéz|idegenvezet|vezetett séta|séta` + we + `|sétál|` +
			wb + `tours?` + we + `|guided|hiking`)},
	{Shopping, regexp.MustCompile(
		`vásárol|bolt|üzlet|ajándék|szuvenír|emléktárgy|piac|bevásárl|` +
			wb + `shop|souvenir|market`)},
	{Practical, regexp.MustCompile(
		`patika|gyógyszer|bankautomata|pénzautomata|` + wb + `atm` + we + `|` + wb + `wc` + we + `|mosdó|` +
			`benzinkút|tankol|posta|tourinform|nyitvatartás|` +
			`pharmacy|toilet|gas station|opening hours`)},
	{Families, regexp.MustCompile(
		`gyerek|gyermek|család|játszótér|kicsikkel|` +
			wb + `(?:kids?|child|children|family|families|playground)` + we)},
	{Accessibility, regexp.MustCompile(
		`akadálymentes|kerekesszék|babakocsi|mozgáskorlát|` +
			`wheelchair|accessible|accessibility`)},
	{Smalltalk, regexp.MustCompile(
		`^\s*(?:szia|sziasztok|szervusz|helló|hello|hali|jó napot|jó reggelt|jó estét|üdv|` +
			`köszönöm|köszi|kösz|hi|hey|thanks|thank you)` + we)},
}

// Classify returns every intent whose pattern matches, or [Unknown].
func Classify(message string) []Intent {
	lowered := strings.ToLower(message)
	var out []Intent
	for _, r := range rules {
		if r.pattern.MatchString(lowered) {
			out = append(out, r.intent)
		}
	}
	if len(out) == 0 {
		return []Intent{Unknown}
	}
	return out
}

// priority is the total order used by Resolve; absent intents sort last.
var priority = map[Intent]int{
	Emergency:   0,
	Parking:     1,
	Food:        2,
	Attractions: 3,
	Hotels:      4,
	Navigation:  5,
	Events:      6,
	Smalltalk:   7,
	Unknown:     8,
}

func rank(i Intent) int {
	if p, ok := priority[i]; ok {
		return p
	}
	return len(priority)
}

// Resolve deduplicates and sorts by priority. Intents of equal rank keep
// their input order.
func Resolve(intents []Intent) []Intent {
	seen := make(map[Intent]struct{}, len(intents))
	out := make([]Intent, 0, len(intents))
	for _, i := range intents {
		if _, ok := seen[i]; ok {
			continue
		}
		seen[i] = struct{}{}
		out = append(out, i)
	}
	sort.SliceStable(out, func(a, b int) bool {
		return rank(out[a]) < rank(out[b])
	})
	return out
}

// Set is a membership view over a resolved list.
type Set map[Intent]struct{}

func NewSet(intents []Intent) Set {
	s := make(Set, len(intents))
	for _, i := range intents {
		s[i] = struct{}{}
	}
	return s
}

func (s Set) Has(i Intent) bool {
	_, ok := s[i]
	return ok
}

// Any reports whether at least one of is is present.
func (s Set) Any(is ...Intent) bool {
	for _, i := range is {
		if s.Has(i) {
			return true
		}
	}
	return false
}
