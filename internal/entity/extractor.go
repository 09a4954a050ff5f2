package entity

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"townguide/internal/catalog"
	"townguide/internal/logger"
)

var (
	// ABC123, ABC-123, AA-BB-123 in any case.
	compactPlateRe = regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}])([a-z]{2}-?[a-z]{2}|[a-z]{2,4})-?(\d{3})(?:$|[^\p{N}])`)
	// "ABC 123" and "AA BB 123" only in capitals, so "van 100" is not a plate.
	spacedPlateRe = regexp.MustCompile(`(?:^|[^\p{L}\p{N}])([A-Z]{2}[\s-]?[A-Z]{2}|[A-Z]{2,4})[\s-]+(\d{3})(?:$|[^\p{N}])`)
	separatorRe   = regexp.MustCompile(`[\s-]+`)

	// Any case, for messages where a plate is clearly what is being given.
	loosePlateRe = regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}])([a-z]{2}[\s-]?[a-z]{2}|[a-z]{2,4})[\s-]+(\d{3})(?:$|[^\p{N}])`)

	// A comma or dot before the number is a decimal, which is never whole hours.
	durationRe  = regexp.MustCompile(`(?:^|[^\d:.,])(\d{1,2})\s*-?\s*(óra|órá|hours?|hrs?|h)(\p{L}*)`)
	clockTimeRe = regexp.MustCompile(`(?:^|[^\d])([01]?\d|2[0-3])[:.]([0-5]\d)(?:$|[^\d])`)
	hourTimeRe  = regexp.MustCompile(`(?:^|[^\d])([01]?\d|2[0-3])\s*órakor`)
)

// Extractor turns a raw message into an entity Set. It holds only
// read-only data and is safe for concurrent use.
type Extractor struct {
	dict        *Dictionary
	attractions []placePattern
	restaurants []placePattern
}

type placePattern struct {
	ref   PlaceRef
	names []*regexp.Regexp
}

// NewExtractor compiles place-name patterns from cat. A nil dictionary is
// replaced by an empty one.
func NewExtractor(dict *Dictionary, cat *catalog.Catalog) *Extractor {
	if dict == nil {
		dict = EmptyDictionary()
	}
	e := &Extractor{dict: dict}
	if cat != nil {
		e.attractions = compilePlaces(cat.Attractions())
		e.restaurants = compilePlaces(cat.Restaurants())
	}
	return e
}

// NewFromPath loads the dictionary at path (embedded default when empty).
// A missing or corrupt dictionary is logged and replaced by an empty one so
// extraction degrades instead of failing.
func NewFromPath(path string, cat *catalog.Catalog, log logger.Logger) *Extractor {
	dict, err := LoadDictionary(path)
	if err != nil {
		log.Warn("entity dictionary unavailable, continuing without synonyms", map[string]interface{}{
			"path":  path,
			"error": err,
		})
		dict = EmptyDictionary()
	}
	return NewExtractor(dict, cat)
}

func compilePlaces(places []catalog.Place) []placePattern {
	out := make([]placePattern, 0, len(places))
	for _, p := range places {
		pp := placePattern{ref: PlaceRef{ID: p.ID, Name: p.Name, Type: p.Type, Location: p.Location}}
		for _, n := range p.Names() {
			re, err := termPattern(n)
			if err != nil || re == nil {
				continue
			}
			pp.names = append(pp.names, re)
		}
		out = append(out, pp)
	}
	return out
}

// Extract never fails; unrecognised input yields an empty Set.
func (e *Extractor) Extract(message string) Set {
	var s Set
	lowered := strings.ToLower(message)

	if v, conf, ok := e.dict.Match("subject", lowered); ok {
		s.Subject = &Subject{Value: v, Confidence: conf}
	}
	s.Presence = e.value("presence", lowered)
	s.Timing = e.value("timing", lowered)
	s.Date = e.value("date", lowered)
	s.Proximity = e.value("proximity", lowered)
	s.Dietary = e.value("dietary", lowered)
	_, _, s.WithKids = e.dict.Match("kids", lowered)
	_, _, s.WithDog = e.dict.Match("dog", lowered)

	s.Place = e.matchPlace(lowered)
	s.Time = ExtractTime(lowered)
	s.LicensePlate = ExtractPlate(message)
	if s.LicensePlate == "" && strings.Contains(lowered, "rendszám") {
		s.LicensePlate = ExtractLoosePlate(message)
	}
	s.Duration = ExtractDuration(lowered)
	return s
}

func (e *Extractor) value(category, lowered string) string {
	v, _, _ := e.dict.Match(category, lowered)
	return v
}

// matchPlace prefers attractions; a restaurant is only considered when no
// attraction name matched.
func (e *Extractor) matchPlace(lowered string) *PlaceRef {
	for _, group := range [][]placePattern{e.attractions, e.restaurants} {
		for _, pp := range group {
			if anyMatch(pp.names, lowered) {
				ref := pp.ref
				return &ref
			}
		}
	}
	return nil
}

// ExtractPlate returns an upper-case plate without separators, or "".
func ExtractPlate(message string) string {
	return firstPlate(message, compactPlateRe, spacedPlateRe)
}

// ExtractLoosePlate also accepts lower-case spaced plates such as "abc 123".
// Use it only when the message is known to carry a plate: on free text it
// reads "van 100" as VAN100.
func ExtractLoosePlate(message string) string {
	return firstPlate(message, compactPlateRe, loosePlateRe)
}

func firstPlate(message string, res ...*regexp.Regexp) string {
	for _, re := range res {
		if m := re.FindStringSubmatch(message); m != nil {
			letters := separatorRe.ReplaceAllString(m[1], "")
			return strings.ToUpper(letters + m[2])
		}
	}
	return ""
}

// ExtractDuration returns whole hours when a number is directly followed by
// an hour unit. "3 órakor" is a clock time, not a duration.
func ExtractDuration(lowered string) int {
	for _, m := range durationRe.FindAllStringSubmatch(lowered, -1) {
		unit, suffix := m[2], m[3]
		if strings.HasPrefix(unit, "ór") {
			if strings.HasPrefix(suffix, "kor") || strings.HasPrefix(suffix, "tól") {
				continue
			}
		} else if suffix != "" {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			continue
		}
		return n
	}
	return 0
}

// ExtractTime returns HH:MM from "14:30", "9.15" or "15 órakor".
func ExtractTime(lowered string) string {
	if m := clockTimeRe.FindStringSubmatch(lowered); m != nil {
		h, _ := strconv.Atoi(m[1])
		return fmt.Sprintf("%02d:%s", h, m[2])
	}
	if m := hourTimeRe.FindStringSubmatch(lowered); m != nil {
		h, _ := strconv.Atoi(m[1])
		return fmt.Sprintf("%02d:00", h)
	}
	return ""
}
