package router

import (
	"regexp"
	"strings"
)

const (
	wb = `(?:^|[^\p{L}\p{N}])`
	we = `(?:$|[^\p{L}\p{N}])`
)

func words(alts ...string) *regexp.Regexp {
	return regexp.MustCompile(wb + `(?:` + strings.Join(alts, "|") + `)` + we)
}

var (
	offerYesRe = words("igen", "persze", "oké", "oke", "ok", "rendben", "indítsd", "indítsuk", "szeretném", "szeretnénk",
		"yes", "sure", "please")
	offerNoRe = words("nem", "ne", "nincs", "no", "nope")

	confirmYesRe = words("igen", "mehet", "rendben", "ok", "oké", "persze", "jó", "yes", "go")
	confirmNoRe  = words("nem", "mégse", "vissza", "töröl", "töröld", "no", "cancel")

	consentNoRe  = words("nem", "ne", "no", "don't", "dont")
	consentYesRe = words("igen", "mentsd", "mentse", "persze", "rendben", "ok", "oké", "mehet", "yes", "save")

	// "nem gond" and friends mean "no problem", not "no".
	softenerRe = words("nem gond", "nem baj", "nem probléma", "nem gáz", "no problem", "no worries")

	cancelRe = words("mégse", "töröld", "hagyjuk", "felejtsd el", "cancel", "stop")

	questionRe = regexp.MustCompile(`\?\s*$|` + wb + `(?:mi|mit|mikor|hol|hogyan|hogy|miért|melyik|mennyi|ki|what|when|where|how|why|which|who)` + we)
)

func matches(re *regexp.Regexp, query string) bool {
	return re.MatchString(strings.ToLower(query))
}

// declines matches a negative pattern after softening phrases are removed,
// so "igen, nem gond" is not read as a refusal. Negatives still win over
// affirmatives: "nem jó" and "ne mentsd" contain a yes word.
func declines(re *regexp.Regexp, query string) bool {
	q := strings.ToLower(query)
	for softenerRe.MatchString(q) {
		q = softenerRe.ReplaceAllString(q, " ")
	}
	return re.MatchString(q)
}
