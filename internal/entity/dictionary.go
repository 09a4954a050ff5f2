package entity

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/dictionary.yaml
var defaultDictionary []byte

// Match confidences by synonym list.
const (
	confidencePhrase = 0.95
	confidenceBasic  = 0.9
	confidenceSlang  = 0.8
)

var ErrEmptyDictionary = errors.New("dictionary has no categories")

type rawEntry struct {
	Value   string   `yaml:"value"`
	Basic   []string `yaml:"basic"`
	Slang   []string `yaml:"slang"`
	Phrases []string `yaml:"phrases"`
}

type entry struct {
	value   string
	phrases []*regexp.Regexp
	basic   []*regexp.Regexp
	slang   []*regexp.Regexp
}

// Dictionary holds compiled synonym patterns per category. It is immutable
// after construction and safe for concurrent use.
type Dictionary struct {
	categories map[string][]entry
}

// EmptyDictionary matches nothing.
func EmptyDictionary() *Dictionary {
	return &Dictionary{categories: map[string][]entry{}}
}

// DefaultDictionary returns the embedded dictionary.
func DefaultDictionary() (*Dictionary, error) {
	return ParseDictionary(defaultDictionary)
}

// LoadDictionary reads a YAML dictionary from path; an empty path selects
// the embedded default.
func LoadDictionary(path string) (*Dictionary, error) {
	if path == "" {
		return DefaultDictionary()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	return ParseDictionary(raw)
}

func ParseDictionary(raw []byte) (*Dictionary, error) {
	var doc map[string][]rawEntry
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse dictionary: %w", err)
	}
	if len(doc) == 0 {
		return nil, ErrEmptyDictionary
	}
	d := &Dictionary{categories: make(map[string][]entry, len(doc))}
	for cat, entries := range doc {
		compiled := make([]entry, 0, len(entries))
		for _, e := range entries {
			ce := entry{value: e.Value}
			var err error
			if ce.phrases, err = compileTerms(e.Phrases); err != nil {
				return nil, fmt.Errorf("category %s: %w", cat, err)
			}
			if ce.basic, err = compileTerms(e.Basic); err != nil {
				return nil, fmt.Errorf("category %s: %w", cat, err)
			}
			if ce.slang, err = compileTerms(e.Slang); err != nil {
				return nil, fmt.Errorf("category %s: %w", cat, err)
			}
			compiled = append(compiled, ce)
		}
		d.categories[cat] = compiled
	}
	return d, nil
}

func compileTerms(terms []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(terms))
	for _, t := range terms {
		re, err := termPattern(t)
		if err != nil {
			return nil, err
		}
		if re != nil {
			out = append(out, re)
		}
	}
	return out, nil
}

// termPattern matches a whole word or phrase; "foo*" matches any word
// starting with foo. Go's \b is ASCII-only, so boundaries are spelled out.
func termPattern(term string) (*regexp.Regexp, error) {
	t := strings.ToLower(strings.TrimSpace(term))
	prefix := strings.HasSuffix(t, "*")
	t = strings.TrimSuffix(t, "*")
	if t == "" {
		return nil, nil
	}
	body := strings.ReplaceAll(regexp.QuoteMeta(t), " ", `\s+`)
	pattern := `(?:^|[^\p{L}\p{N}])` + body
	if !prefix {
		pattern += `(?:$|[^\p{L}\p{N}])`
	}
	return regexp.Compile(pattern)
}

// Match returns the first entry of category matching lowered text. Within
// an entry phrases are tried before basic terms, basic before slang.
func (d *Dictionary) Match(category, lowered string) (string, float64, bool) {
	for _, e := range d.categories[category] {
		if anyMatch(e.phrases, lowered) {
			return e.value, confidencePhrase, true
		}
		if anyMatch(e.basic, lowered) {
			return e.value, confidenceBasic, true
		}
		if anyMatch(e.slang, lowered) {
			return e.value, confidenceSlang, true
		}
	}
	return "", 0, false
}

// Len reports the number of categories.
func (d *Dictionary) Len() int { return len(d.categories) }

func anyMatch(res []*regexp.Regexp, s string) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
