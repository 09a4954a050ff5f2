package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var embedded embed.FS

var ErrUnknownCategory = errors.New("unknown catalog category")

// Catalog is loaded once at startup and never mutated afterwards.
type Catalog struct {
	attractions []Place
	restaurants []Place
	hotels      []Place
	events      []Place
	practical   []PracticalInfo
	byID        map[string]Place
}

type files struct {
	Attractions []Place         `yaml:"attractions"`
	Restaurants []Place         `yaml:"restaurants"`
	Hotels      []Place         `yaml:"hotels"`
	Events      []Place         `yaml:"events"`
	Practical   []PracticalInfo `yaml:"practical"`
}

// Load reads the embedded datasets. When dir is non-empty, any of
// attractions.yaml, restaurants.yaml, hotels.yaml, events.yaml or
// practical.yaml found there replaces the embedded file of the same name.
func Load(dir string) (*Catalog, error) {
	var fsys fs.FS = embedded
	root := "data"
	var override fs.FS
	if dir != "" {
		override = os.DirFS(dir)
	}

	var all files
	for _, name := range []string{"attractions", "restaurants", "hotels", "events", "practical"} {
		raw, err := readFile(fsys, override, root, name+".yaml")
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, &all); err != nil {
			return nil, fmt.Errorf("catalog: parse %s: %w", name, err)
		}
	}
	return New(all.Attractions, all.Restaurants, all.Hotels, all.Events, all.Practical), nil
}

func readFile(base, override fs.FS, root, name string) ([]byte, error) {
	if override != nil {
		raw, err := fs.ReadFile(override, name)
		if err == nil {
			return raw, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("catalog: read %s: %w", name, err)
		}
	}
	raw, err := fs.ReadFile(base, filepath.ToSlash(filepath.Join(root, name)))
	if err != nil {
		return nil, fmt.Errorf("catalog: read embedded %s: %w", name, err)
	}
	return raw, nil
}

// New builds a catalog from in-memory records, filling Type where unset.
func New(attractions, restaurants, hotels, events []Place, practical []PracticalInfo) *Catalog {
	c := &Catalog{
		attractions: withType(attractions, TypeAttraction),
		restaurants: withType(restaurants, TypeRestaurant),
		hotels:      withType(hotels, TypeHotel),
		events:      withType(events, TypeEvent),
		practical:   append([]PracticalInfo(nil), practical...),
		byID:        map[string]Place{},
	}
	for _, group := range [][]Place{c.attractions, c.restaurants, c.hotels, c.events} {
		for _, p := range group {
			c.byID[p.ID] = p
		}
	}
	return c
}

func withType(in []Place, typ string) []Place {
	out := make([]Place, len(in))
	for i, p := range in {
		if p.Type == "" {
			p.Type = typ
		}
		if p.Tier == "" {
			p.Tier = TierNone
		}
		out[i] = p
	}
	return out
}

// Accessors return copies so callers cannot mutate the shared datasets.

func (c *Catalog) Attractions() []Place { return clone(c.attractions) }
func (c *Catalog) Restaurants() []Place { return clone(c.restaurants) }
func (c *Catalog) Hotels() []Place      { return clone(c.hotels) }
func (c *Catalog) Events() []Place      { return clone(c.events) }

func (c *Catalog) Practical() []PracticalInfo {
	return append([]PracticalInfo(nil), c.practical...)
}

// PracticalTopic returns the entries filed under any of topics.
func (c *Catalog) PracticalTopic(topics ...string) []PracticalInfo {
	var out []PracticalInfo
	for _, p := range c.practical {
		for _, t := range topics {
			if p.Topic == t {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// Category returns the places for an HTTP-facing category name.
func (c *Catalog) Category(name string) ([]Place, error) {
	switch name {
	case "attractions", TypeAttraction:
		return c.Attractions(), nil
	case "restaurants", "food", TypeRestaurant:
		return c.Restaurants(), nil
	case "hotels", TypeHotel:
		return c.Hotels(), nil
	case "events", TypeEvent:
		return c.Events(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
}

// ByID finds a place in any dataset.
func (c *Catalog) ByID(id string) (Place, bool) {
	p, ok := c.byID[id]
	return p, ok
}

func clone(in []Place) []Place {
	return append([]Place(nil), in...)
}
