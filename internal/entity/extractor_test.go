package entity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"townguide/internal/catalog"
	"townguide/internal/logger"
	"townguide/internal/types"
)

func testCatalog() *catalog.Catalog {
	return catalog.New(
		[]catalog.Place{
			{ID: "jurisics-var", Name: "Jurisics-vár", Aliases: []string{"jurisics vár"}, Location: types.Point{Lat: 47.3899, Lng: 16.5398}},
			{ID: "portre-ter", Name: "Portré tér"},
		},
		[]catalog.Place{
			{ID: "portre", Name: "Portré Kávéház", Aliases: []string{"portré"}},
			{ID: "korona", Name: "Korona Cukrászda"},
		},
		nil, nil, nil,
	)
}

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	dict, err := DefaultDictionary()
	require.NoError(t, err)
	return NewExtractor(dict, testCatalog())
}

func TestExtract_PlateAndIntentMessage(t *testing.T) {
	e := newTestExtractor(t)
	s := e.Extract("ABC123 rendszámmal parkolnék")
	assert.Equal(t, "ABC123", s.LicensePlate)
	assert.Zero(t, s.Duration)
}

func TestExtractPlate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ABC123", "ABC123"},
		{"abc-123 a rendszámom", "ABC123"},
		{"a rendszám ABC 123", "ABC123"},
		{"AA-BB-123 vagyok", "AABB123"},
		{"AA BB 123", "AABB123"},
		{"rendszám: xyz123.", "XYZ123"},
		{"van 100 parkoló?", ""},
		{"ABCD1234", ""},
		{"2 órára", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractPlate(tt.in))
		})
	}
}

func TestExtractLoosePlate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abc 123", "ABC123"},
		{"a rendszámom abc 123", "ABC123"},
		{"aa bb 123", "AABB123"},
		{"abc-123", "ABC123"},
		{"2 órára", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractLoosePlate(tt.in))
		})
	}
}

func TestExtract_LowerCaseSpacedPlateNeedsRendszam(t *testing.T) {
	x := NewExtractor(EmptyDictionary(), nil)
	assert.Equal(t, "ABC123", x.Extract("a rendszámom abc 123").LicensePlate)
	assert.Empty(t, x.Extract("abc 123").LicensePlate)
	assert.Empty(t, x.Extract("van 100 parkoló?").LicensePlate)
}

func TestExtractDuration(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"2 órára", 2},
		{"3 óra", 3},
		{"1 órát kérek", 1},
		{"2 órás parkolás", 2},
		{"for 4 hours", 4},
		{"2h", 2},
		{"15 órakor", 0},
		{"9 órától", 0},
		{"2 hét", 0},
		{"kettő", 0},
		{"14:30 óra", 0},
		{"1,5 óra", 0},
		{"2,5 órára", 0},
		{"1.5 hours", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractDuration(tt.in))
		})
	}
}

func TestExtractTime(t *testing.T) {
	assert.Equal(t, "14:30", ExtractTime("14:30-kor érkezünk"))
	assert.Equal(t, "09:15", ExtractTime("kb 9.15"))
	assert.Equal(t, "15:00", ExtractTime("15 órakor"))
	assert.Equal(t, "", ExtractTime("délután valamikor"))
	assert.Equal(t, "", ExtractTime("25:99"))
}

func TestExtract_DictionaryCategories(t *testing.T) {
	e := newTestExtractor(t)

	s := e.Extract("Holnap vegetáriánus helyet keresünk a gyerekekkel és a kutyával a közelben")
	assert.Equal(t, "tomorrow", s.Date)
	assert.Equal(t, "vegetarian", s.Dietary)
	assert.Equal(t, "nearby", s.Proximity)
	assert.True(t, s.WithKids)
	assert.True(t, s.WithDog)

	s = e.Extract("A feleségem már bent van a városban")
	require.NotNil(t, s.Subject)
	assert.Equal(t, "spouse", s.Subject.Value)
	assert.Equal(t, 0.95, s.Subject.Confidence)
	assert.Equal(t, "already_there", s.Presence)

	s = e.Extract("az oldalbordám szerint most kéne")
	require.NotNil(t, s.Subject)
	assert.Equal(t, "spouse", s.Subject.Value)
	assert.Equal(t, 0.8, s.Subject.Confidence)
	assert.Equal(t, "now", s.Timing)
}

func TestExtract_WordBoundaries(t *testing.T) {
	e := newTestExtractor(t)
	// "ma" must not fire inside "mama"; "most" not inside "mostoha".
	s := e.Extract("a mama mostoha")
	assert.Empty(t, s.Date)
	assert.Empty(t, s.Timing)
}

func TestExtract_AbsentFieldsStayEmpty(t *testing.T) {
	e := newTestExtractor(t)
	assert.Equal(t, Set{}, e.Extract("qwerty"))
}

func TestExtract_PlaceAttractionWins(t *testing.T) {
	e := newTestExtractor(t)

	s := e.Extract("Mikor van nyitva a Jurisics-vár, és utána a Portré?")
	require.NotNil(t, s.Place)
	assert.Equal(t, "jurisics-var", s.Place.ID)
	assert.Equal(t, 47.3899, s.Place.Location.Lat)

	s = e.Extract("Hol van a portré kávéház?")
	require.NotNil(t, s.Place)
	assert.Equal(t, "portre", s.Place.ID)

	s = e.Extract("portrék")
	assert.Nil(t, s.Place)
}

func TestExtract_MultipleFields(t *testing.T) {
	e := newTestExtractor(t)
	s := e.Extract("holnap 12:30-ra a Korona Cukrászda, gluténmentes legyen")
	assert.Equal(t, "tomorrow", s.Date)
	assert.Equal(t, "12:30", s.Time)
	assert.Equal(t, "gluten_free", s.Dietary)
	require.NotNil(t, s.Place)
	assert.Equal(t, "korona", s.Place.ID)
}

func TestNewFromPath_CorruptDictionaryDegrades(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.yaml")
	require.NoError(t, os.WriteFile(path, []byte("subject: [\n  - broken"), 0o600))

	e := NewFromPath(path, testCatalog(), logger.NewTestLogger(t))
	s := e.Extract("a feleségem holnap jön, ABC123")
	assert.Nil(t, s.Subject)
	assert.Empty(t, s.Date)
	assert.Equal(t, "ABC123", s.LicensePlate, "regex entities still work without a dictionary")
}

func TestNewFromPath_MissingDictionaryDegrades(t *testing.T) {
	e := NewFromPath(filepath.Join(t.TempDir(), "nope.yaml"), nil, logger.NewNoOpLogger())
	assert.Equal(t, 0, e.dict.Len())
	assert.Equal(t, Set{}, e.Extract("szia"))
}

func TestParseDictionary_Empty(t *testing.T) {
	_, err := ParseDictionary([]byte("{}"))
	assert.ErrorIs(t, err, ErrEmptyDictionary)
}
