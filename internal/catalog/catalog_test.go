package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Embedded(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.NotEmpty(t, c.Attractions())
	assert.NotEmpty(t, c.Restaurants())
	assert.NotEmpty(t, c.Hotels())
	assert.NotEmpty(t, c.Events())
	assert.NotEmpty(t, c.Practical())

	for _, p := range c.Restaurants() {
		assert.Equal(t, TypeRestaurant, p.Type, p.ID)
		assert.NotEmpty(t, p.Tier, p.ID)
	}

	castle, ok := c.ByID("jurisics-var")
	require.True(t, ok)
	assert.Equal(t, TypeAttraction, castle.Type)
	assert.True(t, castle.HasFeature("indoor"))
	assert.True(t, castle.HasFeature("culture"))
	assert.False(t, castle.HasFeature("pizza"))
}

func TestLoad_DirectoryOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hotels.yaml"), []byte(`
hotels:
  - id: only-hotel
    name: Egyetlen Hotel
    priority: 3
    coordinates: {lat: 47.39, lng: 16.54}
`), 0o600))

	c, err := Load(dir)
	require.NoError(t, err)
	hotels := c.Hotels()
	require.Len(t, hotels, 1)
	assert.Equal(t, "only-hotel", hotels[0].ID)
	assert.Equal(t, TierNone, hotels[0].Tier)
	assert.NotEmpty(t, c.Attractions(), "files missing from the directory fall back to embedded data")
}

func TestLoad_CorruptOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "events.yaml"), []byte("events: [\n"), 0o600))
	_, err := Load(dir)
	assert.Error(t, err)
}

func TestCategory(t *testing.T) {
	c := New([]Place{{ID: "a"}}, []Place{{ID: "r"}}, nil, nil, nil)

	got, err := c.Category("food")
	require.NoError(t, err)
	assert.Equal(t, "r", got[0].ID)

	_, err = c.Category("spa")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestAccessorsReturnCopies(t *testing.T) {
	c := New([]Place{{ID: "a", Name: "Vár"}}, nil, nil, nil, nil)
	got := c.Attractions()
	got[0].Name = "changed"
	assert.Equal(t, "Vár", c.Attractions()[0].Name)
}

func TestPracticalTopic(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	got := c.PracticalTopic("pharmacy", "atm")
	require.Len(t, got, 2)
	assert.Equal(t, "pharmacy", got[0].Topic)
	assert.Equal(t, "atm", got[1].Topic)
	assert.Empty(t, c.PracticalTopic("casino"))
}
