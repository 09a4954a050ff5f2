package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(t.TempDir())
	return v
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := loadFrom(newViper(t))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 5.0, cfg.Town.RadiusKm)
	assert.Equal(t, 30.0, cfg.Town.ApproachKm)
	assert.InDelta(t, 47.3896, cfg.Town.CenterLat, 1e-9)
	assert.Equal(t, 8*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 100, cfg.AI.MonthlyTokens)
	assert.Equal(t, int64(400), cfg.Parking.DefaultHourlyRate)
	assert.Equal(t, "HUF", cfg.Parking.Currency)
	assert.Empty(t, cfg.DB.DSN)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("TOWNGUIDE_HTTP_ADDR", ":9999")
	t.Setenv("TOWNGUIDE_TOWN_RADIUS_KM", "3.5")
	t.Setenv("TOWNGUIDE_WEATHER_CACHE_TTL", "2m")

	cfg, err := loadFrom(newViper(t))
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.HTTP.Addr)
	assert.Equal(t, 3.5, cfg.Town.RadiusKm)
	assert.Equal(t, 2*time.Minute, cfg.Weather.CacheTTL)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
town:
  name: Sopron
  radius_km: 6
log:
  level: debug
`), 0o600))

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	cfg, err := loadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, "Sopron", cfg.Town.Name)
	assert.Equal(t, 6.0, cfg.Town.RadiusKm)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("TOWNGUIDE_TOWN_APPROACH_KM", "1")
	_, err := loadFrom(newViper(t))
	assert.Error(t, err)
}
