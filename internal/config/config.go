// README: Config loader (viper + .env) with defaults for every key.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "TOWNGUIDE"

type TownConfig struct {
	Name       string  `mapstructure:"name"`
	CenterLat  float64 `mapstructure:"center_lat"`
	CenterLng  float64 `mapstructure:"center_lng"`
	RadiusKm   float64 `mapstructure:"radius_km"`
	ApproachKm float64 `mapstructure:"approach_km"`
	Timezone   string  `mapstructure:"timezone"`
}

type Config struct {
	HTTP struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"http"`
	DB struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	Redis struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"redis"`
	AI struct {
		GeminiKey     string        `mapstructure:"gemini_key"`
		Model         string        `mapstructure:"model"`
		Timeout       time.Duration `mapstructure:"timeout"`
		MonthlyTokens int           `mapstructure:"monthly_tokens"`
	} `mapstructure:"ai"`
	Maps struct {
		APIKey string `mapstructure:"api_key"`
	} `mapstructure:"maps"`
	Firebase struct {
		ProjectID       string `mapstructure:"project_id"`
		CredentialsFile string `mapstructure:"credentials_file"`
	} `mapstructure:"firebase"`
	Town    TownConfig `mapstructure:"town"`
	Weather struct {
		BaseURL  string        `mapstructure:"base_url"`
		CacheTTL time.Duration `mapstructure:"cache_ttl"`
	} `mapstructure:"weather"`
	Data struct {
		DictionaryPath string `mapstructure:"dictionary_path"`
		CatalogDir     string `mapstructure:"catalog_dir"`
	} `mapstructure:"data"`
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
	RateLimit struct {
		RPS   float64 `mapstructure:"rps"`
		Burst int     `mapstructure:"burst"`
	} `mapstructure:"ratelimit"`
	Parking struct {
		DefaultHourlyRate int64  `mapstructure:"default_hourly_rate"`
		Currency          string `mapstructure:"currency"`
	} `mapstructure:"parking"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("db.dsn", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("ai.gemini_key", "")
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.timeout", 8*time.Second)
	v.SetDefault("ai.monthly_tokens", 100)
	v.SetDefault("maps.api_key", "")
	v.SetDefault("firebase.project_id", "")
	v.SetDefault("firebase.credentials_file", "")
	v.SetDefault("town.name", "Kőszeg")
	v.SetDefault("town.center_lat", 47.3896)
	v.SetDefault("town.center_lng", 16.5402)
	v.SetDefault("town.radius_km", 5.0)
	v.SetDefault("town.approach_km", 30.0)
	v.SetDefault("town.timezone", "Europe/Budapest")
	v.SetDefault("weather.base_url", "https://api.open-meteo.com/v1/forecast")
	v.SetDefault("weather.cache_ttl", 10*time.Minute)
	v.SetDefault("data.dictionary_path", "")
	v.SetDefault("data.catalog_dir", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("ratelimit.rps", 10.0)
	v.SetDefault("ratelimit.burst", 20)
	v.SetDefault("parking.default_hourly_rate", 400)
	v.SetDefault("parking.currency", "HUF")
}

// Load reads .env, an optional config.yaml and TOWNGUIDE_* environment
// variables, in increasing order of precedence.
func Load() (Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	return loadFrom(v)
}

func loadFrom(v *viper.Viper) (Config, error) {
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validate(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.Town.RadiusKm <= 0 {
		return errors.New("town.radius_km must be positive")
	}
	if cfg.Town.ApproachKm < cfg.Town.RadiusKm {
		return errors.New("town.approach_km must not be smaller than town.radius_km")
	}
	if cfg.RateLimit.RPS <= 0 || cfg.RateLimit.Burst <= 0 {
		return errors.New("ratelimit.rps and ratelimit.burst must be positive")
	}
	if cfg.Parking.DefaultHourlyRate < 0 {
		return errors.New("parking.default_hourly_rate must not be negative")
	}
	return nil
}

// loadEnvFile loads the first .env found walking up towards the module root.
func loadEnvFile() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}
	for {
		path := filepath.Join(dir, ".env")
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
