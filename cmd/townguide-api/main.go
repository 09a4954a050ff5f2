// README: Entry point; loads config, builds infra, wires the turn pipeline and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"townguide/internal/action"
	"townguide/internal/ai"
	"townguide/internal/catalog"
	"townguide/internal/config"
	"townguide/internal/entity"
	httptransport "townguide/internal/http"
	"townguide/internal/infra"
	"townguide/internal/logger"
	"townguide/internal/maps"
	"townguide/internal/modules/aiusage"
	"townguide/internal/modules/conversation"
	"townguide/internal/modules/pricing"
	"townguide/internal/modules/profile"
	"townguide/internal/modules/vehicle"
	"townguide/internal/service"
	"townguide/internal/situation"
	"townguide/internal/types"
	"townguide/internal/weather"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatal(logger.NewNoOpLogger(), "load config", err)
	}
	log, err := logger.NewStructured(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fatal(logger.NewNoOpLogger(), "init logger", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := build(ctx, cfg, log)
	if err != nil {
		fatal(log, "wire services", err)
	}
	defer cleanup()

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           app.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info("http server listening", map[string]interface{}{"addr": cfg.HTTP.Addr, "town": cfg.Town.Name})
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fatal(log, "http server", err)
	}
	log.Info("http server stopped", nil)
}

func fatal(log logger.Logger, msg string, err error) {
	log.Error(msg, map[string]interface{}{"error": err})
	_ = log.Sync()
	os.Exit(1)
}

// build wires every collaborator. Missing optional infrastructure (db,
// redis, API keys, firebase) disables the matching feature instead of
// failing startup.
func build(ctx context.Context, cfg config.Config, log logger.Logger) (*httptransport.Server, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	tz, err := time.LoadLocation(cfg.Town.Timezone)
	if err != nil {
		return nil, cleanup, err
	}
	center := types.Point{Lat: cfg.Town.CenterLat, Lng: cfg.Town.CenterLng}

	cat, err := catalog.Load(cfg.Data.CatalogDir)
	if err != nil {
		return nil, cleanup, err
	}

	var db *pgxpool.Pool
	if cfg.DB.DSN != "" {
		db, err = infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, db.Close)
	} else {
		log.Warn("db.dsn not set; signed-in users behave like guests", nil)
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			log.Warn("redis unavailable; weather is not cached", map[string]interface{}{"error": err})
			rdb = nil
		} else {
			closers = append(closers, func() { _ = rdb.Close() })
		}
	}

	verifier, err := infra.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
	if err != nil {
		return nil, cleanup, err
	}
	if verifier == nil {
		log.Warn("firebase.project_id not set; every caller is a guest", nil)
	}

	weatherClient, err := weather.NewClient(weather.Config{
		BaseURL:  cfg.Weather.BaseURL,
		CacheTTL: cfg.Weather.CacheTTL,
		Timezone: cfg.Town.Timezone,
	}, rdb, log)
	if err != nil {
		return nil, cleanup, err
	}

	defaultRate := types.Money{Amount: cfg.Parking.DefaultHourlyRate, Currency: cfg.Parking.Currency}
	deps := service.Deps{
		Town:      service.Town{Name: cfg.Town.Name, Center: center},
		Timezone:  tz,
		Catalog:   cat,
		Extractor: entity.NewFromPath(cfg.Data.DictionaryPath, cat, log),
		Assembler: service.NewAssembler(situation.NewAnalyzer(center, cfg.Town.RadiusKm, cfg.Town.ApproachKm), tz),
		Weather:   weatherClient,
		Logger:    log,
	}

	var plates action.PlateSaver
	var fees *pricing.Service
	if db != nil {
		deps.States = conversation.NewService(conversation.NewStore(db))
		deps.Profiles = profile.NewService(profile.NewStore(db))
		deps.Quota = aiusage.NewService(aiusage.NewStore(db, cfg.AI.MonthlyTokens))
		plates = vehicle.NewService(vehicle.NewStore(db))
		fees = pricing.NewService(pricing.NewStore(db), defaultRate)
	} else {
		fees = pricing.NewService(nil, defaultRate)
	}
	deps.Fees = fees

	var search action.Searcher
	if cfg.Maps.APIKey != "" {
		routes, err := maps.NewRouteService(cfg.Maps.APIKey)
		if err != nil {
			return nil, cleanup, err
		}
		places, err := maps.NewPlacesService(cfg.Maps.APIKey)
		if err != nil {
			return nil, cleanup, err
		}
		deps.Routes = routes
		search = places
	} else {
		log.Warn("maps.api_key not set; no travel estimates or place search", nil)
	}
	deps.Executor = action.NewExecutor(plates, fees, search, center, log)

	var gen ai.TextGenerator
	if cfg.AI.GeminiKey != "" {
		provider, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey, cfg.AI.Model)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, provider.Close)
		gen = provider
	} else {
		log.Warn("ai.gemini_key not set; replies use fallback texts", nil)
	}
	deps.Formatter = ai.NewFormatter(gen, cfg.AI.Timeout, log)

	server := httptransport.NewServer(httptransport.ServerDeps{
		Assistant: service.NewAssistant(deps),
		Catalog:   cat,
		Weather:   weatherClient,
		Verifier:  verifier,
		Center:    center,
		Logger:    log,
		RateRPS:   cfg.RateLimit.RPS,
		RateBurst: cfg.RateLimit.Burst,
	})
	return server, cleanup, nil
}
