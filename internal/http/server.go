// README: API gateway; owns the gin engine and delegates to the turn pipeline and catalog.
package http

import (
	"time"

	"townguide/internal/catalog"
	"townguide/internal/http/handlers"
	"townguide/internal/infra"
	"townguide/internal/logger"
	"townguide/internal/types"
)

type ServerDeps struct {
	Assistant handlers.Chatter
	Catalog   *catalog.Catalog
	Weather   handlers.CurrentWeather
	Verifier  infra.TokenVerifier
	Center    types.Point
	Logger    logger.Logger

	ChatTimeout time.Duration
	RateRPS     float64
	RateBurst   int
}

type Server struct {
	chat     *handlers.ChatHandler
	places   *handlers.PlacesHandler
	verifier infra.TokenVerifier
	log      logger.Logger

	rateRPS   float64
	rateBurst int
}

func NewServer(deps ServerDeps) *Server {
	if deps.Logger == nil {
		deps.Logger = logger.NewNoOpLogger()
	}
	return &Server{
		chat:      handlers.NewChatHandler(deps.Assistant, deps.ChatTimeout),
		places:    handlers.NewPlacesHandler(deps.Catalog, deps.Weather, deps.Center, deps.Logger),
		verifier:  deps.Verifier,
		log:       deps.Logger,
		rateRPS:   deps.RateRPS,
		rateBurst: deps.RateBurst,
	}
}
