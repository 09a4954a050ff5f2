// README: Places handler; ranked catalog listing with optional proximity filter.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"townguide/internal/catalog"
	"townguide/internal/logger"
	"townguide/internal/ranking"
	"townguide/internal/types"
	"townguide/internal/weather"
)

const (
	defaultPlacesLimit = 10
	maxPlacesLimit     = 50
	defaultRadiusKm    = 2.0
	weatherTimeout     = 3 * time.Second
)

// CurrentWeather is satisfied by *weather.Client.
type CurrentWeather interface {
	Current(ctx context.Context, p types.Point) (*weather.Weather, error)
}

type PlacesHandler struct {
	catalog *catalog.Catalog
	weather CurrentWeather
	center  types.Point
	log     logger.Logger
}

func NewPlacesHandler(cat *catalog.Catalog, w CurrentWeather, center types.Point, log logger.Logger) *PlacesHandler {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &PlacesHandler{catalog: cat, weather: w, center: center, log: log}
}

type placesResp struct {
	Category string           `json:"category"`
	Weather  *weather.Weather `json:"weather,omitempty"`
	Places   []ranking.Ranked `json:"places"`
}

// List handles GET /api/places.
func (h *PlacesHandler) List(c *gin.Context) {
	category := c.DefaultQuery("category", "attractions")
	places, err := h.catalog.Category(category)
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownCategory) {
			writeError(c, http.StatusBadRequest, "unknown category")
			return
		}
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}

	lat, latSet, ok1 := queryFloat(c, "lat")
	lng, lngSet, ok2 := queryFloat(c, "lng")
	radius, radiusSet, ok3 := queryFloat(c, "radius_km")
	limit, ok4 := queryInt(c, "limit", defaultPlacesLimit)
	if !ok1 || !ok2 || !ok3 || !ok4 || latSet != lngSet {
		writeError(c, http.StatusBadRequest, "invalid query parameters")
		return
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 || (radiusSet && radius <= 0) || limit <= 0 {
		writeError(c, http.StatusBadRequest, "invalid query parameters")
		return
	}
	if limit > maxPlacesLimit {
		limit = maxPlacesLimit
	}
	if !radiusSet {
		radius = defaultRadiusKm
	}

	at := h.center
	if latSet {
		at = types.Point{Lat: lat, Lng: lng}
	}
	w := h.currentWeather(c.Request.Context(), at)

	ranked := ranking.Rank(places, ranking.Options{Weather: w})
	if latSet {
		ranked = ranking.FilterNearby(ranked, at, radius, limit)
	} else {
		ranked = ranking.Top(ranked, limit)
	}
	if ranked == nil {
		ranked = []ranking.Ranked{}
	}
	writeJSON(c, http.StatusOK, placesResp{Category: category, Weather: w, Places: ranked})
}

func (h *PlacesHandler) currentWeather(ctx context.Context, at types.Point) *weather.Weather {
	if h.weather == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, weatherTimeout)
	defer cancel()
	w, err := h.weather.Current(ctx, at)
	if err != nil {
		h.log.Warn("weather unavailable for places listing", map[string]interface{}{"error": err})
		return nil
	}
	return w
}
