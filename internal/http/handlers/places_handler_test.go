package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"townguide/internal/catalog"
	"townguide/internal/http/handlers"
	"townguide/internal/logger"
	"townguide/internal/types"
	"townguide/internal/weather"
)

var center = types.Point{Lat: 47.3897, Lng: 16.5405}

type stubWeather struct {
	w   *weather.Weather
	err error
}

func (s stubWeather) Current(context.Context, types.Point) (*weather.Weather, error) {
	return s.w, s.err
}

type placesBody struct {
	Category string           `json:"category"`
	Weather  *weather.Weather `json:"weather"`
	Places   []struct {
		ID         string   `json:"id"`
		FinalScore float64  `json:"finalScore"`
		DistanceKm *float64 `json:"_distanceKm"`
	} `json:"places"`
}

func getPlaces(t *testing.T, w handlers.CurrentWeather, query string) (*httptest.ResponseRecorder, placesBody) {
	t.Helper()
	cat, err := catalog.Load("")
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/places", handlers.NewPlacesHandler(cat, w, center, logger.NewTestLogger(t)).List)

	req := httptest.NewRequest(http.MethodGet, "/api/places"+query, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var body placesBody
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestPlaces_DefaultListing(t *testing.T) {
	rec, body := getPlaces(t, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attractions", body.Category)
	assert.NotEmpty(t, body.Places)
	assert.LessOrEqual(t, len(body.Places), 10)
	for i := 1; i < len(body.Places); i++ {
		assert.GreaterOrEqual(t, body.Places[i-1].FinalScore, body.Places[i].FinalScore)
	}
}

func TestPlaces_NearbyOrderedByDistance(t *testing.T) {
	rec, body := getPlaces(t, nil, "?category=restaurants&lat=47.3897&lng=16.5405&radius_km=5&limit=3")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.LessOrEqual(t, len(body.Places), 3)
	for i, p := range body.Places {
		require.NotNil(t, p.DistanceKm)
		assert.LessOrEqual(t, *p.DistanceKm, 5.0)
		if i > 0 {
			assert.GreaterOrEqual(t, *p.DistanceKm, *body.Places[i-1].DistanceKm)
		}
	}
}

func TestPlaces_WeatherIncludedWhenAvailable(t *testing.T) {
	rain := weather.FromCode(9, 61)
	_, body := getPlaces(t, stubWeather{w: &rain}, "?category=attractions")
	require.NotNil(t, body.Weather)
	assert.True(t, body.Weather.IsRain)

	rec, body := getPlaces(t, stubWeather{err: errors.New("down")}, "?category=attractions")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, body.Weather)
}

func TestPlaces_BadRequests(t *testing.T) {
	for _, q := range []string{
		"?category=spaceships",
		"?lat=abc&lng=16.5",
		"?lat=47.3",
		"?lat=147&lng=16.5",
		"?lat=47.3&lng=16.5&radius_km=-1",
		"?limit=0",
		"?limit=many",
	} {
		rec, _ := getPlaces(t, nil, q)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}
