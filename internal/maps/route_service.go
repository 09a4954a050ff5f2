package maps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"googlemaps.github.io/maps"

	"townguide/internal/types"
)

var ErrNoRoute = errors.New("no route found")

// Estimate is a travel time/distance summary for one leg.
type Estimate struct {
	Mode     string        `json:"mode"`
	Duration time.Duration `json:"duration"`
	Distance string        `json:"distance"`
}

// Minutes rounds the duration up to whole minutes.
func (e Estimate) Minutes() int {
	return int((e.Duration + time.Minute - 1) / time.Minute)
}

// RouteService handles interactions with Google Maps API.
type RouteService struct {
	client *maps.Client
}

// NewRouteService creates a new RouteService with the given API Key.
func NewRouteService(apiKey string, opts ...maps.ClientOption) (*RouteService, error) {
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client}, nil
}

// TravelEstimate returns walking time from origin to destination, or driving
// time when drive is set.
func (s *RouteService) TravelEstimate(ctx context.Context, origin, destination types.Point, drive bool) (Estimate, error) {
	mode := maps.TravelModeWalking
	if drive {
		mode = maps.TravelModeDriving
	}
	r := &maps.DirectionsRequest{
		Origin:      latLng(origin),
		Destination: latLng(destination),
		Mode:        mode,
		Language:    "hu",
		Region:      "hu",
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return Estimate{}, fmt.Errorf("maps api error: %w", err)
	}

	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return Estimate{}, ErrNoRoute
	}

	leg := routes[0].Legs[0]
	return Estimate{Mode: string(mode), Duration: leg.Duration, Distance: leg.Distance.HumanReadable}, nil
}

func latLng(p types.Point) string {
	return fmt.Sprintf("%f,%f", p.Lat, p.Lng)
}
