// README: Action executor. Turns router action descriptors into frontend actions, persisting plates on request.
package action

import (
	"context"
	"errors"

	"townguide/internal/logger"
	"townguide/internal/maps"
	"townguide/internal/metrics"
	"townguide/internal/modules/pricing"
	"townguide/internal/modules/vehicle"
	"townguide/internal/router"
	"townguide/internal/types"
)

// FrontendAction is what the hosting application acts on.
type FrontendAction struct {
	Type   string         `json:"type"`
	Params map[string]any `json:"params"`
}

// PlateSaver is satisfied by *vehicle.Service.
type PlateSaver interface {
	SavePlate(ctx context.Context, uid types.ID, plate string) error
}

// FeeEstimator is satisfied by *pricing.Service.
type FeeEstimator interface {
	Estimate(ctx context.Context, zone string, hours int) (pricing.Quote, error)
}

// Searcher is satisfied by *maps.PlacesService.
type Searcher interface {
	SearchText(ctx context.Context, query string, near types.Point) ([]maps.Place, error)
}

// Executor collaborators are optional; a nil one skips that enrichment.
type Executor struct {
	plates   PlateSaver
	fees     FeeEstimator
	search   Searcher
	searchAt types.Point
	log      logger.Logger
}

func NewExecutor(plates PlateSaver, fees FeeEstimator, search Searcher, searchAt types.Point, log logger.Logger) *Executor {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Executor{plates: plates, fees: fees, search: search, searchAt: searchAt, log: log}
}

// Execute never fails. A zero userID is a guest and is never persisted for.
// Unknown action types are logged and yield nil.
func (e *Executor) Execute(ctx context.Context, desc *router.ActionDescriptor, userID types.ID) *FrontendAction {
	if desc == nil {
		return nil
	}

	switch desc.Type {
	case router.ActionSaveAndStartParking:
		metrics.ActionsExecuted.WithLabelValues(desc.Type).Inc()
		e.savePlate(ctx, userID, stringParam(desc.Params, "licensePlate"))
		return e.startParking(ctx, desc.Params)

	case router.ActionStartParkingOnly:
		metrics.ActionsExecuted.WithLabelValues(desc.Type).Inc()
		return e.startParking(ctx, desc.Params)

	case router.ActionGoogleSearch:
		metrics.ActionsExecuted.WithLabelValues(desc.Type).Inc()
		return e.googleSearch(ctx, desc.Params)

	case router.ActionCallEmergency, router.ActionBuyParkingTicket, router.ActionOpenNavigation:
		metrics.ActionsExecuted.WithLabelValues(desc.Type).Inc()
		return &FrontendAction{Type: desc.Type, Params: desc.Params}
	}

	e.log.Warn("unknown action type", map[string]interface{}{"type": desc.Type})
	return nil
}

// savePlate drops every failure: parking must start even when the plate
// cannot be remembered.
func (e *Executor) savePlate(ctx context.Context, userID types.ID, plate string) {
	if userID.IsZero() || e.plates == nil || plate == "" {
		return
	}
	err := e.plates.SavePlate(ctx, userID, plate)
	switch {
	case err == nil:
	case errors.Is(err, vehicle.ErrDuplicatePlate):
		e.log.Debug("plate already saved", map[string]interface{}{"user_id": userID.String()})
	default:
		e.log.Warn("failed to save plate", map[string]interface{}{
			"user_id": userID.String(),
			"error":   err,
		})
	}
}

func (e *Executor) startParking(ctx context.Context, params map[string]any) *FrontendAction {
	plate := stringParam(params, "licensePlate")
	hours := intParam(params, "duration")
	out := map[string]any{
		"licensePlate": plate,
		"duration":     hours,
	}
	if e.fees != nil && hours > 0 {
		q, err := e.fees.Estimate(ctx, pricing.DefaultZone, hours)
		if err != nil {
			e.log.Warn("parking fee estimate unavailable", map[string]interface{}{
				"hours": hours,
				"error": err,
			})
		} else {
			out["zone"] = q.Zone
			out["hourlyRate"] = q.HourlyRate
			out["fee"] = q.Total
		}
	}
	return &FrontendAction{Type: router.ActionBuyParkingTicket, Params: out}
}

func (e *Executor) googleSearch(ctx context.Context, params map[string]any) *FrontendAction {
	query := stringParam(params, "query")
	out := map[string]any{"query": query}
	if e.search != nil && query != "" {
		results, err := e.search.SearchText(ctx, query, e.searchAt)
		if err != nil {
			metrics.CollaboratorFallbacks.WithLabelValues("places").Inc()
			e.log.Warn("places search failed", map[string]interface{}{"error": err})
		} else if len(results) > 0 {
			out["results"] = results
		}
	}
	return &FrontendAction{Type: router.ActionGoogleSearch, Params: out}
}

func stringParam(params map[string]any, key string) string {
	s, _ := params[key].(string)
	return s
}

// intParam accepts ints and JSON-decoded numbers.
func intParam(params map[string]any, key string) int {
	switch v := params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
