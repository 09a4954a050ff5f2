package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"townguide/internal/catalog"
	"townguide/internal/entity"
	"townguide/internal/geo"
	"townguide/internal/intent"
	"townguide/internal/maps"
	"townguide/internal/metrics"
	"townguide/internal/modules/conversation"
	"townguide/internal/modules/pricing"
	"townguide/internal/ranking"
	"townguide/internal/router"
	"townguide/internal/types"
	"townguide/internal/weather"
)

const (
	maxPlaces      = 3
	nearbyRadiusKm = 1.5
)

// ParkingFacts describe the session being set up or started.
type ParkingFacts struct {
	Plate string         `json:"plate,omitempty"`
	Hours int            `json:"hours,omitempty"`
	Quote *pricing.Quote `json:"quote,omitempty"`
}

// Facts is everything the text formatter may state. Nothing outside Facts
// may appear in the answer.
type Facts struct {
	Town         string                  `json:"town"`
	TimeOfDay    string                  `json:"timeOfDay"`
	Weather      *weather.Weather        `json:"weather,omitempty"`
	DistanceKm   *float64                `json:"distanceKm,omitempty"`
	Places       []ranking.Ranked        `json:"places,omitempty"`
	Practical    []catalog.PracticalInfo `json:"practical,omitempty"`
	Destination  *entity.PlaceRef        `json:"destination,omitempty"`
	Travel       *maps.Estimate          `json:"travel,omitempty"`
	Parking      *ParkingFacts           `json:"parking,omitempty"`
	ArrivalTime  string                  `json:"arrivalTime,omitempty"`
	PendingTopic string                  `json:"pendingTopic,omitempty"`
	Forecast     *weather.HourlyForecast `json:"forecast,omitempty"`
	Search       []maps.Place            `json:"search,omitempty"`
	Date         string                  `json:"date,omitempty"`
	Dietary      string                  `json:"dietary,omitempty"`
}

type factInput struct {
	reply   router.ReplyType
	ctx     *router.Context
	ents    entity.Set
	intents []intent.Intent
	prior   conversation.State
	next    conversation.State
	action  map[string]any
}

func timeOfDay(c *router.Context) string {
	switch {
	case c.IsMorning:
		return "reggel"
	case c.IsEvening:
		return "este"
	case c.IsNight:
		return "éjszaka"
	}
	return "napközben"
}

// collectFacts picks the facts for one reply. Collaborator failures leave
// the corresponding fact empty.
func (a *Assistant) collectFacts(ctx context.Context, in factInput) Facts {
	f := Facts{
		Town:       a.town.Name,
		TimeOfDay:  timeOfDay(in.ctx),
		Weather:    in.ctx.Weather,
		DistanceKm: in.ctx.Situation.UserDistanceKm,
		Date:       in.ents.Date,
		Dietary:    in.ents.Dietary,
	}
	opts := ranking.Options{Weather: in.ctx.Weather, Profile: in.ctx.Profile, Speed: in.ctx.Speed}

	switch in.reply {
	case router.ReplyRainyDay:
		var indoor []catalog.Place
		for _, p := range append(a.catalog.Attractions(), a.catalog.Restaurants()...) {
			if p.HasFeature(ranking.FeatureIndoor) {
				indoor = append(indoor, p)
			}
		}
		f.Places = a.shortlist(indoor, opts, in)

	case router.ReplyFamilies:
		var fam []catalog.Place
		for _, p := range a.catalog.Attractions() {
			if p.ChildFriendly || p.HasFeature("family") || p.HasFeature("playground") {
				fam = append(fam, p)
			}
		}
		f.Places = a.shortlist(fam, opts, in)

	case router.ReplyTours:
		var walks []catalog.Place
		for _, p := range a.catalog.Attractions() {
			if p.HasFeature(ranking.FeatureWalkingFriendly) {
				walks = append(walks, p)
			}
		}
		f.Places = a.shortlist(walks, opts, in)
		f.Practical = a.catalog.PracticalTopic("tours", "information")

	case router.ReplyShopping:
		f.Practical = a.catalog.PracticalTopic("shopping")
	case router.ReplyAccessibility:
		f.Practical = a.catalog.PracticalTopic("accessibility", "toilets")
	case router.ReplyPractical:
		f.Practical = a.catalog.PracticalTopic("pharmacy", "atm", "toilets", "information", "fuel")

	case router.ReplyItinerary:
		sights := a.shortlist(a.catalog.Attractions(), opts, in)
		food := a.shortlist(a.restaurantsFor(in.ents.Dietary), opts, in)
		f.Places = append(ranking.Top(sights, 2), ranking.Top(food, 1)...)

	case router.ReplyFoodSearch:
		f.Places = a.shortlist(a.restaurantsFor(in.ents.Dietary), opts, in)
	case router.ReplyAttractions:
		f.Places = a.shortlist(a.catalog.Attractions(), opts, in)
	case router.ReplyEvents:
		f.Places = a.shortlist(a.catalog.Events(), opts, in)
	case router.ReplyHotels:
		f.Places = a.shortlist(a.catalog.Hotels(), opts, in)

	case router.ReplyOfferNav:
		f.Destination = in.ents.Place
		f.Travel = a.travel(ctx, in)

	case router.ReplyParkingInfo, router.ReplyParkingInfoNotInCity,
		router.ReplyParkingOfferUser, router.ReplyParkingOfferWife:
		f.Practical = a.catalog.PracticalTopic("parking")
		f.Parking = &ParkingFacts{Quote: a.quote(ctx, 1)}

	case router.ReplyConfirmParking, router.ReplyAskSaveConsent:
		if p := in.next.Parking; p != nil {
			f.Parking = &ParkingFacts{Plate: p.LicensePlate, Hours: p.Duration, Quote: a.quote(ctx, p.Duration)}
		}
	case router.ReplyAskDuration:
		if p := in.next.Parking; p != nil {
			f.Parking = &ParkingFacts{Plate: p.LicensePlate}
		}
	case router.ReplyParkingSuccess:
		pf := &ParkingFacts{}
		if p := in.prior.Parking; p != nil {
			pf.Plate, pf.Hours = p.LicensePlate, p.Duration
		}
		if q, ok := in.action["fee"].(types.Money); ok {
			pf.Quote = &pricing.Quote{Hours: pf.Hours, Total: q}
		}
		f.Parking = pf

	case router.ReplyArrivalTimeReceived:
		if arr := in.next.Arrival; arr != nil {
			f.ArrivalTime, f.PendingTopic = arr.Time, arr.PendingTopic
		}
		f.Forecast = a.arrivalForecast(ctx, in)
	case router.ReplyArrivalTimeAcknowledged, router.ReplyAskArrivalTime:
		if arr := in.prior.Arrival; arr != nil {
			f.ArrivalTime, f.PendingTopic = arr.Time, arr.PendingTopic
		}
		if arr := in.next.Arrival; arr != nil && f.PendingTopic == "" {
			f.PendingTopic = arr.PendingTopic
		}
		if in.reply == router.ReplyArrivalTimeAcknowledged {
			f.Places = a.pendingRecommendations(f.PendingTopic, opts, in)
		}

	case router.ReplyNormal:
		if res, ok := in.action["results"].([]maps.Place); ok {
			f.Search = res
		}
	}
	return f
}

// shortlist ranks places and keeps the best few. When the visitor asked for
// something nearby and their position is known, farther places are dropped.
func (a *Assistant) shortlist(places []catalog.Place, opts ranking.Options, in factInput) []ranking.Ranked {
	ranked := ranking.Rank(places, opts)
	if in.ents.Proximity != "" && in.ctx.Location != nil {
		if near := ranking.FilterNearby(ranked, *in.ctx.Location, nearbyRadiusKm, 0); len(near) > 0 {
			sort.SliceStable(near, func(i, j int) bool { return near[i].FinalScore > near[j].FinalScore })
			ranked = near
		}
	}
	return ranking.Top(ranked, maxPlaces)
}

// restaurantsFor narrows to a dietary tag when any restaurant carries it.
func (a *Assistant) restaurantsFor(dietary string) []catalog.Place {
	all := a.catalog.Restaurants()
	if dietary == "" {
		return all
	}
	var match []catalog.Place
	for _, p := range all {
		if p.HasFeature(dietary) {
			match = append(match, p)
		}
	}
	if len(match) == 0 {
		return all
	}
	return match
}

func (a *Assistant) pendingRecommendations(topic string, opts ranking.Options, in factInput) []ranking.Ranked {
	switch intent.Intent(topic) {
	case intent.Food:
		return a.shortlist(a.restaurantsFor(in.ents.Dietary), opts, in)
	case intent.Attractions:
		return a.shortlist(a.catalog.Attractions(), opts, in)
	case intent.Events:
		return a.shortlist(a.catalog.Events(), opts, in)
	case intent.Hotels:
		return a.shortlist(a.catalog.Hotels(), opts, in)
	}
	return nil
}

func (a *Assistant) quote(ctx context.Context, hours int) *pricing.Quote {
	if a.fees == nil || hours <= 0 {
		return nil
	}
	q, err := a.fees.Estimate(ctx, pricing.DefaultZone, hours)
	if err != nil {
		a.log.Debug("no parking quote", map[string]interface{}{"hours": hours, "error": err})
		return nil
	}
	return &q
}

func (a *Assistant) travel(ctx context.Context, in factInput) *maps.Estimate {
	dest := in.ents.Place
	if a.routes == nil || dest == nil || in.ctx.Location == nil {
		return nil
	}
	drive := in.ctx.SuppressWalking || in.ctx.Mobility == conversation.MobilityCar
	est, err := a.routes.TravelEstimate(ctx, *in.ctx.Location, dest.Location, drive)
	if err != nil {
		metrics.CollaboratorFallbacks.WithLabelValues("routes").Inc()
		a.log.Warn("travel estimate unavailable", map[string]interface{}{"error": err})
		return nil
	}
	return &est
}

// arrivalForecast looks up the hour the visitor said they would arrive.
// A time already past today means tomorrow.
func (a *Assistant) arrivalForecast(ctx context.Context, in factInput) *weather.HourlyForecast {
	if a.weather == nil || in.ents.Time == "" {
		return nil
	}
	clock, err := time.Parse("15:04", in.ents.Time)
	if err != nil {
		return nil
	}
	now := a.now().In(a.tz)
	at := time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, a.tz)
	if at.Before(now) {
		at = at.AddDate(0, 0, 1)
	}
	f, err := a.weather.ForecastAt(ctx, a.town.Center, at)
	if err != nil {
		metrics.CollaboratorFallbacks.WithLabelValues("forecast").Inc()
		a.log.Warn("forecast unavailable", map[string]interface{}{"error": err})
		return nil
	}
	return f
}

// Lines renders facts as a bullet list for the prompt.
func (f Facts) Lines() []string {
	var out []string
	add := func(format string, args ...interface{}) {
		out = append(out, fmt.Sprintf(format, args...))
	}

	add("Város: %s, napszak: %s", f.Town, f.TimeOfDay)
	if f.Weather != nil {
		add("Időjárás most: %s, %.0f °C", f.Weather.Description, f.Weather.TempC)
	}
	switch {
	case f.DistanceKm == nil:
	case *f.DistanceKm < 1:
		add("A látogató távolsága a várostól: %d m", geo.Metres(*f.DistanceKm))
	default:
		add("A látogató távolsága a várostól: %.1f km", *f.DistanceKm)
	}
	for i, p := range f.Places {
		line := fmt.Sprintf("Ajánlat %d: %s (%s) - %s", i+1, p.Name, p.Kind, p.Description)
		if p.OpeningHours != "" {
			line += ", nyitva: " + p.OpeningHours
		}
		if p.Date != "" {
			line += ", időpont: " + p.Date
		}
		if p.DistanceKm != nil {
			line += fmt.Sprintf(", %.1f km", *p.DistanceKm)
		}
		out = append(out, line)
	}
	for _, p := range f.Practical {
		add("%s: %s", p.Title, p.Text)
	}
	if f.Destination != nil {
		add("Úti cél: %s", f.Destination.Name)
	}
	if f.Travel != nil {
		add("Odajutás: kb. %d perc (%s, %s)", f.Travel.Minutes(), f.Travel.Mode, f.Travel.Distance)
	}
	if p := f.Parking; p != nil {
		if p.Plate != "" {
			add("Rendszám: %s", p.Plate)
		}
		if p.Hours > 0 {
			add("Időtartam: %d óra", p.Hours)
		}
		if p.Quote != nil {
			if p.Quote.HourlyRate.Amount > 0 {
				add("Óradíj: %s", p.Quote.HourlyRate)
			}
			add("Díj: %s", p.Quote.Total)
		}
	}
	if f.ArrivalTime != "" {
		add("Érkezés: %s", f.ArrivalTime)
	}
	if f.PendingTopic != "" {
		add("Érdeklődés tárgya: %s", f.PendingTopic)
	}
	if fc := f.Forecast; fc != nil {
		add("Előrejelzés érkezéskor (%s): %s, %.0f °C, eső esélye %d%%",
			fc.Time.Format("15:04"), fc.Description, fc.TempC, fc.RainChancePct)
	}
	for _, s := range f.Search {
		add("Találat: %s, %s", s.Name, s.Address)
	}
	if f.Date != "" {
		add("Kért nap: %s", f.Date)
	}
	if f.Dietary != "" {
		add("Étrendi igény: %s", f.Dietary)
	}
	return out
}

func placeNames(places []ranking.Ranked) string {
	names := make([]string, len(places))
	for i, p := range places {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}
