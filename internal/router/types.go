// README: Deterministic conversation router. Route is pure: same input, same Result.
package router

import (
	"townguide/internal/entity"
	"townguide/internal/intent"
	"townguide/internal/modules/conversation"
	"townguide/internal/modules/profile"
	"townguide/internal/situation"
	"townguide/internal/types"
	"townguide/internal/weather"
)

// ReplyType tells the text formatter what kind of answer to produce.
type ReplyType string

const (
	ReplyEmergency           ReplyType = "emergency"
	ReplyAskArrivalTime      ReplyType = "ask_arrival_time"
	ReplyContinueCurrentFlow ReplyType = "continue_current_flow"

	ReplyParkingInfoNotInCity ReplyType = "parking_info_not_in_city"
	ReplyParkingOfferWife     ReplyType = "parking_offer_wife"
	ReplyParkingOfferUser     ReplyType = "parking_offer_user"
	ReplyParkingInfo          ReplyType = "parking_info"
	ReplyParkingOfferDeclined ReplyType = "parking_offer_declined"
	ReplyAskPlate             ReplyType = "ask_plate"
	ReplyAskDuration          ReplyType = "ask_duration"
	ReplyConfirmParking       ReplyType = "confirm_parking"
	ReplyAskSaveConsent       ReplyType = "ask_save_consent"
	ReplyParkingCancelled     ReplyType = "parking_cancelled"
	ReplyParkingSuccess       ReplyType = "parking_success"

	ReplyArrivalTimeReceived     ReplyType = "arrival_time_received"
	ReplyArrivalTimeAcknowledged ReplyType = "arrival_time_acknowledged"

	ReplyRainyDay      ReplyType = "rainy_day_recommendations"
	ReplyFamilies      ReplyType = "families"
	ReplyTours         ReplyType = "tours"
	ReplyShopping      ReplyType = "shopping"
	ReplyPractical     ReplyType = "practical"
	ReplyAccessibility ReplyType = "accessibility"
	ReplyItinerary     ReplyType = "build_itinerary"
	ReplyFoodSearch    ReplyType = "food_search"
	ReplyAttractions   ReplyType = "attractions"
	ReplyEvents        ReplyType = "events"
	ReplyHotels        ReplyType = "hotels"
	ReplyOfferNav      ReplyType = "offer_navigation"
	ReplyAskDest       ReplyType = "ask_destination"
	ReplyGreeting      ReplyType = "greeting"
	ReplyNormal        ReplyType = "normal"
)

// IsRecommendation reports whether the reply lists catalog places.
func (r ReplyType) IsRecommendation() bool {
	switch r {
	case ReplyRainyDay, ReplyFamilies, ReplyTours, ReplyItinerary, ReplyFoodSearch,
		ReplyAttractions, ReplyEvents, ReplyHotels:
		return true
	}
	return false
}

// Action types understood by the executor and the frontend.
const (
	ActionSaveAndStartParking = "save_and_start_parking"
	ActionStartParkingOnly    = "start_parking_only"
	ActionCallEmergency       = "call_emergency"
	ActionBuyParkingTicket    = "buy_parking_ticket"
	ActionGoogleSearch        = "google_search"
	ActionOpenNavigation      = "open_navigation"
)

// EmergencyNumber is the EU-wide emergency line.
const EmergencyNumber = "112"

// ActionDescriptor is a side effect requested from the hosting application.
type ActionDescriptor struct {
	Type   string         `json:"type"`
	Params map[string]any `json:"params"`
}

// Context is assembled once per request and read-only for the router.
type Context struct {
	Location  *types.Point     `json:"location,omitempty"`
	Speed     float64          `json:"speed"`
	Mobility  string           `json:"mobility,omitempty"`
	Weather   *weather.Weather `json:"weather,omitempty"`
	Now       string           `json:"now"`
	Hour      int              `json:"hour"`
	IsMorning bool             `json:"isMorning"`
	IsEvening bool             `json:"isEvening"`
	IsNight   bool             `json:"isNight"`
	SessionID string           `json:"sessionId"`
	UserID    string           `json:"userId,omitempty"`
	IsGuest   bool             `json:"isGuest"`
	Profile   *profile.Profile `json:"profile,omitempty"`

	Situation       situation.Situation `json:"situation"`
	SuppressWalking bool                `json:"suppressWalking"`
}

// SuppressWalkingSpeed is the km/h above which walking suggestions are dropped.
const SuppressWalkingSpeed = 15.0

// IsRaining is false when the weather is unknown.
func (c *Context) IsRaining() bool {
	return c != nil && c.Weather != nil && c.Weather.IsRain
}

// Input is everything Route looks at.
type Input struct {
	Query    string
	Intents  []intent.Intent
	Entities entity.Set
	State    conversation.State
	Context  *Context
}

// Result is the only way conversation state changes.
type Result struct {
	NewState  conversation.State `json:"newState"`
	ReplyType ReplyType          `json:"replyType"`
	Action    *ActionDescriptor  `json:"action"`
}
