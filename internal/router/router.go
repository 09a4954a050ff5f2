package router

import (
	"strings"

	"townguide/internal/entity"
	"townguide/internal/intent"
	"townguide/internal/modules/conversation"
	"townguide/internal/situation"
)

// cityBound topics need the visitor in town; rule order matters for the
// pending topic remembered during arrival planning.
var cityBound = []intent.Intent{
	intent.Food, intent.Attractions, intent.Parking, intent.Events, intent.Hotels,
}

// cityTopics abandon a running parking or arrival flow.
var cityTopics = []intent.Intent{
	intent.Food, intent.Attractions, intent.Hotels, intent.Events, intent.Tours,
	intent.Shopping, intent.Practical, intent.Families, intent.Accessibility, intent.Navigation,
}

type turn struct {
	in    Input
	state conversation.State
	set   intent.Set
	ctx   *Context
	ents  entity.Set
}

// notInTown is true only when neither the visitor nor a companion is
// confirmed in town and the visitor is confirmed outside.
func (t *turn) notInTown() bool {
	s := t.ctx.Situation
	return s.KnownStatus() == situation.NotInCity && !s.WifeInCity
}

// canPark treats an unknown position as permissive.
func (t *turn) canPark() bool {
	s := t.ctx.Situation
	return s.KnownStatus() == situation.Unknown || s.CanParkNow
}

// Route evaluates the rules in order; the first match wins.
func Route(in Input) Result {
	t := &turn{
		in:    in,
		state: in.State.Normalize(),
		set:   intent.NewSet(in.Intents),
		ctx:   in.Context,
		ents:  in.Entities,
	}
	if t.ctx == nil {
		t.ctx = &Context{}
	}
	// The visitor was just asked for a plate, so "abc 123" counts as one.
	if t.state.Phase == conversation.PhaseParkingCollectPlate && t.ents.LicensePlate == "" {
		t.ents.LicensePlate = entity.ExtractLoosePlate(in.Query)
	}
	return t.finish(t.route())
}

func (t *turn) route() Result {
	if t.set.Has(intent.Emergency) {
		return Result{
			NewState:  t.state.Idle(),
			ReplyType: ReplyEmergency,
			Action: &ActionDescriptor{
				Type:   ActionCallEmergency,
				Params: map[string]any{"number": EmergencyNumber},
			},
		}
	}

	if t.state.Phase == conversation.PhaseIdle && t.notInTown() &&
		!t.set.Has(intent.ParkingInfo) && t.set.Any(cityBound...) {
		return t.askArrival()
	}

	if t.set.Has(intent.ParkingInfo) {
		return t.parkingInfo()
	}

	if t.state.Phase.IsOffer() {
		if r, ok := t.offer(); ok {
			return r
		}
	}

	if (t.state.Phase.IsParking() || t.state.Phase == conversation.PhaseArrivalPlanning) && t.abandons() {
		t.state = t.state.Idle()
		return t.nonParking()
	}

	if r, ok := t.parking(); ok {
		return r
	}
	return t.nonParking()
}

// finish applies the frontend-reported mobility and normalizes the state.
func (t *turn) finish(r Result) Result {
	if t.ctx.Mobility != "" {
		r.NewState.Mobility = t.ctx.Mobility
	}
	r.NewState = r.NewState.Normalize()
	return r
}

func (t *turn) askArrival() Result {
	pending := ""
	for _, i := range t.in.Intents {
		if isCityBound(i) {
			pending = string(i)
			break
		}
	}
	return Result{
		NewState: conversation.State{
			Phase:    conversation.PhaseArrivalPlanning,
			Arrival:  &conversation.ArrivalData{PendingTopic: pending},
			Mobility: t.state.Mobility,
		},
		ReplyType: ReplyAskArrivalTime,
	}
}

func isCityBound(i intent.Intent) bool {
	for _, c := range cityBound {
		if c == i {
			return true
		}
	}
	return false
}

func (t *turn) parkingInfo() Result {
	if t.state.Phase != conversation.PhaseIdle {
		return Result{NewState: t.state, ReplyType: ReplyContinueCurrentFlow}
	}
	s := t.ctx.Situation
	switch {
	case t.notInTown():
		return Result{
			NewState: conversation.State{
				Phase:    conversation.PhaseArrivalPlanning,
				Arrival:  &conversation.ArrivalData{PendingTopic: string(intent.ParkingInfo)},
				Mobility: t.state.Mobility,
			},
			ReplyType: ReplyParkingInfoNotInCity,
		}
	case s.WifeInCity:
		return t.offerState(conversation.PhaseParkingOfferWife, "wife", ReplyParkingOfferWife)
	case s.KnownStatus() == situation.InCity:
		return t.offerState(conversation.PhaseParkingOfferUser, "user", ReplyParkingOfferUser)
	}
	return Result{NewState: t.state, ReplyType: ReplyParkingInfo}
}

func (t *turn) offerState(phase conversation.Phase, target string, reply ReplyType) Result {
	return Result{
		NewState: conversation.State{
			Phase:    phase,
			Parking:  &conversation.ParkingData{LicensePlate: t.ents.LicensePlate, OfferTarget: target},
			Mobility: t.state.Mobility,
		},
		ReplyType: reply,
	}
}

// offer handles a pending yes/no. ok is false when the visitor switched to
// another city topic, which the abandonment rule then handles.
func (t *turn) offer() (Result, bool) {
	q := t.in.Query
	data := *t.state.Parking
	if t.ents.LicensePlate != "" {
		data.LicensePlate = t.ents.LicensePlate
	}

	switch {
	case declines(offerNoRe, q):
		return Result{NewState: t.state.Idle(), ReplyType: ReplyParkingOfferDeclined}, true
	case matches(offerYesRe, q):
		if data.LicensePlate != "" {
			return t.parkingStep(conversation.PhaseParkingCollectDuration, data, ReplyAskDuration), true
		}
		return t.parkingStep(conversation.PhaseParkingCollectPlate, data, ReplyAskPlate), true
	case t.abandons():
		return Result{}, false
	}

	reply := ReplyParkingOfferUser
	if t.state.Phase == conversation.PhaseParkingOfferWife {
		reply = ReplyParkingOfferWife
	}
	return Result{NewState: t.state, ReplyType: reply}, true
}

func (t *turn) abandons() bool {
	if !t.set.Any(cityTopics...) {
		return false
	}
	// A message that fills the slot being asked for stays in the flow.
	switch t.state.Phase {
	case conversation.PhaseParkingCollectPlate:
		if t.ents.LicensePlate != "" {
			return false
		}
	case conversation.PhaseParkingCollectDuration:
		if t.ents.Duration > 0 {
			return false
		}
	}
	// Repeating the topic that started arrival planning is not a change of subject.
	if t.state.Phase == conversation.PhaseArrivalPlanning && t.state.Arrival != nil {
		for _, i := range cityTopics {
			if t.set.Has(i) && string(i) != t.state.Arrival.PendingTopic {
				return true
			}
		}
		return false
	}
	return true
}

func (t *turn) parkingStep(phase conversation.Phase, data conversation.ParkingData, reply ReplyType) Result {
	return Result{
		NewState:  conversation.State{Phase: phase, Parking: &data, Mobility: t.state.Mobility},
		ReplyType: reply,
	}
}

// parking runs the core parking flow. ok is false when the message is not
// about parking and the visitor is idle.
func (t *turn) parking() (Result, bool) {
	q := t.in.Query
	plate, dur := t.ents.LicensePlate, t.ents.Duration

	var data conversation.ParkingData
	if t.state.Parking != nil {
		data = *t.state.Parking
	}
	if plate != "" {
		data.LicensePlate = plate
	}
	if dur > 0 {
		data.Duration = dur
	}

	switch t.state.Phase {
	case conversation.PhaseIdle:
		if !t.canPark() {
			return Result{}, false
		}
		bare := plate != "" && !t.set.Any(cityTopics...)
		if !t.set.Has(intent.Parking) && !bare {
			return Result{}, false
		}
		return t.nextSlot(data), true

	case conversation.PhaseParkingCollectPlate, conversation.PhaseParkingCollectDuration:
		if matches(cancelRe, q) {
			return Result{NewState: t.state.Idle(), ReplyType: ReplyParkingCancelled}, true
		}
		return t.nextSlot(data), true

	case conversation.PhaseParkingConfirm:
		switch {
		case declines(confirmNoRe, q):
			return Result{NewState: t.state.Idle(), ReplyType: ReplyParkingCancelled}, true
		case matches(confirmYesRe, q):
			return t.parkingStep(conversation.PhaseParkingSaveConsent, data, ReplyAskSaveConsent), true
		}
		return t.parkingStep(conversation.PhaseParkingConfirm, data, ReplyConfirmParking), true

	case conversation.PhaseParkingSaveConsent:
		params := map[string]any{"licensePlate": data.LicensePlate, "duration": data.Duration}
		switch {
		case declines(consentNoRe, q):
			return Result{
				NewState:  t.state.Idle(),
				ReplyType: ReplyParkingSuccess,
				Action:    &ActionDescriptor{Type: ActionStartParkingOnly, Params: params},
			}, true
		case matches(consentYesRe, q):
			return Result{
				NewState:  t.state.Idle(),
				ReplyType: ReplyParkingSuccess,
				Action:    &ActionDescriptor{Type: ActionSaveAndStartParking, Params: params},
			}, true
		}
		return t.parkingStep(conversation.PhaseParkingSaveConsent, data, ReplyAskSaveConsent), true
	}
	return Result{}, false
}

// nextSlot asks for whichever of plate and duration is still missing.
// A slot that is still missing re-prompts the same question.
func (t *turn) nextSlot(data conversation.ParkingData) Result {
	switch {
	case data.LicensePlate == "":
		return t.parkingStep(conversation.PhaseParkingCollectPlate, data, ReplyAskPlate)
	case data.Duration <= 0:
		return t.parkingStep(conversation.PhaseParkingCollectDuration, data, ReplyAskDuration)
	}
	return t.parkingStep(conversation.PhaseParkingConfirm, data, ReplyConfirmParking)
}

func (t *turn) nonParking() Result {
	idle := t.state.Idle()

	if t.state.Phase == conversation.PhaseArrivalPlanning {
		a := *t.state.Arrival
		if a.Time == "" {
			a.Time = strings.TrimSpace(t.in.Query)
			return Result{
				NewState: conversation.State{
					Phase:    conversation.PhaseArrivalPlanning,
					Arrival:  &a,
					Mobility: t.state.Mobility,
				},
				ReplyType: ReplyArrivalTimeReceived,
			}
		}
		return Result{NewState: idle, ReplyType: ReplyArrivalTimeAcknowledged}
	}

	if t.notInTown() && t.set.Any(cityBound...) {
		return t.askArrival()
	}

	if t.ctx.IsRaining() && t.set.Any(intent.Food, intent.Attractions, intent.Tours) {
		return Result{NewState: idle, ReplyType: ReplyRainyDay}
	}
	if t.ents.WithKids && t.set.Any(intent.Attractions, intent.Families) {
		return Result{NewState: idle, ReplyType: ReplyFamilies}
	}

	switch {
	case t.set.Has(intent.Tours):
		return Result{NewState: idle, ReplyType: ReplyTours}
	case t.set.Has(intent.Shopping):
		return Result{NewState: idle, ReplyType: ReplyShopping}
	case t.set.Has(intent.Practical):
		return Result{NewState: idle, ReplyType: ReplyPractical}
	case t.set.Has(intent.Families):
		return Result{NewState: idle, ReplyType: ReplyFamilies}
	case t.set.Has(intent.Accessibility):
		return Result{NewState: idle, ReplyType: ReplyAccessibility}
	case t.set.Has(intent.Food) && t.set.Has(intent.Attractions):
		return Result{NewState: idle, ReplyType: ReplyItinerary}
	case t.set.Has(intent.Food):
		return Result{NewState: idle, ReplyType: ReplyFoodSearch}
	case t.set.Has(intent.Attractions):
		return Result{NewState: idle, ReplyType: ReplyAttractions}
	case t.set.Has(intent.Events):
		return Result{NewState: idle, ReplyType: ReplyEvents}
	case t.set.Has(intent.Hotels):
		return Result{NewState: idle, ReplyType: ReplyHotels}
	case t.set.Has(intent.Navigation):
		return t.navigation(idle)
	case t.set.Has(intent.Smalltalk):
		return Result{NewState: idle, ReplyType: ReplyGreeting}
	}

	r := Result{NewState: idle, ReplyType: ReplyNormal}
	if q := strings.TrimSpace(t.in.Query); q != "" && questionRe.MatchString(strings.ToLower(q)) {
		r.Action = &ActionDescriptor{Type: ActionGoogleSearch, Params: map[string]any{"query": q}}
	}
	return r
}

func (t *turn) navigation(idle conversation.State) Result {
	p := t.ents.Place
	if p == nil {
		return Result{NewState: idle, ReplyType: ReplyAskDest}
	}
	return Result{
		NewState:  idle,
		ReplyType: ReplyOfferNav,
		Action: &ActionDescriptor{
			Type: ActionOpenNavigation,
			Params: map[string]any{
				"placeId": p.ID,
				"name":    p.Name,
				"lat":     p.Location.Lat,
				"lng":     p.Location.Lng,
			},
		},
	}
}
