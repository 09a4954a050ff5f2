// README: Conversation state machine data (phase + phase-scoped data) and chat history messages.
package conversation

import (
	"encoding/json"
	"errors"
)

var ErrNotFound = errors.New("conversation state not found")

// Phase is a node of the conversation state machine.
type Phase string

const (
	PhaseIdle                   Phase = "idle"
	PhaseArrivalPlanning        Phase = "arrival_planning"
	PhaseParkingOfferWife       Phase = "parking_offer_wife"
	PhaseParkingOfferUser       Phase = "parking_offer_user"
	PhaseParkingCollectPlate    Phase = "parking_collect_plate"
	PhaseParkingCollectDuration Phase = "parking_collect_duration"
	PhaseParkingConfirm         Phase = "parking_confirm"
	PhaseParkingSaveConsent     Phase = "parking_save_consent"
)

var phases = map[Phase]struct{}{
	PhaseIdle: {}, PhaseArrivalPlanning: {}, PhaseParkingOfferWife: {}, PhaseParkingOfferUser: {},
	PhaseParkingCollectPlate: {}, PhaseParkingCollectDuration: {}, PhaseParkingConfirm: {}, PhaseParkingSaveConsent: {},
}

func (p Phase) Valid() bool {
	_, ok := phases[p]
	return ok
}

// IsParking reports whether p belongs to the parking flow, offers included.
func (p Phase) IsParking() bool {
	switch p {
	case PhaseParkingOfferWife, PhaseParkingOfferUser, PhaseParkingCollectPlate,
		PhaseParkingCollectDuration, PhaseParkingConfirm, PhaseParkingSaveConsent:
		return true
	}
	return false
}

// IsOffer reports whether p is waiting for a yes/no on a parking offer.
func (p Phase) IsOffer() bool {
	return p == PhaseParkingOfferWife || p == PhaseParkingOfferUser
}

// Mobility values; empty means unknown.
const (
	MobilityWalking = "walking"
	MobilityBike    = "bike"
	MobilityCar     = "car"
)

// ParkingData is only meaningful in parking phases.
type ParkingData struct {
	LicensePlate string
	Duration     int
	// OfferTarget is "wife" or "user" when the flow started from an offer.
	OfferTarget string
}

// ArrivalData is only meaningful in arrival_planning.
type ArrivalData struct {
	Time         string
	PendingTopic string
}

// State is the persisted conversation state. At most one of Parking and
// Arrival is set, matching Phase; Normalize enforces that.
type State struct {
	Phase    Phase
	Parking  *ParkingData
	Arrival  *ArrivalData
	Mobility string
}

// NewState returns the initial state.
func NewState() State {
	return State{Phase: PhaseIdle}
}

// Normalize returns a copy whose data matches its phase. Unknown phases
// collapse to idle, and idle carries no data.
func (s State) Normalize() State {
	out := State{Phase: s.Phase, Mobility: normalizeMobility(s.Mobility)}
	if !out.Phase.Valid() {
		out.Phase = PhaseIdle
	}
	switch {
	case out.Phase.IsParking():
		if s.Parking != nil {
			p := *s.Parking
			if p.Duration < 0 {
				p.Duration = 0
			}
			out.Parking = &p
		} else {
			out.Parking = &ParkingData{}
		}
	case out.Phase == PhaseArrivalPlanning:
		if s.Arrival != nil {
			a := *s.Arrival
			out.Arrival = &a
		} else {
			out.Arrival = &ArrivalData{}
		}
	}
	return out
}

func normalizeMobility(m string) string {
	switch m {
	case MobilityWalking, MobilityBike, MobilityCar:
		return m
	}
	return ""
}

// Idle returns the reset state, keeping mobility.
func (s State) Idle() State {
	return State{Phase: PhaseIdle, Mobility: s.Mobility}
}

// tempData is the flat wire shape of the phase data.
type tempData struct {
	LicensePlate string `json:"licensePlate,omitempty"`
	Duration     int    `json:"duration,omitempty"`
	OfferTarget  string `json:"offerTarget,omitempty"`
	ArrivalTime  string `json:"arrivalTime,omitempty"`
	PendingTopic string `json:"pendingTopic,omitempty"`
}

type wireState struct {
	Phase    Phase    `json:"phase"`
	TempData tempData `json:"tempData"`
	Mobility *string  `json:"mobility"`
}

// MarshalJSON emits {phase, tempData, mobility}; tempData is {} when idle.
func (s State) MarshalJSON() ([]byte, error) {
	n := s.Normalize()
	w := wireState{Phase: n.Phase}
	if n.Parking != nil {
		w.TempData.LicensePlate = n.Parking.LicensePlate
		w.TempData.Duration = n.Parking.Duration
		w.TempData.OfferTarget = n.Parking.OfferTarget
	}
	if n.Arrival != nil {
		w.TempData.ArrivalTime = n.Arrival.Time
		w.TempData.PendingTopic = n.Arrival.PendingTopic
	}
	if n.Mobility != "" {
		m := n.Mobility
		w.Mobility = &m
	}
	return json.Marshal(w)
}

// UnmarshalJSON accepts client-supplied state, so anything unexpected is
// normalized rather than rejected.
func (s *State) UnmarshalJSON(data []byte) error {
	var w wireState
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	st := State{Phase: w.Phase}
	if w.Mobility != nil {
		st.Mobility = *w.Mobility
	}
	st.Parking = &ParkingData{
		LicensePlate: w.TempData.LicensePlate,
		Duration:     w.TempData.Duration,
		OfferTarget:  w.TempData.OfferTarget,
	}
	st.Arrival = &ArrivalData{Time: w.TempData.ArrivalTime, PendingTopic: w.TempData.PendingTopic}
	*s = st.Normalize()
	return nil
}

// Message is one chat history entry.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
