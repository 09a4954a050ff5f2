package service

import (
	"time"

	"townguide/internal/modules/conversation"
	"townguide/internal/modules/profile"
	"townguide/internal/router"
	"townguide/internal/situation"
	"townguide/internal/types"
	"townguide/internal/weather"
)

// ContextInput is the frontend-supplied part of a turn.
type ContextInput struct {
	Location  *types.Point     `json:"location,omitempty"`
	Speed     float64          `json:"speed"`
	Weather   *weather.Weather `json:"weather,omitempty"`
	Mode      string           `json:"mode,omitempty"`
	SessionID string           `json:"sessionId,omitempty"`
	Mobility  string           `json:"mobility,omitempty"`
	// SessionState is the guest's state echoed back from the previous turn.
	SessionState *conversation.State `json:"sessionState,omitempty"`
}

// Assembler builds the per-request router context.
type Assembler struct {
	analyzer *situation.Analyzer
	tz       *time.Location
	now      func() time.Time
}

func NewAssembler(analyzer *situation.Analyzer, tz *time.Location) *Assembler {
	if tz == nil {
		tz = time.UTC
	}
	return &Assembler{analyzer: analyzer, tz: tz, now: time.Now}
}

// Build is pure apart from reading the clock. history should already end
// with the current message.
func (a *Assembler) Build(in ContextInput, sessionID string, uid types.ID, history []conversation.Message,
	w *weather.Weather, p *profile.Profile) *router.Context {
	now := a.now().In(a.tz)
	h := now.Hour()

	ctx := &router.Context{
		Location:  in.Location,
		Speed:     in.Speed,
		Mobility:  in.Mobility,
		Weather:   w,
		Now:       now.Format(time.RFC3339),
		Hour:      h,
		IsMorning: h >= 5 && h < 11,
		IsEvening: h >= 18 && h < 22,
		IsNight:   h >= 22 || h < 5,
		SessionID: sessionID,
		UserID:    uid.String(),
		IsGuest:   uid.IsZero(),
		Profile:   p,

		SuppressWalking: in.Speed > router.SuppressWalkingSpeed,
	}
	ctx.Situation = a.analyzer.Analyze(situation.Input{Location: in.Location, Speed: in.Speed}, history)
	return ctx
}
