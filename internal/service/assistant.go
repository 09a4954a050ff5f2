// README: Turn pipeline. Lookups, extraction, routing, action, facts, text, persistence, behind one failure boundary.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"townguide/internal/action"
	"townguide/internal/ai"
	"townguide/internal/catalog"
	"townguide/internal/entity"
	"townguide/internal/intent"
	"townguide/internal/logger"
	"townguide/internal/maps"
	"townguide/internal/metrics"
	"townguide/internal/modules/aiusage"
	"townguide/internal/modules/conversation"
	"townguide/internal/modules/pricing"
	"townguide/internal/modules/profile"
	"townguide/internal/ranking"
	"townguide/internal/router"
	"townguide/internal/types"
	"townguide/internal/weather"
)

// StateStore is satisfied by *conversation.Service.
type StateStore interface {
	Load(ctx context.Context, uid types.ID) (*conversation.State, error)
	Save(ctx context.Context, uid types.ID, st conversation.State) error
}

// ProfileStore is satisfied by *profile.Service.
type ProfileStore interface {
	Get(ctx context.Context, uid types.ID) (*profile.Profile, error)
}

// WeatherSource is satisfied by *weather.Client.
type WeatherSource interface {
	Current(ctx context.Context, p types.Point) (*weather.Weather, error)
	ForecastAt(ctx context.Context, p types.Point, at time.Time) (*weather.HourlyForecast, error)
}

// RouteEstimator is satisfied by *maps.RouteService.
type RouteEstimator interface {
	TravelEstimate(ctx context.Context, origin, destination types.Point, drive bool) (maps.Estimate, error)
}

// Quota is satisfied by *aiusage.Service.
type Quota interface {
	UseToken(ctx context.Context, uid types.ID) error
}

// FeeEstimator is satisfied by *pricing.Service.
type FeeEstimator interface {
	Estimate(ctx context.Context, zone string, hours int) (pricing.Quote, error)
}

// Town identifies the served town.
type Town struct {
	Name   string
	Center types.Point
}

// Deps are the Assistant's collaborators. Every external one may be nil,
// in which case it is treated as permanently unavailable.
type Deps struct {
	Town      Town
	Timezone  *time.Location
	Catalog   *catalog.Catalog
	Extractor *entity.Extractor
	Assembler *Assembler
	Executor  *action.Executor
	Formatter ai.TextFormatter

	States   StateStore
	Profiles ProfileStore
	Weather  WeatherSource
	Routes   RouteEstimator
	Quota    Quota
	Fees     FeeEstimator

	Logger logger.Logger
}

// TurnRequest is one visitor message. UserID is empty for guests and must
// come from a verified token, never from the request body.
type TurnRequest struct {
	Query   string                 `json:"query"`
	History []conversation.Message `json:"history"`
	Context ContextInput           `json:"context"`
	UserID  types.ID               `json:"-"`
}

// TurnResponse is what the frontend renders. NewState must be echoed back
// as context.sessionState by guests.
type TurnResponse struct {
	Text      string                 `json:"text"`
	Action    *action.FrontendAction `json:"action"`
	NewState  conversation.State     `json:"newState"`
	Upsell    *ranking.Ranked        `json:"upsell,omitempty"`
	Places    []ranking.Ranked       `json:"places,omitempty"`
	ReplyType router.ReplyType       `json:"replyType"`
	SessionID string                 `json:"sessionId"`
}

type Assistant struct {
	town      Town
	tz        *time.Location
	catalog   *catalog.Catalog
	extractor *entity.Extractor
	assembler *Assembler
	executor  *action.Executor
	formatter ai.TextFormatter

	states   StateStore
	profiles ProfileStore
	weather  WeatherSource
	routes   RouteEstimator
	quota    Quota
	fees     FeeEstimator

	log logger.Logger
	now func() time.Time
}

func NewAssistant(d Deps) *Assistant {
	if d.Logger == nil {
		d.Logger = logger.NewNoOpLogger()
	}
	if d.Timezone == nil {
		d.Timezone = time.UTC
	}
	if d.Catalog == nil {
		d.Catalog = catalog.New(nil, nil, nil, nil, nil)
	}
	if d.Extractor == nil {
		d.Extractor = entity.NewExtractor(nil, d.Catalog)
	}
	if d.Executor == nil {
		d.Executor = action.NewExecutor(nil, nil, nil, d.Town.Center, d.Logger)
	}
	if d.Formatter == nil {
		d.Formatter = ai.NewFormatter(nil, 0, d.Logger)
	}
	return &Assistant{
		town:      d.Town,
		tz:        d.Timezone,
		catalog:   d.Catalog,
		extractor: d.Extractor,
		assembler: d.Assembler,
		executor:  d.Executor,
		formatter: d.Formatter,
		states:    d.States,
		profiles:  d.Profiles,
		weather:   d.Weather,
		routes:    d.Routes,
		quota:     d.Quota,
		fees:      d.Fees,
		log:       d.Logger,
		now:       time.Now,
	}
}

// HandleTurn never returns an error. Any fault inside the pipeline yields
// the fixed apology, no action, the caller's prior state, and nothing is
// persisted.
func (a *Assistant) HandleTurn(ctx context.Context, req TurnRequest) (resp *TurnResponse) {
	start := time.Now()
	defer func() {
		metrics.TurnDuration.Observe(time.Since(start).Seconds())
	}()

	defer func() {
		if r := recover(); r != nil {
			resp = a.fail(req, fmt.Errorf("panic: %v", r))
		}
	}()

	out, err := a.handle(ctx, req)
	if err != nil {
		return a.fail(req, err)
	}
	return out
}

func (a *Assistant) fail(req TurnRequest, err error) *TurnResponse {
	metrics.TurnFailures.Inc()
	a.log.Error("turn failed", map[string]interface{}{
		"user_id":    req.UserID.String(),
		"session_id": req.Context.SessionID,
		"error":      err,
	})
	prior := conversation.NewState()
	if req.Context.SessionState != nil {
		prior = req.Context.SessionState.Normalize()
	}
	return &TurnResponse{
		Text:      TechnicalErrorText,
		NewState:  prior,
		ReplyType: router.ReplyNormal,
		SessionID: req.Context.SessionID,
	}
}

type lookups struct {
	state   *conversation.State
	profile *profile.Profile
	weather *weather.Weather

	// stateFailed means the stored state is unknown, not absent.
	stateFailed bool
}

// lookup runs the read-only collaborator calls concurrently. Failures are
// logged and leave the value nil.
func (a *Assistant) lookup(ctx context.Context, uid types.ID, in ContextInput) lookups {
	var out lookups
	g, gctx := errgroup.WithContext(ctx)

	if !uid.IsZero() && a.states != nil {
		g.Go(func() error {
			st, err := a.states.Load(gctx, uid)
			if err != nil {
				a.degraded("state", err)
				out.stateFailed = true
				return nil
			}
			out.state = st
			return nil
		})
	}
	if !uid.IsZero() && a.profiles != nil {
		g.Go(func() error {
			p, err := a.profiles.Get(gctx, uid)
			if err != nil {
				a.degraded("profile", err)
				return nil
			}
			out.profile = p
			return nil
		})
	}
	if in.Weather != nil {
		w := *in.Weather
		out.weather = &w
	} else if a.weather != nil {
		at := a.town.Center
		if in.Location != nil {
			at = *in.Location
		}
		g.Go(func() error {
			w, err := a.weather.Current(gctx, at)
			if err != nil {
				a.degraded("weather", err)
				return nil
			}
			out.weather = w
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (a *Assistant) degraded(collaborator string, err error) {
	metrics.CollaboratorFallbacks.WithLabelValues(collaborator).Inc()
	a.log.Warn("collaborator unavailable, treating as absent", map[string]interface{}{
		"collaborator": collaborator,
		"error":        err,
	})
}

func (a *Assistant) handle(ctx context.Context, req TurnRequest) (*TurnResponse, error) {
	if a.assembler == nil {
		return nil, errors.New("assistant: no context assembler")
	}
	uid := req.UserID
	guest := uid.IsZero()
	sessionID := req.Context.SessionID
	if sessionID == "" {
		sessionID = types.NewID().String()
	}

	found := a.lookup(ctx, uid, req.Context)

	prior := conversation.NewState()
	switch {
	case guest && req.Context.SessionState != nil:
		prior = *req.Context.SessionState
	case !guest && found.state != nil:
		prior = *found.state
	}
	prior = prior.Normalize()

	ents := a.extractor.Extract(req.Query)
	intents := intent.Resolve(intent.Classify(req.Query))

	history := append(append([]conversation.Message(nil), req.History...),
		conversation.Message{Role: conversation.RoleUser, Content: req.Query})
	rctx := a.assembler.Build(req.Context, sessionID, uid, history, found.weather, found.profile)

	res := router.Route(router.Input{
		Query:    req.Query,
		Intents:  intents,
		Entities: ents,
		State:    prior,
		Context:  rctx,
	})

	act := a.executor.Execute(ctx, res.Action, uid)
	var actParams map[string]any
	if act != nil {
		actParams = act.Params
	}

	facts := a.collectFacts(ctx, factInput{
		reply:   res.ReplyType,
		ctx:     rctx,
		ents:    ents,
		intents: intents,
		prior:   prior,
		next:    res.NewState,
		action:  actParams,
	})
	text := a.text(ctx, uid, req.Query, res.ReplyType, facts)

	// A failed load must not let this turn's fresh state replace a stored flow.
	if !guest && a.states != nil && !found.stateFailed {
		if err := a.states.Save(ctx, uid, res.NewState); err != nil {
			a.log.Warn("failed to save conversation state", map[string]interface{}{
				"user_id": uid.String(),
				"error":   err,
			})
		}
	}

	resp := &TurnResponse{
		Text:      text,
		Action:    act,
		NewState:  res.NewState,
		ReplyType: res.ReplyType,
		SessionID: sessionID,
	}
	if res.ReplyType.IsRecommendation() && len(facts.Places) > 0 {
		resp.Places = facts.Places
		if top := facts.Places[0]; top.Sponsored || top.Tier == catalog.TierGold {
			resp.Upsell = &top
		}
	}

	metrics.TurnsTotal.WithLabelValues(string(res.ReplyType)).Inc()
	a.log.Info("turn handled", map[string]interface{}{
		"session_id": sessionID,
		"guest":      guest,
		"intents":    intents,
		"phase":      string(res.NewState.Phase),
		"reply_type": string(res.ReplyType),
		"status":     string(rctx.Situation.KnownStatus()),
	})
	return resp, nil
}

// text asks the generator unless the reply is fixed or the visitor's
// monthly allowance is used up.
func (a *Assistant) text(ctx context.Context, uid types.ID, query string, reply router.ReplyType, f Facts) string {
	fallback := fallbackText(reply, f)
	if staticReplies[reply] {
		return fallback
	}
	if !uid.IsZero() && a.quota != nil {
		if err := a.quota.UseToken(ctx, uid); err != nil {
			if errors.Is(err, aiusage.ErrInsufficientTokens) {
				a.log.Info("text allowance used up", map[string]interface{}{"user_id": uid.String()})
				return fallback
			}
			a.degraded("quota", err)
		}
	}
	return a.formatter.Format(ctx, buildPrompt(reply, query, f), fallback)
}
