package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hammamikhairi/souschef/internal/conversation"
	"github.com/hammamikhairi/souschef/internal/domain"
)

const (
	pausedMessage = "Session paused. Say 'resume' or 'continue' when you're ready."

	assistantTemperature = 0.7
	assistantMaxTokens   = 500
)

// Engine runs cooking sessions: it applies navigation commands
// locally, sweeps timers on every touch, and forwards open questions
// to the language backend with the session as context.
type Engine struct {
	store  domain.SessionStore
	chat   domain.ChatClient
	interp *conversation.Interpreter
	log    zerolog.Logger
	now    func() time.Time
	model  string
	locks  *sessionLocks
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source. Tests use this to make timer
// expiry deterministic.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithModel sets the model used for forwarded questions.
func WithModel(model string) Option {
	return func(e *Engine) { e.model = model }
}

func New(store domain.SessionStore, chat domain.ChatClient, interp *conversation.Interpreter, log zerolog.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		chat:   chat,
		interp: interp,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
		locks:  newSessionLocks(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// QueryResult is what every session-touching operation returns: the
// spoken response plus enough state for the caller to render position
// and timers without a second round trip.
type QueryResult struct {
	Response     string                 `json:"response"`
	CurrentStep  int                    `json:"current_step"`
	TotalSteps   int                    `json:"total_steps"`
	IsPaused     bool                   `json:"is_paused"`
	ActiveTimers []domain.TimerSnapshot `json:"active_timers"`
}

// StartSession creates a session from a recipe and persists it.
func (e *Engine) StartSession(ctx context.Context, recipe domain.Recipe) (*domain.SessionSnapshot, error) {
	now := e.now()
	s, err := domain.NewSession(recipe, now)
	if err != nil {
		return nil, err
	}
	if err := e.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save new session: %w", err)
	}
	e.log.Info().Str("session_id", s.ID).Str("recipe", recipe.Title).Int("steps", s.TotalSteps()).Msg("session started")
	snap := s.Snapshot(now)
	return &snap, nil
}

// Query interprets one utterance against a session. Navigation and
// control commands resolve locally; anything else goes to the language
// backend. Completed timers discovered on this touch are announced as
// a prefix on the response.
func (e *Engine) Query(ctx context.Context, sessionID, query string) (*QueryResult, error) {
	unlock := e.locks.lock(sessionID)
	defer unlock()

	s, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	now := e.now()
	alert := alertPrefix(s.Sweep(now))

	cmd := e.interp.Classify(query)
	e.log.Debug().Str("session_id", sessionID).Stringer("command", cmd.Type).Str("query", query).Msg("query classified")

	var response string
	forward := false

	switch cmd.Type {
	case domain.CommandPause:
		s.Pause()
		response = pausedMessage
	case domain.CommandResume:
		response = fmt.Sprintf("Resuming. Step %d: %s", s.CurrentStep, s.Resume())
	case domain.CommandNext:
		if s.Advance() {
			response = stepReadback(s)
		} else {
			response = "You're on the last step already."
		}
	case domain.CommandPrevious:
		if s.Retreat() {
			response = stepReadback(s)
		} else {
			response = "You're on the first step already."
		}
	case domain.CommandRepeat:
		response = stepReadback(s)
	case domain.CommandGoto:
		s.Jump(cmd.TargetStep)
		response = stepReadback(s)
	case domain.CommandListSteps:
		response = listSteps(s, cmd)
	case domain.CommandExplain:
		forward = true
		if step, ok := s.CurrentStepData(); ok {
			query = fmt.Sprintf("Explain step %d in detail: %s", s.CurrentStep, step.Instruction)
		}
	default:
		forward = true
	}

	// State changes, including swept timers, land before any backend
	// call so a slow or failed forward never loses them.
	if err := e.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	if forward {
		reply, err := e.chat.Chat(ctx, buildAssistantMessages(s, query, now), domain.ChatOptions{
			Model:       e.model,
			Temperature: assistantTemperature,
			MaxTokens:   assistantMaxTokens,
		})
		if err != nil {
			return nil, err
		}
		response = reply
	}

	return e.result(s, alert+response, now), nil
}

// Navigate applies an explicit step action without going through the
// interpreter. Actions are "next", "previous" and "repeat".
func (e *Engine) Navigate(ctx context.Context, sessionID, action string) (*QueryResult, error) {
	unlock := e.locks.lock(sessionID)
	defer unlock()

	s, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	now := e.now()
	alert := alertPrefix(s.Sweep(now))

	var response string
	switch action {
	case "next":
		if s.Advance() {
			response = "Moved to next step. " + stepReadback(s)
		} else {
			response = "Already at last step. " + stepReadback(s)
		}
	case "previous":
		if s.Retreat() {
			response = "Moved to previous step. " + stepReadback(s)
		} else {
			response = "Already at first step. " + stepReadback(s)
		}
	case "repeat":
		response = "Repeating current step. " + stepReadback(s)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAction, action)
	}

	if err := e.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return e.result(s, alert+response, now), nil
}

// AddTimer parses a spoken duration and attaches a running timer.
func (e *Engine) AddTimer(ctx context.Context, sessionID, label, durationText string) (*QueryResult, error) {
	unlock := e.locks.lock(sessionID)
	defer unlock()

	s, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	now := e.now()
	alert := alertPrefix(s.Sweep(now))

	seconds, err := domain.ParseDuration(durationText)
	if err != nil {
		return nil, err
	}
	t, err := s.AddTimer(label, seconds, now)
	if err != nil {
		return nil, err
	}

	if err := e.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	e.log.Info().Str("session_id", sessionID).Str("timer_id", t.ID).Int("seconds", seconds).Msg("timer set")

	response := fmt.Sprintf("Timer set: %s for %s.", t.Label, durationText)
	return e.result(s, alert+response, now), nil
}

// State sweeps timers and returns the full session snapshot.
func (e *Engine) State(ctx context.Context, sessionID string) (*domain.SessionSnapshot, error) {
	unlock := e.locks.lock(sessionID)
	defer unlock()

	s, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	now := e.now()
	if completed := s.Sweep(now); len(completed) > 0 {
		if err := e.store.Save(ctx, s); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
	}
	snap := s.Snapshot(now)
	return &snap, nil
}

// ListSessions returns every stored session ID, newest first.
func (e *Engine) ListSessions(ctx context.Context) ([]string, error) {
	return e.store.List(ctx)
}

func (e *Engine) result(s *domain.Session, response string, now time.Time) *QueryResult {
	active := s.ActiveTimers(now)
	snaps := make([]domain.TimerSnapshot, 0, len(active))
	for _, t := range active {
		snaps = append(snaps, t.Snapshot(now))
	}
	return &QueryResult{
		Response:     response,
		CurrentStep:  s.CurrentStep,
		TotalSteps:   s.TotalSteps(),
		IsPaused:     s.Paused,
		ActiveTimers: snaps,
	}
}

func stepReadback(s *domain.Session) string {
	step, ok := s.CurrentStepData()
	if !ok {
		return "No step to read."
	}
	return fmt.Sprintf("Step %d of %d: %s", s.CurrentStep, s.TotalSteps(), step.Instruction)
}

// listSteps answers "list the first/last N steps" without moving the
// current position.
func listSteps(s *domain.Session, cmd domain.Command) string {
	total := s.TotalSteps()
	n := cmd.Count
	if n > total {
		n = total
	}
	if n < 1 {
		return "No steps to list."
	}

	start := 1
	if !cmd.FromStart {
		start = total - n + 1
	}
	lines := make([]string, 0, n)
	for i := start; i < start+n; i++ {
		lines = append(lines, fmt.Sprintf("Step %d: %s", i, s.Recipe.Steps[i-1].Instruction))
	}
	return strings.Join(lines, " ")
}

// alertPrefix announces timers that just completed.
func alertPrefix(completed []*domain.Timer) string {
	if len(completed) == 0 {
		return ""
	}
	parts := make([]string, 0, len(completed))
	for _, t := range completed {
		parts = append(parts, t.Label+" is done")
	}
	return "Alert: " + strings.Join(parts, ", ") + ". "
}
