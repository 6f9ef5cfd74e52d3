package domain

import (
	"sort"
	"time"
)

// Session is one user's in-progress walk through a recipe. It owns its
// recipe by value and its timers exclusively. The step position is
// 1-based and always stays within [1, TotalSteps]; mutators are guarded
// no-ops at the boundaries rather than errors.
//
// A Session is not safe for concurrent use; callers serialize access per
// session (the engine holds a per-session lock).
type Session struct {
	ID          string            `json:"session_id"`
	Recipe      Recipe            `json:"recipe"`
	CurrentStep int               `json:"current_step"`
	Paused      bool              `json:"is_paused"`
	Timers      map[string]*Timer `json:"timers"`
	CreatedAt   time.Time         `json:"created_at"`
	Notes       []string          `json:"notes"`
}

// NewSession creates a session positioned at step 1.
func NewSession(recipe Recipe, now time.Time) (*Session, error) {
	if len(recipe.Steps) == 0 {
		return nil, ErrEmptyRecipe
	}
	return &Session{
		ID:          newID("session"),
		Recipe:      recipe,
		CurrentStep: 1,
		Timers:      make(map[string]*Timer),
		CreatedAt:   now,
	}, nil
}

// TotalSteps returns the number of steps in the owned recipe.
func (s *Session) TotalSteps() int {
	return len(s.Recipe.Steps)
}

// CurrentStepData returns the step at the current position. The second
// return is false only if the position is somehow out of bounds, which
// the mutator guards make unreachable.
func (s *Session) CurrentStepData() (Step, bool) {
	if s.CurrentStep < 1 || s.CurrentStep > len(s.Recipe.Steps) {
		return Step{}, false
	}
	return s.Recipe.Steps[s.CurrentStep-1], true
}

// Advance moves to the next step. Returns false at the last step.
func (s *Session) Advance() bool {
	if s.CurrentStep < s.TotalSteps() {
		s.CurrentStep++
		return true
	}
	return false
}

// Retreat moves to the previous step. Returns false at step 1.
func (s *Session) Retreat() bool {
	if s.CurrentStep > 1 {
		s.CurrentStep--
		return true
	}
	return false
}

// Jump sets the current step. Out-of-range targets are silently ignored.
func (s *Session) Jump(n int) {
	if n >= 1 && n <= s.TotalSteps() {
		s.CurrentStep = n
	}
}

// Pause marks the session paused.
func (s *Session) Pause() {
	s.Paused = true
}

// Resume clears the pause flag and returns the current step's
// instruction so the caller can read it back to the user.
func (s *Session) Resume() string {
	s.Paused = false
	if step, ok := s.CurrentStepData(); ok {
		return step.Instruction
	}
	return "Ready to continue"
}

// AddTimer creates a running timer and attaches it to the session.
func (s *Session) AddTimer(label string, seconds int, now time.Time) (*Timer, error) {
	t, err := NewTimer(label, seconds, now)
	if err != nil {
		return nil, err
	}
	s.Timers[t.ID] = t
	return t, nil
}

// Sweep flips every expired running timer to completed and returns the
// set flipped by this call. Each timer transitions at most once; repeat
// sweeps after completion return nothing for that timer. This is the
// only place completion is observed.
func (s *Session) Sweep(now time.Time) []*Timer {
	var completed []*Timer
	for _, t := range s.Timers {
		if t.Expired(now) {
			t.Status = TimerCompleted
			completed = append(completed, t)
		}
	}
	sortTimers(completed)
	return completed
}

// ActiveTimers returns running timers with time left, in creation order.
func (s *Session) ActiveTimers(now time.Time) []*Timer {
	var active []*Timer
	for _, t := range s.Timers {
		if t.Status == TimerRunning && t.Remaining(now) > 0 {
			active = append(active, t)
		}
	}
	sortTimers(active)
	return active
}

// AllTimers returns every timer owned by the session, in creation order.
func (s *Session) AllTimers() []*Timer {
	timers := make([]*Timer, 0, len(s.Timers))
	for _, t := range s.Timers {
		timers = append(timers, t)
	}
	sortTimers(timers)
	return timers
}

// sortTimers orders timers by ID. UUIDv7 identifiers sort by creation time.
func sortTimers(timers []*Timer) {
	sort.Slice(timers, func(i, j int) bool { return timers[i].ID < timers[j].ID })
}

// SessionSnapshot is the full externally visible session state.
type SessionSnapshot struct {
	SessionID       string          `json:"session_id"`
	Recipe          Recipe          `json:"recipe"`
	CurrentStep     int             `json:"current_step"`
	TotalSteps      int             `json:"total_steps"`
	CurrentStepData *Step           `json:"current_step_data"`
	Timers          []TimerSnapshot `json:"timers"`
	ActiveTimers    []TimerSnapshot `json:"active_timers"`
	CreatedAt       time.Time       `json:"created_at"`
	Notes           []string        `json:"notes"`
	IsPaused        bool            `json:"is_paused"`
}

// Snapshot materializes the session state at the given instant.
func (s *Session) Snapshot(now time.Time) SessionSnapshot {
	snap := SessionSnapshot{
		SessionID:    s.ID,
		Recipe:       s.Recipe,
		CurrentStep:  s.CurrentStep,
		TotalSteps:   s.TotalSteps(),
		Timers:       make([]TimerSnapshot, 0, len(s.Timers)),
		ActiveTimers: []TimerSnapshot{},
		CreatedAt:    s.CreatedAt,
		Notes:        s.Notes,
		IsPaused:     s.Paused,
	}
	if step, ok := s.CurrentStepData(); ok {
		snap.CurrentStepData = &step
	}
	for _, t := range s.AllTimers() {
		snap.Timers = append(snap.Timers, t.Snapshot(now))
	}
	for _, t := range s.ActiveTimers(now) {
		snap.ActiveTimers = append(snap.ActiveTimers, t.Snapshot(now))
	}
	return snap
}
