package domain

import "time"

// TimerStatus is the lifecycle state of a countdown timer. There is no
// paused state: timers run from creation until they expire.
type TimerStatus string

const (
	TimerRunning   TimerStatus = "running"
	TimerCompleted TimerStatus = "completed"
)

// Timer is a labeled countdown owned by exactly one session. Remaining
// time is derived from the creation instant, never stored.
type Timer struct {
	ID           string      `json:"id"`
	Label        string      `json:"label"`
	SecondsTotal int         `json:"seconds_total"`
	StartedAt    time.Time   `json:"started_at"`
	Status       TimerStatus `json:"status"`
}

// NewTimer creates a running timer. seconds must be positive.
func NewTimer(label string, seconds int, now time.Time) (*Timer, error) {
	if seconds <= 0 {
		return nil, ErrInvalidDuration
	}
	return &Timer{
		ID:           newID("timer"),
		Label:        label,
		SecondsTotal: seconds,
		StartedAt:    now,
		Status:       TimerRunning,
	}, nil
}

// Remaining returns the seconds left at the given instant. Completed
// timers always report zero; a running timer never reports negative.
func (t *Timer) Remaining(now time.Time) int {
	if t.Status != TimerRunning {
		return 0
	}
	elapsed := int(now.Sub(t.StartedAt).Seconds())
	remaining := t.SecondsTotal - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Expired reports whether a running timer has counted down to zero.
func (t *Timer) Expired(now time.Time) bool {
	return t.Status == TimerRunning && t.Remaining(now) == 0
}

// TimerSnapshot is the externally visible view of a timer, with the
// derived remaining seconds materialized.
type TimerSnapshot struct {
	ID               string      `json:"id"`
	Label            string      `json:"label"`
	SecondsTotal     int         `json:"seconds_total"`
	SecondsRemaining int         `json:"seconds_remaining"`
	Status           TimerStatus `json:"status"`
	StartedAt        time.Time   `json:"started_at"`
}

// Snapshot materializes the timer state at the given instant.
func (t *Timer) Snapshot(now time.Time) TimerSnapshot {
	return TimerSnapshot{
		ID:               t.ID,
		Label:            t.Label,
		SecondsTotal:     t.SecondsTotal,
		SecondsRemaining: t.Remaining(now),
		Status:           t.Status,
		StartedAt:        t.StartedAt,
	}
}
