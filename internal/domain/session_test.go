package domain

import (
	"testing"
	"time"
)

func testRecipe(steps int) Recipe {
	r := Recipe{
		Title: "Test Recipe",
		Ingredients: map[string][]string{
			"main": {"2 cups flour", "3 eggs"},
		},
		KitchenTools: []string{"mixing bowl"},
	}
	for i := 1; i <= steps; i++ {
		r.Steps = append(r.Steps, Step{StepNumber: i, Instruction: "do the thing"})
	}
	return r
}

func newTestSession(t *testing.T, steps int) *Session {
	t.Helper()
	s, err := NewSession(testRecipe(steps), time.Now())
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

func TestNewSessionEmptyRecipe(t *testing.T) {
	_, err := NewSession(Recipe{Title: "empty"}, time.Now())
	if err != ErrEmptyRecipe {
		t.Fatalf("expected ErrEmptyRecipe, got %v", err)
	}
}

func TestStepInvariantHolds(t *testing.T) {
	s := newTestSession(t, 5)

	// Arbitrary mix of navigation calls, including out-of-range jumps.
	moves := []func(){
		func() { s.Advance() },
		func() { s.Jump(99) },
		func() { s.Retreat() },
		func() { s.Retreat() },
		func() { s.Jump(0) },
		func() { s.Jump(-3) },
		func() { s.Advance() },
		func() { s.Advance() },
		func() { s.Jump(5) },
		func() { s.Advance() },
	}
	for i, move := range moves {
		move()
		if s.CurrentStep < 1 || s.CurrentStep > s.TotalSteps() {
			t.Fatalf("after move %d: current step %d out of [1,%d]", i, s.CurrentStep, s.TotalSteps())
		}
	}
}

func TestAdvanceAtLastStep(t *testing.T) {
	s := newTestSession(t, 3)
	s.Jump(3)

	if s.Advance() {
		t.Fatal("advance at last step should return false")
	}
	if s.CurrentStep != 3 {
		t.Fatalf("current step changed to %d", s.CurrentStep)
	}
}

func TestRetreatAtFirstStep(t *testing.T) {
	s := newTestSession(t, 3)

	if s.Retreat() {
		t.Fatal("retreat at step 1 should return false")
	}
	if s.CurrentStep != 1 {
		t.Fatalf("current step changed to %d", s.CurrentStep)
	}
}

func TestJumpOutOfRangeIsNoOp(t *testing.T) {
	s := newTestSession(t, 4)
	s.Jump(2)

	for _, n := range []int{0, -1, 5, 100} {
		s.Jump(n)
		if s.CurrentStep != 2 {
			t.Fatalf("jump(%d): current step moved to %d", n, s.CurrentStep)
		}
	}

	s.Jump(4)
	if s.CurrentStep != 4 {
		t.Fatalf("valid jump ignored, current step = %d", s.CurrentStep)
	}
}

func TestPauseResume(t *testing.T) {
	s := newTestSession(t, 3)
	s.Jump(2)

	s.Pause()
	if !s.Paused {
		t.Fatal("expected paused")
	}

	instruction := s.Resume()
	if s.Paused {
		t.Fatal("expected resumed")
	}
	if instruction != "do the thing" {
		t.Fatalf("resume should surface the current instruction, got %q", instruction)
	}
}

func TestTimerRemainingMonotone(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	timer, err := NewTimer("pasta", 60, start)
	if err != nil {
		t.Fatalf("new timer: %v", err)
	}

	prev := timer.Remaining(start)
	for _, offset := range []time.Duration{10 * time.Second, 30 * time.Second, 59 * time.Second, 61 * time.Second, 5 * time.Minute} {
		remaining := timer.Remaining(start.Add(offset))
		if remaining > prev {
			t.Fatalf("remaining increased: %d -> %d at +%s", prev, remaining, offset)
		}
		if remaining < 0 {
			t.Fatalf("remaining went negative at +%s", offset)
		}
		prev = remaining
	}
}

func TestTimerInvalidDuration(t *testing.T) {
	for _, seconds := range []int{0, -5} {
		if _, err := NewTimer("bad", seconds, time.Now()); err != ErrInvalidDuration {
			t.Fatalf("seconds=%d: expected ErrInvalidDuration, got %v", seconds, err)
		}
	}
}

func TestSweepFlipsOnce(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s, err := NewSession(testRecipe(2), start)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	short, err := s.AddTimer("eggs", 30, start)
	if err != nil {
		t.Fatalf("add timer: %v", err)
	}
	if _, err := s.AddTimer("roast", 3600, start); err != nil {
		t.Fatalf("add timer: %v", err)
	}

	// Before expiry nothing completes.
	if completed := s.Sweep(start.Add(10 * time.Second)); len(completed) != 0 {
		t.Fatalf("expected no completions, got %d", len(completed))
	}

	// The short timer expires.
	completed := s.Sweep(start.Add(45 * time.Second))
	if len(completed) != 1 || completed[0].ID != short.ID {
		t.Fatalf("expected only %s completed, got %v", short.ID, completed)
	}
	if short.Status != TimerCompleted {
		t.Fatalf("expected completed status, got %s", short.Status)
	}
	if short.Remaining(start.Add(45*time.Second)) != 0 {
		t.Fatal("completed timer should report 0 remaining")
	}

	// A repeat sweep never reports the same timer again.
	if completed := s.Sweep(start.Add(90 * time.Second)); len(completed) != 0 {
		t.Fatalf("repeat sweep reported %d timers", len(completed))
	}
}

func TestActiveTimersCreationOrder(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s, err := NewSession(testRecipe(2), start)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	first, _ := s.AddTimer("first", 600, start)
	second, _ := s.AddTimer("second", 600, start.Add(time.Second))
	third, _ := s.AddTimer("third", 600, start.Add(2*time.Second))

	active := s.ActiveTimers(start.Add(5 * time.Second))
	if len(active) != 3 {
		t.Fatalf("expected 3 active timers, got %d", len(active))
	}
	want := []string{first.ID, second.ID, third.ID}
	for i, timer := range active {
		if timer.ID != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], timer.ID)
		}
	}
}

func TestSnapshotReflectsState(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s, err := NewSession(testRecipe(3), start)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	s.Advance()
	s.Pause()
	s.AddTimer("sauce", 120, start)

	snap := s.Snapshot(start.Add(30 * time.Second))
	if snap.CurrentStep != 2 || snap.TotalSteps != 3 {
		t.Fatalf("position %d/%d", snap.CurrentStep, snap.TotalSteps)
	}
	if !snap.IsPaused {
		t.Fatal("expected paused snapshot")
	}
	if snap.CurrentStepData == nil || snap.CurrentStepData.StepNumber != 2 {
		t.Fatalf("unexpected current step data: %+v", snap.CurrentStepData)
	}
	if len(snap.ActiveTimers) != 1 || snap.ActiveTimers[0].SecondsRemaining != 90 {
		t.Fatalf("unexpected active timers: %+v", snap.ActiveTimers)
	}
}
