package conversation

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/hammamikhairi/souschef/internal/domain"
)

func TestClassify(t *testing.T) {
	interp := New(zerolog.Nop())

	tests := []struct {
		input    string
		wantType domain.CommandType
	}{
		// Pause variants
		{"pause", domain.CommandPause},
		{"please stop for a second", domain.CommandPause},
		{"hold on", domain.CommandPause},

		// Resume variants
		{"resume", domain.CommandResume},
		{"continue", domain.CommandResume},
		{"start", domain.CommandResume},

		// Navigation
		{"next", domain.CommandNext},
		{"what's the next step", domain.CommandNext},
		{"previous step", domain.CommandPrevious},
		{"go back", domain.CommandPrevious},
		{"repeat", domain.CommandRepeat},
		{"say that again", domain.CommandRepeat},

		// Explain
		{"explain this step", domain.CommandExplain},
		{"tell me more", domain.CommandExplain},
		{"more info please", domain.CommandExplain},

		// Forwarded
		{"how much salt do I need?", domain.CommandForward},
		{"can I substitute butter?", domain.CommandForward},
		{"", domain.CommandForward},
		// "start" must match as a whole word only.
		{"the dough started rising", domain.CommandForward},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd := interp.Classify(tt.input)
			if cmd.Type != tt.wantType {
				t.Errorf("Classify(%q) = %s, want %s", tt.input, cmd.Type, tt.wantType)
			}
		})
	}
}

func TestClassifyPriority(t *testing.T) {
	interp := New(zerolog.Nop())

	// An utterance matching both pause and next classifies as pause.
	if cmd := interp.Classify("pause before the next step"); cmd.Type != domain.CommandPause {
		t.Fatalf("expected pause to win, got %s", cmd.Type)
	}

	// Resume outranks next.
	if cmd := interp.Classify("continue to the next step"); cmd.Type != domain.CommandResume {
		t.Fatalf("expected resume to win, got %s", cmd.Type)
	}

	// List outranks explain only when explain is absent earlier; explain
	// is the lowest-priority match.
	if cmd := interp.Classify("list the first 3 steps"); cmd.Type != domain.CommandListSteps {
		t.Fatalf("expected list, got %s", cmd.Type)
	}
}

func TestClassifyGoto(t *testing.T) {
	interp := New(zerolog.Nop())

	tests := []struct {
		input      string
		wantTarget int
	}{
		{"go to step 4", 4},
		{"jump to step 12", 12},
		{"show me step 1", 1},
		{"goto step 7", 7},
		{"GO TO STEP 3", 3},
	}

	for _, tt := range tests {
		cmd := interp.Classify(tt.input)
		if cmd.Type != domain.CommandGoto {
			t.Fatalf("Classify(%q) = %s, want goto", tt.input, cmd.Type)
		}
		if cmd.TargetStep != tt.wantTarget {
			t.Errorf("Classify(%q) target = %d, want %d", tt.input, cmd.TargetStep, tt.wantTarget)
		}
	}

	// Without "step N" the phrase is not a jump.
	if cmd := interp.Classify("show me the recipe"); cmd.Type != domain.CommandForward {
		t.Fatalf("expected forward, got %s", cmd.Type)
	}
}

func TestClassifyListSteps(t *testing.T) {
	interp := New(zerolog.Nop())

	tests := []struct {
		input     string
		fromStart bool
		count     int
	}{
		{"list the first 3 steps", true, 3},
		{"list last 2 steps", false, 2},
		{"list the last 1 step", false, 1},
		{"List First 10 Steps", true, 10},
	}

	for _, tt := range tests {
		cmd := interp.Classify(tt.input)
		if cmd.Type != domain.CommandListSteps {
			t.Fatalf("Classify(%q) = %s, want list_steps", tt.input, cmd.Type)
		}
		if cmd.FromStart != tt.fromStart || cmd.Count != tt.count {
			t.Errorf("Classify(%q) = fromStart=%v count=%d, want fromStart=%v count=%d",
				tt.input, cmd.FromStart, cmd.Count, tt.fromStart, tt.count)
		}
	}
}
