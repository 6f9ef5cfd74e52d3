package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hammamikhairi/souschef/internal/domain"
)

const validRecipeJSON = `{
  "title": "Pancakes",
  "ingredients": {"main": ["2 cups flour", "1 cup milk"]},
  "kitchen_tools_and_dishes": ["bowl", "whisk"],
  "steps": [
    {"step_number": 1, "instruction": "Mix flour and milk.", "estimated_time": "5 minutes"},
    {"step_number": 2, "instruction": "Fry until golden."}
  ],
  "total_time": "20 minutes",
  "servings": "4"
}`

// scriptedChat replays canned replies in order and records every call.
type scriptedChat struct {
	replies []string
	err     error
	models  []string

	calls []domain.ChatOptions
	asked [][]domain.ChatMessage
}

func (s *scriptedChat) Chat(_ context.Context, msgs []domain.ChatMessage, opts domain.ChatOptions) (string, error) {
	s.calls = append(s.calls, opts)
	s.asked = append(s.asked, msgs)
	if s.err != nil {
		return "", s.err
	}
	if len(s.replies) == 0 {
		return "", errors.New("script exhausted")
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return reply, nil
}

func (s *scriptedChat) ListModels(context.Context) ([]string, error) {
	if s.models == nil {
		return nil, errors.New("no backend")
	}
	return s.models, nil
}

func TestExtractFirstTry(t *testing.T) {
	chat := &scriptedChat{replies: []string{validRecipeJSON}}
	ex := New(chat, zerolog.Nop())

	recipe, err := ex.Extract(context.Background(), "mix flour and milk, fry", "gemma3:1b")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if recipe.Title != "Pancakes" {
		t.Errorf("title = %q, want Pancakes", recipe.Title)
	}
	if got := recipe.TotalSteps(); got != 2 {
		t.Errorf("steps = %d, want 2", got)
	}
	if len(chat.calls) != 1 {
		t.Fatalf("chat calls = %d, want 1", len(chat.calls))
	}
	if chat.calls[0].Temperature != extractionTemperature {
		t.Errorf("temperature = %v, want %v", chat.calls[0].Temperature, extractionTemperature)
	}
}

func TestExtractFencedOutput(t *testing.T) {
	chat := &scriptedChat{replies: []string{"```json\n" + validRecipeJSON + "\n```"}}
	ex := New(chat, zerolog.Nop())

	recipe, err := ex.Extract(context.Background(), "transcript", "gemma3:1b")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if recipe.Title != "Pancakes" {
		t.Errorf("title = %q, want Pancakes", recipe.Title)
	}
}

func TestExtractRepairsMalformedJSON(t *testing.T) {
	malformed := strings.TrimSuffix(validRecipeJSON, "}") // drop closing brace
	chat := &scriptedChat{replies: []string{malformed, validRecipeJSON}}
	ex := New(chat, zerolog.Nop())

	recipe, err := ex.Extract(context.Background(), "transcript", "gemma3:1b")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if recipe.Title != "Pancakes" {
		t.Errorf("title = %q, want Pancakes", recipe.Title)
	}
	if len(chat.calls) != 2 {
		t.Fatalf("chat calls = %d, want 2 (extraction then repair)", len(chat.calls))
	}
	if chat.calls[1].Temperature != repairTemperature {
		t.Errorf("repair temperature = %v, want %v", chat.calls[1].Temperature, repairTemperature)
	}
	if chat.asked[1][0].Content != jsonFixSystemPrompt {
		t.Error("second call did not use the repair prompt")
	}
}

func TestExtractRepairsInvalidStructure(t *testing.T) {
	// Valid JSON but not a valid recipe: the repair pass still runs.
	chat := &scriptedChat{replies: []string{`{"title": "Soup"}`, validRecipeJSON}}
	ex := New(chat, zerolog.Nop())

	recipe, err := ex.Extract(context.Background(), "transcript", "gemma3:1b")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if recipe.Title != "Pancakes" {
		t.Errorf("title = %q, want Pancakes", recipe.Title)
	}
}

func TestExtractExhaustsBudget(t *testing.T) {
	chat := &scriptedChat{replies: []string{
		"not json", "still not json",
		"not json", "still not json",
		"not json", "still not json",
		"spare", "spare",
	}}
	ex := New(chat, zerolog.Nop())

	recipe, err := ex.Extract(context.Background(), "transcript", "gemma3:1b")
	if recipe != nil {
		t.Fatal("expected no recipe")
	}
	if !errors.Is(err, domain.ErrExtractionFailed) {
		t.Fatalf("err = %v, want ErrExtractionFailed", err)
	}
	// 3 extraction rounds, each with one repair pass.
	if len(chat.calls) != 6 {
		t.Errorf("chat calls = %d, want 6", len(chat.calls))
	}
}

func TestExtractBackendDown(t *testing.T) {
	chat := &scriptedChat{err: fmt.Errorf("%w: connect refused", domain.ErrUpstream)}
	ex := New(chat, zerolog.Nop())

	_, err := ex.Extract(context.Background(), "transcript", "gemma3:1b")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
	if errors.Is(err, domain.ErrExtractionFailed) {
		t.Fatalf("err = %v, a backend outage is not an extraction failure", err)
	}
}

func TestExtractRepairBackendDown(t *testing.T) {
	// The backend did answer, with garbage, and then went away during
	// repair: that is an extraction failure, not an outage.
	chat := &scriptedChat{replies: []string{"not json"}}
	ex := New(chat, zerolog.Nop())

	_, err := ex.Extract(context.Background(), "transcript", "gemma3:1b")
	if !errors.Is(err, domain.ErrExtractionFailed) {
		t.Fatalf("err = %v, want ErrExtractionFailed", err)
	}
}

func TestExtractResolvesInstalledModel(t *testing.T) {
	chat := &scriptedChat{
		replies: []string{validRecipeJSON},
		models:  []string{"gemma3:1b", "phi4:latest"},
	}
	ex := New(chat, zerolog.Nop())

	if _, err := ex.Extract(context.Background(), "transcript", "phi4"); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got := chat.calls[0].Model; got != "phi4:latest" {
		t.Errorf("model = %q, want phi4:latest", got)
	}
}
