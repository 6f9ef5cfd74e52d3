package engine

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hammamikhairi/souschef/internal/domain"
)

const assistantSystemPrompt = `You are a hands-free cooking assistant guiding someone through a recipe while they cook.

RULES:
1. Answer briefly and clearly. The user is cooking and cannot read long text
2. Ground every answer in the recipe context provided. Do not invent ingredients or steps
3. If the question is about the current step, answer about the current step
4. If the question cannot be answered from the recipe, say so and give general cooking guidance
5. Never tell the user to look at a screen`

// buildAssistantMessages assembles the context window for a forwarded
// question: the full recipe, where the cook currently is, any running
// timers, and the question itself.
func buildAssistantMessages(s *domain.Session, query string, now time.Time) []domain.ChatMessage {
	var ctx strings.Builder

	if recipeJSON, err := json.MarshalIndent(s.Recipe, "", "  "); err == nil {
		ctx.WriteString("RECIPE:\n")
		ctx.Write(recipeJSON)
		ctx.WriteString("\n\n")
	}

	if step, ok := s.CurrentStepData(); ok {
		fmt.Fprintf(&ctx, "CURRENT STEP: %d of %d: %s\n", s.CurrentStep, s.TotalSteps(), step.Instruction)
	}
	if s.Paused {
		ctx.WriteString("The session is paused.\n")
	}

	if active := s.ActiveTimers(now); len(active) > 0 {
		ctx.WriteString("RUNNING TIMERS:\n")
		for _, t := range active {
			fmt.Fprintf(&ctx, "- %s: %ds remaining\n", t.Label, t.Remaining(now))
		}
	}

	fmt.Fprintf(&ctx, "\nQUESTION: %s", query)

	return []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: assistantSystemPrompt},
		{Role: domain.RoleUser, Content: ctx.String()},
	}
}
