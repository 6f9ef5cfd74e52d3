package extract

import (
	"encoding/json"
	"fmt"

	"github.com/hammamikhairi/souschef/internal/domain"
)

// decodeRecipe parses raw model output into a Recipe, validating the
// structure loosely before committing to the typed form. The gate is
// deliberately permissive about extra keys and string contents; it
// only insists on the shape a session cannot run without.
func decodeRecipe(raw string) (*domain.Recipe, error) {
	text := CarveJSON(StripCodeFence(raw))

	var loose map[string]any
	if err := json.Unmarshal([]byte(text), &loose); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := validateShape(loose); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	var recipe domain.Recipe
	if err := json.Unmarshal([]byte(text), &recipe); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if len(recipe.Steps) == 0 {
		return nil, fmt.Errorf("validate: recipe has no steps")
	}
	return &recipe, nil
}

// validateShape checks the containers and required keys and nothing
// more: presence, not type-correctness, of the per-step fields. Kept
// loose on purpose so imperfect but usable model output survives.
func validateShape(m map[string]any) error {
	if _, ok := m["ingredients"].(map[string]any); !ok {
		return fmt.Errorf("ingredients must be an object of categories")
	}
	if _, ok := m["kitchen_tools_and_dishes"].([]any); !ok {
		return fmt.Errorf("kitchen_tools_and_dishes must be an array")
	}
	steps, ok := m["steps"].([]any)
	if !ok || len(steps) == 0 {
		return fmt.Errorf("steps must be a non-empty array")
	}
	for i, raw := range steps {
		step, ok := raw.(map[string]any)
		if !ok {
			return fmt.Errorf("step %d is not an object", i+1)
		}
		if _, ok := step["step_number"]; !ok {
			return fmt.Errorf("step %d missing step_number", i+1)
		}
		if _, ok := step["instruction"]; !ok {
			return fmt.Errorf("step %d missing instruction", i+1)
		}
	}
	return nil
}
