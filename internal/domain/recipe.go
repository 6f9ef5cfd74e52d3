// Package domain defines the core types and interfaces for the cooking
// assistant. All other packages depend on domain; domain depends on
// almost nothing.
package domain

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Recipe is a structured recipe document as produced by the extraction
// pipeline. It is read-only for the lifetime of a session. The JSON field
// names are the wire format the extraction prompt demands.
type Recipe struct {
	Title        string              `json:"title"`
	Ingredients  map[string][]string `json:"ingredients"`
	KitchenTools []string            `json:"kitchen_tools_and_dishes"`
	Steps        []Step              `json:"steps"`
	TotalTime    string              `json:"total_time,omitempty"`
	Servings     string              `json:"servings,omitempty"`
}

// Step is a single numbered instruction. StepNumber is 1-based and
// contiguous with the step's position in the list.
type Step struct {
	StepNumber    int    `json:"step_number"`
	Instruction   string `json:"instruction"`
	EstimatedTime string `json:"estimated_time,omitempty"`
}

// UnmarshalJSON accepts step_number as either a JSON number or a
// numeric string. Language-model output gets the type wrong often
// enough that rejecting it would send otherwise usable recipes back
// through the repair loop.
func (s *Step) UnmarshalJSON(data []byte) error {
	var raw struct {
		StepNumber    any    `json:"step_number"`
		Instruction   string `json:"instruction"`
		EstimatedTime string `json:"estimated_time"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Instruction = raw.Instruction
	s.EstimatedTime = raw.EstimatedTime
	switch v := raw.StepNumber.(type) {
	case float64:
		s.StepNumber = int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			s.StepNumber = n
		}
	}
	return nil
}

// TotalSteps returns the number of steps in the recipe.
func (r *Recipe) TotalSteps() int {
	return len(r.Steps)
}

// SavedRecipe is a row in the append-only recipe catalog. The catalog is
// independent of active sessions.
type SavedRecipe struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Recipe      Recipe    `json:"recipe"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
