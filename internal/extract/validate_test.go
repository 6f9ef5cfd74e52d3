package extract

import "testing"

func TestDecodeRecipeLooseGate(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"no title", `{
			"ingredients": {"main": ["1 egg"]},
			"kitchen_tools_and_dishes": ["pan"],
			"steps": [{"step_number": 1, "instruction": "Fry the egg."}]
		}`},
		{"string step number", `{
			"title": "Egg",
			"ingredients": {"main": ["1 egg"]},
			"kitchen_tools_and_dishes": ["pan"],
			"steps": [{"step_number": "1", "instruction": "Fry the egg."}]
		}`},
		{"empty instruction", `{
			"title": "Egg",
			"ingredients": {"main": ["1 egg"]},
			"kitchen_tools_and_dishes": ["pan"],
			"steps": [{"step_number": 1, "instruction": ""}]
		}`},
		{"extra keys", `{
			"title": "Egg",
			"ingredients": {"main": ["1 egg"]},
			"kitchen_tools_and_dishes": ["pan"],
			"steps": [{"step_number": 1, "instruction": "Fry the egg.", "tip": "low heat"}],
			"difficulty": "easy"
		}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decodeRecipe(tt.in); err != nil {
				t.Errorf("decodeRecipe rejected acceptable document: %v", err)
			}
		})
	}
}

func TestDecodeRecipeStringStepNumber(t *testing.T) {
	recipe, err := decodeRecipe(`{
		"ingredients": {"main": ["1 egg"]},
		"kitchen_tools_and_dishes": ["pan"],
		"steps": [{"step_number": "2", "instruction": "Fry the egg."}]
	}`)
	if err != nil {
		t.Fatalf("decodeRecipe: %v", err)
	}
	if recipe.Steps[0].StepNumber != 2 {
		t.Errorf("step number = %d, want 2", recipe.Steps[0].StepNumber)
	}
}

func TestDecodeRecipeRejects(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"not json", `once upon a time`},
		{"ingredients not object", `{
			"ingredients": ["1 egg"],
			"kitchen_tools_and_dishes": ["pan"],
			"steps": [{"step_number": 1, "instruction": "Fry."}]
		}`},
		{"tools not array", `{
			"ingredients": {"main": ["1 egg"]},
			"kitchen_tools_and_dishes": "pan",
			"steps": [{"step_number": 1, "instruction": "Fry."}]
		}`},
		{"empty steps", `{
			"ingredients": {"main": ["1 egg"]},
			"kitchen_tools_and_dishes": ["pan"],
			"steps": []
		}`},
		{"step missing instruction", `{
			"ingredients": {"main": ["1 egg"]},
			"kitchen_tools_and_dishes": ["pan"],
			"steps": [{"step_number": 1}]
		}`},
		{"step missing number", `{
			"ingredients": {"main": ["1 egg"]},
			"kitchen_tools_and_dishes": ["pan"],
			"steps": [{"instruction": "Fry."}]
		}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decodeRecipe(tt.in); err == nil {
				t.Error("decodeRecipe accepted an invalid document")
			}
		})
	}
}
