package extract

import "testing"

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"whitespace", "  {\"a\": 1}  ", `{"a": 1}`},
		{"unclosed fence", "```json\n{\"a\": 1}", `{"a": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripCodeFence(tt.in); got != tt.want {
				t.Errorf("StripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCarveJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"leading prose", `Here is the recipe: {"a": 1}`, `{"a": 1}`},
		{"trailing prose", `{"a": 1} hope that helps!`, `{"a": 1}`},
		{"nested", `x {"a": {"b": [1, 2]}} y`, `{"a": {"b": [1, 2]}}`},
		{"brace in string", `{"a": "closing } brace"} tail`, `{"a": "closing } brace"}`},
		{"escaped quote", `{"a": "say \"hi\""} tail`, `{"a": "say \"hi\""}`},
		{"array", `result: [1, 2, 3] done`, `[1, 2, 3]`},
		{"no json", `nothing here`, `nothing here`},
		{"unbalanced", `{"a": 1`, `{"a": 1`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CarveJSON(tt.in); got != tt.want {
				t.Errorf("CarveJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
