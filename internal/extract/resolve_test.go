package extract

import "testing"

func TestResolveModel(t *testing.T) {
	installed := []string{"gemma3:1b", "phi4:latest", "llama3.2:3b"}

	tests := []struct {
		name      string
		preferred string
		available []string
		fallbacks []string
		want      string
	}{
		{"exact match", "gemma3:1b", installed, nil, "gemma3:1b"},
		{"prefix match", "phi4", installed, nil, "phi4:latest"},
		{"fallback exact", "mistral", installed, []string{"gemma3:1b"}, "gemma3:1b"},
		{"fallback prefix", "mistral", installed, []string{"llama3.2"}, "llama3.2:3b"},
		{"first installed", "mistral", installed, []string{"qwen"}, "gemma3:1b"},
		{"nothing installed", "mistral", nil, []string{"qwen"}, "mistral"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveModel(tt.preferred, tt.available, tt.fallbacks)
			if got != tt.want {
				t.Errorf("ResolveModel(%q) = %q, want %q", tt.preferred, got, tt.want)
			}
		})
	}
}
