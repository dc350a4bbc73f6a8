package ui

import "testing"

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 0},
		{"single word", "hi", 1},
		{"sentence", "the quick brown fox jumps over the lazy dog", 11},
		{"punctuation ignored", "well, well, well...", 3},
		{"numbers count as words", "2 plus 2 equals 4", 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateTokens(tt.input); got != tt.want {
				t.Errorf("EstimateTokens(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestLabel(t *testing.T) {
	if got := Label("openai"); got != "OpenAI GPT" {
		t.Errorf("Label(openai) = %q, want OpenAI GPT", got)
	}
	if got := Label("somebody-else"); got != "somebody-else" {
		t.Errorf("Label() = %q, want unknown providers passed through", got)
	}
}
