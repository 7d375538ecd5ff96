package internal

import "testing"

func TestDetectTone(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"technical", "debug the api function that queries the database", "technical"},
		{"academic", "the research methodology and empirical findings of this study", "academic"},
		{"business", "align the project timeline with stakeholder objectives before the deadline", "business"},
		{"casual", "hey thanks, that's awesome stuff", "casual"},
		{"creative", "write a story with a vivid character and an eerie setting", "creative"},
		{"no signal", "the quick brown fox jumps over it", "professional"},
		{"empty", "", "professional"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectTone(tt.text); got != tt.want {
				t.Errorf("DetectTone(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestDetectToneTechnicalWeightBreaksTies(t *testing.T) {
	// "client" is in both vocabularies; the technical weight wins the tie.
	if got := DetectTone("the client"); got != "technical" {
		t.Errorf("DetectTone = %q, want technical on weighted tie", got)
	}
}

func TestDetectToneCaseInsensitive(t *testing.T) {
	if got := DetectTone("DEBUG THE API"); got != "technical" {
		t.Errorf("DetectTone = %q, want technical regardless of case", got)
	}
}
