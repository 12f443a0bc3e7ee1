package runtime

import "testing"

func TestSuggest(t *testing.T) {
	candidates := []string{"hp", "hpMax", "speed", "target", "abs", "clamp"}

	tests := []struct {
		name string
		want string
	}{
		{"hpp", "hp"},
		{"spd", "speed"},
		{"trget", "target"},
		{"Speed", "speed"},
		{"clmp", "clamp"},
		{"velocity", ""},
		{"hp", "hpMax"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Suggest(tt.name, candidates); got != tt.want {
				t.Errorf("Suggest(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestDidYouMean(t *testing.T) {
	if got, want := DidYouMean("hpp", []string{"hp"}), ` (did you mean "hp"?)`; got != want {
		t.Errorf("DidYouMean() = %q, want %q", got, want)
	}
	if got := DidYouMean("zzz", []string{"hp"}); got != "" {
		t.Errorf("DidYouMean() = %q, want empty", got)
	}
}
