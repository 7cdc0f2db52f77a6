package components

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestProgressBar_Fraction(t *testing.T) {
	tests := []struct {
		done, total int
		want        float64
	}{
		{0, 10, 0},
		{3, 10, 0.3},
		{12, 10, 1},
		{-1, 10, 0},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := NewProgressBar(tt.done, tt.total, 20).Fraction(); got != tt.want {
			t.Errorf("Fraction(%d/%d) = %v, want %v", tt.done, tt.total, got, tt.want)
		}
	}
}

func TestProgressBar_ViewWidth(t *testing.T) {
	bar := NewProgressBar(3, 10, 30)
	if w := lipgloss.Width(bar.View()); w != 30 {
		t.Errorf("width = %d, want 30", w)
	}

	view := bar.WithCounter().View()
	if w := lipgloss.Width(view); w != 30 {
		t.Errorf("width with counter = %d, want 30", w)
	}
	if !strings.Contains(view, "3/10") {
		t.Error("counter missing")
	}
}

func TestStars(t *testing.T) {
	for n := 0; n <= MaxStars; n++ {
		if got := strings.Count(Stars(n), "★"); got != n {
			t.Errorf("Stars(%d) has %d filled stars", n, got)
		}
	}
}
