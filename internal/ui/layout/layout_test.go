package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestStreakLabel(t *testing.T) {
	tests := []struct {
		days   int
		active bool
		want   string
	}{
		{0, false, "🔥 no streak yet"},
		{1, false, "🔥 1 day"},
		{1, true, "🔥 1 day ✓"},
		{12, false, "🔥 12 days"},
	}
	for _, tt := range tests {
		if got := streakLabel(tt.days, tt.active); got != tt.want {
			t.Errorf("streakLabel(%d, %v) = %q, want %q", tt.days, tt.active, got, tt.want)
		}
	}
}

func TestRenderHeader(t *testing.T) {
	out := RenderHeader(Header{Title: "Practice", Stars: 42, Streak: 3}, 100)
	for _, want := range []string{"Mathdrill", "Practice", "★ 42", "3 days"} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q", want)
		}
	}
}

func TestRenderFrame_FillsHeight(t *testing.T) {
	header := RenderHeader(Header{Title: "Home"}, 80)
	footer := RenderFooter([]KeyHint{{Key: "Esc", Description: "Back"}}, 80)
	frame := RenderFrame(header, "body", footer, 80, 30)
	if h := lipgloss.Height(frame); h != 30 {
		t.Errorf("frame height = %d, want 30", h)
	}
	if ContentHeight(header, footer, 4) != 0 {
		t.Error("content height must not go negative")
	}
}

func TestIsTooSmall(t *testing.T) {
	if !IsTooSmall(MinWidth-1, MinHeight) || !IsTooSmall(MinWidth, MinHeight-1) {
		t.Error("below minimum should be too small")
	}
	if IsTooSmall(MinWidth, MinHeight) {
		t.Error("minimum size should fit")
	}
}
