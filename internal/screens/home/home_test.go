package home

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathdrill/internal/screen"
)

type pickedMsg string

func testActions() Actions {
	return Actions{
		Practice:     func() tea.Cmd { return func() tea.Msg { return pickedMsg("practice") } },
		Achievements: func() tea.Cmd { return func() tea.Msg { return pickedMsg("achievements") } },
		History:      func() tea.Cmd { return func() tea.Msg { return pickedMsg("history") } },
	}
}

func TestHomeScreen_MenuActions(t *testing.T) {
	tests := []struct {
		name  string
		downs int
		want  pickedMsg
	}{
		{"practice", 0, "practice"},
		{"achievements", 1, "achievements"},
		{"history", 2, "history"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(screen.ProfileUpdatedMsg{}, testActions())
			for i := 0; i < tt.downs; i++ {
				h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
			}
			_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
			if cmd == nil {
				t.Fatal("expected a command")
			}
			if got := cmd(); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHomeScreen_ExitQuits(t *testing.T) {
	h := New(screen.ProfileUpdatedMsg{}, testActions())
	for range 3 {
		h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected QuitMsg, got %T", cmd())
	}
}

func TestHomeScreen_DisabledPracticeIsSkipped(t *testing.T) {
	h := New(screen.ProfileUpdatedMsg{}, Actions{})
	if h.menu.Selected != 3 {
		t.Errorf("selected = %d, want the first enabled item (3)", h.menu.Selected)
	}
}

func TestHomeScreen_ProfileUpdate(t *testing.T) {
	h := New(screen.ProfileUpdatedMsg{Stars: 3}, testActions())
	h.Update(screen.ProfileUpdatedMsg{Stars: 42, Streak: 5, Unlocked: 2, Active: true})

	view := h.View(120, 40)
	for _, want := range []string{"42 STARS", "5 DAY STREAK", "2/12"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestMascotFor(t *testing.T) {
	tests := []struct {
		active bool
		streak int
		want   MascotVariant
	}{
		{true, 4, MascotCelebrating},
		{false, 4, MascotAlert},
		{false, 0, MascotIdle},
	}
	for _, tt := range tests {
		if got := MascotFor(tt.active, tt.streak); got != tt.want {
			t.Errorf("MascotFor(%v, %d) = %v, want %v", tt.active, tt.streak, got, tt.want)
		}
	}
}
