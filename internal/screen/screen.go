package screen

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathdrill/internal/engagement"
	"github.com/abhisek/mathdrill/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// ProfileUpdatedMsg carries the learner's latest lifetime stats so the
// header and home screen can refresh their counters.
type ProfileUpdatedMsg struct {
	Stars    int
	Streak   int
	Unlocked int
	Active   bool // practiced today
}

// ProfileOf summarizes u as seen at now.
func ProfileOf(u engagement.UserStats, now time.Time) ProfileUpdatedMsg {
	return ProfileUpdatedMsg{
		Stars:    u.TotalStars,
		Streak:   u.CurrentStreak,
		Unlocked: u.UnlockedCount(),
		Active:   u.ActiveOn(now),
	}
}
