package achievements

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathdrill/internal/engagement"
	"github.com/abhisek/mathdrill/internal/router"
	"github.com/abhisek/mathdrill/internal/screen"
	"github.com/abhisek/mathdrill/internal/ui/components"
	"github.com/abhisek/mathdrill/internal/ui/layout"
	"github.com/abhisek/mathdrill/internal/ui/theme"
)

// ProfileLoader loads a learner's lifetime stats. *drill.Service
// satisfies it.
type ProfileLoader interface {
	Profile(ctx context.Context, userID string) (engagement.UserStats, error)
}

// Filter selects which achievements are listed.
type Filter int

const (
	FilterAll Filter = iota
	FilterUnlocked
	FilterLocked
)

var filters = []Filter{FilterAll, FilterUnlocked, FilterLocked}

func (f Filter) String() string {
	switch f {
	case FilterUnlocked:
		return "Unlocked"
	case FilterLocked:
		return "Locked"
	default:
		return "All"
	}
}

type profileLoadedMsg struct {
	User engagement.UserStats
	Err  error
}

// AchievementsScreen lists every achievement with its progress.
type AchievementsScreen struct {
	loader       ProfileLoader
	userID       string
	user         engagement.UserStats
	filter       int // index into filters
	scrollOffset int
	loaded       bool
	errMsg       string
}

var _ screen.Screen = (*AchievementsScreen)(nil)
var _ screen.KeyHintProvider = (*AchievementsScreen)(nil)

// New creates a new AchievementsScreen.
func New(loader ProfileLoader, userID string) *AchievementsScreen {
	return &AchievementsScreen{loader: loader, userID: userID}
}

func (s *AchievementsScreen) Init() tea.Cmd {
	loader, userID := s.loader, s.userID
	return func() tea.Msg {
		u, err := loader.Profile(context.Background(), userID)
		return profileLoadedMsg{User: u, Err: err}
	}
}

func (s *AchievementsScreen) Title() string {
	return "Achievements"
}

func (s *AchievementsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Filter"},
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *AchievementsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.user = msg.User
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "tab":
			s.filter = (s.filter + 1) % len(filters)
			s.scrollOffset = 0
		case "shift+tab":
			s.filter = (s.filter - 1 + len(filters)) % len(filters)
			s.scrollOffset = 0
		case "up", "k":
			if s.scrollOffset > 0 {
				s.scrollOffset--
			}
		case "down", "j":
			if s.scrollOffset < len(s.visible())-1 {
				s.scrollOffset++
			}
		}
	}
	return s, nil
}

func (s *AchievementsScreen) visible() []engagement.Achievement {
	var out []engagement.Achievement
	for _, a := range s.user.Achievements {
		switch filters[s.filter] {
		case FilterUnlocked:
			if !a.Unlocked() {
				continue
			}
		case FilterLocked:
			if a.Unlocked() {
				continue
			}
		}
		out = append(out, a)
	}
	return out
}

func (s *AchievementsScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading achievements...")
	}

	unlocked := 0
	for _, a := range s.user.Achievements {
		if a.Unlocked() {
			unlocked++
		}
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.Text).
		Render(fmt.Sprintf("\nUnlocked: %d of %d\n", unlocked, len(s.user.Achievements))))
	b.WriteString("\n")

	var tabs []string
	for i, f := range filters {
		if i == s.filter {
			tabs = append(tabs, theme.Selected.Render(f.String()))
		} else {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(theme.TextDim).Render(f.String()))
		}
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(tabs, "     ")))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 70)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	list := s.visible()
	if len(list) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("Nothing here yet. Keep practicing!"))
		return b.String()
	}

	// Each achievement takes two lines.
	maxVisible := (height - 10) / 2
	if maxVisible < 2 {
		maxVisible = 2
	}
	start := s.scrollOffset
	end := min(start+maxVisible, len(list))

	for _, a := range list[start:end] {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderRow(a, min(width-8, 70))))
		b.WriteString("\n")
	}

	if end < len(list) {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render(fmt.Sprintf("... %d more", len(list)-end)))
	}

	return b.String()
}

func renderRow(a engagement.Achievement, w int) string {
	nameStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	status := fmt.Sprintf("%d/%d", a.Progress, a.Target)
	if a.Unlocked() {
		nameStyle = lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
		status = "unlocked " + a.UnlockedAt.Format("Jan 02, 2006")
	}

	title := nameStyle.Render(fmt.Sprintf("%s %-16s", a.Type.Icon(), a.Type.DisplayName())) +
		"  " + lipgloss.NewStyle().Foreground(theme.Text).Render(a.Type.Description())
	bar := components.NewProgressBar(a.Progress, a.Target, w-24).View() +
		"  " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(status)

	return lipgloss.NewStyle().Width(w).Render(title + "\n" + bar)
}
