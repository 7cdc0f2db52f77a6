package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathdrill/internal/router"
	"github.com/abhisek/mathdrill/internal/screen"
	"github.com/abhisek/mathdrill/internal/store"
	"github.com/abhisek/mathdrill/internal/ui/layout"
	"github.com/abhisek/mathdrill/internal/ui/theme"
)

// maxSessions is how many past sessions are listed.
const maxSessions = 50

// Loader reads stored session headers. *store.Store satisfies it.
type Loader interface {
	RecentSessions(ctx context.Context, userID string, limit int) ([]store.SessionRow, error)
}

type historyLoadedMsg struct {
	Sessions []store.SessionRow
	Err      error
}

// HistoryScreen displays past sessions, newest first.
type HistoryScreen struct {
	loader   Loader
	userID   string
	sessions []store.SessionRow
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen for userID.
func New(loader Loader, userID string) *HistoryScreen {
	return &HistoryScreen{
		loader:   loader,
		userID:   userID,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		sessions, err := s.loader.RecentSessions(context.Background(), s.userID, maxSessions)
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No sessions yet. Start practicing!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, sess := range s.sessions {
		secs := int(sess.Duration.Seconds())
		line := fmt.Sprintf("%s  %d:%02d  %d/%d correct  %.0f%%",
			sess.StartedAt.Format("Jan 02, 2006"), secs/60, secs%60,
			sess.Correct, sess.Total, accuracy(sess)*100)

		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "> "
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(prefix+line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderDetails(sess)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func renderDetails(sess store.SessionRow) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	level := sess.StartDifficulty.DisplayName()
	if sess.EndDifficulty != sess.StartDifficulty {
		level += " > " + sess.EndDifficulty.DisplayName()
	}
	lines := []string{
		dim.Render("    Level: "+level) + "   " +
			theme.StarOn.Render(fmt.Sprintf("★ %d", sess.Stars)),
	}
	if sess.Answered < sess.Total {
		lines = append(lines, dim.Italic(true).Render(
			fmt.Sprintf("    Stopped after %d of %d exercises", sess.Answered, sess.Total)))
	}
	return strings.Join(lines, "\n")
}

func accuracy(sess store.SessionRow) float64 {
	if sess.Answered == 0 {
		return 0
	}
	return float64(sess.Correct) / float64(sess.Answered)
}
