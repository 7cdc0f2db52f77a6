package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathdrill/internal/engagement"
	"github.com/abhisek/mathdrill/internal/router"
	"github.com/abhisek/mathdrill/internal/screen"
	"github.com/abhisek/mathdrill/internal/session"
	"github.com/abhisek/mathdrill/internal/ui/components"
	"github.com/abhisek/mathdrill/internal/ui/layout"
	"github.com/abhisek/mathdrill/internal/ui/theme"
)

// SummaryScreen displays the session summary.
type SummaryScreen struct {
	summary session.Summary
	outcome engagement.Outcome
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(sum session.Summary, out engagement.Outcome) *SummaryScreen {
	return &SummaryScreen{summary: sum, outcome: out}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary

	var b strings.Builder

	heading := "Session complete!"
	if !sum.Completed() {
		heading = "Session stopped early"
	}
	b.WriteString(center(width, lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(heading)))
	b.WriteString("\n\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(center(width, lipgloss.NewStyle().Foreground(theme.TextDim).Render(
		fmt.Sprintf("Duration: %d:%02d", mins, secs))))
	b.WriteString("\n\n")

	statsLine := fmt.Sprintf("Exercises: %d/%d        Correct: %d        Accuracy: %.0f%%",
		sum.Answered, sum.TotalExercises, sum.Correct, sum.Accuracy*100)
	b.WriteString(center(width, lipgloss.NewStyle().Foreground(theme.Text).Render(statsLine)))
	b.WriteString("\n")
	b.WriteString(center(width, theme.StarOn.Render(fmt.Sprintf("★ %d stars earned", sum.Stars))))
	b.WriteString("\n")

	level := sum.EndDifficulty.DisplayName()
	if sum.StartDifficulty != sum.EndDifficulty {
		level = fmt.Sprintf("%s > %s", sum.StartDifficulty.DisplayName(), sum.EndDifficulty.DisplayName())
	}
	b.WriteString(center(width, lipgloss.NewStyle().Foreground(theme.TextDim).Render("Level: "+level)))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 60)))

	if len(sum.PerCategory) > 0 {
		b.WriteString(center(width, lipgloss.NewStyle().Foreground(theme.TextDim).Render("Categories")))
		b.WriteString("\n")
		b.WriteString(center(width, divider))
		b.WriteString("\n")
		for _, c := range sum.PerCategory {
			line := fmt.Sprintf("%-22s %2d/%-2d correct   ", c.Category.DisplayName(), c.Correct, c.Total)
			style := lipgloss.NewStyle().Foreground(theme.Text)
			if c.Total > 0 && c.Correct == c.Total {
				style = style.Foreground(theme.Success)
			}
			b.WriteString(center(width, style.Render(line)+theme.StarOn.Render(fmt.Sprintf("★ %d", c.Stars))))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	out := s.outcome
	if out.StreakAdvanced {
		b.WriteString(center(width, lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(
			fmt.Sprintf("🔥 %d day streak!", out.Streak))))
		b.WriteString("\n\n")
	}

	if len(out.Unlocked) > 0 {
		b.WriteString(center(width, lipgloss.NewStyle().Foreground(theme.TextDim).Render("Achievements unlocked")))
		b.WriteString("\n")
		b.WriteString(center(width, divider))
		b.WriteString("\n")
		for _, a := range out.Unlocked {
			line := fmt.Sprintf("%s %s  %s", a.Type.Icon(), a.Type.DisplayName(), a.Type.Description())
			b.WriteString(center(width, lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Render(line)))
			b.WriteString("\n")
		}
	}

	if sum.Answered > 0 && sum.Stars == sum.Answered*components.MaxStars {
		b.WriteString("\n")
		b.WriteString(center(width, components.Stars(components.MaxStars)+"  "+theme.Revenge.Render("Perfect session!")))
	}

	return b.String()
}

func center(width int, s string) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}
