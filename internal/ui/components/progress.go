package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathdrill/internal/ui/theme"
)

// ProgressBar shows a count toward a target as a horizontal bar.
type ProgressBar struct {
	Done  int
	Total int
	Width int

	// Counter appends "done/total" after the bar.
	Counter bool
}

// NewProgressBar creates a bar for done out of total, width cells wide
// including any counter.
func NewProgressBar(done, total, width int) ProgressBar {
	return ProgressBar{Done: done, Total: total, Width: width}
}

// WithCounter returns a copy that shows the "done/total" counter.
func (p ProgressBar) WithCounter() ProgressBar {
	p.Counter = true
	return p
}

// Fraction returns Done/Total clamped to [0, 1].
func (p ProgressBar) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	return max(0, min(1, float64(p.Done)/float64(p.Total)))
}

// View renders the progress bar. A full bar turns gold.
func (p ProgressBar) View() string {
	counter := ""
	if p.Counter {
		counter = fmt.Sprintf("  %d/%d", min(p.Done, p.Total), p.Total)
	}

	barWidth := max(p.Width-lipgloss.Width(counter), 4)
	filled := int(float64(barWidth) * p.Fraction())

	fill := theme.Secondary
	if p.Total > 0 && p.Done >= p.Total {
		fill = theme.Gold
	}

	result := lipgloss.NewStyle().Background(fill).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled))

	if counter != "" {
		result += lipgloss.NewStyle().Foreground(theme.TextDim).Render(counter)
	}
	return result
}
