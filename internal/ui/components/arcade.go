package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathdrill/internal/ui/theme"
)

// maxContentWidth keeps sections readable on very wide terminals.
const maxContentWidth = 76

// ContentWidth returns the inner width shared by every arcade section so
// their boxes line up.
func ContentWidth(frameWidth int) int {
	// cabinet border (2) + inner padding (4)
	return max(20, min(frameWidth-6, maxContentWidth))
}

// CabinetFrame wraps content in a double-border cabinet frame,
// centering vertically and horizontally within the given dimensions.
func CabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width-2).
		Height(height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// ArcadeCard wraps content in a rounded-border card at the given content width.
func ArcadeCard(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(content)
}

// ButtonState selects how an ArcadeButton is drawn.
type ButtonState int

const (
	ButtonNormal ButtonState = iota
	ButtonSelected
	ButtonDisabled
)

// ArcadeButton renders a bordered menu button.
func ArcadeButton(label string, state ButtonState, width int) string {
	base := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)

	switch state {
	case ButtonSelected:
		return base.
			Bold(true).
			Foreground(theme.BgDark).
			Background(theme.ArcadeYellow).
			BorderForeground(theme.ArcadeYellow).
			Render("▸ " + label)
	case ButtonDisabled:
		return base.
			Foreground(theme.Border).
			BorderForeground(theme.Border).
			Render(label)
	default:
		return base.
			Foreground(theme.Text).
			BorderForeground(theme.Border).
			Render(label)
	}
}

// ButtonStateFor maps a menu item's position to its button state.
func ButtonStateFor(item MenuItem, index, selected int) ButtonState {
	switch {
	case item.Disabled:
		return ButtonDisabled
	case index == selected:
		return ButtonSelected
	default:
		return ButtonNormal
	}
}
