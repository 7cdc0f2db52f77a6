package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathdrill/internal/screens/welcome"
	"github.com/abhisek/mathdrill/internal/ui/components"
	"github.com/abhisek/mathdrill/internal/ui/theme"
)

// renderTitle returns the styled title block or the compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true)

	art := strings.TrimPrefix(welcome.BannerArt, "\n")
	if compact || cw < welcome.BannerWidth {
		art = welcome.BannerCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(art))
}

// renderStatsBar renders stars, streak and achievements in a bordered box
// matching the content width.
func renderStatsBar(stars, streak, unlocked, total, cw int, compact bool) string {
	starStyle := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	streakStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	trophyStyle := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s %s",
			starStyle.Render(fmt.Sprintf("★%d", stars)),
			streakStyle.Render(fmt.Sprintf("🔥%d", streak)),
			trophyStyle.Render(fmt.Sprintf("🏆%d/%d", unlocked, total)),
		)
	} else {
		stats = fmt.Sprintf("%s  %s  %s",
			starStyle.Render(fmt.Sprintf("★ %d STARS", stars)),
			streakStyle.Render(fmt.Sprintf("🔥 %d DAY STREAK", streak)),
			trophyStyle.Render(fmt.Sprintf("🏆 %d/%d", unlocked, total)),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw-2). // account for border chars
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 22

// renderArcadeMenu renders each menu item as a fixed-width button.
func renderArcadeMenu(items []components.MenuItem, selected int, cw int) string {
	buttons := make([]string, 0, len(items))
	for i, item := range items {
		buttons = append(buttons, components.ArcadeButton(item.Label, components.ButtonStateFor(item, i, selected), buttonWidth))
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(buttons, "\n"))
}

// renderArcadeMenuCompact renders menu items as plain lines for terminals
// too short for bordered buttons.
func renderArcadeMenuCompact(items []components.MenuItem, selected int, cw int) string {
	lines := make([]string, 0, len(items))
	for i, item := range items {
		switch components.ButtonStateFor(item, i, selected) {
		case components.ButtonSelected:
			lines = append(lines, lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.ArcadeYellow).
				Bold(true).
				Render(" ▸ "+item.Label+" "))
		case components.ButtonDisabled:
			lines = append(lines, lipgloss.NewStyle().
				Foreground(theme.Border).
				Render("   "+item.Label))
		default:
			lines = append(lines, lipgloss.NewStyle().
				Foreground(theme.Text).
				Render("   "+item.Label))
		}
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}

// renderMascotBox renders the mascot centered at content width.
func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}
