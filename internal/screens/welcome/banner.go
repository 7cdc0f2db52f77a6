package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathdrill/internal/ui/theme"
)

// BannerArt is the block-letter MATHDRILL title.
const BannerArt = `
 ███╗   ███╗ █████╗ ████████╗██╗  ██╗██████╗ ██████╗ ██╗██╗     ██╗
 ████╗ ████║██╔══██╗╚══██╔══╝██║  ██║██╔══██╗██╔══██╗██║██║     ██║
 ██╔████╔██║███████║   ██║   ███████║██║  ██║██████╔╝██║██║     ██║
 ██║╚██╔╝██║██╔══██║   ██║   ██╔══██║██║  ██║██╔══██╗██║██║     ██║
 ██║ ╚═╝ ██║██║  ██║   ██║   ██║  ██║██████╔╝██║  ██║██║███████╗███████╗
 ╚═╝     ╚═╝╚═╝  ╚═╝   ╚═╝   ╚═╝  ╚═╝╚═════╝ ╚═╝  ╚═╝╚═╝╚══════╝╚══════╝`

// BannerCompact replaces BannerArt on narrow terminals.
const BannerCompact = "M A T H D R I L L"

// BannerWidth is the column count BannerArt needs.
const BannerWidth = 72

// RenderBanner returns the banner styled in the primary color, falling
// back to BannerCompact when width is below BannerWidth.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < BannerWidth {
		return style.Render(BannerCompact)
	}
	return style.Render(BannerArt)
}
