package components

import (
	"strings"

	"github.com/abhisek/mathdrill/internal/ui/theme"
)

// MaxStars is the most stars a single exercise can earn.
const MaxStars = 3

// Stars renders n filled stars followed by empty ones up to MaxStars.
func Stars(n int) string {
	parts := make([]string, 0, MaxStars)
	for i := 0; i < MaxStars; i++ {
		if i < n {
			parts = append(parts, theme.StarOn.Render("★"))
		} else {
			parts = append(parts, theme.StarOff.Render("☆"))
		}
	}
	return strings.Join(parts, " ")
}
