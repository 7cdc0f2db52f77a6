package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathdrill/internal/engagement"
	"github.com/abhisek/mathdrill/internal/screen"
	"github.com/abhisek/mathdrill/internal/ui/components"
)

// Actions are the commands behind the home menu.
type Actions struct {
	// Practice builds and pushes a new practice session.
	Practice func() tea.Cmd
	// Achievements pushes the achievements list.
	Achievements func() tea.Cmd
	// History pushes the past sessions list.
	History func() tea.Cmd
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	menu    components.Menu
	profile screen.ProfileUpdatedMsg
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen showing profile.
func New(profile screen.ProfileUpdatedMsg, actions Actions) *HomeScreen {
	items := []components.MenuItem{
		{Label: "START PRACTICE", Action: actions.Practice, Disabled: actions.Practice == nil},
		{Label: "ACHIEVEMENTS", Action: actions.Achievements, Disabled: actions.Achievements == nil},
		{Label: "HISTORY", Action: actions.History, Disabled: actions.History == nil},
		{Label: "EXIT", Action: func() tea.Cmd { return tea.Quit }},
	}

	return &HomeScreen{
		menu:    components.NewMenu(items),
		profile: profile,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if p, ok := msg.(screen.ProfileUpdatedMsg); ok {
		h.profile = p
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := termHeight < 30 || width < 100

	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))

	if !compact {
		sections = append(sections, renderMascotBox(MascotFor(h.profile.Active, h.profile.Streak), cw))
	}

	sections = append(sections, renderStatsBar(
		h.profile.Stars, h.profile.Streak, h.profile.Unlocked,
		len(engagement.AllAchievementTypes()), cw, compact))

	if termHeight < 26 {
		sections = append(sections, renderArcadeMenuCompact(h.menu.Items, h.menu.Selected, cw))
	} else {
		sections = append(sections, renderArcadeMenu(h.menu.Items, h.menu.Selected, cw))
	}

	content := strings.Join(sections, "\n\n")
	return components.CabinetFrame(content, width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
