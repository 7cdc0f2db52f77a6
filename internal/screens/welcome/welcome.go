package welcome

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathdrill/internal/exercise"
	"github.com/abhisek/mathdrill/internal/router"
	"github.com/abhisek/mathdrill/internal/screen"
	"github.com/abhisek/mathdrill/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	solveEvery   = 400 * time.Millisecond
	titleAt      = 1200 * time.Millisecond
	countDur     = time.Second
	totalDur     = titleAt + countDur
)

// warmups solve themselves one by one while the splash plays.
var warmups = []exercise.Exercise{
	{Category: exercise.AdditionTo10, Operation: exercise.Add, First: 3, Second: 4},
	{Category: exercise.SubtractionTo100, Operation: exercise.Subtract, First: 52, Second: 17, Format: exercise.FormatGapSecond},
	{Category: exercise.MultiplicationSmall, Operation: exercise.Multiply, First: 6, Second: 7},
}

// Stage is the part of the splash currently on screen.
type Stage int

const (
	// StageWarmup shows the warm-up board filling in.
	StageWarmup Stage = iota
	// StageTitle adds the banner, the greeting and the counting tally.
	StageTitle
	// StageReady holds the final frame until a key is pressed.
	StageReady
)

// StageAt maps time since the splash opened to a stage.
func StageAt(elapsed time.Duration) Stage {
	switch {
	case elapsed >= totalDur:
		return StageReady
	case elapsed >= titleAt:
		return StageTitle
	default:
		return StageWarmup
	}
}

type tickMsg time.Time

// WelcomeScreen greets the learner with a short warm-up animation and
// their running tally before handing over to the home screen.
type WelcomeScreen struct {
	homeFactory  func() screen.Screen
	profile      screen.ProfileUpdatedMsg
	elapsed      time.Duration
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that greets profile and then transitions to
// the screen produced by homeFactory.
func New(homeFactory func() screen.Screen, profile screen.ProfileUpdatedMsg) *WelcomeScreen {
	return &WelcomeScreen{
		homeFactory: homeFactory,
		profile:     profile,
	}
}

// Greeting returns the tagline for the learner's streak state.
func Greeting(p screen.ProfileUpdatedMsg) string {
	switch {
	case p.Streak > 0 && p.Active:
		return fmt.Sprintf("Day %d done. Fancy a few more sums?", p.Streak)
	case p.Streak > 0:
		return fmt.Sprintf("Your %d-day streak is waiting. Let's keep it going!", p.Streak)
	case p.Stars > 0:
		return "Welcome back! Ten quick sums a day starts a streak."
	default:
		return "Ten quick sums a day. Let's go!"
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		// Nothing moves once the final frame is up.
		if StageAt(w.elapsed) == StageReady {
			return w, nil
		}
		w.elapsed += tickInterval
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}
	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	homeScreen := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: homeScreen}
	}
}

// solvedCount is the number of warm-up sums showing their answer.
func solvedCount(elapsed time.Duration) int {
	return min(len(warmups), int(elapsed/solveEvery))
}

// countUp eases from zero to target over the title stage.
func countUp(target int, elapsed time.Duration) int {
	if target <= 0 || elapsed <= titleAt {
		return 0
	}
	if elapsed >= totalDur {
		return target
	}
	frac := float64(elapsed-titleAt) / float64(countDur)
	return int(float64(target) * frac)
}

func warmupLine(ex exercise.Exercise, solved bool) string {
	if !solved {
		return theme.Body.Render(ex.Text())
	}
	text := strings.Replace(ex.Text(), "?", strconv.Itoa(ex.CorrectAnswer()), 1)
	return theme.Correct.Render(text + "  ✓")
}

func (w *WelcomeScreen) renderWarmups() string {
	solved := solvedCount(w.elapsed)
	lines := make([]string, len(warmups))
	for i, ex := range warmups {
		lines[i] = warmupLine(ex, i < solved)
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Padding(0, 3).
		Render(strings.Join(lines, "\n"))
}

func (w *WelcomeScreen) renderTally() string {
	stars := theme.StarOn.Render(fmt.Sprintf("★ %d", countUp(w.profile.Stars, w.elapsed)))
	if w.profile.Streak == 0 {
		return stars
	}
	streak := lipgloss.NewStyle().Foreground(theme.Accent).
		Render(fmt.Sprintf("🔥 %d", countUp(w.profile.Streak, w.elapsed)))
	return stars + "    " + streak
}

func (w *WelcomeScreen) View(width, height int) string {
	sections := []string{w.renderWarmups()}

	stage := StageAt(w.elapsed)
	if stage >= StageTitle {
		greeting := lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render(Greeting(w.profile))
		sections = append(sections, "", RenderBanner(width), "", greeting, "", w.renderTally())
	}
	if stage == StageReady {
		hint := lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("press any key to continue")
		sections = append(sections, "", hint)
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
