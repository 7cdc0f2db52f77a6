package app

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/mathdrill/internal/config"
	"github.com/abhisek/mathdrill/internal/drill"
	"github.com/abhisek/mathdrill/internal/problemgen"
	"github.com/abhisek/mathdrill/internal/router"
	"github.com/abhisek/mathdrill/internal/screen"
	"github.com/abhisek/mathdrill/internal/screens/achievements"
	"github.com/abhisek/mathdrill/internal/screens/history"
	"github.com/abhisek/mathdrill/internal/screens/home"
	"github.com/abhisek/mathdrill/internal/screens/practice"
	"github.com/abhisek/mathdrill/internal/screens/welcome"
	"github.com/abhisek/mathdrill/internal/session"
	"github.com/abhisek/mathdrill/internal/ui/layout"
)

// Deps are the collaborators the TUI runs against.
type Deps struct {
	Config  *config.Config
	Drill   *drill.Service
	History history.Loader
	Log     *zap.Logger

	// SkipIntro starts on the home screen instead of the splash.
	SkipIntro bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	profile screen.ProfileUpdatedMsg
	width   int
	height  int
}

// newAppModel creates the root model. The first screen is the splash,
// which hands over to home.
func newAppModel(deps Deps, profile screen.ProfileUpdatedMsg) AppModel {
	actions := home.Actions{
		Practice:     func() tea.Cmd { return startPractice(deps) },
		Achievements: func() tea.Cmd { return showAchievements(deps) },
	}
	if deps.History != nil {
		actions.History = func() tea.Cmd { return showHistory(deps) }
	}
	homeFactory := func() screen.Screen { return home.New(profile, actions) }

	first := homeFactory()
	if !deps.SkipIntro {
		first = welcome.New(homeFactory, profile)
	}
	return AppModel{
		router:  router.New(first),
		profile: profile,
	}
}

// startPractice prepares a session from the learner's history and pushes
// the practice screen.
func startPractice(deps Deps) tea.Cmd {
	return func() tea.Msg {
		cfg := deps.Config
		metrics, err := deps.Drill.Metrics(context.Background(), cfg.UserID)
		if err != nil {
			deps.Log.Error("load history", zap.Error(err))
			return nil
		}
		settings, err := cfg.SessionSettings(metrics)
		if err != nil {
			deps.Log.Error("session settings", zap.Error(err))
			return nil
		}

		gen := problemgen.New(cfg.Generator(), problemgen.NewTimeSeededRand(), problemgen.WithLogger(deps.Log))
		m := session.New(cfg.SessionMachine(), gen, settings, session.WithLogger(deps.Log))
		return router.PushScreenMsg{
			Screen: practice.New(m, deps.Drill, cfg.UserID, practice.WithLogger(deps.Log)),
		}
	}
}

func showAchievements(deps Deps) tea.Cmd {
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: achievements.New(deps.Drill, deps.Config.UserID)}
	}
}

func showHistory(deps Deps) tea.Cmd {
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: history.New(deps.History, deps.Config.UserID)}
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case screen.ProfileUpdatedMsg:
		m.profile = msg
		return m, m.router.Broadcast(msg)
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the full frame for the current terminal size.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(layout.Header{
		Title:       title,
		Stars:       m.profile.Stars,
		Streak:      m.profile.Streak,
		ActiveToday: m.profile.Active,
	}, m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	content := m.router.View(m.width, layout.ContentHeight(header, footer, m.height))
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run loads the learner profile and starts the Bubble Tea program.
func Run(ctx context.Context, deps Deps) error {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	user, err := deps.Drill.Profile(ctx, deps.Config.UserID)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}

	p := tea.NewProgram(newAppModel(deps, screen.ProfileOf(user, time.Now())), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
