// Package practice is the screen that runs one practice session: it feeds
// key presses into the session machine and renders the feedback it
// returns.
package practice

import (
	"context"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/mathdrill/internal/engagement"
	"github.com/abhisek/mathdrill/internal/router"
	"github.com/abhisek/mathdrill/internal/screen"
	"github.com/abhisek/mathdrill/internal/screens/summary"
	"github.com/abhisek/mathdrill/internal/session"
	"github.com/abhisek/mathdrill/internal/ui/layout"
)

// Finisher persists a session once it ends. *drill.Service satisfies it.
type Finisher interface {
	Finish(ctx context.Context, userID string, sum session.Summary) (engagement.Outcome, error)
}

// PracticeScreen drives a session.Machine from the keyboard.
type PracticeScreen struct {
	machine  *session.Machine
	finisher Finisher
	userID   string
	keys     keyMap
	now      func() time.Time
	log      *zap.Logger

	shownAt     time.Time
	stars       int
	change      *session.DifficultyChanged
	confirmQuit bool
	saving      bool
	errMsg      string
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)

// Option configures a PracticeScreen.
type Option func(*PracticeScreen)

// WithClock overrides the clock used to time answers.
func WithClock(now func() time.Time) Option {
	return func(s *PracticeScreen) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *PracticeScreen) { s.log = l }
}

// New creates a practice screen for a machine that has not been started.
func New(m *session.Machine, f Finisher, userID string, opts ...Option) *PracticeScreen {
	s := &PracticeScreen{
		machine:  m,
		finisher: f,
		userID:   userID,
		keys:     defaultKeys(),
		now:      time.Now,
		log:      zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *PracticeScreen) Init() tea.Cmd {
	s.handleEffects(s.machine.Start())
	s.shownAt = s.now()
	return nil
}

func (s *PracticeScreen) Title() string {
	return "Practice"
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	fb := s.machine.Feedback()
	switch {
	case s.confirmQuit:
		return []layout.KeyHint{{Key: "y", Description: "Stop"}, {Key: "n", Description: "Keep going"}}
	case session.IsResolved(fb):
		return []layout.KeyHint{{Key: "Enter", Description: "Next"}, {Key: "Esc", Description: "Stop"}}
	case session.IsRetryable(fb):
		return []layout.KeyHint{{Key: "Enter", Description: "Try again"}, {Key: "Esc", Description: "Stop"}}
	}
	hints := []layout.KeyHint{
		hint(s.keys.Digit), hint(s.keys.Delete), hint(s.keys.Submit), hint(s.keys.Skip),
	}
	if ex, ok := s.machine.Current(); ok && ex.Category.AllowsNegative() {
		hints = append(hints, hint(s.keys.Negative))
	}
	return append(hints, hint(s.keys.Quit))
}

func hint(b key.Binding) layout.KeyHint {
	h := b.Help()
	return layout.KeyHint{Key: h.Key, Description: h.Desc}
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		return s.handleSaved(msg)
	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *PracticeScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.saving {
		return s, nil
	}
	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	if s.confirmQuit {
		switch {
		case key.Matches(msg, s.keys.Yes):
			s.confirmQuit = false
			return s, s.finish()
		case key.Matches(msg, s.keys.No):
			s.confirmQuit = false
		}
		return s, nil
	}

	if key.Matches(msg, s.keys.Quit) {
		s.confirmQuit = true
		return s, nil
	}

	fb := s.machine.Feedback()
	switch {
	case session.IsResolved(fb):
		if key.Matches(msg, s.keys.Submit) {
			return s, s.next()
		}
		return s, nil

	case session.IsRetryable(fb):
		switch {
		case key.Matches(msg, s.keys.Submit), key.Matches(msg, s.keys.Delete):
			s.machine.ClearIncorrect()
		case key.Matches(msg, s.keys.Digit):
			s.machine.ClearIncorrect()
			s.machine.AppendDigit(digitOf(msg))
		}
		return s, nil
	}

	switch {
	case key.Matches(msg, s.keys.Digit):
		s.machine.AppendDigit(digitOf(msg))
	case key.Matches(msg, s.keys.Delete):
		s.machine.DeleteDigit()
	case key.Matches(msg, s.keys.Negative):
		s.machine.ToggleNegative()
	case key.Matches(msg, s.keys.Submit):
		s.handleEffects(s.machine.Submit(s.elapsed()))
	case key.Matches(msg, s.keys.Skip):
		s.handleEffects(s.machine.Skip(s.elapsed()))
	}
	return s, nil
}

func digitOf(msg tea.KeyPressMsg) int {
	k := msg.String()
	if len(k) != 1 || k[0] < '0' || k[0] > '9' {
		return 0
	}
	return int(k[0] - '0')
}

func (s *PracticeScreen) elapsed() time.Duration {
	return s.now().Sub(s.shownAt)
}

func (s *PracticeScreen) next() tea.Cmd {
	effects := s.machine.Next()
	s.stars = 0
	s.change = nil
	s.shownAt = s.now()
	if s.handleEffects(effects) {
		return s.finish()
	}
	return nil
}

// handleEffects records what the view needs from a transition and
// reports whether the session completed.
func (s *PracticeScreen) handleEffects(effects []session.Effect) bool {
	done := false
	for _, e := range effects {
		switch e := e.(type) {
		case session.ShowStars:
			s.stars = e.Count
		case session.DifficultyChanged:
			c := e
			s.change = &c
		case session.PlaySound:
			s.log.Debug("sound", zap.String("cue", string(e.Sound)))
		case session.SessionCompleted:
			done = true
		}
	}
	return done
}

// finish saves whatever was answered and hands over to the summary.
func (s *PracticeScreen) finish() tea.Cmd {
	s.saving = true
	sum := s.machine.Summary()
	f, userID := s.finisher, s.userID
	return func() tea.Msg {
		out, err := f.Finish(context.Background(), userID, sum)
		return savedMsg{summary: sum, outcome: out, err: err}
	}
}

func (s *PracticeScreen) handleSaved(msg savedMsg) (screen.Screen, tea.Cmd) {
	s.saving = false
	if msg.err != nil {
		s.log.Error("save session", zap.String("session", msg.summary.SessionID), zap.Error(msg.err))
		s.errMsg = msg.err.Error()
		return s, nil
	}

	profile := screen.ProfileOf(msg.outcome.User, s.now())
	next := summary.New(msg.summary, msg.outcome)
	return s, tea.Batch(
		func() tea.Msg { return profile },
		func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} },
	)
}

type savedMsg struct {
	summary session.Summary
	outcome engagement.Outcome
	err     error
}
