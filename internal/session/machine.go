package session

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/mathdrill/internal/exercise"
	"github.com/abhisek/mathdrill/internal/problemgen"
)

// Phase is the lifecycle phase of a session.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseInProgress
	PhaseCompleted
)

func (p Phase) String() string {
	switch p {
	case PhaseInProgress:
		return "in_progress"
	case PhaseCompleted:
		return "completed"
	default:
		return "not_started"
	}
}

// Machine drives one practice session. It is not safe for concurrent use;
// the owning caller serializes all events.
type Machine struct {
	cfg      Config
	gen      *problemgen.Generator
	settings Settings
	log      *zap.Logger
	now      func() time.Time
	newID    func() string

	id          string
	phase       Phase
	exercises   []exercise.Exercise
	index       int
	results     []exercise.Result
	feedback    Feedback
	attempts    int
	lastAnswer  int
	buffer      string
	negative    bool
	difficulty  exercise.Difficulty
	encourage   bool
	startedAt   time.Time
	completedAt time.Time
}

// Option configures a Machine.
type Option func(*Machine)

// WithClock overrides the clock used for session start and end times.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Machine) { m.log = l }
}

// WithSessionID fixes the session ID instead of generating one.
func WithSessionID(id string) Option {
	return func(m *Machine) { m.newID = func() string { return id } }
}

// New creates a machine in the not-started phase.
func New(cfg Config, gen *problemgen.Generator, settings Settings, opts ...Option) *Machine {
	if settings.Length < 1 {
		settings.Length = DefaultSessionLength
	}
	m := &Machine{
		cfg:        cfg,
		gen:        gen,
		settings:   settings,
		log:        zap.NewNop(),
		now:        time.Now,
		newID:      uuid.NewString,
		feedback:   FeedbackNone{},
		difficulty: settings.Difficulty,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Apply runs one transition and returns the effects it produced. Events
// that do not apply in the current state are no-ops and return nil.
func (m *Machine) Apply(ev Event) []Effect {
	switch ev := ev.(type) {
	case Start:
		return m.start()
	case AppendDigit:
		m.appendDigit(ev.Digit)
	case DeleteDigit:
		m.deleteDigit()
	case ToggleNegative:
		m.toggleNegative()
	case Submit:
		return m.submit(ev.Elapsed)
	case ClearIncorrect:
		m.clearIncorrect()
	case Skip:
		return m.giveUp(ev.Elapsed, true)
	case Reveal:
		return m.giveUp(ev.Elapsed, false)
	case Next:
		return m.next()
	}
	return nil
}

func (m *Machine) start() []Effect {
	if m.phase == PhaseCompleted {
		return nil
	}
	m.id = m.newID()
	m.difficulty = m.settings.Difficulty
	m.exercises = m.gen.GenerateSession(problemgen.SessionInput{
		Count:        m.settings.Length,
		Difficulty:   m.difficulty,
		Categories:   m.settings.Categories,
		Metrics:      m.settings.Metrics,
		AllowGapFill: m.settings.AllowGapFill,
	})
	m.index = 0
	m.results = nil
	m.encourage = false
	m.startedAt = m.now()
	m.completedAt = time.Time{}
	m.resetExercise()
	m.phase = PhaseInProgress

	m.log.Debug("session started",
		zap.String("session_id", m.id),
		zap.Int("length", len(m.exercises)),
		zap.Stringer("difficulty", m.difficulty),
	)
	return nil
}

func (m *Machine) inputOpen() bool {
	return m.phase == PhaseInProgress && AcceptsInput(m.feedback)
}

func (m *Machine) appendDigit(d int) {
	if !m.inputOpen() || d < 0 || d > 9 {
		return
	}
	if len(m.buffer) >= m.cfg.MaxAnswerDigits {
		return
	}
	m.buffer += strconv.Itoa(d)
}

func (m *Machine) deleteDigit() {
	if !m.inputOpen() || m.buffer == "" {
		return
	}
	m.buffer = m.buffer[:len(m.buffer)-1]
}

func (m *Machine) toggleNegative() {
	if !m.inputOpen() {
		return
	}
	ex, ok := m.Current()
	if !ok || !ex.Category.AllowsNegative() {
		return
	}
	m.negative = !m.negative
}

func (m *Machine) submit(elapsed time.Duration) []Effect {
	if !m.inputOpen() {
		return nil
	}
	ex, ok := m.Current()
	if !ok {
		return nil
	}
	answer, err := exercise.ParseAnswer(m.buffer, m.negative)
	if err != nil {
		return nil
	}

	m.attempts++
	m.lastAnswer = answer
	elapsed = exercise.CapElapsed(elapsed, m.cfg.ElapsedCap)

	if answer == ex.CorrectAnswer() {
		r := m.record(exercise.Result{
			Exercise: ex,
			Answer:   answer,
			Correct:  true,
			Attempts: m.attempts,
			Elapsed:  elapsed,
		})
		stars := r.Stars()
		if m.isRevenge(ex) {
			m.feedback = FeedbackRevenge{Stars: stars}
			return []Effect{ResultRecorded{Result: r}, PlaySound{Sound: SoundRevenge}, ShowStars{Count: stars}}
		}
		m.feedback = FeedbackCorrect{Stars: stars}
		return []Effect{ResultRecorded{Result: r}, PlaySound{Sound: SoundCorrect}, ShowStars{Count: stars}}
	}

	if m.attempts >= m.cfg.MaxAttempts {
		r := m.record(exercise.Result{
			Exercise:    ex,
			Answer:      answer,
			Attempts:    m.attempts,
			Elapsed:     elapsed,
			WasRevealed: true,
		})
		m.feedback = FeedbackShowAnswer{Answer: ex.CorrectAnswer()}
		return []Effect{ResultRecorded{Result: r}, PlaySound{Sound: SoundReveal}}
	}

	if opp, ok := ex.Operation.Opposite(); ok && ex.Format == exercise.FormatStandard && answer == opp.Apply(ex.First, ex.Second) {
		m.feedback = FeedbackWrongOperation{Correct: ex.Operation, Wrong: opp}
	} else {
		m.feedback = FeedbackIncorrect{}
	}
	return []Effect{PlaySound{Sound: SoundIncorrect}}
}

func (m *Machine) isRevenge(ex exercise.Exercise) bool {
	return ex.IsRetry || m.attempts >= 2 || m.settings.Metrics.IsWeak(ex.Category, ex.First, ex.Second)
}

func (m *Machine) clearIncorrect() {
	if m.phase != PhaseInProgress || !IsRetryable(m.feedback) {
		return
	}
	m.feedback = FeedbackNone{}
	m.buffer = ""
	m.negative = false
}

// giveUp records a non-correct result for a skip or a reveal.
func (m *Machine) giveUp(elapsed time.Duration, skipped bool) []Effect {
	if m.phase != PhaseInProgress || IsResolved(m.feedback) {
		return nil
	}
	ex, ok := m.Current()
	if !ok {
		return nil
	}
	r := m.record(exercise.Result{
		Exercise:    ex,
		Answer:      m.lastAnswer,
		Attempts:    max(m.attempts, 1),
		Elapsed:     exercise.CapElapsed(elapsed, m.cfg.ElapsedCap),
		WasRevealed: !skipped,
		WasSkipped:  skipped,
	})
	m.feedback = FeedbackShowAnswer{Answer: ex.CorrectAnswer()}
	return []Effect{ResultRecorded{Result: r}, PlaySound{Sound: SoundReveal}}
}

func (m *Machine) record(r exercise.Result) exercise.Result {
	r.RecordedAt = m.now()
	m.results = append(m.results, r)
	return r
}

func (m *Machine) next() []Effect {
	if m.phase != PhaseInProgress || !IsResolved(m.feedback) {
		return nil
	}

	m.encourage = false
	m.index++
	m.resetExercise()

	if m.index >= len(m.exercises) {
		m.phase = PhaseCompleted
		m.completedAt = m.now()
		sum := m.Summary()
		m.log.Debug("session completed",
			zap.String("session_id", m.id),
			zap.Int("correct", sum.Correct),
			zap.Int("total", sum.TotalExercises),
		)
		return []Effect{PlaySound{Sound: SoundComplete}, SessionCompleted{Summary: sum}}
	}

	if m.settings.Adaptive && m.cfg.AdaptiveInterval > 0 && m.index%m.cfg.AdaptiveInterval == 0 {
		return m.adaptiveCheck()
	}
	return nil
}

func (m *Machine) adaptiveCheck() []Effect {
	n := len(m.results)

	if w := m.cfg.FrustrationWindow; w > 0 && n >= w {
		if acc := exercise.Accuracy(m.results[n-w:]); acc < m.cfg.FrustrationThreshold {
			m.encourage = true
			effects := []Effect{ShowEncouragement{}}
			if m.difficulty > exercise.VeryEasy {
				effects = append(effects, m.changeDifficulty(m.difficulty.Lower(), ReasonFrustration))
			}
			return effects
		}
	}

	w := m.cfg.AdaptiveWindow
	if w <= 0 || n == 0 {
		return nil
	}
	recent := m.results[max(0, n-w):]
	next := m.gen.Config().AdaptDifficulty(m.difficulty, exercise.Accuracy(recent), exercise.MeanElapsed(recent))
	if next == m.difficulty {
		return nil
	}
	return []Effect{m.changeDifficulty(next, ReasonAdaptive)}
}

// changeDifficulty switches level and regenerates every exercise that has
// not been presented yet, avoiding signatures already used.
func (m *Machine) changeDifficulty(to exercise.Difficulty, reason ChangeReason) Effect {
	from := m.difficulty
	m.difficulty = to

	used := problemgen.NewSignatureSet(m.exercises[:m.index]...)
	rest := m.gen.GenerateSession(problemgen.SessionInput{
		Count:        len(m.exercises) - m.index,
		Difficulty:   to,
		Categories:   m.settings.Categories,
		Metrics:      m.settings.Metrics,
		AllowGapFill: m.settings.AllowGapFill,
		Exclude:      used,
	})
	m.exercises = append(m.exercises[:m.index:m.index], rest...)

	m.log.Info("difficulty changed",
		zap.String("session_id", m.id),
		zap.Stringer("from", from),
		zap.Stringer("to", to),
		zap.String("reason", string(reason)),
		zap.Int("regenerated", len(rest)),
	)
	return DifficultyChanged{From: from, To: to, Reason: reason}
}

func (m *Machine) resetExercise() {
	m.buffer = ""
	m.negative = false
	m.attempts = 0
	m.lastAnswer = 0
	m.feedback = FeedbackNone{}
}

// Convenience wrappers for callers that prefer method calls.

func (m *Machine) Start() []Effect                       { return m.Apply(Start{}) }
func (m *Machine) AppendDigit(d int) []Effect            { return m.Apply(AppendDigit{Digit: d}) }
func (m *Machine) DeleteDigit() []Effect                 { return m.Apply(DeleteDigit{}) }
func (m *Machine) ToggleNegative() []Effect              { return m.Apply(ToggleNegative{}) }
func (m *Machine) Submit(elapsed time.Duration) []Effect { return m.Apply(Submit{Elapsed: elapsed}) }
func (m *Machine) ClearIncorrect() []Effect              { return m.Apply(ClearIncorrect{}) }
func (m *Machine) Skip(elapsed time.Duration) []Effect   { return m.Apply(Skip{Elapsed: elapsed}) }
func (m *Machine) Reveal(elapsed time.Duration) []Effect { return m.Apply(Reveal{Elapsed: elapsed}) }
func (m *Machine) Next() []Effect                        { return m.Apply(Next{}) }

// ID returns the session ID, empty before Start.
func (m *Machine) ID() string { return m.id }

// Config returns the machine configuration.
func (m *Machine) Config() Config { return m.cfg }

// Phase returns the lifecycle phase.
func (m *Machine) Phase() Phase { return m.phase }

// Feedback returns the current feedback state.
func (m *Machine) Feedback() Feedback { return m.feedback }

// Difficulty returns the current, possibly adapted, difficulty.
func (m *Machine) Difficulty() exercise.Difficulty { return m.difficulty }

// Encouragement reports whether the last advance detected frustration.
func (m *Machine) Encouragement() bool { return m.encourage }

// Attempts returns the submissions made on the current exercise.
func (m *Machine) Attempts() int { return m.attempts }

// Index returns the zero-based position of the current exercise.
func (m *Machine) Index() int { return m.index }

// Len returns the session length.
func (m *Machine) Len() int { return len(m.exercises) }

// StartedAt returns when Start was applied.
func (m *Machine) StartedAt() time.Time { return m.startedAt }

// Buffer returns the pending answer as displayed, including the sign.
func (m *Machine) Buffer() string {
	if m.negative {
		return "-" + m.buffer
	}
	return m.buffer
}

// Current returns the exercise being presented.
func (m *Machine) Current() (exercise.Exercise, bool) {
	if m.phase != PhaseInProgress || m.index < 0 || m.index >= len(m.exercises) {
		return exercise.Exercise{}, false
	}
	return m.exercises[m.index], true
}

// Exercises returns a copy of the planned exercises.
func (m *Machine) Exercises() []exercise.Exercise {
	out := make([]exercise.Exercise, len(m.exercises))
	copy(out, m.exercises)
	return out
}

// Results returns a copy of the results recorded so far. Partial results
// remain valid if the session is abandoned.
func (m *Machine) Results() []exercise.Result {
	out := make([]exercise.Result, len(m.results))
	copy(out, m.results)
	return out
}

// String renders a one-line debug description.
func (m *Machine) String() string {
	var b strings.Builder
	b.WriteString(m.phase.String())
	b.WriteString(" ")
	b.WriteString(strconv.Itoa(m.index))
	b.WriteString("/")
	b.WriteString(strconv.Itoa(len(m.exercises)))
	b.WriteString(" ")
	b.WriteString(m.difficulty.String())
	b.WriteString(" feedback=")
	b.WriteString(FeedbackName(m.feedback))
	return b.String()
}
