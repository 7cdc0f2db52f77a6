// Package simulate drives the full practice pipeline headlessly with a
// scripted learner: history to metrics, metrics to generator, the session
// machine, then the engagement engine and a backend.
package simulate

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/mathdrill/internal/drill"
	"github.com/abhisek/mathdrill/internal/engagement"
	"github.com/abhisek/mathdrill/internal/exercise"
	"github.com/abhisek/mathdrill/internal/mastery"
	"github.com/abhisek/mathdrill/internal/problemgen"
	"github.com/abhisek/mathdrill/internal/session"
	"github.com/abhisek/mathdrill/internal/store"
)

// Options configures a simulation run.
type Options struct {
	UserID   string
	Sessions int

	// Accuracy is the learner's chance of answering any attempt correctly.
	Accuracy float64

	Seed uint64

	// Start is when the first session begins; later sessions follow at
	// SessionGap intervals.
	Start      time.Time
	SessionGap time.Duration

	// MinElapsed and MaxElapsed bound the learner's answer time.
	MinElapsed time.Duration
	MaxElapsed time.Duration

	// Difficulty is the starting level; nil derives it from history.
	Difficulty *exercise.Difficulty

	Length     int
	Categories []exercise.Category
	GapFill    bool
	Adaptive   bool
}

// DefaultOptions returns a week of daily ten-exercise sessions.
func DefaultOptions() Options {
	return Options{
		UserID:     "simulated",
		Sessions:   7,
		Accuracy:   0.8,
		Seed:       1,
		Start:      time.Date(2026, 1, 5, 16, 0, 0, 0, time.Local),
		SessionGap: 24 * time.Hour,
		MinElapsed: time.Second,
		MaxElapsed: 6 * time.Second,
		Length:     session.DefaultSessionLength,
		Adaptive:   true,
	}
}

// Report describes one simulated session.
type Report struct {
	Index      int
	SessionID  string
	StartedAt  time.Time
	Start      exercise.Difficulty
	Trajectory []session.DifficultyChanged
	Summary    session.Summary
	Unlocked   []engagement.AchievementType
	Streak     int
	WeakPairs  int
}

// Engines bundles the component configurations.
type Engines struct {
	Generator  problemgen.Config
	Mastery    mastery.Config
	Session    session.Config
	Engagement engagement.Config
	Window     store.Window
}

// DefaultEngines returns every component at its default configuration.
func DefaultEngines() Engines {
	return Engines{
		Generator:  problemgen.DefaultConfig(),
		Mastery:    mastery.DefaultConfig(),
		Session:    session.DefaultConfig(),
		Engagement: engagement.DefaultConfig(),
		Window:     store.DefaultWindow,
	}
}

// Runner executes simulations against a backend.
type Runner struct {
	eng     Engines
	backend drill.Backend
	log     *zap.Logger
}

// NewRunner creates a runner.
func NewRunner(eng Engines, backend drill.Backend, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{eng: eng, backend: backend, log: log}
}

// Run simulates opts.Sessions sessions in order and returns one report per
// session. It stops at the first backend error or when ctx is done.
func (r *Runner) Run(ctx context.Context, opts Options) ([]Report, error) {
	rng := problemgen.NewRand(opts.Seed)
	clock := &simClock{now: opts.Start}
	seq := 0
	gen := problemgen.New(r.eng.Generator, rng,
		problemgen.WithClock(clock.Now),
		problemgen.WithIDFunc(func() string { seq++; return "sim-ex-" + strconv.Itoa(seq) }),
		problemgen.WithLogger(r.log),
	)
	engine := engagement.NewEngine(r.eng.Engagement,
		engagement.WithClock(clock.Now),
		engagement.WithLogger(r.log),
	)
	svc := drill.NewService(r.backend, r.eng.Mastery, r.eng.Window, engine, r.log)
	learner := &learner{rng: rng, accuracy: opts.Accuracy, min: opts.MinElapsed, max: opts.MaxElapsed}

	reports := make([]Report, 0, opts.Sessions)
	for i := 0; i < opts.Sessions; i++ {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		clock.now = opts.Start.Add(time.Duration(i) * opts.SessionGap)

		metrics, err := svc.Metrics(ctx, opts.UserID)
		if err != nil {
			return reports, fmt.Errorf("session %d: %w", i+1, err)
		}

		start := problemgen.StartingDifficulty(metrics)
		if opts.Difficulty != nil {
			start = *opts.Difficulty
		}
		m := session.New(r.eng.Session, gen, session.Settings{
			Length:       opts.Length,
			Difficulty:   start,
			Categories:   opts.Categories,
			Metrics:      metrics,
			AllowGapFill: opts.GapFill,
			Adaptive:     opts.Adaptive,
		},
			session.WithClock(clock.Now),
			session.WithSessionID(fmt.Sprintf("sim-%s-%03d", opts.UserID, i+1)),
			session.WithLogger(r.log),
		)

		report := Report{Index: i + 1, StartedAt: clock.now, Start: start, WeakPairs: countWeak(metrics)}
		report.Trajectory, report.Summary = learner.play(m, clock)
		report.SessionID = report.Summary.SessionID

		out, err := svc.Finish(ctx, opts.UserID, report.Summary)
		if err != nil {
			return reports, fmt.Errorf("session %d: %w", i+1, err)
		}
		for _, a := range out.Unlocked {
			report.Unlocked = append(report.Unlocked, a.Type)
		}
		report.Streak = out.Streak

		r.log.Debug("simulated session",
			zap.Int("index", report.Index),
			zap.Stringer("start", start),
			zap.Stringer("end", report.Summary.EndDifficulty),
			zap.Int("correct", report.Summary.Correct),
		)
		reports = append(reports, report)
	}
	return reports, nil
}

func countWeak(m *mastery.Metrics) int {
	n := 0
	for _, c := range m.Categories() {
		n += len(m.WeakPool(c))
	}
	return n
}

type simClock struct {
	now time.Time
}

func (c *simClock) Now() time.Time { return c.now }
