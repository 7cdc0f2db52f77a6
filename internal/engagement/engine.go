package engagement

import (
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/mathdrill/internal/exercise"
)

// Engine updates streaks, daily aggregates and achievements after a
// session. It holds no state between calls.
type Engine struct {
	cfg Config
	now func() time.Time
	log *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the clock used to stamp unlocks.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// NewEngine creates an engagement engine.
func NewEngine(cfg Config, opts ...Option) *Engine {
	e := &Engine{
		cfg: cfg,
		now: time.Now,
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ProcessSession folds a session's results into the user's lifetime
// counters, today's aggregate and streak, then evaluates achievements.
//
// today may be nil or belong to another day, in which case a fresh
// aggregate for the session's start day is used. The inputs are not
// modified. A session with no results is not activity and returns the
// inputs unchanged.
func (e *Engine) ProcessSession(results []exercise.Result, stats SessionStats, user UserStats, today *DailyAggregate) Outcome {
	u := user.Clone()
	day := e.findOrCreateDaily(u.ID, stats.StartedAt, today)

	if len(results) == 0 {
		return Outcome{User: u, Daily: day, Streak: u.CurrentStreak}
	}

	correct := 0
	var elapsed time.Duration
	for _, r := range results {
		if r.Correct {
			correct++
		}
		elapsed += r.Elapsed
	}

	day.Exercises += len(results)
	day.Correct += correct
	day.TotalTime += elapsed
	day.Sessions++
	if stats.ID != "" && !slices.Contains(day.SessionIDs, stats.ID) {
		day.SessionIDs = append(day.SessionIDs, stats.ID)
	}

	streak, advanced := AdvanceStreak(u.CurrentStreak, u.LastActiveAt, stats.StartedAt)
	u.CurrentStreak = streak
	u.LongestStreak = max(u.LongestStreak, streak)
	active := stats.StartedAt
	u.LastActiveAt = &active

	u.TotalExercises += len(results)
	u.TotalCorrect += correct
	u.TotalStars += exercise.TotalStars(results)
	u.TotalSessions++

	unlocked := e.evaluate(&u, results, stats)

	return Outcome{
		User:           u,
		Daily:          day,
		Unlocked:       unlocked,
		Streak:         streak,
		StreakAdvanced: advanced,
	}
}

func (e *Engine) findOrCreateDaily(userID string, at time.Time, today *DailyAggregate) DailyAggregate {
	if today != nil && today.UserID == userID && SameDay(today.Date, at) {
		d := *today
		d.SessionIDs = slices.Clone(today.SessionIDs)
		return d
	}
	return DailyAggregate{UserID: userID, Date: civilDay(at)}
}

// evaluate raises progress on every locked achievement and unlocks those
// whose condition is met. Missing rows are created first.
func (e *Engine) evaluate(u *UserStats, results []exercise.Result, stats SessionStats) []Achievement {
	u.Achievements = e.InitializeAchievements(u.Achievements)
	now := e.now()

	var unlocked []Achievement
	for i := range u.Achievements {
		a := &u.Achievements[i]
		if a.Unlocked() {
			continue
		}
		progress, met := e.check(a, *u, results, stats)
		a.Progress = max(a.Progress, progress)
		if !met {
			continue
		}
		at := now
		a.UnlockedAt = &at
		a.Progress = a.Target
		unlocked = append(unlocked, *a)
		e.log.Info("achievement unlocked",
			zap.String("user_id", u.ID),
			zap.String("achievement", string(a.Type)),
		)
	}
	return unlocked
}

// check returns the freshly computed progress for a and whether its
// condition holds.
func (e *Engine) check(a *Achievement, u UserStats, results []exercise.Result, stats SessionStats) (int, bool) {
	switch a.Type {
	case Exercises10, Exercises50, Exercises100, Exercises500:
		return min(u.TotalExercises, a.Target), u.TotalExercises >= a.Target
	case Streak3, Streak7, Streak30:
		return min(u.CurrentStreak, a.Target), u.CurrentStreak >= a.Target
	case Perfect10:
		p := a.Progress
		if isPerfect(results, e.cfg.PerfectMinExercises) {
			p++
		}
		return p, p >= a.Target
	case AllStars:
		return min(u.TotalStars, a.Target), u.TotalStars >= a.Target
	case SpeedDemon:
		return flag(len(results) >= e.cfg.SpeedDemonMinResults && stats.Duration < e.cfg.SpeedDemonMaxDuration)
	case EarlyBird:
		return flag(stats.StartedAt.Hour() < e.cfg.EarlyBirdHour)
	case NightOwl:
		return flag(stats.StartedAt.Hour() >= e.cfg.NightOwlHour)
	default:
		return 0, false
	}
}

func flag(ok bool) (int, bool) {
	if ok {
		return 1, true
	}
	return 0, false
}

// InitializeAchievements returns exactly one row per known type, in
// display order, keeping existing progress. Duplicate rows collapse to the
// most advanced one and unknown types are dropped.
//
// It also repairs perfect10 rows unlocked with progress <= 1, written by
// an older release that unlocked on the first perfect session; those are
// relocked with progress 1. Calling it again is a no-op.
func (e *Engine) InitializeAchievements(existing []Achievement) []Achievement {
	byType := make(map[AchievementType]Achievement, len(existing))
	for _, a := range existing {
		if prev, ok := byType[a.Type]; ok && !moreAdvanced(a, prev) {
			continue
		}
		byType[a.Type] = a
	}

	out := make([]Achievement, 0, len(AllAchievementTypes()))
	for _, t := range AllAchievementTypes() {
		a, ok := byType[t]
		if !ok {
			a = NewAchievement(t)
		}
		a.Target = t.Target()
		if t == Perfect10 && a.Unlocked() && a.Progress <= 1 {
			e.log.Warn("relocking legacy perfect10 achievement",
				zap.Int("progress", a.Progress),
			)
			a.UnlockedAt = nil
			a.Progress = 1
		}
		out = append(out, a)
	}
	return out
}

func moreAdvanced(a, b Achievement) bool {
	if a.Unlocked() != b.Unlocked() {
		return a.Unlocked()
	}
	return a.Progress > b.Progress
}
