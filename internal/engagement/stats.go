package engagement

import (
	"time"

	"github.com/abhisek/mathdrill/internal/exercise"
	"github.com/abhisek/mathdrill/internal/session"
)

// UserStats holds a learner's lifetime counters and achievements.
type UserStats struct {
	ID             string
	TotalExercises int
	TotalCorrect   int
	TotalStars     int
	TotalSessions  int
	CurrentStreak  int
	LongestStreak  int
	LastActiveAt   *time.Time
	Achievements   []Achievement
}

// Achievement returns the user's row for t.
func (u UserStats) Achievement(t AchievementType) (Achievement, bool) {
	for _, a := range u.Achievements {
		if a.Type == t {
			return a, true
		}
	}
	return Achievement{}, false
}

// UnlockedCount returns how many achievements have been earned.
func (u UserStats) UnlockedCount() int {
	n := 0
	for _, a := range u.Achievements {
		if a.Unlocked() {
			n++
		}
	}
	return n
}

// ActiveOn reports whether the user practiced on the civil day of t.
func (u UserStats) ActiveOn(t time.Time) bool {
	return u.LastActiveAt != nil && SameDay(*u.LastActiveAt, t)
}

// Clone returns a deep copy.
func (u UserStats) Clone() UserStats {
	out := u
	if u.LastActiveAt != nil {
		at := *u.LastActiveAt
		out.LastActiveAt = &at
	}
	out.Achievements = make([]Achievement, len(u.Achievements))
	for i, a := range u.Achievements {
		if a.UnlockedAt != nil {
			at := *a.UnlockedAt
			a.UnlockedAt = &at
		}
		out.Achievements[i] = a
	}
	return out
}

// DailyAggregate accumulates one user's activity on one calendar day.
type DailyAggregate struct {
	UserID     string
	Date       time.Time
	Exercises  int
	Correct    int
	TotalTime  time.Duration
	Sessions   int
	SessionIDs []string
}

// Accuracy returns Correct/Exercises, or 0 for an empty day.
func (d DailyAggregate) Accuracy() float64 {
	if d.Exercises == 0 {
		return 0
	}
	return float64(d.Correct) / float64(d.Exercises)
}

// SessionStats describes the session being processed.
type SessionStats struct {
	ID        string
	StartedAt time.Time
	Duration  time.Duration
}

// StatsFromSummary extracts session stats from a session summary.
func StatsFromSummary(s session.Summary) SessionStats {
	return SessionStats{
		ID:        s.SessionID,
		StartedAt: s.StartedAt,
		Duration:  s.Duration,
	}
}

// Outcome is the result of processing one session.
type Outcome struct {
	User  UserStats
	Daily DailyAggregate

	// Unlocked lists achievements unlocked by this session.
	Unlocked []Achievement

	Streak int

	// StreakAdvanced is true when the streak moved this call.
	StreakAdvanced bool
}

func isPerfect(results []exercise.Result, minExercises int) bool {
	return len(results) >= minExercises && exercise.Accuracy(results) == 1.0
}
