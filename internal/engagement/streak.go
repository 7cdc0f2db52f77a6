package engagement

import "time"

// streakMilestones are the streak lengths that carry an achievement.
var streakMilestones = []int{3, 7, 30}

// NextStreakMilestone returns the next streak milestone above current.
func NextStreakMilestone(current int) int {
	for _, m := range streakMilestones {
		if m > current {
			return m
		}
	}
	// Beyond 30, every further 30 days.
	return ((current / 30) + 1) * 30
}

// AdvanceStreak computes the streak after activity on today. The bool is
// true when the streak moved (advanced or restarted), false when the
// learner was already active on the same calendar day.
func AdvanceStreak(current int, lastActive *time.Time, today time.Time) (int, bool) {
	if lastActive == nil || current < 1 {
		return 1, true
	}
	last := civilDay(lastActive.In(today.Location()))
	day := civilDay(today)
	switch {
	case last.Equal(day):
		return current, false
	case last.Equal(day.AddDate(0, 0, -1)):
		return current + 1, true
	default:
		return 1, true
	}
}

// civilDay truncates t to midnight in its own location.
func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day in a's
// location.
func SameDay(a, b time.Time) bool {
	return civilDay(a).Equal(civilDay(b.In(a.Location())))
}
