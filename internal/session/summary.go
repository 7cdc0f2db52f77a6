package session

import (
	"time"

	"github.com/abhisek/mathdrill/internal/exercise"
)

// CategorySummary aggregates results for one category.
type CategorySummary struct {
	Category exercise.Category
	Total    int
	Correct  int
	Stars    int
}

// Accuracy returns Correct/Total, or 0 for an empty category.
func (c CategorySummary) Accuracy() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Correct) / float64(c.Total)
}

// Summary describes a session, complete or partial.
type Summary struct {
	SessionID       string
	StartedAt       time.Time
	Duration        time.Duration
	TotalExercises  int
	Answered        int
	Correct         int
	Accuracy        float64
	Stars           int
	StartDifficulty exercise.Difficulty
	EndDifficulty   exercise.Difficulty
	PerCategory     []CategorySummary
	Results         []exercise.Result
}

// Completed reports whether every planned exercise has a result.
func (s Summary) Completed() bool {
	return s.TotalExercises > 0 && s.Answered >= s.TotalExercises
}

// Summary builds a summary from the results recorded so far.
func (m *Machine) Summary() Summary {
	results := m.Results()
	end := m.completedAt
	if end.IsZero() {
		end = m.now()
	}
	var dur time.Duration
	if !m.startedAt.IsZero() {
		dur = end.Sub(m.startedAt)
	}

	correct := 0
	for _, r := range results {
		if r.Correct {
			correct++
		}
	}
	return Summary{
		SessionID:       m.id,
		StartedAt:       m.startedAt,
		Duration:        dur,
		TotalExercises:  len(m.exercises),
		Answered:        len(results),
		Correct:         correct,
		Accuracy:        exercise.Accuracy(results),
		Stars:           exercise.TotalStars(results),
		StartDifficulty: m.settings.Difficulty,
		EndDifficulty:   m.difficulty,
		PerCategory:     perCategory(results),
		Results:         results,
	}
}

// perCategory groups results in first-seen category order.
func perCategory(results []exercise.Result) []CategorySummary {
	idx := make(map[exercise.Category]int)
	var out []CategorySummary
	for _, r := range results {
		c := r.Exercise.Category
		i, ok := idx[c]
		if !ok {
			i = len(out)
			idx[c] = i
			out = append(out, CategorySummary{Category: c})
		}
		out[i].Total++
		if r.Correct {
			out[i].Correct++
		}
		out[i].Stars += r.Stars()
	}
	return out
}
