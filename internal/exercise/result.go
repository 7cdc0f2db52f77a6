package exercise

import "time"

// DefaultElapsedCap bounds the time recorded for a single exercise so that
// idle or backgrounded time does not skew averages.
const DefaultElapsedCap = 10 * time.Second

// Result is the outcome of one exercise.
type Result struct {
	Exercise Exercise

	// Answer is the final value the learner entered (zero when skipped).
	Answer   int
	Correct  bool
	Attempts int
	Elapsed  time.Duration

	// WasRevealed is set when the answer was shown after exhausting attempts.
	WasRevealed bool
	WasSkipped  bool

	// RecordedAt is when the result was settled.
	RecordedAt time.Time
}

// At returns when the result was settled. Results without a stamp fall
// back to the exercise's creation time plus the time spent on it.
func (r Result) At() time.Time {
	if !r.RecordedAt.IsZero() {
		return r.RecordedAt
	}
	return r.Exercise.CreatedAt.Add(r.Elapsed)
}

// Stars returns 3 for a first-try solve, 2 for a second-try solve, 1 for
// any later solve and 0 if the exercise was never answered correctly.
func (r Result) Stars() int {
	if !r.Correct {
		return 0
	}
	switch {
	case r.Attempts <= 1:
		return 3
	case r.Attempts == 2:
		return 2
	default:
		return 1
	}
}

// CapElapsed clamps d into [0, limit]. A non-positive limit disables the cap.
func CapElapsed(d, limit time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	if limit > 0 && d > limit {
		return limit
	}
	return d
}

// Accuracy returns the fraction of correct results, or 0 for none.
func Accuracy(results []Result) float64 {
	if len(results) == 0 {
		return 0
	}
	correct := 0
	for _, r := range results {
		if r.Correct {
			correct++
		}
	}
	return float64(correct) / float64(len(results))
}

// MeanElapsed returns the average elapsed time in seconds.
func MeanElapsed(results []Result) float64 {
	if len(results) == 0 {
		return 0
	}
	var total time.Duration
	for _, r := range results {
		total += r.Elapsed
	}
	return total.Seconds() / float64(len(results))
}

// TotalStars sums the stars over results.
func TotalStars(results []Result) int {
	n := 0
	for _, r := range results {
		n += r.Stars()
	}
	return n
}
