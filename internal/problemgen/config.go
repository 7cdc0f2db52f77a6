package problemgen

import "time"

// Config controls exercise generation and the difficulty policy.
type Config struct {
	// RetryProbability is the chance of drawing from the weak-exercise pool.
	RetryProbability float64

	// GapFillProbability is the chance of a gap-fill format when allowed.
	GapFillProbability float64

	// MaxSynthesisAttempts bounds de-duplication retries before a
	// duplicate is accepted.
	MaxSynthesisAttempts int

	// LargeTableMaxFactor is the largest factor in the large times table.
	LargeTableMaxFactor int

	// MinFactor is the smallest factor for either times table.
	MinFactor int

	// SlowThreshold steps difficulty down when the average answer time
	// exceeds it, regardless of accuracy.
	SlowThreshold time.Duration

	// FastThreshold steps difficulty up on perfect accuracy below it.
	FastThreshold time.Duration

	// LowAccuracyThreshold steps difficulty down when recent accuracy is
	// strictly below it.
	LowAccuracyThreshold float64
}

// DefaultConfig returns the standard generator configuration.
func DefaultConfig() Config {
	return Config{
		RetryProbability:     0.3,
		GapFillProbability:   0.3,
		MaxSynthesisAttempts: 50,
		LargeTableMaxFactor:  20,
		MinFactor:            2,
		SlowThreshold:        7 * time.Second,
		FastThreshold:        3 * time.Second,
		LowAccuracyThreshold: 0.01,
	}
}
