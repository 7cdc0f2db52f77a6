package engagement

import "time"

// Config holds the session-based achievement thresholds.
type Config struct {
	// SpeedDemonMinResults is the minimum session size for speedDemon.
	SpeedDemonMinResults int

	// SpeedDemonMaxDuration must be strictly greater than the session
	// duration for speedDemon.
	SpeedDemonMaxDuration time.Duration

	// EarlyBirdHour: sessions starting before this hour count.
	EarlyBirdHour int

	// NightOwlHour: sessions starting at or after this hour count.
	NightOwlHour int

	// PerfectMinExercises is the minimum session size for a perfect session.
	PerfectMinExercises int
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		SpeedDemonMinResults:  10,
		SpeedDemonMaxDuration: 120 * time.Second,
		EarlyBirdHour:         8,
		NightOwlHour:          20,
		PerfectMinExercises:   10,
	}
}
