package session

import (
	"time"

	"github.com/abhisek/mathdrill/internal/exercise"
	"github.com/abhisek/mathdrill/internal/mastery"
)

// DefaultSessionLength is the number of exercises in a session when the
// settings do not say otherwise.
const DefaultSessionLength = 10

// Config holds the session machine's tuning parameters.
type Config struct {
	// MaxAttempts is the number of submissions before the answer is shown.
	MaxAttempts int

	// MaxAnswerDigits caps the answer buffer length.
	MaxAnswerDigits int

	// ElapsedCap bounds the time recorded per exercise.
	ElapsedCap time.Duration

	// AdaptiveInterval runs the adaptive check every N exercises.
	AdaptiveInterval int

	// FrustrationWindow is the number of trailing results sampled for
	// frustration detection.
	FrustrationWindow int

	// FrustrationThreshold forces a step down when the window accuracy is
	// strictly below it.
	FrustrationThreshold float64

	// AdaptiveWindow is the number of trailing results fed to the
	// difficulty policy.
	AdaptiveWindow int
}

// DefaultConfig returns the standard session configuration.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:          2,
		MaxAnswerDigits:      3,
		ElapsedCap:           exercise.DefaultElapsedCap,
		AdaptiveInterval:     2,
		FrustrationWindow:    4,
		FrustrationThreshold: 0.4,
		AdaptiveWindow:       2,
	}
}

// Settings is the per-session configuration supplied by the caller.
type Settings struct {
	Length     int
	Difficulty exercise.Difficulty
	Categories []exercise.Category

	// Metrics is the historical snapshot used to bias generation and to
	// classify revenge solves. May be nil.
	Metrics *mastery.Metrics

	AllowGapFill bool

	// Adaptive enables the in-session difficulty check.
	Adaptive bool
}
