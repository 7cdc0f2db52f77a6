package problemgen

import (
	"math"

	"github.com/abhisek/mathdrill/internal/exercise"
	"github.com/abhisek/mathdrill/internal/mastery"
)

// NoTiming is passed as the average time when no timing data exists.
var NoTiming = math.Inf(1)

// AdaptDifficulty applies the in-session difficulty policy. averageSecs
// is the mean answer time in seconds, or NoTiming. Rules, first match wins:
//
//  1. finite average above SlowThreshold: one step down.
//  2. perfect accuracy and average below FastThreshold: one step up.
//  3. accuracy below LowAccuracyThreshold: one step down.
//  4. otherwise unchanged.
func (c Config) AdaptDifficulty(current exercise.Difficulty, recentAccuracy, averageSecs float64) exercise.Difficulty {
	finite := !math.IsInf(averageSecs, 0) && !math.IsNaN(averageSecs)

	switch {
	case finite && averageSecs > c.SlowThreshold.Seconds():
		return current.Lower()
	case recentAccuracy >= 1.0 && averageSecs < c.FastThreshold.Seconds():
		return current.Higher()
	case recentAccuracy < c.LowAccuracyThreshold:
		return current.Lower()
	default:
		return current
	}
}

// StartingDifficulty maps the mean category accuracy to a level. Missing
// or empty metrics start at VeryEasy.
func StartingDifficulty(m *mastery.Metrics) exercise.Difficulty {
	if m.IsEmpty() {
		return exercise.VeryEasy
	}
	mean := m.MeanAccuracy()
	switch {
	case mean >= 0.9:
		return exercise.Hard
	case mean >= 0.7:
		return exercise.Medium
	case mean >= 0.5:
		return exercise.Easy
	default:
		return exercise.VeryEasy
	}
}
