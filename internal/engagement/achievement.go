package engagement

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownAchievement is returned when an achievement tag cannot be parsed.
var ErrUnknownAchievement = errors.New("unknown achievement")

// AchievementType identifies the kind of achievement.
type AchievementType string

const (
	Exercises10  AchievementType = "exercises10"
	Exercises50  AchievementType = "exercises50"
	Exercises100 AchievementType = "exercises100"
	Exercises500 AchievementType = "exercises500"
	Streak3      AchievementType = "streak3"
	Streak7      AchievementType = "streak7"
	Streak30     AchievementType = "streak30"
	Perfect10    AchievementType = "perfect10"
	AllStars     AchievementType = "allStars"
	SpeedDemon   AchievementType = "speedDemon"
	EarlyBird    AchievementType = "earlyBird"
	NightOwl     AchievementType = "nightOwl"
)

// AllAchievementTypes returns all achievement types in display order.
func AllAchievementTypes() []AchievementType {
	return []AchievementType{
		Exercises10, Exercises50, Exercises100, Exercises500,
		Streak3, Streak7, Streak30,
		Perfect10, AllStars,
		SpeedDemon, EarlyBird, NightOwl,
	}
}

// ParseAchievementType parses a stored achievement tag.
func ParseAchievementType(s string) (AchievementType, error) {
	for _, t := range AllAchievementTypes() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAchievement, s)
}

// Target returns the progress value at which the achievement unlocks.
func (t AchievementType) Target() int {
	switch t {
	case Exercises10:
		return 10
	case Exercises50:
		return 50
	case Exercises100:
		return 100
	case Exercises500:
		return 500
	case Streak3:
		return 3
	case Streak7:
		return 7
	case Streak30:
		return 30
	case Perfect10:
		return 10
	case AllStars:
		return 100
	default:
		return 1
	}
}

// DisplayName returns a human-readable label for the achievement.
func (t AchievementType) DisplayName() string {
	switch t {
	case Exercises10:
		return "First Steps"
	case Exercises50:
		return "Getting Going"
	case Exercises100:
		return "Century"
	case Exercises500:
		return "Marathon"
	case Streak3:
		return "Three in a Row"
	case Streak7:
		return "Week Warrior"
	case Streak30:
		return "Monthly Master"
	case Perfect10:
		return "Perfectionist"
	case AllStars:
		return "Star Collector"
	case SpeedDemon:
		return "Speed Demon"
	case EarlyBird:
		return "Early Bird"
	case NightOwl:
		return "Night Owl"
	default:
		return string(t)
	}
}

// Description explains how to earn the achievement.
func (t AchievementType) Description() string {
	switch t {
	case Exercises10, Exercises50, Exercises100, Exercises500:
		return fmt.Sprintf("Solve %d exercises", t.Target())
	case Streak3, Streak7, Streak30:
		return fmt.Sprintf("Practice %d days in a row", t.Target())
	case Perfect10:
		return "Finish 10 sessions without a mistake"
	case AllStars:
		return "Collect 100 stars"
	case SpeedDemon:
		return "Finish a full session in under two minutes"
	case EarlyBird:
		return "Practice before 8 in the morning"
	case NightOwl:
		return "Practice after 8 in the evening"
	default:
		return ""
	}
}

// Icon returns the display icon for the achievement.
func (t AchievementType) Icon() string {
	switch t {
	case Exercises10, Exercises50, Exercises100, Exercises500:
		return "🎯"
	case Streak3, Streak7, Streak30:
		return "🔥"
	case Perfect10:
		return "💎"
	case AllStars:
		return "⭐"
	case SpeedDemon:
		return "⚡"
	case EarlyBird:
		return "🌅"
	case NightOwl:
		return "🦉"
	default:
		return "✦"
	}
}

// Achievement is the persisted progress toward one achievement type.
// Progress never decreases and UnlockedAt, once set, stays set.
type Achievement struct {
	Type       AchievementType
	Progress   int
	Target     int
	UnlockedAt *time.Time
}

// NewAchievement returns a locked achievement with zero progress.
func NewAchievement(t AchievementType) Achievement {
	return Achievement{Type: t, Target: t.Target()}
}

// Unlocked reports whether the achievement has been earned.
func (a Achievement) Unlocked() bool {
	return a.UnlockedAt != nil
}

// Fraction returns progress toward the target in [0, 1].
func (a Achievement) Fraction() float64 {
	if a.Target <= 0 {
		return 0
	}
	return min(float64(a.Progress)/float64(a.Target), 1)
}
