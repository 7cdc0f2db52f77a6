package session

import (
	"time"

	"github.com/abhisek/mathdrill/internal/exercise"
)

// Event is an input to Machine.Apply.
type Event interface {
	event()
}

// Start generates the exercises and enters the in-progress phase.
type Start struct{}

// AppendDigit adds a digit (0-9) to the answer buffer.
type AppendDigit struct {
	Digit int
}

// DeleteDigit removes the last digit of the answer buffer.
type DeleteDigit struct{}

// ToggleNegative flips the sign of the pending answer. Only meaningful
// for categories that allow negative answers.
type ToggleNegative struct{}

// Submit grades the buffer. Elapsed is the time since the exercise was
// shown, as sampled by the caller.
type Submit struct {
	Elapsed time.Duration
}

// ClearIncorrect dismisses incorrect or wrong-operation feedback so the
// learner can try again.
type ClearIncorrect struct{}

// Skip gives up on the current exercise.
type Skip struct {
	Elapsed time.Duration
}

// Reveal shows the answer, e.g. when the presentation layer times out.
type Reveal struct {
	Elapsed time.Duration
}

// Next advances to the following exercise.
type Next struct{}

func (Start) event()          {}
func (AppendDigit) event()    {}
func (DeleteDigit) event()    {}
func (ToggleNegative) event() {}
func (Submit) event()         {}
func (ClearIncorrect) event() {}
func (Skip) event()           {}
func (Reveal) event()         {}
func (Next) event()           {}

// Effect is a user-facing side effect requested by a transition. The
// presentation layer decides how to render it.
type Effect interface {
	effect()
}

// Sound identifies a sound cue.
type Sound string

const (
	SoundCorrect   Sound = "correct"
	SoundRevenge   Sound = "revenge"
	SoundIncorrect Sound = "incorrect"
	SoundReveal    Sound = "reveal"
	SoundComplete  Sound = "complete"
)

// PlaySound asks for a sound cue.
type PlaySound struct {
	Sound Sound
}

// ShowStars asks for the star animation.
type ShowStars struct {
	Count int
}

// ShowEncouragement is raised when frustration is detected.
type ShowEncouragement struct{}

// ChangeReason says why the difficulty moved.
type ChangeReason string

const (
	ReasonFrustration ChangeReason = "frustration"
	ReasonAdaptive    ChangeReason = "adaptive"
)

// DifficultyChanged reports an in-session difficulty change.
type DifficultyChanged struct {
	From   exercise.Difficulty
	To     exercise.Difficulty
	Reason ChangeReason
}

// ResultRecorded carries a finalized exercise result.
type ResultRecorded struct {
	Result exercise.Result
}

// SessionCompleted is emitted once when the last exercise is passed.
type SessionCompleted struct {
	Summary Summary
}

func (PlaySound) effect()         {}
func (ShowStars) effect()         {}
func (ShowEncouragement) effect() {}
func (DifficultyChanged) effect() {}
func (ResultRecorded) effect()    {}
func (SessionCompleted) effect()  {}
