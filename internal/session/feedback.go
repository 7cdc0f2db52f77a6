package session

import "github.com/abhisek/mathdrill/internal/exercise"

// Feedback is the per-exercise feedback state. It is one of
// FeedbackNone, FeedbackCorrect, FeedbackRevenge, FeedbackIncorrect,
// FeedbackWrongOperation or FeedbackShowAnswer.
type Feedback interface {
	feedback()
}

// FeedbackNone means the learner is entering an answer.
type FeedbackNone struct{}

// FeedbackCorrect is a plain correct solve.
type FeedbackCorrect struct {
	Stars int
}

// FeedbackRevenge is a correct solve after an earlier failure, on a
// historically weak pair, or on a retry draw.
type FeedbackRevenge struct {
	Stars int
}

// FeedbackIncorrect is a wrong answer with attempts remaining.
type FeedbackIncorrect struct{}

// FeedbackWrongOperation means the learner entered the result of the
// opposite operation on the same operands.
type FeedbackWrongOperation struct {
	Correct exercise.Operation
	Wrong   exercise.Operation
}

// FeedbackShowAnswer reveals the correct answer after attempts ran out,
// or after a skip.
type FeedbackShowAnswer struct {
	Answer int
}

func (FeedbackNone) feedback()           {}
func (FeedbackCorrect) feedback()        {}
func (FeedbackRevenge) feedback()        {}
func (FeedbackIncorrect) feedback()      {}
func (FeedbackWrongOperation) feedback() {}
func (FeedbackShowAnswer) feedback()     {}

// AcceptsInput reports whether the answer buffer may be edited.
func AcceptsInput(f Feedback) bool {
	switch f.(type) {
	case FeedbackNone:
		return true
	case FeedbackCorrect, FeedbackRevenge, FeedbackIncorrect, FeedbackWrongOperation, FeedbackShowAnswer:
		return false
	default:
		return false
	}
}

// IsRetryable reports whether the learner can clear the feedback and try
// the same exercise again.
func IsRetryable(f Feedback) bool {
	switch f.(type) {
	case FeedbackIncorrect, FeedbackWrongOperation:
		return true
	case FeedbackNone, FeedbackCorrect, FeedbackRevenge, FeedbackShowAnswer:
		return false
	default:
		return false
	}
}

// IsResolved reports whether the feedback closes the current exercise.
func IsResolved(f Feedback) bool {
	switch f.(type) {
	case FeedbackCorrect, FeedbackRevenge, FeedbackShowAnswer:
		return true
	case FeedbackNone, FeedbackIncorrect, FeedbackWrongOperation:
		return false
	default:
		return false
	}
}

// FeedbackName returns a short identifier for logs and display.
func FeedbackName(f Feedback) string {
	switch f.(type) {
	case FeedbackNone:
		return "none"
	case FeedbackCorrect:
		return "correct"
	case FeedbackRevenge:
		return "revenge"
	case FeedbackIncorrect:
		return "incorrect"
	case FeedbackWrongOperation:
		return "wrong_operation"
	case FeedbackShowAnswer:
		return "show_answer"
	default:
		return "unknown"
	}
}
