package session

import (
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathdrill/internal/exercise"
	"github.com/abhisek/mathdrill/internal/mastery"
	"github.com/abhisek/mathdrill/internal/problemgen"
)

var testStart = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestMachine(t *testing.T, genCfg problemgen.Config, settings Settings) *Machine {
	t.Helper()
	n := 0
	gen := problemgen.New(genCfg, problemgen.NewRand(7),
		problemgen.WithClock(func() time.Time { return testStart }),
		problemgen.WithIDFunc(func() string { n++; return fmt.Sprintf("ex-%d", n) }),
	)
	clock := testStart
	m := New(DefaultConfig(), gen, settings,
		WithSessionID("session-1"),
		WithClock(func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		}),
	)
	m.Start()
	require.Equal(t, PhaseInProgress, m.Phase())
	return m
}

func enter(m *Machine, n int) {
	if n < 0 {
		m.ToggleNegative()
		n = -n
	}
	for _, r := range strconv.Itoa(n) {
		m.AppendDigit(int(r - '0'))
	}
}

func current(t *testing.T, m *Machine) exercise.Exercise {
	t.Helper()
	ex, ok := m.Current()
	require.True(t, ok)
	return ex
}

func answerCorrect(t *testing.T, m *Machine, elapsed time.Duration) []Effect {
	t.Helper()
	enter(m, current(t, m).CorrectAnswer())
	return m.Submit(elapsed)
}

// failExercise exhausts the attempts on the current exercise.
func failExercise(t *testing.T, m *Machine, elapsed time.Duration) {
	t.Helper()
	wrong := current(t, m).CorrectAnswer() + 1
	for i := 0; i < DefaultConfig().MaxAttempts; i++ {
		m.ClearIncorrect()
		enter(m, wrong)
		m.Submit(elapsed)
	}
	require.IsType(t, FeedbackShowAnswer{}, m.Feedback())
}

func largeOnly(d exercise.Difficulty) Settings {
	return Settings{
		Length:     10,
		Difficulty: d,
		Categories: []exercise.Category{exercise.AdditionTo100, exercise.SubtractionTo100},
		Adaptive:   true,
	}
}

func hasEffect[T Effect](effects []Effect) (T, bool) {
	for _, e := range effects {
		if v, ok := e.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func TestMachine_Start(t *testing.T) {
	m := newTestMachine(t, problemgen.DefaultConfig(), largeOnly(exercise.Easy))

	assert.Equal(t, "session-1", m.ID())
	assert.Equal(t, 10, m.Len())
	assert.Equal(t, 0, m.Index())
	assert.Equal(t, FeedbackNone{}, m.Feedback())
	assert.Equal(t, exercise.Easy, m.Difficulty())

	seen := problemgen.NewSignatureSet()
	for _, ex := range m.Exercises() {
		assert.Equal(t, exercise.Easy, ex.Difficulty)
		assert.False(t, seen.Has(ex.Signature()), "duplicate %s", ex.Signature())
		seen.Add(ex.Signature())
	}
}

func TestMachine_DefaultLength(t *testing.T) {
	settings := largeOnly(exercise.Easy)
	settings.Length = 0
	m := newTestMachine(t, problemgen.DefaultConfig(), settings)
	assert.Equal(t, DefaultSessionLength, m.Len())
}

func TestMachine_EventsBeforeStartAreIgnored(t *testing.T) {
	gen := problemgen.New(problemgen.DefaultConfig(), problemgen.NewRand(1))
	m := New(DefaultConfig(), gen, largeOnly(exercise.Easy))

	assert.Nil(t, m.AppendDigit(4))
	assert.Nil(t, m.Submit(time.Second))
	assert.Nil(t, m.Next())
	assert.Equal(t, PhaseNotStarted, m.Phase())
	_, ok := m.Current()
	assert.False(t, ok)
}

func TestMachine_CorrectFirstTry(t *testing.T) {
	m := newTestMachine(t, problemgen.DefaultConfig(), largeOnly(exercise.Easy))
	ex := current(t, m)

	effects := answerCorrect(t, m, 2*time.Second)

	assert.Equal(t, FeedbackCorrect{Stars: 3}, m.Feedback())
	rec, ok := hasEffect[ResultRecorded](effects)
	require.True(t, ok)
	assert.Equal(t, ex, rec.Result.Exercise)
	assert.True(t, rec.Result.Correct)
	assert.Equal(t, 1, rec.Result.Attempts)
	assert.Equal(t, 2*time.Second, rec.Result.Elapsed)

	snd, _ := hasEffect[PlaySound](effects)
	assert.Equal(t, SoundCorrect, snd.Sound)
	stars, _ := hasEffect[ShowStars](effects)
	assert.Equal(t, 3, stars.Count)
}

func TestMachine_ElapsedIsCapped(t *testing.T) {
	m := newTestMachine(t, problemgen.DefaultConfig(), largeOnly(exercise.Easy))
	answerCorrect(t, m, 45*time.Second)

	results := m.Results()
	require.Len(t, results, 1)
	assert.Equal(t, exercise.DefaultElapsedCap, results[0].Elapsed)
}

func TestMachine_RevengeAfterMiss(t *testing.T) {
	m := newTestMachine(t, problemgen.DefaultConfig(), largeOnly(exercise.Easy))

	enter(m, current(t, m).CorrectAnswer()+1)
	m.Submit(time.Second)
	assert.True(t, IsRetryable(m.Feedback()))
	assert.Empty(t, m.Results())

	m.ClearIncorrect()
	assert.Equal(t, FeedbackNone{}, m.Feedback())
	assert.Equal(t, "", m.Buffer())

	effects := answerCorrect(t, m, time.Second)
	assert.Equal(t, FeedbackRevenge{Stars: 2}, m.Feedback())
	snd, _ := hasEffect[PlaySound](effects)
	assert.Equal(t, SoundRevenge, snd.Sound)
}

func TestMachine_RevengeOnRetryDraw(t *testing.T) {
	var records []mastery.Record
	for i := 0; i < 3; i++ {
		records = append(records, mastery.Record{
			Category: exercise.AdditionTo10,
			First:    2,
			Second:   3,
			Correct:  false,
		})
	}
	cfg := problemgen.DefaultConfig()
	cfg.RetryProbability = 1
	m := newTestMachine(t, cfg, Settings{
		Length:     3,
		Difficulty: exercise.Easy,
		Categories: []exercise.Category{exercise.AdditionTo10},
		Metrics:    mastery.ComputeMetrics(records),
	})

	ex := current(t, m)
	require.True(t, ex.IsRetry)
	assert.Equal(t, 2, ex.First)
	assert.Equal(t, 3, ex.Second)

	answerCorrect(t, m, time.Second)
	assert.Equal(t, FeedbackRevenge{Stars: 3}, m.Feedback())
}

func TestMachine_ShowAnswerAfterMaxAttempts(t *testing.T) {
	m := newTestMachine(t, problemgen.DefaultConfig(), largeOnly(exercise.Easy))
	ex := current(t, m)

	failExercise(t, m, time.Second)

	assert.Equal(t, FeedbackShowAnswer{Answer: ex.CorrectAnswer()}, m.Feedback())
	results := m.Results()
	require.Len(t, results, 1)
	assert.False(t, results[0].Correct)
	assert.True(t, results[0].WasRevealed)
	assert.Equal(t, 2, results[0].Attempts)
	assert.Equal(t, 0, results[0].Stars())
}

func TestMachine_WrongOperation(t *testing.T) {
	m := newTestMachine(t, problemgen.DefaultConfig(), Settings{
		Length:     10,
		Difficulty: exercise.Medium,
		Categories: []exercise.Category{exercise.SubtractionTo10},
	})

	ex := current(t, m)
	for ex.Second == 0 {
		m.Skip(time.Second)
		m.Next()
		ex = current(t, m)
	}

	enter(m, ex.First+ex.Second)
	effects := m.Submit(time.Second)

	assert.Equal(t, FeedbackWrongOperation{Correct: exercise.Subtract, Wrong: exercise.Add}, m.Feedback())
	assert.Equal(t, 1, m.Attempts())
	snd, _ := hasEffect[PlaySound](effects)
	assert.Equal(t, SoundIncorrect, snd.Sound)

	// input is locked until the feedback is cleared
	m.AppendDigit(1)
	assert.Equal(t, strconv.Itoa(ex.First+ex.Second), m.Buffer())
	m.ClearIncorrect()
	assert.Equal(t, "", m.Buffer())
}

func TestMachine_BufferEditing(t *testing.T) {
	m := newTestMachine(t, problemgen.DefaultConfig(), largeOnly(exercise.Easy))

	for _, d := range []int{1, 2, 3, 4} {
		m.AppendDigit(d)
	}
	assert.Equal(t, "123", m.Buffer())

	m.AppendDigit(12)
	assert.Equal(t, "123", m.Buffer())

	m.DeleteDigit()
	assert.Equal(t, "12", m.Buffer())
	m.DeleteDigit()
	m.DeleteDigit()
	m.DeleteDigit()
	assert.Equal(t, "", m.Buffer())
}

func TestMachine_SubmitEmptyBufferIsIgnored(t *testing.T) {
	m := newTestMachine(t, problemgen.DefaultConfig(), largeOnly(exercise.Easy))

	assert.Nil(t, m.Submit(time.Second))
	assert.Equal(t, 0, m.Attempts())
	assert.Equal(t, FeedbackNone{}, m.Feedback())
}

func TestMachine_ToggleNegative(t *testing.T) {
	tests := []struct {
		name     string
		category exercise.Category
		want     string
	}{
		{"subtraction to 100", exercise.SubtractionTo100, "-5"},
		{"subtraction to 10", exercise.SubtractionTo10, "5"},
		{"addition to 100", exercise.AdditionTo100, "5"},
		{"multiplication", exercise.MultiplicationSmall, "5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t, problemgen.DefaultConfig(), Settings{
				Length:     2,
				Difficulty: exercise.Medium,
				Categories: []exercise.Category{tt.category},
			})
			m.AppendDigit(5)
			m.ToggleNegative()
			assert.Equal(t, tt.want, m.Buffer())
		})
	}
}

func TestMachine_SkipAndReveal(t *testing.T) {
	m := newTestMachine(t, problemgen.DefaultConfig(), largeOnly(exercise.Easy))

	effects := m.Skip(3 * time.Second)
	rec, ok := hasEffect[ResultRecorded](effects)
	require.True(t, ok)
	assert.True(t, rec.Result.WasSkipped)
	assert.False(t, rec.Result.WasRevealed)
	assert.Equal(t, 1, rec.Result.Attempts)
	assert.IsType(t, FeedbackShowAnswer{}, m.Feedback())

	// a second skip on a resolved exercise records nothing
	assert.Nil(t, m.Skip(time.Second))

	m.Next()
	effects = m.Reveal(20 * time.Second)
	rec, ok = hasEffect[ResultRecorded](effects)
	require.True(t, ok)
	assert.True(t, rec.Result.WasRevealed)
	assert.Equal(t, exercise.DefaultElapsedCap, rec.Result.Elapsed)
	assert.Len(t, m.Results(), 2)
}

func TestMachine_NextRequiresResolvedExercise(t *testing.T) {
	m := newTestMachine(t, problemgen.DefaultConfig(), largeOnly(exercise.Easy))

	assert.Nil(t, m.Next())
	assert.Equal(t, 0, m.Index())

	enter(m, current(t, m).CorrectAnswer()+1)
	m.Submit(time.Second)
	assert.Nil(t, m.Next())
	assert.Equal(t, 0, m.Index())

	m.ClearIncorrect()
	answerCorrect(t, m, time.Second)
	m.Next()
	assert.Equal(t, 1, m.Index())
	assert.Equal(t, FeedbackNone{}, m.Feedback())
	assert.Equal(t, 0, m.Attempts())
}

func TestMachine_Completion(t *testing.T) {
	settings := largeOnly(exercise.Easy)
	settings.Length = 3
	settings.Adaptive = false
	m := newTestMachine(t, problemgen.DefaultConfig(), settings)

	var last []Effect
	for i := 0; i < 3; i++ {
		answerCorrect(t, m, 2*time.Second)
		last = m.Next()
	}

	assert.Equal(t, PhaseCompleted, m.Phase())
	done, ok := hasEffect[SessionCompleted](last)
	require.True(t, ok)
	sum := done.Summary
	assert.Equal(t, "session-1", sum.SessionID)
	assert.Equal(t, 3, sum.TotalExercises)
	assert.Equal(t, 3, sum.Correct)
	assert.Equal(t, 9, sum.Stars)
	assert.InDelta(t, 1.0, sum.Accuracy, 1e-9)
	assert.True(t, sum.Completed())
	// the test clock ticks a minute on every read: start, each result, completion
	assert.Equal(t, 4*time.Minute, sum.Duration)
	require.Len(t, sum.Results, 3)
	for i, r := range sum.Results {
		assert.Equal(t, testStart.Add(time.Duration(i+2)*time.Minute), r.RecordedAt)
		assert.Equal(t, r.RecordedAt, r.At())
	}

	total := 0
	for _, c := range sum.PerCategory {
		total += c.Total
	}
	assert.Equal(t, 3, total)

	assert.Nil(t, m.Next())
	assert.Nil(t, m.AppendDigit(1))
	_, ok = m.Current()
	assert.False(t, ok)
}

func TestMachine_StartAfterCompletionIsIgnored(t *testing.T) {
	settings := largeOnly(exercise.Easy)
	settings.Length = 1
	m := newTestMachine(t, problemgen.DefaultConfig(), settings)
	answerCorrect(t, m, time.Second)
	m.Next()
	require.Equal(t, PhaseCompleted, m.Phase())
	before := m.Exercises()

	assert.Nil(t, m.Start())
	assert.Equal(t, PhaseCompleted, m.Phase())
	assert.Equal(t, "session-1", m.ID())
	assert.Equal(t, before, m.Exercises())
	assert.Len(t, m.Results(), 1)
}

// With the default thresholds an all-wrong pair already steps down at the
// second exercise, so by the fourth the session sits at the floor and the
// frustration rule can only encourage.
func TestMachine_AllWrongFromEasyWithDefaults(t *testing.T) {
	m := newTestMachine(t, problemgen.DefaultConfig(), largeOnly(exercise.Easy))

	failExercise(t, m, 5*time.Second)
	assert.Empty(t, m.Next())

	failExercise(t, m, 5*time.Second)
	effects := m.Next()
	assert.Equal(t, []Effect{DifficultyChanged{From: exercise.Easy, To: exercise.VeryEasy, Reason: ReasonAdaptive}}, effects)
	afterStepDown := m.Exercises()

	failExercise(t, m, 5*time.Second)
	assert.Empty(t, m.Next())

	failExercise(t, m, 5*time.Second)
	effects = m.Next()
	assert.Equal(t, []Effect{ShowEncouragement{}}, effects)
	assert.True(t, m.Encouragement())
	assert.Equal(t, exercise.VeryEasy, m.Difficulty())
	assert.Equal(t, afterStepDown, m.Exercises())
}

func TestMachine_AllWrongFromMediumWithDefaults(t *testing.T) {
	m := newTestMachine(t, problemgen.DefaultConfig(), largeOnly(exercise.Medium))

	for i := 0; i < 2; i++ {
		failExercise(t, m, 5*time.Second)
		m.Next()
	}
	assert.Equal(t, exercise.Easy, m.Difficulty())
	mid := m.Exercises()

	var effects []Effect
	for i := 0; i < 2; i++ {
		failExercise(t, m, 5*time.Second)
		effects = m.Next()
	}

	_, ok := hasEffect[ShowEncouragement](effects)
	assert.True(t, ok)
	changed, ok := hasEffect[DifficultyChanged](effects)
	require.True(t, ok)
	assert.Equal(t, DifficultyChanged{From: exercise.Easy, To: exercise.VeryEasy, Reason: ReasonFrustration}, changed)

	after := m.Exercises()
	require.Len(t, after, 10)
	assert.Equal(t, mid[:4], after[:4])
	for _, ex := range after[4:] {
		assert.Equal(t, exercise.VeryEasy, ex.Difficulty)
	}
}

// Lowering the all-wrong threshold to zero leaves the frustration rule as
// the only step down on a losing streak.
func TestMachine_FrustrationStepsDownAndRegenerates(t *testing.T) {
	cfg := problemgen.DefaultConfig()
	cfg.LowAccuracyThreshold = 0
	m := newTestMachine(t, cfg, largeOnly(exercise.Easy))
	before := m.Exercises()

	var effects []Effect
	for i := 0; i < 4; i++ {
		failExercise(t, m, 5*time.Second)
		effects = m.Next()
		if i == 1 {
			assert.Empty(t, effects, "no change after two misses")
		}
	}

	_, ok := hasEffect[ShowEncouragement](effects)
	assert.True(t, ok)
	assert.True(t, m.Encouragement())
	changed, ok := hasEffect[DifficultyChanged](effects)
	require.True(t, ok)
	assert.Equal(t, DifficultyChanged{From: exercise.Easy, To: exercise.VeryEasy, Reason: ReasonFrustration}, changed)
	assert.Equal(t, exercise.VeryEasy, m.Difficulty())

	after := m.Exercises()
	require.Len(t, after, 10)
	assert.Equal(t, before[:4], after[:4])

	seen := problemgen.NewSignatureSet(after[:4]...)
	for _, ex := range after[4:] {
		assert.Equal(t, exercise.VeryEasy, ex.Difficulty)
		assert.False(t, seen.Has(ex.Signature()), "reused %s", ex.Signature())
		seen.Add(ex.Signature())
	}

	// encouragement clears on the next advance
	answerCorrect(t, m, 5*time.Second)
	m.Next()
	assert.False(t, m.Encouragement())
}

func TestMachine_FrustrationAtFloor(t *testing.T) {
	m := newTestMachine(t, problemgen.DefaultConfig(), largeOnly(exercise.VeryEasy))
	before := m.Exercises()

	var effects []Effect
	for i := 0; i < 4; i++ {
		failExercise(t, m, 5*time.Second)
		effects = m.Next()
	}

	_, ok := hasEffect[ShowEncouragement](effects)
	assert.True(t, ok)
	_, ok = hasEffect[DifficultyChanged](effects)
	assert.False(t, ok)
	assert.Equal(t, exercise.VeryEasy, m.Difficulty())
	assert.Equal(t, before, m.Exercises())
}

func TestMachine_AdaptiveStepUp(t *testing.T) {
	m := newTestMachine(t, problemgen.DefaultConfig(), largeOnly(exercise.Easy))

	answerCorrect(t, m, time.Second)
	assert.Empty(t, m.Next())
	answerCorrect(t, m, time.Second)
	effects := m.Next()

	changed, ok := hasEffect[DifficultyChanged](effects)
	require.True(t, ok)
	assert.Equal(t, DifficultyChanged{From: exercise.Easy, To: exercise.Medium, Reason: ReasonAdaptive}, changed)
	for _, ex := range m.Exercises()[2:] {
		assert.Equal(t, exercise.Medium, ex.Difficulty)
	}
}

func TestMachine_AdaptiveStepDownWhenSlow(t *testing.T) {
	m := newTestMachine(t, problemgen.DefaultConfig(), largeOnly(exercise.Medium))

	answerCorrect(t, m, 9*time.Second)
	m.Next()
	answerCorrect(t, m, 9*time.Second)
	effects := m.Next()

	changed, ok := hasEffect[DifficultyChanged](effects)
	require.True(t, ok)
	assert.Equal(t, exercise.Easy, changed.To)
	assert.Equal(t, ReasonAdaptive, changed.Reason)
}

func TestMachine_NonAdaptiveKeepsDifficulty(t *testing.T) {
	settings := largeOnly(exercise.Easy)
	settings.Adaptive = false
	m := newTestMachine(t, problemgen.DefaultConfig(), settings)

	for i := 0; i < 6; i++ {
		answerCorrect(t, m, time.Second)
		assert.Empty(t, m.Next())
	}
	assert.Equal(t, exercise.Easy, m.Difficulty())
}

func TestMachine_PartialSummary(t *testing.T) {
	m := newTestMachine(t, problemgen.DefaultConfig(), largeOnly(exercise.Easy))
	answerCorrect(t, m, time.Second)
	m.Next()
	failExercise(t, m, time.Second)

	sum := m.Summary()
	assert.Equal(t, 10, sum.TotalExercises)
	assert.Equal(t, 2, sum.Answered)
	assert.Equal(t, 1, sum.Correct)
	assert.False(t, sum.Completed())
	assert.InDelta(t, 0.5, sum.Accuracy, 1e-9)
}
