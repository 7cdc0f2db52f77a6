package drill

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathdrill/internal/engagement"
	"github.com/abhisek/mathdrill/internal/exercise"
	"github.com/abhisek/mathdrill/internal/mastery"
	"github.com/abhisek/mathdrill/internal/session"
	"github.com/abhisek/mathdrill/internal/store"
)

var testNow = time.Date(2026, 3, 9, 18, 30, 0, 0, time.Local)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	s, err := store.Open("file:"+t.Name()+"?mode=memory&cache=shared",
		store.WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	engine := engagement.NewEngine(engagement.DefaultConfig(),
		engagement.WithClock(func() time.Time { return testNow }))
	return NewService(s, mastery.DefaultConfig(), store.DefaultWindow, engine, nil), s
}

// summaryOf builds a session in which every exercise is 3+4 and the first
// correct answers are right on the first try.
func summaryOf(id string, start time.Time, total, correct int) session.Summary {
	results := make([]exercise.Result, 0, total)
	for i := 0; i < total; i++ {
		ex := exercise.Exercise{
			ID:         id + "-" + string(rune('a'+i)),
			Category:   exercise.AdditionTo10,
			Operation:  exercise.Add,
			First:      3,
			Second:     4,
			Difficulty: exercise.Easy,
			CreatedAt:  start.Add(time.Duration(i) * 5 * time.Second),
		}
		r := exercise.Result{Exercise: ex, Answer: 7, Correct: true, Attempts: 1, Elapsed: 3 * time.Second}
		if i >= correct {
			r = exercise.Result{Exercise: ex, Attempts: 3, Elapsed: 9 * time.Second, WasRevealed: true}
		}
		results = append(results, r)
	}
	return session.Summary{
		SessionID:       id,
		StartedAt:       start,
		Duration:        time.Duration(total) * 5 * time.Second,
		TotalExercises:  total,
		Answered:        total,
		Correct:         correct,
		Accuracy:        exercise.Accuracy(results),
		Stars:           exercise.TotalStars(results),
		StartDifficulty: exercise.Easy,
		EndDifficulty:   exercise.Easy,
		Results:         results,
	}
}

func TestFinish_PersistsOutcome(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()

	out, err := svc.Finish(ctx, "kid", summaryOf("s1", testNow.Add(-time.Hour), 10, 10))
	require.NoError(t, err)
	assert.Equal(t, 1, out.Streak)
	assert.True(t, out.StreakAdvanced)

	var unlocked []engagement.AchievementType
	for _, a := range out.Unlocked {
		unlocked = append(unlocked, a.Type)
	}
	assert.Contains(t, unlocked, engagement.Exercises10)

	user, err := s.LoadUser(ctx, "kid")
	require.NoError(t, err)
	assert.Equal(t, 10, user.TotalExercises)
	assert.Equal(t, 30, user.TotalStars)

	m, err := svc.Metrics(ctx, "kid")
	require.NoError(t, err)
	acc, ok := m.Accuracy(exercise.AdditionTo10)
	require.True(t, ok)
	assert.InDelta(t, 1.0, acc, 1e-9)
}

func TestFinish_EmptySessionIsNotStored(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()

	sum := session.Summary{SessionID: "empty", StartedAt: testNow, TotalExercises: 10}
	out, err := svc.Finish(ctx, "kid", sum)
	require.NoError(t, err)
	assert.Empty(t, out.Unlocked)
	assert.Equal(t, 0, out.Streak)

	sessions, err := s.RecentSessions(ctx, "kid", 5)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestFinish_WeakPairsFeedMetrics(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Finish(ctx, "kid", summaryOf("s1", testNow.Add(-time.Hour), 5, 1))
	require.NoError(t, err)

	m, err := svc.Metrics(ctx, "kid")
	require.NoError(t, err)
	assert.True(t, m.IsWeak(exercise.AdditionTo10, 3, 4))
}

func TestProfile_HasEveryAchievement(t *testing.T) {
	svc, _ := newTestService(t)

	user, err := svc.Profile(context.Background(), "new-kid")
	require.NoError(t, err)
	assert.Len(t, user.Achievements, len(engagement.AllAchievementTypes()))
	for _, a := range user.Achievements {
		assert.False(t, a.Unlocked())
	}
}
