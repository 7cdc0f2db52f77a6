package simulate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathdrill/internal/engagement"
	"github.com/abhisek/mathdrill/internal/exercise"
	"github.com/abhisek/mathdrill/internal/store"
)

func runMemory(t *testing.T, opts Options) []Report {
	t.Helper()
	backend := NewMemoryBackend(func() time.Time { return opts.Start.Add(time.Duration(opts.Sessions) * opts.SessionGap) })
	reports, err := NewRunner(DefaultEngines(), backend, nil).Run(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, reports, opts.Sessions)
	return reports
}

func TestRun_PerfectLearner(t *testing.T) {
	opts := DefaultOptions()
	opts.Accuracy = 1
	reports := runMemory(t, opts)

	for i, r := range reports {
		assert.Equal(t, i+1, r.Streak)
		assert.Equal(t, 10, r.Summary.Correct)
		assert.Equal(t, 30, r.Summary.Stars)
		assert.True(t, r.Summary.Completed())
	}

	assert.Contains(t, reports[0].Unlocked, engagement.Exercises10)
	assert.Contains(t, reports[0].Unlocked, engagement.SpeedDemon)
	assert.Contains(t, reports[2].Unlocked, engagement.Streak3)
	assert.Contains(t, reports[3].Unlocked, engagement.AllStars)
	assert.Contains(t, reports[4].Unlocked, engagement.Exercises50)
	assert.Contains(t, reports[6].Unlocked, engagement.Streak7)
	assert.NotContains(t, reports[6].Unlocked, engagement.Perfect10)
}

func TestRun_StrugglingLearnerStepsDown(t *testing.T) {
	opts := DefaultOptions()
	opts.Accuracy = 0
	opts.Sessions = 2
	easy := exercise.Easy
	opts.Difficulty = &easy
	reports := runMemory(t, opts)

	first := reports[0]
	assert.Equal(t, 0, first.Summary.Correct)
	assert.Equal(t, exercise.VeryEasy, first.Summary.EndDifficulty)
	require.NotEmpty(t, first.Trajectory)
	assert.Equal(t, exercise.Easy, first.Trajectory[0].From)
	assert.Equal(t, exercise.VeryEasy, first.Trajectory[0].To)

	assert.Equal(t, 0, first.WeakPairs)
	assert.Positive(t, reports[1].WeakPairs)
	for _, res := range first.Summary.Results {
		assert.True(t, res.WasRevealed)
		assert.Equal(t, 2, res.Attempts)
	}
}

func TestRun_Deterministic(t *testing.T) {
	opts := DefaultOptions()
	opts.Sessions = 3
	opts.GapFill = true

	a := runMemory(t, opts)
	b := runMemory(t, opts)
	for i := range a {
		assert.Equal(t, a[i].Summary.Correct, b[i].Summary.Correct)
		assert.Equal(t, a[i].Summary.EndDifficulty, b[i].Summary.EndDifficulty)
		require.Len(t, b[i].Summary.Results, len(a[i].Summary.Results))
		for j := range a[i].Summary.Results {
			assert.Equal(t, a[i].Summary.Results[j].Exercise.Signature(), b[i].Summary.Results[j].Exercise.Signature())
		}
	}
}

func TestRun_CancelledContext(t *testing.T) {
	opts := DefaultOptions()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reports, err := NewRunner(DefaultEngines(), NewMemoryBackend(time.Now), nil).Run(ctx, opts)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, reports)
}

func TestRun_PersistsToStore(t *testing.T) {
	s, err := store.Open("file:simulate_persist?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	opts := DefaultOptions()
	opts.Sessions = 3
	opts.Start = time.Now().Add(-72 * time.Hour)
	reports, err := NewRunner(DefaultEngines(), s, nil).Run(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, reports, 3)

	ctx := context.Background()
	user, err := s.LoadUser(ctx, opts.UserID)
	require.NoError(t, err)
	assert.Equal(t, 30, user.TotalExercises)
	assert.Equal(t, 3, user.TotalSessions)

	records, err := s.RecentRecords(ctx, opts.UserID, store.DefaultWindow)
	require.NoError(t, err)
	assert.Len(t, records, 30)
}

func TestMemoryBackend_Window(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	b := NewMemoryBackend(func() time.Time { return now })
	opts := DefaultOptions()
	opts.Sessions = 2
	opts.Start = now.AddDate(0, 0, -45)
	opts.SessionGap = 40 * 24 * time.Hour

	_, err := NewRunner(DefaultEngines(), b, nil).Run(context.Background(), opts)
	require.NoError(t, err)

	all, _ := b.RecentRecords(context.Background(), opts.UserID, store.Window{})
	assert.Len(t, all, 20)
	recent, _ := b.RecentRecords(context.Background(), opts.UserID, store.Window{Days: 30})
	assert.Len(t, recent, 10)
	capped, _ := b.RecentRecords(context.Background(), opts.UserID, store.Window{Size: 3})
	assert.Len(t, capped, 3)
}
