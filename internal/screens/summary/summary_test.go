package summary

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathdrill/internal/engagement"
	"github.com/abhisek/mathdrill/internal/exercise"
	"github.com/abhisek/mathdrill/internal/router"
	"github.com/abhisek/mathdrill/internal/session"
)

func testSummary() session.Summary {
	return session.Summary{
		SessionID:       "s1",
		StartedAt:       time.Date(2026, 4, 2, 16, 0, 0, 0, time.UTC),
		Duration:        3*time.Minute + 5*time.Second,
		TotalExercises:  10,
		Answered:        10,
		Correct:         8,
		Accuracy:        0.8,
		Stars:           21,
		StartDifficulty: exercise.Easy,
		EndDifficulty:   exercise.Medium,
		PerCategory: []session.CategorySummary{
			{Category: exercise.AdditionTo10, Total: 6, Correct: 6, Stars: 16},
			{Category: exercise.SubtractionTo10, Total: 4, Correct: 2, Stars: 5},
		},
	}
}

func testOutcome() engagement.Outcome {
	return engagement.Outcome{
		Unlocked:       []engagement.Achievement{engagement.NewAchievement(engagement.Exercises10)},
		Streak:         3,
		StreakAdvanced: true,
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New(testSummary(), testOutcome())
	if s.Title() != "Session Summary" {
		t.Errorf("Title = %q, want %q", s.Title(), "Session Summary")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	s := New(testSummary(), testOutcome())
	view := s.View(100, 30)

	for _, want := range []string{
		"Session complete!",
		"Duration: 3:05",
		"Exercises: 10/10",
		"Accuracy: 80%",
		"21 stars earned",
		"Easy > Medium",
		"Addition to 10",
		"3 day streak",
		engagement.Exercises10.DisplayName(),
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSummaryScreen_PartialSession(t *testing.T) {
	sum := testSummary()
	sum.Answered = 4
	view := New(sum, engagement.Outcome{}).View(100, 30)

	if !strings.Contains(view, "stopped early") {
		t.Error("expected partial-session heading")
	}
	if strings.Contains(view, "streak") {
		t.Error("streak line should be hidden when the streak did not advance")
	}
}

func TestSummaryScreen_Navigation(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyPressMsg
	}{
		{"enter", tea.KeyPressMsg{Code: tea.KeyEnter}},
		{"esc", tea.KeyPressMsg{Code: tea.KeyEscape}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(testSummary(), testOutcome())
			_, cmd := s.Update(tt.key)
			if cmd == nil {
				t.Fatal("expected a navigation command")
			}
			if _, ok := cmd().(router.PopToRootMsg); !ok {
				t.Errorf("expected PopToRootMsg, got %T", cmd())
			}
		})
	}
}

func TestSummaryScreen_KeyHints(t *testing.T) {
	s := New(testSummary(), testOutcome())
	hints := s.KeyHints()
	if len(hints) != 2 {
		t.Errorf("KeyHints length = %d, want 2", len(hints))
	}
}
