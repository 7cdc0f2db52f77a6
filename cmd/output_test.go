package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/mathdrill/internal/engagement"
	"github.com/abhisek/mathdrill/internal/exercise"
	"github.com/abhisek/mathdrill/internal/mastery"
	"github.com/abhisek/mathdrill/internal/session"
	"github.com/abhisek/mathdrill/internal/simulate"
)

func TestTextBar(t *testing.T) {
	tests := []struct {
		fraction float64
		want     string
	}{
		{0, "░░░░"},
		{0.5, "██░░"},
		{1, "████"},
		{1.7, "████"},
		{-1, "░░░░"},
	}
	for _, tt := range tests {
		if got := textBar(tt.fraction, 4); got != tt.want {
			t.Errorf("textBar(%v) = %q, want %q", tt.fraction, got, tt.want)
		}
	}
}

func TestPrintMastery(t *testing.T) {
	now := time.Now()
	var records []mastery.Record
	for i := 0; i < 4; i++ {
		records = append(records, mastery.Record{
			Category:  exercise.AdditionTo10,
			First:     3,
			Second:    4,
			Signature: exercise.Signature(exercise.AdditionTo10, 3, 4),
			Correct:   i == 0,
			Timestamp: now,
		})
	}

	var buf bytes.Buffer
	printMastery(&buf, mastery.ComputeMetrics(records))
	out := buf.String()
	for _, want := range []string{"Addition to 10", "25%", string(mastery.LabelNeedsWork), "weak: 3 + 4"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	printMastery(&buf, mastery.ComputeMetrics(nil))
	if !strings.Contains(buf.String(), "No history yet") {
		t.Errorf("empty metrics output = %q", buf.String())
	}
}

func TestPrintReports(t *testing.T) {
	reports := []simulate.Report{{
		Index:      1,
		StartedAt:  time.Date(2026, 3, 2, 16, 0, 0, 0, time.Local),
		Start:      exercise.Easy,
		Trajectory: []session.DifficultyChanged{{From: exercise.Easy, To: exercise.Medium, Reason: session.ReasonAdaptive}},
		Summary:    session.Summary{TotalExercises: 10, Correct: 9, Stars: 24},
		Unlocked:   []engagement.AchievementType{engagement.Exercises10},
		Streak:     1,
	}}

	var buf bytes.Buffer
	printReports(&buf, reports)
	out := buf.String()
	for _, want := range []string{"Mar 02", exercise.Easy.DisplayName() + " > " + exercise.Medium.DisplayName(), "9/10", engagement.Exercises10.DisplayName()} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
