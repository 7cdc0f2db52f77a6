package achievements

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathdrill/internal/engagement"
	"github.com/abhisek/mathdrill/internal/router"
)

type fakeLoader struct {
	user engagement.UserStats
	err  error
}

func (f fakeLoader) Profile(context.Context, string) (engagement.UserStats, error) {
	return f.user, f.err
}

func testUser() engagement.UserStats {
	at := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	var list []engagement.Achievement
	for _, t := range engagement.AllAchievementTypes() {
		list = append(list, engagement.NewAchievement(t))
	}
	list[0].Progress = list[0].Target
	list[0].UnlockedAt = &at
	list[1].Progress = 20
	return engagement.UserStats{ID: "kid", Achievements: list}
}

func loadedScreen(t *testing.T, l ProfileLoader) *AchievementsScreen {
	t.Helper()
	s := New(l, "kid")
	cmd := s.Init()
	if cmd == nil {
		t.Fatal("expected Init to return a load command")
	}
	s.Update(cmd())
	return s
}

func TestAchievementsScreen_Loads(t *testing.T) {
	s := loadedScreen(t, fakeLoader{user: testUser()})
	if !s.loaded {
		t.Fatal("expected screen to be loaded")
	}

	view := s.View(100, 40)
	if !strings.Contains(view, "Unlocked: 1 of 12") {
		t.Errorf("view missing unlock count:\n%s", view)
	}
	if !strings.Contains(view, "unlocked Apr 01, 2026") {
		t.Error("view missing unlock date")
	}
}

func TestAchievementsScreen_Error(t *testing.T) {
	s := loadedScreen(t, fakeLoader{err: errors.New("db gone")})
	if !strings.Contains(s.View(80, 24), "db gone") {
		t.Error("expected error in view")
	}
}

func TestAchievementsScreen_Filters(t *testing.T) {
	s := loadedScreen(t, fakeLoader{user: testUser()})

	tests := []struct {
		filter Filter
		want   int
	}{
		{FilterAll, 12},
		{FilterUnlocked, 1},
		{FilterLocked, 11},
	}
	for i, tt := range tests {
		if filters[s.filter] != tt.filter {
			t.Fatalf("step %d: filter = %v, want %v", i, filters[s.filter], tt.filter)
		}
		if got := len(s.visible()); got != tt.want {
			t.Errorf("%v: %d visible, want %d", tt.filter, got, tt.want)
		}
		s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	}
	if filters[s.filter] != FilterAll {
		t.Error("tab should wrap back to All")
	}
}

func TestAchievementsScreen_Scroll(t *testing.T) {
	s := loadedScreen(t, fakeLoader{user: testUser()})

	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.scrollOffset != 0 {
		t.Errorf("scroll above top = %d, want 0", s.scrollOffset)
	}
	for i := 0; i < 20; i++ {
		s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	if s.scrollOffset != 11 {
		t.Errorf("scroll past bottom = %d, want 11", s.scrollOffset)
	}
}

func TestAchievementsScreen_EscPops(t *testing.T) {
	s := loadedScreen(t, fakeLoader{user: testUser()})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("expected PopScreenMsg, got %T", cmd())
	}
}
