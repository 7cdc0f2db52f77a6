package app

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/mathdrill/internal/config"
	"github.com/abhisek/mathdrill/internal/screen"
)

func testDeps() Deps {
	return Deps{Config: &config.Config{UserID: "kid"}, Log: zap.NewNop(), SkipIntro: true}
}

func TestAppModel_StartsOnHome(t *testing.T) {
	m := newAppModel(testDeps(), screen.ProfileUpdatedMsg{})
	if got := m.router.Active().Title(); got != "Home" {
		t.Errorf("active = %q, want Home", got)
	}

	intro := testDeps()
	intro.SkipIntro = false
	m = newAppModel(intro, screen.ProfileUpdatedMsg{})
	if got := m.router.Active().Title(); got != "" {
		t.Errorf("active = %q, want the splash", got)
	}
}

func TestAppModel_ProfileUpdateRefreshesHeader(t *testing.T) {
	var model tea.Model = newAppModel(testDeps(), screen.ProfileUpdatedMsg{Stars: 1})
	model, _ = model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	model, _ = model.Update(screen.ProfileUpdatedMsg{Stars: 57, Streak: 4})

	view := model.(AppModel).render()
	if !strings.Contains(view, "★ 57") {
		t.Error("header should show the updated star count")
	}
	if !strings.Contains(view, "4 days") {
		t.Error("header should show the updated streak")
	}
}

func TestAppModel_CtrlCQuits(t *testing.T) {
	m := newAppModel(testDeps(), screen.ProfileUpdatedMsg{})
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected QuitMsg, got %T", cmd())
	}
}

func TestAppModel_TooSmall(t *testing.T) {
	var model tea.Model = newAppModel(testDeps(), screen.ProfileUpdatedMsg{})
	model, _ = model.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	if !strings.Contains(model.(AppModel).render(), "Terminal too small") {
		t.Error("expected the minimum size message")
	}
}
