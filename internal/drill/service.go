// Package drill connects persisted history to the session machine and
// the engagement engine. It prepares a session from recent records and
// persists the outcome when the session ends.
package drill

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/mathdrill/internal/engagement"
	"github.com/abhisek/mathdrill/internal/mastery"
	"github.com/abhisek/mathdrill/internal/session"
	"github.com/abhisek/mathdrill/internal/store"
)

// Backend supplies history and persists session outcomes. *store.Store
// satisfies it.
type Backend interface {
	RecentRecords(ctx context.Context, userID string, w store.Window) ([]mastery.Record, error)
	LoadUser(ctx context.Context, userID string) (engagement.UserStats, error)
	LoadDaily(ctx context.Context, userID string, day time.Time) (*engagement.DailyAggregate, error)
	SaveSession(ctx context.Context, userID string, sum session.Summary, out engagement.Outcome) error
}

var _ Backend = (*store.Store)(nil)

// Service runs the steps around a session for one backend.
type Service struct {
	backend Backend
	mastery mastery.Config
	window  store.Window
	engine  *engagement.Engine
	log     *zap.Logger
}

// NewService creates a service. A nil logger discards output.
func NewService(backend Backend, m mastery.Config, w store.Window, engine *engagement.Engine, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{backend: backend, mastery: m, window: w, engine: engine, log: log}
}

// Metrics computes mastery metrics over the user's recent history.
func (s *Service) Metrics(ctx context.Context, userID string) (*mastery.Metrics, error) {
	records, err := s.backend.RecentRecords(ctx, userID, s.window)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return s.mastery.Compute(records), nil
}

// Profile loads the user's lifetime stats with a complete, repaired
// achievement list.
func (s *Service) Profile(ctx context.Context, userID string) (engagement.UserStats, error) {
	user, err := s.backend.LoadUser(ctx, userID)
	if err != nil {
		return engagement.UserStats{}, fmt.Errorf("load user: %w", err)
	}
	user.Achievements = s.engine.InitializeAchievements(user.Achievements)
	return user, nil
}

// Finish applies the engagement rules to a finished or abandoned session
// and persists the result. A session without answered exercises changes
// nothing and is not stored.
func (s *Service) Finish(ctx context.Context, userID string, sum session.Summary) (engagement.Outcome, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return engagement.Outcome{}, err
	}
	if len(sum.Results) == 0 {
		s.log.Debug("session had no answers, skipping save", zap.String("session", sum.SessionID))
		return engagement.Outcome{User: user, Streak: user.CurrentStreak}, nil
	}

	today, err := s.backend.LoadDaily(ctx, userID, sum.StartedAt)
	if err != nil {
		return engagement.Outcome{}, fmt.Errorf("load daily: %w", err)
	}

	out := s.engine.ProcessSession(sum.Results, engagement.StatsFromSummary(sum), user, today)
	if err := s.backend.SaveSession(ctx, userID, sum, out); err != nil {
		return engagement.Outcome{}, err
	}

	s.log.Info("session saved",
		zap.String("session", sum.SessionID),
		zap.Int("answered", sum.Answered),
		zap.Int("correct", sum.Correct),
		zap.Int("streak", out.Streak),
		zap.Int("unlocked", len(out.Unlocked)),
	)
	return out, nil
}
