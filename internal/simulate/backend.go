package simulate

import (
	"context"
	"slices"
	"time"

	"github.com/abhisek/mathdrill/internal/drill"
	"github.com/abhisek/mathdrill/internal/engagement"
	"github.com/abhisek/mathdrill/internal/mastery"
	"github.com/abhisek/mathdrill/internal/session"
	"github.com/abhisek/mathdrill/internal/store"
)

var _ drill.Backend = (*MemoryBackend)(nil)

// MemoryBackend keeps everything in process. It is not safe for
// concurrent use.
type MemoryBackend struct {
	now     func() time.Time
	records []mastery.Record // oldest first
	users   map[string]engagement.UserStats
	daily   map[string]engagement.DailyAggregate
}

// NewMemoryBackend creates an empty backend. now anchors the history
// window.
func NewMemoryBackend(now func() time.Time) *MemoryBackend {
	return &MemoryBackend{
		now:   now,
		users: make(map[string]engagement.UserStats),
		daily: make(map[string]engagement.DailyAggregate),
	}
}

func (m *MemoryBackend) RecentRecords(_ context.Context, _ string, w store.Window) ([]mastery.Record, error) {
	var cutoff time.Time
	if w.Days > 0 {
		cutoff = m.now().AddDate(0, 0, -w.Days)
	}
	var out []mastery.Record
	for _, r := range slices.Backward(m.records) {
		if w.Size > 0 && len(out) >= w.Size {
			break
		}
		if r.Timestamp.Before(cutoff) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *MemoryBackend) LoadUser(_ context.Context, userID string) (engagement.UserStats, error) {
	if u, ok := m.users[userID]; ok {
		return u.Clone(), nil
	}
	return engagement.UserStats{ID: userID}, nil
}

func (m *MemoryBackend) LoadDaily(_ context.Context, userID string, day time.Time) (*engagement.DailyAggregate, error) {
	d, ok := m.daily[dailyKey(userID, day)]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (m *MemoryBackend) SaveSession(_ context.Context, userID string, sum session.Summary, out engagement.Outcome) error {
	for _, r := range sum.Results {
		m.records = append(m.records, mastery.RecordFromResult(r, r.At()))
	}
	m.users[userID] = out.User.Clone()
	m.daily[dailyKey(userID, out.Daily.Date)] = out.Daily
	return nil
}

func dailyKey(userID string, day time.Time) string {
	return userID + "/" + day.Format("2006-01-02")
}
