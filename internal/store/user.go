package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/mathdrill/internal/engagement"
)

var userColumns = []string{
	"id", "total_exercises", "total_correct", "total_stars", "total_sessions",
	"current_streak", "longest_streak", "last_active_at",
}

// LoadUser returns the user's lifetime counters and achievements,
// creating the user with a full set of locked achievements on first use.
func (s *Store) LoadUser(ctx context.Context, userID string) (engagement.UserStats, error) {
	u, err := s.queryUser(ctx, s.db, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return s.createUser(ctx, userID)
	}
	if err != nil {
		return engagement.UserStats{}, fmt.Errorf("load user %s: %w", userID, err)
	}

	u.Achievements, err = s.queryAchievements(ctx, s.db, userID)
	if err != nil {
		return engagement.UserStats{}, err
	}
	return u, nil
}

func (s *Store) queryUser(ctx context.Context, q execer, userID string) (engagement.UserStats, error) {
	b := builder()
	stmt, args := b.Select(userColumns...).
		From(b.Table("users")).
		Where(entsql.EQ("id", userID)).
		Query()

	var (
		u          engagement.UserStats
		lastActive sql.NullInt64
	)
	err := q.QueryRowContext(ctx, stmt, args...).Scan(
		&u.ID, &u.TotalExercises, &u.TotalCorrect, &u.TotalStars, &u.TotalSessions,
		&u.CurrentStreak, &u.LongestStreak, &lastActive,
	)
	if err != nil {
		return engagement.UserStats{}, err
	}
	u.LastActiveAt = fromNullMillis(lastActive)
	return u, nil
}

func (s *Store) createUser(ctx context.Context, userID string) (engagement.UserStats, error) {
	u := engagement.UserStats{ID: userID}
	for _, t := range engagement.AllAchievementTypes() {
		u.Achievements = append(u.Achievements, engagement.NewAchievement(t))
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		ins := builder().Insert("users").
			Columns("id", "created_at").
			Values(userID, s.now().UnixMilli())
		if err := exec(ctx, tx, ins); err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		return upsertAchievements(ctx, tx, userID, u.Achievements)
	})
	if err != nil {
		return engagement.UserStats{}, fmt.Errorf("create user %s: %w", userID, err)
	}
	s.log.Info("created user", zapUser(userID))
	return u, nil
}

func (s *Store) queryAchievements(ctx context.Context, q execer, userID string) ([]engagement.Achievement, error) {
	b := builder()
	rows, err := query(ctx, q, b.Select("type", "progress", "target", "unlocked_at").
		From(b.Table("achievements")).
		Where(entsql.EQ("user_id", userID)))
	if err != nil {
		return nil, fmt.Errorf("query achievements: %w", err)
	}
	defer rows.Close()

	var out []engagement.Achievement
	for rows.Next() {
		var (
			a        engagement.Achievement
			typ      string
			unlocked sql.NullInt64
		)
		if err := rows.Scan(&typ, &a.Progress, &a.Target, &unlocked); err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		a.Type = engagement.AchievementType(typ)
		a.UnlockedAt = fromNullMillis(unlocked)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate achievements: %w", err)
	}

	order := engagement.AllAchievementTypes()
	slices.SortStableFunc(out, func(a, b engagement.Achievement) int {
		return rank(order, a.Type) - rank(order, b.Type)
	})
	return out, nil
}

func rank(order []engagement.AchievementType, t engagement.AchievementType) int {
	if i := slices.Index(order, t); i >= 0 {
		return i
	}
	return len(order)
}

// SaveAchievements writes achievement rows, replacing existing progress.
// Rows for types not in achievements are left alone.
func (s *Store) SaveAchievements(ctx context.Context, userID string, achievements []engagement.Achievement) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return upsertAchievements(ctx, tx, userID, achievements)
	})
}

func upsertAchievements(ctx context.Context, tx *sql.Tx, userID string, achievements []engagement.Achievement) error {
	for _, a := range achievements {
		ins := builder().Insert("achievements").
			Columns("user_id", "type", "progress", "target", "unlocked_at").
			Values(userID, string(a.Type), a.Progress, a.Target, nullableMillis(a.UnlockedAt)).
			OnConflict(
				entsql.ConflictColumns("user_id", "type"),
				entsql.ResolveWithNewValues(),
			)
		if err := exec(ctx, tx, ins); err != nil {
			return fmt.Errorf("save achievement %s: %w", a.Type, err)
		}
	}
	return nil
}

func updateUser(ctx context.Context, tx *sql.Tx, u engagement.UserStats) error {
	upd := builder().Update("users").
		Set("total_exercises", u.TotalExercises).
		Set("total_correct", u.TotalCorrect).
		Set("total_stars", u.TotalStars).
		Set("total_sessions", u.TotalSessions).
		Set("current_streak", u.CurrentStreak).
		Set("longest_streak", u.LongestStreak).
		Set("last_active_at", nullableMillis(u.LastActiveAt)).
		Where(entsql.EQ("id", u.ID))
	if err := exec(ctx, tx, upd); err != nil {
		return fmt.Errorf("update user %s: %w", u.ID, err)
	}
	return nil
}

func nullableMillis(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UnixMilli()
}

func fromNullMillis(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.UnixMilli(v.Int64)
	return &t
}
