package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/mathdrill/internal/engagement"
)

func upsertDaily(ctx context.Context, tx *sql.Tx, d engagement.DailyAggregate) error {
	ins := builder().Insert("daily_aggregates").
		Columns("user_id", "day", "exercises", "correct", "total_time_ms", "sessions").
		Values(d.UserID, d.Date.Format(dayLayout), d.Exercises, d.Correct, d.TotalTime.Milliseconds(), d.Sessions).
		OnConflict(
			entsql.ConflictColumns("user_id", "day"),
			entsql.ResolveWithNewValues(),
		)
	if err := exec(ctx, tx, ins); err != nil {
		return fmt.Errorf("save daily aggregate: %w", err)
	}
	return nil
}

// LoadDaily returns the user's aggregate for the calendar day containing
// day, or nil when the user has no activity that day.
func (s *Store) LoadDaily(ctx context.Context, userID string, day time.Time) (*engagement.DailyAggregate, error) {
	b := builder()
	stmt, args := b.Select("exercises", "correct", "total_time_ms", "sessions").
		From(b.Table("daily_aggregates")).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.EQ("day", day.Format(dayLayout)),
		)).
		Query()

	d := engagement.DailyAggregate{UserID: userID, Date: startOfDay(day)}
	var totalMs int64
	err := s.db.QueryRowContext(ctx, stmt, args...).Scan(&d.Exercises, &d.Correct, &totalMs, &d.Sessions)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load daily aggregate: %w", err)
	}
	d.TotalTime = time.Duration(totalMs) * time.Millisecond

	d.SessionIDs, err = s.sessionIDsForDay(ctx, userID, d.Date)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Store) sessionIDsForDay(ctx context.Context, userID string, day time.Time) ([]string, error) {
	b := builder()
	rows, err := query(ctx, s.db, b.Select("id").
		From(b.Table("sessions")).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.EQ("day", day.Format(dayLayout)),
		)).
		OrderBy("started_at"))
	if err != nil {
		return nil, fmt.Errorf("query day sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DailyHistory returns the user's aggregates for the last days calendar
// days including today, oldest first. Days without activity are omitted.
func (s *Store) DailyHistory(ctx context.Context, userID string, days int) ([]engagement.DailyAggregate, error) {
	from := startOfDay(s.now()).AddDate(0, 0, -(days - 1))
	b := builder()
	rows, err := query(ctx, s.db, b.Select("day", "exercises", "correct", "total_time_ms", "sessions").
		From(b.Table("daily_aggregates")).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.GTE("day", from.Format(dayLayout)),
		)).
		OrderBy("day"))
	if err != nil {
		return nil, fmt.Errorf("query daily history: %w", err)
	}
	defer rows.Close()

	var out []engagement.DailyAggregate
	for rows.Next() {
		d := engagement.DailyAggregate{UserID: userID}
		var (
			day     string
			totalMs int64
		)
		if err := rows.Scan(&day, &d.Exercises, &d.Correct, &totalMs, &d.Sessions); err != nil {
			return nil, fmt.Errorf("scan daily aggregate: %w", err)
		}
		d.Date, err = time.ParseInLocation(dayLayout, day, time.Local)
		if err != nil {
			return nil, fmt.Errorf("parse day %q: %w", day, err)
		}
		d.TotalTime = time.Duration(totalMs) * time.Millisecond
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily history: %w", err)
	}
	return out, nil
}

// Reset deletes every row belonging to the user.
func (s *Store) Reset(ctx context.Context, userID string) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"attempts", "sessions", "daily_aggregates", "achievements"} {
			del := builder().Delete(table).Where(entsql.EQ("user_id", userID))
			if err := exec(ctx, tx, del); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		if err := exec(ctx, tx, builder().Delete("users").Where(entsql.EQ("id", userID))); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("reset user %s: %w", userID, err)
	}
	s.log.Info("reset user", zapUser(userID))
	return nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
