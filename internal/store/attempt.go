package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/mathdrill/internal/engagement"
	"github.com/abhisek/mathdrill/internal/exercise"
	"github.com/abhisek/mathdrill/internal/mastery"
	"github.com/abhisek/mathdrill/internal/session"
)

const dayLayout = "2006-01-02"

// Window bounds the history handed to the metrics engine: the most recent
// Size attempts within the last Days days. Zero disables a bound.
type Window struct {
	Size int
	Days int
}

// DefaultWindow is the lookback used when none is configured.
var DefaultWindow = Window{Size: 500, Days: 30}

// RecentRecords returns the user's attempt history inside the window,
// newest first.
func (s *Store) RecentRecords(ctx context.Context, userID string, w Window) ([]mastery.Record, error) {
	b := builder()
	where := entsql.EQ("user_id", userID)
	if w.Days > 0 {
		cutoff := s.now().AddDate(0, 0, -w.Days)
		where = entsql.And(where, entsql.GTE("created_at", cutoff.UnixMilli()))
	}
	sel := b.Select("category", "first_operand", "second_operand", "signature", "correct", "created_at").
		From(b.Table("attempts")).
		Where(where).
		OrderBy(entsql.Desc("sequence"))
	if w.Size > 0 {
		sel = sel.Limit(w.Size)
	}

	rows, err := query(ctx, s.db, sel)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []mastery.Record
	for rows.Next() {
		var (
			r        mastery.Record
			category string
			created  int64
		)
		if err := rows.Scan(&category, &r.First, &r.Second, &r.Signature, &r.Correct, &created); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		r.Category = exercise.Category(category)
		r.Timestamp = time.UnixMilli(created)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}
	return out, nil
}

// SaveSession commits a finished (or abandoned) session in one
// transaction: its attempts, the session row, the user's counters and
// achievements, and the day's aggregate.
func (s *Store) SaveSession(ctx context.Context, userID string, sum session.Summary, out engagement.Outcome) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, r := range sum.Results {
			if err := s.insertAttempt(ctx, tx, userID, sum.SessionID, r); err != nil {
				return err
			}
		}

		ins := builder().Insert("sessions").
			Columns("id", "user_id", "day", "started_at", "duration_ms", "total", "answered",
				"correct", "stars", "start_difficulty", "end_difficulty").
			Values(sum.SessionID, userID, sum.StartedAt.Format(dayLayout), sum.StartedAt.UnixMilli(),
				sum.Duration.Milliseconds(), sum.TotalExercises, sum.Answered,
				sum.Correct, sum.Stars, sum.StartDifficulty.String(), sum.EndDifficulty.String())
		if err := exec(ctx, tx, ins); err != nil {
			return fmt.Errorf("insert session: %w", err)
		}

		if err := updateUser(ctx, tx, out.User); err != nil {
			return err
		}
		if err := upsertAchievements(ctx, tx, userID, out.User.Achievements); err != nil {
			return err
		}
		return upsertDaily(ctx, tx, out.Daily)
	})
	if err != nil {
		return fmt.Errorf("save session %s: %w", sum.SessionID, err)
	}
	return nil
}

// insertAttempt appends one result, timestamped with r.At(). sessionID
// may be empty for imported history.
func (s *Store) insertAttempt(ctx context.Context, tx *sql.Tx, userID, sessionID string, r exercise.Result) error {
	seq, err := s.seq.Next(ctx, tx)
	if err != nil {
		return err
	}
	var sid any
	if sessionID != "" {
		sid = sessionID
	}
	ex := r.Exercise
	ins := builder().Insert("attempts").
		Columns("sequence", "user_id", "session_id", "exercise_id", "category",
			"first_operand", "second_operand", "signature", "format", "difficulty", "is_retry",
			"answer", "correct", "attempts", "elapsed_ms", "revealed", "skipped", "created_at").
		Values(seq, userID, sid, ex.ID, string(ex.Category),
			ex.First, ex.Second, ex.Signature(), ex.Format.String(), ex.Difficulty.String(), ex.IsRetry,
			r.Answer, r.Correct, r.Attempts, r.Elapsed.Milliseconds(), r.WasRevealed, r.WasSkipped, r.At().UnixMilli())
	if err := exec(ctx, tx, ins); err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

// SessionRow is a stored session header.
type SessionRow struct {
	ID              string
	StartedAt       time.Time
	Duration        time.Duration
	Total           int
	Answered        int
	Correct         int
	Stars           int
	StartDifficulty exercise.Difficulty
	EndDifficulty   exercise.Difficulty
}

// RecentSessions returns the user's latest sessions, newest first.
func (s *Store) RecentSessions(ctx context.Context, userID string, limit int) ([]SessionRow, error) {
	b := builder()
	sel := b.Select("id", "started_at", "duration_ms", "total", "answered", "correct", "stars",
		"start_difficulty", "end_difficulty").
		From(b.Table("sessions")).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("started_at"))
	if limit > 0 {
		sel = sel.Limit(limit)
	}

	rows, err := query(ctx, s.db, sel)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRow
	for rows.Next() {
		var (
			r                  SessionRow
			started, durMs     int64
			startName, endName string
		)
		if err := rows.Scan(&r.ID, &started, &durMs, &r.Total, &r.Answered, &r.Correct, &r.Stars, &startName, &endName); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		r.StartedAt = time.UnixMilli(started)
		r.Duration = time.Duration(durMs) * time.Millisecond
		// Unknown names fall back to the zero difficulty.
		r.StartDifficulty, _ = exercise.ParseDifficulty(startName)
		r.EndDifficulty, _ = exercise.ParseDifficulty(endName)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}
