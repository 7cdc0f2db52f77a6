package store

import (
	"context"
	"database/sql"
	"fmt"
)

// tables holds the DDL for every table, applied idempotently at Open.
var tables = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		total_exercises INTEGER NOT NULL DEFAULT 0,
		total_correct INTEGER NOT NULL DEFAULT 0,
		total_stars INTEGER NOT NULL DEFAULT 0,
		total_sessions INTEGER NOT NULL DEFAULT 0,
		current_streak INTEGER NOT NULL DEFAULT 0,
		longest_streak INTEGER NOT NULL DEFAULT 0,
		last_active_at INTEGER,
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS achievements (
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		type TEXT NOT NULL,
		progress INTEGER NOT NULL DEFAULT 0,
		target INTEGER NOT NULL,
		unlocked_at INTEGER,
		PRIMARY KEY (user_id, type)
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		day TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		total INTEGER NOT NULL,
		answered INTEGER NOT NULL,
		correct INTEGER NOT NULL,
		stars INTEGER NOT NULL,
		start_difficulty TEXT NOT NULL,
		end_difficulty TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS sessions_user_day ON sessions (user_id, day)`,
	`CREATE TABLE IF NOT EXISTS attempts (
		sequence INTEGER PRIMARY KEY,
		user_id TEXT NOT NULL,
		session_id TEXT,
		exercise_id TEXT NOT NULL,
		category TEXT NOT NULL,
		first_operand INTEGER NOT NULL,
		second_operand INTEGER NOT NULL,
		signature TEXT NOT NULL,
		format TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		is_retry INTEGER NOT NULL DEFAULT 0,
		answer INTEGER NOT NULL,
		correct INTEGER NOT NULL,
		attempts INTEGER NOT NULL,
		elapsed_ms INTEGER NOT NULL,
		revealed INTEGER NOT NULL DEFAULT 0,
		skipped INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS attempts_user_created ON attempts (user_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS daily_aggregates (
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		day TEXT NOT NULL,
		exercises INTEGER NOT NULL DEFAULT 0,
		correct INTEGER NOT NULL DEFAULT 0,
		total_time_ms INTEGER NOT NULL DEFAULT 0,
		sessions INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (user_id, day)
	)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, ddl := range tables {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}
