package db

import "database/sql"

// Solve and award ids are BIGSERIAL so they are allocated in non-decreasing
// chronological order; standings tie-breaking depends on that and must never
// compare timestamps (their resolution differs between backends).
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS challenges (
		id SERIAL PRIMARY KEY,
		name TEXT UNIQUE NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		flag TEXT NOT NULL,
		initial INTEGER NOT NULL,
		omega INTEGER NOT NULL,
		hidden BOOLEAN NOT NULL DEFAULT false,
		max_attempts INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS teams (
		id SERIAL PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		tag TEXT NOT NULL,
		banned BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		last_access TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS admin_users (
		id SERIAL PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS solves (
		id BIGSERIAL PRIMARY KEY,
		challenge_id INTEGER NOT NULL REFERENCES challenges (id),
		team_id INTEGER NOT NULL REFERENCES teams (id),
		submitted_flag TEXT NOT NULL DEFAULT '',
		solved_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS decay_solves (
		id SERIAL PRIMARY KEY,
		challenge_id INTEGER NOT NULL REFERENCES challenges (id),
		team_id INTEGER NOT NULL REFERENCES teams (id),
		decayed_value INTEGER NOT NULL,
		UNIQUE (challenge_id, team_id)
	)`,
	`CREATE TABLE IF NOT EXISTS awards (
		id BIGSERIAL PRIMARY KEY,
		team_id INTEGER NOT NULL REFERENCES teams (id),
		value INTEGER NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		awarded_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS wrong_submissions (
		id BIGSERIAL PRIMARY KEY,
		challenge_id INTEGER NOT NULL REFERENCES challenges (id),
		team_id INTEGER NOT NULL REFERENCES teams (id),
		submitted_flag TEXT NOT NULL DEFAULT '',
		submitted_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

func Migrate(conn *sql.DB) error {
	for _, stmt := range migrations {
		if _, err := conn.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
