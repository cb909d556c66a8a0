package db

import (
	"context"
	"database/sql"
	"time"
)

const addSolve = `-- name: AddSolve :one
INSERT INTO solves (challenge_id, team_id, submitted_flag, solved_at)
VALUES ($1, $2, $3, $4) RETURNING id
`

type AddSolveParams struct {
	ChallengeID   int32
	TeamID        int32
	SubmittedFlag string
	SolvedAt      time.Time
}

func (q *Queries) AddSolve(ctx context.Context, arg AddSolveParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, addSolve,
		arg.ChallengeID,
		arg.TeamID,
		arg.SubmittedFlag,
		arg.SolvedAt,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const getFirstSolveForChallenge = `-- name: GetFirstSolveForChallenge :one
SELECT id, challenge_id, team_id, submitted_flag, solved_at FROM solves
WHERE challenge_id = $1 ORDER BY solved_at, id LIMIT 1
`

// GetFirstSolveForChallenge returns the solve that anchors decay for every
// later solver of the challenge. sql.ErrNoRows means nothing has started
// decaying yet.
func (q *Queries) GetFirstSolveForChallenge(ctx context.Context, challengeId int32) (Solve, error) {
	row := q.db.QueryRowContext(ctx, getFirstSolveForChallenge, challengeId)
	var i Solve
	err := row.Scan(
		&i.ID,
		&i.ChallengeID,
		&i.TeamID,
		&i.SubmittedFlag,
		&i.SolvedAt,
	)
	return i, err
}

const getSolveForTeam = `-- name: GetSolveForTeam :one
SELECT id, challenge_id, team_id, submitted_flag, solved_at FROM solves
WHERE challenge_id = $1 AND team_id = $2 LIMIT 1
`

type GetSolveForTeamParams struct {
	ChallengeID int32
	TeamID      int32
}

func (q *Queries) GetSolveForTeam(ctx context.Context, arg GetSolveForTeamParams) (Solve, error) {
	row := q.db.QueryRowContext(ctx, getSolveForTeam, arg.ChallengeID, arg.TeamID)
	var i Solve
	err := row.Scan(
		&i.ID,
		&i.ChallengeID,
		&i.TeamID,
		&i.SubmittedFlag,
		&i.SolvedAt,
	)
	return i, err
}

const getSolvesForChallenge = `-- name: GetSolvesForChallenge :many
SELECT s.team_id, t.username, s.solved_at FROM solves s
JOIN teams t ON s.team_id = t.id
WHERE s.challenge_id = $1 AND t.banned = false AND ($2::timestamptz IS NULL OR s.solved_at < $2)
ORDER BY s.solved_at, s.id
`

type GetSolvesForChallengeParams struct {
	ChallengeID int32
	Before      sql.NullTime
}

type GetSolvesForChallengeRow struct {
	TeamID   int32
	Username string
	SolvedAt time.Time
}

func (q *Queries) GetSolvesForChallenge(ctx context.Context, arg GetSolvesForChallengeParams) ([]GetSolvesForChallengeRow, error) {
	rows, err := q.db.QueryContext(ctx, getSolvesForChallenge, arg.ChallengeID, arg.Before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetSolvesForChallengeRow
	for rows.Next() {
		var i GetSolvesForChallengeRow
		if err := rows.Scan(
			&i.TeamID,
			&i.Username,
			&i.SolvedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getTeamSolves = `-- name: GetTeamSolves :many
SELECT c.name, c.id, s.team_id, ds.decayed_value, c.category, s.solved_at FROM solves s
JOIN challenges c ON s.challenge_id = c.id
JOIN decay_solves ds ON ds.challenge_id = s.challenge_id AND ds.team_id = s.team_id
WHERE s.team_id = $1 AND ($2::timestamptz IS NULL OR s.solved_at < $2)
ORDER BY s.solved_at, s.id
`

type GetTeamSolvesParams struct {
	TeamID int32
	Before sql.NullTime
}

type GetTeamSolvesRow struct {
	Name         string
	ChallengeID  int32
	TeamID       int32
	DecayedValue int32
	Category     string
	SolvedAt     time.Time
}

func (q *Queries) GetTeamSolves(ctx context.Context, arg GetTeamSolvesParams) ([]GetTeamSolvesRow, error) {
	rows, err := q.db.QueryContext(ctx, getTeamSolves, arg.TeamID, arg.Before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetTeamSolvesRow
	for rows.Next() {
		var i GetTeamSolvesRow
		if err := rows.Scan(
			&i.Name,
			&i.ChallengeID,
			&i.TeamID,
			&i.DecayedValue,
			&i.Category,
			&i.SolvedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getRecentSolves = `-- name: GetRecentSolves :many
SELECT c.name, c.id, s.team_id, t.username, ds.decayed_value, c.category, s.solved_at FROM solves s
JOIN challenges c ON s.challenge_id = c.id
JOIN teams t ON s.team_id = t.id
JOIN decay_solves ds ON ds.challenge_id = s.challenge_id AND ds.team_id = s.team_id
WHERE t.banned = false AND c.hidden = false AND ($1::timestamptz IS NULL OR s.solved_at < $1)
ORDER BY s.solved_at DESC, s.id DESC LIMIT $2
`

type GetRecentSolvesParams struct {
	Before sql.NullTime
	Limit  int32
}

type GetRecentSolvesRow struct {
	Name         string
	ChallengeID  int32
	TeamID       int32
	Username     string
	DecayedValue int32
	Category     string
	SolvedAt     time.Time
}

func (q *Queries) GetRecentSolves(ctx context.Context, arg GetRecentSolvesParams) ([]GetRecentSolvesRow, error) {
	rows, err := q.db.QueryContext(ctx, getRecentSolves, arg.Before, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetRecentSolvesRow
	for rows.Next() {
		var i GetRecentSolvesRow
		if err := rows.Scan(
			&i.Name,
			&i.ChallengeID,
			&i.TeamID,
			&i.Username,
			&i.DecayedValue,
			&i.Category,
			&i.SolvedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getSolveScoresPerTeam = `-- name: GetSolveScoresPerTeam :many
SELECT s.team_id, SUM(ds.decayed_value) AS score, MAX(s.id) AS max_id, MAX(s.solved_at) AS max_date FROM solves s
JOIN decay_solves ds ON ds.challenge_id = s.challenge_id AND ds.team_id = s.team_id
WHERE ($1::timestamptz IS NULL OR s.solved_at < $1)
GROUP BY s.team_id
`

// TeamScoreRow is the common shape both aggregation passes produce; the
// standings merge in the daemon package only ever sees this.
type TeamScoreRow struct {
	TeamID  int32
	Score   int64
	MaxID   int64
	MaxDate time.Time
}

func (q *Queries) GetSolveScoresPerTeam(ctx context.Context, before sql.NullTime) ([]TeamScoreRow, error) {
	rows, err := q.db.QueryContext(ctx, getSolveScoresPerTeam, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TeamScoreRow
	for rows.Next() {
		var i TeamScoreRow
		if err := rows.Scan(
			&i.TeamID,
			&i.Score,
			&i.MaxID,
			&i.MaxDate,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
