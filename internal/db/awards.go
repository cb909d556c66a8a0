package db

import (
	"context"
	"database/sql"
	"time"
)

const addAward = `-- name: AddAward :one
INSERT INTO awards (team_id, value, description, awarded_at) VALUES ($1, $2, $3, $4) RETURNING id
`

type AddAwardParams struct {
	TeamID      int32
	Value       int32
	Description string
	AwardedAt   time.Time
}

func (q *Queries) AddAward(ctx context.Context, arg AddAwardParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, addAward,
		arg.TeamID,
		arg.Value,
		arg.Description,
		arg.AwardedAt,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const getAwardScoresPerTeam = `-- name: GetAwardScoresPerTeam :many
SELECT team_id, SUM(value) AS score, MAX(id) AS max_id, MAX(awarded_at) AS max_date FROM awards
WHERE value != 0 AND ($1::timestamptz IS NULL OR awarded_at < $1)
GROUP BY team_id
`

// Zero-value awards are filtered out here so they cannot shift a team's
// tie-break id without changing its score.
func (q *Queries) GetAwardScoresPerTeam(ctx context.Context, before sql.NullTime) ([]TeamScoreRow, error) {
	rows, err := q.db.QueryContext(ctx, getAwardScoresPerTeam, before)
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

const getAwardsForTeam = `-- name: GetAwardsForTeam :many
SELECT id, team_id, value, description, awarded_at FROM awards
WHERE team_id = $1 AND value != 0 AND ($2::timestamptz IS NULL OR awarded_at < $2)
ORDER BY awarded_at, id
`

type GetAwardsForTeamParams struct {
	TeamID int32
	Before sql.NullTime
}

func (q *Queries) GetAwardsForTeam(ctx context.Context, arg GetAwardsForTeamParams) ([]Award, error) {
	rows, err := q.db.QueryContext(ctx, getAwardsForTeam, arg.TeamID, arg.Before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Award
	for rows.Next() {
		var i Award
		if err := rows.Scan(
			&i.ID,
			&i.TeamID,
			&i.Value,
			&i.Description,
			&i.AwardedAt,
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
