package db

import (
	"context"
)

const addDecaySolve = `-- name: AddDecaySolve :exec
INSERT INTO decay_solves (challenge_id, team_id, decayed_value) VALUES ($1, $2, $3)
`

type AddDecaySolveParams struct {
	ChallengeID  int32
	TeamID       int32
	DecayedValue int32
}

func (q *Queries) AddDecaySolve(ctx context.Context, arg AddDecaySolveParams) error {
	_, err := q.db.ExecContext(ctx, addDecaySolve, arg.ChallengeID, arg.TeamID, arg.DecayedValue)
	return err
}

const getDecaySolve = `-- name: GetDecaySolve :one
SELECT id, challenge_id, team_id, decayed_value FROM decay_solves
WHERE challenge_id = $1 AND team_id = $2
`

type GetDecaySolveParams struct {
	ChallengeID int32
	TeamID      int32
}

func (q *Queries) GetDecaySolve(ctx context.Context, arg GetDecaySolveParams) (DecaySolve, error) {
	row := q.db.QueryRowContext(ctx, getDecaySolve, arg.ChallengeID, arg.TeamID)
	var i DecaySolve
	err := row.Scan(
		&i.ID,
		&i.ChallengeID,
		&i.TeamID,
		&i.DecayedValue,
	)
	return i, err
}

const getTeamDecayScore = `-- name: GetTeamDecayScore :one
SELECT COALESCE(SUM(decayed_value), 0)::bigint FROM decay_solves WHERE team_id = $1
`

// GetTeamDecayScore sums a team's locked-in solve values. Awards are not part
// of this number; the full standings computation folds those in separately.
func (q *Queries) GetTeamDecayScore(ctx context.Context, teamId int32) (int64, error) {
	row := q.db.QueryRowContext(ctx, getTeamDecayScore, teamId)
	var score int64
	err := row.Scan(&score)
	return score, err
}

const deleteDecaySolvesForChallenge = `-- name: DeleteDecaySolvesForChallenge :exec
DELETE FROM decay_solves WHERE challenge_id = $1
`

func (q *Queries) DeleteDecaySolvesForChallenge(ctx context.Context, challengeId int32) error {
	_, err := q.db.ExecContext(ctx, deleteDecaySolvesForChallenge, challengeId)
	return err
}

const deleteSolvesForChallenge = `-- name: DeleteSolvesForChallenge :exec
DELETE FROM solves WHERE challenge_id = $1
`

func (q *Queries) DeleteSolvesForChallenge(ctx context.Context, challengeId int32) error {
	_, err := q.db.ExecContext(ctx, deleteSolvesForChallenge, challengeId)
	return err
}
