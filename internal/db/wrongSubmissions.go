package db

import (
	"context"
	"time"
)

const addWrongSubmission = `-- name: AddWrongSubmission :exec
INSERT INTO wrong_submissions (challenge_id, team_id, submitted_flag, submitted_at)
VALUES ($1, $2, $3, $4)
`

type AddWrongSubmissionParams struct {
	ChallengeID   int32
	TeamID        int32
	SubmittedFlag string
	SubmittedAt   time.Time
}

func (q *Queries) AddWrongSubmission(ctx context.Context, arg AddWrongSubmissionParams) error {
	_, err := q.db.ExecContext(ctx, addWrongSubmission,
		arg.ChallengeID,
		arg.TeamID,
		arg.SubmittedFlag,
		arg.SubmittedAt,
	)
	return err
}

const countWrongSubmissions = `-- name: CountWrongSubmissions :one
SELECT COUNT(*) FROM wrong_submissions WHERE challenge_id = $1 AND team_id = $2
`

type CountWrongSubmissionsParams struct {
	ChallengeID int32
	TeamID      int32
}

func (q *Queries) CountWrongSubmissions(ctx context.Context, arg CountWrongSubmissionsParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, countWrongSubmissions, arg.ChallengeID, arg.TeamID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const deleteWrongSubmissionsForChallenge = `-- name: DeleteWrongSubmissionsForChallenge :exec
DELETE FROM wrong_submissions WHERE challenge_id = $1
`

func (q *Queries) DeleteWrongSubmissionsForChallenge(ctx context.Context, challengeId int32) error {
	_, err := q.db.ExecContext(ctx, deleteWrongSubmissionsForChallenge, challengeId)
	return err
}
