package db

import (
	"context"
)

const addChallenge = `-- name: AddChallenge :one
INSERT INTO challenges (name, description, category, flag, initial, omega, hidden, max_attempts)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id
`

type AddChallengeParams struct {
	Name        string
	Description string
	Category    string
	Flag        string
	Initial     int32
	Omega       int32
	Hidden      bool
	MaxAttempts int32
}

func (q *Queries) AddChallenge(ctx context.Context, arg AddChallengeParams) (int32, error) {
	row := q.db.QueryRowContext(ctx, addChallenge,
		arg.Name,
		arg.Description,
		arg.Category,
		arg.Flag,
		arg.Initial,
		arg.Omega,
		arg.Hidden,
		arg.MaxAttempts,
	)
	var id int32
	err := row.Scan(&id)
	return id, err
}

const getChallengeById = `-- name: GetChallengeById :one
SELECT id, name, description, category, flag, initial, omega, hidden, max_attempts, created_at FROM challenges WHERE id = $1
`

func (q *Queries) GetChallengeById(ctx context.Context, id int32) (Challenge, error) {
	row := q.db.QueryRowContext(ctx, getChallengeById, id)
	var i Challenge
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.Category,
		&i.Flag,
		&i.Initial,
		&i.Omega,
		&i.Hidden,
		&i.MaxAttempts,
		&i.CreatedAt,
	)
	return i, err
}

const getChallenges = `-- name: GetChallenges :many
SELECT id, name, description, category, flag, initial, omega, hidden, max_attempts, created_at FROM challenges ORDER BY id
`

func (q *Queries) GetChallenges(ctx context.Context) ([]Challenge, error) {
	rows, err := q.db.QueryContext(ctx, getChallenges)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Challenge
	for rows.Next() {
		var i Challenge
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Description,
			&i.Category,
			&i.Flag,
			&i.Initial,
			&i.Omega,
			&i.Hidden,
			&i.MaxAttempts,
			&i.CreatedAt,
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

const getVisibleChallenges = `-- name: GetVisibleChallenges :many
SELECT id, name, description, category, flag, initial, omega, hidden, max_attempts, created_at FROM challenges WHERE hidden = false ORDER BY id
`

func (q *Queries) GetVisibleChallenges(ctx context.Context) ([]Challenge, error) {
	rows, err := q.db.QueryContext(ctx, getVisibleChallenges)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Challenge
	for rows.Next() {
		var i Challenge
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Description,
			&i.Category,
			&i.Flag,
			&i.Initial,
			&i.Omega,
			&i.Hidden,
			&i.MaxAttempts,
			&i.CreatedAt,
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

const updateChallenge = `-- name: UpdateChallenge :exec
UPDATE challenges SET name = $2, description = $3, category = $4, flag = $5, initial = $6, omega = $7, hidden = $8, max_attempts = $9 WHERE id = $1
`

type UpdateChallengeParams struct {
	ID          int32
	Name        string
	Description string
	Category    string
	Flag        string
	Initial     int32
	Omega       int32
	Hidden      bool
	MaxAttempts int32
}

func (q *Queries) UpdateChallenge(ctx context.Context, arg UpdateChallengeParams) error {
	_, err := q.db.ExecContext(ctx, updateChallenge,
		arg.ID,
		arg.Name,
		arg.Description,
		arg.Category,
		arg.Flag,
		arg.Initial,
		arg.Omega,
		arg.Hidden,
		arg.MaxAttempts,
	)
	return err
}

const deleteChallenge = `-- name: DeleteChallenge :exec
DELETE FROM challenges WHERE id = $1
`

func (q *Queries) DeleteChallenge(ctx context.Context, id int32) error {
	_, err := q.db.ExecContext(ctx, deleteChallenge, id)
	return err
}
