package db

import (
	"context"
	"time"
)

const addTeam = `-- name: AddTeam :one
INSERT INTO teams (username, password, email, tag, created_at)
VALUES ($1, $2, $3, $4, $5) RETURNING id
`

type AddTeamParams struct {
	Username  string
	Password  string
	Email     string
	Tag       string
	CreatedAt time.Time
}

func (q *Queries) AddTeam(ctx context.Context, arg AddTeamParams) (int32, error) {
	row := q.db.QueryRowContext(ctx, addTeam,
		arg.Username,
		arg.Password,
		arg.Email,
		arg.Tag,
		arg.CreatedAt,
	)
	var id int32
	err := row.Scan(&id)
	return id, err
}

const getTeamByUsername = `-- name: GetTeamByUsername :one
SELECT id, username, password, email, tag, banned, created_at, last_access FROM teams WHERE username = $1
`

func (q *Queries) GetTeamByUsername(ctx context.Context, username string) (Team, error) {
	row := q.db.QueryRowContext(ctx, getTeamByUsername, username)
	var i Team
	err := row.Scan(
		&i.ID,
		&i.Username,
		&i.Password,
		&i.Email,
		&i.Tag,
		&i.Banned,
		&i.CreatedAt,
		&i.LastAccess,
	)
	return i, err
}

const getTeamById = `-- name: GetTeamById :one
SELECT id, username, password, email, tag, banned, created_at, last_access FROM teams WHERE id = $1
`

func (q *Queries) GetTeamById(ctx context.Context, id int32) (Team, error) {
	row := q.db.QueryRowContext(ctx, getTeamById, id)
	var i Team
	err := row.Scan(
		&i.ID,
		&i.Username,
		&i.Password,
		&i.Email,
		&i.Tag,
		&i.Banned,
		&i.CreatedAt,
		&i.LastAccess,
	)
	return i, err
}

const getTeams = `-- name: GetTeams :many
SELECT id, username, password, email, tag, banned, created_at, last_access FROM teams ORDER BY id
`

func (q *Queries) GetTeams(ctx context.Context) ([]Team, error) {
	rows, err := q.db.QueryContext(ctx, getTeams)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Team
	for rows.Next() {
		var i Team
		if err := rows.Scan(
			&i.ID,
			&i.Username,
			&i.Password,
			&i.Email,
			&i.Tag,
			&i.Banned,
			&i.CreatedAt,
			&i.LastAccess,
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

const checkIfTeamExists = `-- name: CheckIfTeamExists :one
SELECT EXISTS (SELECT 1 FROM teams WHERE username = $1)
`

func (q *Queries) CheckIfTeamExists(ctx context.Context, username string) (bool, error) {
	row := q.db.QueryRowContext(ctx, checkIfTeamExists, username)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const setTeamBanned = `-- name: SetTeamBanned :exec
UPDATE teams SET banned = $2 WHERE id = $1
`

type SetTeamBannedParams struct {
	ID     int32
	Banned bool
}

func (q *Queries) SetTeamBanned(ctx context.Context, arg SetTeamBannedParams) error {
	_, err := q.db.ExecContext(ctx, setTeamBanned, arg.ID, arg.Banned)
	return err
}

const updateTeamLastAccess = `-- name: UpdateTeamLastAccess :exec
UPDATE teams SET last_access = $2 WHERE id = $1
`

type UpdateTeamLastAccessParams struct {
	ID         int32
	LastAccess time.Time
}

func (q *Queries) UpdateTeamLastAccess(ctx context.Context, arg UpdateTeamLastAccessParams) error {
	_, err := q.db.ExecContext(ctx, updateTeamLastAccess, arg.ID, arg.LastAccess)
	return err
}

const getAdminUser = `-- name: GetAdminUser :one
SELECT id, username, password, email, created_at FROM admin_users WHERE username = $1
`

func (q *Queries) GetAdminUser(ctx context.Context, username string) (AdminUser, error) {
	row := q.db.QueryRowContext(ctx, getAdminUser, username)
	var i AdminUser
	err := row.Scan(
		&i.ID,
		&i.Username,
		&i.Password,
		&i.Email,
		&i.CreatedAt,
	)
	return i, err
}

const addAdminUser = `-- name: AddAdminUser :exec
INSERT INTO admin_users (username, password, email) VALUES ($1, $2, $3)
ON CONFLICT (username) DO NOTHING
`

type AddAdminUserParams struct {
	Username string
	Password string
	Email    string
}

func (q *Queries) AddAdminUser(ctx context.Context, arg AddAdminUserParams) error {
	_, err := q.db.ExecContext(ctx, addAdminUser, arg.Username, arg.Password, arg.Email)
	return err
}
