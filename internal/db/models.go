package db

import (
	"database/sql"
	"time"
)

type Challenge struct {
	ID          int32
	Name        string
	Description string
	Category    string
	Flag        string
	Initial     int32
	Omega       int32
	Hidden      bool
	MaxAttempts int32
	CreatedAt   time.Time
}

type Team struct {
	ID         int32
	Username   string
	Password   string
	Email      string
	Tag        string
	Banned     bool
	CreatedAt  time.Time
	LastAccess sql.NullTime
}

type AdminUser struct {
	ID        int32
	Username  string
	Password  string
	Email     string
	CreatedAt time.Time
}

type Solve struct {
	ID            int64
	ChallengeID   int32
	TeamID        int32
	SubmittedFlag string
	SolvedAt      time.Time
}

// DecaySolve is the permanent record of what a solve was worth at the moment
// it happened. Unique on (challenge_id, team_id), never updated.
type DecaySolve struct {
	ID           int32
	ChallengeID  int32
	TeamID       int32
	DecayedValue int32
}

type Award struct {
	ID          int64
	TeamID      int32
	Value       int32
	Description string
	AwardedAt   time.Time
}

type WrongSubmission struct {
	ID            int64
	ChallengeID   int32
	TeamID        int32
	SubmittedFlag string
	SubmittedAt   time.Time
}
