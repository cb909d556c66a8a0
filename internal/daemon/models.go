package daemon

import (
	"time"
)

type TeamClaims struct {
	Username string `json:"username"`
	TeamID   int32  `json:"teamId"`
	Email    string `json:"email"`
	Jti      string `json:"jti"`
	Exp      int64  `json:"exp"`
}

type AdminClaims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Jti      string `json:"jti"`
	Exp      int64  `json:"exp"`
}

type APIResponse struct {
	Status     string              `json:"status,omitempty"`
	Token      string              `json:"token,omitempty"`
	Challenge  *ChallengeResponse  `json:"challenge,omitempty"`
	Challenges []ChallengeResponse `json:"challenges,omitempty"`
	TeamInfo   *TeamResponse       `json:"teaminfo,omitempty"`
}

// ChallengeResponse is the displayable form of a challenge: the stored
// description is rendered to sanitized HTML, Value is what a new solver would
// earn right now (or the viewer's locked-in value if they already solved it).
type ChallengeResponse struct {
	ID          int32  `json:"id"`
	Name        string `json:"name"`
	Value       int32  `json:"value"`
	Initial     int32  `json:"initial,omitempty"`
	Omega       int32  `json:"omega,omitempty"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Hidden      bool   `json:"hidden"`
	MaxAttempts int32  `json:"max_attempts"`
	Solved      bool   `json:"solved"`
}

type TeamResponse struct {
	ID       int32          `json:"id"`
	Username string         `json:"name"`
	Banned   bool           `json:"banned,omitempty"`
	Score    int64          `json:"score"`
	Solves   []SolveEntry   `json:"solves"`
	Awards   []AwardEntry   `json:"awards,omitempty"`
}

// SolveEntry mirrors the public solve listing shape: chal/chalid/team/value/
// category/time, time as unix seconds.
type SolveEntry struct {
	Chal     string `json:"chal"`
	ChalID   int32  `json:"chalid"`
	Team     int32  `json:"team"`
	Name     string `json:"name,omitempty"`
	Value    int32  `json:"value"`
	Category string `json:"category"`
	Time     int64  `json:"time"`
}

type AwardEntry struct {
	ID          int64  `json:"id"`
	Value       int32  `json:"value"`
	Description string `json:"description,omitempty"`
	Time        int64  `json:"time"`
}

type StandingEntry struct {
	Pos   int    `json:"pos"`
	ID    int32  `json:"id"`
	Team  string `json:"team"`
	Score int64  `json:"score"`

	// tiebreak and lastActivity are ordering inputs, not payload.
	tiebreak     int64
	lastActivity time.Time
}

type TopTeamEntry struct {
	ID           int32     `json:"id"`
	Name         string    `json:"name"`
	Date         time.Time `json:"date"`
	DecayedValue int64     `json:"decayed_value"`
}
