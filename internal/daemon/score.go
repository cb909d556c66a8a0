package daemon

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/decayctf/decay-daemon/internal/db"
)

// errMissingSnapshot means a team is recorded as having solved a challenge
// but no decay snapshot exists for the pair. There is no safe value to guess,
// callers have to fail the request.
var errMissingSnapshot = errors.New("no decay snapshot for solved challenge")

// decayedValue computes floor(initial * 0.5^(elapsed/omega)). Elapsed time is
// measured from the first solve of the challenge by any team. Callers must
// guarantee omega > 0.
func decayedValue(initial, omega int32, elapsedSeconds float64) int32 {
	return int32(math.Floor(float64(initial) * math.Pow(0.5, elapsedSeconds/float64(omega))))
}

// liveValue is what a new solver would earn at now. A challenge nobody has
// solved has not started decaying and is still worth its initial value.
func liveValue(initial, omega int32, firstSolve *time.Time, now time.Time) int32 {
	if firstSolve == nil {
		return initial
	}
	return decayedValue(initial, omega, now.Sub(*firstSolve).Seconds())
}

// currentValue resolves a challenge's value for a given viewer. A team that
// already solved the challenge gets its permanently recorded snapshot back,
// everyone else gets the live decayed value.
func (d *daemon) currentValue(ctx context.Context, chal db.Challenge, teamId int32, authed bool) (int32, error) {
	firstSolve, err := d.db.GetFirstSolveForChallenge(ctx, chal.ID)
	if err != nil {
		if err == sql.ErrNoRows {
			return chal.Initial, nil
		}
		return 0, err
	}

	if authed {
		pair := db.GetSolveForTeamParams{ChallengeID: chal.ID, TeamID: teamId}
		_, err := d.db.GetSolveForTeam(ctx, pair)
		if err == nil {
			snap, err := d.db.GetDecaySolve(ctx, db.GetDecaySolveParams{ChallengeID: chal.ID, TeamID: teamId})
			if err != nil {
				if err == sql.ErrNoRows {
					return 0, errMissingSnapshot
				}
				return 0, err
			}
			return snap.DecayedValue, nil
		}
		if err != sql.ErrNoRows {
			return 0, err
		}
	}

	return liveValue(chal.Initial, chal.Omega, &firstSolve.SolvedAt, time.Now()), nil
}

// valueForTeam is the lenient lookup for reporting paths: a team that has not
// solved the challenge is worth 0, never an error.
func (d *daemon) valueForTeam(ctx context.Context, challengeId, teamId int32) (int32, error) {
	snap, err := d.db.GetDecaySolve(ctx, db.GetDecaySolveParams{ChallengeID: challengeId, TeamID: teamId})
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, err
	}
	return snap.DecayedValue, nil
}
