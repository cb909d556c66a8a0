package daemon

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/decayctf/decay-daemon/internal/db"
	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const uniqueViolation = "23505"

type submitFlagRequest struct {
	Flag string `json:"flag" binding:"required"`
}

// submitFlag records a correct submission: the raw solve plus the decay
// snapshot of what the solve is worth right now, committed as one unit. The
// UNIQUE (challenge_id, team_id) constraint on decay_solves is the authority
// on duplicates; the early lookup only exists for a friendlier answer.
func (d *daemon) submitFlag(c *gin.Context) {
	ctx := context.Background()

	var req submitFlagRequest
	if err := c.BindJSON(&req); err != nil {
		log.Error().Err(err).Msg("Error parsing request data: ")
		c.JSON(http.StatusBadRequest, APIResponse{Status: "Error"})
		return
	}

	claims := unpackTeamClaims(c)
	team, err := d.db.GetTeamById(ctx, claims.TeamID)
	if err != nil {
		log.Error().Err(err).Msg("error getting team")
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
		return
	}
	if team.Banned {
		c.JSON(http.StatusForbidden, APIResponse{Status: "team is banned"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{Status: "invalid challenge id"})
		return
	}
	chal, err := d.db.GetChallengeById(ctx, int32(id))
	if err != nil || chal.Hidden {
		c.JSON(http.StatusNotFound, APIResponse{Status: "challenge not found"})
		return
	}

	pair := db.GetSolveForTeamParams{ChallengeID: chal.ID, TeamID: team.ID}
	if _, err := d.db.GetSolveForTeam(ctx, pair); err == nil {
		c.JSON(http.StatusOK, APIResponse{Status: "already solved"})
		return
	} else if err != sql.ErrNoRows {
		log.Error().Err(err).Msg("error checking for existing solve")
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
		return
	}

	if chal.MaxAttempts > 0 {
		attempts, err := d.db.CountWrongSubmissions(ctx, db.CountWrongSubmissionsParams{ChallengeID: chal.ID, TeamID: team.ID})
		if err != nil {
			log.Error().Err(err).Msg("error counting wrong submissions")
			c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
			return
		}
		if attempts >= int64(chal.MaxAttempts) {
			c.JSON(http.StatusForbidden, APIResponse{Status: "too many attempts"})
			return
		}
	}

	now := time.Now()
	submitted := strings.TrimSpace(req.Flag)
	if submitted != chal.Flag {
		if err := d.db.AddWrongSubmission(ctx, db.AddWrongSubmissionParams{
			ChallengeID:   chal.ID,
			TeamID:        team.ID,
			SubmittedFlag: submitted,
			SubmittedAt:   now,
		}); err != nil {
			log.Error().Err(err).Msg("error recording wrong submission")
		}
		c.JSON(http.StatusOK, APIResponse{Status: "incorrect flag"})
		return
	}

	// Value for a new solver, anchored at the challenge's global first solve.
	// If this submission is the first solve the anchor is nil and the team
	// earns the full initial value.
	firstSolve, err := d.db.GetFirstSolveForChallenge(ctx, chal.ID)
	var anchor *time.Time
	if err == nil {
		anchor = &firstSolve.SolvedAt
	} else if err != sql.ErrNoRows {
		log.Error().Err(err).Msg("error getting first solve")
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
		return
	}
	value := liveValue(chal.Initial, chal.Omega, anchor, now)

	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		log.Error().Err(err).Msg("error starting transaction")
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
		return
	}
	defer tx.Rollback()

	qtx := d.db.WithTx(tx)
	if _, err := qtx.AddSolve(ctx, db.AddSolveParams{
		ChallengeID:   chal.ID,
		TeamID:        team.ID,
		SubmittedFlag: submitted,
		SolvedAt:      now,
	}); err != nil {
		log.Error().Err(err).Msg("error recording solve")
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
		return
	}
	if err := qtx.AddDecaySolve(ctx, db.AddDecaySolveParams{
		ChallengeID:  chal.ID,
		TeamID:       team.ID,
		DecayedValue: value,
	}); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			c.JSON(http.StatusOK, APIResponse{Status: "already solved"})
			return
		}
		log.Error().Err(err).Msg("error recording decay snapshot")
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
		return
	}
	if err := tx.Commit(); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			c.JSON(http.StatusOK, APIResponse{Status: "already solved"})
			return
		}
		log.Error().Err(err).Msg("error committing solve")
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
		return
	}

	if err := d.db.UpdateTeamLastAccess(ctx, db.UpdateTeamLastAccessParams{ID: team.ID, LastAccess: now}); err != nil {
		log.Error().Err(err).Msg("error updating team last access")
	}

	d.invalidateScoreboardCache()
	d.feed.broadcast(updateScoreboard)

	c.JSON(http.StatusOK, APIResponse{Status: "OK"})
}

type solvesResponse struct {
	Solves []SolveEntry `json:"solves"`
}

func (d *daemon) getChallengeSolves(c *gin.Context) {
	ctx := context.Background()

	if !d.scoreboardAccessible(c) {
		c.JSON(http.StatusOK, solvesResponse{Solves: []SolveEntry{}})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{Status: "invalid challenge id"})
		return
	}
	chal, err := d.db.GetChallengeById(ctx, int32(id))
	if err != nil || chal.Hidden {
		c.JSON(http.StatusNotFound, APIResponse{Status: "challenge not found"})
		return
	}

	rows, err := d.db.GetSolvesForChallenge(ctx, db.GetSolvesForChallengeParams{
		ChallengeID: chal.ID,
		Before:      freezeParam(&d.conf.Scoreboard, false),
	})
	if err != nil {
		log.Error().Err(err).Msg("error getting solves for challenge")
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
		return
	}

	solves := []SolveEntry{}
	for _, row := range rows {
		value, err := d.valueForTeam(ctx, chal.ID, row.TeamID)
		if err != nil {
			log.Error().Err(err).Msg("error getting decay snapshot")
			c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
			return
		}
		solves = append(solves, SolveEntry{
			Chal:     chal.Name,
			ChalID:   chal.ID,
			Team:     row.TeamID,
			Name:     row.Username,
			Value:    value,
			Category: chal.Category,
			Time:     row.SolvedAt.Unix(),
		})
	}
	c.JSON(http.StatusOK, solvesResponse{Solves: solves})
}

func (d *daemon) getPublicSolves(c *gin.Context) {
	ctx := context.Background()

	if !d.scoreboardAccessible(c) {
		c.JSON(http.StatusOK, solvesResponse{Solves: []SolveEntry{}})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := d.db.GetRecentSolves(ctx, db.GetRecentSolvesParams{
		Before: freezeParam(&d.conf.Scoreboard, false),
		Limit:  int32(limit),
	})
	if err != nil {
		log.Error().Err(err).Msg("error getting recent solves")
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
		return
	}

	solves := []SolveEntry{}
	for _, row := range rows {
		solves = append(solves, SolveEntry{
			Chal:     row.Name,
			ChalID:   row.ChallengeID,
			Team:     row.TeamID,
			Name:     row.Username,
			Value:    row.DecayedValue,
			Category: row.Category,
			Time:     row.SolvedAt.Unix(),
		})
	}
	c.JSON(http.StatusOK, solvesResponse{Solves: solves})
}
