package daemon

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/decayctf/decay-daemon/internal/db"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

func (d *daemon) teamSubrouter(r *gin.RouterGroup) {
	teams := r.Group("/teams")

	teams.POST("/login", d.teamLogin)
	teams.POST("/signup", d.teamSignup)

	teams.Use(d.optionalTeamAuthMiddleware())
	teams.GET("/:id", d.getTeam)
	teams.POST("/:id/solves", d.getTeamSolves)
	teams.GET("/:id/score", d.getTeamScore)
}

type TeamRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

func (d *daemon) teamLogin(c *gin.Context) {
	ctx := context.Background()
	var req TeamRequest
	if err := c.BindJSON(&req); err != nil {
		log.Error().Err(err).Msg("Error parsing request data: ")
		c.JSON(http.StatusBadRequest, APIResponse{Status: "Error"})
		return
	}

	team, err := d.db.GetTeamByUsername(ctx, req.Username)
	if err != nil {
		if err == sql.ErrNoRows {
			// Run hashing algorithm to prevent timed enumeration attacks on usernames
			dummyHash := "$2a$10$s8RIrctKwSA/jib7jSaGE.Z4TdukcRP/Irkxse5dotyYT0uHb3b.2"
			fakePassword := "fakepassword"
			_ = verifyPassword(dummyHash, fakePassword)
			c.JSON(http.StatusUnauthorized, APIResponse{Status: incorrectUsernameOrPasswordError})
			return
		}
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
		return
	}

	match := verifyPassword(team.Password, req.Password)
	if !match {
		c.JSON(http.StatusUnauthorized, APIResponse{Status: incorrectUsernameOrPasswordError})
		return
	}

	token, err := d.createTeamToken(team)
	if err != nil {
		log.Error().Err(err).Msg("Error creating token")
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "Internal server error"})
		return
	}

	if err := d.db.UpdateTeamLastAccess(ctx, db.UpdateTeamLastAccessParams{ID: team.ID, LastAccess: time.Now()}); err != nil {
		log.Error().Err(err).Msg("error updating team last access")
	}

	teamInfo := &TeamResponse{
		ID:       team.ID,
		Username: team.Username,
	}
	c.JSON(http.StatusOK, APIResponse{Status: "OK", Token: token, TeamInfo: teamInfo})
}

func (d *daemon) teamSignup(c *gin.Context) {
	ctx := context.Background()

	var req TeamRequest
	if err := c.BindJSON(&req); err != nil {
		log.Error().Err(err).Msg("Error parsing request data: ")
		c.JSON(http.StatusBadRequest, APIResponse{Status: "Error"})
		return
	}

	if req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, APIResponse{Status: "username and password are required"})
		return
	}

	teamExists, err := d.db.CheckIfTeamExists(ctx, req.Username)
	if err != nil {
		log.Error().Err(err).Msg("error checking if team exists")
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
		return
	}
	if teamExists {
		log.Error().Msg("team already exists")
		c.JSON(http.StatusBadRequest, APIResponse{Status: "team already exists"})
		return
	}

	pwHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("error generating password hash")
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
		return
	}

	newTeam := db.AddTeamParams{
		Username:  req.Username,
		Password:  string(pwHash),
		Email:     req.Email,
		Tag:       uuid.New().String()[0:8],
		CreatedAt: time.Now(),
	}
	teamId, err := d.db.AddTeam(ctx, newTeam)
	if err != nil {
		log.Error().Err(err).Msg("error adding team")
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
		return
	}

	token, err := d.createTeamToken(db.Team{
		ID:       teamId,
		Username: newTeam.Username,
		Email:    newTeam.Email,
	})
	if err != nil {
		log.Error().Err(err).Msg("Error creating token")
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, APIResponse{Status: "OK", Token: token})
}

func (d *daemon) getTeam(c *gin.Context) {
	ctx := context.Background()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{Status: "invalid team id"})
		return
	}

	team, err := d.db.GetTeamById(ctx, int32(id))
	if err != nil {
		c.JSON(http.StatusNotFound, APIResponse{Status: "team not found"})
		return
	}
	if team.Banned {
		c.JSON(http.StatusNotFound, APIResponse{Status: "team not found"})
		return
	}

	teamInfo := &TeamResponse{
		ID:       team.ID,
		Username: team.Username,
		Solves:   []SolveEntry{},
	}
	if !d.scoreboardAccessible(c) {
		c.JSON(http.StatusOK, APIResponse{Status: "OK", TeamInfo: teamInfo})
		return
	}

	before := freezeParam(&d.conf.Scoreboard, false)
	solves, err := d.db.GetTeamSolves(ctx, db.GetTeamSolvesParams{TeamID: team.ID, Before: before})
	if err != nil {
		log.Error().Err(err).Msg("error getting team solves")
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
		return
	}
	awards, err := d.db.GetAwardsForTeam(ctx, db.GetAwardsForTeamParams{TeamID: team.ID, Before: before})
	if err != nil {
		log.Error().Err(err).Msg("error getting team awards")
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
		return
	}

	for _, solve := range solves {
		teamInfo.Solves = append(teamInfo.Solves, SolveEntry{
			Chal:     solve.Name,
			ChalID:   solve.ChallengeID,
			Team:     solve.TeamID,
			Value:    solve.DecayedValue,
			Category: solve.Category,
			Time:     solve.SolvedAt.Unix(),
		})
		teamInfo.Score += int64(solve.DecayedValue)
	}
	for _, award := range awards {
		teamInfo.Awards = append(teamInfo.Awards, AwardEntry{
			ID:          award.ID,
			Value:       award.Value,
			Description: award.Description,
			Time:        award.AwardedAt.Unix(),
		})
		teamInfo.Score += int64(award.Value)
	}

	c.JSON(http.StatusOK, APIResponse{Status: "OK", TeamInfo: teamInfo})
}

func (d *daemon) getTeamSolves(c *gin.Context) {
	ctx := context.Background()

	if !d.scoreboardAccessible(c) {
		c.JSON(http.StatusOK, solvesResponse{Solves: []SolveEntry{}})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{Status: "invalid team id"})
		return
	}
	team, err := d.db.GetTeamById(ctx, int32(id))
	if err != nil || team.Banned {
		c.JSON(http.StatusNotFound, APIResponse{Status: "team not found"})
		return
	}

	rows, err := d.db.GetTeamSolves(ctx, db.GetTeamSolvesParams{
		TeamID: team.ID,
		Before: freezeParam(&d.conf.Scoreboard, false),
	})
	if err != nil {
		log.Error().Err(err).Msg("error getting team solves")
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
		return
	}

	solves := []SolveEntry{}
	for _, row := range rows {
		solves = append(solves, SolveEntry{
			Chal:     row.Name,
			ChalID:   row.ChallengeID,
			Team:     row.TeamID,
			Value:    row.DecayedValue,
			Category: row.Category,
			Time:     row.SolvedAt.Unix(),
		})
	}
	c.JSON(http.StatusOK, solvesResponse{Solves: solves})
}

// getTeamScore is the bare score accessor: the sum of the team's locked-in
// decay values. Manual awards are deliberately not part of this number even
// though the standings computation counts them.
func (d *daemon) getTeamScore(c *gin.Context) {
	ctx := context.Background()

	if !d.scoreboardAccessible(c) {
		c.JSON(http.StatusOK, gin.H{"score": 0})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{Status: "invalid team id"})
		return
	}
	team, err := d.db.GetTeamById(ctx, int32(id))
	if err != nil || team.Banned {
		c.JSON(http.StatusNotFound, APIResponse{Status: "team not found"})
		return
	}

	score, err := d.db.GetTeamDecayScore(ctx, team.ID)
	if err != nil {
		log.Error().Err(err).Msg("error getting team decay score")
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": team.ID, "score": score})
}
