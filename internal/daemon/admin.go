package daemon

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/decayctf/decay-daemon/internal/db"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func (d *daemon) adminSubrouter(r *gin.RouterGroup) {
	r.Use(corsMiddleware())
	r.POST("/login", d.adminLogin)

	d.adminChallengeSubrouter(r)

	awards := r.Group("/awards")
	awards.Use(d.adminAuthMiddleware())
	awards.POST("", d.newAward)

	teams := r.Group("/teams")
	teams.Use(d.adminAuthMiddleware())
	teams.GET("", d.getAdminTeams)
	teams.PUT("/:id/ban", d.setTeamBan)

	scoreboard := r.Group("/scoreboard")
	scoreboard.Use(d.adminAuthMiddleware())
	scoreboard.GET("", d.getAdminScores)
}

func (d *daemon) adminLogin(c *gin.Context) {
	ctx := context.Background()
	var req TeamRequest
	if err := c.BindJSON(&req); err != nil {
		log.Error().Err(err).Msg("Error parsing request data: ")
		c.JSON(http.StatusBadRequest, APIResponse{Status: "Error"})
		return
	}

	user, err := d.db.GetAdminUser(ctx, req.Username)
	if err != nil {
		log.Error().Err(err).Msgf("Error in admin login. Could not find user with username: %s", req.Username)
		// Run hashing algorithm to prevent timed enumeration attacks on usernames
		dummyHash := "$2a$10$s8RIrctKwSA/jib7jSaGE.Z4TdukcRP/Irkxse5dotyYT0uHb3b.2"
		fakePassword := "fakepassword"
		_ = verifyPassword(dummyHash, fakePassword)
		c.JSON(http.StatusUnauthorized, APIResponse{Status: incorrectUsernameOrPasswordError})
		return
	}

	match := verifyPassword(user.Password, req.Password)
	if !match {
		c.JSON(http.StatusUnauthorized, APIResponse{Status: incorrectUsernameOrPasswordError})
		return
	}

	token, err := d.createAdminToken(user)
	if err != nil {
		log.Error().Err(err).Msg("Error creating token")
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, APIResponse{Status: "OK", Token: token})
}

type awardRequest struct {
	TeamID      int32  `json:"team_id"`
	Value       int32  `json:"value"`
	Description string `json:"description"`
}

func (d *daemon) newAward(c *gin.Context) {
	ctx := context.Background()
	var req awardRequest
	if err := c.BindJSON(&req); err != nil {
		log.Error().Err(err).Msg("Error parsing request data: ")
		c.JSON(http.StatusBadRequest, APIResponse{Status: "Error"})
		return
	}

	admin := unpackAdminClaims(c)
	d.auditLogger.Info().
		Time("UTC", time.Now().UTC()).
		Str("AdminUser", admin.Username).
		Int32("TeamId", req.TeamID).
		Int32("Value", req.Value).
		Msg("AdminUser is granting an award")

	if authorized, err := d.enforcer.Enforce(admin.Username, "awards", "write"); !authorized || err != nil {
		c.JSON(http.StatusUnauthorized, APIResponse{Status: "Unauthorized"})
		return
	}

	if _, err := d.db.GetTeamById(ctx, req.TeamID); err != nil {
		c.JSON(http.StatusNotFound, APIResponse{Status: "team not found"})
		return
	}

	if _, err := d.db.AddAward(ctx, db.AddAwardParams{
		TeamID:      req.TeamID,
		Value:       req.Value,
		Description: req.Description,
		AwardedAt:   time.Now(),
	}); err != nil {
		log.Error().Err(err).Msg("error adding award")
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
		return
	}

	d.invalidateScoreboardCache()
	d.feed.broadcast(updateScoreboard)
	c.JSON(http.StatusOK, APIResponse{Status: "OK"})
}

func (d *daemon) getAdminTeams(c *gin.Context) {
	type adminTeamResponse struct {
		ID         int32     `json:"id"`
		Username   string    `json:"username"`
		Email      string    `json:"email"`
		Tag        string    `json:"tag"`
		Banned     bool      `json:"banned"`
		CreatedAt  time.Time `json:"createdAt"`
		LastAccess time.Time `json:"lastAccess,omitempty"`
	}

	ctx := context.Background()

	admin := unpackAdminClaims(c)
	if authorized, err := d.enforcer.Enforce(admin.Username, "teams", "write"); !authorized || err != nil {
		c.JSON(http.StatusUnauthorized, APIResponse{Status: "Unauthorized"})
		return
	}

	dbTeams, err := d.db.GetTeams(ctx)
	if err != nil {
		log.Error().Err(err).Msg("error getting teams")
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
		return
	}

	teams := []adminTeamResponse{}
	for _, dbTeam := range dbTeams {
		team := adminTeamResponse{
			ID:        dbTeam.ID,
			Username:  dbTeam.Username,
			Email:     dbTeam.Email,
			Tag:       dbTeam.Tag,
			Banned:    dbTeam.Banned,
			CreatedAt: dbTeam.CreatedAt,
		}
		if dbTeam.LastAccess.Valid {
			team.LastAccess = dbTeam.LastAccess.Time
		}
		teams = append(teams, team)
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "OK",
		"teams":  teams,
	})
}

type banRequest struct {
	Banned bool `json:"banned"`
}

func (d *daemon) setTeamBan(c *gin.Context) {
	ctx := context.Background()
	var req banRequest
	if err := c.BindJSON(&req); err != nil {
		log.Error().Err(err).Msg("Error parsing request data: ")
		c.JSON(http.StatusBadRequest, APIResponse{Status: "Error"})
		return
	}

	admin := unpackAdminClaims(c)
	d.auditLogger.Info().
		Time("UTC", time.Now().UTC()).
		Str("AdminUser", admin.Username).
		Str("TeamId", c.Param("id")).
		Bool("Banned", req.Banned).
		Msg("AdminUser is changing a team ban flag")

	if authorized, err := d.enforcer.Enforce(admin.Username, "teams", "write"); !authorized || err != nil {
		c.JSON(http.StatusUnauthorized, APIResponse{Status: "Unauthorized"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{Status: "invalid team id"})
		return
	}
	if err := d.db.SetTeamBanned(ctx, db.SetTeamBannedParams{ID: int32(id), Banned: req.Banned}); err != nil {
		log.Error().Err(err).Msg("error setting team ban flag")
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
		return
	}

	d.invalidateScoreboardCache()
	c.JSON(http.StatusOK, APIResponse{Status: "OK"})
}

// getAdminScores is the unfrozen, unfiltered view: banned teams are listed
// and post-freeze activity counts.
func (d *daemon) getAdminScores(c *gin.Context) {
	ctx := context.Background()

	admin := unpackAdminClaims(c)
	if authorized, err := d.enforcer.Enforce(admin.Username, "scoreboard", "read"); !authorized || err != nil {
		c.JSON(http.StatusUnauthorized, APIResponse{Status: "Unauthorized"})
		return
	}

	standings, err := d.getStandings(ctx, true, -1)
	if err != nil {
		log.Error().Err(err).Msg("error computing standings")
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
		return
	}
	c.JSON(http.StatusOK, standingsResponse{Standings: standings})
}
