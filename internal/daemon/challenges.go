package daemon

import (
	"bytes"
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/decayctf/decay-daemon/internal/db"
	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"
)

// Defaults match the historical challenge type this daemon replaces.
const (
	defaultInitial = 10000
	defaultOmega   = 60000
)

func (d *daemon) challengeSubrouter(r *gin.RouterGroup) {
	challenges := r.Group("/challenges")

	challenges.Use(d.optionalTeamAuthMiddleware())
	challenges.GET("", d.getChallenges)
	challenges.GET("/:id", d.getChallenge)
	challenges.GET("/:id/solves", d.getChallengeSolves)

	challenges.POST("/:id/attempt", d.teamAuthMiddleware(), d.submitFlag)
}

func (d *daemon) adminChallengeSubrouter(r *gin.RouterGroup) {
	challenges := r.Group("/challenges")

	challenges.Use(d.adminAuthMiddleware())
	challenges.POST("", d.newChallenge)
	challenges.GET("", d.getAdminChallenges)
	challenges.GET("/:id", d.getAdminChallenge)
	challenges.PUT("/:id", d.updateChallenge)
	challenges.DELETE("/:id", d.deleteChallenge)
}

type adminChallengeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Flag        string `json:"flag"`
	Initial     int32  `json:"initial"`
	Omega       int32  `json:"omega"`
	Hidden      bool   `json:"hidden"`
	MaxAttempts int32  `json:"max_attempts"`
}

func renderDescription(markdown string) string {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		log.Warn().Err(err).Msg("error rendering challenge description")
		return markdown
	}
	return string(bluemonday.UGCPolicy().SanitizeBytes(buf.Bytes()))
}

func (d *daemon) challengeResponse(ctx context.Context, chal db.Challenge, teamId int32, authed bool) (ChallengeResponse, error) {
	value, err := d.currentValue(ctx, chal, teamId, authed)
	if err != nil {
		return ChallengeResponse{}, err
	}
	solved := false
	if authed {
		if _, err := d.db.GetSolveForTeam(ctx, db.GetSolveForTeamParams{ChallengeID: chal.ID, TeamID: teamId}); err == nil {
			solved = true
		}
	}
	return ChallengeResponse{
		ID:          chal.ID,
		Name:        chal.Name,
		Value:       value,
		Description: renderDescription(chal.Description),
		Category:    chal.Category,
		Hidden:      chal.Hidden,
		MaxAttempts: chal.MaxAttempts,
		Solved:      solved,
	}, nil
}

func (d *daemon) getChallenges(c *gin.Context) {
	ctx := context.Background()

	authed := c.GetBool("authed")
	var teamId int32
	if authed {
		teamId = unpackTeamClaims(c).TeamID
	}

	chals, err := d.db.GetVisibleChallenges(ctx)
	if err != nil {
		log.Error().Err(err).Msg("error getting challenges")
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
		return
	}

	challenges := []ChallengeResponse{}
	for _, chal := range chals {
		resp, err := d.challengeResponse(ctx, chal, teamId, authed)
		if err != nil {
			if err == errMissingSnapshot {
				log.Error().Int32("challenge", chal.ID).Int32("team", teamId).Msg("solve recorded without decay snapshot")
				c.JSON(http.StatusNotFound, APIResponse{Status: "score record not found"})
				return
			}
			log.Error().Err(err).Msg("error resolving challenge value")
			c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
			return
		}
		challenges = append(challenges, resp)
	}

	c.JSON(http.StatusOK, APIResponse{Status: "OK", Challenges: challenges})
}

func (d *daemon) getChallenge(c *gin.Context) {
	ctx := context.Background()

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

	authed := c.GetBool("authed")
	var teamId int32
	if authed {
		teamId = unpackTeamClaims(c).TeamID
	}

	resp, err := d.challengeResponse(ctx, chal, teamId, authed)
	if err != nil {
		if err == errMissingSnapshot {
			log.Error().Int32("challenge", chal.ID).Int32("team", teamId).Msg("solve recorded without decay snapshot")
			c.JSON(http.StatusNotFound, APIResponse{Status: "score record not found"})
			return
		}
		log.Error().Err(err).Msg("error resolving challenge value")
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, APIResponse{Status: "OK", Challenge: &resp})
}

func (d *daemon) newChallenge(c *gin.Context) {
	ctx := context.Background()
	var req adminChallengeRequest
	if err := c.BindJSON(&req); err != nil {
		log.Error().Err(err).Msg("Error parsing request data: ")
		c.JSON(http.StatusBadRequest, APIResponse{Status: "Error"})
		return
	}

	admin := unpackAdminClaims(c)
	d.auditLogger.Info().
		Time("UTC", time.Now().UTC()).
		Str("AdminUser", admin.Username).
		Str("Challenge", req.Name).
		Msg("AdminUser is creating a challenge")

	if authorized, err := d.enforcer.Enforce(admin.Username, "challenges", "write"); !authorized || err != nil {
		c.JSON(http.StatusUnauthorized, APIResponse{Status: "Unauthorized"})
		return
	}

	if req.Initial == 0 {
		req.Initial = defaultInitial
	}
	if req.Omega == 0 {
		req.Omega = defaultOmega
	}
	if req.Name == "" || req.Flag == "" {
		c.JSON(http.StatusBadRequest, APIResponse{Status: "name and flag are required"})
		return
	}
	if req.Initial <= 0 || req.Omega <= 0 {
		c.JSON(http.StatusBadRequest, APIResponse{Status: "initial and omega must be positive"})
		return
	}
	if req.MaxAttempts < 0 {
		req.MaxAttempts = 0
	}

	id, err := d.db.AddChallenge(ctx, db.AddChallengeParams{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Flag:        req.Flag,
		Initial:     req.Initial,
		Omega:       req.Omega,
		Hidden:      req.Hidden,
		MaxAttempts: req.MaxAttempts,
	})
	if err != nil {
		log.Error().Err(err).Msg("error adding challenge")
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, APIResponse{Status: "OK", Challenge: &ChallengeResponse{ID: id, Name: req.Name}})
}

func (d *daemon) getAdminChallenges(c *gin.Context) {
	ctx := context.Background()

	admin := unpackAdminClaims(c)
	if authorized, err := d.enforcer.Enforce(admin.Username, "challenges", "read"); !authorized || err != nil {
		c.JSON(http.StatusUnauthorized, APIResponse{Status: "Unauthorized"})
		return
	}

	chals, err := d.db.GetChallenges(ctx)
	if err != nil {
		log.Error().Err(err).Msg("error getting challenges")
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
		return
	}

	challenges := []ChallengeResponse{}
	for _, chal := range chals {
		firstSolve, err := d.db.GetFirstSolveForChallenge(ctx, chal.ID)
		var anchor *time.Time
		if err == nil {
			anchor = &firstSolve.SolvedAt
		} else if err != sql.ErrNoRows {
			log.Error().Err(err).Msg("error getting first solve")
			c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
			return
		}
		challenges = append(challenges, ChallengeResponse{
			ID:          chal.ID,
			Name:        chal.Name,
			Value:       liveValue(chal.Initial, chal.Omega, anchor, time.Now()),
			Initial:     chal.Initial,
			Omega:       chal.Omega,
			Description: chal.Description,
			Category:    chal.Category,
			Hidden:      chal.Hidden,
			MaxAttempts: chal.MaxAttempts,
		})
	}

	c.JSON(http.StatusOK, APIResponse{Status: "OK", Challenges: challenges})
}

func (d *daemon) getAdminChallenge(c *gin.Context) {
	ctx := context.Background()

	admin := unpackAdminClaims(c)
	if authorized, err := d.enforcer.Enforce(admin.Username, "challenges", "read"); !authorized || err != nil {
		c.JSON(http.StatusUnauthorized, APIResponse{Status: "Unauthorized"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{Status: "invalid challenge id"})
		return
	}
	chal, err := d.db.GetChallengeById(ctx, int32(id))
	if err != nil {
		c.JSON(http.StatusNotFound, APIResponse{Status: "challenge not found"})
		return
	}

	firstSolve, err := d.db.GetFirstSolveForChallenge(ctx, chal.ID)
	var anchor *time.Time
	if err == nil {
		anchor = &firstSolve.SolvedAt
	} else if err != sql.ErrNoRows {
		log.Error().Err(err).Msg("error getting first solve")
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
		return
	}

	resp := ChallengeResponse{
		ID:          chal.ID,
		Name:        chal.Name,
		Value:       liveValue(chal.Initial, chal.Omega, anchor, time.Now()),
		Initial:     chal.Initial,
		Omega:       chal.Omega,
		Description: renderDescription(chal.Description),
		Category:    chal.Category,
		Hidden:      chal.Hidden,
		MaxAttempts: chal.MaxAttempts,
	}
	c.JSON(http.StatusOK, APIResponse{Status: "OK", Challenge: &resp})
}

func (d *daemon) updateChallenge(c *gin.Context) {
	ctx := context.Background()
	var req adminChallengeRequest
	if err := c.BindJSON(&req); err != nil {
		log.Error().Err(err).Msg("Error parsing request data: ")
		c.JSON(http.StatusBadRequest, APIResponse{Status: "Error"})
		return
	}

	admin := unpackAdminClaims(c)
	d.auditLogger.Info().
		Time("UTC", time.Now().UTC()).
		Str("AdminUser", admin.Username).
		Str("Challenge", req.Name).
		Msg("AdminUser is updating a challenge")

	if authorized, err := d.enforcer.Enforce(admin.Username, "challenges", "write"); !authorized || err != nil {
		c.JSON(http.StatusUnauthorized, APIResponse{Status: "Unauthorized"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{Status: "invalid challenge id"})
		return
	}
	chal, err := d.db.GetChallengeById(ctx, int32(id))
	if err != nil {
		c.JSON(http.StatusNotFound, APIResponse{Status: "challenge not found"})
		return
	}

	if req.Initial <= 0 || req.Omega <= 0 {
		c.JSON(http.StatusBadRequest, APIResponse{Status: "initial and omega must be positive"})
		return
	}
	if req.Flag == "" {
		req.Flag = chal.Flag
	}
	if req.MaxAttempts < 0 {
		req.MaxAttempts = 0
	}

	if err := d.db.UpdateChallenge(ctx, db.UpdateChallengeParams{
		ID:          chal.ID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Flag:        req.Flag,
		Initial:     req.Initial,
		Omega:       req.Omega,
		Hidden:      req.Hidden,
		MaxAttempts: req.MaxAttempts,
	}); err != nil {
		log.Error().Err(err).Msg("error updating challenge")
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, APIResponse{Status: "OK"})
}

// deleteChallenge removes the challenge together with every record hanging
// off it. The deletes run in one transaction so a half-removed challenge can
// never be observed.
func (d *daemon) deleteChallenge(c *gin.Context) {
	ctx := context.Background()

	admin := unpackAdminClaims(c)
	d.auditLogger.Info().
		Time("UTC", time.Now().UTC()).
		Str("AdminUser", admin.Username).
		Str("ChallengeId", c.Param("id")).
		Msg("AdminUser is deleting a challenge")

	if authorized, err := d.enforcer.Enforce(admin.Username, "challenges", "write"); !authorized || err != nil {
		c.JSON(http.StatusUnauthorized, APIResponse{Status: "Unauthorized"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{Status: "invalid challenge id"})
		return
	}

	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		log.Error().Err(err).Msg("error starting transaction")
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
		return
	}
	defer tx.Rollback()

	qtx := d.db.WithTx(tx)
	challengeId := int32(id)
	if err := qtx.DeleteWrongSubmissionsForChallenge(ctx, challengeId); err != nil {
		log.Error().Err(err).Msg("error deleting wrong submissions")
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
		return
	}
	if err := qtx.DeleteDecaySolvesForChallenge(ctx, challengeId); err != nil {
		log.Error().Err(err).Msg("error deleting decay snapshots")
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
		return
	}
	if err := qtx.DeleteSolvesForChallenge(ctx, challengeId); err != nil {
		log.Error().Err(err).Msg("error deleting solves")
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
		return
	}
	if err := qtx.DeleteChallenge(ctx, challengeId); err != nil {
		log.Error().Err(err).Msg("error deleting challenge")
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
		return
	}
	if err := tx.Commit(); err != nil {
		log.Error().Err(err).Msg("error committing challenge delete")
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
		return
	}

	d.invalidateScoreboardCache()
	c.JSON(http.StatusOK, APIResponse{Status: "OK"})
}
