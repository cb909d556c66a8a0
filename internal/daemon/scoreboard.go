package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const scoreboardCacheTTL = 15 * time.Second

func (d *daemon) scoreboardSubrouter(r *gin.RouterGroup) {
	scoreboard := r.Group("/scoreboard")

	scoreboard.Use(d.optionalTeamAuthMiddleware())
	scoreboard.GET("", d.getScoreboard)
	scoreboard.GET("/top/:count", d.getTopTeams)

	r.GET("/scores", d.optionalTeamAuthMiddleware(), d.getScores)
	r.GET("/solves", d.optionalTeamAuthMiddleware(), d.getPublicSolves)
}

// scoreboardAccessible gates every public score surface: a hidden scoreboard,
// workshop mode, or an unauthenticated viewer when authentication is required
// all yield an empty response instead of score data.
func (d *daemon) scoreboardAccessible(c *gin.Context) bool {
	return scoreboardAccessible(&d.conf.Scoreboard, c.GetBool("authed"))
}

func scoreboardAccessible(conf *ScoreboardConf, authed bool) bool {
	if conf.Hidden || conf.WorkshopMode {
		return false
	}
	if conf.RequireAuth && !authed {
		return false
	}
	return true
}

// clampTopCount parses the top-N count parameter; anything outside [0, 20]
// falls back to 10.
func clampTopCount(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > 20 {
		return 10
	}
	return n
}

func (d *daemon) invalidateScoreboardCache() {
	if d.cache == nil {
		return
	}
	keys, err := d.cache.Keys("scoreboard:*").Result()
	if err == nil && len(keys) > 0 {
		d.cache.Del(keys...)
	}
}

// cachedJSON serves the previously rendered payload for key if the cache has
// it, otherwise calls build and caches the result for a few seconds.
func (d *daemon) cachedJSON(c *gin.Context, key string, build func() (interface{}, error)) {
	if d.cache != nil {
		if val, err := d.cache.Get(key).Result(); err == nil {
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(val))
			return
		}
	}

	payload, err := build()
	if err != nil {
		log.Error().Err(err).Msg("error computing standings")
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("error marshalling standings")
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
		return
	}
	if d.cache != nil {
		d.cache.Set(key, data, scoreboardCacheTTL)
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

type standingsResponse struct {
	Standings []StandingEntry `json:"standings"`
}

type topTeamsResponse struct {
	Teams []TopTeamEntry `json:"teams"`
}

func (d *daemon) getScores(c *gin.Context) {
	ctx := context.Background()

	if !d.scoreboardAccessible(c) {
		c.JSON(http.StatusOK, standingsResponse{Standings: []StandingEntry{}})
		return
	}

	d.cachedJSON(c, "scoreboard:scores", func() (interface{}, error) {
		standings, err := d.getStandings(ctx, false, -1)
		if err != nil {
			return nil, err
		}
		return standingsResponse{Standings: standings}, nil
	})
}

func (d *daemon) getTopTeams(c *gin.Context) {
	ctx := context.Background()

	if !d.scoreboardAccessible(c) {
		c.JSON(http.StatusOK, topTeamsResponse{Teams: []TopTeamEntry{}})
		return
	}

	count := clampTopCount(c.Param("count"))
	d.cachedJSON(c, fmt.Sprintf("scoreboard:top:%d", count), func() (interface{}, error) {
		standings, err := d.getStandings(ctx, false, count)
		if err != nil {
			return nil, err
		}
		teams := []TopTeamEntry{}
		for _, s := range standings {
			teams = append(teams, TopTeamEntry{
				ID:           s.ID,
				Name:         s.Team,
				Date:         s.lastActivity,
				DecayedValue: s.Score,
			})
		}
		return topTeamsResponse{Teams: teams}, nil
	})
}

var scoreboardTmpl = template.Must(template.New("scoreboard").Parse(`<!DOCTYPE html>
<html>
<head><title>Scoreboard</title></head>
<body>
<h1>Scoreboard</h1>
<table>
<tr><th>#</th><th>Team</th><th>Score</th></tr>
{{range .}}<tr><td>{{.Pos}}</td><td>{{.Team}}</td><td>{{.Score}}</td></tr>
{{end}}</table>
</body>
</html>
`))

func (d *daemon) getScoreboard(c *gin.Context) {
	ctx := context.Background()

	standings := []StandingEntry{}
	if d.scoreboardAccessible(c) {
		var err error
		standings, err = d.getStandings(ctx, false, -1)
		if err != nil {
			log.Error().Err(err).Msg("error computing standings")
			c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
			return
		}
	}

	var buf bytes.Buffer
	if err := scoreboardTmpl.Execute(&buf, standings); err != nil {
		log.Error().Err(err).Msg("error rendering scoreboard")
		c.JSON(http.StatusInternalServerError, APIResponse{Status: "internal server error"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
