package daemon

import (
	"context"
	"database/sql"
	"time"

	"github.com/decayctf/decay-daemon/internal/db"
	"golang.org/x/exp/slices"
)

// freezeParam turns the configured freeze instant into the query cutoff.
// Admin views are never frozen.
func freezeParam(conf *ScoreboardConf, admin bool) sql.NullTime {
	if admin || conf.Freeze() == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *conf.Freeze(), Valid: true}
}

// computeStandings merges the per-team solve and award partials into final
// standings. Both inputs share the TeamScoreRow shape: scores are summed and
// the tie-break key is the max row id across both kinds of activity, never a
// timestamp. A team with no qualifying row in either input does not rank at
// all. count < 0 means no truncation; truncation happens after ordering.
func computeStandings(solveRows, awardRows []db.TeamScoreRow, teams []db.Team, admin bool, count int) []StandingEntry {
	type partial struct {
		score   int64
		maxId   int64
		maxDate time.Time
	}
	totals := make(map[int32]*partial)
	fold := func(rows []db.TeamScoreRow) {
		for _, r := range rows {
			p, ok := totals[r.TeamID]
			if !ok {
				p = &partial{}
				totals[r.TeamID] = p
			}
			p.score += r.Score
			if r.MaxID > p.maxId {
				p.maxId = r.MaxID
			}
			if r.MaxDate.After(p.maxDate) {
				p.maxDate = r.MaxDate
			}
		}
	}
	fold(solveRows)
	fold(awardRows)

	standings := []StandingEntry{}
	for _, team := range teams {
		p, ok := totals[team.ID]
		if !ok {
			continue
		}
		if team.Banned && !admin {
			continue
		}
		standings = append(standings, StandingEntry{
			ID:           team.ID,
			Team:         team.Username,
			Score:        p.score,
			tiebreak:     p.maxId,
			lastActivity: p.maxDate,
		})
	}

	slices.SortStableFunc(standings, func(a, b StandingEntry) bool {
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		// Equal scores: the team that got there through the earlier row wins.
		return a.tiebreak < b.tiebreak
	})

	if count >= 0 && count < len(standings) {
		standings = standings[:count]
	}
	for i := range standings {
		standings[i].Pos = i + 1
	}
	return standings
}

func (d *daemon) getStandings(ctx context.Context, admin bool, count int) ([]StandingEntry, error) {
	before := freezeParam(&d.conf.Scoreboard, admin)

	solveRows, err := d.db.GetSolveScoresPerTeam(ctx, before)
	if err != nil {
		return nil, err
	}
	awardRows, err := d.db.GetAwardScoresPerTeam(ctx, before)
	if err != nil {
		return nil, err
	}
	teams, err := d.db.GetTeams(ctx)
	if err != nil {
		return nil, err
	}

	return computeStandings(solveRows, awardRows, teams, admin, count), nil
}
