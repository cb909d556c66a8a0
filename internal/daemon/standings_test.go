package daemon

import (
	"testing"
	"time"

	"github.com/decayctf/decay-daemon/internal/db"
)

func testTeams() []db.Team {
	return []db.Team{
		{ID: 1, Username: "alpha"},
		{ID: 2, Username: "bravo"},
		{ID: 3, Username: "charlie"},
	}
}

func TestComputeStandingsSumsSolvesAndAwards(t *testing.T) {
	solves := []db.TeamScoreRow{
		{TeamID: 1, Score: 300, MaxID: 5, MaxDate: time.Unix(100, 0)},
	}
	awards := []db.TeamScoreRow{
		{TeamID: 1, Score: 50, MaxID: 2, MaxDate: time.Unix(200, 0)},
	}

	standings := computeStandings(solves, awards, testTeams(), false, -1)
	if len(standings) != 1 {
		t.Fatalf("expected 1 standing, got %d", len(standings))
	}
	if standings[0].Score != 350 {
		t.Errorf("expected score 350, got %d", standings[0].Score)
	}
	if standings[0].Pos != 1 {
		t.Errorf("expected pos 1, got %d", standings[0].Pos)
	}
}

func TestComputeStandingsTieBreakByMaxId(t *testing.T) {
	// alpha reached 350 through solve id 5 plus award id 2, bravo through a
	// single solve with the later id 9. alpha ranks first.
	solves := []db.TeamScoreRow{
		{TeamID: 1, Score: 300, MaxID: 5, MaxDate: time.Unix(100, 0)},
		{TeamID: 2, Score: 350, MaxID: 9, MaxDate: time.Unix(50, 0)},
	}
	awards := []db.TeamScoreRow{
		{TeamID: 1, Score: 50, MaxID: 2, MaxDate: time.Unix(200, 0)},
	}

	standings := computeStandings(solves, awards, testTeams(), false, -1)
	if len(standings) != 2 {
		t.Fatalf("expected 2 standings, got %d", len(standings))
	}
	if standings[0].ID != 1 || standings[1].ID != 2 {
		t.Errorf("expected order [1 2], got [%d %d]", standings[0].ID, standings[1].ID)
	}
}

func TestComputeStandingsTieBreakSpansBothSources(t *testing.T) {
	// Equal scores, and bravo's award id is higher than alpha's solve id.
	solves := []db.TeamScoreRow{
		{TeamID: 1, Score: 100, MaxID: 7, MaxDate: time.Unix(100, 0)},
		{TeamID: 2, Score: 40, MaxID: 3, MaxDate: time.Unix(100, 0)},
	}
	awards := []db.TeamScoreRow{
		{TeamID: 2, Score: 60, MaxID: 8, MaxDate: time.Unix(90, 0)},
	}

	standings := computeStandings(solves, awards, testTeams(), false, -1)
	if standings[0].ID != 1 {
		t.Errorf("expected team 1 first, got %d", standings[0].ID)
	}
}

func TestComputeStandingsSkipsTeamsWithoutActivity(t *testing.T) {
	solves := []db.TeamScoreRow{
		{TeamID: 2, Score: 10, MaxID: 1, MaxDate: time.Unix(10, 0)},
	}

	standings := computeStandings(solves, nil, testTeams(), false, -1)
	if len(standings) != 1 || standings[0].ID != 2 {
		t.Fatalf("expected only team 2, got %+v", standings)
	}
}

func TestComputeStandingsExcludesBanned(t *testing.T) {
	teams := []db.Team{
		{ID: 1, Username: "alpha"},
		{ID: 2, Username: "bravo", Banned: true},
	}
	solves := []db.TeamScoreRow{
		{TeamID: 1, Score: 100, MaxID: 1, MaxDate: time.Unix(10, 0)},
		{TeamID: 2, Score: 200, MaxID: 2, MaxDate: time.Unix(20, 0)},
	}

	standings := computeStandings(solves, nil, teams, false, -1)
	if len(standings) != 1 || standings[0].ID != 1 {
		t.Fatalf("expected only team 1, got %+v", standings)
	}

	adminStandings := computeStandings(solves, nil, teams, true, -1)
	if len(adminStandings) != 2 {
		t.Fatalf("expected 2 standings in admin view, got %d", len(adminStandings))
	}
	if adminStandings[0].ID != 2 {
		t.Errorf("expected banned team 2 to lead admin view, got %d", adminStandings[0].ID)
	}
}

func TestComputeStandingsTruncatesAfterOrdering(t *testing.T) {
	solves := []db.TeamScoreRow{
		{TeamID: 1, Score: 100, MaxID: 1, MaxDate: time.Unix(10, 0)},
		{TeamID: 2, Score: 300, MaxID: 2, MaxDate: time.Unix(20, 0)},
		{TeamID: 3, Score: 200, MaxID: 3, MaxDate: time.Unix(30, 0)},
	}

	standings := computeStandings(solves, nil, testTeams(), false, 2)
	if len(standings) != 2 {
		t.Fatalf("expected 2 standings, got %d", len(standings))
	}
	if standings[0].ID != 2 || standings[1].ID != 3 {
		t.Errorf("expected order [2 3], got [%d %d]", standings[0].ID, standings[1].ID)
	}
	if standings[1].Pos != 2 {
		t.Errorf("expected pos 2, got %d", standings[1].Pos)
	}
}

func TestComputeStandingsZeroCount(t *testing.T) {
	solves := []db.TeamScoreRow{
		{TeamID: 1, Score: 100, MaxID: 1, MaxDate: time.Unix(10, 0)},
	}
	standings := computeStandings(solves, nil, testTeams(), false, 0)
	if len(standings) != 0 {
		t.Errorf("expected empty standings, got %d", len(standings))
	}
}

func TestFreezeParam(t *testing.T) {
	freeze := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	conf := &ScoreboardConf{freeze: &freeze}

	before := freezeParam(conf, false)
	if !before.Valid || !before.Time.Equal(freeze) {
		t.Errorf("expected freeze cutoff %v, got %+v", freeze, before)
	}

	if got := freezeParam(conf, true); got.Valid {
		t.Errorf("expected no cutoff for admin view, got %+v", got)
	}

	if got := freezeParam(&ScoreboardConf{}, false); got.Valid {
		t.Errorf("expected no cutoff without a freeze time, got %+v", got)
	}
}
