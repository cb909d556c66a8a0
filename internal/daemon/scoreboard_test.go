package daemon

import "testing"

func TestClampTopCount(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"5", 5},
		{"0", 0},
		{"20", 20},
		{"21", 10},
		{"999", 10},
		{"-1", 10},
		{"junk", 10},
		{"", 10},
	}
	for _, c := range cases {
		if got := clampTopCount(c.raw); got != c.want {
			t.Errorf("clampTopCount(%q) = %d, expected %d", c.raw, got, c.want)
		}
	}
}

func TestScoreboardAccessible(t *testing.T) {
	if !scoreboardAccessible(&ScoreboardConf{}, false) {
		t.Error("expected default config to be publicly accessible")
	}
	if scoreboardAccessible(&ScoreboardConf{Hidden: true}, true) {
		t.Error("expected hidden scoreboard to stay hidden even for logged in teams")
	}
	if scoreboardAccessible(&ScoreboardConf{WorkshopMode: true}, true) {
		t.Error("expected workshop mode to hide the scoreboard")
	}
	if scoreboardAccessible(&ScoreboardConf{RequireAuth: true}, false) {
		t.Error("expected auth-required scoreboard to reject anonymous viewers")
	}
	if !scoreboardAccessible(&ScoreboardConf{RequireAuth: true}, true) {
		t.Error("expected auth-required scoreboard to allow logged in teams")
	}
}
