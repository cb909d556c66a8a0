package daemon

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := ioutil.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("error writing test config: %v", err)
	}
	return path
}

func TestNewConfigFromFileDefaults(t *testing.T) {
	path := writeTestConfig(t, "jwtSecret: testing-secret\n")

	conf, err := NewConfigFromFile(path)
	if err != nil {
		t.Fatalf("error reading config: %v", err)
	}
	if conf.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", conf.Port)
	}
	if conf.Database.Host != "localhost" || conf.Database.Port != 5432 {
		t.Errorf("unexpected database defaults: %s:%d", conf.Database.Host, conf.Database.Port)
	}
	if conf.Database.DbName != "decayctf" {
		t.Errorf("expected default db name decayctf, got %s", conf.Database.DbName)
	}
	if conf.Redis.Host != "localhost" || conf.Redis.Port != 6379 {
		t.Errorf("unexpected redis defaults: %s:%d", conf.Redis.Host, conf.Redis.Port)
	}
	if conf.Scoreboard.Freeze() != nil {
		t.Errorf("expected no freeze time by default")
	}
}

func TestNewConfigFromFileMissingSecret(t *testing.T) {
	path := writeTestConfig(t, "port: 9090\n")

	if _, err := NewConfigFromFile(path); err == nil {
		t.Error("expected error for config without jwtSecret")
	}
}

func TestNewConfigFromFileFreezeTime(t *testing.T) {
	path := writeTestConfig(t, `
jwtSecret: testing-secret
scoreboard:
  freezeTime: "2024-06-01T18:00:00Z"
`)

	conf, err := NewConfigFromFile(path)
	if err != nil {
		t.Fatalf("error reading config: %v", err)
	}
	freeze := conf.Scoreboard.Freeze()
	if freeze == nil {
		t.Fatal("expected freeze time to be parsed")
	}
	want := time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)
	if !freeze.Equal(want) {
		t.Errorf("expected freeze %v, got %v", want, freeze)
	}
}

func TestNewConfigFromFileInvalidFreezeTime(t *testing.T) {
	path := writeTestConfig(t, `
jwtSecret: testing-secret
scoreboard:
  freezeTime: "next tuesday"
`)

	if _, err := NewConfigFromFile(path); err == nil {
		t.Error("expected error for invalid freezeTime")
	}
}

func TestNewConfigFromFileMissingFile(t *testing.T) {
	if _, err := NewConfigFromFile(filepath.Join(os.TempDir(), "does-not-exist.yml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
