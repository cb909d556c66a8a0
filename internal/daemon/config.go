package daemon

import (
	"errors"
	"io/ioutil"
	"time"

	"github.com/decayctf/decay-daemon/internal/db"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Host            string          `yaml:"host"`
	Port            uint            `yaml:"port"`
	AuditLog        Logging         `yaml:"auditLog"`
	Database        db.DbConfig     `yaml:"db-config,omitempty"`
	Redis           RedisConfig     `yaml:"redis-config,omitempty"`
	Production      bool            `yaml:"prodmode,omitempty"`
	JwtSecret       string          `yaml:"jwtSecret,omitempty"`
	DefaultPolicies [][]string      `yaml:"default-policies,omitempty"`
	AdminCreds      APICreds        `yaml:"admin-creds,omitempty"`
	Scoreboard      ScoreboardConf  `yaml:"scoreboard,omitempty"`
}

type Logging struct {
	Directory  string `yaml:"directory"`
	FileName   string `yaml:"fileName"`
	MaxBackups int    `yaml:"max-backups"`
	MaxSize    int    `yaml:"max-size"`
	MaxAge     int    `yaml:"max-age"`
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     uint   `yaml:"port"`
	Password string `yaml:"password,omitempty"`
}

type APICreds struct {
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	Email    string `yaml:"email,omitempty"`
}

// ScoreboardConf carries the public-visibility policy. FreezeTime is RFC3339;
// activity at or after the parsed instant is hidden from non-admin views.
type ScoreboardConf struct {
	FreezeTime   string `yaml:"freezeTime,omitempty"`
	Hidden       bool   `yaml:"hidden,omitempty"`
	RequireAuth  bool   `yaml:"requireAuth,omitempty"`
	WorkshopMode bool   `yaml:"workshopMode,omitempty"`

	freeze *time.Time
}

func (sc *ScoreboardConf) Freeze() *time.Time {
	return sc.freeze
}

func NewConfigFromFile(path string) (*Config, error) {
	f, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var c Config
	err = yaml.Unmarshal(f, &c)
	if err != nil {
		return nil, err
	}

	if c.JwtSecret == "" {
		return nil, errors.New("missing signing key in configuration")
	}

	if c.Port == 0 {
		c.Port = 8080
	}

	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}

	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}

	if c.Database.DbName == "" {
		c.Database.DbName = "decayctf"
	}

	if c.Database.Username == "" {
		c.Database.Username = "decayctf"
	}

	if c.Database.Password == "" {
		c.Database.Password = "decayctf"
	}

	if c.Redis.Host == "" {
		c.Redis.Host = "localhost"
	}

	if c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}

	if c.Scoreboard.FreezeTime != "" {
		freeze, err := time.Parse(time.RFC3339, c.Scoreboard.FreezeTime)
		if err != nil {
			return nil, errors.New("invalid freezeTime in configuration, must be RFC3339")
		}
		c.Scoreboard.freeze = &freeze
	}

	return &c, nil
}
