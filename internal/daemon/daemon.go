package daemon

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/decayctf/decay-daemon/internal/db"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

type daemon struct {
	conf        *Config
	db          *db.Queries
	conn        *sql.DB
	cache       *redis.Client
	enforcer    *casbin.Enforcer
	auditLogger zerolog.Logger
	feed        *feedHub
}

const casbinModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

func New(conf *Config) (*daemon, error) {
	ctx := context.Background()
	log.Info().Msg("Creating daemon...")
	queries, conn, gormDb, err := conf.Database.InitConn()
	if err != nil {
		log.Fatal().Err(err).Msg("[decay-daemon] Failed to connect to database")
		return nil, err
	}

	cache := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", conf.Redis.Host, conf.Redis.Port),
		Password: conf.Redis.Password,
	})
	if _, err := cache.Ping().Result(); err != nil {
		log.Warn().Err(err).Msg("[decay-daemon] Failed to connect to redis, scoreboard caching disabled")
		cache = nil
	}

	adapter, err := gormadapter.NewAdapterByDB(gormDb)
	if err != nil {
		log.Fatal().Err(err).Msg("[decay-daemon] Failed to create casbin adapter")
		return nil, err
	}
	m, err := casbinmodel.NewModelFromString(casbinModel)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		log.Fatal().Err(err).Msg("[decay-daemon] Failed to create casbin enforcer")
		return nil, err
	}
	if len(conf.DefaultPolicies) > 0 {
		if _, err := enforcer.AddPolicies(conf.DefaultPolicies); err != nil {
			log.Warn().Err(err).Msg("error adding default policies")
		}
	}

	auditLogger := zerolog.New(newRollingFile(conf))

	d := &daemon{
		conf:        conf,
		db:          queries,
		conn:        conn,
		cache:       cache,
		enforcer:    enforcer,
		auditLogger: auditLogger,
		feed:        newFeedHub(),
	}

	if err := d.seedAdminUser(ctx); err != nil {
		log.Error().Err(err).Msg("error seeding admin user from configuration")
		return nil, err
	}

	return d, nil
}

// seedAdminUser makes sure the configured bootstrap admin exists and is a
// member of the administrators role.
func (d *daemon) seedAdminUser(ctx context.Context) error {
	if d.conf.AdminCreds.Username == "" {
		return nil
	}

	pwHash, err := bcrypt.GenerateFromPassword([]byte(d.conf.AdminCreds.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := d.db.AddAdminUser(ctx, db.AddAdminUserParams{
		Username: d.conf.AdminCreds.Username,
		Password: string(pwHash),
		Email:    d.conf.AdminCreds.Email,
	}); err != nil {
		return err
	}
	if _, err := d.enforcer.AddGroupingPolicy(d.conf.AdminCreds.Username, "administrators"); err != nil {
		return err
	}
	for _, policy := range [][]string{
		{"administrators", "challenges", "read"},
		{"administrators", "challenges", "write"},
		{"administrators", "awards", "write"},
		{"administrators", "teams", "write"},
		{"administrators", "scoreboard", "read"},
	} {
		if _, err := d.enforcer.AddPolicy(policy[0], policy[1], policy[2]); err != nil {
			return err
		}
	}
	return nil
}

func (d *daemon) Run() error {
	if d.conf.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	d.setupRouters(r)
	return r.Run(fmt.Sprintf("%s:%d", d.conf.Host, d.conf.Port))
}

func (d *daemon) setupRouters(r *gin.Engine) {
	admin := r.Group("/api/v1/admin")
	api := r.Group("/api/v1")

	d.adminSubrouter(admin)
	d.apiSubrouter(api)
}

func (d *daemon) apiSubrouter(r *gin.RouterGroup) {
	r.Use(corsMiddleware())

	d.teamSubrouter(r)
	d.challengeSubrouter(r)
	d.scoreboardSubrouter(r)

	r.GET("/feed", d.solveFeedWebsocket)
}
