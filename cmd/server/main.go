package main // Entry point package

import (
	"context"
	"database/sql"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/inspection-case-backend/internal/config"
	"github.com/iliyamo/inspection-case-backend/internal/database"
	"github.com/iliyamo/inspection-case-backend/internal/handler"
	"github.com/iliyamo/inspection-case-backend/internal/middleware"
	"github.com/iliyamo/inspection-case-backend/internal/queue"
	"github.com/iliyamo/inspection-case-backend/internal/repository"
	"github.com/iliyamo/inspection-case-backend/internal/router"
	"github.com/iliyamo/inspection-case-backend/internal/service"
	"github.com/iliyamo/inspection-case-backend/internal/utils"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// stores is the persistence chosen by STORE_BACKEND.  db is nil for the
// in-memory backend.
type stores struct {
	db      *sql.DB
	users   service.UserStore
	cases   service.CaseStore
	clients service.ClientStore
}

func main() {
	_ = godotenv.Load() // a missing .env is fine; real env vars win

	// The logger comes first so configuration errors use its format.
	log := setupLogger(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	cacheCfg, err := config.LoadCacheConfig()
	if err != nil {
		log.WithError(err).Fatal("load cache config")
	}
	rateCfg, err := config.LoadRateLimitConfig()
	if err != nil {
		log.WithError(err).Fatal("load rate limit config")
	}
	log.WithFields(logrus.Fields{"env": cfg.Env, "store": cfg.StoreBackend}).Info("starting inspection case backend")

	st, err := openStores(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("open store")
	}
	if st.db != nil {
		defer st.db.Close()
	}

	var events service.EventPublisher
	if cfg.Events {
		events = queue.NewPublisher(queue.URLFromEnv(), log)
	}

	identity := service.NewIdentity(st.users, utils.NewBcryptHasher(cfg.BcryptCost), log)
	cases := service.NewCases(st.cases, st.users, events, log)
	clients := service.NewClients(st.clients, events, log)
	reports := service.NewReports(st.cases, st.users)

	if created, err := identity.EnsureAdmin(context.Background(), cfg.AdminName, cfg.AdminEmail, cfg.AdminPass); err != nil {
		log.WithError(err).Fatal("seed admin")
	} else if created {
		log.WithField("email", cfg.AdminEmail).Info("seeded admin account")
	}

	rdb := config.NewRedisClient(log)
	if rdb != nil {
		defer rdb.Close()
	}

	e := echo.New()
	e.HideBanner = true
	router.Use(e, cfg.CORSOrigins, log)
	router.RegisterRoutes(e, st.db)
	guards := router.Guards{
		Auth:       middleware.JWTAuth(cfg.JWTSecret, identity),
		RateLimit:  middleware.NewTokenBucket(rateCfg, rdb, log),
		StatsCache: middleware.NewRedisCache(cacheCfg, rdb, log),
		Invalidate: middleware.NewCacheInvalidator(cacheCfg, rdb, log),
	}
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, identity, log), guards)
	router.RegisterAPI(e, router.API{
		Users:   handler.NewUserHandler(identity, log),
		Cases:   handler.NewCaseHandler(cases, log),
		Clients: handler.NewClientHandler(clients, log),
		Stats:   handler.NewStatsHandler(reports, log),
	}, guards)

	addr := ":" + cfg.Port
	log.WithField("addr", addr).Info("listening")
	if err := e.Start(addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func openStores(cfg config.Config, log *logrus.Entry) (stores, error) {
	var (
		db      *sql.DB
		dialect repository.Dialect
		err     error
	)
	switch cfg.StoreBackend {
	case config.BackendMySQL:
		dialect = repository.MySQL
		db, err = database.OpenMySQL(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	case config.BackendPostgres:
		dialect = repository.Postgres
		db, err = database.OpenPostgres(cfg.DatabaseURL)
	default:
		log.Warn("using in-memory store; data is lost on restart")
		return stores{
			users:   repository.NewMemoryUserRepo(),
			cases:   repository.NewMemoryCaseRepo(),
			clients: repository.NewMemoryClientRepo(),
		}, nil
	}
	if err != nil {
		return stores{}, err
	}
	if cfg.AutoMigrate {
		if err := database.Migrate(context.Background(), db, dialect); err != nil {
			_ = db.Close()
			return stores{}, err
		}
		log.WithField("dialect", dialect.String()).Info("schema ready")
	}
	return stores{
		db:      db,
		users:   repository.NewUserRepo(db, dialect),
		cases:   repository.NewCaseRepo(db, dialect),
		clients: repository.NewClientRepo(db, dialect),
	}, nil
}

// setupLogger picks level and format from APP_ENV; LOG_LEVEL overrides the
// level when it parses.
func setupLogger(env, level string) *logrus.Entry {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	switch env {
	case envLocal:
		log.SetLevel(logrus.DebugLevel)
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case envDev:
		log.SetLevel(logrus.InfoLevel)
		log.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	case envProd:
		log.SetLevel(logrus.WarnLevel)
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		log.SetLevel(logrus.InfoLevel)
		log.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}
	if level != "" {
		if lvl, err := logrus.ParseLevel(strings.ToLower(level)); err == nil {
			log.SetLevel(lvl)
		} else {
			log.WithField("LOG_LEVEL", level).Warn("unknown log level ignored")
		}
	}
	return logrus.NewEntry(log)
}
