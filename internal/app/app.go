package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	authtoken "family-album-go/internal/auth"
	"family-album-go/internal/config"
	"family-album-go/internal/db"
	auditdomain "family-album-go/internal/domain/audit"
	authdomain "family-album-go/internal/domain/auth"
	childdomain "family-album-go/internal/domain/child"
	familydomain "family-album-go/internal/domain/family"
	invitationdomain "family-album-go/internal/domain/invitation"
	mediadomain "family-album-go/internal/domain/media"
	userdomain "family-album-go/internal/domain/user"
	"family-album-go/internal/imageproc"
	"family-album-go/internal/ratelimit"
	"family-album-go/internal/repository/inmemory"
	auditrepo "family-album-go/internal/repository/postgres/audit"
	authrepo "family-album-go/internal/repository/postgres/auth"
	childrepo "family-album-go/internal/repository/postgres/child"
	familyrepo "family-album-go/internal/repository/postgres/family"
	invitationrepo "family-album-go/internal/repository/postgres/invitation"
	mediarepo "family-album-go/internal/repository/postgres/media"
	userrepo "family-album-go/internal/repository/postgres/user"
	"family-album-go/internal/storage"
	"family-album-go/internal/transport/httpserver"
	"family-album-go/internal/transport/httpserver/handler"
	httpmw "family-album-go/internal/transport/httpserver/middleware"
	"family-album-go/pkg/logger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	startupTimeout  = 15 * time.Second
	shutdownTimeout = 10 * time.Second
)

type App struct {
	cfg        config.Config
	log        logger.Logger
	httpServer *http.Server
	db         *gorm.DB
	redis      *redis.Client
	recorder   *auditdomain.Recorder
	sweeper    *sweeper
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	if cfg.DB.AutoMigrate {
		log.Info("app: applying migrations")
		if err := db.Migrate(cfg.DB, log); err != nil {
			return nil, err
		}
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	a := &App{cfg: cfg, log: log, db: dbConn}

	log.Info("app: initializing object store", "endpoint", cfg.S3.Endpoint, "bucket", cfg.S3.Bucket)
	store, err := storage.NewMinioStore(ctx, cfg.S3)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("object store: %w", err)
	}

	limiter, err := a.newLimiter(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	tokens, err := authtoken.NewTokenService(cfg.JWT)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	hasher := authtoken.NewHasher(cfg.JWT.BcryptCost)

	families := familydomain.NewService(
		familyrepo.NewPostgres(dbConn),
		familydomain.WithFamilyCache(inmemory.NewFamilyCache(cfg.Family.CacheSize, cfg.Family.CacheTTL)),
	)
	users := userdomain.NewService(userrepo.NewPostgres(dbConn))
	children := childdomain.NewService(childrepo.NewPostgres(dbConn))
	media := mediadomain.NewService(
		mediarepo.NewPostgres(dbConn),
		store,
		imageproc.New(),
		families,
		children,
		log,
		mediadomain.WithMaxUploadBytes(cfg.Media.MaxUploadBytes),
	)

	auditRepo := auditrepo.NewPostgres(dbConn)
	a.recorder = auditdomain.NewRecorder(auditRepo, auditdomain.RecorderConfig{
		BufferSize: cfg.Audit.BufferSize,
		Workers:    cfg.Audit.Workers,
		Attempts:   cfg.Audit.Attempts,
		Backoff:    cfg.Audit.Backoff,
	}, log)

	handlers := handler.New(handler.Services{
		Auth:        authdomain.NewService(authrepo.NewPostgres(dbConn), tokens, hasher),
		Users:       users,
		Families:    families,
		Invitations: invitationdomain.NewService(invitationrepo.NewPostgres(dbConn), families),
		Children:    children,
		Media:       media,
		Audit:       auditdomain.NewService(auditRepo),
	}, log)

	health := map[string]handler.Pinger{
		"postgres": handler.PingFunc(func(ctx context.Context) error { return db.Ping(ctx, dbConn) }),
		"storage":  store,
	}
	if a.redis != nil {
		health["redis"] = handler.PingFunc(func(ctx context.Context) error { return a.redis.Ping(ctx).Err() })
	}

	deps := httpserver.Deps{
		Handlers: handlers,
		Auth:     httpmw.NewAuth(tokens, users, log),
		Recorder: a.recorder,
		Health:   health,
	}
	if limiter != nil {
		deps.Limiter = limiter
	}

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, deps, log)

	log.Info("app: initializing http server")
	a.httpServer = httpserver.New(cfg, router)

	if cfg.Media.OrphanSweepEvery > 0 {
		a.sweeper = startSweeper(media, cfg.Media.OrphanSweepEvery, cfg.Media.OrphanGracePeriod, log)
	} else {
		log.Info("media.sweep: disabled")
	}

	return a, nil
}

func (a *App) newLimiter(ctx context.Context) (*ratelimit.FixedWindowLimiter, error) {
	if a.cfg.Redis.Addr == "" {
		a.log.Warn("ratelimit: REDIS_ADDR not set, rate limiting disabled")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     a.cfg.Redis.Addr,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	a.redis = client

	limiter, err := ratelimit.NewFixedWindowLimiter(client, a.cfg.RateLimit.Prefix, a.cfg.RateLimit.Count, a.cfg.RateLimit.Window)
	if err != nil {
		return nil, fmt.Errorf("init rate limiter: %w", err)
	}
	a.log.Info("ratelimit: enabled", "count", a.cfg.RateLimit.Count, "window", a.cfg.RateLimit.Window)
	return limiter, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) ShutdownTimeout() time.Duration {
	if a.cfg.ShutdownTimeout <= 0 {
		return shutdownTimeout
	}
	return a.cfg.ShutdownTimeout
}

// Close stops background work, drains the audit queue and releases the
// connection pools. Call it after the HTTP server has shut down.
func (a *App) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if a.sweeper != nil {
		a.sweeper.stop()
	}
	if a.recorder != nil {
		if err := a.recorder.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("audit recorder: %w", err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	if a.db != nil {
		sqlDB, err := a.db.DB()
		if err != nil {
			errs = append(errs, err)
		} else if err := sqlDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("db: %w", err))
		}
	}
	return errors.Join(errs...)
}
