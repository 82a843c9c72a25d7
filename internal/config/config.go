package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"family-album-go/pkg/logger"
	"github.com/caarlos0/env/v10"
)

type Config struct {
	HTTPPort    string   `env:"HTTP_PORT" envDefault:"8080"`
	Env         string   `env:"ENV" envDefault:"development"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:5174,http://localhost:5175"`
	CORSOrigin  string   `env:"CORS_ORIGIN"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	DB        DBConfig        `envPrefix:"DB_"`
	JWT       JWTConfig       `envPrefix:"JWT_"`
	S3        S3Config        `envPrefix:"S3_"`
	Media     MediaConfig     `envPrefix:"MEDIA_"`
	Redis     RedisConfig     `envPrefix:"REDIS_"`
	RateLimit RateLimitConfig `envPrefix:"RATE_LIMIT_"`
	Audit     AuditConfig     `envPrefix:"AUDIT_"`
	Family    FamilyConfig    `envPrefix:"FAMILY_"`
}

type DBConfig struct {
	DSN             string        `env:"DSN"`
	Host            string        `env:"HOST" envDefault:"localhost"`
	Port            string        `env:"PORT" envDefault:"5432"`
	User            string        `env:"USER" envDefault:"postgres"`
	Password        string        `env:"PASSWORD" envDefault:"postgres"`
	Name            string        `env:"NAME" envDefault:"family_album"`
	SSLMode         string        `env:"SSLMODE" envDefault:"disable"`
	TimeZone        string        `env:"TIMEZONE" envDefault:"UTC"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"30m"`
	AutoMigrate     bool          `env:"AUTO_MIGRATE" envDefault:"true"`
}

type JWTConfig struct {
	Secret     string        `env:"SECRET"`
	Issuer     string        `env:"ISSUER" envDefault:"family-album"`
	AccessTTL  time.Duration `env:"ACCESS_TTL" envDefault:"15m"`
	RefreshTTL time.Duration `env:"REFRESH_TTL" envDefault:"720h"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"10"`
}

type S3Config struct {
	Endpoint  string `env:"ENDPOINT" envDefault:"http://localhost:9000"`
	Region    string `env:"REGION" envDefault:"us-east-1"`
	AccessKey string `env:"ACCESS_KEY" envDefault:"minioadmin"`
	SecretKey string `env:"SECRET_KEY" envDefault:"minioadmin"`
	Bucket    string `env:"BUCKET" envDefault:"baby-photos"`
}

type MediaConfig struct {
	MaxUploadBytes    int64         `env:"MAX_UPLOAD_BYTES" envDefault:"52428800"`
	OrphanSweepEvery  time.Duration `env:"ORPHAN_SWEEP_INTERVAL" envDefault:"1h"`
	OrphanGracePeriod time.Duration `env:"ORPHAN_GRACE_PERIOD" envDefault:"24h"`
}

type RedisConfig struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

type RateLimitConfig struct {
	Window time.Duration `env:"WINDOW" envDefault:"1m"`
	Count  int           `env:"COUNT" envDefault:"20"`
	Prefix string        `env:"PREFIX" envDefault:"family-album:ratelimit"`
}

type AuditConfig struct {
	BufferSize int           `env:"BUFFER_SIZE" envDefault:"1024"`
	Workers    int           `env:"WORKERS" envDefault:"2"`
	Attempts   int           `env:"ATTEMPTS" envDefault:"3"`
	Backoff    time.Duration `env:"BACKOFF" envDefault:"200ms"`
}

type FamilyConfig struct {
	CacheTTL  time.Duration `env:"CACHE_TTL" envDefault:"10m"`
	CacheSize int           `env:"CACHE_SIZE" envDefault:"10000"`
}

var ErrMissingJWTSecret = errors.New("JWT_SECRET is required")

func Load(log logger.Logger) (Config, error) {
	if err := loadDotEnv(log); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		return Config{}, ErrMissingJWTSecret
	}

	return cfg, nil
}

// AllowedOrigins merges the configured list with the single CORS_ORIGIN value.
func (c Config) AllowedOrigins() []string {
	origins := make([]string, 0, len(c.CORSOrigins)+1)
	origins = append(origins, c.CORSOrigins...)
	if origin := strings.TrimSpace(c.CORSOrigin); origin != "" {
		origins = append(origins, origin)
	}
	return origins
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}

// MigrationURL returns the connection string in the pgx5:// form the migrator expects.
func (c DBConfig) MigrationURL() string {
	if c.DSN != "" {
		for _, scheme := range []string{"postgres://", "postgresql://"} {
			if strings.HasPrefix(c.DSN, scheme) {
				return "pgx5://" + strings.TrimPrefix(c.DSN, scheme)
			}
		}
	}

	u := url.URL{
		Scheme:   "pgx5",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}
