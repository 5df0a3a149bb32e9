package config

import (
	"time"

	"github.com/heartmarshall/flashquiz/internal/domain"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Quiz      QuizConfig      `yaml:"quiz"`
	Events    EventsConfig    `yaml:"events"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	MigrateOnStart  bool          `yaml:"migrate_on_start"   env:"DATABASE_MIGRATE_ON_START"   env-default:"true"`
	ApplicationName string        `yaml:"application_name"   env:"DATABASE_APPLICATION_NAME"   env-default:"flashquiz"`
	ConnectRetries  int           `yaml:"connect_retries"    env:"DATABASE_CONNECT_RETRIES"    env-default:"5"`
	ConnectBackoff  time.Duration `yaml:"connect_backoff"    env:"DATABASE_CONNECT_BACKOFF"    env-default:"1s"`
}

// AuthConfig holds access token validation settings. Tokens are issued by
// an external identity provider sharing the secret.
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"       env-required:"true"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"AUTH_JWT_ISSUER"       env-default:"flashquiz"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"15m"`
	ClockSkew      time.Duration `yaml:"clock_skew"       env:"AUTH_CLOCK_SKEW"       env-default:"30s"`
}

// QuizConfig holds quiz runtime parameters.
type QuizConfig struct {
	SnapshotTimeout   time.Duration `yaml:"snapshot_timeout"   env:"QUIZ_SNAPSHOT_TIMEOUT"   env-default:"5s"`
	CompletionTimeout time.Duration `yaml:"completion_timeout" env:"QUIZ_COMPLETION_TIMEOUT" env-default:"10s"`
	VerifyAttempts    int           `yaml:"verify_attempts"    env:"QUIZ_VERIFY_ATTEMPTS"    env-default:"3"`
	VerifyBackoff     time.Duration `yaml:"verify_backoff"     env:"QUIZ_VERIFY_BACKOFF"     env-default:"200ms"`
	AttemptIdleTTL    time.Duration `yaml:"attempt_idle_ttl"   env:"QUIZ_ATTEMPT_IDLE_TTL"   env-default:"2h"`
	SweepInterval     time.Duration `yaml:"sweep_interval"     env:"QUIZ_SWEEP_INTERVAL"     env-default:"1m"`
	MaxAttempts       int           `yaml:"max_attempts"       env:"QUIZ_MAX_ATTEMPTS"       env-default:"10000"`
}

// EventsConfig holds the domain event publisher settings. An empty AMQPURL
// disables publishing.
type EventsConfig struct {
	AMQPURL  string `yaml:"amqp_url" env:"EVENTS_AMQP_URL"`
	Exchange string `yaml:"exchange" env:"EVENTS_EXCHANGE" env-default:"flashquiz.events"`
}

// Enabled reports whether events are published.
func (c EventsConfig) Enabled() bool { return c.AMQPURL != "" }

// RateLimitConfig limits attempt creation per caller. Zero disables it.
type RateLimitConfig struct {
	AttemptsPerMinute int           `yaml:"attempts_per_minute" env:"RATE_LIMIT_ATTEMPTS_PER_MINUTE" env-default:"30"`
	CleanupInterval   time.Duration `yaml:"cleanup_interval"    env:"RATE_LIMIT_CLEANUP_INTERVAL"    env-default:"1m"`
	BucketIdle        time.Duration `yaml:"bucket_idle"         env:"RATE_LIMIT_BUCKET_IDLE"         env-default:"10m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// Domain converts the quiz section to the domain type the services take.
func (c QuizConfig) Domain() domain.QuizConfig {
	return domain.QuizConfig{
		SnapshotTimeout:   c.SnapshotTimeout,
		CompletionTimeout: c.CompletionTimeout,
		VerifyAttempts:    c.VerifyAttempts,
		VerifyBackoff:     c.VerifyBackoff,
		AttemptIdleTTL:    c.AttemptIdleTTL,
		MaxAttempts:       c.MaxAttempts,
	}
}
