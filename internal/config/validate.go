package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"json", "text"}
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically. All
// problems are reported together.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Auth.JWTSecret) < 32 {
		errs = append(errs, fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret)))
	}
	if c.Auth.ClockSkew < 0 {
		errs = append(errs, fmt.Errorf("auth.clock_skew must be >= 0 (got %s)", c.Auth.ClockSkew))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port))
	}
	if c.Database.MinConns > c.Database.MaxConns {
		errs = append(errs, fmt.Errorf("database.min_conns (%d) must not exceed max_conns (%d)", c.Database.MinConns, c.Database.MaxConns))
	}
	if c.Database.ConnectRetries < 0 || c.Database.ConnectBackoff < 0 {
		errs = append(errs, errors.New("database.connect_retries and database.connect_backoff must be >= 0"))
	}
	if err := c.Quiz.validate(); err != nil {
		errs = append(errs, fmt.Errorf("quiz: %w", err))
	}
	if c.Events.Enabled() && strings.TrimSpace(c.Events.Exchange) == "" {
		errs = append(errs, errors.New("events.exchange is required when events.amqp_url is set"))
	}
	if c.RateLimit.AttemptsPerMinute < 0 {
		errs = append(errs, fmt.Errorf("rate_limit.attempts_per_minute must be >= 0 (got %d)", c.RateLimit.AttemptsPerMinute))
	}
	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		errs = append(errs, fmt.Errorf("log.level must be one of %v (got %q)", logLevels, c.Log.Level))
	}
	if !slices.Contains(logFormats, strings.ToLower(c.Log.Format)) {
		errs = append(errs, fmt.Errorf("log.format must be one of %v (got %q)", logFormats, c.Log.Format))
	}

	return errors.Join(errs...)
}

func (q *QuizConfig) validate() error {
	if q.SnapshotTimeout <= 0 {
		return fmt.Errorf("snapshot_timeout must be > 0 (got %s)", q.SnapshotTimeout)
	}
	if q.CompletionTimeout <= 0 {
		return fmt.Errorf("completion_timeout must be > 0 (got %s)", q.CompletionTimeout)
	}
	if q.VerifyAttempts < 1 {
		return fmt.Errorf("verify_attempts must be >= 1 (got %d)", q.VerifyAttempts)
	}
	if q.VerifyBackoff < 0 {
		return fmt.Errorf("verify_backoff must be >= 0 (got %s)", q.VerifyBackoff)
	}
	if q.AttemptIdleTTL <= 0 {
		return fmt.Errorf("attempt_idle_ttl must be > 0 (got %s)", q.AttemptIdleTTL)
	}
	if q.SweepInterval <= 0 {
		return fmt.Errorf("sweep_interval must be > 0 (got %s)", q.SweepInterval)
	}
	if q.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be >= 1 (got %d)", q.MaxAttempts)
	}
	return nil
}
