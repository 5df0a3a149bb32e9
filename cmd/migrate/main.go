// Command migrate applies or rolls back the embedded database migrations.
//
// Usage:
//
//	migrate [--config path] up|down|status
//
// Exit codes: 0 = success, 1 = error, 2 = usage.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/heartmarshall/flashquiz/internal/adapter/postgres"
	"github.com/heartmarshall/flashquiz/internal/app"
	"github.com/heartmarshall/flashquiz/internal/config"
)

func main() {
	configPath := flag.StringP("config", "c", "", "path to the YAML config file (default $CONFIG_PATH or ./config.yaml)")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall deadline")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] up|down|status\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	m, err := postgres.NewMigrator(cfg.Database.DSN)
	if err != nil {
		logger.Error("open migrator", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer m.Close() //nolint:errcheck

	if err := run(ctx, logger, m, flag.Arg(0)); err != nil {
		logger.Error("migrate failed", slog.String("command", flag.Arg(0)), slog.String("error", err.Error()))
		m.Close() //nolint:errcheck
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, m *postgres.Migrator, command string) error {
	switch command {
	case "up":
		n, err := m.Up(ctx)
		if err != nil {
			return err
		}
		logger.Info("migrations applied", slog.Int("count", n))
	case "down":
		if err := m.Down(ctx); err != nil {
			return err
		}
		logger.Info("last migration rolled back")
	case "status":
		statuses, err := m.Status(ctx)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			state := "pending"
			if s.Applied {
				state = "applied"
			}
			fmt.Printf("%05d  %-8s %s\n", s.Version, state, s.Source)
		}
	default:
		return fmt.Errorf("unknown command %q", command)
	}
	return nil
}
