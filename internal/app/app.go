package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/flashquiz/internal/adapter/amqp"
	"github.com/heartmarshall/flashquiz/internal/adapter/postgres"
	"github.com/heartmarshall/flashquiz/internal/adapter/postgres/cardset"
	"github.com/heartmarshall/flashquiz/internal/adapter/postgres/quizsession"
	"github.com/heartmarshall/flashquiz/internal/auth"
	"github.com/heartmarshall/flashquiz/internal/config"
	"github.com/heartmarshall/flashquiz/internal/service/catalog"
	"github.com/heartmarshall/flashquiz/internal/service/quiz"
	"github.com/heartmarshall/flashquiz/internal/service/recorder"
	"github.com/heartmarshall/flashquiz/internal/transport/dataloader"
	"github.com/heartmarshall/flashquiz/internal/transport/middleware"
	"github.com/heartmarshall/flashquiz/internal/transport/rest"
)

// Run is the application entry point. It loads configuration from
// configPath (empty means CONFIG_PATH or ./config.yaml), wires every
// component and serves HTTP until ctx is cancelled.
func Run(ctx context.Context, configPath string) error {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	// 1. Database.
	if cfg.Database.MigrateOnStart {
		if err := migrate(ctx, logger, cfg.Database.DSN); err != nil {
			return err
		}
	}

	pool, err := postgres.NewPool(ctx, logger, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)

	// 2. Repositories.
	setRepo := cardset.New(pool)
	sessionRepo := quizsession.New(pool)

	// 3. Event publisher. A nil publisher drops events.
	var publisher *amqp.Publisher
	if cfg.Events.Enabled() {
		publisher, err = amqp.NewPublisher(logger, cfg.Events.AMQPURL, cfg.Events.Exchange)
		if err != nil {
			return err
		}
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Warn("close event publisher", slog.String("error", err.Error()))
			}
		}()
	} else {
		logger.Info("event publishing disabled")
	}

	// 4. Services.
	quizCfg := cfg.Quiz.Domain()
	recorderService := recorder.NewService(logger, sessionRepo, setRepo, publisher, quizCfg)
	quizService := quiz.NewService(logger, setRepo, recorderService, quizCfg)
	catalogService := catalog.NewService(logger, setRepo, setRepo, txm)

	jwtMgr := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL, cfg.Auth.ClockSkew)

	// 5. HTTP.
	limiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval, cfg.RateLimit.BucketIdle)
	defer limiter.Stop()

	var broker interface{ Ping(context.Context) error }
	if publisher != nil {
		broker = publisher
	}

	router := rest.Router{
		Health:   rest.NewHealthHandler(pool, broker, BuildVersion()),
		Attempts: rest.NewAttemptHandler(quizService, logger),
		Sets:     rest.NewSetHandler(catalogService, recorderService, logger),
		API: middleware.Chain(
			middleware.Auth(jwtMgr),
			dataloader.Middleware(&dataloader.Repos{
				Cards:    setRepo,
				Sets:     setRepo,
				Sessions: sessionRepo,
			}),
		),
		StartLimit: limiter.Limit(cfg.RateLimit.AttemptsPerMinute),
	}

	handler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
	)(router.Handler())

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		quizService.RunSweeper(gctx, cfg.Quiz.SweepInterval)
		return nil
	})

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		quizService.Close()
		if err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("stopped")
	return nil
}

func migrate(ctx context.Context, logger *slog.Logger, dsn string) error {
	m, err := postgres.NewMigrator(dsn)
	if err != nil {
		return err
	}
	defer m.Close() //nolint:errcheck

	applied, err := m.Up(ctx)
	if err != nil {
		return err
	}
	logger.Info("migrations applied", slog.Int("count", applied))
	return nil
}
