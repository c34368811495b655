package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/termin-notifier/internal/audit"
	"github.com/BruksfildServices01/termin-notifier/internal/config"
	dbpkg "github.com/BruksfildServices01/termin-notifier/internal/db"
	"github.com/BruksfildServices01/termin-notifier/internal/infra/remote"
	infraRepo "github.com/BruksfildServices01/termin-notifier/internal/infra/repository"
	"github.com/BruksfildServices01/termin-notifier/internal/logger"
	"github.com/BruksfildServices01/termin-notifier/internal/middleware"
	"github.com/BruksfildServices01/termin-notifier/internal/notify"
	"github.com/BruksfildServices01/termin-notifier/internal/routes"
	"github.com/BruksfildServices01/termin-notifier/internal/scheduler"
	"github.com/BruksfildServices01/termin-notifier/internal/timezone"
	ucAvailability "github.com/BruksfildServices01/termin-notifier/internal/usecase/availability"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zlog, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("service stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := dbpkg.NewDB(cfg, zlog)
	if err != nil {
		return err
	}

	// ======================================================
	// INFRA
	// ======================================================
	auditDispatcher := audit.NewDispatcher(audit.New(db), zlog.Named("audit"))
	defer auditDispatcher.Close()

	remoteClient := remote.NewAvailabilityClient(
		cfg.RemoteBaseURL,
		cfg.RemoteTimeout,
		timezone.Location(cfg.RemoteTimezone),
		zlog.Named("remote"),
	)

	transport, closeTransport, err := newTransport(cfg, zlog)
	if err != nil {
		return err
	}
	defer closeTransport()

	locker, closeLocker, err := newLocker(ctx, cfg, zlog)
	if err != nil {
		return err
	}
	defer closeLocker()

	// ======================================================
	// CYCLE
	// ======================================================
	dispatcher := notify.NewDispatcher(transport, timezone.Location(cfg.DisplayTimezone), zlog.Named("notify"))

	reconcileUC := ucAvailability.NewReconcileDoctor(
		remoteClient,
		infraRepo.NewSlotGormRepository(db),
		dispatcher,
		auditDispatcher,
		zlog.Named("reconcile"),
	)

	cycles := scheduler.New(
		scheduler.Options{
			Interval:    cfg.PollInterval,
			Concurrency: cfg.CycleConcurrency,
			LockTTL:     cfg.CycleLockTTL,
		},
		infraRepo.NewSubscriptionGormRepository(db),
		reconcileUC,
		locker,
		auditDispatcher,
		zlog.Named("scheduler"),
	)
	if err := cycles.Start(ctx); err != nil {
		return err
	}
	defer cycles.Stop()

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(zlog.Named("http")))

	routes.RegisterRoutes(r, routes.Deps{
		DB:     db,
		Config: cfg,
		Log:    zlog,
		Remote: remoteClient,
		Audit:  auditDispatcher,
		Cycles: cycles,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zlog.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		zlog.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newTransport(cfg *config.Config, zlog *zap.Logger) (notify.Transport, func(), error) {
	switch cfg.MailTransport {
	case config.MailTransportSMTP:
		return notify.NewSMTPTransport(cfg.SMTP), func() {}, nil

	case config.MailTransportAMQP:
		conn, err := amqp.Dial(cfg.RabbitMQURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect rabbitmq: %w", err)
		}
		ch, err := conn.Channel()
		if err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("open rabbitmq channel: %w", err)
		}
		if _, err := ch.QueueDeclare(cfg.RabbitMQMailQueue, true, false, false, false, nil); err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("declare queue %s: %w", cfg.RabbitMQMailQueue, err)
		}
		zlog.Info("mail via rabbitmq", zap.String("queue", cfg.RabbitMQMailQueue))
		return notify.NewAMQPTransport(ch, cfg.RabbitMQMailQueue), func() {
			_ = ch.Close()
			_ = conn.Close()
		}, nil

	default:
		zlog.Warn("mail transport is log only")
		return notify.NewLogTransport(zlog.Named("mail")), func() {}, nil
	}
}

func newLocker(ctx context.Context, cfg *config.Config, zlog *zap.Logger) (scheduler.Locker, func(), error) {
	if cfg.RedisURL == "" {
		return scheduler.NewLocalLocker(), func() {}, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}

	zlog.Info("cycle lock via redis", zap.String("addr", opts.Addr))
	return scheduler.NewRedisLocker(client), func() { _ = client.Close() }, nil
}
