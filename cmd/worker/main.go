// worker runs the periodic escalation sweep: reminders ahead of the
// statutory deadline and automatic first appeals once it elapses. It shares
// the lifecycle engine with the apiserver but exposes only health probes.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/opengov-in/rti-sahayak/internal/application/classify"
	"github.com/opengov-in/rti-sahayak/internal/application/draft"
	"github.com/opengov-in/rti-sahayak/internal/application/escalation"
	"github.com/opengov-in/rti-sahayak/internal/application/lifecycle"
	"github.com/opengov-in/rti-sahayak/internal/application/routing"
	"github.com/opengov-in/rti-sahayak/internal/config"
	"github.com/opengov-in/rti-sahayak/internal/domain/taxonomy"
	"github.com/opengov-in/rti-sahayak/internal/infrastructure/database/postgres"
	"github.com/opengov-in/rti-sahayak/internal/infrastructure/database/postgres/repositories"
	"github.com/opengov-in/rti-sahayak/internal/infrastructure/database/redis"
	"github.com/opengov-in/rti-sahayak/internal/infrastructure/messaging/kafka"
	"github.com/opengov-in/rti-sahayak/internal/infrastructure/monitoring/logging"
	"github.com/opengov-in/rti-sahayak/internal/interfaces/http/handlers"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	once := flag.Bool("once", false, "run a single sweep and exit")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:            cfg.Log.Level,
		Format:           cfg.Log.Format,
		OutputPaths:      cfg.Log.OutputPaths,
		ErrorOutputPaths: cfg.Log.ErrorOutputPaths,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	logger.Info("starting rti-sahayak worker",
		logging.Duration("interval", cfg.Sweep.Interval),
		logging.Int("batch_size", cfg.Sweep.BatchSize))

	if err := run(cfg, logger, *once); err != nil {
		logger.Error("worker exited with error", logging.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger logging.Logger, once bool) error {
	pgCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		Database:        cfg.Database.DBName,
		Username:        cfg.Database.User,
		Password:        cfg.Database.Password,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	}

	conn, err := postgres.NewConnection(pgCfg, logger)
	if err != nil {
		return fmt.Errorf("postgres connection failed: %w", err)
	}
	defer conn.Close()

	requestRepo := repositories.NewRequestRepository(conn.DB(), logger)
	appealRepo := repositories.NewAppealRepository(conn.DB(), logger)

	redisClient, err := redis.NewClient(&redis.Config{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	}, logger)
	if err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	defer redisClient.Close()

	producer, err := kafka.NewProducer(kafka.Config{
		Brokers:      cfg.Kafka.Brokers,
		MaxRetries:   cfg.Kafka.ProducerRetries,
		BatchTimeout: cfg.Kafka.BatchTimeout,
		WriteTimeout: cfg.Kafka.WriteTimeout,
	}, logger)
	if err != nil {
		return fmt.Errorf("kafka producer failed: %w", err)
	}
	defer producer.Close()
	notifier := kafka.NewNotifier(producer)

	catalog, err := taxonomy.NewStore(cfg.Catalog.Dir, logger)
	if err != nil {
		return fmt.Errorf("catalog load failed: %w", err)
	}
	defer catalog.Close()

	// The worker never files or drafts new requests, so the gateway and
	// collaborators stay unwired; the sweep path only reads, escalates, and
	// notifies.
	engine := lifecycle.NewEngine(lifecycle.Config{
		Repo:                 requestRepo,
		Appeals:              appealRepo,
		Catalog:              catalog,
		Classifier:           classify.NewClassifier(cfg.Classifier.MinSignal),
		Router:               routing.NewRouter(nil, cfg.Routing.AdvisoryThreshold, logger),
		Fees:                 routing.NewFeeResolver(cfg.Fees.StandardAmount),
		Assembler:            draft.NewAssembler(nil, logger),
		Locker:               redis.NewRequestLocker(redisClient, cfg.Lifecycle.LockTTL, logger),
		Notifier:             notifier,
		Logger:               logger,
		ResponseDeadlineDays: cfg.Lifecycle.ResponseDeadlineDays,
	})

	sweeper := escalation.New(engine, requestRepo, notifier, logger,
		cfg.Lifecycle.ReminderAfterDays, cfg.Sweep.BatchSize)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if once {
		result, err := sweeper.Run(ctx)
		if err != nil {
			return fmt.Errorf("sweep failed: %w", err)
		}
		logger.Info("sweep complete",
			logging.Int("scanned", result.Scanned),
			logging.Int("reminders", result.Reminders),
			logging.Int("appeals", result.Appeals),
			logging.Int("failures", result.Failures))
		return nil
	}

	healthSrv := startHealthServer(cfg, logger, conn, redisClient)

	done := make(chan struct{})
	go func() {
		sweeper.Loop(ctx, cfg.Sweep.Interval)
		close(done)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("shutdown signal received", logging.String("signal", sig.String()))

	cancel()
	<-done

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := healthSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("health server shutdown error", logging.Err(err))
	}

	logger.Info("worker stopped")
	return nil
}

// startHealthServer exposes liveness and readiness probes for the worker.
func startHealthServer(cfg *config.Config, logger logging.Logger, conn *postgres.Connection, redisClient *redis.Client) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	health := handlers.NewHealthHandler(map[string]handlers.HealthChecker{
		"postgres": conn.HealthCheck,
		"redis":    redisClient.Ping,
	}, logger)
	router.GET("/healthz", health.Liveness)
	router.GET("/readyz", health.Readiness)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Sweep.HealthPort),
		Handler: router,
	}

	go func() {
		logger.Info("health server listening", logging.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("health server error", logging.Err(err))
		}
	}()

	return srv
}

func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); err == nil {
		return config.Load(path)
	}
	fmt.Fprintf(os.Stderr, "config file %s not found, using environment variables\n", path)
	return config.LoadFromEnv()
}
