// apiserver is the RTI Sahayak HTTP API entry point. It wires the storage,
// broker, and collaborator clients into the lifecycle engine and serves the
// REST surface.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opengov-in/rti-sahayak/internal/application/classify"
	"github.com/opengov-in/rti-sahayak/internal/application/draft"
	"github.com/opengov-in/rti-sahayak/internal/application/escalation"
	"github.com/opengov-in/rti-sahayak/internal/application/lifecycle"
	"github.com/opengov-in/rti-sahayak/internal/application/routing"
	"github.com/opengov-in/rti-sahayak/internal/config"
	"github.com/opengov-in/rti-sahayak/internal/domain/taxonomy"
	"github.com/opengov-in/rti-sahayak/internal/infrastructure/collaborators"
	"github.com/opengov-in/rti-sahayak/internal/infrastructure/database/postgres"
	"github.com/opengov-in/rti-sahayak/internal/infrastructure/database/postgres/repositories"
	"github.com/opengov-in/rti-sahayak/internal/infrastructure/database/redis"
	"github.com/opengov-in/rti-sahayak/internal/infrastructure/messaging/kafka"
	"github.com/opengov-in/rti-sahayak/internal/infrastructure/monitoring/logging"
	"github.com/opengov-in/rti-sahayak/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/opengov-in/rti-sahayak/internal/interfaces/http"
	"github.com/opengov-in/rti-sahayak/internal/interfaces/http/handlers"
)

const (
	defaultConfigPath = "configs/config.yaml"

	// classifyCacheTTL bounds staleness of classification previews after a
	// catalog reload.
	classifyCacheTTL = 10 * time.Minute
)

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	skipMigrations := flag.Bool("skip-migrations", false, "do not run schema migrations at startup")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
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

	logger.Info("starting rti-sahayak apiserver",
		logging.Int("port", cfg.Server.Port),
		logging.String("catalog_dir", cfg.Catalog.Dir))

	if err := run(cfg, logger, *skipMigrations); err != nil {
		logger.Error("apiserver exited with error", logging.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger logging.Logger, skipMigrations bool) error {
	// PostgreSQL.
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

	if !skipMigrations {
		if err := postgres.RunMigrations(postgres.BuildDSN(pgCfg), "file://"+cfg.Database.MigrationPath); err != nil {
			return fmt.Errorf("migrations failed: %w", err)
		}
		logger.Info("schema migrations applied")
	}

	conn, err := postgres.NewConnection(pgCfg, logger)
	if err != nil {
		return fmt.Errorf("postgres connection failed: %w", err)
	}
	defer conn.Close()

	requestRepo := repositories.NewRequestRepository(conn.DB(), logger)
	appealRepo := repositories.NewAppealRepository(conn.DB(), logger)

	// Redis backs the per-request locks and the classification cache.
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

	locker := redis.NewRequestLocker(redisClient, cfg.Lifecycle.LockTTL, logger)
	classifyCache := redis.NewCache(redisClient, cfg.Redis.KeyPrefix, classifyCacheTTL)

	// Kafka notification sink.
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

	// Taxonomy catalog with optional hot reload.
	catalog, err := taxonomy.NewStore(cfg.Catalog.Dir, logger)
	if err != nil {
		return fmt.Errorf("catalog load failed: %w", err)
	}
	if cfg.Catalog.WatchReload {
		if err := catalog.Watch(); err != nil {
			return fmt.Errorf("catalog watch failed: %w", err)
		}
	}
	defer catalog.Close()

	// External collaborators. Disabled ones degrade to built-in fallbacks.
	var generator draft.QuestionGenerator
	if cfg.Collaborators.Generation.Enabled {
		generator = collaborators.NewTextGenClient(collaborators.TextGenConfig{
			BaseURL: cfg.Collaborators.Generation.BaseURL,
			APIKey:  cfg.Collaborators.Generation.APIKey,
			Timeout: cfg.Collaborators.Generation.Timeout,
		}, logger)
	}

	var advisor routing.Advisor
	if cfg.Collaborators.Advisory.Enabled {
		advisor = collaborators.NewAdvisorClient(collaborators.AdvisorConfig{
			BaseURL: cfg.Collaborators.Advisory.BaseURL,
			APIKey:  cfg.Collaborators.Advisory.APIKey,
			Timeout: cfg.Collaborators.Advisory.Timeout,
		}, logger)
	}

	gateway := collaborators.NewGatewayClient(collaborators.GatewayConfig{
		BaseURL: cfg.Collaborators.Filing.BaseURL,
		APIKey:  cfg.Collaborators.Filing.APIKey,
		Timeout: cfg.Collaborators.Filing.Timeout,
	}, logger)

	// Application layer.
	classifier := classify.NewClassifier(cfg.Classifier.MinSignal)
	router := routing.NewRouter(advisor, cfg.Routing.AdvisoryThreshold, logger)
	fees := routing.NewFeeResolver(cfg.Fees.StandardAmount)
	assembler := draft.NewAssembler(generator, logger)

	engine := lifecycle.NewEngine(lifecycle.Config{
		Repo:                 requestRepo,
		Appeals:              appealRepo,
		Catalog:              catalog,
		Classifier:           classifier,
		Router:               router,
		Fees:                 fees,
		Assembler:            assembler,
		Gateway:              gateway,
		Locker:               locker,
		Notifier:             notifier,
		Logger:               logger,
		ResponseDeadlineDays: cfg.Lifecycle.ResponseDeadlineDays,
	})

	sweeper := escalation.New(engine, requestRepo, notifier, logger,
		cfg.Lifecycle.ReminderAfterDays, cfg.Sweep.BatchSize)

	// Monitoring.
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            "rti",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger)
	if err != nil {
		return fmt.Errorf("metrics collector failed: %w", err)
	}
	metrics := prometheus.NewAppMetrics(collector)

	// HTTP surface.
	handler := httpserver.NewRouter(httpserver.RouterConfig{
		RequestHandler:  handlers.NewRequestHandler(newInstrumentedService(engine, metrics), logger),
		ClassifyHandler: handlers.NewClassifyHandler(catalog, classifier, classifyCache, logger),
		SweepHandler:    handlers.NewSweepHandler(newInstrumentedSweeper(sweeper, metrics), logger),
		HealthHandler: handlers.NewHealthHandler(map[string]handlers.HealthChecker{
			"postgres": conn.HealthCheck,
			"redis":    redisClient.Ping,
		}, logger),
		Logger:           logger,
		Metrics:          metrics,
		MetricsCollector: collector,
		Mode:             cfg.Server.Mode,
	})

	server := httpserver.NewServer(httpserver.ServerConfig{
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, handler, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutdown signal received", logging.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	}

	if err := server.Stop(context.Background()); err != nil {
		logger.Error("http server shutdown error", logging.Err(err))
	}

	logger.Info("apiserver stopped")
	return nil
}

// loadConfig reads the YAML file when present, otherwise falls back to
// RTI_* environment variables only.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); err == nil {
		return config.Load(path)
	}
	fmt.Fprintf(os.Stderr, "config file %s not found, using environment variables\n", path)
	return config.LoadFromEnv()
}
