package config

import "time"

// Default values applied to unset fields.
const (
	DefaultServerPort = 8080
	DefaultServerMode = "release"

	DefaultDBHost = "localhost"
	DefaultDBPort = 5432
	DefaultDBName = "rti_sahayak"

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisKeyPrefix = "rti:"

	DefaultKafkaBroker = "localhost:9092"

	DefaultCatalogDir = "configs/catalog"

	DefaultMinSignal         = 1.0
	DefaultAdvisoryThreshold = 0.35

	// DefaultStandardFee is the Section 6(1) application fee in rupees.
	DefaultStandardFee int64 = 10

	// DefaultResponseDeadlineDays mirrors Section 7(1) of the RTI Act 2005.
	DefaultResponseDeadlineDays = 30
	DefaultReminderAfterDays    = 25

	DefaultSweepInterval   = 4 * time.Hour
	DefaultSweepBatchSize  = 200
	DefaultSweepHealthPort = 8081

	DefaultLockTTL = 30 * time.Second

	DefaultCollaboratorTimeout = 20 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// ApplyDefaults fills zero-value fields in cfg with platform defaults.
// Explicitly configured values always win. Call after unmarshalling and
// before Validate so optional-but-defaulted fields are never seen as missing.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30 * time.Second
	}

	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 10
	}
	if cfg.Database.MigrationPath == "" {
		cfg.Database.MigrationPath = "migrations"
	}

	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}

	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.ProducerRetries == 0 {
		cfg.Kafka.ProducerRetries = 3
	}

	if cfg.Catalog.Dir == "" {
		cfg.Catalog.Dir = DefaultCatalogDir
	}

	if cfg.Classifier.MinSignal == 0 {
		cfg.Classifier.MinSignal = DefaultMinSignal
	}
	if cfg.Routing.AdvisoryThreshold == 0 {
		cfg.Routing.AdvisoryThreshold = DefaultAdvisoryThreshold
	}
	if cfg.Fees.StandardAmount == 0 {
		cfg.Fees.StandardAmount = DefaultStandardFee
	}

	if cfg.Lifecycle.ResponseDeadlineDays == 0 {
		cfg.Lifecycle.ResponseDeadlineDays = DefaultResponseDeadlineDays
	}
	if cfg.Lifecycle.ReminderAfterDays == 0 {
		cfg.Lifecycle.ReminderAfterDays = DefaultReminderAfterDays
	}
	if cfg.Lifecycle.LockTTL == 0 {
		cfg.Lifecycle.LockTTL = DefaultLockTTL
	}

	if cfg.Sweep.Interval == 0 {
		cfg.Sweep.Interval = DefaultSweepInterval
	}
	if cfg.Sweep.BatchSize == 0 {
		cfg.Sweep.BatchSize = DefaultSweepBatchSize
	}
	if cfg.Sweep.HealthPort == 0 {
		cfg.Sweep.HealthPort = DefaultSweepHealthPort
	}

	applyCollaboratorDefaults(&cfg.Collaborators.Generation)
	applyCollaboratorDefaults(&cfg.Collaborators.Advisory)
	applyCollaboratorDefaults(&cfg.Collaborators.Filing)

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

func applyCollaboratorDefaults(c *CollaboratorConfig) {
	if c.Timeout == 0 {
		c.Timeout = DefaultCollaboratorTimeout
	}
}
