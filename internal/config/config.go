// Package config defines all configuration structures for the RTI Sahayak
// platform. No I/O or parsing logic lives here, only plain data types and
// validation.
package config

import (
	"fmt"
	"time"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationPath   string        `mapstructure:"migration_path"`
}

// RedisConfig holds Redis connection parameters. Redis backs the per-request
// lifecycle locks.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// KafkaConfig holds the notification-sink producer parameters.
type KafkaConfig struct {
	Brokers         []string      `mapstructure:"brokers"`
	ProducerRetries int           `mapstructure:"producer_retries"`
	BatchTimeout    time.Duration `mapstructure:"batch_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
}

// CatalogConfig points at the taxonomy reference data on disk.
type CatalogConfig struct {
	// Dir contains categories.json, offices.json, and places.json.
	Dir string `mapstructure:"dir"`

	// WatchReload enables fsnotify-driven load-then-swap reloads when the
	// catalog files change on disk.
	WatchReload bool `mapstructure:"watch_reload"`
}

// ClassifierConfig holds keyword-scoring tunables.
type ClassifierConfig struct {
	// MinSignal is the minimum top score required before a category is
	// assigned; below it classification degrades to "other" with zero
	// confidence.
	MinSignal float64 `mapstructure:"min_signal"`
}

// RoutingConfig holds office-resolution tunables.
type RoutingConfig struct {
	// AdvisoryThreshold: classifications whose confidence falls below this
	// value consult the advisory collaborator before the decision is final.
	AdvisoryThreshold float64 `mapstructure:"advisory_threshold"`
}

// FeesConfig holds the fallback fee applied when an office has no base fee.
type FeesConfig struct {
	// StandardAmount is in whole rupees.
	StandardAmount int64 `mapstructure:"standard_amount"`
}

// LifecycleConfig holds the statutory windows. The RTI Act fixes 30 days for
// the PIO response; the reminder lead is operational policy. Both are
// configurable so regional statutes with different windows can be served.
type LifecycleConfig struct {
	ResponseDeadlineDays int           `mapstructure:"response_deadline_days"`
	ReminderAfterDays    int           `mapstructure:"reminder_after_days"`
	LockTTL              time.Duration `mapstructure:"lock_ttl"`
}

// SweepConfig holds escalation-sweep worker parameters.
type SweepConfig struct {
	Interval   time.Duration `mapstructure:"interval"`
	BatchSize  int           `mapstructure:"batch_size"`
	HealthPort int           `mapstructure:"health_port"`
}

// CollaboratorConfig describes one external HTTP collaborator.
type CollaboratorConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
	Enabled bool          `mapstructure:"enabled"`
}

// CollaboratorsConfig groups the three external collaborators.
type CollaboratorsConfig struct {
	Generation CollaboratorConfig `mapstructure:"generation"`
	Advisory   CollaboratorConfig `mapstructure:"advisory"`
	Filing     CollaboratorConfig `mapstructure:"filing"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level            string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format           string   `mapstructure:"format"` // "json" | "console"
	OutputPaths      []string `mapstructure:"output_paths"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths"`
}

// Config is the root configuration object.
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Kafka         KafkaConfig         `mapstructure:"kafka"`
	Catalog       CatalogConfig       `mapstructure:"catalog"`
	Classifier    ClassifierConfig    `mapstructure:"classifier"`
	Routing       RoutingConfig       `mapstructure:"routing"`
	Fees          FeesConfig          `mapstructure:"fees"`
	Lifecycle     LifecycleConfig     `mapstructure:"lifecycle"`
	Sweep         SweepConfig         `mapstructure:"sweep"`
	Collaborators CollaboratorsConfig `mapstructure:"collaborators"`
	Log           LogConfig           `mapstructure:"log"`
}

// Validate checks cross-field consistency. It assumes ApplyDefaults has
// already run, so zero values that have defaults are not reported.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host must not be empty")
	}
	if c.Catalog.Dir == "" {
		return fmt.Errorf("catalog.dir must not be empty")
	}
	if c.Classifier.MinSignal < 0 {
		return fmt.Errorf("classifier.min_signal must not be negative")
	}
	if c.Routing.AdvisoryThreshold < 0 || c.Routing.AdvisoryThreshold > 1 {
		return fmt.Errorf("routing.advisory_threshold must be within [0,1]")
	}
	if c.Lifecycle.ResponseDeadlineDays <= 0 {
		return fmt.Errorf("lifecycle.response_deadline_days must be positive")
	}
	if c.Lifecycle.ReminderAfterDays <= 0 || c.Lifecycle.ReminderAfterDays >= c.Lifecycle.ResponseDeadlineDays {
		return fmt.Errorf("lifecycle.reminder_after_days must fall before the response deadline")
	}
	if c.Sweep.Interval <= 0 {
		return fmt.Errorf("sweep.interval must be positive")
	}
	return nil
}
