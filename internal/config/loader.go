package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for all platform settings.
const envPrefix = "RTI"

// newViper builds a pre-configured Viper instance: YAML file type, RTI_ env
// prefix, automatic env binding, and a key replacer mapping "." to "_" so
// that nested keys like "database.host" resolve to "RTI_DATABASE_HOST".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	registerKeys(v)
	return v
}

// registerKeys declares every known key so that env-only values are visible
// to Unmarshal. Viper ignores environment variables for keys it has never
// seen; a zero-value default is enough to register one.
func registerKeys(v *viper.Viper) {
	for _, key := range []string{
		"server.port", "server.mode", "server.read_timeout", "server.write_timeout", "server.shutdown_timeout",
		"database.host", "database.port", "database.user", "database.password", "database.db_name",
		"database.ssl_mode", "database.max_open_conns", "database.max_idle_conns",
		"database.conn_max_lifetime", "database.conn_max_idle_time", "database.migration_path",
		"redis.addr", "redis.password", "redis.db", "redis.pool_size",
		"redis.dial_timeout", "redis.read_timeout", "redis.write_timeout", "redis.key_prefix",
		"kafka.brokers", "kafka.producer_retries", "kafka.batch_timeout", "kafka.write_timeout",
		"catalog.dir", "catalog.watch_reload",
		"classifier.min_signal",
		"routing.advisory_threshold",
		"fees.standard_amount",
		"lifecycle.response_deadline_days", "lifecycle.reminder_after_days", "lifecycle.lock_ttl",
		"sweep.interval", "sweep.batch_size", "sweep.health_port",
		"collaborators.generation.base_url", "collaborators.generation.api_key",
		"collaborators.generation.timeout", "collaborators.generation.enabled",
		"collaborators.advisory.base_url", "collaborators.advisory.api_key",
		"collaborators.advisory.timeout", "collaborators.advisory.enabled",
		"collaborators.filing.base_url", "collaborators.filing.api_key",
		"collaborators.filing.timeout", "collaborators.filing.enabled",
		"log.level", "log.format", "log.output_paths", "log.error_output_paths",
	} {
		v.SetDefault(key, nil)
	}
}

// Load reads the YAML file at configPath, merges RTI_* environment overrides,
// applies defaults for unset fields, and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from RTI_* environment variables with
// no config file, the preferred strategy for containerised deployments.
//
//	RTI_<SECTION>_<FIELD>   e.g. RTI_DATABASE_HOST, RTI_REDIS_ADDR
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath and invokes onChange with the newly parsed Config
// whenever the file changes on disk. Intended for hot-reloading settings that
// are safe to change at runtime (log level, sweep interval); callers apply
// only the safe subset. A change that fails to parse or validate does not
// invoke onChange.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Initial read; callers are expected to have called Load first.
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}
