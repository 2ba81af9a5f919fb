// Package config defines the configuration structures of the case core.
// No I/O lives here, only plain data types and validation.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/turtacn/sscs-case-core/internal/infrastructure/monitoring/logging"
)

// LogConfig holds logger settings.
type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Format      string   `mapstructure:"format"` // "json" | "console"
	OutputPaths []string `mapstructure:"output_paths"`
}

// ToLogging converts the section into the logging package's parameters.
func (l LogConfig) ToLogging() logging.LogConfig {
	return logging.LogConfig{
		Level:       logging.ParseLevel(l.Level),
		Format:      l.Format,
		OutputPaths: l.OutputPaths,
	}
}

// CCDConfig holds the case data store endpoint and the identity used to
// start and submit events.
type CCDConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	UserID       string        `mapstructure:"user_id"`
	Jurisdiction string        `mapstructure:"jurisdiction"`
	CaseType     string        `mapstructure:"case_type"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RetryMax     int           `mapstructure:"retry_max"`
	RetryWait    time.Duration `mapstructure:"retry_wait"`
	IdamToken    string        `mapstructure:"idam_token"`
	ServiceToken string        `mapstructure:"service_token"`
}

// ReferenceConfig points at reference data overriding the bundled copies.
type ReferenceConfig struct {
	// DwpAddressesPath replaces the bundled DWP office table when set.
	DwpAddressesPath string `mapstructure:"dwp_addresses_path"`
}

// RedisConfig holds the case read cache settings.
type RedisConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	KeyPrefix   string        `mapstructure:"key_prefix"`
	CaseTTL     time.Duration `mapstructure:"case_ttl"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

// KafkaConfig holds the case event publisher settings.
type KafkaConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Brokers      []string      `mapstructure:"brokers"`
	Topic        string        `mapstructure:"topic"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	RequiredAcks int           `mapstructure:"required_acks"` // -1 all, 0 none, 1 leader
	BatchSize    int           `mapstructure:"batch_size"`
}

// MetricsConfig holds Prometheus settings. Commands are short-lived, so
// metrics are pushed to a Pushgateway when PushGatewayURL is set.
type MetricsConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Namespace      string `mapstructure:"namespace"`
	PushGatewayURL string `mapstructure:"push_gateway_url"`
	JobName        string `mapstructure:"job_name"`
}

// Config is the root configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	CCD       CCDConfig       `mapstructure:"ccd"`
	Reference ReferenceConfig `mapstructure:"reference"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// Validate checks the fully-defaulted Config and returns the first problem.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	if c.CCD.BaseURL != "" {
		u, err := url.Parse(c.CCD.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("config: ccd.base_url %q is not an absolute URL", c.CCD.BaseURL)
		}
		if c.CCD.UserID == "" {
			return fmt.Errorf("config: ccd.user_id is required when ccd.base_url is set")
		}
	}
	if c.CCD.Timeout <= 0 {
		return fmt.Errorf("config: ccd.timeout must be positive, got %s", c.CCD.Timeout)
	}
	if c.CCD.RetryMax < 0 {
		return fmt.Errorf("config: ccd.retry_max must be >= 0, got %d", c.CCD.RetryMax)
	}

	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			return fmt.Errorf("config: redis.addr is required when redis is enabled")
		}
		if c.Redis.DB < 0 {
			return fmt.Errorf("config: redis.db must be >= 0, got %d", c.Redis.DB)
		}
		if c.Redis.CaseTTL <= 0 {
			return fmt.Errorf("config: redis.case_ttl must be positive, got %s", c.Redis.CaseTTL)
		}
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("config: kafka.topic is required when kafka is enabled")
		}
		switch c.Kafka.RequiredAcks {
		case -1, 0, 1:
		default:
			return fmt.Errorf("config: kafka.required_acks %d is invalid; expected -1|0|1", c.Kafka.RequiredAcks)
		}
	}

	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return fmt.Errorf("config: metrics.namespace is required when metrics are enabled")
	}
	return nil
}
