package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix of every setting.
const envPrefix = "SSCS"

// Sentinel errors wrapped by every loader failure.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigParseError   = errors.New("config parse error")
	ErrConfigValidation   = errors.New("config validation failed")
)

func readError(configPath string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: %w: %q: %w", ErrConfigFileNotFound, configPath, err)
	}
	return fmt.Errorf("config: %w: %q: %w", ErrConfigParseError, configPath, err)
}

// newViper returns a Viper reading YAML with SSCS_ environment overrides;
// "ccd.base_url" resolves to SSCS_CCD_BASE_URL.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("ccd.retry_max", DefaultCCDRetryMax)
	v.SetDefault("kafka.required_acks", DefaultKafkaRequiredAcks)
	bindEnvKeys(v)
	return v
}

// bindEnvKeys registers every key so that environment-only configuration
// reaches Unmarshal; AutomaticEnv alone only serves keys viper already knows.
func bindEnvKeys(v *viper.Viper) {
	for _, key := range []string{
		"log.level", "log.format", "log.output_paths",
		"ccd.base_url", "ccd.user_id", "ccd.jurisdiction", "ccd.case_type",
		"ccd.timeout", "ccd.retry_max", "ccd.retry_wait", "ccd.idam_token", "ccd.service_token",
		"reference.dwp_addresses_path",
		"redis.enabled", "redis.addr", "redis.password", "redis.db", "redis.key_prefix",
		"redis.case_ttl", "redis.dial_timeout",
		"kafka.enabled", "kafka.brokers", "kafka.topic", "kafka.write_timeout", "kafka.required_acks",
		"kafka.batch_size",
		"metrics.enabled", "metrics.namespace", "metrics.push_gateway_url", "metrics.job_name",
	} {
		_ = v.BindEnv(key)
	}
}

// Load reads the YAML file at configPath, merges SSCS_* overrides, applies
// defaults and validates.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, readError(configPath, err)
	}
	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from SSCS_* environment variables only.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

// LoadOrDefault loads configPath when it is non-empty and falls back to the
// environment otherwise.
func LoadOrDefault(configPath string) (*Config, error) {
	if configPath == "" {
		return LoadFromEnv()
	}
	return Load(configPath)
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: %w: %w", ErrConfigParseError, err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigValidation, err)
	}
	return cfg, nil
}

// Watch re-reads configPath on every change and passes the new Config to
// onChange. Invalid revisions are reported to onError and otherwise skipped.
// Callers apply only the safe subset, currently the log level.
func Watch(configPath string, onChange func(*Config), onError func(error)) error {
	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return readError(configPath, err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

// MustLoad is Load that panics on error. For main() only.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
