package config

import "time"

const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultCCDJurisdiction = "SSCS"
	DefaultCCDCaseType     = "Benefit"
	DefaultCCDTimeout      = 30 * time.Second
	DefaultCCDRetryMax     = 2
	DefaultCCDRetryWait    = 500 * time.Millisecond

	DefaultRedisAddr        = "localhost:6379"
	DefaultRedisKeyPrefix   = "sscs:case:"
	DefaultRedisCaseTTL     = 5 * time.Minute
	DefaultRedisDialTimeout = 5 * time.Second

	DefaultKafkaBroker       = "localhost:9092"
	DefaultKafkaTopic        = "sscs.case.events"
	DefaultKafkaWriteTimeout = 10 * time.Second
	DefaultKafkaRequiredAcks = -1
	DefaultKafkaBatchSize    = 100

	DefaultMetricsNamespace = "sscs"
	DefaultMetricsJobName   = "sscs-cli"
)

// ApplyDefaults fills zero-value fields in cfg. Explicit values always win.
// CCD.RetryMax and Kafka.RequiredAcks are left alone because 0 is a
// meaningful setting for both; newViper registers their defaults instead.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	if cfg.CCD.Jurisdiction == "" {
		cfg.CCD.Jurisdiction = DefaultCCDJurisdiction
	}
	if cfg.CCD.CaseType == "" {
		cfg.CCD.CaseType = DefaultCCDCaseType
	}
	if cfg.CCD.Timeout == 0 {
		cfg.CCD.Timeout = DefaultCCDTimeout
	}
	if cfg.CCD.RetryWait == 0 {
		cfg.CCD.RetryWait = DefaultCCDRetryWait
	}

	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if cfg.Redis.CaseTTL == 0 {
		cfg.Redis.CaseTTL = DefaultRedisCaseTTL
	}
	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = DefaultRedisDialTimeout
	}

	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = DefaultKafkaTopic
	}
	if cfg.Kafka.WriteTimeout == 0 {
		cfg.Kafka.WriteTimeout = DefaultKafkaWriteTimeout
	}
	if cfg.Kafka.BatchSize == 0 {
		cfg.Kafka.BatchSize = DefaultKafkaBatchSize
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.JobName == "" {
		cfg.Metrics.JobName = DefaultMetricsJobName
	}
}

// Defaults returns a Config holding only default values.
func Defaults() *Config {
	cfg := &Config{}
	cfg.CCD.RetryMax = DefaultCCDRetryMax
	cfg.Kafka.RequiredAcks = DefaultKafkaRequiredAcks
	ApplyDefaults(cfg)
	return cfg
}
