// Package kafka publishes case workflow events to Kafka.
package kafka

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/sscs-case-core/internal/config"
	"github.com/turtacn/sscs-case-core/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sscs-case-core/pkg/errors"
)

var (
	ErrProducerClosed = errors.New(errors.CodeMessageQueueError, "producer closed")
)

const maxMessageBytes = 1024 * 1024

// WriterInterface abstracts kafka.Writer for testing.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
	Stats() kafka.WriterStats
}

// ProducerMetrics counts producer activity.
type ProducerMetrics struct {
	MessagesSent   atomic.Int64
	MessagesFailed atomic.Int64
	BytesSent      atomic.Int64
}

// Producer writes messages to one topic.
type Producer struct {
	writer  WriterInterface
	topic   string
	logger  logging.Logger
	closed  atomic.Bool
	metrics ProducerMetrics
}

// ValidateConfig checks the settings NewProducer relies on.
func ValidateConfig(cfg config.KafkaConfig) error {
	if len(cfg.Brokers) == 0 {
		return errors.New(errors.CodeValidation, "kafka brokers required")
	}
	if cfg.Topic == "" {
		return errors.New(errors.CodeValidation, "kafka topic required")
	}
	switch cfg.RequiredAcks {
	case -1, 0, 1:
	default:
		return errors.Newf(errors.CodeValidation, "kafka required_acks must be -1, 0 or 1, got %d", cfg.RequiredAcks)
	}
	return nil
}

// NewProducer builds a Producer writing to cfg.Topic. Messages are
// partitioned by key hash.
func NewProducer(cfg config.KafkaConfig, logger logging.Logger) (*Producer, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = config.DefaultKafkaWriteTimeout
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = config.DefaultKafkaBatchSize
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		MaxAttempts:  3,
		BatchSize:    batchSize,
		BatchTimeout: 50 * time.Millisecond,
		WriteTimeout: writeTimeout,
		RequiredAcks: kafka.RequiredAcks(cfg.RequiredAcks),
		Transport:    &kafka.Transport{DialTimeout: 10 * time.Second},
	}
	return newProducer(writer, cfg.Topic, logger), nil
}

func newProducer(w WriterInterface, topic string, logger logging.Logger) *Producer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Producer{writer: w, topic: topic, logger: logger.Named("kafka")}
}

// Publish writes one message.
func (p *Producer) Publish(ctx context.Context, key, value []byte, headers map[string]string) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}
	if len(value) == 0 {
		return errors.New(errors.CodeValidation, "message value required")
	}
	if len(value) > maxMessageBytes {
		return errors.Newf(errors.CodeValidation, "message of %d bytes exceeds %d", len(value), maxMessageBytes)
	}

	msg := kafka.Message{Key: key, Value: value, Time: time.Now()}
	for k, v := range headers {
		msg.Headers = append(msg.Headers, kafka.Header{Key: k, Value: []byte(v)})
	}

	start := time.Now()
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.metrics.MessagesFailed.Add(1)
		return errors.Wrap(err, errors.CodeMessageQueueError, "publish failed").WithDetail(p.topic)
	}
	p.metrics.MessagesSent.Add(1)
	p.metrics.BytesSent.Add(int64(len(value)))
	p.logger.Debug("message published",
		logging.String("topic", p.topic),
		logging.Int64("latency_ms", time.Since(start).Milliseconds()))
	return nil
}

// Sent returns how many messages were written successfully.
func (p *Producer) Sent() int64 { return p.metrics.MessagesSent.Load() }

// Failed returns how many writes failed.
func (p *Producer) Failed() int64 { return p.metrics.MessagesFailed.Load() }

// Close flushes and closes the writer. Further publishes fail.
func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := p.writer.Close()
	p.logger.Info("kafka producer closed",
		logging.Int64("sent", p.metrics.MessagesSent.Load()),
		logging.Int64("failed", p.metrics.MessagesFailed.Load()))
	return err
}
