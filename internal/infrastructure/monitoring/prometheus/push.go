package prometheus

import (
	"context"

	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/turtacn/sscs-case-core/internal/config"
	"github.com/turtacn/sscs-case-core/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sscs-case-core/pkg/errors"
)

// Pusher sends the collector's registry to a Pushgateway. Commands exit
// before a scrape could happen, so metrics are pushed once at the end.
type Pusher struct {
	pusher *push.Pusher
	url    string
	job    string
	logger logging.Logger
}

// NewPusher returns nil when metrics are disabled or no gateway is set.
func NewPusher(cfg config.MetricsConfig, collector MetricsCollector, logger logging.Logger) *Pusher {
	if !cfg.Enabled || cfg.PushGatewayURL == "" {
		return nil
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	job := cfg.JobName
	if job == "" {
		job = config.DefaultMetricsJobName
	}
	return &Pusher{
		pusher: push.New(cfg.PushGatewayURL, job).Gatherer(collector.Registry()),
		url:    cfg.PushGatewayURL,
		job:    job,
		logger: logger.Named("metrics_push"),
	}
}

// Push replaces the job's metric group on the gateway. A nil Pusher is a no-op.
func (p *Pusher) Push(ctx context.Context) error {
	if p == nil {
		return nil
	}
	if err := p.pusher.PushContext(ctx); err != nil {
		p.logger.Warn("metrics push failed", logging.String("url", p.url), logging.Err(err))
		return errors.Wrap(err, errors.CodeServiceUnavailable, "push metrics")
	}
	p.logger.Debug("metrics pushed", logging.String("url", p.url), logging.String("job", p.job))
	return nil
}
