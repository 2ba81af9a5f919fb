package cli

import (
	"context"

	"github.com/turtacn/sscs-case-core/internal/application/caseupdate"
	"github.com/turtacn/sscs-case-core/internal/domain/casedata"
	"github.com/turtacn/sscs-case-core/internal/infrastructure/ccd"
	"github.com/turtacn/sscs-case-core/internal/infrastructure/database/redis"
	"github.com/turtacn/sscs-case-core/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/sscs-case-core/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sscs-case-core/pkg/errors"
)

// backend is the case-update workflow wired to the configured store, cache
// and event publisher.
type backend struct {
	service *caseupdate.Service
	// locker is nil when redis is disabled or unreachable.
	locker  *redis.CaseLocker
	closers []func() error
	logger  logging.Logger
}

// openBackend wires the workflow from cliCtx. Redis is optional: when it is
// enabled but unreachable the workflow runs uncached and unlocked.
func openBackend(cliCtx *CLIContext) (*backend, error) {
	cfg := cliCtx.Config
	b := &backend{logger: cliCtx.Logger}

	store := cliCtx.deps.Store
	if store == nil {
		if cfg.CCD.BaseURL == "" {
			return nil, errors.New(errors.CodeValidation, "ccd.base_url is not configured")
		}
		client, err := ccd.NewClient(cfg.CCD,
			ccd.WithLogger(cliCtx.Logger),
			ccd.WithObserver(cliCtx.Metrics))
		if err != nil {
			return nil, err
		}
		store = client
	}

	if cfg.Redis.Enabled {
		store = b.withRedis(cliCtx, store)
	}

	opts := []caseupdate.Option{
		caseupdate.WithLogger(cliCtx.Logger),
		caseupdate.WithMetrics(cliCtx.Metrics),
	}
	publisher, err := b.publisher(cliCtx)
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	if publisher != nil {
		opts = append(opts, caseupdate.WithPublisher(publisher))
	}

	svc, err := caseupdate.NewService(store, cliCtx.Resolver, opts...)
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	b.service = svc
	return b, nil
}

func (b *backend) withRedis(cliCtx *CLIContext, store casedata.CaseStore) casedata.CaseStore {
	cfg := cliCtx.Config.Redis
	client, err := redis.NewClient(cfg, cliCtx.Logger)
	if err != nil {
		cliCtx.Logger.Warn("redis unavailable, running without case cache and lock",
			logging.String("addr", cfg.Addr), logging.Err(err))
		return store
	}
	b.closers = append(b.closers, client.Close)
	b.locker = redis.NewCaseLocker(client, cliCtx.Logger)
	return redis.NewCaseCache(store, client, cliCtx.Logger,
		redis.WithPrefix(cfg.KeyPrefix),
		redis.WithTTL(cfg.CaseTTL),
		redis.WithCacheObserver(cliCtx.Metrics))
}

func (b *backend) publisher(cliCtx *CLIContext) (casedata.EventPublisher, error) {
	if cliCtx.deps.Publisher != nil {
		return cliCtx.deps.Publisher, nil
	}
	if !cliCtx.Config.Kafka.Enabled {
		return nil, nil
	}
	producer, err := kafka.NewProducer(cliCtx.Config.Kafka, cliCtx.Logger)
	if err != nil {
		return nil, err
	}
	publisher := kafka.NewCaseEventPublisher(producer, cliCtx.Logger)
	b.closers = append(b.closers, publisher.Close)
	return publisher, nil
}

// withCaseLock runs fn holding the case lock when a locker is configured.
func (b *backend) withCaseLock(ctx context.Context, caseID int64, fn func() error) error {
	if b.locker == nil {
		return fn()
	}
	lock, err := b.locker.Lock(ctx, caseID)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Unlock(context.WithoutCancel(ctx)); err != nil {
			b.logger.Warn("failed to release case lock", logging.CaseID(caseID), logging.Err(err))
		}
	}()
	return fn()
}

// Close releases connections in reverse order of opening.
func (b *backend) Close() error {
	var first error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			b.logger.Warn("failed to close backend resource", logging.Err(err))
			if first == nil {
				first = err
			}
		}
	}
	b.closers = nil
	return first
}
