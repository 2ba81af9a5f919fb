package redis

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"math/rand"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/turtacn/sscs-case-core/internal/config"
	"github.com/turtacn/sscs-case-core/internal/domain/casedata"
	"github.com/turtacn/sscs-case-core/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sscs-case-core/pkg/errors"
)

// Cache lookup results reported to a CacheObserver.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// CacheObserver is notified of every cache lookup.
type CacheObserver interface {
	ObserveCacheLookup(result string)
}

// CaseCache is a casedata.CaseStore that serves GetCase from Redis and
// refreshes the cached copy whenever an event is submitted through it.
// Event starts always go to the store. Redis failures degrade to the store.
type CaseCache struct {
	store    casedata.CaseStore
	client   *Client
	logger   logging.Logger
	observer CacheObserver
	prefix   string
	ttl      time.Duration
	jitter   func(time.Duration) time.Duration
	group    singleflight.Group
}

var _ casedata.CaseStore = (*CaseCache)(nil)

// CacheOption configures a CaseCache.
type CacheOption func(*CaseCache)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) CacheOption {
	return func(c *CaseCache) { c.prefix = prefix }
}

// WithTTL sets the base lifetime of cached cases.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *CaseCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithCacheObserver reports lookups to o.
func WithCacheObserver(o CacheObserver) CacheOption {
	return func(c *CaseCache) { c.observer = o }
}

// NewCaseCache decorates store with a Redis read-through cache.
func NewCaseCache(store casedata.CaseStore, client *Client, log logging.Logger, opts ...CacheOption) *CaseCache {
	if log == nil {
		log = logging.NewNopLogger()
	}
	c := &CaseCache{
		store:  store,
		client: client,
		logger: log.Named("case_cache"),
		prefix: config.DefaultRedisKeyPrefix,
		ttl:    config.DefaultRedisCaseTTL,
		jitter: jitterTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CaseCache) key(caseID int64) string {
	return c.prefix + strconv.FormatInt(caseID, 10)
}

// jitterTTL spreads expiry by up to 10% either way.
func jitterTTL(ttl time.Duration) time.Duration {
	jitter := float64(ttl) * 0.1 * (rand.Float64()*2 - 1)
	return ttl + time.Duration(jitter)
}

func (c *CaseCache) observe(result string) {
	if c.observer != nil {
		c.observer.ObserveCacheLookup(result)
	}
}

// GetCase returns the cached case or loads it from the store. Concurrent
// misses for one case share a single store read. Every caller gets its own
// copy.
func (c *CaseCache) GetCase(ctx context.Context, caseID int64) (*casedata.CaseDetails, error) {
	key := c.key(caseID)
	log := c.logger.With(logging.CaseID(caseID))

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		details, derr := decode(raw)
		if derr == nil {
			c.observe(CacheHit)
			return details, nil
		}
		log.Warn("dropping undecodable cached case", logging.Err(derr))
		c.observe(CacheError)
		c.client.Del(ctx, key)
	case stderrors.Is(err, redis.Nil):
		c.observe(CacheMiss)
	default:
		log.Warn("case cache read failed, using store", logging.Err(err))
		c.observe(CacheError)
	}

	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		details, err := c.store.GetCase(ctx, caseID)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(details)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeSerialization, "cannot encode case for cache")
		}
		c.write(ctx, log, key, raw)
		return raw, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Debug("case load shared with concurrent reader")
	}
	return decode(v.([]byte))
}

func (c *CaseCache) StartEvent(ctx context.Context, caseID int64, eventType casedata.EventType) (*casedata.StartEventResponse, error) {
	return c.store.StartEvent(ctx, caseID, eventType)
}

// SubmitEvent submits through the store and caches the resulting case.
func (c *CaseCache) SubmitEvent(ctx context.Context, caseID int64, sub casedata.EventSubmission) (*casedata.CaseDetails, error) {
	details, err := c.store.SubmitEvent(ctx, caseID, sub)
	if err != nil {
		c.Invalidate(ctx, caseID)
		return nil, err
	}
	c.put(ctx, details)
	return details, nil
}

func (c *CaseCache) StartCreate(ctx context.Context, eventType casedata.EventType) (*casedata.StartEventResponse, error) {
	return c.store.StartCreate(ctx, eventType)
}

// SubmitCreate creates through the store and caches the new case.
func (c *CaseCache) SubmitCreate(ctx context.Context, sub casedata.EventSubmission) (*casedata.CaseDetails, error) {
	details, err := c.store.SubmitCreate(ctx, sub)
	if err != nil {
		return nil, err
	}
	c.put(ctx, details)
	return details, nil
}

// Invalidate drops the cached copy of a case.
func (c *CaseCache) Invalidate(ctx context.Context, caseID int64) {
	if err := c.client.Del(ctx, c.key(caseID)).Err(); err != nil {
		c.logger.Warn("case cache invalidation failed", logging.CaseID(caseID), logging.Err(err))
	}
}

func (c *CaseCache) put(ctx context.Context, details *casedata.CaseDetails) {
	if details == nil || details.ID == 0 {
		return
	}
	log := c.logger.With(logging.CaseID(details.ID))
	raw, err := json.Marshal(details)
	if err != nil {
		log.Warn("cannot encode case for cache", logging.Err(err))
		c.Invalidate(ctx, details.ID)
		return
	}
	c.write(ctx, log, c.key(details.ID), raw)
}

func (c *CaseCache) write(ctx context.Context, log logging.Logger, key string, raw []byte) {
	if err := c.client.Set(ctx, key, raw, c.jitter(c.ttl)).Err(); err != nil {
		log.Warn("case cache write failed", logging.Err(err))
	}
}

func decode(raw []byte) (*casedata.CaseDetails, error) {
	var details casedata.CaseDetails
	if err := json.Unmarshal(raw, &details); err != nil {
		return nil, errors.Wrap(err, errors.CodeSerialization, "cannot decode cached case")
	}
	return &details, nil
}
