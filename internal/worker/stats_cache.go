package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/laundry-service/internal/events"
	"github.com/spec-kit/laundry-service/internal/service"
	"github.com/spec-kit/laundry-service/internal/stats"
	apperrors "github.com/spec-kit/laundry-service/pkg/util"
)

const cacheKey = "stats:snapshot"

// StatsCache keeps a precomputed global statistics snapshot in Redis. It
// refreshes on every domain event so the dashboard endpoint reads a warm
// value instead of recomputing per request.
type StatsCache struct {
	manager *service.LifecycleManager
	engine  *stats.Engine
	rdb     *redis.Client
	logger  *zap.Logger
	ttl     time.Duration
}

// NewStatsCache builds the worker.
func NewStatsCache(manager *service.LifecycleManager, engine *stats.Engine, rdb *redis.Client, logger *zap.Logger, ttl time.Duration) *StatsCache {
	return &StatsCache{manager: manager, engine: engine, rdb: rdb, logger: logger, ttl: ttl}
}

// Start registers the worker on the dispatcher.
func (w *StatsCache) Start(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.SubscribeAll(func(ctx context.Context, _ events.Event) error {
		if _, err := w.Refresh(ctx); err != nil {
			w.logger.Warn("statistics refresh failed", zap.Error(err))
		}
		return nil
	})
}

// Refresh recomputes the snapshot from the current lifecycle state and
// stores it. Computation panics are recovered here: the cache keeps its last
// good value and the error is reported, never propagated.
func (w *StatsCache) Refresh(ctx context.Context) (stats.Snapshot, error) {
	snap, err := w.compute(time.Now())
	if err != nil {
		return stats.Snapshot{}, err
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		return snap, err
	}
	if err := w.rdb.Set(ctx, cacheKey, raw, w.ttl).Err(); err != nil {
		// A cold cache degrades to recomputation, nothing worse.
		w.logger.Warn("could not store statistics snapshot", zap.Error(err))
	}
	return snap, nil
}

// Cached returns the stored snapshot, or nil on a cache miss.
func (w *StatsCache) Cached(ctx context.Context) (*stats.Snapshot, error) {
	raw, err := w.rdb.Get(ctx, cacheKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap stats.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (w *StatsCache) compute(now time.Time) (snap stats.Snapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.NewAggregationError(fmt.Errorf("panic: %v", r))
		}
	}()
	tickets, users := w.manager.Snapshot()
	snap = w.engine.Calculate(tickets, users, now)
	return snap, nil
}
