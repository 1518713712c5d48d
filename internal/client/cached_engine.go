package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/boxdancer/fruit-store-client/internal/cache"
	"github.com/boxdancer/fruit-store-client/internal/fruit"
	"github.com/boxdancer/fruit-store-client/internal/observability"
)

// sharedCallTimeout ограничивает общий вызов backend, который больше не
// наследует дедлайн вызывающего.
const sharedCallTimeout = 10 * time.Second

// CachedEngine оборачивает любой fruit.Engine и кэширует результаты CalculateFruitCost.
// Изменение цены фрукта сбрасывает все его закэшированные стоимости.
type CachedEngine struct {
	fruit.Engine
	cache   cache.Cache
	metrics observability.Metrics
	logger  *zap.SugaredLogger
	sf      singleflight.Group
}

func NewCachedEngine(backend fruit.Engine, c cache.Cache, m observability.Metrics, logger *zap.SugaredLogger) *CachedEngine {
	return &CachedEngine{
		Engine:  backend,
		cache:   c,
		metrics: m,
		logger:  logger,
	}
}

func costPrefix(name string) string {
	return "cost:" + url.QueryEscape(name) + ":"
}

func costKey(name string, quantity int) string {
	return fmt.Sprintf("%s%d", costPrefix(name), quantity)
}

func (c *CachedEngine) CalculateFruitCost(ctx context.Context, name string, quantity int) (decimal.Decimal, error) {
	key := costKey(name, quantity)

	// Попытка взять из кэша (best-effort)
	if c.cache != nil {
		if val, err := c.cache.Get(ctx, key); err == nil {
			var cached decimal.Decimal
			if unmarshalErr := json.Unmarshal([]byte(val), &cached); unmarshalErr == nil {
				c.metrics.CacheHit()
				return cached, nil
			}
			// если unmarshal не удался, идём в backend
		}
		c.metrics.CacheMiss()
	}

	// одновременные промахи по одному ключу дают один вызов backend.
	// Общий вызов не зависит от отмены первого вызывающего; каждый ждёт его
	// под своим ctx.
	ch := c.sf.DoChan(key, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedCallTimeout)
		defer cancel()
		cost, err := c.Engine.CalculateFruitCost(callCtx, name, quantity)
		if err != nil {
			return decimal.Zero, err
		}
		// нулевую стоимость не кэшируем: фрукт может появиться позже
		if c.cache != nil && cost.IsPositive() {
			if data, marshalErr := json.Marshal(cost); marshalErr == nil {
				_ = c.cache.Set(callCtx, key, data)
			}
		}
		return cost, nil
	})
	select {
	case <-ctx.Done():
		return decimal.Zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return decimal.Zero, res.Err
		}
		return res.Val.(decimal.Decimal), nil
	}
}

func (c *CachedEngine) AddFruitPrice(ctx context.Context, name string, price decimal.Decimal) error {
	if err := c.Engine.AddFruitPrice(ctx, name, price); err != nil {
		return err
	}
	c.invalidate(ctx, name)
	return nil
}

func (c *CachedEngine) UpdateFruitPrice(ctx context.Context, name string, price decimal.Decimal) error {
	if err := c.Engine.UpdateFruitPrice(ctx, name, price); err != nil {
		return err
	}
	c.invalidate(ctx, name)
	return nil
}

func (c *CachedEngine) DeleteFruitPrice(ctx context.Context, name string) error {
	if err := c.Engine.DeleteFruitPrice(ctx, name); err != nil {
		return err
	}
	c.invalidate(ctx, name)
	return nil
}

func (c *CachedEngine) invalidate(ctx context.Context, name string) {
	if c.cache == nil {
		return
	}
	if err := c.cache.DeletePrefix(ctx, costPrefix(name)); err != nil {
		c.logger.Warnw("cost cache invalidation failed", "fruit", name, "error", err)
	}
}
