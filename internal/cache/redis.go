package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.SugaredLogger
}

// NewRedisCache подключается к addr. Недоступный Redis не ошибка: кэш
// best-effort, промахи просто идут в движок.
func NewRedisCache(ctx context.Context, addr string, ttl time.Duration, logger *zap.SugaredLogger) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warnw("redis not available, cost cache degraded", "addr", addr, "error", err)
	} else {
		logger.Infow("connected to redis", "addr", addr, "ttl", ttl)
	}

	return &RedisCache{
		client: rdb,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	if err != nil {
		r.logger.Warnw("redis get failed", "key", key, "error", err)
	}
	return val, err
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	err := r.client.Set(ctx, key, value, r.ttl).Err()
	if err != nil {
		r.logger.Warnw("redis set failed", "key", key, "error", err)
	}
	return err
}

// DeletePrefix сканирует ключи по шаблону prefix* и удаляет найденные.
// prefix не должен содержать glob-символов.
func (r *RedisCache) DeletePrefix(ctx context.Context, prefix string) error {
	var keys []string
	iter := r.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		r.logger.Warnw("redis scan failed", "prefix", prefix, "error", err)
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.logger.Warnw("redis del failed", "prefix", prefix, "keys", len(keys), "error", err)
		return err
	}
	return nil
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
