// Package cache реализует хранилище ключ-значение на Redis и обобщенный cache-aside.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"gochat/internal/chat/ports/cache"
	"gochat/pkg/logger"
)

// Константы для логирования.
const (
	LogMethodGet    = "get"
	LogMethodSet    = "set"
	LogMethodDelete = "delete"
	LogMethodExists = "exists"
	LogMethodIncr   = "incr"

	ErrorFailedToGet    = "failed to get value from redis"
	ErrorFailedToSet    = "failed to set value in redis"
	ErrorFailedToDelete = "failed to delete value from redis"
	ErrorFailedToCheck  = "failed to check key in redis"
	ErrorFailedToIncr   = "failed to increment counter in redis"
	ErrorFailedToClose  = "failed to close redis connection"
)

// RedisStore реализует cache.Store поверх Redis.
type RedisStore struct {
	client     *redis.Client
	defaultTTL time.Duration
}

// NewRedisStore создает хранилище на готовом клиенте.
func NewRedisStore(client *redis.Client, defaultTTL time.Duration) cache.Store {
	return &RedisStore{
		client:     client,
		defaultTTL: defaultTTL,
	}
}

// Get получает значение по ключу.
func (c *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		logger.Log(ctx).Error(ctx, ErrorFailedToGet, zap.String("method", LogMethodGet), zap.String("key", key), zap.Error(err))
		return "", false, fmt.Errorf("%s: %w", ErrorFailedToGet, err)
	}

	return value, true, nil
}

// Set устанавливает значение с временем жизни.
func (c *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	ttl = c.expiration(ttl)

	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		logger.Log(ctx).Error(ctx, ErrorFailedToSet, zap.String("method", LogMethodSet), zap.String("key", key), zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToSet, err)
	}

	return nil
}

// Delete удаляет ключи. Отсутствующие ключи не считаются ошибкой.
func (c *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Log(ctx).Error(ctx, ErrorFailedToDelete, zap.String("method", LogMethodDelete), zap.Strings("keys", keys), zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToDelete, err)
	}

	return nil
}

// Exists проверяет наличие ключа.
func (c *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		logger.Log(ctx).Error(ctx, ErrorFailedToCheck, zap.String("method", LogMethodExists), zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("%s: %w", ErrorFailedToCheck, err)
	}

	return n > 0, nil
}

// Incr выполняет INCR и EXPIRE в одном MULTI/EXEC, поэтому параллельные вызовы не теряют приращения.
func (c *RedisStore) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	ttl = c.expiration(ttl)

	var incr *redis.IntCmd
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		} else {
			pipe.Persist(ctx, key)
		}
		return nil
	})
	if err != nil {
		logger.Log(ctx).Error(ctx, ErrorFailedToIncr, zap.String("method", LogMethodIncr), zap.String("key", key), zap.Error(err))
		return 0, fmt.Errorf("%s: %w", ErrorFailedToIncr, err)
	}

	return incr.Val(), nil
}

// expiration переводит ttl порта в срок жизни go-redis, где 0 означает запись без срока.
func (c *RedisStore) expiration(ttl time.Duration) time.Duration {
	switch {
	case ttl == cache.NoExpiry:
		return 0
	case ttl <= 0:
		return c.defaultTTL
	default:
		return ttl
	}
}

// Close закрывает соединение с Redis.
func (c *RedisStore) Close() error {
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedToClose, err)
	}
	return nil
}
