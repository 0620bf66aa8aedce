package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"gochat/internal/chat/ports/cache"
	"gochat/pkg/logger"
)

const (
	msgCacheHit           = "cache hit"
	msgCacheMiss          = "cache miss"
	msgCacheReadFailed    = "cache read failed, falling back to durable store"
	msgCacheDecodeFailed  = "cached entry is undecodable, dropping it"
	msgCacheWriteFailed   = "failed to populate cache"
	msgInvalidationFailed = "cache invalidation failed, entry stays stale until TTL"
)

// Aside реализует шаблон cache-aside поверх cache.Store: чтение через кэш
// и инвалидацию после записи в долговременное хранилище.
type Aside struct {
	store      cache.Store
	defaultTTL time.Duration
	group      singleflight.Group
}

// NewAside создает помощник cache-aside. defaultTTL применяется, когда ttl операции равен нулю.
func NewAside(store cache.Store, defaultTTL time.Duration) *Aside {
	return &Aside{
		store:      store,
		defaultTTL: defaultTTL,
	}
}

// Store возвращает нижележащее хранилище.
func (a *Aside) Store() cache.Store {
	return a.store
}

// Load читает значение по ключу key; при промахе вызывает loader.
// Результат кладется в кэш, только если cacheable(result) истинно (nil - всегда).
// Ошибки loader не кэшируются. Одновременные промахи по одному ключу объединяются;
// отмена ctx прерывает ожидание только этого вызывающего.
func Load[T any](
	ctx context.Context,
	a *Aside,
	key string,
	ttl time.Duration,
	loader func(ctx context.Context) (T, error),
	cacheable func(T) bool,
) (T, error) {
	log := logger.Log(ctx).With(zap.String("cache_key", key))

	raw, found, err := a.store.Get(ctx, key)
	switch {
	case err != nil:
		log.Warn(ctx, msgCacheReadFailed, zap.Error(err))
	case found:
		var cached T
		if decodeErr := json.Unmarshal([]byte(raw), &cached); decodeErr == nil {
			log.Debug(ctx, msgCacheHit)
			return cached, nil
		}
		log.Warn(ctx, msgCacheDecodeFailed)
		a.Invalidate(ctx, key)
	default:
		log.Debug(ctx, msgCacheMiss)
	}

	// Общая загрузка не зависит от отмены запроса, который ее начал:
	// ее результат ждут и другие вызывающие.
	loadCtx := context.WithoutCancel(ctx)
	results := a.group.DoChan(key, func() (any, error) {
		value, loadErr := loader(loadCtx)
		if loadErr != nil {
			return nil, loadErr
		}

		if cacheable == nil || cacheable(value) {
			a.put(loadCtx, key, value, ttl)
		}

		return value, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-results:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

func (a *Aside) put(ctx context.Context, key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = a.defaultTTL
	}

	encoded, err := json.Marshal(value)
	if err == nil {
		err = a.store.Set(ctx, key, string(encoded), ttl)
	}
	if err != nil {
		logger.Log(ctx).Warn(ctx, msgCacheWriteFailed, zap.String("cache_key", key), zap.Error(err))
	}
}

// Mutate выполняет запись write и только после ее успеха удаляет ключи invalidates.
// Ошибка записи возвращается без инвалидации. Ошибка инвалидации логируется и не
// возвращается: запись уже зафиксирована, устаревшая запись живет не дольше TTL.
func (a *Aside) Mutate(ctx context.Context, write func(ctx context.Context) error, invalidates ...string) error {
	if err := write(ctx); err != nil {
		return err
	}

	a.Invalidate(ctx, invalidates...)
	return nil
}

// Invalidate удаляет ключи, не возвращая ошибку.
func (a *Aside) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := a.store.Delete(ctx, keys...); err != nil {
		logger.Log(ctx).Warn(ctx, msgInvalidationFailed, zap.Strings("keys", keys), zap.Error(err))
	}
}
