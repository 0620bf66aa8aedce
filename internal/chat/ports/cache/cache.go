// Package cache определяет порт хранилища ключ-значение с истечением записей.
package cache

import (
	"context"
	"time"
)

// NoExpiry - значение ttl для записей без срока жизни.
const NoExpiry time.Duration = -1

// Store - хранилище ключ-значение. Каждая отдельная операция атомарна,
// последовательности операций - нет.
type Store interface {
	// Get возвращает значение и признак его наличия.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set записывает значение. ttl == 0 означает TTL по умолчанию, NoExpiry - бессрочную запись.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	Delete(ctx context.Context, keys ...string) error

	Exists(ctx context.Context, key string) (bool, error)

	// Incr увеличивает счетчик и переустанавливает его TTL в одной транзакции.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)

	Close() error
}
