// Package cached оборачивает долговременные репозитории кэшем по схеме cache-aside.
package cached

import (
	"context"
	"time"

	"gochat/internal/chat/adapters/cache"
	"gochat/internal/chat/domain/entities"
	"gochat/internal/chat/ports/repositories"
)

// UserRepository читает пользователей через кэш и сбрасывает кэш после записи.
type UserRepository struct {
	next  repositories.UserRepository
	aside *cache.Aside
	ttl   time.Duration
}

// NewUserRepository создает кэширующий репозиторий пользователей. ttl == 0 - TTL хранилища по умолчанию.
func NewUserRepository(next repositories.UserRepository, aside *cache.Aside, ttl time.Duration) repositories.UserRepository {
	return &UserRepository{
		next:  next,
		aside: aside,
		ttl:   ttl,
	}
}

// Exists кэширует оба ответа, в том числе отрицательный.
func (r *UserRepository) Exists(ctx context.Context, email string) (bool, error) {
	return cache.Load(ctx, r.aside, cache.UserExistsKey(email), r.ttl,
		func(ctx context.Context) (bool, error) {
			return r.next.Exists(ctx, email)
		},
		nil,
	)
}

// FindByEmail кэширует только найденных пользователей.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return cache.Load(ctx, r.aside, cache.UserByEmailKey(email), r.ttl,
		func(ctx context.Context) (*entities.User, error) {
			return r.next.FindByEmail(ctx, email)
		},
		func(user *entities.User) bool { return user != nil },
	)
}

// Create сохраняет пользователя и сбрасывает записи, зависящие от email.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	return r.aside.Mutate(ctx,
		func(ctx context.Context) error {
			return r.next.Create(ctx, user)
		},
		cache.UserExistsKey(user.Email),
		cache.UserByEmailKey(user.Email),
	)
}
