// Package repositories определяет порты долговременного хранения пользователей и чатов.
package repositories

import (
	"context"

	"gochat/internal/chat/domain/entities"
)

// UserRepository определяет операции над пользователями.
type UserRepository interface {
	Exists(ctx context.Context, email string) (bool, error)

	// FindByEmail возвращает entities.ErrUserNotFound, если пользователя нет.
	FindByEmail(ctx context.Context, email string) (*entities.User, error)

	Create(ctx context.Context, user *entities.User) error
}
