// Package services определяет порты сервисов безопасности.
package services

import (
	"context"

	"gochat/internal/chat/domain/entities"
)

// LoginGuard отслеживает неудачные попытки входа и блокировки по email.
type LoginGuard interface {
	IsLocked(ctx context.Context, email string) (bool, error)

	// RegisterFailure учитывает неудачную попытку и сообщает, заблокирован ли теперь email.
	RegisterFailure(ctx context.Context, email string, policy entities.LoginPolicy) (bool, error)

	Reset(ctx context.Context, email string) error
}
