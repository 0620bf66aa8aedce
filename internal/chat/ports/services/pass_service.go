package services

import (
	"context"

	"gochat/internal/chat/domain/services"
)

// PasswordService хэширует и проверяет пароли.
type PasswordService interface {
	Hash(ctx context.Context, password string) (*services.PasswordHash, error)

	// Verify никогда не возвращает ошибку: некорректные данные - это несовпадение.
	Verify(ctx context.Context, password string, stored services.PasswordHash) bool
}
