package services

import (
	"context"

	"gochat/internal/chat/domain/services"
)

// SessionService выпускает и проверяет сессионные учетные данные.
type SessionService interface {
	Issue(ctx context.Context, userID string) (services.Credential, error)

	// Validate возвращает идентификатор пользователя; ok == false означает анонимный запрос.
	Validate(ctx context.Context, value string) (userID string, ok bool)

	Clear() services.Credential
}
