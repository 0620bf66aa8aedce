package api

import (
	"context"

	"gochat/internal/chat/domain/entities"
)

// ChatUseCase - операции над чатами аутентифицированного пользователя.
type ChatUseCase interface {
	ListChats(ctx context.Context, userID string) ([]entities.Chat, error)

	CreateChat(ctx context.Context, userID, title string) (*entities.Chat, error)

	// EnsureChat создает чат при первом обращении и проверяет владельца существующего.
	EnsureChat(ctx context.Context, userID, chatID, title string) (*entities.Chat, error)
}
