package repositories

import (
	"context"

	"gochat/internal/chat/domain/entities"
)

// ChatRepository определяет операции над чатами.
type ChatRepository interface {
	// FindByUserID возвращает чаты пользователя, новые первыми.
	FindByUserID(ctx context.Context, userID string) ([]entities.Chat, error)

	// FindByID возвращает entities.ErrChatNotFound, если чата нет.
	FindByID(ctx context.Context, chatID string) (*entities.Chat, error)

	Create(ctx context.Context, chat *entities.Chat) (*entities.Chat, error)
}
