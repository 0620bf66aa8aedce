package cached

import (
	"context"
	"time"

	"gochat/internal/chat/adapters/cache"
	"gochat/internal/chat/domain/entities"
	"gochat/internal/chat/ports/repositories"
)

// ChatRepository читает чаты через кэш и сбрасывает кэш после записи.
type ChatRepository struct {
	next  repositories.ChatRepository
	aside *cache.Aside
	ttl   time.Duration
}

// NewChatRepository создает кэширующий репозиторий чатов.
func NewChatRepository(next repositories.ChatRepository, aside *cache.Aside, ttl time.Duration) repositories.ChatRepository {
	return &ChatRepository{
		next:  next,
		aside: aside,
		ttl:   ttl,
	}
}

// FindByUserID кэширует список целиком, в порядке долговременного хранилища.
func (r *ChatRepository) FindByUserID(ctx context.Context, userID string) ([]entities.Chat, error) {
	return cache.Load(ctx, r.aside, cache.ChatsByUserKey(userID), r.ttl,
		func(ctx context.Context) ([]entities.Chat, error) {
			return r.next.FindByUserID(ctx, userID)
		},
		nil,
	)
}

// FindByID кэширует только найденные чаты.
func (r *ChatRepository) FindByID(ctx context.Context, chatID string) (*entities.Chat, error) {
	return cache.Load(ctx, r.aside, cache.ChatKey(chatID), r.ttl,
		func(ctx context.Context) (*entities.Chat, error) {
			return r.next.FindByID(ctx, chatID)
		},
		func(chat *entities.Chat) bool { return chat != nil },
	)
}

// Create сохраняет чат и сбрасывает список чатов владельца и запись самого чата.
func (r *ChatRepository) Create(ctx context.Context, chat *entities.Chat) (*entities.Chat, error) {
	var created *entities.Chat
	err := r.aside.Mutate(ctx,
		func(ctx context.Context) error {
			var err error
			created, err = r.next.Create(ctx, chat)
			return err
		},
		cache.ChatsByUserKey(chat.UserID),
		cache.ChatKey(chat.ID),
	)
	if err != nil {
		return nil, err
	}
	return created, nil
}
