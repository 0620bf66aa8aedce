package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gochat/internal/chat/domain/entities"
	"gochat/internal/chat/ports/api"
	"gochat/internal/chat/ports/repositories"
	"gochat/pkg/logger"
)

const (
	methodListChats  = "ListChats"
	methodCreateChat = "CreateChat"
	methodEnsureChat = "EnsureChat"

	msgChatCreated      = "chat created"
	msgChatForeignOwner = "chat belongs to another user"

	errCtxListingChats = "listing chats"
	errCtxCreatingChat = "creating chat"
	errCtxFindingChat  = "finding chat"
)

// ChatUseCaseImpl реализует интерфейс ChatUseCase.
type ChatUseCaseImpl struct {
	chatRepo repositories.ChatRepository
}

// NewChatUseCase создает сервис чатов.
func NewChatUseCase(chatRepo repositories.ChatRepository) api.ChatUseCase {
	return &ChatUseCaseImpl{chatRepo: chatRepo}
}

// ListChats возвращает чаты пользователя, новые первыми.
func (c *ChatUseCaseImpl) ListChats(ctx context.Context, userID string) ([]entities.Chat, error) {
	if userID == "" {
		return nil, entities.ErrEmptyUserID
	}

	chats, err := c.chatRepo.FindByUserID(ctx, userID)
	if err != nil {
		logger.Log(ctx).Error(ctx, errCtxListingChats, zap.String("method", methodListChats), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxListingChats, err)
	}
	return chats, nil
}

// CreateChat создает чат с новым идентификатором.
func (c *ChatUseCaseImpl) CreateChat(ctx context.Context, userID, title string) (*entities.Chat, error) {
	if userID == "" {
		return nil, entities.ErrEmptyUserID
	}
	return c.create(ctx, userID, uuid.NewString(), title)
}

// EnsureChat возвращает чат chatID, создавая его при первом обращении.
// Чат другого пользователя дает entities.ErrChatForbidden.
func (c *ChatUseCaseImpl) EnsureChat(ctx context.Context, userID, chatID, title string) (*entities.Chat, error) {
	switch {
	case userID == "":
		return nil, entities.ErrEmptyUserID
	case chatID == "":
		return nil, entities.ErrEmptyChatID
	case len(chatID) > entities.MaxChatIDLength:
		return nil, entities.ErrChatIDTooLong
	}

	log := logger.Log(ctx).With(zap.String("method", methodEnsureChat), zap.String("chat_id", chatID))

	chat, err := c.chatRepo.FindByID(ctx, chatID)
	switch {
	case err == nil:
	case errors.Is(err, entities.ErrChatNotFound):
		chat, err = c.create(ctx, userID, chatID, title)
		if errors.Is(err, entities.ErrChatAlreadyExists) {
			chat, err = c.chatRepo.FindByID(ctx, chatID)
		}
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%s: %w", errCtxFindingChat, err)
	}

	if chat.UserID != userID {
		log.Info(ctx, msgChatForeignOwner)
		return nil, entities.ErrChatForbidden
	}
	return chat, nil
}

func (c *ChatUseCaseImpl) create(ctx context.Context, userID, chatID, title string) (*entities.Chat, error) {
	if title == "" {
		title = entities.DefaultChatTitle
	}

	chat, err := c.chatRepo.Create(ctx, &entities.Chat{ID: chatID, UserID: userID, Title: title})
	if err != nil {
		if !errors.Is(err, entities.ErrChatAlreadyExists) {
			logger.Log(ctx).Error(ctx, errCtxCreatingChat, zap.String("method", methodCreateChat), zap.Error(err))
		}
		return nil, fmt.Errorf("%s: %w", errCtxCreatingChat, err)
	}

	logger.Log(ctx).Debug(ctx, msgChatCreated, zap.String("method", methodCreateChat), zap.String("chat_id", chat.ID))
	return chat, nil
}
