package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"gochat/internal/chat/domain/entities"
	"gochat/internal/chat/ports/repositories"
	pgdb "gochat/pkg/db/postgres"
	"gochat/pkg/logger"
)

// Сообщения об ошибках репозитория чатов.
const (
	ErrQueryChatsByUser = "error querying chats by user"
	ErrScanChat         = "error scanning chat row"
	ErrQueryChatByID    = "error querying chat by id"
	ErrCreateChat       = "error creating chat"
)

// ChatRepository реализует repositories.ChatRepository для Postgres.
type ChatRepository struct {
	pool PgxPoolInterface
}

// NewChatRepository создает репозиторий чатов.
func NewChatRepository(pool PgxPoolInterface) repositories.ChatRepository {
	return &ChatRepository{pool: pool}
}

// FindByUserID возвращает чаты пользователя, новые первыми.
func (r *ChatRepository) FindByUserID(ctx context.Context, userID string) ([]entities.Chat, error) {
	log := logger.Log(ctx).With(zap.String("repository", "chat"), zap.String("method", "FindByUserID"))

	query := `
        SELECT chat_id, user_id, title, created_time
        FROM chats
        WHERE user_id = $1
        ORDER BY created_time DESC
    `

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		log.Error(ctx, ErrQueryChatsByUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrQueryChatsByUser, err)
	}
	defer rows.Close()

	chats := make([]entities.Chat, 0)
	for rows.Next() {
		var chat entities.Chat
		if err := rows.Scan(&chat.ID, &chat.UserID, &chat.Title, &chat.CreatedAt); err != nil {
			log.Error(ctx, ErrScanChat, zap.Error(err))
			return nil, fmt.Errorf("%s: %w", ErrScanChat, err)
		}
		chats = append(chats, chat)
	}

	if err := rows.Err(); err != nil {
		log.Error(ctx, ErrQueryChatsByUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrQueryChatsByUser, err)
	}

	return chats, nil
}

// FindByID находит чат по идентификатору.
func (r *ChatRepository) FindByID(ctx context.Context, chatID string) (*entities.Chat, error) {
	log := logger.Log(ctx).With(zap.String("repository", "chat"), zap.String("method", "FindByID"))

	query := `
        SELECT chat_id, user_id, title, created_time
        FROM chats
        WHERE chat_id = $1
    `

	var chat entities.Chat
	err := r.pool.QueryRow(ctx, query, chatID).Scan(&chat.ID, &chat.UserID, &chat.Title, &chat.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "chat not found", zap.String("chat_id", chatID))
			return nil, entities.ErrChatNotFound
		}
		log.Error(ctx, ErrQueryChatByID, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrQueryChatByID, err)
	}

	return &chat, nil
}

// Create сохраняет чат; время создания проставляет база.
func (r *ChatRepository) Create(ctx context.Context, chat *entities.Chat) (*entities.Chat, error) {
	log := logger.Log(ctx).With(zap.String("repository", "chat"), zap.String("method", "Create"))

	query := `
        INSERT INTO chats (chat_id, user_id, title)
        VALUES ($1, $2, $3)
        RETURNING chat_id, user_id, title, created_time
    `

	var created entities.Chat
	err := r.pool.QueryRow(ctx, query, chat.ID, chat.UserID, chat.Title).Scan(
		&created.ID,
		&created.UserID,
		&created.Title,
		&created.CreatedAt,
	)
	if err != nil {
		if pgdb.IsUniqueViolation(err) {
			log.Debug(ctx, "chat already exists", zap.String("chat_id", chat.ID))
			return nil, entities.ErrChatAlreadyExists
		}
		log.Error(ctx, ErrCreateChat, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrCreateChat, err)
	}

	return &created, nil
}
