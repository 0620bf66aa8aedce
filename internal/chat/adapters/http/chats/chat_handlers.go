// Package chats содержит HTTP обработчики списка и создания чатов.
package chats

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"gochat/internal/chat/adapters/http/middleware"
	"gochat/internal/chat/adapters/http/respond"
	"gochat/internal/chat/app/dto"
	"gochat/internal/chat/ports/api"
	"gochat/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerListChats  = "chats handler: list"
	LogHandlerCreateChat = "chats handler: create"

	ErrorFailedToServeRequest = "failed to serve request"
)

// Handler содержит HTTP обработчики чатов.
type Handler struct {
	chatUseCase api.ChatUseCase
	validate    *validator.Validate
}

// NewHandler создает обработчик чатов.
func NewHandler(chatUseCase api.ChatUseCase) *Handler {
	return &Handler{
		chatUseCase: chatUseCase,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// ListChats возвращает чаты пользователя. Анонимный запрос получает 401 и пустой массив.
func (h *Handler) ListChats(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx).With(zap.String("method", "ListChats"))
	log.Debug(requestCtx, LogHandlerListChats)

	userID, ok := middleware.UserID(ctx)
	if !ok {
		return respond.JSON(ctx, http.StatusUnauthorized, []any{})
	}

	chats, err := h.chatUseCase.ListChats(requestCtx, userID)
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return respond.Error(ctx, err)
	}
	return respond.JSON(ctx, http.StatusOK, chats)
}

// CreateChat создает чат с новым идентификатором.
func (h *Handler) CreateChat(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx).With(zap.String("method", "CreateChat"))
	log.Info(requestCtx, LogHandlerCreateChat)

	userID, _ := middleware.UserID(ctx)

	var req dto.CreateChatRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.Bind().JSON(&req); err != nil {
			return respond.Error(ctx, fmt.Errorf("%w: %w", respond.ErrInvalidRequest, err))
		}
	}
	if err := h.validate.Struct(&req); err != nil {
		return respond.Error(ctx, fmt.Errorf("%w: %w", respond.ErrInvalidRequest, err))
	}

	chat, err := h.chatUseCase.CreateChat(requestCtx, userID, req.Title)
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return respond.Error(ctx, err)
	}
	return respond.JSON(ctx, http.StatusCreated, chat)
}
