// Package agent передает аутентифицированные запросы внешнему агентному рантайму.
package agent

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/proxy"
	"go.uber.org/zap"

	"gochat/internal/chat/adapters/http/middleware"
	"gochat/internal/chat/adapters/http/respond"
	"gochat/internal/chat/app/dto"
	"gochat/internal/chat/domain/entities"
	"gochat/internal/chat/ports/api"
	"gochat/internal/chat/resilience"
	"gochat/pkg/logger"
)

// Заголовки и параметры передачи запроса.
const (
	HeaderChatID    = "chatId"
	HeaderTitle     = "title"
	QueryChatID     = "_pk"
	HeaderUserIDOut = "X-User-ID"
	HeaderChatIDOut = "X-Chat-ID"
)

// Константы для логирования.
const (
	LogHandoff         = "agent handoff"
	LogAgentNotSet     = "agent runtime URL is not configured"
	ErrorProxyFailed   = "agent proxy failed"
	ErrorEnsuringChat  = "failed to ensure chat"
	MessageAgentAbsent = "Agent runtime unavailable"
)

// errUpstreamStatus - агент ответил 5xx.
var errUpstreamStatus = errors.New("agent runtime returned server error")

// Handler передает запросы агенту от имени пользователя.
type Handler struct {
	chatUseCase api.ChatUseCase
	baseURL     string
	apiKey      string
	breaker     *resilience.CircuitBreaker
}

// NewHandler создает обработчик. baseURL - адрес агентного рантайма.
// breaker == nil означает настройки по умолчанию.
func NewHandler(chatUseCase api.ChatUseCase, baseURL, apiKey string, breaker *resilience.CircuitBreaker) *Handler {
	if breaker == nil {
		breaker = resilience.NewCircuitBreaker("agent", resilience.DefaultCircuitBreakerConfig(), nil)
	}
	return &Handler{
		chatUseCase: chatUseCase,
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		breaker:     breaker,
	}
}

// CheckKey сообщает, настроен ли ключ модели.
func (h *Handler) CheckKey(ctx fiber.Ctx) error {
	return respond.JSON(ctx, http.StatusOK, dto.Response{Success: h.apiKey != ""})
}

// Handoff обеспечивает существование чата и проксирует запрос агенту
// с заголовками X-User-ID и X-Chat-ID.
func (h *Handler) Handoff(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()

	userID, ok := middleware.UserID(ctx)
	if !ok {
		return respond.JSON(ctx, http.StatusUnauthorized, fiber.Map{"error": respond.MessageNotAuthenticated})
	}

	chatID := ctx.Get(HeaderChatID)
	if chatID == "" {
		chatID = ctx.Query(QueryChatID)
	}

	log := logger.Log(requestCtx).With(
		zap.String("method", "Handoff"),
		zap.String("user_id", userID),
		zap.String("chat_id", chatID),
	)
	log.Debug(requestCtx, LogHandoff, zap.String("path", ctx.Path()))

	if chatID == "" {
		return respond.Error(ctx, entities.ErrEmptyChatID)
	}

	if h.baseURL == "" {
		log.Error(requestCtx, LogAgentNotSet)
		return respond.JSON(ctx, http.StatusServiceUnavailable, dto.Response{
			Success: false,
			Message: MessageAgentAbsent,
		})
	}

	if _, err := h.chatUseCase.EnsureChat(requestCtx, userID, chatID, ctx.Get(HeaderTitle)); err != nil {
		log.Warn(requestCtx, ErrorEnsuringChat, zap.Error(err))
		return respond.Error(ctx, err)
	}

	ctx.Request().Header.Set(HeaderUserIDOut, userID)
	ctx.Request().Header.Set(HeaderChatIDOut, chatID)

	err := h.breaker.Execute(requestCtx, func() error {
		if err := proxy.Do(ctx, h.baseURL+ctx.OriginalURL()); err != nil {
			return err
		}
		if ctx.Response().StatusCode() >= http.StatusInternalServerError {
			return errUpstreamStatus
		}
		return nil
	})

	switch {
	case err == nil, errors.Is(err, errUpstreamStatus):
		// Ответ агента уже записан в ctx.
		return nil
	case errors.Is(err, resilience.ErrCircuitOpen):
		log.Warn(requestCtx, ErrorProxyFailed, zap.Error(err))
		return respond.JSON(ctx, http.StatusServiceUnavailable, dto.Response{
			Success: false,
			Message: MessageAgentAbsent,
		})
	default:
		log.Error(requestCtx, ErrorProxyFailed, zap.Error(err))
		return respond.JSON(ctx, http.StatusBadGateway, dto.Response{
			Success: false,
			Message: fmt.Sprintf("%s: %s", MessageAgentAbsent, http.StatusText(http.StatusBadGateway)),
		})
	}
}
