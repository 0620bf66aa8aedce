package middleware

import (
	"github.com/gofiber/fiber/v3"

	"gochat/internal/chat/adapters/http/respond"
	"gochat/internal/chat/app/dto"
	"gochat/internal/chat/domain/services"
	"gochat/internal/chat/ports/api"
)

type userIDKey struct{}

// NewSessionMiddleware проверяет сессионный cookie и сохраняет идентификатор пользователя в Locals.
// Запрос без действительной сессии проходит дальше как анонимный.
func NewSessionMiddleware(auth api.AuthUseCase) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		if value := ctx.Cookies(services.SessionCookieName); value != "" {
			if userID, ok := auth.WhoAmI(ctx.Context(), value); ok {
				ctx.Locals(userIDKey{}, userID)
			}
		}
		return ctx.Next()
	}
}

// RequireUser отклоняет анонимные запросы с 401.
func RequireUser() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		if _, ok := UserID(ctx); !ok {
			return respond.JSON(ctx, fiber.StatusUnauthorized, dto.Response{
				Success: false,
				Message: respond.MessageNotAuthenticated,
			})
		}
		return ctx.Next()
	}
}

// UserID возвращает идентификатор аутентифицированного пользователя.
func UserID(ctx fiber.Ctx) (string, bool) {
	userID, ok := ctx.Locals(userIDKey{}).(string)
	return userID, ok && userID != ""
}
