package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"gochat/internal/chat/adapters/http/respond"
	"gochat/internal/chat/app/dto"
	"gochat/pkg/logger"
)

// NewRecoveryMiddleware создает промежуточное ПО для восстановления после паники.
func NewRecoveryMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) (err error) {
		requestCtx := ctx.Context()
		log := logger.Log(requestCtx)

		defer func() {
			if r := recover(); r != nil {
				log.Error(requestCtx, "Server panic",
					zap.String("error", fmt.Sprintf("%v", r)),
					zap.String("stack", string(debug.Stack())),
				)

				err = respond.JSON(ctx, fiber.StatusInternalServerError, dto.Response{
					Success: false,
					Message: respond.MessageInternalError,
				})
			}
		}()

		return ctx.Next()
	}
}
