// Package respond переводит ошибки домена в HTTP ответы.
package respond

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"gochat/internal/chat/app/dto"
	"gochat/internal/chat/domain/entities"
	"gochat/internal/chat/domain/services"
)

// ErrInvalidRequest - тело запроса не разобрано или не прошло проверку.
var ErrInvalidRequest = errors.New("invalid request")

// Тексты ответов.
const (
	MessageFieldsRequired     = "Both fields required"
	MessageInvalidEmail       = "Invalid email"
	MessageInvalidRequest     = "Invalid request"
	MessageDomainNotAllowed   = "Email domain is not allowed"
	MessageAlreadyRegistered  = "Already registered"
	MessageInvalidCredentials = "Invalid credentials"
	MessageAccountLocked      = "Too many failed attempts, account temporarily locked"
	MessageNotAuthenticated   = "Not authenticated"
	MessageChatForbidden      = "Chat belongs to another user"
	MessageChatIDRequired     = "Chat id required"
	MessageChatIDTooLong      = "Chat id too long"
	MessagePolicyUnavailable  = "Auth policies unavailable"
	MessageInternalError      = "Internal server error"
)

var passwordRules = []error{
	services.ErrPasswordTooShort,
	services.ErrPasswordTooLong,
	services.ErrPasswordNoUppercase,
	services.ErrPasswordNoLowercase,
	services.ErrPasswordNoNumber,
	services.ErrPasswordNoSpecial,
}

// Status возвращает HTTP статус и текст ответа для ошибки.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, entities.ErrEmptyEmail), errors.Is(err, entities.ErrEmptyPassword):
		return http.StatusBadRequest, MessageFieldsRequired
	case errors.Is(err, entities.ErrInvalidEmail):
		return http.StatusBadRequest, MessageInvalidEmail
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, MessageInvalidRequest
	case errors.Is(err, services.ErrPasswordPolicyViolation):
		return http.StatusBadRequest, passwordRuleMessage(err)
	case errors.Is(err, services.ErrEmailDomainNotAllowed):
		return http.StatusBadRequest, MessageDomainNotAllowed
	case errors.Is(err, services.ErrEmailAlreadyExists):
		return http.StatusConflict, MessageAlreadyRegistered
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized, MessageInvalidCredentials
	case errors.Is(err, services.ErrAccountLocked):
		return http.StatusLocked, MessageAccountLocked
	case errors.Is(err, entities.ErrEmptyUserID):
		return http.StatusUnauthorized, MessageNotAuthenticated
	case errors.Is(err, entities.ErrEmptyChatID):
		return http.StatusBadRequest, MessageChatIDRequired
	case errors.Is(err, entities.ErrChatIDTooLong):
		return http.StatusBadRequest, MessageChatIDTooLong
	case errors.Is(err, entities.ErrChatForbidden):
		return http.StatusForbidden, MessageChatForbidden
	case errors.Is(err, services.ErrPolicyUnavailable):
		return http.StatusInternalServerError, MessagePolicyUnavailable
	default:
		return http.StatusInternalServerError, MessageInternalError
	}
}

func passwordRuleMessage(err error) string {
	for _, rule := range passwordRules {
		if errors.Is(err, rule) {
			return rule.Error()
		}
	}
	return services.ErrPasswordPolicyViolation.Error()
}

// Error пишет ответ {success:false, message}. Для блокировки добавляется locked:true.
func Error(ctx fiber.Ctx, err error) error {
	status, message := Status(err)
	return JSON(ctx, status, dto.Response{
		Success: false,
		Message: message,
		Locked:  errors.Is(err, services.ErrAccountLocked),
	})
}

// JSON пишет тело body со статусом status.
func JSON(ctx fiber.Ctx, status int, body any) error {
	if err := ctx.Status(status).JSON(body); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}
