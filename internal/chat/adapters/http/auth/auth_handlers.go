// Package auth содержит HTTP обработчики регистрации, входа и сессии.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"gochat/internal/chat/adapters/http/middleware"
	"gochat/internal/chat/adapters/http/respond"
	"gochat/internal/chat/app/dto"
	"gochat/internal/chat/domain/entities"
	"gochat/internal/chat/domain/services"
	"gochat/internal/chat/ports/api"
	"gochat/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerSignup = "auth handler: signup"
	LogHandlerLogin  = "auth handler: login"
	LogHandlerLogout = "auth handler: logout"
	LogHandlerMe     = "auth handler: me"
	LogHandlerPolicy = "auth handler: policy"

	ErrorInvalidRequest       = "invalid request"
	ErrorFailedToServeRequest = "failed to serve request"
)

// Handler содержит HTTP обработчики аутентификации.
type Handler struct {
	authUseCase  api.AuthUseCase
	validate     *validator.Validate
	secureCookie bool
}

// NewHandler создает обработчик. secureCookie выставляет атрибут Secure у сессионного cookie.
func NewHandler(authUseCase api.AuthUseCase, secureCookie bool) *Handler {
	return &Handler{
		authUseCase:  authUseCase,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		secureCookie: secureCookie,
	}
}

// Signup регистрирует пользователя и сразу выдает сессию.
func (h *Handler) Signup(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx).With(zap.String("method", "Signup"))
	log.Info(requestCtx, LogHandlerSignup)

	req, err := h.bindCredentials(ctx)
	if err != nil {
		log.Warn(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return respond.Error(ctx, err)
	}

	result, err := h.authUseCase.Register(requestCtx, req.Email, req.Password)
	if err != nil {
		log.Warn(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return respond.Error(ctx, err)
	}

	h.setSession(ctx, result.Session)
	return respond.JSON(ctx, http.StatusCreated, dto.Response{Success: true})
}

// Login проверяет учетные данные и выдает сессию.
func (h *Handler) Login(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx).With(zap.String("method", "Login"))
	log.Info(requestCtx, LogHandlerLogin)

	req, err := h.bindCredentials(ctx)
	if err != nil {
		log.Warn(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return respond.Error(ctx, err)
	}

	result, err := h.authUseCase.Login(requestCtx, req.Email, req.Password)
	if err != nil {
		log.Warn(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return respond.Error(ctx, err)
	}

	h.setSession(ctx, result.Session)
	return respond.JSON(ctx, http.StatusOK, dto.Response{Success: true})
}

// Logout удаляет сессионный cookie.
func (h *Handler) Logout(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	logger.Log(requestCtx).Info(requestCtx, LogHandlerLogout)

	h.setSession(ctx, h.authUseCase.Logout(requestCtx))
	return respond.JSON(ctx, http.StatusOK, dto.Response{Success: true})
}

// Me сообщает, аутентифицирован ли запрос.
func (h *Handler) Me(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerMe)

	_, ok := middleware.UserID(ctx)
	return respond.JSON(ctx, http.StatusOK, dto.AuthStatusResponse{Authenticated: ok})
}

// Policy возвращает действующий документ политик для интерфейса.
func (h *Handler) Policy(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx).With(zap.String("method", "Policy"))
	log.Debug(requestCtx, LogHandlerPolicy)

	policy, err := h.authUseCase.Policy(requestCtx)
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return respond.Error(ctx, err)
	}
	return respond.JSON(ctx, http.StatusOK, policy)
}

func (h *Handler) bindCredentials(ctx fiber.Ctx) (*dto.CredentialsRequest, error) {
	var req dto.CredentialsRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		return nil, fmt.Errorf("%w: %w", respond.ErrInvalidRequest, err)
	}

	// Пробелы вокруг адреса допустимы: проверяется та же форма, что дойдет до сервиса.
	req.Email = strings.TrimSpace(req.Email)
	if err := h.validate.Struct(&req); err != nil {
		return nil, credentialsError(err)
	}
	return &req, nil
}

// credentialsError переводит ошибку валидатора в доменную ошибку первого нарушенного поля.
func credentialsError(err error) error {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return fmt.Errorf("%w: %w", respond.ErrInvalidRequest, err)
	}

	for _, fe := range fieldErrors {
		if fe.Tag() != "required" {
			continue
		}
		switch fe.Field() {
		case "Email":
			return entities.ErrEmptyEmail
		case "Password":
			return entities.ErrEmptyPassword
		}
	}

	first := fieldErrors[0]
	if first.Field() == "Email" {
		return entities.ErrInvalidEmail
	}
	return fmt.Errorf("%w: %s failed %s", respond.ErrInvalidRequest, first.Field(), first.Tag())
}

func (h *Handler) setSession(ctx fiber.Ctx, credential services.Credential) {
	ctx.Cookie(&fiber.Cookie{
		Name:     services.SessionCookieName,
		Value:    credential.Value,
		Path:     "/",
		Expires:  credential.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
