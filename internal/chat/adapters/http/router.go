// Package http содержит компоненты для HTTP сервера.
package http

import (
	"github.com/gofiber/fiber/v3"

	"gochat/internal/chat/adapters/http/agent"
	"gochat/internal/chat/adapters/http/auth"
	"gochat/internal/chat/adapters/http/chats"
	"gochat/internal/chat/adapters/http/middleware"
	"gochat/internal/chat/ports/api"
	"gochat/internal/chat/resilience"
)

// RouterConfig - параметры маршрутизации, не относящиеся к сервисам.
type RouterConfig struct {
	SecureCookie bool
	AgentURL     string
	AgentAPIKey  string
	// AgentBreaker - настройки размыкателя цепи к агенту. Нулевое значение - по умолчанию.
	AgentBreaker resilience.CircuitBreakerConfig
}

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(app *fiber.App, cfg RouterConfig, authUseCase api.AuthUseCase, chatUseCase api.ChatUseCase) {
	authHandler := auth.NewHandler(authUseCase, cfg.SecureCookie)
	chatsHandler := chats.NewHandler(chatUseCase)
	breakerConfig := cfg.AgentBreaker
	if breakerConfig == (resilience.CircuitBreakerConfig{}) {
		breakerConfig = resilience.DefaultCircuitBreakerConfig()
	}
	agentHandler := agent.NewHandler(chatUseCase, cfg.AgentURL, cfg.AgentAPIKey,
		resilience.NewCircuitBreaker("agent", breakerConfig, nil))

	// Middleware для всех запросов.
	app.Use(middleware.NewRequestIDMiddleware())
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())
	app.Use(middleware.NewSessionMiddleware(authUseCase))

	// Auth routes (публичные).
	authRoutes := app.Group("/auth")
	authRoutes.Post("/signup", authHandler.Signup)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Post("/logout", authHandler.Logout)
	authRoutes.Get("/logout", authHandler.Logout)
	authRoutes.Get("/me", authHandler.Me)
	authRoutes.Get("/policy", authHandler.Policy)

	app.Get("/check-open-ai-key", agentHandler.CheckKey)

	chatRoutes := app.Group("/api/chats")
	chatRoutes.Get("/", chatsHandler.ListChats)
	// В fiber v3 middleware маршрута передаются после обработчика и выполняются перед ним.
	chatRoutes.Post("/", chatsHandler.CreateChat, middleware.RequireUser())

	// Остальное уходит агенту.
	app.Use(agentHandler.Handoff)
}
