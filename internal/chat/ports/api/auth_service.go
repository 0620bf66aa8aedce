// Package api определяет входные порты приложения.
package api

import (
	"context"

	"gochat/internal/chat/domain/entities"
	"gochat/internal/chat/domain/services"
)

// AuthUseCase - операции регистрации, входа, выхода и проверки сессии.
type AuthUseCase interface {
	Register(ctx context.Context, email, password string) (*services.AuthResult, error)

	Login(ctx context.Context, email, password string) (*services.AuthResult, error)

	Logout(ctx context.Context) services.Credential

	WhoAmI(ctx context.Context, session string) (userID string, authenticated bool)

	Policy(ctx context.Context) (*entities.Policy, error)
}
