package services

import (
	"context"

	"gochat/internal/chat/domain/entities"
)

// PolicyProvider загружает документ политик.
type PolicyProvider interface {
	// Load возвращает ошибку, оборачивающую services.ErrPolicyUnavailable, если документа нет.
	Load(ctx context.Context) (*entities.Policy, error)
}
