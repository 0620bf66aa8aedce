// Package services реализует сервисы безопасности: хэширование паролей, сессии,
// загрузку политик и защиту от перебора паролей.
package services

import (
	"time"

	"gochat/internal/chat/ports/cache"
	"gochat/internal/chat/ports/services"
)

// ServiceFactory создает сервисы безопасности.
type ServiceFactory struct {
	passwordService services.PasswordService
	sessionService  services.SessionService
	policyStore     *PolicyStore
	loginGuard      services.LoginGuard
}

// NewServiceFactory создает фабрику сервисов.
func NewServiceFactory(
	store cache.Store,
	sessionSecret string,
	sessionTTL time.Duration,
	acceptLegacySessions bool,
	policyRefresh time.Duration,
) (*ServiceFactory, error) {
	sessionService, err := NewSession(sessionSecret, sessionTTL, WithLegacySessions(acceptLegacySessions))
	if err != nil {
		return nil, err
	}

	return &ServiceFactory{
		passwordService: NewPBKDF2(),
		sessionService:  sessionService,
		policyStore:     NewPolicyStore(store, policyRefresh),
		loginGuard:      NewLoginGuard(store),
	}, nil
}

// PasswordService возвращает сервис паролей.
func (f *ServiceFactory) PasswordService() services.PasswordService {
	return f.passwordService
}

// SessionService возвращает сервис сессий.
func (f *ServiceFactory) SessionService() services.SessionService {
	return f.sessionService
}

// PolicyStore возвращает хранилище политик.
func (f *ServiceFactory) PolicyStore() *PolicyStore {
	return f.policyStore
}

// LoginGuard возвращает защиту входа.
func (f *ServiceFactory) LoginGuard() services.LoginGuard {
	return f.loginGuard
}
