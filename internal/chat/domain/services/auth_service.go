// Package services содержит доменные правила аутентификации: ошибки, политики, учетные данные.
package services

import (
	"errors"
	"time"
)

// Ошибки домена аутентификации.
var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrEmailAlreadyExists    = errors.New("already registered")
	ErrEmailDomainNotAllowed = errors.New("email domain is not allowed")
	ErrAccountLocked         = errors.New("account temporarily locked")
)

// AuthResult - итог успешной регистрации или входа.
type AuthResult struct {
	UserID  string
	Session Credential
}

// Credential - значение сессионного cookie и момент его истечения.
// Пустое значение с ExpiresAt в прошлом означает удаление cookie на клиенте.
type Credential struct {
	Value     string
	ExpiresAt time.Time
}

// Cleared сообщает, что учетные данные предписывают удалить cookie.
func (c Credential) Cleared() bool {
	return c.Value == "" && !c.ExpiresAt.IsZero() && c.ExpiresAt.Before(time.Now())
}
