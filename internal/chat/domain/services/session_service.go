package services

import (
	"errors"
	"time"
)

// Ошибки сессий.
var (
	ErrEmptySecretKey    = errors.New("session secret key is empty")
	ErrIssuingCredential = errors.New("failed to issue session credential")
)

// SessionCookieName - имя cookie с сессией.
const SessionCookieName = "session"

// DefaultSessionTTL - срок действия подписанной сессии по умолчанию.
const DefaultSessionTTL = 7 * 24 * time.Hour

// SessionClaims - полезная нагрузка сессии. Форма {"userId": "..."} совместима со старым форматом cookie.
type SessionClaims struct {
	UserID string `json:"userId"`
}
