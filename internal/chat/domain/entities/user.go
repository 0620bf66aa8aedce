// Package entities содержит сущности домена чата: пользователей, чаты и политики.
package entities

import (
	"errors"
	"strings"
)

// Ошибки домена пользователя.
var (
	ErrEmptyUserID   = errors.New("user ID cannot be empty")
	ErrEmptyEmail    = errors.New("email cannot be empty")
	ErrEmptyPassword = errors.New("password cannot be empty")
	ErrInvalidEmail  = errors.New("invalid email format")
	ErrUserNotFound  = errors.New("user not found")
)

// User - учетная запись. Хэш и соль хранятся в hex.
type User struct {
	ID           string `json:"userId"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	PasswordSalt string `json:"passwordSalt"`
}

// NormalizeEmail приводит доменную часть адреса к нижнему регистру.
// Локальная часть сохраняется как есть.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

// EmailDomain возвращает доменную часть адреса в нижнем регистре или пустую строку.
func EmailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}
