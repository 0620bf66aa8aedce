package services

import "errors"

// Ошибки хэширования.
var (
	ErrHashingFailed = errors.New("failed to hash password")
)

// Параметры PBKDF2.
const (
	PBKDF2Iterations = 100_000
	PBKDF2KeyLength  = 32
	SaltLength       = 16
)

// PasswordHash - производный ключ и соль в hex.
type PasswordHash struct {
	Salt string
	Hash string
}
