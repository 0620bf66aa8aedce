package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"

	"gochat/internal/chat/domain/services"
	svc "gochat/internal/chat/ports/services"
)

const (
	errMsgFailedToGenerateSalt = "failed to generate salt"
)

// ServicePBKDF2 реализует интерфейс PasswordService на PBKDF2-HMAC-SHA256.
type ServicePBKDF2 struct {
	iterations int
	random     io.Reader
}

// NewPBKDF2 создает сервис хэширования с фиксированным числом итераций services.PBKDF2Iterations.
// Число итераций не хранится рядом с хэшем, поэтому не настраивается.
func NewPBKDF2() svc.PasswordService {
	return newPBKDF2(services.PBKDF2Iterations)
}

func newPBKDF2(iterations int) *ServicePBKDF2 {
	return &ServicePBKDF2{
		iterations: iterations,
		random:     rand.Reader,
	}
}

// Hash вычисляет производный ключ со свежей случайной солью.
func (s *ServicePBKDF2) Hash(_ context.Context, password string) (*services.PasswordHash, error) {
	salt := make([]byte, services.SaltLength)
	if _, err := io.ReadFull(s.random, salt); err != nil {
		return nil, fmt.Errorf("%s: %w", errMsgFailedToGenerateSalt, services.ErrHashingFailed)
	}

	key := s.derive(password, salt)

	return &services.PasswordHash{
		Salt: hex.EncodeToString(salt),
		Hash: hex.EncodeToString(key),
	}, nil
}

// Verify пересчитывает ключ с сохраненной солью и сравнивает за постоянное время.
// Некорректный hex в соли или хэше дает false.
func (s *ServicePBKDF2) Verify(_ context.Context, password string, stored services.PasswordHash) bool {
	salt, err := hex.DecodeString(stored.Salt)
	if err != nil || len(salt) == 0 {
		return false
	}
	expected, err := hex.DecodeString(stored.Hash)
	if err != nil || len(expected) != services.PBKDF2KeyLength {
		return false
	}

	return subtle.ConstantTimeCompare(s.derive(password, salt), expected) == 1
}

func (s *ServicePBKDF2) derive(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, s.iterations, services.PBKDF2KeyLength, sha256.New)
}
