package services

import svc "gochat/internal/chat/ports/services"

// NewPBKDF2WithIterations снижает стоимость хэширования в тестах.
func NewPBKDF2WithIterations(iterations int) svc.PasswordService {
	return newPBKDF2(iterations)
}
