package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"gochat/internal/chat/adapters/cache"
	"gochat/internal/chat/domain/entities"
	port "gochat/internal/chat/ports/cache"
	svc "gochat/internal/chat/ports/services"
	"gochat/pkg/logger"
)

const (
	methodRegisterFailure = "RegisterFailure"

	msgFailedAttempt = "failed login attempt registered"
	msgLockedOut     = "login locked out"

	errCtxCheckingLockout  = "checking lockout"
	errCtxCountingFailure  = "counting failed attempt"
	errCtxSettingLockout   = "setting lockout"
	errCtxResettingAttempt = "resetting login attempts"

	lockoutFlag = "1"
)

// LoginGuard хранит счетчики неудачных попыток и флаги блокировки в хранилище ключ-значение.
// Оба ключа живут не дольше окна блокировки, поэтому снятие блокировки обеспечивает TTL.
type LoginGuard struct {
	store port.Store
}

// NewLoginGuard создает LoginGuard.
func NewLoginGuard(store port.Store) svc.LoginGuard {
	return &LoginGuard{store: store}
}

// IsLocked сообщает, действует ли блокировка для email.
func (g *LoginGuard) IsLocked(ctx context.Context, email string) (bool, error) {
	locked, err := g.store.Exists(ctx, cache.LoginLockoutKey(email))
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtxCheckingLockout, err)
	}
	return locked, nil
}

// RegisterFailure увеличивает счетчик и продлевает его на полное окно.
// При достижении MaxAttempts ставит флаг блокировки на то же окно.
func (g *LoginGuard) RegisterFailure(ctx context.Context, email string, policy entities.LoginPolicy) (bool, error) {
	log := logger.Log(ctx).With(zap.String("method", methodRegisterFailure))
	window := policy.LockoutWindow()

	attempts, err := g.store.Incr(ctx, cache.LoginAttemptsKey(email), window)
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtxCountingFailure, err)
	}
	log.Debug(ctx, msgFailedAttempt, zap.Int64("attempts", attempts), zap.Int("max_attempts", policy.MaxAttempts))

	if attempts < int64(policy.MaxAttempts) {
		return false, nil
	}

	if err := g.store.Set(ctx, cache.LoginLockoutKey(email), lockoutFlag, window); err != nil {
		return false, fmt.Errorf("%s: %w", errCtxSettingLockout, err)
	}
	log.Info(ctx, msgLockedOut, zap.Duration("window", window))
	return true, nil
}

// Reset удаляет счетчик и флаг блокировки.
func (g *LoginGuard) Reset(ctx context.Context, email string) error {
	if err := g.store.Delete(ctx, cache.LoginAttemptsKey(email), cache.LoginLockoutKey(email)); err != nil {
		return fmt.Errorf("%s: %w", errCtxResettingAttempt, err)
	}
	return nil
}
