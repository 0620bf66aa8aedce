package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"gochat/internal/chat/domain/entities"
	"gochat/internal/chat/domain/services"
	svc "gochat/internal/chat/ports/services"
	"gochat/pkg/logger"
)

const (
	methodIssue    = "Issue"
	methodValidate = "Validate"

	msgSessionRejected   = "session credential rejected"
	msgLegacySessionUsed = "legacy unsigned session accepted"

	//nolint:gosec
	errSigningSession = "error signing session"
)

// ErrInvalidAlgorithm - токен подписан не HMAC.
var ErrInvalidAlgorithm = errors.New("invalid signing algorithm")

// Claims - полезная нагрузка подписанной сессии.
type Claims struct {
	services.SessionClaims
	jwt.RegisteredClaims
}

// ServiceSession реализует SessionService на подписанных HS256 JWT.
type ServiceSession struct {
	secretKey    []byte
	ttl          time.Duration
	acceptLegacy bool
	now          func() time.Time
}

// SessionOption настраивает ServiceSession.
type SessionOption func(*ServiceSession)

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) SessionOption {
	return func(s *ServiceSession) {
		s.now = now
	}
}

// WithLegacySessions включает прием старого неподписанного формата base64({"userId": ...}).
func WithLegacySessions(accept bool) SessionOption {
	return func(s *ServiceSession) {
		s.acceptLegacy = accept
	}
}

// NewSession создает сервис сессий. ttl <= 0 заменяется services.DefaultSessionTTL.
func NewSession(secretKey string, ttl time.Duration, opts ...SessionOption) (svc.SessionService, error) {
	if secretKey == "" {
		return nil, services.ErrEmptySecretKey
	}
	if ttl <= 0 {
		ttl = services.DefaultSessionTTL
	}

	s := &ServiceSession{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue выпускает подписанную сессию для userID.
func (s *ServiceSession) Issue(ctx context.Context, userID string) (services.Credential, error) {
	if userID == "" {
		return services.Credential{}, entities.ErrEmptyUserID
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := Claims{
		SessionClaims: services.SessionClaims{UserID: userID},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		logger.Log(ctx).Error(ctx, errSigningSession, zap.String("method", methodIssue), zap.Error(err))
		return services.Credential{}, fmt.Errorf("%w: %w", services.ErrIssuingCredential, err)
	}

	return services.Credential{Value: signed, ExpiresAt: expiresAt}, nil
}

// Validate возвращает идентификатор пользователя или ok == false. Ошибки не возвращаются:
// любая неудача означает анонимный запрос.
func (s *ServiceSession) Validate(ctx context.Context, value string) (string, bool) {
	if value == "" {
		return "", false
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(value, &claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err == nil && token.Valid && claims.UserID != "" {
		return claims.UserID, true
	}

	if s.acceptLegacy {
		if userID, ok := decodeLegacy(value); ok {
			logger.Log(ctx).Debug(ctx, msgLegacySessionUsed, zap.String("method", methodValidate))
			return userID, true
		}
	}

	logger.Log(ctx).Debug(ctx, msgSessionRejected, zap.String("method", methodValidate), zap.Error(err))
	return "", false
}

// Clear возвращает пустую сессию с истекшим сроком.
func (s *ServiceSession) Clear() services.Credential {
	return services.Credential{Value: "", ExpiresAt: time.Unix(0, 0).UTC()}
}

func (s *ServiceSession) keyFunc(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, ErrInvalidAlgorithm
	}
	return s.secretKey, nil
}

func decodeLegacy(value string) (string, bool) {
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(value, "="))
		if err != nil {
			return "", false
		}
	}

	var claims services.SessionClaims
	if err := json.Unmarshal(raw, &claims); err != nil || claims.UserID == "" {
		return "", false
	}
	return claims.UserID, true
}
