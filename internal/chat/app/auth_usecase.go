// Package app содержит сценарии использования: регистрацию, вход, сессии и чаты.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gochat/internal/chat/domain/entities"
	"gochat/internal/chat/domain/services"
	"gochat/internal/chat/ports/api"
	"gochat/internal/chat/ports/repositories"
	svc "gochat/internal/chat/ports/services"
	"gochat/pkg/logger"
)

const (
	methodRegister = "Register"
	methodLogin    = "Login"
	methodLogout   = "Logout"

	msgStartRegistration   = "starting user registration"
	msgEmailNotAllowed     = "email domain not allowed by policy"
	msgPasswordRejected    = "password rejected by policy"
	msgEmailExists         = "user with this email already exists"
	msgUserRegistered      = "user registered successfully"
	msgLoginAttempt        = "login attempt"
	msgLoginLocked         = "login attempt while locked"
	msgLoginNonExistent    = "login attempt with non-existent email"
	msgInvalidPasswordAuth = "invalid password provided"
	msgUserLoggedIn        = "user logged in successfully"
	msgUserLoggedOut       = "user logged out"

	msgErrLoadPolicy      = "failed to load auth policies"
	msgErrCheckExisting   = "failed to check existing user"
	msgErrHashPassword    = "failed to hash password"
	msgErrCreateUser      = "failed to create user"
	msgErrIssueSession    = "failed to issue session"
	msgErrCheckLockout    = "failed to check lockout"
	msgErrFindingUser     = "error finding user by email"
	msgErrRegisterFailure = "failed to register failed attempt"
	msgErrResetLoginGuard = "failed to reset login attempts"

	errCtxValidating       = "validating credentials"
	errCtxLoadingPolicy    = "loading policy"
	errCtxCheckingPolicy   = "checking policy"
	errCtxCheckingUser     = "checking existing user"
	errCtxEmailRegistered  = "email already registered"
	errCtxHashingPassword  = "hashing password"
	errCtxCreatingUser     = "creating user"
	errCtxIssuingSession   = "issuing session"
	errCtxCheckingLockout  = "checking lockout"
	errCtxFindingUser      = "finding user"
	errCtxCountingFailure  = "counting failed attempt"
	errCtxResettingAttempt = "resetting failed attempts"
)

// dummyHash проверяется для несуществующих email, чтобы время ответа не выдавало наличие учетной записи.
//
//nolint:gosec
var dummyHash = services.PasswordHash{
	Salt: "6d9f0b2e4c8a13577ba1c0ffee42d00d",
	Hash: "3a1f5c7e9b2d4f6a8c0e1b3d5f7a9c2e4b6d8f0a1c3e5b7d9f2a4c6e8b0d1f3a",
}

// AuthUseCaseImpl реализует интерфейс AuthUseCase.
type AuthUseCaseImpl struct {
	userRepo    repositories.UserRepository
	passwordSvc svc.PasswordService
	sessionSvc  svc.SessionService
	policies    svc.PolicyProvider
	guard       svc.LoginGuard
}

// NewAuthUseCase создает сервис аутентификации.
func NewAuthUseCase(
	userRepo repositories.UserRepository,
	passwordSvc svc.PasswordService,
	sessionSvc svc.SessionService,
	policies svc.PolicyProvider,
	guard svc.LoginGuard,
) api.AuthUseCase {
	return &AuthUseCaseImpl{
		userRepo:    userRepo,
		passwordSvc: passwordSvc,
		sessionSvc:  sessionSvc,
		policies:    policies,
		guard:       guard,
	}
}

// Register создает пользователя и выпускает для него сессию.
// Проверки политик выполняются до любого обращения к хранилищам.
func (a *AuthUseCaseImpl) Register(ctx context.Context, email, password string) (*services.AuthResult, error) {
	email = entities.NormalizeEmail(email)
	log := logger.Log(ctx).With(zap.String("method", methodRegister), zap.String("email", email))
	log.Debug(ctx, msgStartRegistration)

	if err := validateCredentials(email, password); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxValidating, err)
	}

	policy, err := a.policies.Load(ctx)
	if err != nil {
		log.Error(ctx, msgErrLoadPolicy, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxLoadingPolicy, err)
	}

	if !services.IsEmailAllowed(email, policy.Registration.AllowedEmailDomains) {
		log.Debug(ctx, msgEmailNotAllowed)
		return nil, fmt.Errorf("%s: %w", errCtxCheckingPolicy, services.ErrEmailDomainNotAllowed)
	}
	if err := services.ValidatePassword(password, policy.Password); err != nil {
		log.Debug(ctx, msgPasswordRejected, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCheckingPolicy, err)
	}

	exists, err := a.userRepo.Exists(ctx, email)
	if err != nil {
		log.Error(ctx, msgErrCheckExisting, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCheckingUser, err)
	}
	if exists {
		log.Debug(ctx, msgEmailExists)
		return nil, fmt.Errorf("%s: %w", errCtxEmailRegistered, services.ErrEmailAlreadyExists)
	}

	hashed, err := a.passwordSvc.Hash(ctx, password)
	if err != nil {
		log.Error(ctx, msgErrHashPassword, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxHashingPassword, err)
	}

	user := &entities.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hashed.Hash,
		PasswordSalt: hashed.Salt,
	}
	if err := a.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, services.ErrEmailAlreadyExists) {
			log.Debug(ctx, msgEmailExists)
		} else {
			log.Error(ctx, msgErrCreateUser, zap.Error(err))
		}
		return nil, fmt.Errorf("%s: %w", errCtxCreatingUser, err)
	}

	session, err := a.sessionSvc.Issue(ctx, user.ID)
	if err != nil {
		log.Error(ctx, msgErrIssueSession, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxIssuingSession, err)
	}

	log.Info(ctx, msgUserRegistered, zap.String("user_id", user.ID))
	return &services.AuthResult{UserID: user.ID, Session: session}, nil
}

// Login проверяет учетные данные с учетом блокировок.
// Для неизвестного email и неверного пароля возвращается одна и та же ошибка.
func (a *AuthUseCaseImpl) Login(ctx context.Context, email, password string) (*services.AuthResult, error) {
	email = entities.NormalizeEmail(email)
	log := logger.Log(ctx).With(zap.String("method", methodLogin), zap.String("email", email))
	log.Debug(ctx, msgLoginAttempt)

	if err := validateCredentials(email, password); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxValidating, err)
	}

	policy, err := a.policies.Load(ctx)
	if err != nil {
		log.Error(ctx, msgErrLoadPolicy, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxLoadingPolicy, err)
	}

	locked, err := a.guard.IsLocked(ctx, email)
	if err != nil {
		log.Error(ctx, msgErrCheckLockout, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCheckingLockout, err)
	}
	if locked {
		log.Info(ctx, msgLoginLocked)
		return nil, services.ErrAccountLocked
	}

	user, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, entities.ErrUserNotFound) {
			log.Error(ctx, msgErrFindingUser, zap.Error(err))
			return nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
		}
		log.Debug(ctx, msgLoginNonExistent)
		a.passwordSvc.Verify(ctx, password, dummyHash)
		return nil, a.registerFailure(ctx, email, policy.Login)
	}

	stored := services.PasswordHash{Salt: user.PasswordSalt, Hash: user.PasswordHash}
	if !a.passwordSvc.Verify(ctx, password, stored) {
		log.Debug(ctx, msgInvalidPasswordAuth)
		return nil, a.registerFailure(ctx, email, policy.Login)
	}

	if err := a.guard.Reset(ctx, email); err != nil {
		log.Error(ctx, msgErrResetLoginGuard, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxResettingAttempt, err)
	}

	session, err := a.sessionSvc.Issue(ctx, user.ID)
	if err != nil {
		log.Error(ctx, msgErrIssueSession, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxIssuingSession, err)
	}

	log.Info(ctx, msgUserLoggedIn, zap.String("user_id", user.ID))
	return &services.AuthResult{UserID: user.ID, Session: session}, nil
}

// registerFailure учитывает неудачную попытку. Попытка, достигшая порога, сразу сообщает о блокировке.
func (a *AuthUseCaseImpl) registerFailure(ctx context.Context, email string, policy entities.LoginPolicy) error {
	locked, err := a.guard.RegisterFailure(ctx, email, policy)
	if err != nil {
		logger.Log(ctx).Error(ctx, msgErrRegisterFailure, zap.String("method", methodLogin), zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxCountingFailure, err)
	}
	if locked {
		return services.ErrAccountLocked
	}
	return services.ErrInvalidCredentials
}

// Logout возвращает инструкцию удалить сессию на клиенте. Серверного отзыва сессий нет.
func (a *AuthUseCaseImpl) Logout(ctx context.Context) services.Credential {
	logger.Log(ctx).Debug(ctx, msgUserLoggedOut, zap.String("method", methodLogout))
	return a.sessionSvc.Clear()
}

// WhoAmI проверяет сессию.
func (a *AuthUseCaseImpl) WhoAmI(ctx context.Context, session string) (string, bool) {
	return a.sessionSvc.Validate(ctx, session)
}

// Policy возвращает действующий документ политик.
func (a *AuthUseCaseImpl) Policy(ctx context.Context) (*entities.Policy, error) {
	policy, err := a.policies.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxLoadingPolicy, err)
	}
	return policy, nil
}

func validateCredentials(email, password string) error {
	switch {
	case email == "":
		return entities.ErrEmptyEmail
	case password == "":
		return entities.ErrEmptyPassword
	case entities.EmailDomain(email) == "" || email[0] == '@':
		return entities.ErrInvalidEmail
	}
	return nil
}
