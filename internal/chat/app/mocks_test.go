package app_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gochat/internal/chat/domain/entities"
	"gochat/internal/chat/domain/services"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Exists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepository) Create(ctx context.Context, user *entities.User) error {
	return m.Called(ctx, user).Error(0)
}

type mockChatRepository struct {
	mock.Mock
}

func (m *mockChatRepository) FindByUserID(ctx context.Context, userID string) ([]entities.Chat, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Chat), args.Error(1)
}

func (m *mockChatRepository) FindByID(ctx context.Context, chatID string) (*entities.Chat, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Chat), args.Error(1)
}

func (m *mockChatRepository) Create(ctx context.Context, chat *entities.Chat) (*entities.Chat, error) {
	args := m.Called(ctx, chat)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Chat), args.Error(1)
}

type mockPasswordService struct {
	mock.Mock
}

func (m *mockPasswordService) Hash(ctx context.Context, password string) (*services.PasswordHash, error) {
	args := m.Called(ctx, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.PasswordHash), args.Error(1)
}

func (m *mockPasswordService) Verify(ctx context.Context, password string, stored services.PasswordHash) bool {
	return m.Called(ctx, password, stored).Bool(0)
}

type mockSessionService struct {
	mock.Mock
}

func (m *mockSessionService) Issue(ctx context.Context, userID string) (services.Credential, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(services.Credential), args.Error(1)
}

func (m *mockSessionService) Validate(ctx context.Context, value string) (string, bool) {
	args := m.Called(ctx, value)
	return args.String(0), args.Bool(1)
}

func (m *mockSessionService) Clear() services.Credential {
	return m.Called().Get(0).(services.Credential)
}

type mockPolicyProvider struct {
	mock.Mock
}

func (m *mockPolicyProvider) Load(ctx context.Context) (*entities.Policy, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Policy), args.Error(1)
}

type mockLoginGuard struct {
	mock.Mock
}

func (m *mockLoginGuard) IsLocked(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockLoginGuard) RegisterFailure(ctx context.Context, email string, policy entities.LoginPolicy) (bool, error) {
	args := m.Called(ctx, email, policy)
	return args.Bool(0), args.Error(1)
}

func (m *mockLoginGuard) Reset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}
