package http_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gochat/internal/chat/domain/entities"
	"gochat/internal/chat/domain/services"
)

type mockAuthUseCase struct {
	mock.Mock
}

func (m *mockAuthUseCase) Register(ctx context.Context, email, password string) (*services.AuthResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AuthResult), args.Error(1)
}

func (m *mockAuthUseCase) Login(ctx context.Context, email, password string) (*services.AuthResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AuthResult), args.Error(1)
}

func (m *mockAuthUseCase) Logout(ctx context.Context) services.Credential {
	return m.Called(ctx).Get(0).(services.Credential)
}

func (m *mockAuthUseCase) WhoAmI(ctx context.Context, session string) (string, bool) {
	args := m.Called(ctx, session)
	return args.String(0), args.Bool(1)
}

func (m *mockAuthUseCase) Policy(ctx context.Context) (*entities.Policy, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Policy), args.Error(1)
}

type mockChatUseCase struct {
	mock.Mock
}

func (m *mockChatUseCase) ListChats(ctx context.Context, userID string) ([]entities.Chat, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Chat), args.Error(1)
}

func (m *mockChatUseCase) CreateChat(ctx context.Context, userID, title string) (*entities.Chat, error) {
	args := m.Called(ctx, userID, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Chat), args.Error(1)
}

func (m *mockChatUseCase) EnsureChat(ctx context.Context, userID, chatID, title string) (*entities.Chat, error) {
	args := m.Called(ctx, userID, chatID, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Chat), args.Error(1)
}
