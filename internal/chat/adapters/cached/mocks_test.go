package cached_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gochat/internal/chat/domain/entities"
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
