package postgres

import (
	"gochat/internal/chat/ports/repositories"
)

// RepositoryFactory создает репозитории для работы с PostgreSQL.
type RepositoryFactory struct {
	userRepo repositories.UserRepository
	chatRepo repositories.ChatRepository
}

// NewRepositoryFactory создает фабрику репозиториев.
func NewRepositoryFactory(pool PgxPoolInterface) *RepositoryFactory {
	return &RepositoryFactory{
		userRepo: NewUserRepository(pool),
		chatRepo: NewChatRepository(pool),
	}
}

// UserRepository возвращает репозиторий пользователей.
func (f *RepositoryFactory) UserRepository() repositories.UserRepository {
	return f.userRepo
}

// ChatRepository возвращает репозиторий чатов.
func (f *RepositoryFactory) ChatRepository() repositories.ChatRepository {
	return f.chatRepo
}
