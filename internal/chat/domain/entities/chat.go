package entities

import (
	"errors"
	"time"
)

// Ошибки домена чатов.
var (
	ErrEmptyChatID       = errors.New("chat ID cannot be empty")
	ErrChatIDTooLong     = errors.New("chat ID is too long")
	ErrChatNotFound      = errors.New("chat not found")
	ErrChatAlreadyExists = errors.New("chat with this ID already exists")
	ErrChatForbidden     = errors.New("chat belongs to another user")
)

const (
	// DefaultChatTitle используется, когда клиент не передал заголовок.
	DefaultChatTitle = "title"

	// MaxChatIDLength совпадает с шириной столбца chats.chat_id.
	MaxChatIDLength = 256
)

// Chat принадлежит ровно одному пользователю на все время жизни.
type Chat struct {
	ID        string    `json:"chatId"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdTime"`
}
