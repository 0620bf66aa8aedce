package cache

// Префиксы ключей кэша.
const (
	prefixUserExists    = "user-exists:"
	prefixUserByEmail   = "user-by-email:"
	prefixChat          = "chat:"
	prefixChatsByUser   = "chats-by-user:"
	prefixLoginAttempts = "login-attempts:"
	prefixLoginLockout  = "login-lockout:"
)

// UserExistsKey - ключ признака существования пользователя.
func UserExistsKey(email string) string { return prefixUserExists + email }

// UserByEmailKey - ключ записи пользователя.
func UserByEmailKey(email string) string { return prefixUserByEmail + email }

// ChatKey - ключ записи чата.
func ChatKey(chatID string) string { return prefixChat + chatID }

// ChatsByUserKey - ключ списка чатов пользователя.
func ChatsByUserKey(userID string) string { return prefixChatsByUser + userID }

// LoginAttemptsKey - ключ счетчика неудачных попыток входа.
func LoginAttemptsKey(email string) string { return prefixLoginAttempts + email }

// LoginLockoutKey - ключ флага блокировки.
func LoginLockoutKey(email string) string { return prefixLoginLockout + email }
