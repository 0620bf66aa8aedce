// Package postgres реализует долговременное хранение пользователей и чатов в PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"gochat/internal/chat/domain/entities"
	"gochat/internal/chat/domain/services"
	"gochat/internal/chat/ports/repositories"
	pgdb "gochat/pkg/db/postgres"
	"gochat/pkg/logger"
)

// PgxPoolInterface - подмножество pgxpool.Pool, используемое репозиториями.
type PgxPoolInterface interface {
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
}

// Сообщения об ошибках репозитория пользователей.
const (
	ErrCheckUserExists   = "error checking user existence"
	ErrQueryUserByEmail  = "error querying user by email"
	ErrCreateUser        = "error creating user"
	LogUserNotFound      = "user not found"
	LogUserAlreadyExists = "user with this email already exists"
)

// UserRepository реализует repositories.UserRepository для Postgres.
type UserRepository struct {
	pool PgxPoolInterface
}

// NewUserRepository создает репозиторий пользователей.
func NewUserRepository(pool PgxPoolInterface) repositories.UserRepository {
	return &UserRepository{pool: pool}
}

// Exists проверяет, зарегистрирован ли email.
func (r *UserRepository) Exists(ctx context.Context, email string) (bool, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "Exists"))

	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		log.Error(ctx, ErrCheckUserExists, zap.Error(err))
		return false, fmt.Errorf("%s: %w", ErrCheckUserExists, err)
	}

	return exists, nil
}

// FindByEmail находит пользователя по email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "FindByEmail"))

	query := `
        SELECT user_id, email, password_hash, password_salt
        FROM users
        WHERE email = $1
    `

	var user entities.User
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.PasswordSalt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, LogUserNotFound)
			return nil, entities.ErrUserNotFound
		}
		log.Error(ctx, ErrQueryUserByEmail, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrQueryUserByEmail, err)
	}

	return &user, nil
}

// Create сохраняет нового пользователя. Повторный email дает services.ErrEmailAlreadyExists.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "Create"))

	query := `
        INSERT INTO users (user_id, email, password_hash, password_salt)
        VALUES ($1, $2, $3, $4)
        RETURNING user_id
    `

	var id string
	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.PasswordSalt,
	).Scan(&id)
	if err != nil {
		if pgdb.IsUniqueViolation(err) {
			log.Debug(ctx, LogUserAlreadyExists)
			return services.ErrEmailAlreadyExists
		}
		log.Error(ctx, ErrCreateUser, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrCreateUser, err)
	}

	user.ID = id
	return nil
}
