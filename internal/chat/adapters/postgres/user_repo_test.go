package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gochat/internal/chat/adapters/postgres"
	"gochat/internal/chat/domain/entities"
	"gochat/internal/chat/domain/services"
	"gochat/pkg/logger"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	testLogger, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)
	return logger.NewContext(context.Background(), testLogger)
}

func TestUserRepository_Exists(t *testing.T) {
	ctx := testContext(t)

	for _, exists := range []bool{true, false} {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)

		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("a@example.com").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(exists))

		got, err := postgres.NewUserRepository(mock).Exists(ctx, "a@example.com")
		require.NoError(t, err)
		assert.Equal(t, exists, got)
		require.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	}

	t.Run("Ошибка базы данных", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("a@example.com").
			WillReturnError(errors.New("connection reset"))

		_, err = postgres.NewUserRepository(mock).Exists(ctx, "a@example.com")
		require.Error(t, err)
		assert.Contains(t, err.Error(), postgres.ErrCheckUserExists)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_FindByEmail(t *testing.T) {
	ctx := testContext(t)
	columns := []string{"user_id", "email", "password_hash", "password_salt"}

	t.Run("Успешное получение пользователя по email", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT user_id, email, password_hash, password_salt").
			WithArgs("a@example.com").
			WillReturnRows(pgxmock.NewRows(columns).AddRow("u-1", "a@example.com", "hash", "salt"))

		user, err := postgres.NewUserRepository(mock).FindByEmail(ctx, "a@example.com")
		require.NoError(t, err)
		assert.Equal(t, &entities.User{ID: "u-1", Email: "a@example.com", PasswordHash: "hash", PasswordSalt: "salt"}, user)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Пользователь не найден", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT user_id, email, password_hash, password_salt").
			WithArgs("nobody@example.com").
			WillReturnError(pgx.ErrNoRows)

		user, err := postgres.NewUserRepository(mock).FindByEmail(ctx, "nobody@example.com")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, entities.ErrUserNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Ошибка базы данных", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT user_id, email, password_hash, password_salt").
			WithArgs("a@example.com").
			WillReturnError(errors.New("database connection failed"))

		user, err := postgres.NewUserRepository(mock).FindByEmail(ctx, "a@example.com")
		assert.Nil(t, user)
		require.Error(t, err)
		assert.NotErrorIs(t, err, entities.ErrUserNotFound)
		assert.Contains(t, err.Error(), postgres.ErrQueryUserByEmail)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_Create(t *testing.T) {
	ctx := testContext(t)
	user := &entities.User{ID: "u-1", Email: "a@example.com", PasswordHash: "hash", PasswordSalt: "salt"}

	t.Run("Успешное создание пользователя", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("INSERT INTO users .+").
			WithArgs(user.ID, user.Email, user.PasswordHash, user.PasswordSalt).
			WillReturnRows(pgxmock.NewRows([]string{"user_id"}).AddRow(user.ID))

		require.NoError(t, postgres.NewUserRepository(mock).Create(ctx, user))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Дублирующийся email", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("INSERT INTO users .+").
			WithArgs(user.ID, user.Email, user.PasswordHash, user.PasswordSalt).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		err = postgres.NewUserRepository(mock).Create(ctx, user)
		assert.ErrorIs(t, err, services.ErrEmailAlreadyExists)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Общая ошибка БД", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("INSERT INTO users .+").
			WithArgs(user.ID, user.Email, user.PasswordHash, user.PasswordSalt).
			WillReturnError(errors.New("database connection error"))

		err = postgres.NewUserRepository(mock).Create(ctx, user)
		require.Error(t, err)
		assert.Contains(t, err.Error(), postgres.ErrCreateUser)
		assert.NotContains(t, err.Error(), user.PasswordHash)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
