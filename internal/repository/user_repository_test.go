package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/attendance-api/internal/models"
)

func TestUserRepositoryFindByEmail(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "email", "password", "created_at"}).
		AddRow(1, "Admin", "admin@example.com", "$2a$10$hash", time.Now())
	mock.ExpectQuery("SELECT id, name, email, password, created_at FROM users WHERE email").
		WithArgs("admin@example.com").
		WillReturnRows(rows)

	user, err := repo.FindByEmail(context.Background(), "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "$2a$10$hash", user.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindByEmailNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT id, name, email, password, created_at FROM users WHERE email").
		WithArgs("missing@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryExistsByEmail(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT 1 FROM users WHERE email").
		WithArgs("admin@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	exists, err := repo.ExistsByEmail(context.Background(), "admin@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO users").
		WithArgs("Admin", "admin@example.com", "$2a$10$hash").
		WillReturnResult(sqlmock.NewResult(1, 1))

	user := &models.User{Name: "Admin", Email: "admin@example.com", PasswordHash: "$2a$10$hash"}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.Equal(t, int64(1), user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
