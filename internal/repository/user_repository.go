package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/classtrack/attendance-api/internal/models"
)

// UserRepository manages persistence for login users.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail fetches a user by email. Returns sql.ErrNoRows when absent.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	const query = `SELECT id, name, email, password, created_at FROM users WHERE email = ? LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByEmail checks whether a user is already registered under the email.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const query = `SELECT 1 FROM users WHERE email = ? LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check email: %w", err)
	}
	return true, nil
}

// Create inserts a new user and fills in its generated id.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	const query = `INSERT INTO users (name, email, password) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, user.Name, user.Email, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create user id: %w", err)
	}
	user.ID = id
	return nil
}
