package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"messagely/internal/db"
	"messagely/internal/models"
)

var (
	ErrUserNotFound  = models.NewNotFoundError("user not found")
	ErrUsernameTaken = models.NewConflictError("username already taken")
)

// UserRepository abstracts user persistence. Only CreateUser and
// GetPasswordHash ever touch the password column.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.UserDetail, error)
	GetPasswordHash(ctx context.Context, username string) (string, error)
	UpdateLoginTimestamp(ctx context.Context, username string) (models.LoginStamp, error)
	GetUser(ctx context.Context, username string) (models.UserDetail, error)
	ListUsers(ctx context.Context) ([]models.UserSummary, error)
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(database *sqlx.DB) *UserRepo {
	return &UserRepo{db: database}
}

// CreateUser inserts a user whose password is already hashed.
func (r *UserRepo) CreateUser(ctx context.Context, user models.User) (models.UserDetail, error) {
	var detail models.UserDetail
	err := r.db.QueryRowxContext(ctx, `INSERT INTO users (username, password, first_name, last_name, phone, join_at, last_login_at)
        VALUES ($1, $2, $3, $4, $5, current_timestamp, current_timestamp)
        RETURNING username, first_name, last_name, phone, join_at, last_login_at`,
		user.Username, user.PasswordHash, user.FirstName, user.LastName, user.Phone).
		StructScan(&detail)
	if db.IsUniqueViolation(err) {
		return models.UserDetail{}, fmt.Errorf("%w: %s", ErrUsernameTaken, user.Username)
	}
	if err != nil {
		return models.UserDetail{}, fmt.Errorf("insert user: %w", err)
	}
	return detail, nil
}

// GetPasswordHash returns the stored hash for username.
func (r *UserRepo) GetPasswordHash(ctx context.Context, username string) (string, error) {
	var hash string
	err := r.db.GetContext(ctx, &hash, `SELECT password FROM users WHERE username = $1`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select password: %w", err)
	}
	return hash, nil
}

// UpdateLoginTimestamp sets last_login_at to now.
func (r *UserRepo) UpdateLoginTimestamp(ctx context.Context, username string) (models.LoginStamp, error) {
	var stamp models.LoginStamp
	err := r.db.GetContext(ctx, &stamp, `UPDATE users SET last_login_at = current_timestamp
        WHERE username = $1
        RETURNING username, last_login_at`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return models.LoginStamp{}, ErrUserNotFound
	}
	if err != nil {
		return models.LoginStamp{}, fmt.Errorf("update last login: %w", err)
	}
	return stamp, nil
}

// GetUser fetches the public projection of a user.
func (r *UserRepo) GetUser(ctx context.Context, username string) (models.UserDetail, error) {
	var detail models.UserDetail
	err := r.db.GetContext(ctx, &detail, `SELECT username, first_name, last_name, phone, join_at, last_login_at
        FROM users WHERE username = $1`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserDetail{}, ErrUserNotFound
	}
	if err != nil {
		return models.UserDetail{}, fmt.Errorf("select user: %w", err)
	}
	return detail, nil
}

// ListUsers returns basic info on all users.
func (r *UserRepo) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	users := []models.UserSummary{}
	if err := r.db.SelectContext(ctx, &users, `SELECT username, first_name, last_name, phone FROM users ORDER BY username`); err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	return users, nil
}
