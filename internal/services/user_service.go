package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/err0rre/Task-management/internal/database"
	"github.com/err0rre/Task-management/internal/models"
)

// UserServiceProvider defines the credential store consumed by registration
// and login. The Find methods return models.ErrNotFound when nothing matches.
type UserServiceProvider interface {
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	Create(ctx context.Context, username, passwordHash, email string) (models.User, error)
}

// UserService persists user records.
type UserService struct {
	db  *sql.DB
	now func() time.Time
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db, now: time.Now}
}

const userColumns = "id, username, email, password_hash, created_at"

// FindByID retrieves a single user by their ID.
func (s *UserService) FindByID(ctx context.Context, id string) (models.User, error) {
	return s.findOne(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
}

// FindByUsername retrieves a single user by username, including the password hash.
func (s *UserService) FindByUsername(ctx context.Context, username string) (models.User, error) {
	return s.findOne(ctx, "SELECT "+userColumns+" FROM users WHERE username = ?", username)
}

// FindByEmail retrieves a single user by email, including the password hash.
func (s *UserService) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findOne(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", normalizeEmail(email))
}

// Create inserts a user with an already hashed password. The email is stored
// lower-cased. A username or email
// collision fails with models.ErrDuplicateIdentity and writes nothing.
func (s *UserService) Create(ctx context.Context, username, passwordHash, email string) (models.User, error) {
	user := models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        normalizeEmail(email),
		PasswordHash: passwordHash,
		CreatedAt:    s.now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, username, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)",
		user.ID, user.Username, user.Email, user.PasswordHash, database.ToMillis(user.CreatedAt),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return models.User{}, models.ErrDuplicateIdentity
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// normalizeEmail lower-cases an address so one mailbox maps to one account.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) findOne(ctx context.Context, query string, arg string) (models.User, error) {
	var user models.User
	var createdAt int64
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("user: %w", models.ErrNotFound)
		}
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	user.CreatedAt = database.FromMillis(createdAt)
	return user, nil
}
