package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/err0rre/Task-management/internal/models"
)

// TokenIssuer signs identity tokens for a user ID.
type TokenIssuer interface {
	Issue(subjectID string) (string, error)
}

// RegisterInput is the registration request.
type RegisterInput struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,maxbytes=72"`
	Email    string `json:"email" validate:"required,email,max=254"`
}

// AuthServiceProvider defines the registration and login flows.
type AuthServiceProvider interface {
	Register(ctx context.Context, in RegisterInput) error
	Login(ctx context.Context, username, password string) (string, error)
}

// AuthService implements registration and login over a credential store.
type AuthService struct {
	users     UserServiceProvider
	tokens    TokenIssuer
	events    EventServiceProvider
	cost      int
	dummyHash []byte
}

// NewAuthService creates a new AuthService hashing passwords with the given
// bcrypt cost.
func NewAuthService(users UserServiceProvider, tokens TokenIssuer, events EventServiceProvider, cost int) (*AuthService, error) {
	// Compared against when the username is unknown so both failure paths
	// pay for one bcrypt comparison.
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}
	return &AuthService{users: users, tokens: tokens, events: events, cost: cost, dummyHash: dummy}, nil
}

// Register validates the input, rejects a username or email that is already
// taken with a single undifferentiated error, and stores a bcrypt hash of
// the password.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) error {
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return err
	}

	if taken, err := s.identityTaken(ctx, in.Username, in.Email); err != nil {
		return err
	} else if taken {
		return models.ErrDuplicateIdentity
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return fmt.Errorf("%w: password must be at most %d bytes", models.ErrValidation, maxPasswordBytes)
	}
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.Create(ctx, in.Username, string(hashedPassword), in.Email)
	if err != nil {
		return err
	}

	s.recordEvent(ctx, user.ID, models.EventUserRegistered, "Account created.")
	return nil
}

func (s *AuthService) identityTaken(ctx context.Context, username, email string) (bool, error) {
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return true, nil
	} else if !errors.Is(err, models.ErrNotFound) {
		return false, err
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return true, nil
	} else if !errors.Is(err, models.ErrNotFound) {
		return false, err
	}
	return false, nil
}

// Login verifies the credentials and returns a signed token. Unknown users
// and wrong passwords both fail with models.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", models.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return "", models.ErrInvalidCredentials
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", models.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", err
	}

	s.recordEvent(ctx, user.ID, models.EventUserLogin, "Signed in.")
	return token, nil
}

func (s *AuthService) recordEvent(ctx context.Context, userID, eventType, message string) {
	if s.events == nil {
		return
	}
	if err := s.events.CreateEvent(ctx, userID, eventType, message, nil); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Str("type", eventType).Msg("Failed to record event")
	}
}
