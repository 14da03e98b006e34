package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/Jegadheeswaran/Rentify-backend/internal/models"
)

const userColumns = "id, email, number, password_hash, first_name, last_name, created_at"

// SignupInput is the payload accepted by POST /signup.
type SignupInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,max=72"` // bcrypt rejects more than 72 bytes
	Number    string `json:"number" validate:"required,len=10"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

// SigninInput is the payload accepted by POST /signin.
type SigninInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	CreateUser(ctx context.Context, input SignupInput) (models.User, error)
	AuthenticateUser(ctx context.Context, input SigninInput) (models.User, error)
	GetUserByID(ctx context.Context, id int64) (models.User, error)
}

// UserService provides business logic for user management.
type UserService struct {
	db     *sqlx.DB
	events EventServiceProvider
}

// NewUserService creates a new UserService.
func NewUserService(db *sqlx.DB, events EventServiceProvider) *UserService {
	return &UserService{db: db, events: events}
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return models.User{}, fmt.Errorf("get user %d: %w", id, err)
	}
	return user, nil
}

// CreateUser registers a new user. Email and number must both be unused.
func (s *UserService) CreateUser(ctx context.Context, input SignupInput) (models.User, error) {
	if err := validateInput(input); err != nil {
		return models.User{}, err
	}

	var existing int64
	err := s.db.GetContext(ctx, &existing, "SELECT id FROM users WHERE email = ? OR number = ? LIMIT 1", input.Email, input.Number)
	switch {
	case err == nil:
		return models.User{}, ErrConflict
	case !errors.Is(err, sql.ErrNoRows):
		return models.User{}, fmt.Errorf("check existing user: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return models.User{}, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Email:        input.Email,
		Number:       input.Number,
		PasswordHash: string(hashedPassword),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
	}

	res, err := s.db.NamedExecContext(ctx, `
		INSERT INTO users (email, number, password_hash, first_name, last_name)
		VALUES (:email, :number, :password_hash, :first_name, :last_name)`, user)
	if err != nil {
		// Lost a race with a concurrent signup for the same email or number.
		if isUniqueViolation(err) {
			return models.User{}, ErrConflict
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}

	created, err := s.GetUserByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	recordEvent(ctx, s.events, EventUserSignup, fmt.Sprintf("Account created for %s.", created.Email), created.ID, nil)
	return created, nil
}

// AuthenticateUser verifies a user's credentials. Unknown emails and wrong
// passwords both return ErrInvalidCredentials.
func (s *UserService) AuthenticateUser(ctx context.Context, input SigninInput) (models.User, error) {
	if err := validateInput(input); err != nil {
		return models.User{}, err
	}

	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT "+userColumns+" FROM users WHERE email = ?", input.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, fmt.Errorf("get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}
