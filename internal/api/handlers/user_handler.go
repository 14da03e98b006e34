package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/Jegadheeswaran/Rentify-backend/internal/services"
)

// TokenIssuer signs bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID int64) (string, error)
}

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	service services.UserServiceProvider
	tokens  TokenIssuer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider, tokens TokenIssuer) *UserHandler {
	return &UserHandler{service: service, tokens: tokens}
}

// Signup handles new user registration and returns a token for the new account.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var payload services.SignupInput
	if err := decodeJSON(w, r, &payload); err != nil {
		writeMessage(w, StatusIncorrectInput, msgIncorrectInputs)
		return
	}

	user, err := h.service.CreateUser(r.Context(), payload)
	switch {
	case errors.Is(err, services.ErrValidation):
		writeMessage(w, StatusIncorrectInput, msgIncorrectInputs)
		return
	case errors.Is(err, services.ErrConflict):
		writeMessage(w, StatusIncorrectInput, "Email/Mobile number is taken")
		return
	case err != nil:
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		writeMessage(w, http.StatusInternalServerError, "Error processing database query")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to generate JWT")
		writeMessage(w, http.StatusInternalServerError, "Error processing database query")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "User created successfully",
		"token":   token,
	})
}

// Signin handles authentication of an existing user and JWT generation.
func (h *UserHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var payload services.SigninInput
	if err := decodeJSON(w, r, &payload); err != nil {
		writeMessage(w, StatusIncorrectInput, msgIncorrectInputs)
		return
	}

	user, err := h.service.AuthenticateUser(r.Context(), payload)
	switch {
	case errors.Is(err, services.ErrValidation):
		writeMessage(w, StatusIncorrectInput, msgIncorrectInputs)
		return
	case errors.Is(err, services.ErrInvalidCredentials):
		log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
		writeMessage(w, http.StatusForbidden, "Incorrect email or password")
		return
	case err != nil:
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to authenticate user")
		writeMessage(w, http.StatusInternalServerError, "Error processing database query")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to generate JWT")
		writeMessage(w, http.StatusInternalServerError, "Error processing database query")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Signed in successfully",
		"token":   token,
	})
}
