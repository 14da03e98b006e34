package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

const (
	msgAuthorizationMissing = "Authorization is not present"
	msgIncorrectToken       = "incorrect token"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey string

// UserIDKey is the context key for the authenticated user id.
const UserIDKey = contextKey("userId")

// WithUserID returns a copy of ctx carrying the authenticated user id.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// UserIDFromContext returns the user id placed in ctx by Middleware.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok && userID > 0
}

// Middleware creates a middleware for protecting routes. Every rejection
// answers 403 and returns without calling next.
func Middleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Warn().Str("request_id", middleware.GetReqID(r.Context())).Str("path", r.URL.Path).Msg("Rejected request without bearer authorization")
				reject(w, msgAuthorizationMissing)
				return
			}

			fields := strings.Fields(authHeader)
			if len(fields) < 2 {
				log.Warn().Str("request_id", middleware.GetReqID(r.Context())).Str("path", r.URL.Path).Msg("Rejected empty bearer token")
				reject(w, msgIncorrectToken)
				return
			}

			userID, err := safeVerify(verifier, fields[1])
			if err != nil {
				log.Warn().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Str("path", r.URL.Path).Msg("Rejected bearer token")
				reject(w, msgIncorrectToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// safeVerify turns a panicking verifier into an ordinary rejection.
func safeVerify(verifier TokenVerifier, token string) (userID int64, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			userID = 0
			err = &VerificationError{Reason: ReasonMalformed, Err: fmt.Errorf("verifier panic: %v", rec)}
		}
	}()
	userID, err = verifier.Verify(token)
	if err == nil && userID <= 0 {
		err = &VerificationError{Reason: ReasonMalformed, Err: fmt.Errorf("verifier returned user id %d", userID)}
	}
	return userID, err
}

func reject(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
