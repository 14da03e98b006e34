package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is matched by every token verification failure.
var ErrInvalidToken = errors.New("invalid token")

// Reason classifies why a token failed verification.
type Reason string

const (
	ReasonInvalidSignature Reason = "invalid_signature"
	ReasonMalformed        Reason = "malformed"
	ReasonExpired          Reason = "expired"
)

// VerificationError is returned by TokenService.Verify for rejected tokens.
type VerificationError struct {
	Reason Reason
	Err    error
}

func (e *VerificationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("token rejected: %s", e.Reason)
	}
	return fmt.Sprintf("token rejected: %s: %v", e.Reason, e.Err)
}

// Is makes errors.Is(err, ErrInvalidToken) true for any verification failure.
func (e *VerificationError) Is(target error) bool {
	return target == ErrInvalidToken
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

// Claims defines the JWT claims structure.
type Claims struct {
	UserID int64 `json:"userId"`
	jwt.RegisteredClaims
}

// TokenVerifier resolves a bearer token to the user it was issued for.
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

// TokenService issues and verifies HS256 tokens with a secret fixed at construction.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService. An empty secret is a configuration
// error; a zero ttl issues tokens without an expiry.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token signing secret is empty")
	}
	if ttl < 0 {
		return nil, fmt.Errorf("token ttl must not be negative, got %s", ttl)
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue creates a signed token asserting userID.
func (s *TokenService) Issue(userID int64) (string, error) {
	if userID <= 0 {
		return "", fmt.Errorf("cannot issue token for user id %d", userID)
	}

	now := s.now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify checks the token signature and returns the user id it asserts.
// Failures are always a *VerificationError.
func (s *TokenService) Verify(tokenStr string) (int64, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return 0, &VerificationError{Reason: classify(err), Err: err}
	}
	if !token.Valid {
		return 0, &VerificationError{Reason: ReasonInvalidSignature}
	}
	if claims.UserID <= 0 {
		return 0, &VerificationError{Reason: ReasonMalformed, Err: errors.New("missing userId claim")}
	}
	return claims.UserID, nil
}

func classify(err error) Reason {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ReasonExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ReasonInvalidSignature
	default:
		return ReasonMalformed
	}
}
