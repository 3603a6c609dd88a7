package services

import (
	"errors"
	"strings"
	"time"

	"github.com/shashiranjanraj/velocart/pkg/auth"
	"github.com/shashiranjanraj/velocart/pkg/rbac"
)

// TokenTTL is the lifetime of an admin token.
const TokenTTL = 24 * time.Hour

var ErrInvalidCredentials = errors.New("invalid credentials")

type LoginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Token struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthService authenticates the single configured admin account.
type AuthService struct {
	email        string
	passwordHash string
	now          func() time.Time
}

func NewAuthService(email, passwordHash string) *AuthService {
	return &AuthService{email: strings.TrimSpace(email), passwordHash: passwordHash, now: time.Now}
}

// Login issues an admin token. Login is disabled while either credential is
// unset.
func (s *AuthService) Login(in LoginInput) (Token, error) {
	if s.email == "" || s.passwordHash == "" {
		return Token{}, ErrInvalidCredentials
	}
	if !strings.EqualFold(strings.TrimSpace(in.Email), s.email) || !auth.CheckPassword(s.passwordHash, in.Password) {
		return Token{}, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(s.email, rbac.RoleAdmin, TokenTTL)
	if err != nil {
		return Token{}, err
	}
	return Token{Token: token, ExpiresAt: s.now().Add(TokenTTL).UTC()}, nil
}
