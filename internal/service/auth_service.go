package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"mathmemo-backend/internal/config"
	"mathmemo-backend/utilities"
)

// AuthService authenticates the single operator account that guards the
// admin routes (supervised labeling, problem edits).
type AuthService interface {
	Login(username, password string) (accessToken, refreshToken string, err error)
}

type authService struct {
	operator config.OperatorConfig
}

func NewAuthService(operator config.OperatorConfig) AuthService {
	return &authService{operator: operator}
}

func (s *authService) Login(username, password string) (string, string, error) {
	if s.operator.Username == "" || s.operator.PasswordHash == "" {
		return "", "", errors.New("operator account is not configured")
	}
	if username != s.operator.Username {
		return "", "", errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.operator.PasswordHash), []byte(password)); err != nil {
		return "", "", errors.New("invalid credentials")
	}
	return utilities.GenerateTokens(username)
}
