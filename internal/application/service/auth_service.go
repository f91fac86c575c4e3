package service

import (
	"context"
	"crypto/subtle"
	"log"
	"strings"
	"time"

	"github.com/sangkips/gstbill-api/internal/config"
	"github.com/sangkips/gstbill-api/pkg/apperror"
	"github.com/sangkips/gstbill-api/pkg/utils"
)

// AuthService authenticates the configured operator.
type AuthService struct {
	operator   config.OperatorConfig
	jwtManager *utils.JWTManager
}

// NewAuthService creates a new auth service
func NewAuthService(operator config.OperatorConfig, jwtManager *utils.JWTManager) *AuthService {
	if operator.PasswordHash == "" {
		log.Println("Warning: OPERATOR_PASSWORD_HASH is empty, logins will be refused")
	}
	return &AuthService{
		operator:   operator,
		jwtManager: jwtManager,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Username string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	Operator    string
	AccessToken string
	ExpiresAt   time.Time
}

// Login checks the operator credentials and returns an access token
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	username := strings.TrimSpace(input.Username)
	if s.operator.PasswordHash == "" {
		return nil, apperror.ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(username), []byte(s.operator.Username)) != 1 {
		return nil, apperror.ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(input.Password, s.operator.PasswordHash) {
		return nil, apperror.ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwtManager.GenerateAccessToken(s.operator.Username)
	if err != nil {
		return nil, err
	}
	return &LoginOutput{
		Operator:    s.operator.Username,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}
