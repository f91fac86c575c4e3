package service

import (
	"context"
	"testing"
	"time"

	"github.com/sangkips/gstbill-api/internal/config"
	"github.com/sangkips/gstbill-api/pkg/apperror"
	"github.com/sangkips/gstbill-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Login(t *testing.T) {
	hash, err := utils.HashPassword("s3cret")
	require.NoError(t, err)
	jwtManager := utils.NewJWTManager("test-secret", time.Hour)
	svc := NewAuthService(config.OperatorConfig{Username: "admin", PasswordHash: hash}, jwtManager)

	out, err := svc.Login(context.Background(), &LoginInput{Username: " admin ", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "admin", out.Operator)

	claims, err := jwtManager.ValidateAccessToken(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Operator)

	_, err = svc.Login(context.Background(), &LoginInput{Username: "admin", Password: "wrong"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &LoginInput{Username: "root", Password: "s3cret"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestAuthService_LoginWithoutHash(t *testing.T) {
	svc := NewAuthService(config.OperatorConfig{Username: "admin"}, utils.NewJWTManager("x", time.Hour))

	_, err := svc.Login(context.Background(), &LoginInput{Username: "admin", Password: ""})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}
