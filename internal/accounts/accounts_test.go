package accounts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/scholarbase/backend/internal/config"
)

func newTestLogger(t *testing.T) *zap.Logger {
	logger, err := zap.NewDevelopment()
	assert.NoError(t, err)
	return logger
}

func newTestConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret:       "test-secret-key",
		TokenExpiration: time.Hour,
		MaxFailedLogins: 5,
	}
}

func newTestService(t *testing.T) *Service {
	return NewService(
		newTestConfig(),
		newTestLogger(t),
		newMockRepository(),
	)
}

func newTestServiceWithRepo(t *testing.T, repo Repository) *Service {
	return NewService(
		newTestConfig(),
		newTestLogger(t),
		repo,
	)
}

func registerTestAccount(t *testing.T, svc *Service, username, password string) *Account {
	account := &Account{
		Username: username,
		Email:    username + "@example.com",
		Role:     RoleApplicant,
	}
	require.NoError(t, svc.Register(account, password))
	return account
}
