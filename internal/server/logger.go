package server

import (
	"go.uber.org/zap"
)

// NewLogger builds the process logger for the given APP_ENV.
func NewLogger(env string) (*zap.Logger, error) {
	switch env {
	case EnvProduction:
		return zap.NewProduction()
	case EnvTesting:
		return zap.NewNop(), nil
	default:
		return zap.NewDevelopment()
	}
}
