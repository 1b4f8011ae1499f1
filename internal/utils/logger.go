package utils

import (
	"os"

	"go.uber.org/zap"
)

// NewLogger builds a zap logger for the current environment. Production
// config (JSON, info level) unless ENV is "dev".
func NewLogger() (*zap.Logger, error) {
	if os.Getenv("ENV") == "dev" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
