package config

import (
	"log"

	"go.uber.org/zap"
)

// Logger is the process-wide logger. It stays a no-op until InitLogger runs.
var Logger = zap.NewNop()

// InitLogger builds a production logger for APP_ENV=production and a development one otherwise.
func InitLogger(env string) {
	var err error
	if env == "production" {
		Logger, err = zap.NewProduction()
	} else {
		Logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}

	Logger.Info("Zap logger initialized", zap.String("env", env))
}
