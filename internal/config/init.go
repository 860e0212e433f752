package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Settings holds everything the app reads from the environment.
type Settings struct {
	AppEnv  string
	AppPort string

	DBDriver string
	DBDSN    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string
	TokenTTL  time.Duration

	GoogleClientID string
	AppleClientID  string

	CORSOrigins []string
	SeedUsers   int
}

const (
	defaultPort     = "8080"
	defaultDriver   = "mysql"
	defaultTokenTTL = 168 * time.Hour
)

// Init loads .env (if any), builds the logger for APP_ENV and reads Settings.
// It exits when required values are missing.
func Init() *Settings {
	envErr := godotenv.Load()
	InitLogger(os.Getenv("APP_ENV"))
	if envErr != nil {
		Logger.Info("No .env file found, using system environment variables")
	}

	s, err := Load()
	if err != nil {
		Logger.Fatal("Invalid configuration", zap.Error(err))
	}
	return s
}

// Load reads Settings from environment variables.
func Load() (*Settings, error) {
	s := &Settings{
		AppEnv:         os.Getenv("APP_ENV"),
		AppPort:        getenv("APP_PORT", defaultPort),
		DBDriver:       strings.ToLower(getenv("DB_DRIVER", defaultDriver)),
		DBDSN:          os.Getenv("DB_DSN"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		GoogleClientID: os.Getenv("GOOGLE_CLIENT_ID"),
		AppleClientID:  os.Getenv("APPLE_CLIENT_ID"),
		TokenTTL:       defaultTokenTTL,
	}

	var missing []string
	if s.DBDSN == "" {
		missing = append(missing, "DB_DSN")
	}
	if s.RedisAddr == "" {
		missing = append(missing, "REDIS_ADDR")
	}
	if s.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s not set", strings.Join(missing, ", "))
	}

	if s.DBDriver != "mysql" && s.DBDriver != "postgres" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", s.DBDriver)
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
		s.RedisDB = db
	}

	if v := os.Getenv("TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
		}
		if ttl <= 0 {
			return nil, errors.New("TOKEN_TTL must be positive")
		}
		s.TokenTTL = ttl
	}

	if v := os.Getenv("SEED_USERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid SEED_USERS %q", v)
		}
		s.SeedUsers = n
	}

	for _, origin := range strings.Split(os.Getenv("CORS_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			s.CORSOrigins = append(s.CORSOrigins, origin)
		}
	}

	return s, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
