package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_DSN", "user:pass@tcp(localhost:3306)/xclone")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("JWT_SECRET", "secret")
}

// TestLoadDefaults verifies optional settings fall back to their defaults.
func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("REDIS_DB", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("SEED_USERS", "")

	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", s.AppPort)
	assert.Equal(t, "mysql", s.DBDriver)
	assert.Equal(t, 168*time.Hour, s.TokenTTL)
	assert.Equal(t, 0, s.RedisDB)
	assert.Empty(t, s.CORSOrigins)
	assert.Equal(t, 0, s.SeedUsers)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_PORT", "9000")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://x.example ,")
	t.Setenv("SEED_USERS", "5")

	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", s.AppPort)
	assert.Equal(t, "postgres", s.DBDriver)
	assert.Equal(t, 2*time.Hour, s.TokenTTL)
	assert.Equal(t, 3, s.RedisDB)
	assert.Equal(t, []string{"http://localhost:3000", "https://x.example"}, s.CORSOrigins)
	assert.Equal(t, 5, s.SeedUsers)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("missing required", func(t *testing.T) {
		t.Setenv("DB_DSN", "")
		t.Setenv("REDIS_ADDR", "")
		t.Setenv("JWT_SECRET", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_DSN")
		assert.Contains(t, err.Error(), "REDIS_ADDR")
		assert.Contains(t, err.Error(), "JWT_SECRET")
	})

	t.Run("unknown driver", func(t *testing.T) {
		setRequired(t)
		t.Setenv("DB_DRIVER", "oracle")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad ttl", func(t *testing.T) {
		setRequired(t)
		t.Setenv("DB_DRIVER", "")
		t.Setenv("TOKEN_TTL", "-1h")
		_, err := Load()
		assert.Error(t, err)
	})
}
