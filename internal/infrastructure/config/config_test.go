package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strongSecret = "this-is-a-very-secure-jwt-secret-key-32chars"

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "fintrack", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "fintrack", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, DefaultJWTSecret, cfg.JWT.Secret)
		assert.Equal(t, "30 0 1 * *", cfg.Scheduler.DistributionSchedule)
		assert.Equal(t, "UTC", cfg.Scheduler.Timezone)
		assert.Equal(t, 15*time.Minute, cfg.Storage.PresignExpiration)
		assert.True(t, cfg.Idempotency.Enabled)
		assert.Equal(t, 24*time.Hour, cfg.Idempotency.TTL)
		assert.Empty(t, cfg.Redis.Addr())
	})

	t.Run("loads values from environment variables with FINTRACK prefix", func(t *testing.T) {
		t.Setenv("FINTRACK_APP_NAME", "ledger")
		t.Setenv("FINTRACK_APP_PORT", "9000")
		t.Setenv("FINTRACK_DATABASE_HOST", "testdb.local")
		t.Setenv("FINTRACK_DATABASE_PORT", "5433")
		t.Setenv("FINTRACK_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("FINTRACK_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("FINTRACK_REDIS_HOST", "cache.local")
		t.Setenv("FINTRACK_SCHEDULER_ENABLED", "true")
		t.Setenv("FINTRACK_SCHEDULER_TIMEZONE", "Asia/Kolkata")
		t.Setenv("FINTRACK_IDEMPOTENCY_ENABLED", "false")
		t.Setenv("FINTRACK_STORAGE_PRESIGN_EXPIRATION", "5m")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "ledger", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, "cache.local:6379", cfg.Redis.Addr())
		assert.True(t, cfg.Scheduler.Enabled)
		assert.Equal(t, "Asia/Kolkata", cfg.Scheduler.Timezone)
		assert.False(t, cfg.Idempotency.Enabled)
		assert.Equal(t, 5*time.Minute, cfg.Storage.PresignExpiration)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		t.Setenv("FINTRACK_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("FINTRACK_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		t.Setenv("FINTRACK_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})

	t.Run("rejects unknown scheduler timezone", func(t *testing.T) {
		t.Setenv("FINTRACK_SCHEDULER_TIMEZONE", "Mars/Olympus")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "scheduler.timezone")
	})

	t.Run("storage needs credentials when enabled", func(t *testing.T) {
		t.Setenv("FINTRACK_STORAGE_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.access_key")
	})

	t.Run("rejects sampling ratio above one", func(t *testing.T) {
		t.Setenv("FINTRACK_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	production := func(t *testing.T) {
		t.Setenv("FINTRACK_APP_ENV", "production")
		t.Setenv("FINTRACK_JWT_SECRET", strongSecret)
		t.Setenv("FINTRACK_DATABASE_PASSWORD", "secure-password")
		t.Setenv("FINTRACK_DATABASE_SSLMODE", "require")
	}

	t.Run("passes validation with valid production config", func(t *testing.T) {
		production(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})

	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{name: "default jwt secret", env: map[string]string{"FINTRACK_JWT_SECRET": ""}, wantErr: "jwt.secret is required"},
		{name: "short jwt secret", env: map[string]string{"FINTRACK_JWT_SECRET": "short-secret"}, wantErr: "at least 32 characters"},
		{name: "ssl disabled", env: map[string]string{"FINTRACK_DATABASE_SSLMODE": "disable"}, wantErr: "sslmode"},
		{name: "no database password", env: map[string]string{"FINTRACK_DATABASE_PASSWORD": ""}, wantErr: "database.password"},
		{name: "wildcard cors", env: map[string]string{"FINTRACK_HTTP_CORS_ALLOW_ORIGINS": "*"}, wantErr: "cors_allow_origins"},
		{name: "open swagger", env: map[string]string{"FINTRACK_SWAGGER_ENABLED": "true"}, wantErr: "swagger"},
		{name: "full sql logging", env: map[string]string{"FINTRACK_TELEMETRY_DB_LOG_FULL_SQL": "true"}, wantErr: "db_log_full_sql"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			production(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("passes with swagger restricted by IP in production", func(t *testing.T) {
		production(t)
		t.Setenv("FINTRACK_SWAGGER_ENABLED", "true")
		t.Setenv("FINTRACK_SWAGGER_ALLOWED_IPS", "10.0.0.1")

		_, err := Load()
		require.NoError(t, err)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "/testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}
