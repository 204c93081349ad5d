package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T) (*Config, error) {
	t.Helper()
	return loadFrom(viper.New())
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := load(t)
		require.NoError(t, err)

		assert.Equal(t, "furnitureops", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, 50, cfg.Campaign.ChunkSize)
		assert.Equal(t, 5*time.Minute, cfg.Analytics.CacheTTL)
		assert.Equal(t, time.Hour, cfg.Scheduler.OverdueInterval)
		assert.False(t, cfg.Scheduler.Enabled)
		assert.Empty(t, cfg.Redis.Addr())
		assert.Empty(t, cfg.SMS.BaseURL)
		assert.Equal(t, 10*time.Second, cfg.SMS.Timeout)
		assert.Equal(t, 2, cfg.Email.RetryCount)
		assert.Equal(t, "furnitureops", cfg.Printing.CompanyName)
		assert.Equal(t, []string{"Content-Type", "Authorization", "X-Request-ID"}, cfg.HTTP.CORSAllowHeaders)
	})

	t.Run("parses durations from the environment", func(t *testing.T) {
		t.Setenv("FURN_JWT_ACCESS_TOKEN_EXPIRATION", "30m")
		t.Setenv("FURN_TELEMETRY_DB_SLOW_QUERY_THRESHOLD", "1s")

		cfg, err := load(t)
		require.NoError(t, err)
		assert.Equal(t, 30*time.Minute, cfg.JWT.AccessTokenExpiration)
		assert.Equal(t, time.Second, cfg.Telemetry.DBSlowQueryThresh)
	})

	t.Run("loads values from environment variables with FURN prefix", func(t *testing.T) {
		t.Setenv("FURN_APP_NAME", "workshop")
		t.Setenv("FURN_APP_PORT", "9000")
		t.Setenv("FURN_DATABASE_HOST", "db.local")
		t.Setenv("FURN_DATABASE_PORT", "5433")
		t.Setenv("FURN_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("FURN_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("FURN_REDIS_HOST", "cache.local")
		t.Setenv("FURN_CAMPAIGN_CHUNK_SIZE", "20")
		t.Setenv("FURN_SMS_BASE_URL", "https://sms.example.com")
		t.Setenv("FURN_STORAGE_BUCKET", "boards")

		cfg, err := load(t)
		require.NoError(t, err)

		assert.Equal(t, "workshop", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "db.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, "cache.local:6379", cfg.Redis.Addr())
		assert.Equal(t, 20, cfg.Campaign.ChunkSize)
		assert.Equal(t, "https://sms.example.com", cfg.SMS.BaseURL)
		assert.Equal(t, "boards", cfg.Storage.Bucket)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		t.Setenv("FURN_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("FURN_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := load(t)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		t.Setenv("FURN_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := load(t)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})

	t.Run("rejects oversized campaign chunks", func(t *testing.T) {
		t.Setenv("FURN_CAMPAIGN_CHUNK_SIZE", "5000")

		_, err := load(t)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "campaign.chunk_size")
	})

	t.Run("fills the pandadoc base url when an api key is set", func(t *testing.T) {
		t.Setenv("FURN_ESIGN_API_KEY", "key")

		cfg, err := load(t)
		require.NoError(t, err)
		assert.Equal(t, "https://api.pandadoc.com/public/v1", cfg.ESign.BaseURL)
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		t.Setenv("FURN_APP_ENV", "production")
		t.Setenv("FURN_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		t.Setenv("FURN_DATABASE_PASSWORD", "secure-password")
		t.Setenv("FURN_DATABASE_SSLMODE", "require")
		t.Setenv("FURN_SWAGGER_ENABLED", "false")
	}

	t.Run("passes validation with valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := load(t)
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
	})

	t.Run("rejects the default jwt secret", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("FURN_JWT_SECRET", "")

		_, err := load(t)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret must be set in production")
	})

	t.Run("requires jwt.secret at least 32 characters", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("FURN_JWT_SECRET", "short-secret")

		_, err := load(t)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 32 characters")
	})

	t.Run("requires SSL enabled", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("FURN_DATABASE_SSLMODE", "disable")

		_, err := load(t)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable'")
	})

	t.Run("rejects wildcard CORS origins", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("FURN_HTTP_CORS_ALLOW_ORIGINS", "*")

		_, err := load(t)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cors_allow_origins")
	})

	t.Run("fails if swagger enabled without protection", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("FURN_SWAGGER_ENABLED", "true")

		_, err := load(t)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "swagger endpoint must be disabled")
	})

	t.Run("requires an esign webhook secret when esign is configured", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("FURN_ESIGN_API_KEY", "key")

		_, err := load(t)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "esign.webhook_secret")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{Host: "localhost", Port: 5432, User: "u", Password: "p", DBName: "furniture", SSLMode: "disable"}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "/furniture")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{Host: "localhost", Port: 5432, User: "user", Password: "pass@word#123", DBName: "db", SSLMode: "disable"}

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}
