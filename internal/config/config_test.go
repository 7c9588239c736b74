package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_NAME", "chatdoc")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, "https://api.openai.com/v1", cfg.ProviderBaseURL)
	assert.Equal(t, "gpt-4", cfg.ProviderModel)
	assert.Equal(t, 60, cfg.ProviderTimeoutSec)
}

func TestValidate_MissingRequired(t *testing.T) {
	cfg := &Config{}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_HOST")
	assert.Contains(t, err.Error(), "DB_USER")
	assert.Contains(t, err.Error(), "DB_NAME")
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{
		DBHost:     "db.internal",
		DBPort:     "5433",
		DBUser:     "app",
		DBPassword: "pw",
		DBName:     "chatdoc",
		DBSSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=app password=pw dbname=chatdoc sslmode=require",
		cfg.GetDSN())
}

func TestGetRedisAddr(t *testing.T) {
	cfg := &Config{RedisHost: "cache", RedisPort: "6380"}
	assert.Equal(t, "cache:6380", cfg.GetRedisAddr())
}

func TestLoad_EnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PROVIDER_TIMEOUT_SECONDS", "15")
	t.Setenv("PROVIDER_MODEL", "gpt-4o-mini")
	t.Setenv("UPLOAD_DIR", "/tmp/chatdoc-uploads")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15, cfg.ProviderTimeoutSec)
	assert.Equal(t, "gpt-4o-mini", cfg.ProviderModel)
	assert.Equal(t, "/tmp/chatdoc-uploads", cfg.UploadDir)
}
