package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "TOKEN_KEY", "TOKEN_TTL", "STORE_DRIVER", "REDIS_ADDR", "ELASTICSEARCH_ADDRS"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.ESAddrs())
	assert.NoError(t, cfg.Validate())
	assert.NotEmpty(t, cfg.SigningKey())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("BCRYPT_COST", "not-a-number")
	t.Setenv("HTTP_LOG_ENABLED", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("ELASTICSEARCH_ADDRS", "http://es1:9200,http://es2:9200")

	cfg := Load()
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.True(t, cfg.HTTPLogEnabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins())
	assert.Len(t, cfg.ESAddrs(), 2)
}

func TestValidate(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("TOKEN_KEY", "")
	t.Setenv("STORE_DRIVER", "mysql")

	cfg := Load()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_DRIVER")
	assert.Contains(t, err.Error(), "TOKEN_KEY")
	assert.Empty(t, cfg.SigningKey())

	cfg.StoreDriver = DriverSQLite
	cfg.TokenKey = "prod-key"
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "prod-key", cfg.SigningKey())
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "db", DBPort: "5432", DBName: "accounts", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/accounts?sslmode=disable", cfg.PostgresDSN())
}
