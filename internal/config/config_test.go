package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.Server.IsDevelopment())
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.TrustedOrigins)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address())
	assert.Equal(t, 10, cfg.RateLimit.MaxRequests)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, testSecret, cfg.Jwt.Secret)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("SERVER_WRITE_TIMEOUT", "30s")
	t.Setenv("TRUSTED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.False(t, cfg.Server.IsDevelopment())
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.TrustedOrigins)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestLoad_WithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err, "loading must not require a signing secret")
	assert.ErrorIs(t, cfg.Validate(), ErrMissingSecret)
}

func TestValidate_ShortSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "too-short")

	cfg, err := Load()
	require.NoError(t, err)
	assert.ErrorIs(t, cfg.Validate(), ErrShortSecret)
}

func TestValidate_Accepts(t *testing.T) {
	cfg := &Config{Jwt: JWTConfig{Secret: testSecret}}
	assert.NoError(t, cfg.Validate())
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	c := DatabaseConfig{
		Host:     "db",
		Port:     "5432",
		User:     "u",
		Password: "p",
		DBName:   "notebook",
		SSLMode:  "disable",
	}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=notebook sslmode=disable", c.ConnectionString())

	c.ChannelBinding = "require"
	assert.Contains(t, c.ConnectionString(), " channel_binding=require")
}
