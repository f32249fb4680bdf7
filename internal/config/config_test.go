package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminEmailList(t *testing.T) {
	t.Run("splits and normalizes", func(t *testing.T) {
		cfg := &Config{AdminEmails: " Boss@Example.com ,, amy@example.com"}
		assert.Equal(t, []string{"boss@example.com", "amy@example.com"}, cfg.AdminEmailList())
	})

	t.Run("empty value yields nil", func(t *testing.T) {
		cfg := &Config{}
		assert.Nil(t, cfg.AdminEmailList())
	})
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			DatabaseURL:        "postgres://localhost/portal",
			RedisURL:           "rediss://localhost:6379",
			StreamTicketSecret: "fedcba9876543210fedcba9876543210",
			RolePolicyName:     "client_link",
		}
	}

	t.Run("accepts a sane production config", func(t *testing.T) {
		require.NoError(t, base().Validate(true))
	})

	t.Run("rejects an unknown role policy", func(t *testing.T) {
		cfg := base()
		cfg.RolePolicyName = "guesswork"
		assert.Error(t, cfg.Validate(false))
	})

	t.Run("allowlist policy requires admin emails", func(t *testing.T) {
		cfg := base()
		cfg.RolePolicyName = "allowlist"
		assert.Error(t, cfg.Validate(false))

		cfg.AdminEmails = "boss@example.com"
		assert.NoError(t, cfg.Validate(false))
	})

	t.Run("rejects short secrets in production only", func(t *testing.T) {
		cfg := base()
		cfg.StreamTicketSecret = "short"
		assert.Error(t, cfg.Validate(true))
		assert.NoError(t, cfg.Validate(false))
	})

	t.Run("rejects known weak secrets in production", func(t *testing.T) {
		cfg := base()
		cfg.StreamTicketSecret = "change-me"
		assert.Error(t, cfg.Validate(true))
	})
}
