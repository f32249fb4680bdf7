package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

var knownWeakSecrets = []string{
	"change-me", "dev-secret-change-me", "secret", "admin", "password",
}

// RolePolicy selects how an authenticated user's role is derived.
// Exactly one policy is active per deployment.
type RolePolicy string

const (
	RolePolicyAllowlist  RolePolicy = "allowlist"
	RolePolicyRolesTable RolePolicy = "roles_table"
	RolePolicyClientLink RolePolicy = "client_link"
)

type Config struct {
	Port               int    `env:"PORT" envDefault:"8080"`
	DatabaseURL        string `env:"DATABASE_URL,required"`
	RedisURL           string `env:"REDIS_URL,required"`
	StreamTicketSecret string `env:"STREAM_TICKET_SECRET"`
	AdminEmails        string `env:"ADMIN_EMAILS" envDefault:""`
	RolePolicyName     string `env:"ROLE_POLICY" envDefault:"client_link"`
	SessionTTLHours    int    `env:"SESSION_TTL_HOURS" envDefault:"168"`
	PublicBaseURL      string `env:"PUBLIC_BASE_URL" envDefault:""`
	LogLevel           string `env:"LOG_LEVEL" envDefault:"info"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) RolePolicy() RolePolicy {
	return RolePolicy(c.RolePolicyName)
}

// AdminEmailList splits ADMIN_EMAILS into normalized entries.
func (c *Config) AdminEmailList() []string {
	if c.AdminEmails == "" {
		return nil
	}
	parts := strings.Split(c.AdminEmails, ",")
	emails := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			emails = append(emails, p)
		}
	}
	return emails
}

func (c *Config) Validate(isProduction bool) error {
	switch c.RolePolicy() {
	case RolePolicyAllowlist, RolePolicyRolesTable, RolePolicyClientLink:
	default:
		return fmt.Errorf("ROLE_POLICY must be one of allowlist, roles_table, client_link (got %q)", c.RolePolicyName)
	}

	if c.RolePolicy() == RolePolicyAllowlist && len(c.AdminEmailList()) == 0 {
		return fmt.Errorf("ROLE_POLICY=allowlist requires a non-empty ADMIN_EMAILS")
	}

	if isProduction {
		if err := validateSecret("STREAM_TICKET_SECRET", c.StreamTicketSecret); err != nil {
			return err
		}
		if strings.HasPrefix(c.RedisURL, "redis://") {
			log.Warn().Msg("REDIS_URL uses redis:// (not TLS) in production: consider using rediss://")
		}
	}

	return nil
}

func validateSecret(name, value string) error {
	if len(value) < 32 {
		return fmt.Errorf("%s must be at least 32 characters in production (generate with: openssl rand -base64 32)", name)
	}
	for _, weak := range knownWeakSecrets {
		if value == weak {
			return fmt.Errorf("%s is a known weak default; set a strong secret in production", name)
		}
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
