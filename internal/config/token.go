package config

import (
	"fmt"
	"time"
)

// TokenConfig holds the unlock token signing configuration.
type TokenConfig struct {
	Secret          string
	ExpirationHours int
}

// Enabled reports whether a secret is configured.
func (c TokenConfig) Enabled() bool {
	return c.Secret != ""
}

// TTL is the token lifetime.
func (c TokenConfig) TTL() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}

// normalize validates the configuration. An empty secret is allowed and
// disables tokens.
func (c TokenConfig) normalize() error {
	if !c.Enabled() {
		return nil
	}
	if len(c.Secret) < 16 {
		return fmt.Errorf("unlock.token.secret must be at least 16 characters")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("unlock.token.expiration_hours must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}
