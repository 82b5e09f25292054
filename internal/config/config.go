// Package config resolves the provider's connection settings from environment
// variables and the provider block.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/aaearon/terraform-provider-snowsql/internal/client"
	"github.com/aaearon/terraform-provider-snowsql/internal/engine"
)

// EnvPrefix is the prefix of every environment variable the provider reads
const EnvPrefix = "SNOWFLAKE_"

// ProviderConfig is the resolved provider configuration
type ProviderConfig struct {
	Account   string `koanf:"account"`
	Username  string `koanf:"username"`
	Password  string `koanf:"password"`
	Role      string `koanf:"role"`
	Warehouse string `koanf:"warehouse"`
	Host      string `koanf:"host"`
	Database  string `koanf:"database"`
	Schema    string `koanf:"schema"`
}

// MissingFieldError reports a required setting that resolved to an empty value
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s must be set in the provider configuration or via %s%s",
		e.Field, EnvPrefix, strings.ToUpper(e.Field))
}

// Load layers explicit values over SNOWFLAKE_* environment variables. Empty
// explicit values are ignored so they never mask the environment.
func Load(explicit map[string]string) (*ProviderConfig, error) {
	k := koanf.New(".")

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	overrides := make(map[string]interface{}, len(explicit))
	for key, value := range explicit {
		if value != "" {
			overrides[key] = value
		}
	}
	if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load provider configuration: %w", err)
	}

	var cfg ProviderConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode provider configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings required to open a session
func (c *ProviderConfig) Validate() error {
	switch {
	case c.Account == "":
		return &MissingFieldError{Field: "account"}
	case c.Username == "":
		return &MissingFieldError{Field: "username"}
	case c.Password == "":
		return &MissingFieldError{Field: "password"}
	}
	return nil
}

// Snowflake returns the driver session settings
func (c *ProviderConfig) Snowflake() *client.SnowflakeConfig {
	return &client.SnowflakeConfig{
		Account:   c.Account,
		Username:  c.Username,
		Password:  c.Password,
		Role:      c.Role,
		Warehouse: c.Warehouse,
		Host:      c.Host,
	}
}

// Defaults returns the provider-level naming defaults
func (c *ProviderConfig) Defaults() engine.Defaults {
	return engine.Defaults{Database: c.Database, Schema: c.Schema}
}
