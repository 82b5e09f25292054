package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/snowflakedb/gosnowflake"
)

// Application identifies this provider in the warehouse's query history
const Application = "terraform-provider-snowsql"

// SnowflakeConfig holds the session settings used for every connection
type SnowflakeConfig struct {
	Account   string // Account identifier (e.g., "myorg-myaccount" or "xy12345.eu-west-1")
	Username  string
	Password  string
	Role      string // Optional - user's default role applies when empty
	Warehouse string // Optional
	Host      string // Optional - derived from Account when empty
}

// DriverConfig converts the settings into the driver's configuration
func (c *SnowflakeConfig) DriverConfig() (*gosnowflake.Config, error) {
	if c == nil {
		return nil, fmt.Errorf("snowflake config cannot be nil")
	}
	if c.Account == "" {
		return nil, fmt.Errorf("account is required")
	}
	if c.Username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if c.Password == "" {
		return nil, fmt.Errorf("password is required")
	}

	return &gosnowflake.Config{
		Account:     c.Account,
		User:        c.Username,
		Password:    c.Password,
		Role:        c.Role,
		Warehouse:   c.Warehouse,
		Host:        c.Host,
		Application: Application,
	}, nil
}

// NewSnowflakeConnectionProvider creates a ConnectionProvider that opens one Snowflake
// session per lifecycle call
func NewSnowflakeConnectionProvider(cfg *SnowflakeConfig) (*SQLConnectionProvider, error) {
	driverCfg, err := cfg.DriverConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid snowflake configuration: %w", err)
	}

	return NewSQLConnectionProviderFunc(func(ctx context.Context) (*sql.DB, error) {
		connector := gosnowflake.NewConnector(gosnowflake.SnowflakeDriver{}, *driverCfg)
		return sql.OpenDB(connector), nil
	}), nil
}
