package provider

import (
	"github.com/aaearon/terraform-provider-snowsql/internal/config"
)

// TestEnvVars documents the environment variables required for acceptance tests
// These variables must be set when running acceptance tests (TF_ACC=1)
const (
	// TF_ACC must be set to "1" to enable acceptance tests
	EnvTFAcc = "TF_ACC"

	// SNOWFLAKE_ACCOUNT is the account identifier
	// Example: myorg-myaccount
	EnvAccount = config.EnvPrefix + "ACCOUNT"

	// SNOWFLAKE_USERNAME is the login name of a user able to create databases
	EnvUsername = config.EnvPrefix + "USERNAME"

	// SNOWFLAKE_PASSWORD is the password for SNOWFLAKE_USERNAME
	EnvPassword = config.EnvPrefix + "PASSWORD"
)

// TestAccPreCheckVars lists the required environment variables for acceptance tests
var TestAccPreCheckVars = []string{
	EnvAccount,
	EnvUsername,
	EnvPassword,
}
