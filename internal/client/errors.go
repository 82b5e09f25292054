package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/snowflakedb/gosnowflake"

	"github.com/aaearon/terraform-provider-snowsql/internal/validators"
)

// ErrorCategory represents the classification of an error
type ErrorCategory int

const (
	ErrorCategoryAuth ErrorCategory = iota
	ErrorCategoryPermission
	ErrorCategoryNotFound
	ErrorCategoryConflict
	ErrorCategoryValidation
	ErrorCategoryNetwork
	ErrorCategoryTimeout
	ErrorCategoryServer
	ErrorCategoryUnknown
)

// Snowflake error numbers used for classification
const (
	sfErrSyntax               = 1003
	sfErrAlreadyExists        = 2002
	sfErrDoesNotExist         = 2003
	sfErrInsufficientPrivs    = 3001
	sfErrIncorrectCredentials = 390100
	sfErrUserLocked           = 390102
	sfErrSessionExpired       = 390112
)

// String returns a string representation of the error category
func (ec ErrorCategory) String() string {
	switch ec {
	case ErrorCategoryAuth:
		return "authentication"
	case ErrorCategoryPermission:
		return "permission"
	case ErrorCategoryNotFound:
		return "not_found"
	case ErrorCategoryConflict:
		return "conflict"
	case ErrorCategoryValidation:
		return "validation"
	case ErrorCategoryNetwork:
		return "network"
	case ErrorCategoryTimeout:
		return "timeout"
	case ErrorCategoryServer:
		return "server"
	default:
		return "unknown"
	}
}

// ClassifyError determines the error category. Structured driver errors are checked first,
// then standard Go error types, then message patterns.
func ClassifyError(err error) ErrorCategory {
	if err == nil {
		return ErrorCategoryUnknown
	}

	if validators.IsValidationError(err) {
		return ErrorCategoryValidation
	}

	var sfErr *gosnowflake.SnowflakeError
	if errors.As(err, &sfErr) {
		switch sfErr.Number {
		case sfErrSyntax:
			return ErrorCategoryValidation
		case sfErrAlreadyExists:
			return ErrorCategoryConflict
		case sfErrDoesNotExist:
			return ErrorCategoryNotFound
		case sfErrInsufficientPrivs:
			return ErrorCategoryPermission
		case sfErrIncorrectCredentials, sfErrUserLocked, sfErrSessionExpired:
			return ErrorCategoryAuth
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorCategoryTimeout
	}
	if errors.Is(err, context.Canceled) {
		return ErrorCategoryNetwork
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrorCategoryTimeout
		}
		return ErrorCategoryNetwork
	}

	errorMsg := strings.ToLower(err.Error())

	// Ordered by specificity. "does not exist or not authorized" must be checked
	// before the generic permission patterns.
	if strings.Contains(errorMsg, "incorrect username or password") ||
		strings.Contains(errorMsg, "authentication failed") ||
		strings.Contains(errorMsg, "user temporarily locked") ||
		strings.Contains(errorMsg, "session no longer exists") {
		return ErrorCategoryAuth
	}

	if strings.Contains(errorMsg, "does not exist") ||
		strings.Contains(errorMsg, "not found") {
		return ErrorCategoryNotFound
	}

	if strings.Contains(errorMsg, "insufficient privileges") ||
		strings.Contains(errorMsg, "access denied") ||
		strings.Contains(errorMsg, "not authorized") {
		return ErrorCategoryPermission
	}

	if strings.Contains(errorMsg, "already exists") {
		return ErrorCategoryConflict
	}

	if strings.Contains(errorMsg, "syntax error") ||
		strings.Contains(errorMsg, "invalid identifier") ||
		strings.Contains(errorMsg, "invalid value") ||
		strings.Contains(errorMsg, "invalid property") {
		return ErrorCategoryValidation
	}

	if strings.Contains(errorMsg, "service unavailable") ||
		strings.Contains(errorMsg, "internal error") ||
		strings.Contains(errorMsg, "503") ||
		strings.Contains(errorMsg, "500") {
		return ErrorCategoryServer
	}

	if strings.Contains(errorMsg, "connection refused") ||
		strings.Contains(errorMsg, "timed out") ||
		strings.Contains(errorMsg, "timeout") ||
		strings.Contains(errorMsg, "no such host") ||
		strings.Contains(errorMsg, "connection reset") {
		return ErrorCategoryNetwork
	}

	return ErrorCategoryUnknown
}

// MapError converts engine and warehouse errors to Terraform diagnostics with actionable guidance
func MapError(err error, operation string) diag.Diagnostic {
	if err == nil {
		return diag.NewErrorDiagnostic("", "")
	}

	errorMsg := err.Error()

	switch ClassifyError(err) {
	case ErrorCategoryAuth:
		return diag.NewErrorDiagnostic(
			fmt.Sprintf("Authentication Failed - %s", operation),
			fmt.Sprintf("The warehouse rejected the provider credentials.\n\n"+
				"Error: %s\n\n"+
				"Recommended actions:\n"+
				"1. Verify account, username and password in provider configuration\n"+
				"2. Check the SNOWFLAKE_* environment variables if the provider block omits them\n"+
				"3. Ensure the user is not locked or disabled", errorMsg),
		)

	case ErrorCategoryPermission:
		return diag.NewErrorDiagnostic(
			fmt.Sprintf("Insufficient Privileges - %s", operation),
			fmt.Sprintf("The provider's role lacks the privileges for this statement.\n\n"+
				"Error: %s\n\n"+
				"Recommended action:\n"+
				"Set the provider's role to one owning the target database/schema, or grant the CREATE privilege for this object type", errorMsg),
		)

	case ErrorCategoryNotFound:
		return diag.NewErrorDiagnostic(
			fmt.Sprintf("Object Not Found - %s", operation),
			fmt.Sprintf("The warehouse could not find the object or a referenced object.\n\n"+
				"Error: %s\n\n"+
				"This may occur if:\n"+
				"- The database or schema does not exist\n"+
				"- The object was dropped outside Terraform\n"+
				"- The provider's role cannot see the object", errorMsg),
		)

	case ErrorCategoryConflict:
		return diag.NewErrorDiagnostic(
			fmt.Sprintf("Object Already Exists - %s", operation),
			fmt.Sprintf("An object with this name already exists.\n\n"+
				"Error: %s\n\n"+
				"Use 'terraform import' to manage the existing object, or choose a different name", errorMsg),
		)

	case ErrorCategoryValidation:
		return diag.NewErrorDiagnostic(
			fmt.Sprintf("Invalid Resource Configuration - %s", operation),
			fmt.Sprintf("The resource configuration was rejected.\n\n"+
				"Error: %s\n\n"+
				"Check identifiers use only letters, digits and underscores and that option values are valid for this object type", errorMsg),
		)

	case ErrorCategoryNetwork:
		return diag.NewErrorDiagnostic(
			fmt.Sprintf("Network Error - %s", operation),
			fmt.Sprintf("Unable to reach the warehouse.\n\n"+
				"Error: %s\n\n"+
				"Recommended actions:\n"+
				"1. Check network connectivity\n"+
				"2. Verify the account identifier and host\n"+
				"3. Check firewall and network policy rules", errorMsg),
		)

	case ErrorCategoryTimeout:
		return diag.NewErrorDiagnostic(
			fmt.Sprintf("Request Timeout - %s", operation),
			fmt.Sprintf("The statement did not complete in time.\n\n"+
				"Error: %s\n\n"+
				"Verify the warehouse is running and reachable", errorMsg),
		)

	case ErrorCategoryServer:
		return diag.NewErrorDiagnostic(
			fmt.Sprintf("Warehouse Service Error - %s", operation),
			fmt.Sprintf("The warehouse service encountered an internal error.\n\n"+
				"Error: %s\n\n"+
				"This is typically transient. Re-run the operation; if it persists, contact your warehouse support.", errorMsg),
		)

	default:
		return diag.NewErrorDiagnostic(
			fmt.Sprintf("Warehouse Error - %s", operation),
			fmt.Sprintf("An error occurred while executing SQL against the warehouse.\n\n"+
				"Error: %s\n\n"+
				"If this error persists, please report it with the full error message above.", errorMsg),
		)
	}
}
