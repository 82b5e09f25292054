package provider

import (
	"context"

	"github.com/hashicorp/terraform-plugin-log/tflog"
	"golang.org/x/exp/slices"

	"github.com/aaearon/terraform-provider-snowsql/internal/attribute"
	"github.com/aaearon/terraform-provider-snowsql/internal/config"
)

// SensitiveFields are fields that should NEVER be logged
var SensitiveFields = []string{
	"password",
	"private_key",
	"token",
	"secret",
}

// LogProviderConfig logs provider configuration (masking sensitive data)
func LogProviderConfig(ctx context.Context, cfg *config.ProviderConfig) {
	tflog.Debug(ctx, "Provider configuration loaded", map[string]interface{}{
		"account":   cfg.Account,
		"role":      cfg.Role,
		"warehouse": cfg.Warehouse,
		"host":      cfg.Host,
		"database":  cfg.Database,
		"schema":    cfg.Schema,
		// NEVER log: username, password
	})
}

// LogInputs logs which inputs are set for an operation. Values of sensitive
// attributes are replaced by a marker.
func LogInputs(ctx context.Context, inputs map[string]any, descriptors []attribute.Descriptor) {
	sensitive := sensitiveAttributes(descriptors)

	fields := make(map[string]interface{}, len(inputs))
	for name, value := range inputs {
		if value == nil {
			continue
		}
		if slices.Contains(SensitiveFields, name) || slices.Contains(sensitive, name) {
			fields[name] = "(sensitive)"
			continue
		}
		fields[name] = value
	}

	tflog.Trace(ctx, "Resolved inputs", fields)
}

// LogOperationStart logs the start of a lifecycle operation
func LogOperationStart(ctx context.Context, operation string, resourceType string) {
	tflog.Debug(ctx, "Starting operation", map[string]interface{}{
		"operation":     operation,
		"resource_type": resourceType,
	})
}

// LogOperationSuccess logs successful completion of a lifecycle operation
func LogOperationSuccess(ctx context.Context, operation string, resourceType string, resourceID string) {
	tflog.Info(ctx, "Operation completed successfully", map[string]interface{}{
		"operation":     operation,
		"resource_type": resourceType,
		"resource_id":   resourceID,
	})
}

// LogOperationError logs operation failure
func LogOperationError(ctx context.Context, operation string, resourceType string, err error) {
	tflog.Error(ctx, "Operation failed", map[string]interface{}{
		"operation":     operation,
		"resource_type": resourceType,
		"error":         err.Error(),
	})
}

// sensitiveAttributes returns the names of attributes whose values must not be logged
func sensitiveAttributes(descriptors []attribute.Descriptor) []string {
	var names []string
	for _, d := range descriptors {
		if d.Sensitive() {
			names = append(names, d.Name())
		}
	}
	return names
}
