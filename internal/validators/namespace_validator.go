package validators

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
)

// namespaceValidator validates that a namespace is "DATABASE" or "DATABASE.SCHEMA"
type namespaceValidator struct{}

// Description returns a plain text description of the validator's behavior
func (v namespaceValidator) Description(ctx context.Context) string {
	return "Value must be 'DATABASE' or 'DATABASE.SCHEMA'"
}

// MarkdownDescription returns a markdown formatted description of the validator's behavior
func (v namespaceValidator) MarkdownDescription(ctx context.Context) string {
	return "Value must be `DATABASE` or `DATABASE.SCHEMA`"
}

// ValidateString validates the namespace value
func (v namespaceValidator) ValidateString(ctx context.Context, req validator.StringRequest, resp *validator.StringResponse) {
	// Skip validation if value is unknown or null (during plan phase)
	if req.ConfigValue.IsUnknown() || req.ConfigValue.IsNull() {
		return
	}

	value := req.ConfigValue.ValueString()
	parts := strings.Split(value, ".")

	if len(parts) > 2 {
		resp.Diagnostics.AddAttributeError(
			req.Path,
			"Invalid Namespace",
			fmt.Sprintf("Value %q is not valid. Must be 'DATABASE' or 'DATABASE.SCHEMA'.", value),
		)
		return
	}

	for _, part := range parts {
		if _, err := ValidateIdentifier(part); err != nil {
			resp.Diagnostics.AddAttributeError(
				req.Path,
				"Invalid Namespace",
				fmt.Sprintf("Value %q is not valid: %s", value, err.Error()),
			)
			return
		}
	}
}

// Namespace returns a validator that ensures the value names a database or a database schema
func Namespace() validator.String {
	return namespaceValidator{}
}
