package validators

import (
	"context"
	"fmt"
	"regexp"

	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-log/tflog"
)

var _ validator.String = tenantIDValidator{}

// tenantIDValidator validates Azure tenant IDs used by storage integrations
type tenantIDValidator struct{}

// 8-4-4-4-12 hex digits, case-insensitive
var tenantIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// Description returns a plain text description of the validator's behavior
func (v tenantIDValidator) Description(ctx context.Context) string {
	return "Value must be an Azure tenant ID in UUID format (e.g., 'a123b4c5-1234-123a-a12b-1a23b45678c9')"
}

// MarkdownDescription returns a markdown formatted description of the validator's behavior
func (v tenantIDValidator) MarkdownDescription(ctx context.Context) string {
	return "Value must be an Azure tenant ID in UUID format (e.g., `a123b4c5-1234-123a-a12b-1a23b45678c9`)"
}

// ValidateString validates the tenant ID format
func (v tenantIDValidator) ValidateString(ctx context.Context, req validator.StringRequest, resp *validator.StringResponse) {
	if req.ConfigValue.IsUnknown() || req.ConfigValue.IsNull() {
		return
	}

	value := req.ConfigValue.ValueString()

	if !tenantIDPattern.MatchString(value) {
		tflog.Warn(ctx, "Tenant ID validation failed", map[string]interface{}{
			"path": req.Path.String(),
		})
		resp.Diagnostics.AddAttributeError(
			req.Path,
			"Invalid Tenant ID",
			fmt.Sprintf("Value %q is not a valid Azure tenant ID. Expected 8-4-4-4-12 hexadecimal digits as shown "+
				"in the Azure portal under Microsoft Entra ID > Overview.", value),
		)
	}
}

// TenantID returns a validator that ensures the string is a UUID-formatted Azure tenant ID
func TenantID() validator.String {
	return tenantIDValidator{}
}
