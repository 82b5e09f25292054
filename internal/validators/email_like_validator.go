package validators

import (
	"context"
	"fmt"
	"regexp"

	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
)

// emailLikeValidator validates the EMAIL property of warehouse users
type emailLikeValidator struct{}

// local-part@domain with at least one dot in the domain. The value is rendered as a quoted
// string literal, so this only catches obvious mistakes.
var emailLikePattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Description returns a plain text description of the validator's behavior
func (v emailLikeValidator) Description(ctx context.Context) string {
	return "Value must be in email format (e.g., 'jane.doe@example.com')"
}

// MarkdownDescription returns a markdown formatted description of the validator's behavior
func (v emailLikeValidator) MarkdownDescription(ctx context.Context) string {
	return "Value must be in email format (e.g., `jane.doe@example.com`)"
}

// ValidateString validates the email-like format
func (v emailLikeValidator) ValidateString(ctx context.Context, req validator.StringRequest, resp *validator.StringResponse) {
	if req.ConfigValue.IsUnknown() || req.ConfigValue.IsNull() {
		return
	}

	value := req.ConfigValue.ValueString()

	if !emailLikePattern.MatchString(value) {
		resp.Diagnostics.AddAttributeError(
			req.Path,
			"Invalid Email Format",
			fmt.Sprintf("Value %q is not a valid email address for the user's EMAIL property. "+
				"Expected format: 'local-part@domain.tld'.", value),
		)
	}
}

// EmailLike returns a validator that ensures the string is in email format
func EmailLike() validator.String {
	return emailLikeValidator{}
}
