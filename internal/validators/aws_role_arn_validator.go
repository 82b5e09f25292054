package validators

import (
	"context"
	"fmt"
	"regexp"

	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
)

// awsRoleARNValidator validates the IAM role ARN of S3 storage integrations
type awsRoleARNValidator struct{}

// arn:<partition>:iam::<12-digit account>:role/<path and name>
var awsRoleARNPattern = regexp.MustCompile(`^arn:aws(-[a-z]+)*:iam::[0-9]{12}:role/[\w+=,.@/-]+$`)

// Description returns a plain text description of the validator's behavior
func (v awsRoleARNValidator) Description(ctx context.Context) string {
	return "Value must be an IAM role ARN (e.g., 'arn:aws:iam::123456789012:role/snowflake-access')"
}

// MarkdownDescription returns a markdown formatted description of the validator's behavior
func (v awsRoleARNValidator) MarkdownDescription(ctx context.Context) string {
	return "Value must be an IAM role ARN (e.g., `arn:aws:iam::123456789012:role/snowflake-access`)"
}

// ValidateString validates the role ARN
func (v awsRoleARNValidator) ValidateString(ctx context.Context, req validator.StringRequest, resp *validator.StringResponse) {
	// Skip validation if value is unknown or null (during plan phase)
	if req.ConfigValue.IsUnknown() || req.ConfigValue.IsNull() {
		return
	}

	value := req.ConfigValue.ValueString()

	if !awsRoleARNPattern.MatchString(value) {
		resp.Diagnostics.AddAttributeError(
			req.Path,
			"Invalid IAM Role ARN",
			fmt.Sprintf("Value %q is not a valid IAM role ARN. Expected format: 'arn:aws:iam::<account-id>:role/<name>'.", value),
		)
	}
}

// AWSRoleARN returns a validator that ensures the value is an IAM role ARN
func AWSRoleARN() validator.String {
	return awsRoleARNValidator{}
}
