// Package validators provides identifier validation and custom validators for Terraform resources
package validators

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-log/tflog"
)

// MaxIdentifierLength matches the warehouse's limit for unquoted identifiers
const MaxIdentifierLength = 255

var (
	identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	numericPattern    = regexp.MustCompile(`^[0-9]+$`)
)

// ValidationError reports a value rejected before any SQL is generated
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// IsValidationError returns true if err wraps a *ValidationError
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// ValidateIdentifier returns s unchanged when it is safe to interpolate into SQL text as an
// unquoted identifier. This is the only injection defense for identifiers.
func ValidateIdentifier(s string) (string, error) {
	switch {
	case s == "":
		return "", &ValidationError{Field: "identifier", Reason: "must not be empty"}
	case len(s) > MaxIdentifierLength:
		return "", &ValidationError{
			Field:  "identifier",
			Value:  s,
			Reason: fmt.Sprintf("must be at most %d characters", MaxIdentifierLength),
		}
	case !identifierPattern.MatchString(s):
		return "", &ValidationError{
			Field:  "identifier",
			Value:  s,
			Reason: "may only contain letters, digits and underscores",
		}
	case numericPattern.MatchString(s):
		return "", &ValidationError{Field: "identifier", Value: s, Reason: "must not be purely numeric"}
	}
	return s, nil
}

var _ validator.String = identifierValidator{}

// identifierValidator validates Terraform string attributes with ValidateIdentifier
type identifierValidator struct{}

// Description returns a plain text description of the validator's behavior
func (v identifierValidator) Description(ctx context.Context) string {
	return fmt.Sprintf("value must be an unquoted identifier: letters, digits and underscores, not purely numeric, at most %d characters", MaxIdentifierLength)
}

// MarkdownDescription returns a markdown formatted description of the validator's behavior
func (v identifierValidator) MarkdownDescription(ctx context.Context) string {
	return fmt.Sprintf("value must be an unquoted identifier (`[A-Za-z0-9_]`, not purely numeric, at most %d characters)", MaxIdentifierLength)
}

// ValidateString performs the validation
func (v identifierValidator) ValidateString(ctx context.Context, req validator.StringRequest, resp *validator.StringResponse) {
	if req.ConfigValue.IsUnknown() || req.ConfigValue.IsNull() {
		return
	}

	value := req.ConfigValue.ValueString()

	tflog.Trace(ctx, "Validating identifier", map[string]interface{}{
		"path": req.Path.String(),
	})

	if _, err := ValidateIdentifier(value); err != nil {
		resp.Diagnostics.AddAttributeError(
			req.Path,
			"Invalid Identifier",
			fmt.Sprintf("Value %q cannot be used as an identifier: %s", value, err.Error()),
		)
	}
}

// Identifier returns a validator that ensures the string is a safe unquoted identifier
func Identifier() validator.String {
	return identifierValidator{}
}
