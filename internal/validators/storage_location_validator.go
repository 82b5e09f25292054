package validators

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
)

// StorageLocationSchemes are the URL schemes accepted for external stage locations
var StorageLocationSchemes = []string{"s3://", "s3gov://", "gcs://", "azure://"}

// storageLocationValidator validates external storage URLs used by stages and storage integrations
type storageLocationValidator struct {
	allowWildcard bool
}

// Description returns a plain text description of the validator's behavior
func (v storageLocationValidator) Description(ctx context.Context) string {
	return "Value must be a storage URL starting with " + strings.Join(StorageLocationSchemes, ", ")
}

// MarkdownDescription returns a markdown formatted description of the validator's behavior
func (v storageLocationValidator) MarkdownDescription(ctx context.Context) string {
	return "Value must be a storage URL starting with `" + strings.Join(StorageLocationSchemes, "`, `") + "`"
}

// ValidateString validates the storage location
func (v storageLocationValidator) ValidateString(ctx context.Context, req validator.StringRequest, resp *validator.StringResponse) {
	// Skip validation if value is unknown or null (during plan phase)
	if req.ConfigValue.IsUnknown() || req.ConfigValue.IsNull() {
		return
	}

	value := req.ConfigValue.ValueString()

	// '*' allows every location of the integration's provider
	if v.allowWildcard && value == "*" {
		return
	}

	for _, scheme := range StorageLocationSchemes {
		if strings.HasPrefix(strings.ToLower(value), scheme) && len(value) > len(scheme) {
			return
		}
	}

	resp.Diagnostics.AddAttributeError(
		req.Path,
		"Invalid Storage Location",
		fmt.Sprintf("Value %q is not a valid storage location. Must start with one of: %s",
			value, strings.Join(StorageLocationSchemes, ", ")),
	)
}

// StorageLocation returns a validator for a single external stage URL
func StorageLocation() validator.String {
	return storageLocationValidator{}
}

// AllowedStorageLocation returns a validator for storage integration location lists, which also accept '*'
func AllowedStorageLocation() validator.String {
	return storageLocationValidator{allowWildcard: true}
}
