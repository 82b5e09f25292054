// Package engine turns declarative resource descriptions into warehouse DDL and executes it.
//
// Two engine shapes share naming, validation and statement execution: Engine renders
// CREATE statements from attribute descriptors, TemplateEngine delegates statement
// generation to a StatementGenerator.
package engine

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/aaearon/terraform-provider-snowsql/internal/validators"
)

// Reserved input keys
const (
	NameField            = "name"
	ResourceNameField    = "resource_name"
	DatabaseField        = "database"
	SchemaField          = "schema"
	FullNameField        = "full_name"
	ProviderLinkageField = "__provider"
)

// NameSuffixLength is the number of random characters appended to a resource_name
const NameSuffixLength = 7

var reservedFields = []string{NameField, ResourceNameField, DatabaseField, SchemaField}

// ResourceDescription is the typed view of one call's inputs
type ResourceDescription struct {
	Name         string `mapstructure:"name"`
	ResourceName string `mapstructure:"resource_name"`
	Database     string `mapstructure:"database"`
	Schema       string `mapstructure:"schema"`

	// Inputs holds every raw input value, reserved keys included
	Inputs map[string]any `mapstructure:"-"`
}

// ParseDescription decodes the reserved keys of inputs. A reserved key holding a
// non-string value is a ValidationError.
func ParseDescription(inputs map[string]any) (*ResourceDescription, error) {
	if inputs == nil {
		inputs = map[string]any{}
	}

	reserved := make(map[string]any, len(reservedFields))
	for _, key := range reservedFields {
		if v := inputs[key]; v != nil {
			reserved[key] = v
		}
	}

	d := &ResourceDescription{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  d,
		TagName: "mapstructure",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(reserved); err != nil {
		return nil, &validators.ValidationError{Reason: fmt.Sprintf("invalid resource inputs: %v", err)}
	}

	d.Inputs = inputs
	return d, nil
}

// HasName reports whether an explicit name was supplied
func (d *ResourceDescription) HasName() bool {
	return d.Inputs[NameField] != nil
}

// HasResourceName reports whether a resource_name was supplied
func (d *ResourceDescription) HasResourceName() bool {
	return d.Inputs[ResourceNameField] != nil
}

// Value returns the raw input for key, or nil when absent
func (d *ResourceDescription) Value(key string) any {
	return d.Inputs[key]
}

func (d *ResourceDescription) checkIdentity() error {
	if !d.HasName() && !d.HasResourceName() {
		return &validators.ValidationError{Reason: "at least one of 'name' or 'resource_name' must be provided"}
	}
	return nil
}
