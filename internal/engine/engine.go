package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/aaearon/terraform-provider-snowsql/internal/attribute"
	"github.com/aaearon/terraform-provider-snowsql/internal/client"
	"github.com/aaearon/terraform-provider-snowsql/internal/validators"
)

// Config describes one managed object type. It is not modified after New.
type Config struct {
	// ObjectType is the SQL object type keyword, e.g. "FILE FORMAT"
	ObjectType string
	// Attributes are rendered in declaration order
	Attributes  []attribute.Descriptor
	Connections client.ConnectionProvider
	Defaults    Defaults

	// Qualifier defaults to Unqualified
	Qualifier NameQualifier
	// Outputs defaults to IdentityOutputs
	Outputs OutputShaper
	// Suffix defaults to RandomID
	Suffix SuffixGenerator
}

// CreateResult is the identity and outputs of a created object
type CreateResult struct {
	ID      string
	Outputs map[string]any
}

// DiffResult reports which fields force a replacement
type DiffResult struct {
	Changed             bool
	ReplacementFields   []string
	DeleteBeforeReplace bool
}

// Engine creates, diffs and deletes objects of one type from attribute descriptors
type Engine struct {
	cfg Config
}

// New validates cfg and returns an Engine
func New(cfg Config) (*Engine, error) {
	if _, err := validators.ValidateObjectName(cfg.ObjectType); err != nil {
		return nil, err
	}
	if cfg.Connections == nil {
		return nil, fmt.Errorf("%s: connection provider is required", cfg.ObjectType)
	}

	seen := make(map[string]bool, len(cfg.Attributes))
	for _, a := range cfg.Attributes {
		switch a.Name() {
		case NameField, ResourceNameField, DatabaseField, SchemaField, FullNameField, ProviderLinkageField:
			return nil, fmt.Errorf("%s: attribute name %q is reserved", cfg.ObjectType, a.Name())
		}
		if seen[a.Name()] {
			return nil, fmt.Errorf("%s: duplicate attribute %q", cfg.ObjectType, a.Name())
		}
		seen[a.Name()] = true

		if _, err := validators.ValidateIdentifier(a.SQLName()); err != nil {
			return nil, fmt.Errorf("%s: attribute %q: %w", cfg.ObjectType, a.Name(), err)
		}
	}

	applyStrategyDefaults(&cfg.Qualifier, &cfg.Outputs, &cfg.Suffix)
	return &Engine{cfg: cfg}, nil
}

func applyStrategyDefaults(q *NameQualifier, o *OutputShaper, s *SuffixGenerator) {
	if *q == nil {
		*q = Unqualified
	}
	if *o == nil {
		*o = IdentityOutputs
	}
	if *s == nil {
		*s = RandomID
	}
}

// ObjectType returns the SQL object type keyword
func (e *Engine) ObjectType() string {
	return e.cfg.ObjectType
}

// Attributes returns the declared descriptors
func (e *Engine) Attributes() []attribute.Descriptor {
	return e.cfg.Attributes
}

// Create renders and executes CREATE <type> <name> followed by one fragment per
// attribute with a non-nil input. All validation happens before a connection is acquired.
func (e *Engine) Create(ctx context.Context, inputs map[string]any) (*CreateResult, error) {
	tflog.Info(ctx, "Creating warehouse object", map[string]interface{}{
		"object_type": e.cfg.ObjectType,
	})

	for _, a := range e.cfg.Attributes {
		if a.Required() && inputs[a.Name()] == nil {
			return nil, &validators.ValidationError{
				Field:  a.Name(),
				Reason: fmt.Sprintf("required input attribute '%s' is not present", a.Name()),
			}
		}
	}

	d, err := ParseDescription(inputs)
	if err != nil {
		return nil, err
	}
	name, err := IdentityName(d, e.cfg.Suffix)
	if err != nil {
		return nil, err
	}
	q, err := e.cfg.Qualifier(name, d, e.cfg.Defaults)
	if err != nil {
		return nil, err
	}

	stmt, err := e.createStatement(q.FullName, d)
	if err != nil {
		return nil, err
	}
	if err := execute(ctx, e.cfg.Connections, []Statement{stmt}); err != nil {
		tflog.Error(ctx, "Failed to create warehouse object", map[string]interface{}{
			"object_type": e.cfg.ObjectType,
			"name":        name,
			"error":       err.Error(),
		})
		return nil, err
	}

	outs := map[string]any{NameField: name}
	for _, a := range e.cfg.Attributes {
		outs[a.Name()] = d.Value(a.Name())
	}

	tflog.Info(ctx, "Created warehouse object", map[string]interface{}{
		"object_type": e.cfg.ObjectType,
		"name":        name,
		"full_name":   q.FullName,
	})

	return &CreateResult{ID: name, Outputs: e.cfg.Outputs(name, q, outs)}, nil
}

func (e *Engine) createStatement(fullName string, d *ResourceDescription) (Statement, error) {
	lines := []string{"CREATE " + e.cfg.ObjectType + " " + fullName}
	var bindings []any

	for _, a := range e.cfg.Attributes {
		value := d.Value(a.Name())
		if value == nil {
			continue
		}
		fragment, err := a.Render(value)
		if err != nil {
			return Statement{}, err
		}
		lines = append(lines, fragment)
		bindings = append(bindings, a.Bindings(value)...)
	}

	return Statement{Text: strings.Join(lines, "\n"), Bindings: bindings}, nil
}

// Diff reports every changed field as requiring replacement
func (e *Engine) Diff(ctx context.Context, id string, olds, news map[string]any) DiffResult {
	result := ComputeDiff(olds, news)
	tflog.Debug(ctx, "Diffed warehouse object", map[string]interface{}{
		"object_type": e.cfg.ObjectType,
		"id":          id,
		"changed":     result.Changed,
		"replaces":    result.ReplacementFields,
	})
	return result
}

// ComputeDiff compares olds and news structurally. The name, resource_name and
// provider linkage keys are skipped, except that a new non-nil name that differs
// from the old one is always a change. Replacement is always delete-before-create.
func ComputeDiff(olds, news map[string]any) DiffResult {
	keys := make(map[string]struct{}, len(olds)+len(news))
	for k := range olds {
		keys[k] = struct{}{}
	}
	for k := range news {
		keys[k] = struct{}{}
	}

	changed := []string{}
	for k := range keys {
		switch k {
		case NameField, ResourceNameField, ProviderLinkageField:
			continue
		}
		if !cmp.Equal(olds[k], news[k]) {
			changed = append(changed, k)
		}
	}
	sort.Strings(changed)

	if news[NameField] != nil && !cmp.Equal(olds[NameField], news[NameField]) {
		changed = append(changed, NameField)
	}

	return DiffResult{
		Changed:             len(changed) > 0,
		ReplacementFields:   changed,
		DeleteBeforeReplace: true,
	}
}

// Delete executes DROP <type> <name>, qualified from props the same way as at create
func (e *Engine) Delete(ctx context.Context, id string, props map[string]any) error {
	tflog.Info(ctx, "Deleting warehouse object", map[string]interface{}{
		"object_type": e.cfg.ObjectType,
		"id":          id,
	})

	name, err := validators.ValidateIdentifier(id)
	if err != nil {
		return err
	}
	d, err := ParseDescription(props)
	if err != nil {
		return err
	}
	q, err := e.cfg.Qualifier(name, d, e.cfg.Defaults)
	if err != nil {
		return err
	}

	stmt := Statement{Text: "DROP " + e.cfg.ObjectType + " " + q.FullName}
	if err := execute(ctx, e.cfg.Connections, []Statement{stmt}); err != nil {
		return err
	}

	tflog.Info(ctx, "Deleted warehouse object", map[string]interface{}{
		"object_type": e.cfg.ObjectType,
		"full_name":   q.FullName,
	})
	return nil
}
