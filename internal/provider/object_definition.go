package provider

import (
	"context"
	"strings"

	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/planmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/stringplanmodifier"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"

	"github.com/aaearon/terraform-provider-snowsql/internal/attribute"
	"github.com/aaearon/terraform-provider-snowsql/internal/engine"
	"github.com/aaearon/terraform-provider-snowsql/internal/validators"
)

// Computed attribute names
const (
	idField       = "id"
	fullNameField = engine.FullNameField
)

// scope is where objects of a type live in the warehouse
type scope int

const (
	accountScope scope = iota
	schemaScope
	databaseScope
)

func (s scope) strategies() (engine.NameQualifier, engine.OutputShaper) {
	switch s {
	case schemaScope:
		return engine.SchemaQualified, engine.QualifiedOutputs
	case databaseScope:
		return engine.DatabaseQualified, engine.QualifiedOutputs
	default:
		return engine.Unqualified, engine.AccountOutputs
	}
}

// objectDefinition declares one managed object type. Attributes drive the schema for both
// engine shapes; they are rendered into SQL only when no generator is set.
type objectDefinition struct {
	typeName    string
	objectType  string
	description string
	scope       scope
	attributes  []attribute.Descriptor
	generator   engine.StatementGenerator
	// validators adds string validators per attribute name
	validators map[string][]validator.String
	// listValidators adds list validators per attribute name
	listValidators map[string][]validator.List
}

// lifecycleEngine is implemented by engine.Engine and engine.TemplateEngine
type lifecycleEngine interface {
	Create(ctx context.Context, inputs map[string]any) (*engine.CreateResult, error)
	Diff(ctx context.Context, id string, olds, news map[string]any) engine.DiffResult
	Delete(ctx context.Context, id string, props map[string]any) error
}

func (d objectDefinition) newEngine(data *ProviderData) (lifecycleEngine, error) {
	qualifier, outputs := d.scope.strategies()

	if d.generator != nil {
		e, err := engine.NewTemplateEngine(engine.TemplateConfig{
			ObjectType:  d.objectType,
			Generator:   d.generator,
			Connections: data.Connections,
			Defaults:    data.Defaults,
			Qualifier:   qualifier,
			Outputs:     outputs,
		})
		if err != nil {
			return nil, err
		}
		return e, nil
	}

	e, err := engine.New(engine.Config{
		ObjectType:  d.objectType,
		Attributes:  d.attributes,
		Connections: data.Connections,
		Defaults:    data.Defaults,
		Qualifier:   qualifier,
		Outputs:     outputs,
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// inputFields are the configurable attributes passed to the engine
func (d objectDefinition) inputFields() []field {
	fields := []field{
		{name: engine.NameField, kind: attribute.TypeString},
		{name: engine.ResourceNameField, kind: attribute.TypeString},
	}
	switch d.scope {
	case schemaScope:
		fields = append(fields,
			field{name: engine.DatabaseField, kind: attribute.TypeString},
			field{name: engine.SchemaField, kind: attribute.TypeString},
		)
	case databaseScope:
		fields = append(fields, field{name: engine.DatabaseField, kind: attribute.TypeString})
	}
	for _, a := range d.attributes {
		fields = append(fields, field{name: a.Name(), kind: a.ValueType()})
	}
	return fields
}

// stateFields are every attribute of the resource schema
func (d objectDefinition) stateFields() []field {
	return append([]field{
		{name: idField, kind: attribute.TypeString},
		{name: fullNameField, kind: attribute.TypeString},
	}, d.inputFields()...)
}

// recomputed are the attributes the engine derives when they are not configured
func (d objectDefinition) recomputed() []string {
	names := []string{engine.NameField}
	if d.scope == schemaScope {
		names = append(names, engine.DatabaseField, engine.SchemaField)
	}
	return names
}

func (d objectDefinition) schema() schema.Schema {
	useState := []planmodifier.String{stringplanmodifier.UseStateForUnknown()}

	attrs := map[string]schema.Attribute{
		idField: schema.StringAttribute{
			Description:   "Identity name of the " + d.label() + ".",
			Computed:      true,
			PlanModifiers: useState,
		},
		engine.NameField: schema.StringAttribute{
			Description: "Name of the " + d.label() + ". When omitted a name is generated " +
				"from resource_name and a random suffix. Changing it forces replacement.",
			Optional:      true,
			Computed:      true,
			Validators:    []validator.String{validators.Identifier()},
			PlanModifiers: useState,
		},
		engine.ResourceNameField: schema.StringAttribute{
			Description: "Prefix for a generated name, used when name is not set.",
			Optional:    true,
			Validators:  []validator.String{validators.Identifier()},
		},
		fullNameField: schema.StringAttribute{
			Description:   "Name used in DDL statements, qualified by database and schema where they apply.",
			Computed:      true,
			PlanModifiers: useState,
		},
	}

	switch d.scope {
	case schemaScope:
		attrs[engine.DatabaseField] = schema.StringAttribute{
			Description: "Database containing the " + d.label() + ". Defaults to the provider's database " +
				"when schema is set.",
			Optional:      true,
			Computed:      true,
			Validators:    []validator.String{validators.Identifier()},
			PlanModifiers: useState,
		}
		attrs[engine.SchemaField] = schema.StringAttribute{
			Description: "Schema containing the " + d.label() + ". Defaults to the provider's schema " +
				"when database is set.",
			Optional:      true,
			Computed:      true,
			Validators:    []validator.String{validators.Identifier()},
			PlanModifiers: useState,
		}
	case databaseScope:
		attrs[engine.DatabaseField] = schema.StringAttribute{
			Description: "Database containing the " + d.label() + ".",
			Required:    true,
			Validators:  []validator.String{validators.Identifier()},
		}
	}

	for _, a := range d.attributes {
		attrs[a.Name()] = d.attributeSchema(a)
	}

	return schema.Schema{
		Description: d.description,
		Attributes:  attrs,
	}
}

func (d objectDefinition) attributeSchema(a attribute.Descriptor) schema.Attribute {
	required := a.Required()

	switch a.ValueType() {
	case attribute.TypeNumber:
		return schema.Int64Attribute{
			Description: a.Description(),
			Required:    required,
			Optional:    !required,
			Sensitive:   a.Sensitive(),
		}
	case attribute.TypeBool:
		return schema.BoolAttribute{
			Description: a.Description(),
			Required:    required,
			Optional:    !required,
			Sensitive:   a.Sensitive(),
		}
	case attribute.TypeMap:
		return schema.MapAttribute{
			Description: a.Description(),
			ElementType: types.StringType,
			Required:    required,
			Optional:    !required,
			Sensitive:   a.Sensitive(),
		}
	case attribute.TypeList:
		return schema.ListAttribute{
			Description: a.Description(),
			ElementType: types.StringType,
			Required:    required,
			Optional:    !required,
			Sensitive:   a.Sensitive(),
			Validators:  d.listValidators[a.Name()],
		}
	}

	var vs []validator.String
	switch k := a.(type) {
	case attribute.KeywordAttribute:
		if len(k.Allowed) > 0 {
			vs = append(vs, stringvalidator.OneOfCaseInsensitive(k.Allowed...))
		}
	case attribute.IdentifierAttribute:
		vs = append(vs, validators.Identifier())
	}
	vs = append(vs, d.validators[a.Name()]...)

	return schema.StringAttribute{
		Description: a.Description(),
		Required:    required,
		Optional:    !required,
		Sensitive:   a.Sensitive(),
		Validators:  vs,
	}
}

// label is the human readable object type, e.g. "file format"
func (d objectDefinition) label() string {
	return strings.ToLower(d.objectType)
}
