package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/terraform-plugin-framework-validators/resourcevalidator"
	"github.com/hashicorp/terraform-plugin-framework/attr"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/aaearon/terraform-provider-snowsql/internal/client"
	"github.com/aaearon/terraform-provider-snowsql/internal/engine"
	"github.com/aaearon/terraform-provider-snowsql/internal/provider/helpers"
)

// Ensure provider defined types fully satisfy framework interfaces
var (
	_ resource.Resource                     = &objectResource{}
	_ resource.ResourceWithConfigure        = &objectResource{}
	_ resource.ResourceWithImportState      = &objectResource{}
	_ resource.ResourceWithModifyPlan       = &objectResource{}
	_ resource.ResourceWithConfigValidators = &objectResource{}
)

// newObjectResource returns a resource constructor for def
func newObjectResource(def objectDefinition) func() resource.Resource {
	return func() resource.Resource {
		return &objectResource{definition: def}
	}
}

// objectResource manages one warehouse object type through an engine. Every change
// the engine reports forces replacement; there is no in-place update.
type objectResource struct {
	definition objectDefinition
	engine     lifecycleEngine
}

// Metadata returns the resource type name
func (r *objectResource) Metadata(ctx context.Context, req resource.MetadataRequest, resp *resource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_" + r.definition.typeName
}

// Schema defines the schema for the resource
func (r *objectResource) Schema(ctx context.Context, req resource.SchemaRequest, resp *resource.SchemaResponse) {
	resp.Schema = r.definition.schema()
}

// ConfigValidators requires one of name or resource_name
func (r *objectResource) ConfigValidators(ctx context.Context) []resource.ConfigValidator {
	return []resource.ConfigValidator{
		resourcevalidator.AtLeastOneOf(
			path.MatchRoot(engine.NameField),
			path.MatchRoot(engine.ResourceNameField),
		),
	}
}

// Configure builds the engine from the provider configured connection
func (r *objectResource) Configure(ctx context.Context, req resource.ConfigureRequest, resp *resource.ConfigureResponse) {
	// Prevent panic if the provider has not been configured
	if req.ProviderData == nil {
		return
	}

	providerData, ok := req.ProviderData.(*ProviderData)
	if !ok {
		resp.Diagnostics.AddError(
			"Unexpected Resource Configure Type",
			fmt.Sprintf("Expected *ProviderData, got: %T. Please report this issue to the provider developers.", req.ProviderData),
		)
		return
	}

	e, err := r.definition.newEngine(providerData)
	if err != nil {
		resp.Diagnostics.AddError(
			"Invalid Resource Definition",
			fmt.Sprintf("Unable to build the %s engine: %s. Please report this issue to the provider developers.",
				r.definition.label(), err.Error()),
		)
		return
	}
	r.engine = e
}

func (r *objectResource) checkConfigured(add func(summary, detail string)) bool {
	if r.engine == nil {
		add(
			"Unconfigured Warehouse Connection",
			"Expected a configured provider. Please report this issue to the provider developers.",
		)
		return false
	}
	return true
}

// Create creates the object and records the engine outputs in state
func (r *objectResource) Create(ctx context.Context, req resource.CreateRequest, resp *resource.CreateResponse) {
	if !r.checkConfigured(resp.Diagnostics.AddError) {
		return
	}

	inputs, diags := readInputs(ctx, req.Plan, r.definition.inputFields(), false)
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}

	LogOperationStart(ctx, "create", r.definition.typeName)
	LogInputs(ctx, inputs, r.definition.attributes)

	result, err := r.engine.Create(ctx, inputs)
	if err != nil {
		LogOperationError(ctx, "create", r.definition.typeName, err)
		resp.Diagnostics.Append(client.MapError(err, "create "+r.definition.label()))
		return
	}

	outputs := result.Outputs
	outputs[idField] = result.ID

	resp.State.Raw = req.Plan.Raw.Copy()
	resp.Diagnostics.Append(writeOutputs(ctx, &resp.State, r.definition.stateFields(), outputs)...)

	LogOperationSuccess(ctx, "create", r.definition.typeName, result.ID)
}

// Read keeps the recorded state. Objects are not queried back from the warehouse.
func (r *objectResource) Read(ctx context.Context, req resource.ReadRequest, resp *resource.ReadResponse) {
	var id types.String
	resp.Diagnostics.Append(req.State.GetAttribute(ctx, path.Root(idField), &id)...)

	tflog.Debug(ctx, "Keeping recorded state", map[string]interface{}{
		"resource_type": r.definition.typeName,
		"resource_id":   id.ValueString(),
	})
}

// Update is reached only for changes that do not force replacement, such as resource_name
func (r *objectResource) Update(ctx context.Context, req resource.UpdateRequest, resp *resource.UpdateResponse) {
	resp.State.Raw = req.Plan.Raw.Copy()
	resp.Diagnostics.Append(carryUnknowns(ctx, &resp.State, req.State, r.definition.stateFields())...)

	var id types.String
	resp.Diagnostics.Append(req.State.GetAttribute(ctx, path.Root(idField), &id)...)
	LogOperationSuccess(ctx, "update", r.definition.typeName, id.ValueString())
}

// Delete drops the object. Every failure, including a missing object, is reported.
func (r *objectResource) Delete(ctx context.Context, req resource.DeleteRequest, resp *resource.DeleteResponse) {
	if !r.checkConfigured(resp.Diagnostics.AddError) {
		return
	}

	props, diags := readInputs(ctx, req.State, r.definition.inputFields(), false)
	resp.Diagnostics.Append(diags...)

	var id types.String
	resp.Diagnostics.Append(req.State.GetAttribute(ctx, path.Root(idField), &id)...)
	if resp.Diagnostics.HasError() {
		return
	}

	LogOperationStart(ctx, "delete", r.definition.typeName)

	if err := r.engine.Delete(ctx, id.ValueString(), props); err != nil {
		LogOperationError(ctx, "delete", r.definition.typeName, err)
		resp.Diagnostics.Append(client.MapError(err, "delete "+r.definition.label()))
		return
	}

	LogOperationSuccess(ctx, "delete", r.definition.typeName, id.ValueString())
}

// ModifyPlan runs the engine diff and marks every changed field as requiring replacement
func (r *objectResource) ModifyPlan(ctx context.Context, req resource.ModifyPlanRequest, resp *resource.ModifyPlanResponse) {
	// Nothing to compare on create or destroy
	if req.State.Raw.IsNull() || req.Plan.Raw.IsNull() || r.engine == nil {
		return
	}

	fields := r.definition.inputFields()
	olds, diags := readInputs(ctx, req.State, fields, true)
	resp.Diagnostics.Append(diags...)
	news, diags := readInputs(ctx, req.Plan, fields, true)
	resp.Diagnostics.Append(diags...)

	var id types.String
	resp.Diagnostics.Append(req.State.GetAttribute(ctx, path.Root(idField), &id)...)
	if resp.Diagnostics.HasError() {
		return
	}

	result := r.engine.Diff(ctx, id.ValueString(), olds, news)
	if !result.Changed {
		return
	}

	for _, name := range result.ReplacementFields {
		resp.RequiresReplace = append(resp.RequiresReplace, path.Root(name))
	}

	// The replacement derives these again
	resp.Diagnostics.Append(resp.Plan.SetAttribute(ctx, path.Root(idField), types.StringUnknown())...)
	resp.Diagnostics.Append(resp.Plan.SetAttribute(ctx, path.Root(fullNameField), types.StringUnknown())...)
	for _, name := range r.definition.recomputed() {
		var configured types.String
		resp.Diagnostics.Append(req.Config.GetAttribute(ctx, path.Root(name), &configured)...)
		if configured.IsNull() {
			resp.Diagnostics.Append(resp.Plan.SetAttribute(ctx, path.Root(name), types.StringUnknown())...)
		}
	}

	tflog.Info(ctx, "Planned replacement", map[string]interface{}{
		"resource_type": r.definition.typeName,
		"resource_id":   id.ValueString(),
		"replaces":      result.ReplacementFields,
	})
}

// ImportState accepts NAME, DB.NAME, DB..NAME or DB.SCHEMA.NAME depending on where the object lives
func (r *objectResource) ImportState(ctx context.Context, req resource.ImportStateRequest, resp *resource.ImportStateResponse) {
	id, err := helpers.ParseQualifiedID(req.ID)
	if err != nil {
		resp.Diagnostics.AddError("Invalid Import ID", err.Error())
		return
	}

	fullName, err := r.importFullName(id, req.ID)
	if err != nil {
		resp.Diagnostics.AddError("Invalid Import ID", err.Error())
		return
	}

	values := map[string]attr.Value{
		idField:          types.StringValue(id.Name),
		engine.NameField: types.StringValue(id.Name),
		fullNameField:    types.StringValue(fullName),
	}
	switch r.definition.scope {
	case schemaScope:
		values[engine.DatabaseField] = stringOrNull(id.Database)
		values[engine.SchemaField] = stringOrNull(id.Schema)
	case databaseScope:
		values[engine.DatabaseField] = types.StringValue(id.Database)
	}

	for name, value := range values {
		resp.Diagnostics.Append(resp.State.SetAttribute(ctx, path.Root(name), value)...)
	}

	tflog.Info(ctx, "Imported warehouse object", map[string]interface{}{
		"resource_type": r.definition.typeName,
		"full_name":     fullName,
	})
}

func (r *objectResource) importFullName(id helpers.QualifiedID, raw string) (string, error) {
	switch r.definition.scope {
	case schemaScope:
		if id.Database != "" && id.Schema == "" && !hasDefaultSchemaMarker(raw) {
			return "", fmt.Errorf("expected NAME, DB..NAME or DB.SCHEMA.NAME for a %s, got '%s'", r.definition.label(), raw)
		}
		return engine.ResolveQualifiedName(id.Name, id.Database, id.Schema)
	case databaseScope:
		if id.Database == "" || id.Schema != "" || hasDefaultSchemaMarker(raw) {
			return "", fmt.Errorf("expected DB.NAME for a %s, got '%s'", r.definition.label(), raw)
		}
		return id.Database + "." + id.Name, nil
	default:
		if id.Database != "" {
			return "", fmt.Errorf("expected NAME for a %s, got '%s'", r.definition.label(), raw)
		}
		return id.Name, nil
	}
}

func hasDefaultSchemaMarker(raw string) bool {
	return strings.Contains(raw, "..")
}

func stringOrNull(s string) types.String {
	if s == "" {
		return types.StringNull()
	}
	return types.StringValue(s)
}
