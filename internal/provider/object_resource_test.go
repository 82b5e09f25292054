package provider

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema"
	"github.com/hashicorp/terraform-plugin-framework/tfsdk"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-go/tftypes"
	"github.com/snowflakedb/gosnowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaearon/terraform-provider-snowsql/internal/engine"
)

func getString(t *testing.T, src attributeGetter, name string) types.String {
	t.Helper()
	var v types.String
	diags := src.GetAttribute(context.Background(), path.Root(name), &v)
	require.False(t, diags.HasError(), "get %s: %v", name, diags)
	return v
}

func TestObjectDefinitions_Catalogue(t *testing.T) {
	seen := map[string]bool{}
	for _, def := range objectDefinitions {
		t.Run(def.typeName, func(t *testing.T) {
			assert.False(t, seen[def.typeName], "duplicate type name")
			seen[def.typeName] = true

			e, err := def.newEngine(&ProviderData{Connections: &recorder{}})
			require.NoError(t, err)
			require.NotNil(t, e)

			s := def.schema()
			for _, name := range []string{idField, engine.NameField, engine.ResourceNameField, fullNameField} {
				assert.Contains(t, s.Attributes, name)
			}
			for _, a := range def.attributes {
				assert.Contains(t, s.Attributes, a.Name())
			}
		})
	}
}

func TestObjectDefinition_Schema(t *testing.T) {
	user := userDefinition.schema()
	assert.True(t, user.Attributes["password"].IsSensitive())
	assert.False(t, user.Attributes["email"].IsSensitive())
	assert.NotContains(t, user.Attributes, engine.DatabaseField)

	integration := storageIntegrationDefinition.schema()
	assert.True(t, integration.Attributes["storage_provider"].IsRequired())
	assert.True(t, integration.Attributes["storage_allowed_locations"].IsRequired())
	assert.True(t, integration.Attributes["enabled"].IsRequired())
	assert.IsType(t, schema.ListAttribute{}, integration.Attributes["storage_allowed_locations"])
	assert.IsType(t, schema.BoolAttribute{}, integration.Attributes["enabled"])

	fileFormat := fileFormatDefinition.schema()
	assert.True(t, fileFormat.Attributes[engine.DatabaseField].IsOptional())
	assert.True(t, fileFormat.Attributes[engine.SchemaField].IsComputed())
	assert.IsType(t, schema.Int64Attribute{}, fileFormat.Attributes["skip_header"])

	stage := stageDefinition.schema()
	assert.IsType(t, schema.MapAttribute{}, stage.Attributes["copy_options"])
	for _, name := range []string{"copy_options", "file_format"} {
		assert.Contains(t, stage.Attributes[name].GetDescription(), "quoted strings", name)
	}

	sch := schemaDefinition.schema()
	assert.True(t, sch.Attributes[engine.DatabaseField].IsRequired())
	assert.NotContains(t, sch.Attributes, engine.SchemaField)
}

func TestObjectResource_CreateFileFormat(t *testing.T) {
	ctx := context.Background()
	r := &recorder{}
	res := configuredResource(t, fileFormatDefinition, r, engine.Defaults{Schema: "PUBLIC"})
	s := fileFormatDefinition.schema()

	req := resource.CreateRequest{Plan: planOf(s, map[string]tftypes.Value{
		idField:              tfUnknown(),
		fullNameField:        tfUnknown(),
		engine.NameField:     tfString("CSV_FF"),
		engine.DatabaseField: tfString("DB1"),
		engine.SchemaField:   tfUnknown(),
		"type":               tfString("csv"),
		"skip_header":        tfNumber(1),
		"trim_space":         tfBool(true),
		"null_if":            tfStringList("", "NULL"),
		"comment":            tfString("it's pipe separated"),
	})}
	resp := &resource.CreateResponse{State: tfsdk.State{Schema: s, Raw: nullObject(s)}}

	res.Create(ctx, req, resp)
	require.False(t, resp.Diagnostics.HasError(), "%v", resp.Diagnostics)

	require.Len(t, r.executed, 1)
	assert.Equal(t, strings.Join([]string{
		"CREATE FILE FORMAT DB1.PUBLIC.CSV_FF",
		"TYPE = CSV",
		"SKIP_HEADER = 1",
		"TRIM_SPACE = TRUE",
		"NULL_IF = ('', 'NULL')",
		"COMMENT = ?",
	}, "\n"), r.executed[0].text)
	assert.Equal(t, []any{"it's pipe separated"}, r.executed[0].bindings)

	assert.Equal(t, "CSV_FF", getString(t, resp.State, idField).ValueString())
	assert.Equal(t, "DB1.PUBLIC.CSV_FF", getString(t, resp.State, fullNameField).ValueString())
	assert.Equal(t, "PUBLIC", getString(t, resp.State, engine.SchemaField).ValueString())
	assert.True(t, getString(t, resp.State, "field_delimiter").IsNull())

	var skipHeader types.Int64
	resp.State.GetAttribute(ctx, path.Root("skip_header"), &skipHeader)
	assert.Equal(t, int64(1), skipHeader.ValueInt64())
}

func TestObjectResource_CreateUserWithGeneratedName(t *testing.T) {
	r := &recorder{}
	res := configuredResource(t, userDefinition, r, engine.Defaults{})
	s := userDefinition.schema()

	req := resource.CreateRequest{Plan: planOf(s, map[string]tftypes.Value{
		idField:                  tfUnknown(),
		fullNameField:            tfUnknown(),
		engine.NameField:         tfUnknown(),
		engine.ResourceNameField: tfString("etl"),
		"password":               tfString("s3cret'"),
		"default_role":           tfString("LOADER"),
	})}
	resp := &resource.CreateResponse{State: tfsdk.State{Schema: s, Raw: nullObject(s)}}

	res.Create(context.Background(), req, resp)
	require.False(t, resp.Diagnostics.HasError(), "%v", resp.Diagnostics)

	name := getString(t, resp.State, engine.NameField).ValueString()
	assert.Regexp(t, regexp.MustCompile(`^etl_[a-f0-9]{7}$`), name)
	assert.Equal(t, name, getString(t, resp.State, fullNameField).ValueString())
	assert.Equal(t, "etl", getString(t, resp.State, engine.ResourceNameField).ValueString())

	require.Len(t, r.executed, 1)
	assert.Equal(t, "CREATE USER "+name+"\nPASSWORD = ?\nDEFAULT_ROLE = LOADER", r.executed[0].text)
	assert.NotContains(t, r.executed[0].text, "s3cret")
	assert.Equal(t, []any{"s3cret'"}, r.executed[0].bindings)
}

func TestObjectResource_CreateSchemaFromTemplate(t *testing.T) {
	r := &recorder{}
	res := configuredResource(t, schemaDefinition, r, engine.Defaults{})
	s := schemaDefinition.schema()

	req := resource.CreateRequest{Plan: planOf(s, map[string]tftypes.Value{
		idField:                       tfUnknown(),
		fullNameField:                 tfUnknown(),
		engine.NameField:              tfString("RAW"),
		engine.DatabaseField:          tfString("ANALYTICS"),
		"managed_access":              tfBool(true),
		"data_retention_time_in_days": tfNumber(0),
	})}
	resp := &resource.CreateResponse{State: tfsdk.State{Schema: s, Raw: nullObject(s)}}

	res.Create(context.Background(), req, resp)
	require.False(t, resp.Diagnostics.HasError(), "%v", resp.Diagnostics)

	assert.Equal(t, []string{
		"CREATE SCHEMA ANALYTICS.RAW\nWITH MANAGED ACCESS\nDATA_RETENTION_TIME_IN_DAYS = 0",
	}, r.statements())
	assert.Equal(t, "ANALYTICS.RAW", getString(t, resp.State, fullNameField).ValueString())
}

func TestObjectResource_CreateFailure(t *testing.T) {
	r := &recorder{executeErr: errors.New("SQL compilation error: Object 'CSV_FF' already exists.")}
	res := configuredResource(t, fileFormatDefinition, r, engine.Defaults{})
	s := fileFormatDefinition.schema()

	req := resource.CreateRequest{Plan: planOf(s, map[string]tftypes.Value{
		idField:          tfUnknown(),
		fullNameField:    tfUnknown(),
		engine.NameField: tfString("CSV_FF"),
	})}
	resp := &resource.CreateResponse{State: tfsdk.State{Schema: s, Raw: nullObject(s)}}

	res.Create(context.Background(), req, resp)
	require.True(t, resp.Diagnostics.HasError())
	assert.Equal(t, "Object Already Exists - create file format", resp.Diagnostics.Errors()[0].Summary())
	assert.True(t, resp.State.Raw.IsNull())
}

func TestObjectResource_Unconfigured(t *testing.T) {
	res := &objectResource{definition: fileFormatDefinition}
	s := fileFormatDefinition.schema()

	resp := &resource.CreateResponse{State: tfsdk.State{Schema: s, Raw: nullObject(s)}}
	res.Create(context.Background(), resource.CreateRequest{Plan: planOf(s, nil)}, resp)
	require.True(t, resp.Diagnostics.HasError())
	assert.Equal(t, "Unconfigured Warehouse Connection", resp.Diagnostics.Errors()[0].Summary())

	configResp := &resource.ConfigureResponse{}
	res.Configure(context.Background(), resource.ConfigureRequest{ProviderData: "not provider data"}, configResp)
	assert.True(t, configResp.Diagnostics.HasError())
}

func TestObjectResource_Delete(t *testing.T) {
	s := fileFormatDefinition.schema()
	state := stateOf(s, map[string]tftypes.Value{
		idField:              tfString("CSV_FF"),
		fullNameField:        tfString("DB1.PUBLIC.CSV_FF"),
		engine.NameField:     tfString("CSV_FF"),
		engine.DatabaseField: tfString("DB1"),
		engine.SchemaField:   tfString("PUBLIC"),
	})

	tests := []struct {
		name       string
		getErr     error
		executeErr error
		wantError  bool
	}{
		{name: "dropped"},
		{
			name:       "already gone",
			executeErr: errors.New("SQL compilation error: File format 'DB1.PUBLIC.CSV_FF' does not exist or not authorized."),
			wantError:  true,
		},
		{
			name:       "insufficient privileges",
			executeErr: errors.New("SQL access control error: Insufficient privileges to operate on file format 'CSV_FF'"),
			wantError:  true,
		},
		{
			name: "session never opened",
			getErr: fmt.Errorf("failed to connect to warehouse: %w", &gosnowflake.SnowflakeError{
				Number:  390189,
				Message: "Role 'ADMIN' specified in the connect string does not exist or not authorized.",
			}),
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{getErr: tt.getErr, executeErr: tt.executeErr}
			res := configuredResource(t, fileFormatDefinition, r, engine.Defaults{})

			resp := &resource.DeleteResponse{State: state}
			res.Delete(context.Background(), resource.DeleteRequest{State: state}, resp)

			assert.Equal(t, tt.wantError, resp.Diagnostics.HasError(), "%v", resp.Diagnostics)
			assert.Equal(t, 1, r.gets)
			if tt.wantError {
				assert.Empty(t, r.executed)
				assert.Contains(t, resp.Diagnostics.Errors()[0].Summary(), "delete file format")
				return
			}
			assert.Equal(t, []string{"DROP FILE FORMAT DB1.PUBLIC.CSV_FF"}, r.statements())
		})
	}
}

func TestObjectResource_ModifyPlan(t *testing.T) {
	s := fileFormatDefinition.schema()
	prior := map[string]tftypes.Value{
		idField:              tfString("CSV_FF"),
		fullNameField:        tfString("DB1.PUBLIC.CSV_FF"),
		engine.NameField:     tfString("CSV_FF"),
		engine.DatabaseField: tfString("DB1"),
		engine.SchemaField:   tfString("PUBLIC"),
		"type":               tfString("CSV"),
		"skip_header":        tfNumber(1),
	}
	configured := map[string]tftypes.Value{
		engine.NameField:     tfString("CSV_FF"),
		engine.DatabaseField: tfString("DB1"),
		"type":               tfString("CSV"),
	}

	with := func(base map[string]tftypes.Value, key string, v tftypes.Value) map[string]tftypes.Value {
		out := make(map[string]tftypes.Value, len(base)+1)
		for k, val := range base {
			out[k] = val
		}
		out[key] = v
		return out
	}

	t.Run("unchanged", func(t *testing.T) {
		res := configuredResource(t, fileFormatDefinition, &recorder{}, engine.Defaults{})
		plan := planOf(s, prior)
		resp := &resource.ModifyPlanResponse{Plan: plan}
		res.ModifyPlan(context.Background(), resource.ModifyPlanRequest{
			Config: configOf(s, with(configured, "skip_header", tfNumber(1))),
			State:  stateOf(s, prior),
			Plan:   plan,
		}, resp)

		require.False(t, resp.Diagnostics.HasError(), "%v", resp.Diagnostics)
		assert.Empty(t, resp.RequiresReplace)
		assert.Equal(t, "DB1.PUBLIC.CSV_FF", getString(t, resp.Plan, fullNameField).ValueString())
	})

	t.Run("attribute change forces replacement", func(t *testing.T) {
		r := &recorder{}
		res := configuredResource(t, fileFormatDefinition, r, engine.Defaults{})
		plan := planOf(s, with(prior, "skip_header", tfNumber(2)))
		resp := &resource.ModifyPlanResponse{Plan: plan}
		res.ModifyPlan(context.Background(), resource.ModifyPlanRequest{
			Config: configOf(s, with(configured, "skip_header", tfNumber(2))),
			State:  stateOf(s, prior),
			Plan:   plan,
		}, resp)

		require.False(t, resp.Diagnostics.HasError(), "%v", resp.Diagnostics)
		assert.Equal(t, []path.Path{path.Root("skip_header")}, []path.Path(resp.RequiresReplace))
		assert.True(t, getString(t, resp.Plan, idField).IsUnknown())
		assert.True(t, getString(t, resp.Plan, fullNameField).IsUnknown())
		assert.True(t, getString(t, resp.Plan, engine.SchemaField).IsUnknown())
		assert.Equal(t, "DB1", getString(t, resp.Plan, engine.DatabaseField).ValueString())
		assert.Equal(t, "CSV_FF", getString(t, resp.Plan, engine.NameField).ValueString())
		assert.Empty(t, r.executed, "planning must not execute statements")
	})

	t.Run("resource_name alone does not replace", func(t *testing.T) {
		res := configuredResource(t, fileFormatDefinition, &recorder{}, engine.Defaults{})
		plan := planOf(s, with(prior, engine.ResourceNameField, tfString("csv")))
		resp := &resource.ModifyPlanResponse{Plan: plan}
		res.ModifyPlan(context.Background(), resource.ModifyPlanRequest{
			Config: configOf(s, with(configured, engine.ResourceNameField, tfString("csv"))),
			State:  stateOf(s, prior),
			Plan:   plan,
		}, resp)

		assert.Empty(t, resp.RequiresReplace)
	})

	t.Run("create is not diffed", func(t *testing.T) {
		res := configuredResource(t, fileFormatDefinition, &recorder{}, engine.Defaults{})
		plan := planOf(s, prior)
		resp := &resource.ModifyPlanResponse{Plan: plan}
		res.ModifyPlan(context.Background(), resource.ModifyPlanRequest{
			Config: configOf(s, configured),
			State:  tfsdk.State{Schema: s, Raw: nullObject(s)},
			Plan:   plan,
		}, resp)

		assert.Empty(t, resp.RequiresReplace)
		assert.False(t, resp.Diagnostics.HasError())
	})
}

func TestObjectResource_ImportState(t *testing.T) {
	tests := []struct {
		name         string
		definition   objectDefinition
		id           string
		wantError    bool
		wantFullName string
		wantDatabase string
		wantSchema   string
	}{
		{name: "schema object fully qualified", definition: fileFormatDefinition, id: "DB1.PUBLIC.CSV_FF", wantFullName: "DB1.PUBLIC.CSV_FF", wantDatabase: "DB1", wantSchema: "PUBLIC"},
		{name: "schema object default schema", definition: fileFormatDefinition, id: "DB1..CSV_FF", wantFullName: "DB1..CSV_FF", wantDatabase: "DB1"},
		{name: "schema object bare name", definition: stageDefinition, id: "LANDING", wantFullName: "LANDING"},
		{name: "schema object two parts", definition: fileFormatDefinition, id: "DB1.CSV_FF", wantError: true},
		{name: "database object", definition: schemaDefinition, id: "ANALYTICS.RAW", wantFullName: "ANALYTICS.RAW", wantDatabase: "ANALYTICS"},
		{name: "database object bare name", definition: schemaDefinition, id: "RAW", wantError: true},
		{name: "account object", definition: warehouseDefinition, id: "LOAD_WH", wantFullName: "LOAD_WH"},
		{name: "account object qualified", definition: warehouseDefinition, id: "DB1.LOAD_WH", wantError: true},
		{name: "invalid identifier", definition: userDefinition, id: "bad name", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := &objectResource{definition: tt.definition}
			s := tt.definition.schema()
			resp := &resource.ImportStateResponse{State: tfsdk.State{Schema: s, Raw: objectValue(s, nil)}}

			res.ImportState(context.Background(), resource.ImportStateRequest{ID: tt.id}, resp)

			if tt.wantError {
				assert.True(t, resp.Diagnostics.HasError())
				return
			}
			require.False(t, resp.Diagnostics.HasError(), "%v", resp.Diagnostics)

			assert.Equal(t, tt.wantFullName, getString(t, resp.State, fullNameField).ValueString())
			assert.Equal(t, getString(t, resp.State, engine.NameField), getString(t, resp.State, idField))
			if _, ok := s.Attributes[engine.DatabaseField]; ok {
				assert.Equal(t, tt.wantDatabase, getString(t, resp.State, engine.DatabaseField).ValueString())
			}
			if _, ok := s.Attributes[engine.SchemaField]; ok {
				assert.Equal(t, tt.wantSchema, getString(t, resp.State, engine.SchemaField).ValueString())
			}
		})
	}
}
