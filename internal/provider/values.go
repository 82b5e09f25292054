package provider

import (
	"context"
	"fmt"

	"github.com/hashicorp/terraform-plugin-framework/attr"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/types"

	"github.com/aaearon/terraform-provider-snowsql/internal/attribute"
)

// unknownValue stands in for a plan value that is not known until apply.
// It never compares equal to a known value.
type unknownValue struct{}

// field is one top-level schema attribute read into or written from an input map
type field struct {
	name string
	kind attribute.ValueType
}

// attributeGetter is satisfied by tfsdk.Config, tfsdk.Plan and tfsdk.State
type attributeGetter interface {
	GetAttribute(ctx context.Context, p path.Path, target interface{}) diag.Diagnostics
}

// attributeSetter is satisfied by tfsdk.Plan and tfsdk.State
type attributeSetter interface {
	attributeGetter
	SetAttribute(ctx context.Context, p path.Path, val interface{}) diag.Diagnostics
}

// readValue returns the framework value stored for f
func readValue(ctx context.Context, src attributeGetter, f field) (attr.Value, diag.Diagnostics) {
	p := path.Root(f.name)

	switch f.kind {
	case attribute.TypeNumber:
		var v types.Int64
		diags := src.GetAttribute(ctx, p, &v)
		return v, diags
	case attribute.TypeBool:
		var v types.Bool
		diags := src.GetAttribute(ctx, p, &v)
		return v, diags
	case attribute.TypeMap:
		var v types.Map
		diags := src.GetAttribute(ctx, p, &v)
		return v, diags
	case attribute.TypeList:
		var v types.List
		diags := src.GetAttribute(ctx, p, &v)
		return v, diags
	default:
		var v types.String
		diags := src.GetAttribute(ctx, p, &v)
		return v, diags
	}
}

// readInputs converts the fields of src into an engine input map. Null values become nil;
// unknown values become unknownValue when keepUnknown is set, else nil.
func readInputs(ctx context.Context, src attributeGetter, fields []field, keepUnknown bool) (map[string]any, diag.Diagnostics) {
	var diags diag.Diagnostics
	inputs := make(map[string]any, len(fields))

	for _, f := range fields {
		value, d := readValue(ctx, src, f)
		diags.Append(d...)
		if diags.HasError() {
			return nil, diags
		}

		goValue, err := toGo(value)
		if err != nil {
			diags.AddAttributeError(path.Root(f.name), "Unsupported Attribute Value", err.Error())
			return nil, diags
		}
		if _, unknown := goValue.(unknownValue); unknown && !keepUnknown {
			goValue = nil
		}
		inputs[f.name] = goValue
	}

	return inputs, diags
}

// toGo converts a framework value into string, int64, bool, map[string]any, []any or nil
func toGo(value attr.Value) (any, error) {
	if value == nil || value.IsNull() {
		return nil, nil
	}
	if value.IsUnknown() {
		return unknownValue{}, nil
	}

	switch v := value.(type) {
	case types.String:
		return v.ValueString(), nil
	case types.Bool:
		return v.ValueBool(), nil
	case types.Int64:
		return v.ValueInt64(), nil
	case types.Map:
		out := make(map[string]any, len(v.Elements()))
		for key, elem := range v.Elements() {
			converted, err := toGo(elem)
			if err != nil {
				return nil, fmt.Errorf("map key %q: %w", key, err)
			}
			out[key] = converted
		}
		return out, nil
	case types.List:
		out := make([]any, 0, len(v.Elements()))
		for i, elem := range v.Elements() {
			converted, err := toGo(elem)
			if err != nil {
				return nil, fmt.Errorf("list element %d: %w", i, err)
			}
			out = append(out, converted)
		}
		return out, nil
	}

	return nil, fmt.Errorf("unsupported value type %T", value)
}

// toTerraform converts an engine value back into the framework value for kind
func toTerraform(kind attribute.ValueType, value any) (attr.Value, diag.Diagnostics) {
	var diags diag.Diagnostics

	switch kind {
	case attribute.TypeNumber:
		switch n := value.(type) {
		case nil:
			return types.Int64Null(), nil
		case int64:
			return types.Int64Value(n), nil
		case int:
			return types.Int64Value(int64(n)), nil
		}

	case attribute.TypeBool:
		switch b := value.(type) {
		case nil:
			return types.BoolNull(), nil
		case bool:
			return types.BoolValue(b), nil
		}

	case attribute.TypeMap:
		switch m := value.(type) {
		case nil:
			return types.MapNull(types.StringType), nil
		case map[string]any:
			elems := make(map[string]attr.Value, len(m))
			for k, v := range m {
				s, ok := v.(string)
				if !ok {
					diags.AddError("Unsupported Map Value", fmt.Sprintf("map key %q: expected string, got %T", k, v))
					return types.MapNull(types.StringType), diags
				}
				elems[k] = types.StringValue(s)
			}
			return types.MapValue(types.StringType, elems)
		}

	case attribute.TypeList:
		switch l := value.(type) {
		case nil:
			return types.ListNull(types.StringType), nil
		case []any:
			elems := make([]attr.Value, 0, len(l))
			for i, v := range l {
				s, ok := v.(string)
				if !ok {
					diags.AddError("Unsupported List Value", fmt.Sprintf("list element %d: expected string, got %T", i, v))
					return types.ListNull(types.StringType), diags
				}
				elems = append(elems, types.StringValue(s))
			}
			return types.ListValue(types.StringType, elems)
		}

	default:
		switch s := value.(type) {
		case nil:
			return types.StringNull(), nil
		case string:
			return types.StringValue(s), nil
		}
	}

	diags.AddError("Unsupported Output Value", fmt.Sprintf("cannot store %T as a %s attribute", value, kind))
	return nil, diags
}

// writeOutputs stores every output named by fields into dst. A field without an
// output whose current value is unknown is set to null.
func writeOutputs(ctx context.Context, dst attributeSetter, fields []field, outputs map[string]any) diag.Diagnostics {
	var diags diag.Diagnostics

	for _, f := range fields {
		value, ok := outputs[f.name]
		if !ok {
			current, d := readValue(ctx, dst, f)
			diags.Append(d...)
			if diags.HasError() {
				return diags
			}
			if !current.IsUnknown() {
				continue
			}
		}

		tfValue, d := toTerraform(f.kind, value)
		diags.Append(d...)
		if diags.HasError() {
			return diags
		}
		diags.Append(dst.SetAttribute(ctx, path.Root(f.name), tfValue)...)
	}

	return diags
}

// carryUnknowns replaces unknown values in dst with the values recorded in prior
func carryUnknowns(ctx context.Context, dst attributeSetter, prior attributeGetter, fields []field) diag.Diagnostics {
	var diags diag.Diagnostics

	for _, f := range fields {
		current, d := readValue(ctx, dst, f)
		diags.Append(d...)
		if diags.HasError() {
			return diags
		}
		if !current.IsUnknown() {
			continue
		}

		previous, d := readValue(ctx, prior, f)
		diags.Append(d...)
		if diags.HasError() {
			return diags
		}
		diags.Append(dst.SetAttribute(ctx, path.Root(f.name), previous)...)
	}

	return diags
}
