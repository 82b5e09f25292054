package provider

import (
	"context"
	"math/big"
	"testing"

	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema"
	"github.com/hashicorp/terraform-plugin-framework/tfsdk"
	"github.com/hashicorp/terraform-plugin-go/tftypes"
	"github.com/stretchr/testify/require"

	"github.com/aaearon/terraform-provider-snowsql/internal/client"
	"github.com/aaearon/terraform-provider-snowsql/internal/engine"
)

type executed struct {
	text     string
	bindings []any
}

// recorder is a ConnectionProvider that records statements instead of sending them
type recorder struct {
	executed   []executed
	gets       int
	getErr     error
	executeErr error
}

func (r *recorder) Get(ctx context.Context) (client.Connection, error) {
	r.gets++
	if r.getErr != nil {
		return nil, r.getErr
	}
	return &recordingConnection{r: r}, nil
}

func (r *recorder) statements() []string {
	texts := make([]string, 0, len(r.executed))
	for _, e := range r.executed {
		texts = append(texts, e.text)
	}
	return texts
}

type recordingConnection struct {
	r *recorder
}

func (c *recordingConnection) Cursor() client.Cursor { return &recordingCursor{r: c.r} }
func (c *recordingConnection) Close() error          { return nil }

type recordingCursor struct {
	r *recorder
}

func (c *recordingCursor) Execute(ctx context.Context, statement string, bindings ...any) error {
	if c.r.executeErr != nil {
		return &client.ExecutionError{Statement: statement, Err: c.r.executeErr}
	}
	c.r.executed = append(c.r.executed, executed{text: statement, bindings: bindings})
	return nil
}

func (c *recordingCursor) Close() error { return nil }

// configuredResource returns a resource for def wired to r
func configuredResource(t *testing.T, def objectDefinition, r *recorder, defaults engine.Defaults) *objectResource {
	t.Helper()

	res := &objectResource{definition: def}
	resp := &resource.ConfigureResponse{}
	res.Configure(context.Background(), resource.ConfigureRequest{
		ProviderData: &ProviderData{Connections: r, Defaults: defaults},
	}, resp)
	require.False(t, resp.Diagnostics.HasError(), "configure: %v", resp.Diagnostics)
	require.NotNil(t, res.engine)
	return res
}

func objectType(s schema.Schema) tftypes.Object {
	return s.Type().TerraformType(context.Background()).(tftypes.Object)
}

// objectValue builds a value of the schema's object type; attributes missing from values are null
func objectValue(s schema.Schema, values map[string]tftypes.Value) tftypes.Value {
	typ := objectType(s)
	vals := make(map[string]tftypes.Value, len(typ.AttributeTypes))
	for name, attrType := range typ.AttributeTypes {
		if v, ok := values[name]; ok {
			vals[name] = v
			continue
		}
		vals[name] = tftypes.NewValue(attrType, nil)
	}
	return tftypes.NewValue(typ, vals)
}

func nullObject(s schema.Schema) tftypes.Value {
	return tftypes.NewValue(objectType(s), nil)
}

func planOf(s schema.Schema, values map[string]tftypes.Value) tfsdk.Plan {
	return tfsdk.Plan{Schema: s, Raw: objectValue(s, values)}
}

func stateOf(s schema.Schema, values map[string]tftypes.Value) tfsdk.State {
	return tfsdk.State{Schema: s, Raw: objectValue(s, values)}
}

func configOf(s schema.Schema, values map[string]tftypes.Value) tfsdk.Config {
	return tfsdk.Config{Schema: s, Raw: objectValue(s, values)}
}

func tfString(s string) tftypes.Value {
	return tftypes.NewValue(tftypes.String, s)
}

func tfUnknown() tftypes.Value {
	return tftypes.NewValue(tftypes.String, tftypes.UnknownValue)
}

func tfNumber(n float64) tftypes.Value {
	return tftypes.NewValue(tftypes.Number, big.NewFloat(n))
}

func tfBool(b bool) tftypes.Value {
	return tftypes.NewValue(tftypes.Bool, b)
}

func tfStringList(values ...string) tftypes.Value {
	elems := make([]tftypes.Value, 0, len(values))
	for _, v := range values {
		elems = append(elems, tfString(v))
	}
	return tftypes.NewValue(tftypes.List{ElementType: tftypes.String}, elems)
}
