// Package provider implements the snowsql Terraform provider
package provider

import (
	"context"
	"errors"
	"strings"

	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/provider"
	"github.com/hashicorp/terraform-plugin-framework/provider/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/aaearon/terraform-provider-snowsql/internal/client"
	"github.com/aaearon/terraform-provider-snowsql/internal/config"
	"github.com/aaearon/terraform-provider-snowsql/internal/engine"
	"github.com/aaearon/terraform-provider-snowsql/internal/models"
	"github.com/aaearon/terraform-provider-snowsql/internal/validators"
)

// Ensure the implementation satisfies the expected interfaces
var _ provider.Provider = &SnowSQLProvider{}

// SnowSQLProvider defines the provider implementation
type SnowSQLProvider struct {
	// version is set to the provider version on release
	version string
}

// ProviderData is shared with every resource by Configure
type ProviderData struct {
	Connections client.ConnectionProvider
	Defaults    engine.Defaults
}

// New is a helper function to simplify provider server and testing implementation
func New(version string) func() provider.Provider {
	return func() provider.Provider {
		return &SnowSQLProvider{
			version: version,
		}
	}
}

// Metadata returns the provider type name
func (p *SnowSQLProvider) Metadata(ctx context.Context, req provider.MetadataRequest, resp *provider.MetadataResponse) {
	resp.TypeName = "snowsql"
	resp.Version = p.version
}

// Schema defines the provider-level schema for configuration data
func (p *SnowSQLProvider) Schema(ctx context.Context, req provider.SchemaRequest, resp *provider.SchemaResponse) {
	identifier := []validator.String{validators.Identifier()}

	resp.Schema = schema.Schema{
		Description: "Manages Snowflake objects by generating and executing DDL statements. " +
			"Every attribute may also be set with the matching SNOWFLAKE_* environment variable.",
		Attributes: map[string]schema.Attribute{
			"account": schema.StringAttribute{
				Description: "Account identifier (e.g., myorg-myaccount). May also be set with SNOWFLAKE_ACCOUNT.",
				Optional:    true,
			},
			"username": schema.StringAttribute{
				Description: "Login name. May also be set with SNOWFLAKE_USERNAME.",
				Optional:    true,
			},
			"password": schema.StringAttribute{
				Description: "Password. May also be set with SNOWFLAKE_PASSWORD.",
				Optional:    true,
				Sensitive:   true,
			},
			"role": schema.StringAttribute{
				Description: "Role for the session. Defaults to the user's default role.",
				Optional:    true,
				Validators:  identifier,
			},
			"warehouse": schema.StringAttribute{
				Description: "Virtual warehouse for the session.",
				Optional:    true,
				Validators:  identifier,
			},
			"host": schema.StringAttribute{
				Description: "Host name override. Derived from the account when unset.",
				Optional:    true,
			},
			"database": schema.StringAttribute{
				Description: "Default database for schema-level objects that set a schema but no database.",
				Optional:    true,
				Validators:  identifier,
			},
			"schema": schema.StringAttribute{
				Description: "Default schema for schema-level objects that set a database but no schema.",
				Optional:    true,
				Validators:  identifier,
			},
		},
	}
}

// Configure resolves the connection settings and shares a connection provider with resources
func (p *SnowSQLProvider) Configure(ctx context.Context, req provider.ConfigureRequest, resp *provider.ConfigureResponse) {
	var data models.ProviderModel
	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	for name, unknown := range data.UnknownAttributes() {
		if unknown {
			resp.Diagnostics.AddAttributeError(
				path.Root(name),
				"Unknown Provider Configuration Value",
				"The provider cannot create a warehouse connection while "+name+" is unknown. "+
					"Set the value statically or use the "+config.EnvPrefix+strings.ToUpper(name)+" environment variable.",
			)
		}
	}
	if resp.Diagnostics.HasError() {
		return
	}

	cfg, err := config.Load(data.Explicit())
	if err != nil {
		resp.Diagnostics.AddError("Invalid Provider Configuration", err.Error())
		return
	}

	LogProviderConfig(ctx, cfg)

	if err := cfg.Validate(); err != nil {
		var missing *config.MissingFieldError
		if errors.As(err, &missing) {
			resp.Diagnostics.AddAttributeError(path.Root(missing.Field), "Missing Snowflake Configuration", err.Error())
			return
		}
		resp.Diagnostics.AddError("Invalid Provider Configuration", err.Error())
		return
	}

	connections, err := client.NewSnowflakeConnectionProvider(cfg.Snowflake())
	if err != nil {
		resp.Diagnostics.Append(client.MapError(err, "configure provider"))
		return
	}

	providerData := &ProviderData{
		Connections: connections,
		Defaults:    cfg.Defaults(),
	}
	resp.ResourceData = providerData
	resp.DataSourceData = providerData

	tflog.Info(ctx, "Configured snowsql provider", map[string]interface{}{
		"account": cfg.Account,
	})
}

// Resources defines the resources implemented in the provider
func (p *SnowSQLProvider) Resources(ctx context.Context) []func() resource.Resource {
	resources := make([]func() resource.Resource, 0, len(objectDefinitions))
	for _, def := range objectDefinitions {
		resources = append(resources, newObjectResource(def))
	}
	return resources
}

// DataSources defines the data sources implemented in the provider
func (p *SnowSQLProvider) DataSources(ctx context.Context) []func() datasource.DataSource {
	return []func() datasource.DataSource{
		// Query result parsing is not supported
	}
}
