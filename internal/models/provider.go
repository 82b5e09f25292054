// Package models defines Terraform configuration models
package models

import (
	"github.com/hashicorp/terraform-plugin-framework/types"
)

// ProviderModel describes the provider configuration block
type ProviderModel struct {
	Account   types.String `tfsdk:"account"`
	Username  types.String `tfsdk:"username"`
	Password  types.String `tfsdk:"password"` // Sensitive
	Role      types.String `tfsdk:"role"`
	Warehouse types.String `tfsdk:"warehouse"`
	Host      types.String `tfsdk:"host"`
	Database  types.String `tfsdk:"database"`
	Schema    types.String `tfsdk:"schema"`
}

func (m ProviderModel) values() map[string]types.String {
	return map[string]types.String{
		"account":   m.Account,
		"username":  m.Username,
		"password":  m.Password,
		"role":      m.Role,
		"warehouse": m.Warehouse,
		"host":      m.Host,
		"database":  m.Database,
		"schema":    m.Schema,
	}
}

// Explicit returns the attributes set in configuration, keyed by attribute name.
// Null and unknown attributes are omitted so environment values apply.
func (m ProviderModel) Explicit() map[string]string {
	explicit := make(map[string]string)
	for name, v := range m.values() {
		if v.IsNull() || v.IsUnknown() {
			continue
		}
		explicit[name] = v.ValueString()
	}
	return explicit
}

// UnknownAttributes reports, per attribute name, whether the value is unknown at configure time
func (m ProviderModel) UnknownAttributes() map[string]bool {
	unknown := make(map[string]bool)
	for name, v := range m.values() {
		unknown[name] = v.IsUnknown()
	}
	return unknown
}
