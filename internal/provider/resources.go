package provider

import (
	"github.com/hashicorp/terraform-plugin-framework-validators/listvalidator"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"

	"github.com/aaearon/terraform-provider-snowsql/internal/attribute"
	"github.com/aaearon/terraform-provider-snowsql/internal/engine"
	"github.com/aaearon/terraform-provider-snowsql/internal/validators"
)

// objectDefinitions is the catalogue of managed object types, one resource each
var objectDefinitions = []objectDefinition{
	fileFormatDefinition,
	stageDefinition,
	storageIntegrationDefinition,
	userDefinition,
	warehouseDefinition,
	databaseDefinition,
	schemaDefinition,
}

func comment() attribute.Descriptor {
	return attribute.BoundAttribute{Spec: attribute.Spec{Field: "comment", Doc: "Free-text comment on the object."}}
}

var fileFormatDefinition = objectDefinition{
	typeName:    "file_format",
	objectType:  "FILE FORMAT",
	description: "Manages a named file format describing staged data files.",
	scope:       schemaScope,
	attributes: []attribute.Descriptor{
		attribute.KeywordAttribute{
			Spec:    attribute.Spec{Field: "type", Doc: "Format type: CSV, JSON, AVRO, ORC, PARQUET or XML."},
			Allowed: []string{"CSV", "JSON", "AVRO", "ORC", "PARQUET", "XML"},
		},
		attribute.KeywordAttribute{
			Spec:    attribute.Spec{Field: "compression", Doc: "Compression algorithm of the data files."},
			Allowed: []string{"AUTO", "GZIP", "BZ2", "BROTLI", "ZSTD", "DEFLATE", "RAW_DEFLATE", "LZO", "SNAPPY", "NONE"},
		},
		attribute.StringAttribute{Spec: attribute.Spec{Field: "record_delimiter", Doc: "Characters separating records."}},
		attribute.StringAttribute{Spec: attribute.Spec{Field: "field_delimiter", Doc: "Characters separating fields."}},
		attribute.StringAttribute{Spec: attribute.Spec{Field: "file_extension", Doc: "Extension of files unloaded to a stage."}},
		attribute.NumberAttribute{Spec: attribute.Spec{Field: "skip_header", Doc: "Number of header lines to skip."}},
		attribute.BoolAttribute{Spec: attribute.Spec{Field: "skip_blank_lines"}},
		attribute.StringAttribute{Spec: attribute.Spec{Field: "date_format"}},
		attribute.StringAttribute{Spec: attribute.Spec{Field: "time_format"}},
		attribute.StringAttribute{Spec: attribute.Spec{Field: "timestamp_format"}},
		attribute.KeywordAttribute{
			Spec:    attribute.Spec{Field: "binary_format", Doc: "Encoding of binary values: HEX, BASE64 or UTF8."},
			Allowed: []string{"HEX", "BASE64", "UTF8"},
		},
		attribute.StringAttribute{Spec: attribute.Spec{Field: "escape", Doc: "Escape character for enclosed fields."}},
		attribute.StringAttribute{Spec: attribute.Spec{Field: "escape_unenclosed_field", Doc: "Escape character for unenclosed fields."}},
		attribute.BoolAttribute{Spec: attribute.Spec{Field: "trim_space"}},
		attribute.StringAttribute{Spec: attribute.Spec{Field: "field_optionally_enclosed_by", Doc: "Character used to enclose strings."}},
		attribute.SequenceAttribute{Spec: attribute.Spec{Field: "null_if", Doc: "Strings converted to SQL NULL."}},
		attribute.BoolAttribute{Spec: attribute.Spec{Field: "error_on_column_count_mismatch"}},
		attribute.BoolAttribute{Spec: attribute.Spec{Field: "empty_field_as_null"}},
		attribute.StringAttribute{Spec: attribute.Spec{Field: "encoding", Doc: "Character set of the source data."}},
		comment(),
	},
}

var stageDefinition = objectDefinition{
	typeName:    "stage",
	objectType:  "STAGE",
	description: "Manages a named internal or external stage.",
	scope:       schemaScope,
	attributes: []attribute.Descriptor{
		attribute.StringAttribute{Spec: attribute.Spec{Field: "url", Doc: "External location, e.g. s3://bucket/path/. Internal stage when omitted."}},
		attribute.IdentifierAttribute{Spec: attribute.Spec{Field: "storage_integration", Doc: "Storage integration granting access to the URL."}},
		attribute.MappingAttribute{Spec: attribute.Spec{Field: "file_format", Doc: "File format options, e.g. { format_name = \"DB.SCH.CSV\" }. Values are rendered as quoted strings."}},
		attribute.MappingAttribute{Spec: attribute.Spec{Field: "copy_options", Doc: "Default COPY options. Values are rendered as quoted strings, e.g. ON_ERROR = 'CONTINUE'."}},
		comment(),
	},
	validators: map[string][]validator.String{
		"url": {validators.StorageLocation()},
	},
}

var storageIntegrationDefinition = objectDefinition{
	typeName:    "storage_integration",
	objectType:  "STORAGE INTEGRATION",
	description: "Manages a storage integration delegating cloud storage authentication to the account.",
	scope:       accountScope,
	attributes: []attribute.Descriptor{
		attribute.KeywordAttribute{
			Spec:    attribute.Spec{Field: "type", IsRequired: true, Doc: "Integration type. Must be EXTERNAL_STAGE."},
			Allowed: []string{"EXTERNAL_STAGE"},
		},
		attribute.KeywordAttribute{
			Spec:    attribute.Spec{Field: "storage_provider", IsRequired: true, Doc: "Cloud storage provider: S3, GCS or AZURE."},
			Allowed: []string{"S3", "GCS", "AZURE"},
		},
		attribute.BoolAttribute{Spec: attribute.Spec{Field: "enabled", IsRequired: true}},
		attribute.StringAttribute{Spec: attribute.Spec{Field: "azure_tenant_id", Doc: "Azure tenant owning the storage accounts."}},
		attribute.StringAttribute{Spec: attribute.Spec{Field: "storage_aws_role_arn", Doc: "IAM role assumed for S3 access."}},
		attribute.SequenceAttribute{Spec: attribute.Spec{Field: "storage_allowed_locations", IsRequired: true, Doc: "Locations stages may reference."}},
		attribute.SequenceAttribute{Spec: attribute.Spec{Field: "storage_blocked_locations", Doc: "Locations stages may not reference."}},
		comment(),
	},
	validators: map[string][]validator.String{
		"azure_tenant_id":      {validators.TenantID()},
		"storage_aws_role_arn": {validators.AWSRoleARN()},
	},
	listValidators: map[string][]validator.List{
		"storage_allowed_locations": {listvalidator.SizeAtLeast(1), listvalidator.ValueStringsAre(validators.AllowedStorageLocation())},
		"storage_blocked_locations": {listvalidator.ValueStringsAre(validators.StorageLocation())},
	},
}

var userDefinition = objectDefinition{
	typeName:    "user",
	objectType:  "USER",
	description: "Manages a user.",
	scope:       accountScope,
	attributes: []attribute.Descriptor{
		attribute.StringAttribute{Spec: attribute.Spec{Field: "login_name", Doc: "Login name. Defaults to the user name."}},
		attribute.StringAttribute{Spec: attribute.Spec{Field: "display_name"}},
		attribute.StringAttribute{Spec: attribute.Spec{Field: "first_name"}},
		attribute.StringAttribute{Spec: attribute.Spec{Field: "last_name"}},
		attribute.StringAttribute{Spec: attribute.Spec{Field: "email"}},
		attribute.BoundAttribute{
			Spec:   attribute.Spec{Field: "password", Doc: "Initial password."},
			Secret: true,
		},
		attribute.BoolAttribute{Spec: attribute.Spec{Field: "must_change_password"}},
		attribute.BoolAttribute{Spec: attribute.Spec{Field: "disabled"}},
		attribute.IdentifierAttribute{Spec: attribute.Spec{Field: "default_warehouse"}},
		attribute.IdentifierAttribute{Spec: attribute.Spec{Field: "default_role"}},
		attribute.StringAttribute{Spec: attribute.Spec{Field: "default_namespace", Doc: "Default database or database.schema for sessions."}},
		comment(),
	},
	validators: map[string][]validator.String{
		"email":             {validators.EmailLike()},
		"default_namespace": {validators.Namespace()},
	},
}

var warehouseDefinition = objectDefinition{
	typeName:    "warehouse",
	objectType:  "WAREHOUSE",
	description: "Manages a virtual warehouse.",
	scope:       accountScope,
	attributes: []attribute.Descriptor{
		attribute.KeywordAttribute{
			Spec: attribute.Spec{Field: "warehouse_size"},
			Allowed: []string{
				"XSMALL", "SMALL", "MEDIUM", "LARGE", "XLARGE",
				"XXLARGE", "XXXLARGE", "X4LARGE", "X5LARGE", "X6LARGE",
			},
		},
		attribute.NumberAttribute{Spec: attribute.Spec{Field: "max_cluster_count"}},
		attribute.NumberAttribute{Spec: attribute.Spec{Field: "min_cluster_count"}},
		attribute.NumberAttribute{Spec: attribute.Spec{Field: "auto_suspend", Doc: "Seconds of inactivity before suspending."}},
		attribute.BoolAttribute{Spec: attribute.Spec{Field: "auto_resume"}},
		attribute.BoolAttribute{Spec: attribute.Spec{Field: "initially_suspended"}},
		attribute.IdentifierAttribute{Spec: attribute.Spec{Field: "resource_monitor"}},
		comment(),
	},
}

const databaseCreateTemplate = `CREATE {{ if .Inputs.transient }}TRANSIENT {{ end }}DATABASE {{ .FullName }}
{{ if has .Inputs "data_retention_time_in_days" }}DATA_RETENTION_TIME_IN_DAYS = {{ number_to_sql .Inputs.data_retention_time_in_days }}{{ end }}
{{ if has .Inputs "comment" }}COMMENT = {{ string_to_sql .Inputs.comment }}{{ end }}
`

const databaseDropTemplate = `DROP DATABASE {{ .FullName }}`

var databaseDefinition = objectDefinition{
	typeName:    "database",
	objectType:  "DATABASE",
	description: "Manages a database.",
	scope:       accountScope,
	attributes: []attribute.Descriptor{
		attribute.BoolAttribute{Spec: attribute.Spec{Field: "transient", Doc: "Create a transient database without Fail-safe."}},
		attribute.NumberAttribute{Spec: attribute.Spec{Field: "data_retention_time_in_days"}},
		attribute.StringAttribute{Spec: attribute.Spec{Field: "comment"}},
	},
	generator: engine.MustTemplateGenerator("database", databaseCreateTemplate, databaseDropTemplate),
}

const schemaCreateTemplate = `CREATE {{ if .Inputs.transient }}TRANSIENT {{ end }}SCHEMA {{ .FullName }}
{{ if .Inputs.managed_access }}WITH MANAGED ACCESS{{ end }}
{{ if has .Inputs "data_retention_time_in_days" }}DATA_RETENTION_TIME_IN_DAYS = {{ number_to_sql .Inputs.data_retention_time_in_days }}{{ end }}
{{ if has .Inputs "comment" }}COMMENT = {{ string_to_sql .Inputs.comment }}{{ end }}
`

const schemaDropTemplate = `DROP SCHEMA {{ .FullName }}`

var schemaDefinition = objectDefinition{
	typeName:    "schema",
	objectType:  "SCHEMA",
	description: "Manages a schema inside a database.",
	scope:       databaseScope,
	attributes: []attribute.Descriptor{
		attribute.BoolAttribute{Spec: attribute.Spec{Field: "transient"}},
		attribute.BoolAttribute{Spec: attribute.Spec{Field: "managed_access", Doc: "Only the schema owner may grant privileges on its objects."}},
		attribute.NumberAttribute{Spec: attribute.Spec{Field: "data_retention_time_in_days"}},
		attribute.StringAttribute{Spec: attribute.Spec{Field: "comment"}},
	},
	generator: engine.MustTemplateGenerator("schema", schemaCreateTemplate, schemaDropTemplate),
}
