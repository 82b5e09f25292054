package engine

import (
	"fmt"

	"github.com/aaearon/terraform-provider-snowsql/internal/validators"
)

// Defaults holds the provider-level database and schema
type Defaults struct {
	Database string
	Schema   string
}

// Qualification is the resolved placement of one object. Empty strings mean absent.
type Qualification struct {
	Database string
	Schema   string
	FullName string
}

// NameQualifier resolves where an already-validated name lives
type NameQualifier func(name string, d *ResourceDescription, defaults Defaults) (Qualification, error)

// OutputShaper adds computed values to the create outputs
type OutputShaper func(name string, q Qualification, outs map[string]any) map[string]any

// ResolveDatabaseAndSchema layers input-level qualifiers over the provider defaults.
// The defaults are consulted only when the inputs carry a database or a schema;
// otherwise the object is unqualified and the session context applies.
func ResolveDatabaseAndSchema(d *ResourceDescription, defaults Defaults) (database, schema string) {
	if d.Database == "" && d.Schema == "" {
		return "", ""
	}

	database = defaults.Database
	schema = defaults.Schema
	if d.Database != "" {
		database = d.Database
	}
	if d.Schema != "" {
		schema = d.Schema
	}
	return database, schema
}

// ResolveQualifiedName composes DB.SCHEMA.NAME, DB..NAME or NAME. A schema
// without a database leaves the name unqualified.
func ResolveQualifiedName(name, database, schema string) (string, error) {
	if _, err := validators.ValidateIdentifier(name); err != nil {
		return "", err
	}
	if database != "" {
		if _, err := validators.ValidateIdentifier(database); err != nil {
			return "", fmt.Errorf("database: %w", err)
		}
	}
	if schema != "" {
		if _, err := validators.ValidateIdentifier(schema); err != nil {
			return "", fmt.Errorf("schema: %w", err)
		}
	}

	switch {
	case database != "" && schema != "":
		return database + "." + schema + "." + name, nil
	case database != "":
		return database + ".." + name, nil
	default:
		return name, nil
	}
}

// IdentityName returns the validated explicit name, or synthesizes
// "{resource_name}_{suffix}" when no name was given.
func IdentityName(d *ResourceDescription, suffix SuffixGenerator) (string, error) {
	if err := d.checkIdentity(); err != nil {
		return "", err
	}

	name := d.Name
	if !d.HasName() {
		s, err := suffix(NameSuffixLength)
		if err != nil {
			return "", err
		}
		name = d.ResourceName + "_" + s
	}
	return validators.ValidateIdentifier(name)
}

// Unqualified places account-level objects; the name is used as is
func Unqualified(name string, d *ResourceDescription, defaults Defaults) (Qualification, error) {
	validated, err := validators.ValidateIdentifier(name)
	if err != nil {
		return Qualification{}, err
	}
	return Qualification{FullName: validated}, nil
}

// SchemaQualified places schema-level objects using ResolveDatabaseAndSchema
func SchemaQualified(name string, d *ResourceDescription, defaults Defaults) (Qualification, error) {
	database, schema := ResolveDatabaseAndSchema(d, defaults)
	fullName, err := ResolveQualifiedName(name, database, schema)
	if err != nil {
		return Qualification{}, err
	}
	return Qualification{Database: database, Schema: schema, FullName: fullName}, nil
}

// DatabaseQualified places objects that live directly in a database, such as schemas.
// The database comes from the inputs, then the provider default.
func DatabaseQualified(name string, d *ResourceDescription, defaults Defaults) (Qualification, error) {
	if _, err := validators.ValidateIdentifier(name); err != nil {
		return Qualification{}, err
	}

	database := d.Database
	if database == "" {
		database = defaults.Database
	}
	if database == "" {
		return Qualification{}, &validators.ValidationError{Field: DatabaseField, Reason: "a database is required"}
	}
	if _, err := validators.ValidateIdentifier(database); err != nil {
		return Qualification{}, fmt.Errorf("database: %w", err)
	}
	return Qualification{Database: database, FullName: database + "." + name}, nil
}

// IdentityOutputs returns outs unchanged
func IdentityOutputs(name string, q Qualification, outs map[string]any) map[string]any {
	return outs
}

// AccountOutputs adds full_name equal to the name
func AccountOutputs(name string, q Qualification, outs map[string]any) map[string]any {
	setComputed(outs, FullNameField, name)
	return outs
}

// QualifiedOutputs adds database, schema and full_name when a database resolved,
// else full_name equal to the name. Non-nil values already in outs win.
func QualifiedOutputs(name string, q Qualification, outs map[string]any) map[string]any {
	if q.Database == "" {
		setComputed(outs, FullNameField, name)
		return outs
	}

	setComputed(outs, DatabaseField, q.Database)
	if q.Schema != "" {
		setComputed(outs, SchemaField, q.Schema)
	} else if _, ok := outs[SchemaField]; !ok {
		outs[SchemaField] = nil
	}
	setComputed(outs, FullNameField, q.FullName)
	return outs
}

func setComputed(outs map[string]any, key string, value any) {
	if outs[key] == nil {
		outs[key] = value
	}
}
