// Package attribute defines the declarative descriptors the engine renders into CREATE statements.
//
// The set of descriptor kinds is closed: each kind carries its own rendering and binding
// logic, and a fragment's placeholder count always equals the length of its bindings.
package attribute

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/aaearon/terraform-provider-snowsql/internal/sqlliteral"
	"github.com/aaearon/terraform-provider-snowsql/internal/validators"
)

// ValueType is the shape of input value a descriptor accepts
type ValueType int

const (
	TypeString ValueType = iota
	TypeNumber
	TypeBool
	TypeMap
	TypeList
)

// String returns a string representation of the value type
func (t ValueType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeNumber:
		return "number"
	case TypeBool:
		return "bool"
	case TypeMap:
		return "map"
	case TypeList:
		return "list"
	default:
		return "unknown"
	}
}

// Descriptor describes one configurable property of a warehouse object.
// Render is never called with a nil value.
type Descriptor interface {
	Name() string
	SQLName() string
	Required() bool
	Sensitive() bool
	Description() string
	ValueType() ValueType
	Render(value any) (string, error)
	Bindings(value any) []any

	sealed()
}

// Spec holds the properties shared by every descriptor kind
type Spec struct {
	// Field is the input key, unique within one object type
	Field string
	// Key overrides the SQL property name; defaults to the upper-cased Field
	Key        string
	IsRequired bool
	Doc        string
}

// Name returns the input key
func (s Spec) Name() string { return s.Field }

// SQLName returns the property name used in the rendered fragment
func (s Spec) SQLName() string {
	if s.Key != "" {
		return s.Key
	}
	return strings.ToUpper(s.Field)
}

// Required reports whether create fails when the input is absent
func (s Spec) Required() bool { return s.IsRequired }

// Sensitive reports whether the value must be kept out of logs and plan output
func (s Spec) Sensitive() bool { return false }

// Description returns the documentation string
func (s Spec) Description() string { return s.Doc }

// Bindings returns nil for literal kinds
func (s Spec) Bindings(value any) []any { return nil }

func (s Spec) sealed() {}

func (s Spec) fragment(literal string) string {
	return s.SQLName() + " = " + literal
}

func (s Spec) typeError(value any, want string) error {
	return &validators.ValidationError{
		Field:  s.Field,
		Reason: fmt.Sprintf("expected %s, got %T", want, value),
	}
}

// StringAttribute renders KEY = 'value'
type StringAttribute struct {
	Spec
}

// ValueType returns TypeString
func (a StringAttribute) ValueType() ValueType { return TypeString }

// Render renders the quoted literal
func (a StringAttribute) Render(value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", a.typeError(value, "string")
	}
	return a.fragment(sqlliteral.String(s)), nil
}

// KeywordAttribute renders KEY = VALUE with the value upper-cased and unquoted.
// When Allowed is non-empty the value must be one of its entries.
type KeywordAttribute struct {
	Spec
	Allowed []string
}

// ValueType returns TypeString
func (a KeywordAttribute) ValueType() ValueType { return TypeString }

// Render renders the bare keyword
func (a KeywordAttribute) Render(value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", a.typeError(value, "string")
	}
	keyword, err := sqlliteral.Keyword(s)
	if err != nil {
		return "", fmt.Errorf("attribute %s: %w", a.Name(), err)
	}
	if len(a.Allowed) > 0 && !slices.Contains(a.Allowed, keyword) {
		return "", &validators.ValidationError{
			Field:  a.Name(),
			Value:  s,
			Reason: "must be one of " + strings.Join(a.Allowed, ", "),
		}
	}
	return a.fragment(keyword), nil
}

// IdentifierAttribute renders KEY = name for references to other objects
type IdentifierAttribute struct {
	Spec
}

// ValueType returns TypeString
func (a IdentifierAttribute) ValueType() ValueType { return TypeString }

// Render renders the validated identifier
func (a IdentifierAttribute) Render(value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", a.typeError(value, "string")
	}
	id, err := sqlliteral.Identifier(s)
	if err != nil {
		return "", fmt.Errorf("attribute %s: %w", a.Name(), err)
	}
	return a.fragment(id), nil
}

// NumberAttribute renders KEY = 123
type NumberAttribute struct {
	Spec
}

// ValueType returns TypeNumber
func (a NumberAttribute) ValueType() ValueType { return TypeNumber }

// Render renders the numeric literal
func (a NumberAttribute) Render(value any) (string, error) {
	n, err := sqlliteral.Number(value)
	if err != nil {
		return "", &validators.ValidationError{Field: a.Name(), Reason: err.Error()}
	}
	return a.fragment(n), nil
}

// BoolAttribute renders KEY = TRUE|FALSE
type BoolAttribute struct {
	Spec
}

// ValueType returns TypeBool
func (a BoolAttribute) ValueType() ValueType { return TypeBool }

// Render renders the boolean keyword
func (a BoolAttribute) Render(value any) (string, error) {
	b, ok := value.(bool)
	if !ok {
		return "", a.typeError(value, "bool")
	}
	return a.fragment(sqlliteral.Bool(b)), nil
}

// MappingAttribute renders KEY = (K1 = v1, K2 = v2)
type MappingAttribute struct {
	Spec
}

// ValueType returns TypeMap
func (a MappingAttribute) ValueType() ValueType { return TypeMap }

// Render renders the parenthesised option list
func (a MappingAttribute) Render(value any) (string, error) {
	switch value.(type) {
	case map[string]any, map[string]string:
	default:
		return "", a.typeError(value, "map")
	}
	literal, err := sqlliteral.Value(value)
	if err != nil {
		return "", &validators.ValidationError{Field: a.Name(), Reason: err.Error()}
	}
	return a.fragment(literal), nil
}

// SequenceAttribute renders KEY = (v1, v2)
type SequenceAttribute struct {
	Spec
}

// ValueType returns TypeList
func (a SequenceAttribute) ValueType() ValueType { return TypeList }

// Render renders the parenthesised value list
func (a SequenceAttribute) Render(value any) (string, error) {
	switch value.(type) {
	case []any, []string:
	default:
		return "", a.typeError(value, "list")
	}
	literal, err := sqlliteral.Value(value)
	if err != nil {
		return "", &validators.ValidationError{Field: a.Name(), Reason: err.Error()}
	}
	return a.fragment(literal), nil
}

// BoundAttribute renders KEY = ? and passes the raw value as a binding, keeping
// free text such as comments and passwords out of the statement text.
type BoundAttribute struct {
	Spec
	Secret bool
}

// ValueType returns TypeString
func (a BoundAttribute) ValueType() ValueType { return TypeString }

// Sensitive reports whether the bound value is a secret
func (a BoundAttribute) Sensitive() bool { return a.Secret }

// Render renders the placeholder fragment
func (a BoundAttribute) Render(value any) (string, error) {
	switch value.(type) {
	case string, bool, int, int64, float64:
	default:
		return "", a.typeError(value, "scalar")
	}
	return a.fragment(sqlliteral.Placeholder), nil
}

// Bindings returns the single bound value
func (a BoundAttribute) Bindings(value any) []any {
	return []any{value}
}
