package engine

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/aaearon/terraform-provider-snowsql/internal/client"
	"github.com/aaearon/terraform-provider-snowsql/internal/sqlliteral"
	"github.com/aaearon/terraform-provider-snowsql/internal/validators"
)

// StatementSeparator is the line that ends one generated statement
const StatementSeparator = ";"

// TemplateData is passed to a StatementGenerator
type TemplateData struct {
	Name     string
	FullName string
	Database string
	Schema   string
	Inputs   map[string]any
}

// StatementGenerator produces the statements for one object type. Statements are
// executed in order on a single cursor, independently and without a transaction.
type StatementGenerator interface {
	CreateStatements(data TemplateData) ([]string, error)
	DropStatements(data TemplateData) ([]string, error)
}

// TemplateConfig describes an object type whose SQL comes from a generator
type TemplateConfig struct {
	ObjectType  string
	Generator   StatementGenerator
	Connections client.ConnectionProvider
	Defaults    Defaults

	Qualifier NameQualifier
	Outputs   OutputShaper
	Suffix    SuffixGenerator
}

// TemplateEngine creates, diffs and deletes objects using a StatementGenerator
type TemplateEngine struct {
	cfg TemplateConfig
}

// NewTemplateEngine validates cfg and returns a TemplateEngine
func NewTemplateEngine(cfg TemplateConfig) (*TemplateEngine, error) {
	if _, err := validators.ValidateObjectName(cfg.ObjectType); err != nil {
		return nil, err
	}
	if cfg.Generator == nil {
		return nil, fmt.Errorf("%s: a statement generator is required", cfg.ObjectType)
	}
	if cfg.Connections == nil {
		return nil, fmt.Errorf("%s: connection provider is required", cfg.ObjectType)
	}

	applyStrategyDefaults(&cfg.Qualifier, &cfg.Outputs, &cfg.Suffix)
	return &TemplateEngine{cfg: cfg}, nil
}

// ObjectType returns the SQL object type keyword
func (e *TemplateEngine) ObjectType() string {
	return e.cfg.ObjectType
}

// Create generates and executes the create statements. Outputs hold the name and
// every input except name and resource_name.
func (e *TemplateEngine) Create(ctx context.Context, inputs map[string]any) (*CreateResult, error) {
	tflog.Info(ctx, "Creating warehouse object", map[string]interface{}{
		"object_type": e.cfg.ObjectType,
	})

	d, err := ParseDescription(inputs)
	if err != nil {
		return nil, err
	}
	name, err := IdentityName(d, e.cfg.Suffix)
	if err != nil {
		return nil, err
	}
	q, err := e.cfg.Qualifier(name, d, e.cfg.Defaults)
	if err != nil {
		return nil, err
	}

	statements, err := e.cfg.Generator.CreateStatements(templateData(name, q, d))
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s statements: %w", e.cfg.ObjectType, err)
	}
	if err := execute(ctx, e.cfg.Connections, plainStatements(statements)); err != nil {
		tflog.Error(ctx, "Failed to create warehouse object", map[string]interface{}{
			"object_type": e.cfg.ObjectType,
			"name":        name,
			"error":       err.Error(),
		})
		return nil, err
	}

	outs := map[string]any{NameField: name}
	for k, v := range d.Inputs {
		if k == NameField || k == ResourceNameField {
			continue
		}
		outs[k] = v
	}

	tflog.Info(ctx, "Created warehouse object", map[string]interface{}{
		"object_type": e.cfg.ObjectType,
		"name":        name,
		"full_name":   q.FullName,
	})

	return &CreateResult{ID: name, Outputs: e.cfg.Outputs(name, q, outs)}, nil
}

// Diff reports every changed field as requiring replacement
func (e *TemplateEngine) Diff(ctx context.Context, id string, olds, news map[string]any) DiffResult {
	result := ComputeDiff(olds, news)
	tflog.Debug(ctx, "Diffed warehouse object", map[string]interface{}{
		"object_type": e.cfg.ObjectType,
		"id":          id,
		"changed":     result.Changed,
		"replaces":    result.ReplacementFields,
	})
	return result
}

// Delete generates and executes the drop statements for props
func (e *TemplateEngine) Delete(ctx context.Context, id string, props map[string]any) error {
	tflog.Info(ctx, "Deleting warehouse object", map[string]interface{}{
		"object_type": e.cfg.ObjectType,
		"id":          id,
	})

	name, err := validators.ValidateIdentifier(id)
	if err != nil {
		return err
	}
	d, err := ParseDescription(props)
	if err != nil {
		return err
	}
	q, err := e.cfg.Qualifier(name, d, e.cfg.Defaults)
	if err != nil {
		return err
	}

	statements, err := e.cfg.Generator.DropStatements(templateData(name, q, d))
	if err != nil {
		return fmt.Errorf("failed to generate %s statements: %w", e.cfg.ObjectType, err)
	}
	if err := execute(ctx, e.cfg.Connections, plainStatements(statements)); err != nil {
		return err
	}

	tflog.Info(ctx, "Deleted warehouse object", map[string]interface{}{
		"object_type": e.cfg.ObjectType,
		"full_name":   q.FullName,
	})
	return nil
}

func templateData(name string, q Qualification, d *ResourceDescription) TemplateData {
	return TemplateData{
		Name:     name,
		FullName: q.FullName,
		Database: q.Database,
		Schema:   q.Schema,
		Inputs:   d.Inputs,
	}
}

func plainStatements(texts []string) []Statement {
	statements := make([]Statement, 0, len(texts))
	for _, t := range texts {
		statements = append(statements, Statement{Text: t})
	}
	return statements
}

// TemplateGenerator is a StatementGenerator backed by text/template
type TemplateGenerator struct {
	create *template.Template
	drop   *template.Template
}

// NewTemplateGenerator parses the create and drop templates with FuncMap
func NewTemplateGenerator(name, createText, dropText string) (*TemplateGenerator, error) {
	create, err := template.New(name + "_create").Funcs(FuncMap()).Parse(createText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s create template: %w", name, err)
	}
	drop, err := template.New(name + "_drop").Funcs(FuncMap()).Parse(dropText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s drop template: %w", name, err)
	}
	return &TemplateGenerator{create: create, drop: drop}, nil
}

// MustTemplateGenerator is like NewTemplateGenerator but panics on a parse error
func MustTemplateGenerator(name, createText, dropText string) *TemplateGenerator {
	g, err := NewTemplateGenerator(name, createText, dropText)
	if err != nil {
		panic(err)
	}
	return g
}

// CreateStatements renders the create template
func (g *TemplateGenerator) CreateStatements(data TemplateData) ([]string, error) {
	return render(g.create, data)
}

// DropStatements renders the drop template
func (g *TemplateGenerator) DropStatements(data TemplateData) ([]string, error) {
	return render(g.drop, data)
}

// render executes tmpl, drops blank lines and splits the output on separator lines
func render(tmpl *template.Template, data TemplateData) ([]string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}

	var statements []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			statements = append(statements, strings.Join(current, "\n"))
			current = nil
		}
	}

	for _, line := range strings.Split(buf.String(), "\n") {
		trimmed := strings.TrimSpace(line)
		switch trimmed {
		case "":
			continue
		case StatementSeparator:
			flush()
		default:
			current = append(current, strings.TrimRight(line, " \t\r"))
		}
	}
	flush()

	return statements, nil
}

// FuncMap returns the SQL helpers available to templates
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"sql":            sqlliteral.Value,
		"sql_identifier": sqlliteral.Identifier,
		"number_to_sql":  sqlliteral.Number,
		"bool_to_sql":    boolToSQL,
		"string_to_sql":  stringToSQL,
		"dict_to_sql":    dictToSQL,
		"list_to_sql":    listToSQL,
		"has":            has,
	}
}

func has(inputs map[string]any, key string) bool {
	return inputs[key] != nil
}

func boolToSQL(v any) (string, error) {
	b, ok := v.(bool)
	if !ok {
		return "", fmt.Errorf("bool_to_sql: expected bool, got %T", v)
	}
	return sqlliteral.Bool(b), nil
}

func stringToSQL(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("string_to_sql: expected string, got %T", v)
	}
	return sqlliteral.String(s), nil
}

func dictToSQL(v any) (string, error) {
	switch v.(type) {
	case map[string]any, map[string]string:
		return sqlliteral.Value(v)
	}
	return "", fmt.Errorf("dict_to_sql: expected map, got %T", v)
}

func listToSQL(v any) (string, error) {
	switch v.(type) {
	case []any, []string:
		return sqlliteral.Value(v)
	}
	return "", fmt.Errorf("list_to_sql: expected list, got %T", v)
}
