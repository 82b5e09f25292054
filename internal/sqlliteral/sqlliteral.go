// Package sqlliteral converts Go values into warehouse SQL literal text.
//
// Strings are single-quoted with backslash escaping and numbers use invariant decimal
// notation. Booleans become TRUE/FALSE and None renders as the NONE keyword. Mappings
// and sequences use the parenthesised option syntax accepted by DDL statements:
//
//	FILE_FORMAT = (TYPE = 'CSV')
//	NULL_IF = ('', 'NULL')
package sqlliteral

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/aaearon/terraform-provider-snowsql/internal/validators"
)

// Placeholder is the positional binding marker understood by the warehouse driver
const Placeholder = "?"

// None is the distinguished "no value" marker (e.g. COMPRESSION = NONE)
type None struct{}

// NoneValue is the canonical None
var NoneValue = None{}

var stringEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// String renders s as a quoted string literal
func String(s string) string {
	return "'" + stringEscaper.Replace(s) + "'"
}

// Bool renders b as TRUE or FALSE
func Bool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// Number renders an integer or floating point value in invariant decimal form
func Number(v any) (string, error) {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n), nil
	case int32:
		return strconv.FormatInt(int64(n), 10), nil
	case int64:
		return strconv.FormatInt(n, 10), nil
	case uint:
		return strconv.FormatUint(uint64(n), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(n), 10), nil
	case uint64:
		return strconv.FormatUint(n, 10), nil
	case float32:
		return formatFloat(float64(n))
	case float64:
		return formatFloat(n)
	case json.Number:
		if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
			return "", fmt.Errorf("invalid number %q: %w", n.String(), err)
		}
		return n.String(), nil
	case *big.Float:
		if n == nil {
			return "", fmt.Errorf("nil number")
		}
		if n.IsInf() {
			return "", fmt.Errorf("number %s is not finite", n.String())
		}
		return n.Text('f', -1), nil
	default:
		return "", fmt.Errorf("value of type %T is not a number", v)
	}
}

func formatFloat(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("number %v is not finite", f)
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

// Identifier renders s unquoted after validating it
func Identifier(s string) (string, error) {
	return validators.ValidateIdentifier(s)
}

// Keyword renders s as an upper-cased bare keyword (e.g. CSV, AUTO, EXTERNAL_STAGE)
func Keyword(s string) (string, error) {
	if _, err := validators.ValidateIdentifier(s); err != nil {
		return "", err
	}
	return strings.ToUpper(s), nil
}

// Mapping renders m as (KEY = value, ...) with keys in sorted order. Keys are validated
// as identifiers and upper-cased.
func Mapping(m map[string]any) (string, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		key, err := Keyword(k)
		if err != nil {
			return "", fmt.Errorf("mapping key: %w", err)
		}
		val, err := Value(m[k])
		if err != nil {
			return "", fmt.Errorf("mapping value for %s: %w", key, err)
		}
		parts = append(parts, key+" = "+val)
	}
	return "(" + strings.Join(parts, ", ") + ")", nil
}

// Sequence renders items as (item, ...)
func Sequence(items []any) (string, error) {
	parts := make([]string, 0, len(items))
	for i, item := range items {
		val, err := Value(item)
		if err != nil {
			return "", fmt.Errorf("sequence item %d: %w", i, err)
		}
		parts = append(parts, val)
	}
	return "(" + strings.Join(parts, ", ") + ")", nil
}

// Value dispatches on the dynamic type of v. nil renders as NULL.
func Value(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "NULL", nil
	case None, *None:
		return "NONE", nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case map[string]any:
		return Mapping(val)
	case map[string]string:
		m := make(map[string]any, len(val))
		for k, s := range val {
			m[k] = s
		}
		return Mapping(m)
	case []any:
		return Sequence(val)
	case []string:
		items := make([]any, len(val))
		for i, s := range val {
			items[i] = s
		}
		return Sequence(items)
	default:
		return Number(v)
	}
}
