package validators

import (
	"golang.org/x/exp/slices"
)

// ObjectTypes lists the SQL object type keywords an engine may be constructed for
var ObjectTypes = []string{
	"API INTEGRATION",
	"DATABASE",
	"EXTERNAL TABLE",
	"FILE FORMAT",
	"FUNCTION",
	"MASKING POLICY",
	"MATERIALIZED VIEW",
	"NETWORK POLICY",
	"NOTIFICATION INTEGRATION",
	"PIPE",
	"PROCEDURE",
	"RESOURCE MONITOR",
	"ROLE",
	"ROW ACCESS POLICY",
	"SCHEMA",
	"SECURITY INTEGRATION",
	"SEQUENCE",
	"SHARE",
	"STAGE",
	"STORAGE INTEGRATION",
	"STREAM",
	"TABLE",
	"TAG",
	"TASK",
	"USER",
	"VIEW",
	"WAREHOUSE",
}

// ValidateObjectName returns s unchanged when it is one of the recognised object type keywords
func ValidateObjectName(s string) (string, error) {
	if !slices.Contains(ObjectTypes, s) {
		return "", &ValidationError{
			Field:  "object type",
			Value:  s,
			Reason: "is not a recognised SQL object type",
		}
	}
	return s, nil
}
