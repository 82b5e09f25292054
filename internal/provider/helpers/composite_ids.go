// Package helpers provides shared utility functions for provider resources
package helpers

import (
	"fmt"
	"strings"

	"github.com/aaearon/terraform-provider-snowsql/internal/validators"
)

// QualifiedID is a parsed import ID. Empty parts are absent.
type QualifiedID struct {
	Database string
	Schema   string
	Name     string
}

// ParseCompositeID splits a dotted ID into exactly expectedParts parts. Only the
// middle part of a three-part ID may be empty (DB..NAME).
func ParseCompositeID(id string, expectedParts int) ([]string, error) {
	parts := strings.Split(id, ".")
	if len(parts) != expectedParts {
		return nil, fmt.Errorf("invalid ID format: expected %d parts separated by '.', got %d parts in '%s'",
			expectedParts, len(parts), id)
	}

	for i, part := range parts {
		if part == "" {
			if expectedParts == 3 && i == 1 {
				continue
			}
			return nil, fmt.Errorf("invalid ID format: part %d is empty in '%s'", i+1, id)
		}
		if _, err := validators.ValidateIdentifier(part); err != nil {
			return nil, fmt.Errorf("invalid ID format: part %d: %w", i+1, err)
		}
	}

	return parts, nil
}

// ParseQualifiedID parses NAME, DB.NAME, DB..NAME or DB.SCHEMA.NAME.
// A two-part ID is read as database and name.
func ParseQualifiedID(id string) (QualifiedID, error) {
	parts, err := ParseCompositeID(id, strings.Count(id, ".")+1)
	if err != nil {
		return QualifiedID{}, err
	}

	switch len(parts) {
	case 1:
		return QualifiedID{Name: parts[0]}, nil
	case 2:
		return QualifiedID{Database: parts[0], Name: parts[1]}, nil
	case 3:
		return QualifiedID{Database: parts[0], Schema: parts[1], Name: parts[2]}, nil
	}
	return QualifiedID{}, fmt.Errorf("invalid ID format: expected at most 3 parts separated by '.', got %d in '%s'", len(parts), id)
}
