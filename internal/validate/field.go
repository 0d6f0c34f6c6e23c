// Package validate checks request body fields before any store access.
// Rules run in a fixed order and the first failure wins, so a field that is
// both untrimmed and too short reports the whitespace problem.
package validate

import (
	"fmt"
	"strings"
)

// Error describes a single failed field check.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string { return e.Message }

// Spec declares the requirements for one string field.
// MinLength/MaxLength of zero mean unchecked.
type Spec struct {
	Field     string
	Required  bool
	Trimmed   bool
	MinLength int
	MaxLength int
}

// Field checks one field of a decoded JSON body against its spec.
// Absence means the key is missing or null; an empty string is present and
// falls through to the length rules.
func Field(body map[string]any, spec Spec) *Error {
	value, ok := body[spec.Field]
	if !ok || value == nil {
		if spec.Required {
			return &Error{spec.Field, fmt.Sprintf("Missing '%s' in request body", spec.Field)}
		}
		return nil
	}

	str, ok := value.(string)
	if !ok {
		return &Error{spec.Field, fmt.Sprintf("Field: '%s' must be type String", spec.Field)}
	}

	if spec.Trimmed && strings.TrimSpace(str) != str {
		return &Error{spec.Field, fmt.Sprintf("Field: '%s' cannot start or end with whitespace", spec.Field)}
	}

	if spec.MinLength > 0 && len(str) < spec.MinLength {
		return &Error{spec.Field, fmt.Sprintf("Field: '%s' must be at least %d characters long", spec.Field, spec.MinLength)}
	}

	if spec.MaxLength > 0 && len(str) > spec.MaxLength {
		return &Error{spec.Field, fmt.Sprintf("Field: '%s' must be at most %d characters long", spec.Field, spec.MaxLength)}
	}

	return nil
}

// Fields runs specs in order and returns the first failure.
func Fields(body map[string]any, specs ...Spec) *Error {
	for _, spec := range specs {
		if err := Field(body, spec); err != nil {
			return err
		}
	}
	return nil
}
