package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var ErrValidationFailed = errors.New("VALIDATION_FAILED")

// JSONSchema is the subset of draft-07 the row validator emits.
type JSONSchema struct {
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties bool                `json:"additionalProperties"`
}

type Property struct {
	Type    interface{} `json:"type"`
	Format  string      `json:"format,omitempty"`
	Minimum *float64    `json:"minimum,omitempty"`
}

// FieldError is one offending field of a rejected document.
type FieldError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

// ValidationError lists the fields that failed for the record at Row.
type ValidationError struct {
	Row    int          `json:"row"`
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Description)
	}
	return fmt.Sprintf("row %d: %s", e.Row, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// HasField reports whether field is among the failures.
func (e *ValidationError) HasField(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Validator checks plain records against a compiled schema. Safe for
// concurrent use once built.
type Validator struct {
	schema *gojsonschema.Schema
}

func NewValidator(schema JSONSchema) (*Validator, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

// Validate returns a *ValidationError when record does not match.
func (v *Validator) Validate(row int, record map[string]interface{}) error {
	result, err := v.schema.Validate(gojsonschema.NewGoLoader(record))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	fields := make([]FieldError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		// gojsonschema reports missing required properties against the root.
		if desc.Type() == "required" {
			if name, ok := desc.Details()["property"].(string); ok {
				field = name
			}
		}
		fields = append(fields, FieldError{
			Field:       field,
			Description: desc.Description(),
		})
	}
	return &ValidationError{Row: row, Fields: fields}
}
