package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Defaulter lets a payload struct fill zero-valued fields before validation
type Defaulter interface {
	ApplyDefaults()
}

// Schema validates free-form JSON payloads against a typed struct and
// describes that struct in a JSON-schema shaped map for API consumers.
type Schema struct {
	newPayload func() any
}

// Of builds a Schema for the payload struct T. T's fields declare their
// wire names with `json` tags, constraints with `validate` tags and
// human-readable help with `desc` tags.
func Of[T any]() *Schema {
	return &Schema{newPayload: func() any { return new(T) }}
}

// FieldError describes a single failed constraint
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ValidationError aggregates all failed constraints for one payload
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s (%s)", f.Field, f.Rule))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Validate decodes payload into a fresh instance of the schema's struct,
// applies defaults and runs the declared constraints. Returns the typed
// payload pointer on success.
func (s *Schema) Validate(payload map[string]any) (any, error) {
	target := s.newPayload()

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return nil, &ValidationError{Fields: []FieldError{{Field: "payload", Rule: "malformed"}}}
	}

	if d, ok := target.(Defaulter); ok {
		d.ApplyDefaults()
	}

	if err := validate.Struct(target); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, err
		}
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{
				Field: jsonFieldName(reflect.TypeOf(target).Elem(), fe.StructField()),
				Rule:  fe.Tag(),
			})
		}
		return nil, &ValidationError{Fields: fields}
	}

	return target, nil
}

// Normalize validates a configuration map and returns it re-encoded from
// the typed struct, so defaults are applied and unknown keys dropped.
func (s *Schema) Normalize(payload map[string]any) (map[string]any, error) {
	target, err := s.Validate(payload)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(target)
	if err != nil {
		return nil, fmt.Errorf("failed to encode normalized config: %w", err)
	}

	normalized := map[string]any{}
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return nil, fmt.Errorf("failed to decode normalized config: %w", err)
	}
	return normalized, nil
}

// Describe returns a JSON-schema shaped structural description of the
// payload struct: object type, per-field types/descriptions and the list
// of required fields.
func (s *Schema) Describe() map[string]any {
	t := reflect.TypeOf(s.newPayload()).Elem()

	properties := map[string]any{}
	required := []string{}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name := jsonTagName(field)
		if name == "" {
			continue
		}

		prop := map[string]any{"type": jsonType(field.Type)}
		if desc := field.Tag.Get("desc"); desc != "" {
			prop["description"] = desc
		}
		properties[name] = prop

		if strings.Contains(field.Tag.Get("validate"), "required") {
			required = append(required, name)
		}
	}

	return map[string]any{
		"type":       "object",
		"title":      t.Name(),
		"properties": properties,
		"required":   required,
	}
}

func jsonTagName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	if tag == "" {
		return field.Name
	}
	return strings.Split(tag, ",")[0]
}

func jsonFieldName(t reflect.Type, structField string) string {
	if field, ok := t.FieldByName(structField); ok {
		if name := jsonTagName(field); name != "" {
			return name
		}
	}
	return structField
}

func jsonType(t reflect.Type) string {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}
