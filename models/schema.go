package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaBaseURL = "https://registry-api.local/schemas/"

// Schemas holds the compiled request body schemas of every mutable kind
type Schemas struct {
	create map[Kind]*jsonschema.Schema
	update map[Kind]*jsonschema.Schema
}

// NewSchemas compiles create and update schemas from the kind descriptors
func NewSchemas() (*Schemas, error) {
	s := &Schemas{
		create: make(map[Kind]*jsonschema.Schema),
		update: make(map[Kind]*jsonschema.Schema),
	}

	for _, d := range descriptors {
		create, err := compileSchema(d, false)
		if err != nil {
			return nil, err
		}
		update, err := compileSchema(d, true)
		if err != nil {
			return nil, err
		}
		s.create[d.Kind] = create
		s.update[d.Kind] = update
	}

	return s, nil
}

// Validate checks a decoded JSON document against the kind's create or
// update schema. Failures are returned as ValidationErrors.
func (s *Schemas) Validate(kind Kind, partial bool, doc any) error {
	schemas := s.create
	if partial {
		schemas = s.update
	}

	schema, ok := schemas[kind]
	if !ok {
		return fmt.Errorf("no schema for record kind %q", kind)
	}

	err := schema.Validate(doc)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}

	var errs ValidationErrors
	collectSchemaErrors(ve, &errs)
	return errs
}

func collectSchemaErrors(ve *jsonschema.ValidationError, errs *ValidationErrors) {
	if len(ve.Causes) == 0 {
		*errs = append(*errs, ValidationError{
			Field:   strings.TrimPrefix(ve.InstanceLocation, "/"),
			Message: ve.Message,
		})
		return
	}
	for _, cause := range ve.Causes {
		collectSchemaErrors(cause, errs)
	}
}

// SchemaDocument renders the JSON Schema of a kind's request body
func SchemaDocument(d Descriptor, partial bool) map[string]any {
	properties := make(map[string]any, len(d.Fields))
	var required []string

	for _, f := range d.Fields {
		prop := map[string]any{}
		switch f.Type {
		case FieldInt:
			prop["type"] = "integer"
		case FieldTime:
			prop["type"] = "string"
			prop["format"] = "date-time"
		default:
			prop["type"] = "string"
			if f.MaxLength > 0 {
				prop["maxLength"] = f.MaxLength
			}
		}
		if !f.Required {
			prop["type"] = []any{prop["type"], "null"}
		}
		properties[f.Name] = prop

		if f.Required {
			required = append(required, f.Name)
		}
	}

	doc := map[string]any{
		"$schema":              "https://json-schema.org/draft/2020-12/schema",
		"title":                string(d.Kind),
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if partial {
		doc["minProperties"] = 1
	} else if len(required) > 0 {
		doc["required"] = required
	}
	return doc
}

func compileSchema(d Descriptor, partial bool) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(SchemaDocument(d, partial))
	if err != nil {
		return nil, fmt.Errorf("marshal %s schema: %w", d.Kind, err)
	}

	suffix := "create"
	if partial {
		suffix = "update"
	}
	url := fmt.Sprintf("%s%s.%s.schema.json", schemaBaseURL, d.Path, suffix)

	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	c.AssertFormat = true
	if err := c.AddResource(url, strings.NewReader(string(raw))); err != nil {
		return nil, fmt.Errorf("load %s schema: %w", d.Kind, err)
	}

	schema, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile %s schema: %w", d.Kind, err)
	}
	return schema, nil
}
