package models

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Kind names a type of stored record
type Kind string

const (
	KindUser       Kind = "User"
	KindPerson     Kind = "Person"
	KindSearchTerm Kind = "SearchTerm"
	KindCategory   Kind = "Category"
	KindLogEntry   Kind = "LogEntry"
)

// FieldType is the scalar type of a record field
type FieldType int

const (
	FieldString FieldType = iota
	FieldInt
	FieldTime
)

func (t FieldType) String() string {
	switch t {
	case FieldInt:
		return "integer"
	case FieldTime:
		return "date-time"
	default:
		return "string"
	}
}

// FieldSpec describes one column of a record kind
type FieldSpec struct {
	Name     string
	Type     FieldType
	Required bool
	Unique   bool
	// Secret fields are hashed before storage and never leave the service
	Secret    bool
	MaxLength int
}

// Descriptor carries everything the mutation helper needs to know about a kind
type Descriptor struct {
	Kind   Kind
	Table  string
	Path   string
	Fields []FieldSpec
}

var descriptors = []Descriptor{
	{
		Kind:  KindUser,
		Table: "users",
		Path:  "users",
		Fields: []FieldSpec{
			{Name: "username", Type: FieldString, Required: true, Unique: true, MaxLength: 100},
			{Name: "password", Type: FieldString, Required: true, Secret: true, MaxLength: 72},
			{Name: "email", Type: FieldString, Required: true, MaxLength: 255},
		},
	},
	{
		Kind:  KindPerson,
		Table: "people",
		Path:  "people",
		Fields: []FieldSpec{
			{Name: "name", Type: FieldString, Required: true, MaxLength: 100},
			{Name: "age", Type: FieldInt, Required: true},
		},
	},
	{
		Kind:  KindSearchTerm,
		Table: "search_terms",
		Path:  "search-terms",
		Fields: []FieldSpec{
			{Name: "text", Type: FieldString, Required: true, Unique: true, MaxLength: 255},
			{Name: "searched_at", Type: FieldTime},
		},
	},
	{
		Kind:  KindCategory,
		Table: "categories",
		Path:  "categories",
		Fields: []FieldSpec{
			{Name: "name", Type: FieldString, Required: true, Unique: true, MaxLength: 100},
			{Name: "description", Type: FieldString, MaxLength: 1000},
		},
	},
}

// Descriptors returns the descriptors of every kind that can be mutated
func Descriptors() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

// DescriptorFor looks up the descriptor of a mutable kind
func DescriptorFor(kind Kind) (Descriptor, error) {
	for _, d := range descriptors {
		if d.Kind == kind {
			return d, nil
		}
	}
	return Descriptor{}, fmt.Errorf("unknown record kind %q", kind)
}

// Field returns the spec of a named field
func (d Descriptor) Field(name string) (FieldSpec, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Columns returns the field names in declaration order
func (d Descriptor) Columns() []string {
	cols := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		cols[i] = f.Name
	}
	return cols
}

// Coerce checks fields against the descriptor and converts values to their
// canonical Go types (string, int64, time.Time). Unknown names, wrong types
// and nulls on required fields are rejected. With requireAll every required
// field must be present.
func (d Descriptor) Coerce(fields Fields, requireAll bool) (Fields, error) {
	var errs ValidationErrors
	out := make(Fields, len(fields))

	for name, value := range fields {
		spec, ok := d.Field(name)
		if !ok {
			errs = append(errs, ValidationError{Field: name, Message: fmt.Sprintf("unknown field %q for %s", name, d.Kind)})
			continue
		}

		if value == nil {
			if spec.Required {
				errs = append(errs, ValidationError{Field: name, Message: fmt.Sprintf("%s must not be null", name)})
				continue
			}
			out[name] = nil
			continue
		}

		converted, err := coerceValue(spec, value)
		if err != nil {
			errs = append(errs, ValidationError{Field: name, Message: err.Error()})
			continue
		}
		out[name] = converted
	}

	if requireAll {
		for _, spec := range d.Fields {
			if _, ok := fields[spec.Name]; !ok && spec.Required {
				errs = append(errs, ValidationError{Field: spec.Name, Message: fmt.Sprintf("%s is required", spec.Name)})
			}
		}
	}

	if errs.HasErrors() {
		return nil, errs
	}
	return out, nil
}

// ParseFilter converts list query parameters into an equality filter. Only
// "id" and non-secret fields may be used.
func (d Descriptor) ParseFilter(query url.Values) (Fields, error) {
	var errs ValidationErrors
	filter := make(Fields)

	for name, values := range query {
		raw := values[len(values)-1]

		if name == "id" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				errs = append(errs, ValidationError{Field: name, Message: "id must be an integer"})
				continue
			}
			filter[name] = id
			continue
		}

		spec, ok := d.Field(name)
		if !ok || spec.Secret {
			errs = append(errs, ValidationError{Field: name, Message: fmt.Sprintf("cannot filter %s by %q", d.Kind, name)})
			continue
		}

		var value any
		var err error
		if spec.Type == FieldInt {
			value, err = strconv.ParseInt(raw, 10, 64)
		} else {
			value, err = coerceValue(spec, raw)
		}
		if err != nil {
			errs = append(errs, ValidationError{Field: name, Message: fmt.Sprintf("%s must be a %s", name, spec.Type)})
			continue
		}
		filter[name] = value
	}

	if errs.HasErrors() {
		return nil, errs
	}
	return filter, nil
}

func coerceValue(spec FieldSpec, value any) (any, error) {
	switch spec.Type {
	case FieldString:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%s must be a string", spec.Name)
		}
		if spec.MaxLength > 0 && len(s) > spec.MaxLength {
			return nil, fmt.Errorf("%s must be at most %d characters", spec.Name, spec.MaxLength)
		}
		return s, nil

	case FieldInt:
		switch v := value.(type) {
		case int:
			return int64(v), nil
		case int32:
			return int64(v), nil
		case int64:
			return v, nil
		case float64:
			if v != math.Trunc(v) {
				return nil, fmt.Errorf("%s must be an integer", spec.Name)
			}
			return int64(v), nil
		case json.Number:
			n, err := v.Int64()
			if err != nil {
				return nil, fmt.Errorf("%s must be an integer", spec.Name)
			}
			return n, nil
		}
		return nil, fmt.Errorf("%s must be an integer", spec.Name)

	case FieldTime:
		switch v := value.(type) {
		case time.Time:
			return v.UTC(), nil
		case string:
			t, err := ParseTimestamp(strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("%s must be an RFC 3339 timestamp or YYYY-MM-DD date", spec.Name)
			}
			return t, nil
		}
		return nil, fmt.Errorf("%s must be a timestamp", spec.Name)
	}

	return nil, fmt.Errorf("%s has an unsupported type", spec.Name)
}
