package models

import "fmt"

// Form is a decoded request body for one record kind
type Form interface {
	Validate(partial bool) []string
	Fields() Fields
}

// NewForm returns an empty form for the kind, ready for JSON decoding
func NewForm(kind Kind) (Form, error) {
	switch kind {
	case KindUser:
		return &UserForm{}, nil
	case KindPerson:
		return &PersonForm{}, nil
	case KindSearchTerm:
		return &SearchTermForm{}, nil
	case KindCategory:
		return &CategoryForm{}, nil
	default:
		return nil, fmt.Errorf("no form for record kind %q", kind)
	}
}
