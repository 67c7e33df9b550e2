package models

import "strings"

// CategoryForm is the request body for creating or updating a category
type CategoryForm struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Validate validates the category form data
func (f *CategoryForm) Validate(partial bool) []string {
	var errors []string

	if f.Name != nil || !partial {
		if f.Name == nil || strings.TrimSpace(*f.Name) == "" {
			errors = append(errors, "Name is required")
		}
	}

	return errors
}

// Fields returns the fields present in the form
func (f *CategoryForm) Fields() Fields {
	fields := Fields{}
	if f.Name != nil {
		fields["name"] = strings.TrimSpace(*f.Name)
	}
	if f.Description != nil {
		fields["description"] = strings.TrimSpace(*f.Description)
	}
	return fields
}
