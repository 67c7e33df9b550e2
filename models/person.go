package models

import "strings"

// PersonForm is the request body for creating or updating a person
type PersonForm struct {
	Name *string `json:"name"`
	Age  *int64  `json:"age"`
}

// Validate validates the person form data
func (f *PersonForm) Validate(partial bool) []string {
	var errors []string

	if f.Name != nil || !partial {
		if f.Name == nil || strings.TrimSpace(*f.Name) == "" {
			errors = append(errors, "Name is required")
		}
	}

	if f.Age != nil || !partial {
		if f.Age == nil {
			errors = append(errors, "Age is required")
		} else if *f.Age < 0 || *f.Age > 150 {
			errors = append(errors, "Age must be between 0 and 150")
		}
	}

	return errors
}

// Fields returns the fields present in the form
func (f *PersonForm) Fields() Fields {
	fields := Fields{}
	if f.Name != nil {
		fields["name"] = strings.TrimSpace(*f.Name)
	}
	if f.Age != nil {
		fields["age"] = *f.Age
	}
	return fields
}
