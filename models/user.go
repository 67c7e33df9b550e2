package models

import "strings"

// UserForm is the request body for creating or updating a user
type UserForm struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	Email    *string `json:"email"`
}

// Validate validates the user form data. Partial forms only check the
// fields that are present.
func (f *UserForm) Validate(partial bool) []string {
	var errors []string

	if f.Username != nil || !partial {
		if f.Username == nil || strings.TrimSpace(*f.Username) == "" {
			errors = append(errors, "Username is required")
		} else if strings.ContainsAny(*f.Username, " \t\n") {
			errors = append(errors, "Username must not contain whitespace")
		}
	}

	if f.Password != nil || !partial {
		if f.Password == nil || *f.Password == "" {
			errors = append(errors, "Password is required")
		}
	}

	if f.Email != nil || !partial {
		if f.Email == nil || *f.Email == "" {
			errors = append(errors, "Email is required")
		} else if !isValidEmail(*f.Email) {
			errors = append(errors, "Email format is invalid")
		}
	}

	return errors
}

// Fields returns the fields present in the form
func (f *UserForm) Fields() Fields {
	fields := Fields{}
	if f.Username != nil {
		fields["username"] = strings.TrimSpace(*f.Username)
	}
	if f.Password != nil {
		fields["password"] = *f.Password
	}
	if f.Email != nil {
		fields["email"] = strings.TrimSpace(*f.Email)
	}
	return fields
}

// isValidEmail performs basic email validation
func isValidEmail(email string) bool {
	// Simple validation: must contain @ and at least one dot after @
	atIndex := -1
	for i, char := range email {
		if char == '@' {
			if atIndex != -1 {
				return false // Multiple @ symbols
			}
			atIndex = i
		}
	}

	if atIndex == -1 || atIndex == 0 || atIndex == len(email)-1 {
		return false // No @, or @ at start/end
	}

	// Check for dot after @
	for i := atIndex + 1; i < len(email); i++ {
		if email[i] == '.' && i < len(email)-1 {
			return true
		}
	}

	return false
}
