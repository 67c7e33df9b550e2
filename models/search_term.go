package models

import (
	"strings"
	"time"
)

// SearchTermForm is the request body for recording a search
type SearchTermForm struct {
	Text       *string    `json:"text"`
	SearchedAt *time.Time `json:"searched_at"`
}

// Validate validates the search term form data
func (f *SearchTermForm) Validate(partial bool) []string {
	var errors []string

	if f.Text != nil || !partial {
		if f.Text == nil || strings.TrimSpace(*f.Text) == "" {
			errors = append(errors, "Text is required")
		}
	}

	if f.SearchedAt != nil && f.SearchedAt.After(time.Now().Add(time.Minute)) {
		errors = append(errors, "Searched at must not be in the future")
	}

	return errors
}

// Fields returns the fields present in the form
func (f *SearchTermForm) Fields() Fields {
	fields := Fields{}
	if f.Text != nil {
		fields["text"] = strings.TrimSpace(*f.Text)
	}
	if f.SearchedAt != nil {
		fields["searched_at"] = f.SearchedAt.UTC()
	}
	return fields
}
