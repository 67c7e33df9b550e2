package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/blogem/registry-api/models"
	"github.com/blogem/registry-api/services"
)

// RecordController serves the CRUD routes of one record kind
type RecordController struct {
	descriptor models.Descriptor
	records    services.RecordService
	schemas    *models.Schemas
}

// NewRecordController creates a new record controller for a kind
func NewRecordController(d models.Descriptor, records services.RecordService, schemas *models.Schemas) *RecordController {
	return &RecordController{
		descriptor: d,
		records:    records,
		schemas:    schemas,
	}
}

// Path returns the URL path segment the controller is mounted under
func (c *RecordController) Path() string {
	return "/" + c.descriptor.Path
}

// Kind returns the record kind served by the controller
func (c *RecordController) Kind() models.Kind {
	return c.descriptor.Kind
}

// List handles GET /{kind}
func (c *RecordController) List(w http.ResponseWriter, r *http.Request) {
	filter, err := c.descriptor.ParseFilter(r.URL.Query())
	if err != nil {
		writeError(w, r, c.Kind(), err)
		return
	}

	records, count, err := c.records.List(r.Context(), c.Kind(), filter)
	if err != nil {
		writeError(w, r, c.Kind(), err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse[models.Record]{Items: records, Count: count})
}

// Get handles GET /{kind}/{id}
func (c *RecordController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, c.Kind(), err)
		return
	}

	record, err := c.records.Get(r.Context(), c.Kind(), id)
	if err != nil {
		writeError(w, r, c.Kind(), err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// Create handles POST /{kind}
func (c *RecordController) Create(w http.ResponseWriter, r *http.Request) {
	fields, err := c.decodeFields(w, r, false)
	if err != nil {
		writeError(w, r, c.Kind(), err)
		return
	}

	record, err := c.records.Create(r.Context(), c.Kind(), fields)
	if err != nil {
		writeError(w, r, c.Kind(), err)
		return
	}

	w.Header().Set("Location", c.Path()+"/"+strconv.FormatInt(record.ID, 10))
	writeJSON(w, http.StatusCreated, record)
}

// Update handles PUT and PATCH /{kind}/{id}. Both replace only the fields
// present in the body.
func (c *RecordController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, c.Kind(), err)
		return
	}

	fields, err := c.decodeFields(w, r, true)
	if err != nil {
		writeError(w, r, c.Kind(), err)
		return
	}

	record, err := c.records.Update(r.Context(), c.Kind(), id, fields)
	if err != nil {
		writeError(w, r, c.Kind(), err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// Delete handles DELETE /{kind}/{id}
func (c *RecordController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, c.Kind(), err)
		return
	}

	if err := c.records.Delete(r.Context(), c.Kind(), id); err != nil {
		writeError(w, r, c.Kind(), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decodeFields reads the JSON body, checks it against the kind's schema and
// the form rules, and returns the fields to write. Explicit nulls are kept so
// optional fields can be cleared.
func (c *RecordController) decodeFields(w http.ResponseWriter, r *http.Request, partial bool) (models.Fields, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, models.NewValidationErrors("body", []string{"request body too large"})
		}
		return nil, err
	}

	doc, err := decodeDocument(body)
	if err != nil {
		return nil, err
	}

	if err := c.schemas.Validate(c.Kind(), partial, doc); err != nil {
		return nil, err
	}

	form, err := models.NewForm(c.Kind())
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, form); err != nil {
		return nil, models.NewValidationErrors("body", []string{err.Error()})
	}
	if messages := form.Validate(partial); len(messages) > 0 {
		return nil, models.NewValidationErrors(string(c.Kind()), messages)
	}

	fields := form.Fields()
	if object, ok := doc.(map[string]any); ok {
		for name, value := range object {
			if value == nil {
				fields[name] = nil
			}
		}
	}
	return fields, nil
}

// decodeDocument parses a JSON body keeping numbers exact
func decodeDocument(body []byte) (any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, models.NewValidationErrors("body", []string{"request body is required"})
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, models.NewValidationErrors("body", []string{"request body must be valid JSON"})
	}
	if dec.More() {
		return nil, models.NewValidationErrors("body", []string{"request body must hold a single JSON value"})
	}
	return doc, nil
}
