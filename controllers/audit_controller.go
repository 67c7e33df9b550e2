package controllers

import (
	"net/http"
	"strconv"

	"github.com/blogem/registry-api/models"
	"github.com/blogem/registry-api/services"
)

const maxAuditLimit = 1000

// AuditController serves read access to the audit log
type AuditController struct {
	audit services.AuditService
}

// NewAuditController creates a new audit controller
func NewAuditController(audit services.AuditService) *AuditController {
	return &AuditController{audit: audit}
}

type auditListResponse struct {
	Items  []models.AuditEntry `json:"items"`
	Count  int                 `json:"count"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
}

// List handles GET /logs
func (c *AuditController) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseAuditFilter(r)
	if err != nil {
		writeError(w, r, models.KindLogEntry, err)
		return
	}

	entries, total, err := c.audit.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, models.KindLogEntry, err)
		return
	}

	writeJSON(w, http.StatusOK, auditListResponse{
		Items:  entries,
		Count:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// Get handles GET /logs/{id}
func (c *AuditController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, models.KindLogEntry, err)
		return
	}

	entry, err := c.audit.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, models.KindLogEntry, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// parseAuditFilter reads area, id_ref, limit and offset from the query
func parseAuditFilter(r *http.Request) (models.AuditFilter, error) {
	query := r.URL.Query()
	filter := models.AuditFilter{Limit: 100}
	var errs models.ValidationErrors

	for name := range query {
		switch name {
		case "area", "id_ref", "limit", "offset":
		default:
			errs = append(errs, models.ValidationError{Field: name, Message: "unknown query parameter " + strconv.Quote(name)})
		}
	}

	if area := query.Get("area"); area != "" {
		if _, err := models.DescriptorFor(models.Kind(area)); err != nil {
			errs = append(errs, models.ValidationError{Field: "area", Message: "unknown area " + strconv.Quote(area)})
		}
		filter.Area = models.Kind(area)
	}

	if raw := query.Get("id_ref"); raw != "" {
		ref, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			errs = append(errs, models.ValidationError{Field: "id_ref", Message: "id_ref must be an integer"})
		} else {
			filter.IDRef = &ref
		}
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxAuditLimit {
			errs = append(errs, models.ValidationError{Field: "limit", Message: "limit must be between 1 and " + strconv.Itoa(maxAuditLimit)})
		} else {
			filter.Limit = limit
		}
	}

	if raw := query.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			errs = append(errs, models.ValidationError{Field: "offset", Message: "offset must be a non-negative integer"})
		} else {
			filter.Offset = offset
		}
	}

	if errs.HasErrors() {
		return filter, errs
	}
	return filter, nil
}
