package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/blogem/registry-api/models"
	"github.com/blogem/registry-api/services"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

// Pinger reports whether the store is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Controllers holds all controller instances
type Controllers struct {
	Auth    *AuthController
	Index   *IndexController
	Records []*RecordController
	Audit   *AuditController
}

// NewControllers creates and initializes all controller instances
func NewControllers(services *services.Services, schemas *models.Schemas, db Pinger) *Controllers {
	descriptors := models.Descriptors()
	records := make([]*RecordController, 0, len(descriptors))
	for _, d := range descriptors {
		records = append(records, NewRecordController(d, services.Records, schemas))
	}

	return &Controllers{
		Auth:    NewAuthController(),
		Index:   NewIndexController(db),
		Records: records,
		Audit:   NewAuditController(services.Audit),
	}
}

// errorResponse is the body of every non-2xx JSON response
type errorResponse struct {
	Message string                   `json:"message"`
	Errors  []models.ValidationError `json:"errors,omitempty"`
}

// listResponse wraps collection reads
type listResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.Any("error", err))
	}
}

// writeError maps service errors onto HTTP responses. Anything that is not a
// validation, not-found or conflict error is logged and reported as a
// generic 500.
func writeError(w http.ResponseWriter, r *http.Request, kind models.Kind, err error) {
	var validation models.ValidationErrors
	var conflict *models.ConflictError

	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "validation failed", Errors: validation})
	case errors.Is(err, models.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
	case errors.Is(err, models.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: fmt.Sprintf("%s not found", kind)})
	case errors.As(err, &conflict):
		message := fmt.Sprintf("%s already exists", kind)
		if conflict.Field != "" {
			message = fmt.Sprintf("%s already in use", conflict.Field)
		}
		writeJSON(w, http.StatusConflict, errorResponse{Message: message})
	case errors.Is(err, models.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Message: fmt.Sprintf("%s already exists", kind)})
	default:
		slog.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal server error"})
	}
}

// parseID reads the {id} URL parameter
func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, models.NewValidationErrors("id", []string{"id must be a positive integer"})
	}
	return id, nil
}
