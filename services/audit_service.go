package services

import (
	"context"

	"github.com/blogem/registry-api/database"
	"github.com/blogem/registry-api/models"
	"github.com/blogem/registry-api/repositories"
)

// AuditService reads the audit log. Entries are only ever written by the Mutator.
type AuditService interface {
	List(ctx context.Context, filter models.AuditFilter) ([]models.AuditEntry, int, error)
	Get(ctx context.Context, id int64) (*models.AuditEntry, error)
}

type auditService struct {
	db    database.Session
	audit repositories.AuditRepository
}

// NewAuditService creates a new audit service
func NewAuditService(db database.Session, audit repositories.AuditRepository) AuditService {
	return &auditService{db: db, audit: audit}
}

// List returns one page of entries and the total number matching the filter
func (s *auditService) List(ctx context.Context, filter models.AuditFilter) ([]models.AuditEntry, int, error) {
	entries, err := s.audit.List(ctx, s.db, filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.audit.Count(ctx, s.db, filter)
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// Get retrieves a log entry by ID
func (s *auditService) Get(ctx context.Context, id int64) (*models.AuditEntry, error) {
	return s.audit.GetByID(ctx, s.db, id)
}
