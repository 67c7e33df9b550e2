package services

import (
	"context"
	"fmt"

	"github.com/blogem/registry-api/database"
	"github.com/blogem/registry-api/models"
	"github.com/blogem/registry-api/repositories"
)

// RecordService interface defines record management business logic
type RecordService interface {
	List(ctx context.Context, kind models.Kind, filter models.Fields) ([]models.Record, int, error)
	Get(ctx context.Context, kind models.Kind, id int64) (*models.Record, error)
	Create(ctx context.Context, kind models.Kind, fields models.Fields) (*models.Record, error)
	Update(ctx context.Context, kind models.Kind, id int64, fields models.Fields) (*models.Record, error)
	Delete(ctx context.Context, kind models.Kind, id int64) error
}

// recordService implements RecordService interface
type recordService struct {
	db      database.Session
	records repositories.RecordRepository
	mutator Mutator
}

// NewRecordService creates a new record service. Reads run directly on db,
// mutations go through the mutator.
func NewRecordService(db database.Session, records repositories.RecordRepository, mutator Mutator) RecordService {
	return &recordService{
		db:      db,
		records: records,
		mutator: mutator,
	}
}

// List retrieves the records of a kind matching filter, plus their count
func (s *recordService) List(ctx context.Context, kind models.Kind, filter models.Fields) ([]models.Record, int, error) {
	d, err := models.DescriptorFor(kind)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	records, err := s.records.List(ctx, s.db, d, filter)
	if err != nil {
		return nil, 0, err
	}

	return records, len(records), nil
}

// Get retrieves a record by ID
func (s *recordService) Get(ctx context.Context, kind models.Kind, id int64) (*models.Record, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid %s ID %d: %w", kind, id, models.ErrNotFound)
	}

	d, err := models.DescriptorFor(kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	return s.records.GetByID(ctx, s.db, d, id)
}

// Create creates a new record
func (s *recordService) Create(ctx context.Context, kind models.Kind, fields models.Fields) (*models.Record, error) {
	return s.mutator.Create(ctx, kind, fields)
}

// Update updates an existing record
func (s *recordService) Update(ctx context.Context, kind models.Kind, id int64, fields models.Fields) (*models.Record, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid %s ID %d: %w", kind, id, models.ErrNotFound)
	}
	return s.mutator.Update(ctx, kind, id, fields)
}

// Delete permanently deletes a record
func (s *recordService) Delete(ctx context.Context, kind models.Kind, id int64) error {
	if id <= 0 {
		return fmt.Errorf("invalid %s ID %d: %w", kind, id, models.ErrNotFound)
	}
	return s.mutator.Delete(ctx, kind, id)
}
