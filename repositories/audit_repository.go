package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"

	"github.com/blogem/registry-api/database"
	"github.com/blogem/registry-api/models"
)

// DefaultAuditLimit caps audit listings when the caller gives no limit
const DefaultAuditLimit = 100

var auditColumns = []string{"id", "timestamp", "description", "area", "id_ref", "actor"}

// AuditRepository handles audit log persistence
type AuditRepository interface {
	Create(ctx context.Context, s database.Session, entry *models.AuditEntry) error
	GetByID(ctx context.Context, s database.Session, id int64) (*models.AuditEntry, error)
	List(ctx context.Context, s database.Session, filter models.AuditFilter) ([]models.AuditEntry, error)
	Count(ctx context.Context, s database.Session, filter models.AuditFilter) (int, error)
}

type auditRepository struct {
	builder sq.StatementBuilderType
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *database.DB) AuditRepository {
	return &auditRepository{builder: db.Builder()}
}

// Create inserts a new audit log entry and fills in its ID
func (r *auditRepository) Create(ctx context.Context, s database.Session, entry *models.AuditEntry) error {
	query, args, err := r.builder.
		Insert("log_entries").
		Columns("timestamp", "description", "area", "id_ref", "actor").
		Values(entry.Timestamp.UTC(), entry.Description, string(entry.Area), entry.IDRef, entry.Actor).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build log entry insert: %w", err)
	}

	if err := s.QueryRowContext(ctx, query, args...).Scan(&entry.ID); err != nil {
		return fmt.Errorf("failed to create log entry: %w", err)
	}

	return nil
}

// GetByID retrieves a log entry by ID
func (r *auditRepository) GetByID(ctx context.Context, s database.Session, id int64) (*models.AuditEntry, error) {
	query, args, err := r.builder.
		Select(auditColumns...).
		From("log_entries").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build log entry select: %w", err)
	}

	var entry models.AuditEntry
	if err := sqlscan.Get(ctx, s, &entry, query, args...); err != nil {
		if sqlscan.NotFound(err) {
			return nil, fmt.Errorf("log entry with ID %d: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get log entry: %w", err)
	}

	return &entry, nil
}

// List retrieves log entries matching the filter, newest first
func (r *auditRepository) List(ctx context.Context, s database.Session, filter models.AuditFilter) ([]models.AuditEntry, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultAuditLimit
	}

	builder := applyAuditFilter(r.builder.Select(auditColumns...).From("log_entries"), filter).
		OrderBy("id DESC").
		Limit(uint64(limit))
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build log entry list: %w", err)
	}

	entries := []models.AuditEntry{}
	if err := sqlscan.Select(ctx, s, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list log entries: %w", err)
	}

	return entries, nil
}

// Count returns the number of log entries matching the filter, ignoring paging
func (r *auditRepository) Count(ctx context.Context, s database.Session, filter models.AuditFilter) (int, error) {
	query, args, err := applyAuditFilter(r.builder.Select("COUNT(*)").From("log_entries"), filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build log entry count: %w", err)
	}

	var count int
	if err := s.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count log entries: %w", err)
	}

	return count, nil
}

func applyAuditFilter(b sq.SelectBuilder, filter models.AuditFilter) sq.SelectBuilder {
	if filter.Area != "" {
		b = b.Where(sq.Eq{"area": string(filter.Area)})
	}
	if filter.IDRef != nil {
		b = b.Where(sq.Eq{"id_ref": *filter.IDRef})
	}
	return b
}
