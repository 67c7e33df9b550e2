package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/blogem/registry-api/database"
	"github.com/blogem/registry-api/models"
)

// RecordRepository performs table operations for any mutable record kind.
// Every call runs against the session it is given.
type RecordRepository interface {
	Insert(ctx context.Context, s database.Session, d models.Descriptor, fields models.Fields) (int64, error)
	GetByID(ctx context.Context, s database.Session, d models.Descriptor, id int64) (*models.Record, error)
	Update(ctx context.Context, s database.Session, d models.Descriptor, id int64, fields models.Fields) error
	Delete(ctx context.Context, s database.Session, d models.Descriptor, id int64) error
	List(ctx context.Context, s database.Session, d models.Descriptor, filter models.Fields) ([]models.Record, error)
	Count(ctx context.Context, s database.Session, d models.Descriptor, filter models.Fields) (int, error)
}

// recordRepository implements RecordRepository interface
type recordRepository struct {
	builder sq.StatementBuilderType
}

// NewRecordRepository creates a new record repository
func NewRecordRepository(db *database.DB) RecordRepository {
	return &recordRepository{builder: db.Builder()}
}

// Insert adds a row and returns the id assigned by the store
func (r *recordRepository) Insert(ctx context.Context, s database.Session, d models.Descriptor, fields models.Fields) (int64, error) {
	query, args, err := r.builder.
		Insert(d.Table).
		SetMap(map[string]any(fields)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build %s insert: %w", d.Kind, err)
	}

	var id int64
	if err := s.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, mapError(err, d, "create")
	}

	return id, nil
}

// GetByID retrieves a record by ID
func (r *recordRepository) GetByID(ctx context.Context, s database.Session, d models.Descriptor, id int64) (*models.Record, error) {
	query, args, err := r.selectColumns(d).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s select: %w", d.Kind, err)
	}

	record, err := scanRecord(s.QueryRowContext(ctx, query, args...), d)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s with ID %d: %w", d.Kind, id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", d.Kind, err)
	}

	return record, nil
}

// Update overwrites the given fields of an existing record
func (r *recordRepository) Update(ctx context.Context, s database.Session, d models.Descriptor, id int64, fields models.Fields) error {
	query, args, err := r.builder.
		Update(d.Table).
		SetMap(map[string]any(fields)).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build %s update: %w", d.Kind, err)
	}

	result, err := s.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err, d, "update")
	}

	return requireAffected(result, d, id)
}

// Delete deletes a record by ID
func (r *recordRepository) Delete(ctx context.Context, s database.Session, d models.Descriptor, id int64) error {
	query, args, err := r.builder.Delete(d.Table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build %s delete: %w", d.Kind, err)
	}

	result, err := s.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err, d, "delete")
	}

	return requireAffected(result, d, id)
}

// List retrieves the records matching every filter field, ordered by id
func (r *recordRepository) List(ctx context.Context, s database.Session, d models.Descriptor, filter models.Fields) ([]models.Record, error) {
	builder := r.selectColumns(d).OrderBy("id ASC")
	if len(filter) > 0 {
		builder = builder.Where(sq.Eq(filter))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s list: %w", d.Kind, err)
	}

	rows, err := s.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s records: %w", d.Kind, err)
	}
	defer rows.Close()

	records := []models.Record{}
	for rows.Next() {
		record, err := scanRecord(rows, d)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", d.Kind, err)
		}
		records = append(records, *record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s records: %w", d.Kind, err)
	}

	return records, nil
}

// Count returns the number of records matching the filter
func (r *recordRepository) Count(ctx context.Context, s database.Session, d models.Descriptor, filter models.Fields) (int, error) {
	builder := r.builder.Select("COUNT(*)").From(d.Table)
	if len(filter) > 0 {
		builder = builder.Where(sq.Eq(filter))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build %s count: %w", d.Kind, err)
	}

	var count int
	if err := s.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s records: %w", d.Kind, err)
	}

	return count, nil
}

func (r *recordRepository) selectColumns(d models.Descriptor) sq.SelectBuilder {
	return r.builder.Select(append([]string{"id"}, d.Columns()...)...).From(d.Table)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord reads id plus every descriptor column, converting NULLs to nil
func scanRecord(row rowScanner, d models.Descriptor) (*models.Record, error) {
	record := &models.Record{Kind: d.Kind, Fields: make(models.Fields, len(d.Fields))}

	dest := make([]any, 0, len(d.Fields)+1)
	dest = append(dest, &record.ID)
	for _, f := range d.Fields {
		switch f.Type {
		case models.FieldInt:
			dest = append(dest, &sql.NullInt64{})
		case models.FieldTime:
			dest = append(dest, &sql.NullTime{})
		default:
			dest = append(dest, &sql.NullString{})
		}
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	for i, f := range d.Fields {
		switch v := dest[i+1].(type) {
		case *sql.NullInt64:
			record.Fields[f.Name] = nullable(v.Valid, v.Int64)
		case *sql.NullTime:
			record.Fields[f.Name] = nullable(v.Valid, v.Time.UTC())
		case *sql.NullString:
			record.Fields[f.Name] = nullable(v.Valid, v.String)
		}
	}

	return record, nil
}

func nullable[T any](valid bool, v T) any {
	if !valid {
		return nil
	}
	return v
}

func requireAffected(result sql.Result, d models.Descriptor, id int64) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s with ID %d: %w", d.Kind, id, models.ErrNotFound)
	}
	return nil
}

// mapError turns unique violations into a ConflictError naming the field;
// everything else is wrapped as a store failure.
func mapError(err error, d models.Descriptor, op string) error {
	if database.IsUniqueViolation(err) {
		return &models.ConflictError{Kind: d.Kind, Field: database.UniqueViolationColumn(err)}
	}
	return fmt.Errorf("failed to %s %s: %w", op, d.Kind, err)
}
