package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/blogem/registry-api/database"
	"github.com/blogem/registry-api/models"
	"github.com/blogem/registry-api/repositories"
	"github.com/blogem/registry-api/userctx"
)

const maskedValue = "***"

// Transactor opens a transaction and hands it to fn as its session
type Transactor interface {
	RunInTx(ctx context.Context, fn func(s database.Session) error) error
}

// Mutator applies create, update and delete to any record kind and writes
// exactly one audit entry per successful mutation, in the same transaction.
type Mutator interface {
	Create(ctx context.Context, kind models.Kind, fields models.Fields) (*models.Record, error)
	Update(ctx context.Context, kind models.Kind, id int64, fields models.Fields) (*models.Record, error)
	Delete(ctx context.Context, kind models.Kind, id int64) error
	Log(ctx context.Context, s database.Session, kind models.Kind, idRef *int64, description string) (*models.AuditEntry, error)
}

// MutatorOption configures a Mutator
type MutatorOption func(*mutator)

// WithHashCost sets the bcrypt cost used for secret fields
func WithHashCost(cost int) MutatorOption {
	return func(m *mutator) { m.hashCost = cost }
}

// WithClock replaces the clock used to timestamp audit entries
func WithClock(now func() time.Time) MutatorOption {
	return func(m *mutator) { m.now = now }
}

type mutator struct {
	tx       Transactor
	records  repositories.RecordRepository
	audit    repositories.AuditRepository
	hashCost int
	now      func() time.Time
}

// NewMutator creates a new mutation helper
func NewMutator(tx Transactor, records repositories.RecordRepository, audit repositories.AuditRepository, opts ...MutatorOption) Mutator {
	m := &mutator{
		tx:       tx,
		records:  records,
		audit:    audit,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create inserts a record and logs "add in db: {kind}:{id}"
func (m *mutator) Create(ctx context.Context, kind models.Kind, fields models.Fields) (*models.Record, error) {
	d, values, err := m.prepare(kind, fields, true)
	if err != nil {
		return nil, err
	}

	var record *models.Record
	err = m.tx.RunInTx(ctx, func(s database.Session) error {
		id, err := m.records.Insert(ctx, s, d, values)
		if err != nil {
			return err
		}

		if _, err := m.Log(ctx, s, kind, &id, fmt.Sprintf("add in db: %s:%d", kind, id)); err != nil {
			return err
		}

		record, err = m.records.GetByID(ctx, s, d, id)
		return err
	})
	if err != nil {
		return nil, m.failed(ctx, "create", kind, 0, err)
	}

	slog.InfoContext(ctx, "record created", slog.String("kind", string(kind)), slog.Int64("id", record.ID))
	return record, nil
}

// Update overwrites only the given fields of an existing record and logs
// "updated in db: {fields}"
func (m *mutator) Update(ctx context.Context, kind models.Kind, id int64, fields models.Fields) (*models.Record, error) {
	if len(fields) == 0 {
		return nil, models.NewValidationErrors("fields", []string{"at least one field must be given"})
	}

	d, values, err := m.prepare(kind, fields, false)
	if err != nil {
		return nil, err
	}

	description, err := describeChanges(d, values)
	if err != nil {
		return nil, err
	}

	var record *models.Record
	err = m.tx.RunInTx(ctx, func(s database.Session) error {
		if _, err := m.records.GetByID(ctx, s, d, id); err != nil {
			return err
		}

		if err := m.records.Update(ctx, s, d, id, values); err != nil {
			return err
		}

		if _, err := m.Log(ctx, s, kind, &id, "updated in db: "+description); err != nil {
			return err
		}

		record, err = m.records.GetByID(ctx, s, d, id)
		return err
	})
	if err != nil {
		return nil, m.failed(ctx, "update", kind, id, err)
	}

	slog.InfoContext(ctx, "record updated", slog.String("kind", string(kind)), slog.Int64("id", id))
	return record, nil
}

// Delete removes an existing record and then logs
// "deleted from db: {kind} id={id}". The audit entry outlives the row.
func (m *mutator) Delete(ctx context.Context, kind models.Kind, id int64) error {
	d, err := m.descriptor(kind)
	if err != nil {
		return err
	}

	err = m.tx.RunInTx(ctx, func(s database.Session) error {
		if _, err := m.records.GetByID(ctx, s, d, id); err != nil {
			return err
		}

		if err := m.records.Delete(ctx, s, d, id); err != nil {
			return err
		}

		_, err := m.Log(ctx, s, kind, &id, fmt.Sprintf("deleted from db: %s id=%d", kind, id))
		return err
	})
	if err != nil {
		return m.failed(ctx, "delete", kind, id, err)
	}

	slog.InfoContext(ctx, "record deleted", slog.String("kind", string(kind)), slog.Int64("id", id))
	return nil
}

// Log writes a single audit entry on the given session. The actor is the
// authenticated user carried by ctx.
func (m *mutator) Log(ctx context.Context, s database.Session, kind models.Kind, idRef *int64, description string) (*models.AuditEntry, error) {
	entry := &models.AuditEntry{
		Timestamp:   m.now().UTC(),
		Description: description,
		Area:        kind,
		IDRef:       idRef,
		Actor:       userctx.GetUserEmail(ctx),
	}

	if err := m.audit.Create(ctx, s, entry); err != nil {
		return nil, fmt.Errorf("failed to write audit entry: %w", err)
	}

	return entry, nil
}

func (m *mutator) descriptor(kind models.Kind) (models.Descriptor, error) {
	d, err := models.DescriptorFor(kind)
	if err != nil {
		return models.Descriptor{}, models.NewValidationErrors("kind", []string{err.Error()})
	}
	return d, nil
}

// prepare resolves the descriptor, coerces the field values and hashes secrets
func (m *mutator) prepare(kind models.Kind, fields models.Fields, requireAll bool) (models.Descriptor, models.Fields, error) {
	d, err := m.descriptor(kind)
	if err != nil {
		return d, nil, err
	}

	values, err := d.Coerce(fields, requireAll)
	if err != nil {
		return d, nil, err
	}

	for _, spec := range d.Fields {
		plain, ok := values[spec.Name].(string)
		if !spec.Secret || !ok {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(plain), m.hashCost)
		if err != nil {
			return d, nil, fmt.Errorf("failed to hash %s: %w", spec.Name, err)
		}
		values[spec.Name] = string(hash)
	}

	return d, values, nil
}

// failed logs a failed mutation at a level matching its cause
func (m *mutator) failed(ctx context.Context, op string, kind models.Kind, id int64, err error) error {
	attrs := []any{slog.String("op", op), slog.String("kind", string(kind)), slog.Int64("id", id)}

	switch {
	case errors.Is(err, models.ErrConflict):
		slog.InfoContext(ctx, "mutation rejected by unique constraint", append(attrs, slog.String("error", err.Error()))...)
	case errors.Is(err, models.ErrNotFound):
		slog.DebugContext(ctx, "mutation target not found", attrs...)
	default:
		slog.ErrorContext(ctx, "mutation failed", append(attrs, slog.Any("error", err))...)
	}

	return err
}

// describeChanges renders the applied fields as a JSON object with secret
// values masked
func describeChanges(d models.Descriptor, values models.Fields) (string, error) {
	shown := make(map[string]any, len(values))
	for name, value := range values {
		if spec, ok := d.Field(name); ok && spec.Secret {
			shown[name] = maskedValue
			continue
		}
		shown[name] = value
	}

	b, err := json.Marshal(shown)
	if err != nil {
		return "", fmt.Errorf("failed to render changes: %w", err)
	}
	return string(b), nil
}
