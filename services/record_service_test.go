package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/blogem/registry-api/models"
	"github.com/blogem/registry-api/repositories"
)

func TestRecordServiceReads(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewServices(db, repositories.NewRepositories(db), WithHashCost(bcrypt.MinCost))

	for _, name := range []string{"books", "music", "film"} {
		_, err := svc.Records.Create(ctx, models.KindCategory, models.Fields{"name": name})
		require.NoError(t, err)
	}

	records, count, err := svc.Records.List(ctx, models.KindCategory, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Len(t, records, 3)

	records, count, err = svc.Records.List(ctx, models.KindCategory, models.Fields{"name": "music"})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, "music", records[0].Get("name"))

	got, err := svc.Records.Get(ctx, models.KindCategory, records[0].ID)
	require.NoError(t, err)
	assert.Equal(t, records[0].ID, got.ID)

	_, err = svc.Records.Get(ctx, models.KindCategory, 0)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, _, err = svc.Records.List(ctx, models.KindLogEntry, nil)
	assert.ErrorIs(t, err, models.ErrValidation)

	err = svc.Records.Delete(ctx, models.KindCategory, -1)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAuditServiceReads(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewServices(db, repositories.NewRepositories(db), WithHashCost(bcrypt.MinCost))

	created, err := svc.Records.Create(ctx, models.KindPerson, models.Fields{"name": "Maria", "age": 30})
	require.NoError(t, err)
	require.NoError(t, svc.Records.Delete(ctx, models.KindPerson, created.ID))

	entries, total, err := svc.Audit.List(ctx, models.AuditFilter{Area: models.KindPerson, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, entries, 1)
	assert.Equal(t, "deleted from db: Person id=1", entries[0].Description)

	entry, err := svc.Audit.Get(ctx, entries[0].ID)
	require.NoError(t, err)
	assert.Equal(t, entries[0].Description, entry.Description)

	_, err = svc.Audit.Get(ctx, 404)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
