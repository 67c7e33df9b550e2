package services

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"

	"github.com/blogem/registry-api/database"
	"github.com/blogem/registry-api/models"
	"github.com/blogem/registry-api/repositories"
)

func setupPostgres(t *testing.T) *database.DB {
	t.Helper()

	if testing.Short() || os.Getenv("REGISTRY_PG_TESTS") == "" {
		t.Skip("set REGISTRY_PG_TESTS=1 to run PostgreSQL integration tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "testuser",
				"POSTGRES_PASSWORD": "testpass",
				"POSTGRES_DB":       "testdb",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "start container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())
	db, err := database.Initialize(ctx, "pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func TestMutatorOnPostgres(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()

	repos := repositories.NewRepositories(db)
	m := NewMutator(db, repos.Records, repos.Audit, WithHashCost(bcrypt.MinCost))

	user, err := m.Create(ctx, models.KindUser, models.Fields{"username": "ana", "password": "x", "email": "a@a.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)

	_, err = m.Create(ctx, models.KindUser, models.Fields{"username": "ana", "password": "y", "email": "b@b.com"})
	require.ErrorIs(t, err, models.ErrConflict)

	var conflict *models.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "username", conflict.Field)

	_, err = m.Update(ctx, models.KindUser, user.ID, models.Fields{"email": "ana@example.com"})
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, models.KindUser, user.ID))
	assert.ErrorIs(t, m.Delete(ctx, models.KindUser, user.ID), models.ErrNotFound)

	count, err := repos.Audit.Count(ctx, db, models.AuditFilter{Area: models.KindUser, IDRef: &user.ID})
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
