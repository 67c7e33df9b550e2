package services

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/blogem/registry-api/database"
	"github.com/blogem/registry-api/models"
	"github.com/blogem/registry-api/repositories"
	"github.com/blogem/registry-api/userctx"
)

var fixedNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Initialize(context.Background(), "sqlite3", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to initialize test database")
	t.Cleanup(func() { db.Close() })

	return db
}

func newTestMutator(db *database.DB) (Mutator, *repositories.Repositories) {
	repos := repositories.NewRepositories(db)
	m := NewMutator(db, repos.Records, repos.Audit,
		WithHashCost(bcrypt.MinCost),
		WithClock(func() time.Time { return fixedNow }),
	)
	return m, repos
}

// MutatorTestSuite exercises the mutation helper against a real SQLite store
type MutatorTestSuite struct {
	suite.Suite
	ctx     context.Context
	db      *database.DB
	repos   *repositories.Repositories
	mutator Mutator
}

// SetupTest gives every test a fresh, migrated database
func (suite *MutatorTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.db = setupTestDB(suite.T())
	suite.mutator, suite.repos = newTestMutator(suite.db)
}

func (suite *MutatorTestSuite) auditEntries(filter models.AuditFilter) []models.AuditEntry {
	entries, err := suite.repos.Audit.List(suite.ctx, suite.db, filter)
	require.NoError(suite.T(), err)
	return entries
}

func (suite *MutatorTestSuite) recordCount(kind models.Kind) int {
	d, err := models.DescriptorFor(kind)
	require.NoError(suite.T(), err)
	n, err := suite.repos.Records.Count(suite.ctx, suite.db, d, nil)
	require.NoError(suite.T(), err)
	return n
}

// TestCreate_WritesOneAuditEntry tests that create assigns an id and logs it
func (suite *MutatorTestSuite) TestCreate_WritesOneAuditEntry() {
	record, err := suite.mutator.Create(suite.ctx, models.KindCategory, models.Fields{"name": "books", "description": "paper"})
	require.NoError(suite.T(), err)
	assert.NotZero(suite.T(), record.ID)
	assert.Equal(suite.T(), "books", record.Get("name"))

	entries := suite.auditEntries(models.AuditFilter{})
	require.Len(suite.T(), entries, 1)
	assert.Equal(suite.T(), models.KindCategory, entries[0].Area)
	require.NotNil(suite.T(), entries[0].IDRef)
	assert.Equal(suite.T(), record.ID, *entries[0].IDRef)
	assert.Equal(suite.T(), "add in db: Category:1", entries[0].Description)
	assert.Equal(suite.T(), "anonymous", entries[0].Actor)
	assert.True(suite.T(), fixedNow.Equal(entries[0].Timestamp))
}

// TestCreate_Conflict tests that a unique collision leaves no trace
func (suite *MutatorTestSuite) TestCreate_Conflict() {
	_, err := suite.mutator.Create(suite.ctx, models.KindSearchTerm, models.Fields{"text": "golang"})
	require.NoError(suite.T(), err)

	_, err = suite.mutator.Create(suite.ctx, models.KindSearchTerm, models.Fields{"text": "golang"})
	require.ErrorIs(suite.T(), err, models.ErrConflict)

	var conflict *models.ConflictError
	require.ErrorAs(suite.T(), err, &conflict)
	assert.Equal(suite.T(), "text", conflict.Field)

	assert.Equal(suite.T(), 1, suite.recordCount(models.KindSearchTerm))
	assert.Len(suite.T(), suite.auditEntries(models.AuditFilter{}), 1)
}

// TestCreate_RejectsUnknownAndMissingFields tests that invalid input writes nothing
func (suite *MutatorTestSuite) TestCreate_RejectsUnknownAndMissingFields() {
	_, err := suite.mutator.Create(suite.ctx, models.KindPerson, models.Fields{"name": "Maria", "age": 30, "is_admin": true})
	assert.ErrorIs(suite.T(), err, models.ErrValidation)

	_, err = suite.mutator.Create(suite.ctx, models.KindPerson, models.Fields{"name": "Maria"})
	assert.ErrorIs(suite.T(), err, models.ErrValidation)

	_, err = suite.mutator.Create(suite.ctx, models.KindLogEntry, models.Fields{"description": "forged"})
	assert.ErrorIs(suite.T(), err, models.ErrValidation)

	assert.Zero(suite.T(), suite.recordCount(models.KindPerson))
	assert.Empty(suite.T(), suite.auditEntries(models.AuditFilter{}))
}

// TestCreate_HashesSecrets tests that passwords are stored as bcrypt hashes
func (suite *MutatorTestSuite) TestCreate_HashesSecrets() {
	record, err := suite.mutator.Create(suite.ctx, models.KindUser, models.Fields{"username": "ana", "password": "x", "email": "a@a.com"})
	require.NoError(suite.T(), err)

	hash, ok := record.Get("password").(string)
	require.True(suite.T(), ok)
	assert.NotEqual(suite.T(), "x", hash)
	assert.NoError(suite.T(), bcrypt.CompareHashAndPassword([]byte(hash), []byte("x")))
	assert.NotContains(suite.T(), record.Projection(), "password")
}

// TestUpdate_ChangesOnlyGivenFields tests partial replacement and its audit entry
func (suite *MutatorTestSuite) TestUpdate_ChangesOnlyGivenFields() {
	created, err := suite.mutator.Create(suite.ctx, models.KindPerson, models.Fields{"name": "Maria", "age": 30})
	require.NoError(suite.T(), err)

	updated, err := suite.mutator.Update(suite.ctx, models.KindPerson, created.ID, models.Fields{"age": 31})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(31), updated.Get("age"))
	assert.Equal(suite.T(), "Maria", updated.Get("name"))

	entries := suite.auditEntries(models.AuditFilter{Area: models.KindPerson, IDRef: &created.ID})
	require.Len(suite.T(), entries, 2)
	assert.Equal(suite.T(), `updated in db: {"age":31}`, entries[0].Description)
}

// TestUpdate_MasksSecrets tests that the audit description never carries a password
func (suite *MutatorTestSuite) TestUpdate_MasksSecrets() {
	created, err := suite.mutator.Create(suite.ctx, models.KindUser, models.Fields{"username": "ana", "password": "x", "email": "a@a.com"})
	require.NoError(suite.T(), err)

	_, err = suite.mutator.Update(suite.ctx, models.KindUser, created.ID, models.Fields{"password": "hunter2"})
	require.NoError(suite.T(), err)

	entries := suite.auditEntries(models.AuditFilter{Area: models.KindUser})
	require.Len(suite.T(), entries, 2)
	assert.Equal(suite.T(), `updated in db: {"password":"***"}`, entries[0].Description)
	assert.NotContains(suite.T(), entries[0].Description, "hunter2")
}

// TestUpdate_NotFound tests that updating a missing record fails without logging
func (suite *MutatorTestSuite) TestUpdate_NotFound() {
	_, err := suite.mutator.Update(suite.ctx, models.KindCategory, 99, models.Fields{"name": "x"})
	assert.ErrorIs(suite.T(), err, models.ErrNotFound)
	assert.Empty(suite.T(), suite.auditEntries(models.AuditFilter{}))
}

// TestUpdate_Conflict tests that renaming onto a taken unique value is rolled back
func (suite *MutatorTestSuite) TestUpdate_Conflict() {
	_, err := suite.mutator.Create(suite.ctx, models.KindCategory, models.Fields{"name": "books"})
	require.NoError(suite.T(), err)
	music, err := suite.mutator.Create(suite.ctx, models.KindCategory, models.Fields{"name": "music"})
	require.NoError(suite.T(), err)

	_, err = suite.mutator.Update(suite.ctx, models.KindCategory, music.ID, models.Fields{"name": "books"})
	assert.ErrorIs(suite.T(), err, models.ErrConflict)
	assert.Len(suite.T(), suite.auditEntries(models.AuditFilter{}), 2)
}

// TestUpdate_RequiresFields tests that an empty update is rejected
func (suite *MutatorTestSuite) TestUpdate_RequiresFields() {
	_, err := suite.mutator.Update(suite.ctx, models.KindCategory, 1, models.Fields{})
	assert.ErrorIs(suite.T(), err, models.ErrValidation)

	_, err = suite.mutator.Update(suite.ctx, models.KindPerson, 1, models.Fields{"name": nil})
	assert.ErrorIs(suite.T(), err, models.ErrValidation)
}

// TestDelete_KeepsAuditTrail tests that the log outlives the deleted record
func (suite *MutatorTestSuite) TestDelete_KeepsAuditTrail() {
	created, err := suite.mutator.Create(suite.ctx, models.KindCategory, models.Fields{"name": "books"})
	require.NoError(suite.T(), err)

	require.NoError(suite.T(), suite.mutator.Delete(suite.ctx, models.KindCategory, created.ID))

	d, _ := models.DescriptorFor(models.KindCategory)
	_, err = suite.repos.Records.GetByID(suite.ctx, suite.db, d, created.ID)
	assert.ErrorIs(suite.T(), err, models.ErrNotFound)

	entries := suite.auditEntries(models.AuditFilter{Area: models.KindCategory, IDRef: &created.ID})
	require.Len(suite.T(), entries, 2)
	assert.Equal(suite.T(), "deleted from db: Category id=1", entries[0].Description)

	// A second delete is NotFound and leaves the log alone
	err = suite.mutator.Delete(suite.ctx, models.KindCategory, created.ID)
	assert.ErrorIs(suite.T(), err, models.ErrNotFound)
	assert.Len(suite.T(), suite.auditEntries(models.AuditFilter{}), 2)
}

// TestLog_UsesActorFromContext tests that the audit actor comes from the request user
func (suite *MutatorTestSuite) TestLog_UsesActorFromContext() {
	ctx := userctx.SetUserEmail(suite.ctx, "ops@example.com")

	entry, err := suite.mutator.Log(ctx, suite.db, models.KindUser, nil, "bulk import started")
	require.NoError(suite.T(), err)
	assert.NotZero(suite.T(), entry.ID)
	assert.Nil(suite.T(), entry.IDRef)

	stored, err := suite.repos.Audit.GetByID(suite.ctx, suite.db, entry.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "ops@example.com", stored.Actor)
	assert.Equal(suite.T(), "bulk import started", stored.Description)
}

// TestScenario_DuplicateUser walks through creating the same user twice
func (suite *MutatorTestSuite) TestScenario_DuplicateUser() {
	record, err := suite.mutator.Create(suite.ctx, models.KindUser, models.Fields{"username": "ana", "password": "x", "email": "a@a.com"})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), record.ID)

	body, err := json.Marshal(record)
	require.NoError(suite.T(), err)
	assert.NotContains(suite.T(), string(body), "password")
	assert.JSONEq(suite.T(), `{"id":1,"username":"ana","email":"a@a.com"}`, string(body))

	entries := suite.auditEntries(models.AuditFilter{})
	require.Len(suite.T(), entries, 1)
	assert.Equal(suite.T(), models.KindUser, entries[0].Area)
	assert.Equal(suite.T(), int64(1), *entries[0].IDRef)

	_, err = suite.mutator.Create(suite.ctx, models.KindUser, models.Fields{"username": "ana", "password": "y", "email": "b@b.com"})
	assert.ErrorIs(suite.T(), err, models.ErrConflict)
	assert.Len(suite.T(), suite.auditEntries(models.AuditFilter{}), 1)
	assert.Equal(suite.T(), 1, suite.recordCount(models.KindUser))
}

// TestMutatorTestSuite runs the mutator test suite
func TestMutatorTestSuite(t *testing.T) {
	suite.Run(t, new(MutatorTestSuite))
}
