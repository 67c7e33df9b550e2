package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/blogem/registry-api/models"
)

// TestCreateProperties checks that a create either assigns a fresh id and
// logs it once, or conflicts and leaves records and log untouched.
// Names are drawn from a small pool so collisions happen often.
func TestCreateProperties(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	m, repos := newTestMutator(db)
	categories, err := models.DescriptorFor(models.KindCategory)
	require.NoError(t, err)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 60
	properties := gopter.NewProperties(parameters)

	seen := map[string]bool{}
	var lastID int64

	properties.Property("create is logged exactly once or not at all", prop.ForAll(
		func(name string) bool {
			recordsBefore, err := repos.Records.Count(ctx, db, categories, nil)
			if err != nil {
				return false
			}
			logBefore, err := repos.Audit.Count(ctx, db, models.AuditFilter{})
			if err != nil {
				return false
			}

			record, err := m.Create(ctx, models.KindCategory, models.Fields{"name": name})

			recordsAfter, _ := repos.Records.Count(ctx, db, categories, nil)
			logAfter, _ := repos.Audit.Count(ctx, db, models.AuditFilter{})

			if seen[name] {
				return err != nil &&
					strings.Contains(err.Error(), models.ErrConflict.Error()) &&
					recordsAfter == recordsBefore &&
					logAfter == logBefore
			}

			if err != nil || record.ID <= lastID {
				return false
			}
			seen[name] = true
			lastID = record.ID

			entries, err := repos.Audit.List(ctx, db, models.AuditFilter{Area: models.KindCategory, IDRef: &record.ID})
			return err == nil &&
				len(entries) == 1 &&
				entries[0].Description == fmt.Sprintf("add in db: Category:%d", record.ID) &&
				recordsAfter == recordsBefore+1 &&
				logAfter == logBefore+1
		},
		gen.IntRange(0, 15).Map(func(i int) string { return fmt.Sprintf("category-%d", i) }),
	))

	properties.TestingRun(t)
}

// TestUpdateProperties checks that updating one field leaves the others alone
// and appends one entry describing the change.
func TestUpdateProperties(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	m, repos := newTestMutator(db)

	person, err := m.Create(ctx, models.KindPerson, models.Fields{"name": "Maria", "age": 30})
	require.NoError(t, err)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 40
	properties := gopter.NewProperties(parameters)

	properties.Property("update changes only the given field", prop.ForAll(
		func(age int) bool {
			logBefore, err := repos.Audit.Count(ctx, db, models.AuditFilter{})
			if err != nil {
				return false
			}

			updated, err := m.Update(ctx, models.KindPerson, person.ID, models.Fields{"age": age})
			if err != nil {
				return false
			}

			entries, err := repos.Audit.List(ctx, db, models.AuditFilter{Limit: 1})
			if err != nil || len(entries) != 1 {
				return false
			}
			logAfter, _ := repos.Audit.Count(ctx, db, models.AuditFilter{})

			return updated.Get("name") == "Maria" &&
				updated.Get("age") == int64(age) &&
				logAfter == logBefore+1 &&
				entries[0].Description == fmt.Sprintf(`updated in db: {"age":%d}`, age) &&
				*entries[0].IDRef == person.ID
		},
		gen.IntRange(0, 130),
	))

	properties.TestingRun(t)
}
