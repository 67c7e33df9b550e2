package repositories

import (
	"github.com/blogem/registry-api/database"
)

// Repositories struct holds all repository interfaces
type Repositories struct {
	Records RecordRepository
	Audit   AuditRepository
}

// NewRepositories creates and initializes all repositories
func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Records: NewRecordRepository(db),
		Audit:   NewAuditRepository(db),
	}
}
