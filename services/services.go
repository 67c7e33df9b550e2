package services

import (
	"github.com/blogem/registry-api/database"
	"github.com/blogem/registry-api/repositories"
)

// Services holds all service instances
type Services struct {
	Mutator Mutator
	Records RecordService
	Audit   AuditService
}

// NewServices creates and initializes all service instances
func NewServices(db *database.DB, repos *repositories.Repositories, opts ...MutatorOption) *Services {
	mutator := NewMutator(db, repos.Records, repos.Audit, opts...)

	return &Services{
		Mutator: mutator,
		Records: NewRecordService(db, repos.Records, mutator),
		Audit:   NewAuditService(db, repos.Audit),
	}
}
