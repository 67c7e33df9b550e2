package models

import "time"

// AuditEntry records one mutation of a stored record. IDRef is a plain
// back-reference and may outlive the record it points at.
type AuditEntry struct {
	ID          int64     `json:"id" db:"id"`
	Timestamp   time.Time `json:"timestamp" db:"timestamp"`
	Description string    `json:"description" db:"description"`
	Area        Kind      `json:"area" db:"area"`
	IDRef       *int64    `json:"id_ref" db:"id_ref"`
	Actor       string    `json:"actor" db:"actor"`
}

// AuditFilter narrows audit log reads
type AuditFilter struct {
	Area   Kind
	IDRef  *int64
	Limit  int
	Offset int
}
