package database

import (
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// SQLSTATE unique_violation
const pgUniqueViolation = "23505"

var pgKeyDetail = regexp.MustCompile(`^Key \(([^)]+)\)=`)

// IsUniqueViolation reports whether err was caused by a UNIQUE constraint
func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	return false
}

// UniqueViolationColumn extracts the offending column from a unique
// violation, or returns "" when the driver did not report one.
func UniqueViolationColumn(err error) string {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		// "UNIQUE constraint failed: users.username"
		_, cols, ok := strings.Cut(sqliteErr.Error(), "failed: ")
		if !ok {
			return ""
		}
		first, _, _ := strings.Cut(cols, ",")
		if _, col, ok := strings.Cut(strings.TrimSpace(first), "."); ok {
			return col
		}
		return ""
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// "Key (username)=(ana) already exists."
		if m := pgKeyDetail.FindStringSubmatch(pgErr.Detail); m != nil {
			first, _, _ := strings.Cut(m[1], ",")
			return strings.TrimSpace(first)
		}
	}

	return ""
}
