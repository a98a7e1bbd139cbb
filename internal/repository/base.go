// Package repository provides data access layer implementations for the application.
package repository

import (
	"errors"
	"strings"

	"socialfeed/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// storeError maps a gorm error onto the application taxonomy. Missing rows
// become NOT_FOUND for resource; anything else is an accessor failure.
func storeError(operation, resource string, id interface{}, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewAccessorFailure(operation, err)
}

// accessorError wraps err as an accessor failure when non-nil.
func accessorError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return models.NewAccessorFailure(operation, err)
}

// isUniqueConstraintError reports whether err is a unique constraint
// violation from postgres or sqlite.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}
