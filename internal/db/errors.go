package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when an update or delete targets an unknown record.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateName is returned when a unique column already holds the value.
	ErrDuplicateName = errors.New("already exists")

	// ErrConnection is returned when the database cannot be opened or migrated.
	ErrConnection = errors.New("database connection failed")
)

// isDuplicate reports whether err is a unique constraint violation.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// notFound converts gorm.ErrRecordNotFound into a nil result.
func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
