package store

import "errors"

var (
	// ErrRecordNotFound wraps GORM's not found error for consistency
	ErrRecordNotFound = errors.New("record not found")

	// ErrStaleRecord is returned by UpdateToken when the row's version moved
	// on since it was read (0 rows updated). The caller lost a race.
	ErrStaleRecord = errors.New("record was modified concurrently")

	// ErrDisplayNameConflict is returned when a display name already exists
	ErrDisplayNameConflict = errors.New("display name already exists")
)
