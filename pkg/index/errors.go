package index

import "errors"

var (
	// ErrObjectNotFound is returned when the requested object has no index row.
	ErrObjectNotFound = errors.New("object not found in index")

	// ErrDatabaseError is returned when a database operation fails.
	ErrDatabaseError = errors.New("database error")
)
