// ABOUTME: Sentinel errors shared across storage, server and CLI.
// ABOUTME: Callers match with errors.Is to pick exit codes and HTTP statuses.
package babyerr

import "errors"

var (
	// ErrValidation marks input that cannot be stored: unknown metric,
	// missing subject, zero date or non-finite value.
	ErrValidation = errors.New("invalid measurement")

	// ErrUnavailable marks a database backend that cannot be reached.
	ErrUnavailable = errors.New("database unavailable")

	// ErrNotFound is returned when no record matches an ID or filter.
	ErrNotFound = errors.New("not found")

	// ErrAmbiguous is returned when an ID prefix matches more than one record.
	ErrAmbiguous = errors.New("ambiguous id prefix")
)
