package database

import (
	"errors"

	"github.com/lib/pq"
)

// Postgres error code for unique_violation
const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation. The unique indexes are the backstop for the application-level
// existence pre-checks, which are not serialized against concurrent writes.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode
}
