package checkout

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// Business-rule rejections. These are ordinary outcomes of an operation, not
// storage failures; callers branch on them with errors.Is.
var (
	ErrUserNotFound    = errors.New("no such user")
	ErrItemNotFound    = errors.New("no such item")
	ErrLoanNotFound    = errors.New("no such loan")
	ErrItemUnavailable = errors.New("item is not available")
	ErrItemCheckedOut  = errors.New("cannot delete: item is checked out")
	ErrUserHasLoan     = errors.New("cannot delete: user has an active loan")
	ErrLoanReturned    = errors.New("loan already returned")
	ErrInvalidDays     = errors.New("loan period must be zero or more days")
)

// IsConstraint reports whether err is a SQLite constraint violation of any
// kind (unique, foreign key, check). The shell reports these generically
// instead of crashing.
func IsConstraint(err error) bool {
	var sqlErr sqlite3.Error
	return errors.As(err, &sqlErr) && sqlErr.Code == sqlite3.ErrConstraint
}

// isUniqueViolation matches only duplicate-key failures. Seeding swallows
// these and nothing else.
func isUniqueViolation(err error) bool {
	var sqlErr sqlite3.Error
	return errors.As(err, &sqlErr) && sqlErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
