package store

import "errors"

type DatabaseType string

const (
	DBTypePostgres DatabaseType = "postgres"
	DBTypeSQLite   DatabaseType = "sqlite"
)

type DBConfig struct {
	DSN  string
	Type DatabaseType
}

// ErrDuplicateKey is returned when an insert hits a unique constraint,
// e.g. a second override for the same lesson and week.
var ErrDuplicateKey = errors.New("duplicate key")

