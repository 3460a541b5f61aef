package app

import (
	"fmt"
	"strings"

	"github.com/shrimpsizemoose/timetable/internal/store"
	"github.com/shrimpsizemoose/timetable/internal/store/postgres"
	"github.com/shrimpsizemoose/timetable/internal/store/sqlite"
)

func dbConfigFromDSN(dsn string) store.DBConfig {
	cfg := store.DBConfig{DSN: dsn, Type: store.DBTypeSQLite}
	if strings.HasPrefix(dsn, "postgres") {
		cfg.Type = store.DBTypePostgres
	}
	return cfg
}

func NewStore(dsn string) (store.LessonStore, error) {
	cfg := dbConfigFromDSN(dsn)

	switch cfg.Type {
	case store.DBTypePostgres:
		return postgres.NewPostgresStore(cfg.DSN)
	case store.DBTypeSQLite:
		return sqlite.NewSQLiteStore(cfg.DSN)
	default:
		return nil, fmt.Errorf("unable to determine database type from DSN: %s", dsn)
	}
}
