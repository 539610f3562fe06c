// Package store is the postgres persistence layer for the CRM records the
// matching engine consumes: candidates, positions, tags, applications and
// the activity log.
package store

import (
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

type Store struct {
	db      *sql.DB
	builder sq.StatementBuilderType
	logger  *zap.Logger
}

// Open connects to postgres and tunes the connection pool.
func Open(dsn string, logger *zap.Logger) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return NewWithDB(db, logger), nil
}

// NewWithDB wires an existing sql.DB, used by tests.
func NewWithDB(db *sql.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		logger:  logger,
	}
}

func (s *Store) Close() error {
	return s.db.Close()
}
