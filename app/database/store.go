package database

import (
	"database/sql"

	"alnoor-schools/app/ledger"
)

// Store is the Postgres-backed ledger store. All access goes through
// raw parameterized SQL; the engine owns every mutation of amounts and
// statuses, this layer only persists them.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open connection pool.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

var _ ledger.Store = (*Store)(nil)
