package db

import (
	"database/sql"
)

// Database is the lifecycle contract for a relational store: opened once at
// process start, injected where needed, closed at teardown.
type Database interface {
	Connect() error
	Close() error
	DB() *sql.DB
}
