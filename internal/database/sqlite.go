package database

import (
	"database/sql"
	"fmt"
	"log"

	_ "modernc.org/sqlite"
)

// SQLiteDB is the SQLite implementation of DB
type SQLiteDB struct {
	*BaseDB
}

// NewSQLite creates a new SQLite database connection
func NewSQLite(cfg Config) (*SQLiteDB, error) {
	dbPath := cfg.URL
	if dbPath == "" {
		dbPath = ".config/learn-tube.db"
	}

	// _busy_timeout=5000 - wait up to 5 seconds when database is locked
	// _txlock=immediate - acquire write lock immediately in transactions
	connStr := dbPath + "?_busy_timeout=5000&_txlock=immediate"
	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// SQLite doesn't benefit from multiple write connections
	db.SetMaxOpenConns(1)

	// WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		log.Printf("⚠️ Failed to enable WAL mode: %v", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		log.Printf("⚠️ Failed to set busy timeout: %v", err)
	}

	sqliteDB := &SQLiteDB{
		BaseDB: &BaseDB{
			DB:      db,
			dialect: DialectSQLite,
		},
	}

	log.Printf("📦 SQLite database initialized: %s", dbPath)
	return sqliteDB, nil
}
