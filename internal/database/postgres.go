package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"
)

// PostgreSQLDB is the PostgreSQL implementation of DB
type PostgreSQLDB struct {
	*BaseDB
}

// NewPostgreSQL creates a new PostgreSQL database connection
func NewPostgreSQL(cfg Config) (*PostgreSQLDB, error) {
	connStr := cfg.URL
	if connStr == "" {
		connStr = buildPostgresConnString(cfg)
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pgDB := &PostgreSQLDB{
		BaseDB: &BaseDB{
			DB:      db,
			dialect: DialectPostgreSQL,
		},
	}

	log.Printf("📦 PostgreSQL database initialized: %s@%s:%d/%s", cfg.User, cfg.Host, cfg.Port, cfg.Name)
	return pgDB, nil
}

// buildPostgresConnString builds a connection string from individual settings
func buildPostgresConnString(cfg Config) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.Name, cfg.User, cfg.Password, sslMode)
}
