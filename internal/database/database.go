package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Dialect represents the database dialect
type Dialect string

const (
	DialectSQLite     Dialect = "sqlite"
	DialectPostgreSQL Dialect = "postgresql"
)

// Config holds database configuration
type Config struct {
	Type     Dialect // sqlite or postgresql
	URL      string  // Connection string or SQLite path
	Host     string  // PostgreSQL host
	Port     int     // PostgreSQL port
	Name     string  // PostgreSQL database name
	User     string  // PostgreSQL user
	Password string  // PostgreSQL password
	SSLMode  string  // PostgreSQL SSL mode
}

// ConfigFromEnv creates a Config from environment variables
func ConfigFromEnv() Config {
	dbType := os.Getenv("DATABASE_TYPE")
	if dbType == "" {
		dbType = "sqlite"
	}

	cfg := Config{
		Type:     Dialect(dbType),
		URL:      os.Getenv("DATABASE_URL"),
		Host:     envOrDefault("DB_HOST", "localhost"),
		Port:     envAsIntOrDefault("DB_PORT", 5432),
		Name:     envOrDefault("DB_NAME", "learntube"),
		User:     envOrDefault("DB_USER", "learntube"),
		Password: os.Getenv("DB_PASSWORD"),
		SSLMode:  envOrDefault("DB_SSLMODE", "disable"),
	}

	// Default SQLite path
	if cfg.Type == DialectSQLite && cfg.URL == "" {
		cfg.URL = ".config/learn-tube.db"
	}

	return cfg
}

// DB abstracts SQLite and PostgreSQL behind a common surface
type DB interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row

	// Dialect information
	Dialect() Dialect

	// Connection management
	Ping() error
	Close() error
}

// BaseDB wraps *sql.DB with dialect information
type BaseDB struct {
	*sql.DB
	dialect Dialect
}

// New creates a new database connection based on configuration
func New(cfg Config) (DB, error) {
	switch cfg.Type {
	case DialectSQLite:
		return NewSQLite(cfg)
	case DialectPostgreSQL:
		return NewPostgreSQL(cfg)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}

// Dialect returns the database dialect
func (db *BaseDB) Dialect() Dialect {
	return db.dialect
}

// Exec executes a query with automatic placeholder conversion for PostgreSQL
func (db *BaseDB) Exec(query string, args ...interface{}) (sql.Result, error) {
	return db.DB.Exec(ConvertPlaceholders(query, db.dialect), args...)
}

// ExecContext executes a query with context and automatic placeholder conversion
func (db *BaseDB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return db.DB.ExecContext(ctx, ConvertPlaceholders(query, db.dialect), args...)
}

// Query executes a query with automatic placeholder conversion for PostgreSQL
func (db *BaseDB) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return db.DB.Query(ConvertPlaceholders(query, db.dialect), args...)
}

// QueryContext executes a query with context and automatic placeholder conversion
func (db *BaseDB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return db.DB.QueryContext(ctx, ConvertPlaceholders(query, db.dialect), args...)
}

// QueryRow executes a query returning a single row with automatic placeholder conversion
func (db *BaseDB) QueryRow(query string, args ...interface{}) *sql.Row {
	return db.DB.QueryRow(ConvertPlaceholders(query, db.dialect), args...)
}

// QueryRowContext executes a query with context returning a single row
func (db *BaseDB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return db.DB.QueryRowContext(ctx, ConvertPlaceholders(query, db.dialect), args...)
}

// ConvertPlaceholders converts ? placeholders to dialect-specific format
func ConvertPlaceholders(query string, dialect Dialect) string {
	if dialect != DialectPostgreSQL {
		return query
	}

	var result strings.Builder
	paramIndex := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			paramIndex++
			result.WriteString("$" + strconv.Itoa(paramIndex))
		} else {
			result.WriteByte(query[i])
		}
	}
	return result.String()
}

func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func envAsIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}
