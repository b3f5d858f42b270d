// Package db owns the in-process DuckDB handle used for aggregate queries
// over Claude session files.
package db

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "github.com/marcboeker/go-duckdb"
)

// Shared returns the process-wide in-memory DuckDB handle with the json
// extension loaded. The first call opens it; an open error is returned by
// every later call as well.
var Shared = sync.OnceValues(open)

func open() (*sql.DB, error) {
	conn, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open DuckDB: %w", err)
	}

	// The stats query is the only user; one connection is enough
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := loadJSON(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// loadJSON loads the json extension, installing it only when the build does
// not bundle it
func loadJSON(conn *sql.DB) error {
	if _, err := conn.Exec("LOAD json"); err == nil {
		return nil
	}
	if _, err := conn.Exec("INSTALL json"); err != nil {
		return fmt.Errorf("failed to install JSON extension: %w", err)
	}
	if _, err := conn.Exec("LOAD json"); err != nil {
		return fmt.Errorf("failed to load JSON extension: %w", err)
	}
	return nil
}

// QuoteLiteral quotes s as a SQL string literal. read_json takes its path
// argument as a literal, so it cannot be bound as a parameter.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
