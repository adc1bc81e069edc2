// Package duckdb provides a queryable sink for extracted studied regions
// and expanded position records.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection for the extraction outputs.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS studied_regions (
		chrom VARCHAR,
		start_pos BIGINT,
		end_pos BIGINT,
		ref_allele VARCHAR,
		ref_build VARCHAR,
		patient_id VARCHAR,
		test_date VARCHAR,
		test_id VARCHAR,
		specimen_id VARCHAR,
		genomic_source_class VARCHAR,
		ratio_ad_dp DOUBLE,
		sample_position BIGINT
	)`)
	if err != nil {
		return fmt.Errorf("create studied_regions: %w", err)
	}

	_, err = s.db.Exec(`CREATE TABLE IF NOT EXISTS position_records (
		chrom VARCHAR,
		pos BIGINT,
		ref VARCHAR,
		alt VARCHAR,
		gt VARCHAR,
		filter VARCHAR,
		allelic_state VARCHAR,
		genomic_build VARCHAR,
		patient_id VARCHAR,
		test_date VARCHAR,
		test_id VARCHAR,
		specimen_id VARCHAR
	)`)
	if err != nil {
		return fmt.Errorf("create position_records: %w", err)
	}

	return nil
}
