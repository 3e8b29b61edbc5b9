package state

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver (pure Go)

	"github.com/leapstack-labs/schemaprune/internal/analyzer"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore creates a new SQLite store instance.
func NewSQLiteStore() *SQLiteStore {
	return &SQLiteStore{}
}

// Open opens a connection to the SQLite database.
// Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if path == ":memory:" {
		// Each pooled connection would otherwise see its own empty
		// in-memory database.
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InitSchema initializes the database schema.
func (s *SQLiteStore) InitSchema() error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// NewRunID creates a new unique run identifier.
func NewRunID() string {
	return uuid.New().String()
}

// SaveRun persists a run and its per-model records in one transaction.
// A zero run ID or CreatedAt is filled in.
func (s *SQLiteStore) SaveRun(run *Run, models []*ModelRecord) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if run.ID == "" {
		run.ID = NewRunID()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(
		`INSERT INTO runs (id, created_at, schema_path, mode, model_count, files_scanned)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt, run.SchemaPath, run.Mode, run.ModelCount, run.FilesScanned,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO run_models (run_id, model, risk, confidence, total_files, server_files, client_files, is_used, usage_types)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare model insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range models {
		m.RunID = run.ID
		_, err := stmt.Exec(
			m.RunID, m.Model, string(m.Risk), m.Confidence,
			m.TotalFiles, m.ServerFiles, m.ClientFiles,
			boolToInt(m.IsUsed), m.UsageTypes,
		)
		if err != nil {
			return fmt.Errorf("failed to insert model record %s: %w", m.Model, err)
		}
	}

	return tx.Commit()
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteStore) ListRuns(limit int) ([]*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, created_at, schema_path, mode, model_count, files_scanned
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		if err := rows.Scan(&run.ID, &run.CreatedAt, &run.SchemaPath, &run.Mode, &run.ModelCount, &run.FilesScanned); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRunModels returns the per-model records of a run, in model name order.
func (s *SQLiteStore) GetRunModels(runID string) ([]*ModelRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT run_id, model, risk, confidence, total_files, server_files, client_files, is_used, usage_types
		 FROM run_models WHERE run_id = ? ORDER BY model`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query run models: %w", err)
	}
	defer rows.Close()

	return scanModelRecords(rows)
}

// ModelHistory returns a model's verdicts across recent runs, newest first.
func (s *SQLiteStore) ModelHistory(model string, limit int) ([]*ModelRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT rm.run_id, rm.model, rm.risk, rm.confidence, rm.total_files, rm.server_files, rm.client_files, rm.is_used, rm.usage_types
		 FROM run_models rm JOIN runs r ON r.id = rm.run_id
		 WHERE rm.model = ? ORDER BY r.created_at DESC LIMIT ?`, model, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query model history: %w", err)
	}
	defer rows.Close()

	return scanModelRecords(rows)
}

func scanModelRecords(rows *sql.Rows) ([]*ModelRecord, error) {
	var records []*ModelRecord
	for rows.Next() {
		m := &ModelRecord{}
		var risk string
		var used int
		if err := rows.Scan(&m.RunID, &m.Model, &risk, &m.Confidence, &m.TotalFiles, &m.ServerFiles, &m.ClientFiles, &used, &m.UsageTypes); err != nil {
			return nil, fmt.Errorf("failed to scan model record: %w", err)
		}
		m.Risk = analyzer.RiskLevel(risk)
		m.IsUsed = used != 0
		records = append(records, m)
	}
	return records, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
