// Package state persists analysis run history using SQLite. It is a
// consumer of the analyzer's output: each run's per-model verdicts are
// recorded so later invocations can show tier drift between runs. The
// analysis core itself never touches this store.
package state

import (
	"time"

	"github.com/leapstack-labs/schemaprune/internal/analyzer"
)

// Run is one persisted analysis run.
type Run struct {
	ID           string
	CreatedAt    time.Time
	SchemaPath   string
	Mode         string
	ModelCount   int
	FilesScanned int
}

// ModelRecord is one model's verdict within a persisted run.
type ModelRecord struct {
	RunID       string
	Model       string
	Risk        analyzer.RiskLevel
	Confidence  int
	TotalFiles  int
	ServerFiles int
	ClientFiles int
	IsUsed      bool
	UsageTypes  string // comma-joined tag list
}

// Store is the persistence interface for run history.
type Store interface {
	Open(path string) error
	Close() error
	InitSchema() error

	SaveRun(run *Run, models []*ModelRecord) error
	ListRuns(limit int) ([]*Run, error)
	GetRunModels(runID string) ([]*ModelRecord, error)
	ModelHistory(model string, limit int) ([]*ModelRecord, error)
}
