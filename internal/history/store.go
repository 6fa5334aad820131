// Package history archives finished pipeline runs in SQLite so past topics,
// scores and stage outcomes can be reviewed later.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/amara/inkflow/internal/models"
)

//go:embed schema.sql
var schemaSQL string

// Run is one archived pipeline run.
type Run struct {
	RunID         string
	Topic         string
	OverallScore  float64
	Approved      bool
	FailureReason string
	Stages        map[models.StageName]models.StageStatus
	StartedAt     time.Time
	FinishedAt    time.Time
}

// Store manages the SQLite run archive.
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the archive at dbPath. ":memory:" is
// accepted for tests.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordRun archives a finished run.
func (s *Store) RecordRun(ctx context.Context, rec *models.RunRecord) error {
	stagesJSON := "{}"
	if len(rec.Stages) > 0 {
		data, err := json.Marshal(rec.Stages)
		if err != nil {
			return fmt.Errorf("marshal stage statuses: %w", err)
		}
		stagesJSON = string(data)
	}

	var score float64
	var approved bool
	if rec.Evaluation != nil {
		score = rec.Evaluation.OverallScore
		approved = rec.Evaluation.Approved
	}

	query := `INSERT INTO runs
		(run_id, topic, overall_score, approved, best_draft, stages, failure_reason, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		rec.RunID,
		rec.Topic,
		score,
		approved,
		rec.BestDraft,
		stagesJSON,
		rec.FailureReason,
		rec.StartedAt,
		rec.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecentRuns returns the most recent runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT run_id, topic, overall_score, approved, stages, failure_reason, started_at, finished_at
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		var stagesJSON string
		if err := rows.Scan(
			&run.RunID,
			&run.Topic,
			&run.OverallScore,
			&run.Approved,
			&stagesJSON,
			&run.FailureReason,
			&run.StartedAt,
			&run.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if err := json.Unmarshal([]byte(stagesJSON), &run.Stages); err != nil {
			return nil, fmt.Errorf("unmarshal stage statuses: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// TopicRuns returns all archived runs for one topic, newest first.
func (s *Store) TopicRuns(ctx context.Context, topic string) ([]*Run, error) {
	query := `SELECT run_id, topic, overall_score, approved, stages, failure_reason, started_at, finished_at
		FROM runs
		WHERE topic = ?
		ORDER BY started_at DESC`

	rows, err := s.db.QueryContext(ctx, query, topic)
	if err != nil {
		return nil, fmt.Errorf("query topic runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		var stagesJSON string
		if err := rows.Scan(
			&run.RunID,
			&run.Topic,
			&run.OverallScore,
			&run.Approved,
			&stagesJSON,
			&run.FailureReason,
			&run.StartedAt,
			&run.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if err := json.Unmarshal([]byte(stagesJSON), &run.Stages); err != nil {
			return nil, fmt.Errorf("unmarshal stage statuses: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
