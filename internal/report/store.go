// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Courage-7/DocumentScrapper/pkg/types"
)

const dbFile = "runs.db"

// Store persists finalized reports to the run history SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the run history database at
// reportsDir/runs.db, creating the schema if needed.
func NewStore(reportsDir string) (*Store, error) {
	if reportsDir == "" {
		reportsDir = filepath.Join("data", "reports")
	}
	if err := os.MkdirAll(reportsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating reports directory: %w", err)
	}

	dbPath := filepath.Join(reportsDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening run database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id              TEXT PRIMARY KEY,
	class_id            TEXT NOT NULL,
	requested_at        TEXT NOT NULL,
	completed_at        TEXT,
	state               TEXT NOT NULL,
	abort_reason        TEXT,
	search_errors       TEXT,
	total_discovered    INTEGER NOT NULL,
	total_downloaded    INTEGER NOT NULL,
	total_validated_pass INTEGER NOT NULL,
	total_validated_fail INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS run_documents (
	run_id          TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
	document_id     TEXT NOT NULL,
	source_url      TEXT NOT NULL,
	title           TEXT,
	file_type       TEXT,
	discovered_at   TEXT,
	download_status TEXT,
	local_path      TEXT,
	byte_size       INTEGER,
	download_error  TEXT,
	attempt_count   INTEGER,
	passed          INTEGER,
	failed_rules    TEXT,
	PRIMARY KEY (run_id, document_id)
);
CREATE INDEX IF NOT EXISTS idx_runs_class ON runs(class_id, requested_at);
`
	_, err := s.db.Exec(schema)
	return err
}

// Save writes one finalized report and its per-document records in a
// single transaction.
func (s *Store) Save(ctx context.Context, r *types.AcquisitionReport) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var searchErrors []byte
	if len(r.SearchErrors) > 0 {
		searchErrors, err = json.Marshal(r.SearchErrors)
		if err != nil {
			return fmt.Errorf("marshaling search errors: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (run_id, class_id, requested_at, completed_at, state, abort_reason,
			search_errors, total_discovered, total_downloaded, total_validated_pass, total_validated_fail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.ClassID,
		r.RequestedAt.Format(time.RFC3339Nano), r.CompletedAt.Format(time.RFC3339Nano),
		string(r.State), r.AbortReason, string(searchErrors),
		r.TotalDiscovered, r.TotalDownloaded, r.TotalValidatedPass, r.TotalValidatedFail,
	)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", r.RunID, err)
	}

	for _, rec := range r.PerDocument {
		var (
			status, localPath, downloadErr string
			byteSize                       int64
			attempts                       int
			passed                         sql.NullBool
			failedRules                    []byte
		)
		if rec.Download != nil {
			status = string(rec.Download.Status)
			localPath = rec.Download.LocalPath
			downloadErr = rec.Download.Error
			byteSize = rec.Download.ByteSize
			attempts = rec.Download.AttemptCount
		}
		if rec.Verdict != nil {
			passed = sql.NullBool{Bool: rec.Verdict.Passed, Valid: true}
			if len(rec.Verdict.FailedRules) > 0 {
				failedRules, err = json.Marshal(rec.Verdict.FailedRules)
				if err != nil {
					return fmt.Errorf("marshaling failed rules for %s: %w", rec.Document.ID, err)
				}
			}
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_documents (run_id, document_id, source_url, title, file_type,
				discovered_at, download_status, local_path, byte_size, download_error,
				attempt_count, passed, failed_rules)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.RunID, rec.Document.ID, rec.Document.SourceURL, rec.Document.Title,
			rec.Document.FileTypeHint, rec.Document.DiscoveredAt.Format(time.RFC3339Nano),
			status, localPath, byteSize, downloadErr, attempts, passed, string(failedRules),
		)
		if err != nil {
			return fmt.Errorf("inserting document %s: %w", rec.Document.ID, err)
		}
	}

	return tx.Commit()
}

// RunSummary is one row of the run history listing.
type RunSummary struct {
	RunID           string
	ClassID         string
	RequestedAt     time.Time
	State           types.RunState
	TotalDiscovered int
	TotalDownloaded int
	TotalPass       int
	TotalFail       int
}

// List returns run summaries, most recent first.
func (s *Store) List(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, class_id, requested_at, state,
			total_discovered, total_downloaded, total_validated_pass, total_validated_fail
		FROM runs ORDER BY requested_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			sum          RunSummary
			requestedRaw string
			stateRaw     string
		)
		if err := rows.Scan(&sum.RunID, &sum.ClassID, &requestedRaw, &stateRaw,
			&sum.TotalDiscovered, &sum.TotalDownloaded, &sum.TotalPass, &sum.TotalFail); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		sum.RequestedAt, _ = time.Parse(time.RFC3339Nano, requestedRaw)
		sum.State = types.RunState(stateRaw)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Get reconstructs one saved report, including per-document records.
func (s *Store) Get(ctx context.Context, runID string) (*types.AcquisitionReport, error) {
	var (
		r                          types.AcquisitionReport
		requestedRaw, completedRaw string
		stateRaw                   string
		abortReason                sql.NullString
		searchErrorsRaw            sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT run_id, class_id, requested_at, completed_at, state, abort_reason, search_errors,
			total_discovered, total_downloaded, total_validated_pass, total_validated_fail
		FROM runs WHERE run_id = ?`, runID).Scan(
		&r.RunID, &r.ClassID, &requestedRaw, &completedRaw, &stateRaw, &abortReason, &searchErrorsRaw,
		&r.TotalDiscovered, &r.TotalDownloaded, &r.TotalValidatedPass, &r.TotalValidatedFail)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", runID, err)
	}
	r.RequestedAt, _ = time.Parse(time.RFC3339Nano, requestedRaw)
	r.CompletedAt, _ = time.Parse(time.RFC3339Nano, completedRaw)
	r.State = types.RunState(stateRaw)
	r.AbortReason = abortReason.String
	if searchErrorsRaw.String != "" {
		if err := json.Unmarshal([]byte(searchErrorsRaw.String), &r.SearchErrors); err != nil {
			return nil, fmt.Errorf("parsing search errors for run %s: %w", runID, err)
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT document_id, source_url, title, file_type, discovered_at,
			download_status, local_path, byte_size, download_error, attempt_count,
			passed, failed_rules
		FROM run_documents WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("loading documents for run %s: %w", runID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rec           types.DocumentRecord
			title         sql.NullString
			discoveredRaw sql.NullString
			status        sql.NullString
			localPath     sql.NullString
			byteSize      sql.NullInt64
			downloadErr   sql.NullString
			attempts      sql.NullInt64
			passed        sql.NullBool
			failedRaw     sql.NullString
		)
		if err := rows.Scan(&rec.Document.ID, &rec.Document.SourceURL, &title,
			&rec.Document.FileTypeHint, &discoveredRaw, &status, &localPath,
			&byteSize, &downloadErr, &attempts, &passed, &failedRaw); err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		rec.Document.ClassID = r.ClassID
		rec.Document.Title = title.String
		if discoveredRaw.Valid {
			rec.Document.DiscoveredAt, _ = time.Parse(time.RFC3339Nano, discoveredRaw.String)
		}
		if status.String != "" {
			rec.Download = &types.DownloadOutcome{
				DocumentID:   rec.Document.ID,
				Status:       types.DownloadStatus(status.String),
				LocalPath:    localPath.String,
				ByteSize:     byteSize.Int64,
				Error:        downloadErr.String,
				AttemptCount: int(attempts.Int64),
			}
		}
		if passed.Valid {
			verdict := &types.ValidationVerdict{DocumentID: rec.Document.ID, Passed: passed.Bool}
			if failedRaw.String != "" {
				if err := json.Unmarshal([]byte(failedRaw.String), &verdict.FailedRules); err != nil {
					return nil, fmt.Errorf("parsing failed rules for %s: %w", rec.Document.ID, err)
				}
			}
			rec.Verdict = verdict
		}
		r.PerDocument = append(r.PerDocument, rec)
	}
	return &r, rows.Err()
}
