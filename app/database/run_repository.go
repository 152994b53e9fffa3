package database

import (
	"fmt"
)

// RunRepository handles database operations for run history.
type RunRepository struct {
	db *DB
}

func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

// RecordRun persists one completed run and returns its ID.
func (r *RunRepository) RecordRun(run Run) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO runs (
			target_date, source_file, output_file,
			processed, date_matches, vinyl_matches,
			skipped_missing, skipped_date, skipped_format, skipped_price,
			parse_errors, products, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.TargetDate, run.SourceFile, run.OutputFile,
		run.Processed, run.DateMatches, run.VinylMatches,
		run.SkippedMissing, run.SkippedDate, run.SkippedFormat, run.SkippedPrice,
		run.ParseErrors, run.Products, run.DurationMS)
	if err != nil {
		return 0, fmt.Errorf("failed to record run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}
	return id, nil
}

// GetRecentRuns returns the most recent runs, newest first.
func (r *RunRepository) GetRecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(`
		SELECT id, target_date, source_file, output_file,
			processed, date_matches, vinyl_matches,
			skipped_missing, skipped_date, skipped_format, skipped_price,
			parse_errors, products, duration_ms, created_at
		FROM runs
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		err := rows.Scan(&run.ID, &run.TargetDate, &run.SourceFile, &run.OutputFile,
			&run.Processed, &run.DateMatches, &run.VinylMatches,
			&run.SkippedMissing, &run.SkippedDate, &run.SkippedFormat, &run.SkippedPrice,
			&run.ParseErrors, &run.Products, &run.DurationMS, &run.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// GetRunsForDate returns all runs recorded for one target date.
func (r *RunRepository) GetRunsForDate(targetDate string) ([]Run, error) {
	rows, err := r.db.Query(`
		SELECT id, target_date, source_file, output_file,
			processed, date_matches, vinyl_matches,
			skipped_missing, skipped_date, skipped_format, skipped_price,
			parse_errors, products, duration_ms, created_at
		FROM runs
		WHERE target_date = ?
		ORDER BY created_at DESC, id DESC
	`, targetDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs for date: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		err := rows.Scan(&run.ID, &run.TargetDate, &run.SourceFile, &run.OutputFile,
			&run.Processed, &run.DateMatches, &run.VinylMatches,
			&run.SkippedMissing, &run.SkippedDate, &run.SkippedFormat, &run.SkippedPrice,
			&run.ParseErrors, &run.Products, &run.DurationMS, &run.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}
