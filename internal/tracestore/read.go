package tracestore

import (
	"context"
	"fmt"

	"github.com/roach88/framegraph/internal/frame"
)

// RunRecord is one recorded execution.
type RunRecord struct {
	RunToken     string
	ScenarioName string
	Pass         bool
	RecordedAt   string
}

// ReadRun returns the run record for a token. Returns sql.ErrNoRows
// (wrapped) when the token is unknown.
func (s *Store) ReadRun(ctx context.Context, runToken string) (*RunRecord, error) {
	var rec RunRecord
	var pass int
	err := s.db.QueryRowContext(ctx, `
		SELECT run_token, scenario_name, pass, recorded_at
		FROM runs
		WHERE run_token = ?
	`, runToken).Scan(&rec.RunToken, &rec.ScenarioName, &pass, &rec.RecordedAt)
	if err != nil {
		return nil, fmt.Errorf("read run %q: %w", runToken, err)
	}
	rec.Pass = pass != 0
	return &rec, nil
}

// ReadTrace returns a run's events in seq order. Kind filters to one event
// kind when non-empty. Returns an empty slice, not nil, for a recorded run
// with no matching events.
func (s *Store) ReadTrace(ctx context.Context, runToken, kind string) ([]frame.Event, error) {
	query := `
		SELECT seq, kind, source, msg
		FROM events
		WHERE run_token = ?
	`
	args := []any{runToken}
	if kind != "" {
		query += " AND kind = ?"
		args = append(args, kind)
	}
	query += " ORDER BY seq ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query trace: %w", err)
	}
	defer rows.Close()

	events := []frame.Event{}
	for rows.Next() {
		var ev frame.Event
		var kindStr string
		if err := rows.Scan(&ev.Seq, &kindStr, &ev.Source, &ev.Msg); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Kind = frame.EventKind(kindStr)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trace: %w", err)
	}
	return events, nil
}

// ListRuns returns all recorded runs, newest token last. UUIDv7 tokens are
// time-sortable, so token order is creation order for CLI-generated runs.
func (s *Store) ListRuns(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_token, scenario_name, pass, recorded_at
		FROM runs
		ORDER BY run_token ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunRecord{}
	for rows.Next() {
		var rec RunRecord
		var pass int
		if err := rows.Scan(&rec.RunToken, &rec.ScenarioName, &pass, &rec.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.Pass = pass != 0
		runs = append(runs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// HasRun reports whether a run token has been recorded.
func (s *Store) HasRun(ctx context.Context, runToken string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM runs WHERE run_token = ?
	`, runToken).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check run: %w", err)
	}
	return count > 0, nil
}
