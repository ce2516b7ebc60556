package tracestore

import (
	"context"
	"fmt"

	"github.com/roach88/framegraph/internal/frame"
)

// RecordRun writes one run and its full trace atomically. Idempotent: if
// the run token already exists, nothing is written and no error is
// returned, so retrying a pinned-token run is safe.
func (s *Store) RecordRun(ctx context.Context, runToken, scenarioName string, pass bool, trace []frame.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, `
		INSERT INTO runs (run_token, scenario_name, pass)
		VALUES (?, ?, ?)
		ON CONFLICT(run_token) DO NOTHING
	`, runToken, scenarioName, boolToInt(pass))
	if err != nil {
		return fmt.Errorf("record run: insert run: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("record run: rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// Run already recorded; the trace is immutable once written.
		return tx.Commit()
	}

	for _, ev := range trace {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO events (run_token, seq, kind, source, msg)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(run_token, seq) DO NOTHING
		`, runToken, ev.Seq, string(ev.Kind), ev.Source, ev.Msg); err != nil {
			return fmt.Errorf("record run: insert event seq %d: %w", ev.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record run: commit: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
