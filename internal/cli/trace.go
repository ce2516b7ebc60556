package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/framegraph/internal/frame"
	"github.com/roach88/framegraph/internal/tracestore"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	RunToken string
	Kind     string // optional - filter to one event kind
}

// TraceReport holds one recorded run's timeline.
type TraceReport struct {
	RunToken     string        `json:"run_token"`
	ScenarioName string        `json:"scenario_name"`
	Pass         bool          `json:"pass"`
	RecordedAt   string        `json:"recorded_at"`
	Events       []frame.Event `json:"events"`
}

// RunListReport lists recorded runs.
type RunListReport struct {
	Runs []tracestore.RunRecord `json:"runs"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect recorded run traces",
		Long: `Inspect run traces recorded by "framegraph run --db".

Without --run, lists all recorded runs. With --run, prints that run's
event timeline in seq order; --kind narrows the timeline to one event
kind (adjust, propagate, perturb, ...).

Examples:
  framegraph trace --db ./traces.db
  framegraph trace --db ./traces.db --run 0190e4a2-...
  framegraph trace --db ./traces.db --run 0190e4a2-... --kind propagate
  framegraph trace --db ./traces.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite trace store (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunToken, "run", "", "run token to inspect")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "filter events to one kind")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := tracestore.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open trace store", err)
	}
	defer st.Close()

	if opts.RunToken == "" {
		return listRuns(ctx, opts, st, cmd)
	}
	return showRun(ctx, opts, st, cmd)
}

func listRuns(ctx context.Context, opts *TraceOptions, st *tracestore.Store, cmd *cobra.Command) error {
	runs, err := st.ListRuns(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}
		return formatter.Success(RunListReport{Runs: runs})
	}

	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	for _, r := range runs {
		verdict := "pass"
		if !r.Pass {
			verdict = "fail"
		}
		fmt.Fprintf(w, "%s  %s  %s  %s\n", r.RunToken, verdict, r.ScenarioName, r.RecordedAt)
	}
	return nil
}

func showRun(ctx context.Context, opts *TraceOptions, st *tracestore.Store, cmd *cobra.Command) error {
	rec, err := st.ReadRun(ctx, opts.RunToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", opts.RunToken))
		}
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	events, err := st.ReadTrace(ctx, opts.RunToken, opts.Kind)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read trace", err)
	}

	report := TraceReport{
		RunToken:     rec.RunToken,
		ScenarioName: rec.ScenarioName,
		Pass:         rec.Pass,
		RecordedAt:   rec.RecordedAt,
		Events:       events,
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}
		return formatter.Success(report)
	}

	w := cmd.OutOrStdout()
	verdict := "pass"
	if !report.Pass {
		verdict = "fail"
	}
	fmt.Fprintf(w, "run %s (%s, %s, recorded %s)\n", report.RunToken, report.ScenarioName, verdict, report.RecordedAt)
	for _, ev := range report.Events {
		fmt.Fprintf(w, "%6d  %-11s %s\n", ev.Seq, ev.Kind, ev.String())
	}
	return nil
}
