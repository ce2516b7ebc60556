package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/framegraph/internal/frame"
	"github.com/roach88/framegraph/internal/scenario"
	"github.com/roach88/framegraph/internal/tracestore"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
	Live     bool

	// TokenGenerator allows overriding the run token generator (for
	// testing). If nil, defaults to UUIDv7Generator.
	TokenGenerator scenario.TokenGenerator
}

// RunReport is the run command's output payload.
type RunReport struct {
	Name     string   `json:"name"`
	RunToken string   `json:"run_token"`
	Pass     bool     `json:"pass"`
	Events   int      `json:"events"`
	Errors   []string `json:"errors,omitempty"`
	Summary  []string `json:"summary"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run one scenario",
		Long: `Run a single scenario against a fresh frame graph.

The scenario is schema-validated, loaded, and executed; the final state
summary and the assertion verdict are printed. With --db the full event
trace is recorded to a SQLite trace store under the run token. With
--live every model event is echoed to stdout as it is emitted.

Exit codes:
  0 - Scenario passed
  1 - Assertions failed
  2 - Command error (invalid file, schema violation, execution error)

Examples:
  framegraph run scenario.yaml
  framegraph run scenario.yaml --live
  framegraph run scenario.yaml --db ./traces.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarioFile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite trace store (optional)")
	cmd.Flags().BoolVar(&opts.Live, "live", false, "echo model events to stdout as they happen")

	return cmd
}

func runScenarioFile(opts *RunOptions, file string, cmd *cobra.Command) error {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})
	logger := slog.New(handler)

	if _, err := os.Stat(file); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenario file not found: %s", file))
	}

	logger.Debug("validating scenario", "file", file)
	if errs := scenario.ValidateFile(file); len(errs) > 0 {
		for _, ve := range errs {
			fmt.Fprintln(cmd.ErrOrStderr(), ve.Error())
		}
		return NewExitError(ExitCommandError, fmt.Sprintf("scenario %s failed schema validation", file))
	}

	s, err := scenario.Load(file)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}
	logger.Debug("scenario loaded", "name", s.Name, "rounds", len(s.Rounds), "assertions", len(s.Assertions))

	tokens := opts.TokenGenerator
	if tokens == nil {
		tokens = scenario.UUIDv7Generator{}
	}

	runOpts := []scenario.RunOption{scenario.WithTokenGenerator(tokens)}
	if opts.Live && opts.Format != "json" {
		runOpts = append(runOpts, scenario.WithEventSink(frame.WriterSink{W: cmd.OutOrStdout()}))
	}

	result, err := scenario.Run(s, runOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "scenario execution failed", err)
	}
	logger.Info("scenario executed", "name", s.Name, "run_token", result.RunToken, "events", len(result.Trace), "pass", result.Pass)

	if opts.Database != "" {
		if err := recordRun(cmd.Context(), opts.Database, s.Name, result, logger); err != nil {
			return err
		}
	}

	report := RunReport{
		Name:     s.Name,
		RunToken: result.RunToken,
		Pass:     result.Pass,
		Events:   len(result.Trace),
		Errors:   result.Errors,
		Summary:  result.Summary,
	}

	if opts.Format == "json" {
		return outputRunJSON(cmd, report)
	}
	return outputRunText(cmd, report)
}

func recordRun(ctx context.Context, path, name string, result *scenario.Result, logger *slog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := tracestore.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open trace store", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing trace store", "error", closeErr)
		}
	}()

	if err := st.RecordRun(ctx, result.RunToken, name, result.Pass, result.Trace); err != nil {
		return WrapExitError(ExitCommandError, "failed to record run", err)
	}
	logger.Info("run recorded", "run_token", result.RunToken, "db", path)
	return nil
}

func outputRunJSON(cmd *cobra.Command, report RunReport) error {
	formatter := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}

	if !report.Pass {
		if err := formatter.Error(ErrCodeAssertFailed, fmt.Sprintf("scenario %s failed", report.Name), report); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("scenario %s failed", report.Name))
	}
	return formatter.Success(report)
}

func outputRunText(cmd *cobra.Command, report RunReport) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "run %s (%d event(s))\n", report.RunToken, report.Events)
	for _, line := range report.Summary {
		fmt.Fprintf(w, "  %s\n", line)
	}

	if !report.Pass {
		fmt.Fprintf(w, "✗ %s\n", report.Name)
		for _, e := range report.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
		return NewExitError(ExitFailure, fmt.Sprintf("scenario %s failed", report.Name))
	}

	fmt.Fprintf(w, "✓ %s\n", report.Name)
	return nil
}
