package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/framegraph/internal/scenario"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// FileValidation holds the validation outcome for one scenario file.
type FileValidation struct {
	File   string   `json:"file"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// ValidationReport holds the overall validation result.
type ValidationReport struct {
	Files   []FileValidation `json:"files"`
	Valid   int              `json:"valid"`
	Invalid int              `json:"invalid"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <scenario.yaml>...",
		Short: "Validate scenario files",
		Long: `Validate scenario YAML files against the scenario schema.

Each file is checked twice: first against the CUE schema (shape, enums,
numeric bounds, exactly-one-operation rounds), then by the structural
loader (cross-field rules like per-assertion required fields).

Exit codes:
  0 - All files valid
  1 - One or more files invalid
  2 - Command error (file not found, etc.)

Examples:
  framegraph validate scenario.yaml
  framegraph validate scenarios/*.yaml --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *ValidateOptions, files []string, cmd *cobra.Command) error {
	for _, file := range files {
		if _, err := os.Stat(file); os.IsNotExist(err) {
			return NewExitError(ExitCommandError, fmt.Sprintf("scenario file not found: %s", file))
		}
	}

	report := ValidationReport{
		Files: make([]FileValidation, 0, len(files)),
	}

	for _, file := range files {
		fv := validateFile(file)
		report.Files = append(report.Files, fv)
		if fv.Valid {
			report.Valid++
		} else {
			report.Invalid++
		}
	}

	if opts.Format == "json" {
		return outputValidateJSON(cmd, report)
	}
	return outputValidateText(cmd, report)
}

// validateFile runs schema validation then the structural loader.
func validateFile(file string) FileValidation {
	fv := FileValidation{File: file, Valid: true}

	for _, ve := range scenario.ValidateFile(file) {
		fv.Valid = false
		fv.Errors = append(fv.Errors, ve.Error())
	}
	if !fv.Valid {
		return fv
	}

	if _, err := scenario.Load(file); err != nil {
		fv.Valid = false
		fv.Errors = append(fv.Errors, err.Error())
	}
	return fv
}

func outputValidateJSON(cmd *cobra.Command, report ValidationReport) error {
	formatter := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}

	if report.Invalid > 0 {
		if err := formatter.Error(ErrCodeSchema, fmt.Sprintf("%d file(s) invalid", report.Invalid), report); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%d file(s) invalid", report.Invalid))
	}
	return formatter.Success(report)
}

func outputValidateText(cmd *cobra.Command, report ValidationReport) error {
	w := cmd.OutOrStdout()

	for _, fv := range report.Files {
		if fv.Valid {
			fmt.Fprintf(w, "✓ %s\n", fv.File)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", fv.File)
		for _, e := range fv.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}

	fmt.Fprintf(w, "\n%d valid, %d invalid\n", report.Valid, report.Invalid)

	if report.Invalid > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d file(s) invalid", report.Invalid))
	}
	return nil
}
