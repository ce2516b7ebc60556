package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestCommand_AllPassing(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "good.yaml", validScenarioYAML)

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"test", dir})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "✓ perturb-reseal")
	assert.Contains(t, out.String(), "Test Summary: 1 passed, 0 failed, 1 total")
	assert.Contains(t, out.String(), "✓ All scenarios passed")
}

func TestTestCommand_FailuresReported(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "good.yaml", validScenarioYAML)
	writeScenario(t, dir, "doomed.yaml", failingScenarioYAML)

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"test", dir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out.String(), "✗ doomed")
	assert.Contains(t, out.String(), "Test Summary: 1 passed, 1 failed, 2 total")
}

func TestTestCommand_Filter(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "good.yaml", validScenarioYAML)
	writeScenario(t, dir, "doomed.yaml", failingScenarioYAML)

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"test", dir, "--filter", "good"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Test Summary: 1 passed, 0 failed, 1 total")
}

func TestTestCommand_GoldenUpdateAndCompare(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "good.yaml", validScenarioYAML)

	// First pass writes the golden file.
	update := NewRootCommand()
	var updateOut bytes.Buffer
	update.SetOut(&updateOut)
	update.SetErr(io.Discard)
	update.SetArgs([]string{"test", dir, "--update"})
	require.NoError(t, update.Execute())
	assert.Contains(t, updateOut.String(), "✓ perturb-reseal (golden updated)")

	goldenPath := filepath.Join(dir, "golden", "good.golden")
	golden, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Contains(t, string(golden), `"scenario_name":"perturb-reseal"`)

	// Second pass compares and matches.
	compare := NewRootCommand()
	var compareOut bytes.Buffer
	compare.SetOut(&compareOut)
	compare.SetErr(io.Discard)
	compare.SetArgs([]string{"test", dir})
	require.NoError(t, compare.Execute())
	assert.Contains(t, compareOut.String(), "✓ perturb-reseal")

	// A tampered golden file fails the comparison.
	require.NoError(t, os.WriteFile(goldenPath, []byte("{}"), 0644))
	tampered := NewRootCommand()
	var tamperedOut bytes.Buffer
	tampered.SetOut(&tamperedOut)
	tampered.SetErr(io.Discard)
	tampered.SetArgs([]string{"test", dir})
	err = tampered.Execute()
	require.Error(t, err)
	assert.Contains(t, tamperedOut.String(), "trace does not match golden file")
}

func TestTestCommand_MissingDirectory(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"test", "/nonexistent/scenarios"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommand_EmptyDirectory(t *testing.T) {
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"test", t.TempDir()})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "No scenarios found.")
}
