package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const validScenarioYAML = `name: perturb-reseal
description: "perturb below threshold, then reseal"
run_token: cli-run
seed:
  nodes:
    - label: inside
      state: 0.0
    - label: outside
      state: 0.05
  frames:
    - id: base
      nodes: [inside, outside]
  boundaries:
    - id: membrane
      frame: base
      nodes: [inside]
rounds:
  - perturb:
      boundary: membrane
      amount: 0.4
  - seal:
      boundary: membrane
assertions:
  - type: coherence
    boundary: membrane
    value: 1.0
  - type: sealed
    boundary: membrane
    sealed: true
`

const failingScenarioYAML = `name: doomed
description: "assertion cannot hold"
run_token: cli-fail
seed:
  nodes:
    - label: a
      state: 0.5
  frames:
    - id: base
      nodes: [a]
assertions:
  - type: node_state
    node: a
    value: 99.0
`

// invalid against the schema: a round with two operations.
const invalidScenarioYAML = `name: broken
description: "round with two operations"
seed:
  nodes:
    - label: a
  frames:
    - id: base
rounds:
  - seal: {boundary: b}
    adjust: {frame: base}
assertions:
  - type: node_count
    count: 1
`

// writeScenario writes scenario YAML into dir and returns its path.
func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
