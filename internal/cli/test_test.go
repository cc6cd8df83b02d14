package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	harnessScenarios = "../harness/testdata/scenarios"
	harnessGolden    = "../harness/testdata/golden"
)

const passingScenario = `name: quick_sale
description: One sale in one period
start: "2024-03-01T18:00"
steps:
  - begin_period: { id: 1, user: anna, cash: 1000, at: "2024-03-01T08:00" }
  - sale: { article: Tea, quantity: 1, price: 300, seller: anna, bill: "1", at: "2024-03-01T08:05" }
assertions:
  - type: trace_count
    kind: sale
    count: 1
`

func TestTestCommand_MissingArgs(t *testing.T) {
	_, err := execute(t, NewTestCommand, newTestOptions(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestTestCommand_NonexistentDir(t *testing.T) {
	_, err := execute(t, NewTestCommand, newTestOptions(t), "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommand_EmptyDir(t *testing.T) {
	opts := newTestOptions(t)
	dir := t.TempDir()

	out := mustExecute(t, NewTestCommand, opts, dir)
	assert.Contains(t, out, "No scenarios found")

	opts.Format = "json"
	out = mustExecute(t, NewTestCommand, opts, dir)
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestTestCommand_Help(t *testing.T) {
	out := mustExecute(t, NewTestCommand, newTestOptions(t), "--help")
	assert.Contains(t, out, "--update")
	assert.Contains(t, out, "--filter")
	assert.Contains(t, out, "--golden-dir")
}

func TestTestCommand_HarnessScenariosMatchGoldens(t *testing.T) {
	out := mustExecute(t, NewTestCommand, newTestOptions(t),
		harnessScenarios, "--golden-dir", harnessGolden)
	assert.Contains(t, out, "✓ full_day\n")
	assert.Contains(t, out, "✓ sale_without_period\n")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestCommand_FilterJSON(t *testing.T) {
	opts := newTestOptions(t)
	opts.Format = "json"

	out := mustExecute(t, NewTestCommand, opts,
		harnessScenarios, "--golden-dir", harnessGolden, "--filter", "staff_*")

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Data.Total)
	assert.Equal(t, "staff_bill_payment", resp.Data.Scenarios[0].Name)
}

func TestTestCommand_UpdateThenCompare(t *testing.T) {
	opts := newTestOptions(t)
	dir := t.TempDir()
	scenario := filepath.Join(dir, "quick_sale.yaml")
	require.NoError(t, os.WriteFile(scenario, []byte(passingScenario), 0o644))

	out := mustExecute(t, NewTestCommand, opts, dir, "--update")
	assert.Contains(t, out, "✓ quick_sale (golden updated)")

	golden := filepath.Join(dir, "golden", "quick_sale.golden")
	data, err := os.ReadFile(golden)
	require.NoError(t, err)
	assert.Contains(t, string(data), "scenario: quick_sale\n")

	mustExecute(t, NewTestCommand, opts, dir)

	require.NoError(t, os.WriteFile(golden, []byte("stale\n"), 0o644))
	out, err = execute(t, NewTestCommand, opts, dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "run with --update to regenerate")
	assert.Contains(t, out, "Test Summary: 0 passed, 1 failed, 1 total")
}

func TestTestCommand_FailingAssertion(t *testing.T) {
	opts := newTestOptions(t)
	dir := t.TempDir()
	failing := `name: wrong_count
description: Expects a sale that never happens
start: "2024-03-01T18:00"
steps:
  - begin_period: { id: 1, user: anna, cash: 0, at: "2024-03-01T08:00" }
assertions:
  - type: trace_count
    kind: sale
    count: 2
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wrong_count.yaml"), []byte(failing), 0o644))

	opts.Format = "json"
	out, err := execute(t, NewTestCommand, opts, dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E_TEST_FAILED", resp.Error.Code)
}

func TestFindScenarioFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a_sale.yaml", "b_close.yml", "notes.txt", "nested/c_sale.yaml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("name: x\n"), 0o644))
	}

	all, err := findScenarioFiles(dir, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	sales, err := findScenarioFiles(dir, "*_sale")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a_sale.yaml"),
		filepath.Join(dir, "nested", "c_sale.yaml"),
	}, sales)

	_, err = findScenarioFiles(dir, "[")
	assert.Error(t, err)
}

func TestGoldenFilePath(t *testing.T) {
	assert.Equal(t, filepath.Join("scenarios", "golden", "full_day.golden"),
		goldenFilePath(filepath.Join("scenarios", "full_day.yaml"), ""))
	assert.Equal(t, filepath.Join("out", "full_day.golden"),
		goldenFilePath(filepath.Join("scenarios", "full_day.yml"), "out"))
}
