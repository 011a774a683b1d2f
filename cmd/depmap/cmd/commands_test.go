// # cmd/depmap/cmd/commands_test.go
package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depmap/internal/history"
)

// writeProject lays down a small Python project with one import cycle.
func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"main.py": "import pkga\n",
		"pkga.py": "import pkgb\nimport os\n",
		"pkgb.py": "import pkga\n",
		"util.py": "import json\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestScanCommand(t *testing.T) {
	dir := writeProject(t)

	out, err := executeCommand(t, "scan", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "[OK] Scan complete: "+dir)
	assert.Contains(t, out, "Files: 4 | Modules: 4")
}

func TestScanCommandJSON(t *testing.T) {
	dir := writeProject(t)
	defer func() { scanJSON = false }()

	out, err := executeCommand(t, "scan", dir, "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"depmap_version"`)
	assert.Contains(t, out, `"circular_import_count": 1`)
}

func TestCircularCommandExitsWithSentinel(t *testing.T) {
	dir := writeProject(t)

	out, err := executeCommand(t, "circular", dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errCyclesFound))
	assert.Contains(t, out, "[!] Found 1 circular import chain(s):")
	assert.Contains(t, out, "Cycle 1: pkga -> pkgb -> pkga")
}

func TestCircularCommandCleanProject(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib.py"), []byte("import os\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.py"), []byte("import lib\n"), 0o644))

	out, err := executeCommand(t, "circular", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "[OK] No circular imports detected!")
}

func TestTreeCommand(t *testing.T) {
	dir := writeProject(t)

	out, err := executeCommand(t, "tree", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "DEPENDENCY TREE")
	assert.Contains(t, out, "[circular]")
}

func TestTreeCommandUnknownModule(t *testing.T) {
	dir := writeProject(t)
	defer func() { treeModule = "" }()

	out, err := executeCommand(t, "tree", dir, "--module", "ghost")
	require.NoError(t, err)
	assert.Contains(t, out, "[!] Module 'ghost' not found in scan results.")
}

func TestMetricsCommand(t *testing.T) {
	dir := writeProject(t)

	out, err := executeCommand(t, "metrics", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "COUPLING METRICS")
	assert.Contains(t, out, "pkga")
	assert.Contains(t, out, "[!]")
}

func TestMetricsCommandBadSort(t *testing.T) {
	dir := writeProject(t)
	defer func() { metricsSort = "instability" }()

	_, err := executeCommand(t, "metrics", dir, "--sort", "bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sort key")
}

func TestOrphansCommand(t *testing.T) {
	dir := writeProject(t)

	out, err := executeCommand(t, "orphans", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "ORPHAN MODULES")
	assert.Contains(t, out, "main (entry point / orchestrator)")
	assert.Contains(t, out, "util (standalone / potential dead code)")
}

func TestReportCommandToFile(t *testing.T) {
	dir := writeProject(t)
	outFile := filepath.Join(t.TempDir(), "report.md")
	defer func() {
		reportMarkdown = false
		reportOutput = ""
	}()

	out, err := executeCommand(t, "report", dir, "--markdown", "--output", outFile)
	require.NoError(t, err)
	assert.Contains(t, out, "[OK] Report saved to: "+outFile)

	saved, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(saved), "# depmap - Dependency Analysis Report")
}

func TestGraphCommand(t *testing.T) {
	dir := writeProject(t)

	out, err := executeCommand(t, "graph", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "digraph dependencies")
	assert.Contains(t, out, `color="red"`)
}

func TestGraphCommandBadFormat(t *testing.T) {
	dir := writeProject(t)
	defer func() { graphFormat = "dot" }()

	_, err := executeCommand(t, "graph", dir, "--format", "svg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown graph format")
}

func TestHistoryRecordingAndListing(t *testing.T) {
	dir := writeProject(t)
	tmp := t.TempDir()
	dbPath := filepath.Join(tmp, "history.db")
	cfgPath := filepath.Join(tmp, "depmap.toml")
	cfgBody := "[history]\nenabled = true\npath = \"" + dbPath + "\"\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgBody), 0o644))
	defer func() { cfgFile = "./depmap.toml" }()

	_, err := executeCommand(t, "scan", dir, "--config", cfgPath)
	require.NoError(t, err)

	store, err := history.Open(dbPath)
	require.NoError(t, err)
	records, err := store.List("", 10)
	require.NoError(t, store.Close())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, dir, records[0].Root)
	assert.Equal(t, 1, records[0].CycleCount)

	out, err := executeCommand(t, "history", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Timestamp")
	assert.Contains(t, out, "4") // file count column
}

func TestScanCommandMissingPath(t *testing.T) {
	_, err := executeCommand(t, "scan", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
