package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestParseFlags(t *testing.T) {
	o, err := parseFlags([]string{"--processes", "p.txt", "--files", "f.txt", "--verify"})
	require.NoError(t, err)
	require.Equal(t, "p.txt", o.processesPath)
	require.Equal(t, "f.txt", o.filesPath)
	require.True(t, o.verify)

	cases := []struct {
		args []string
		err  string
	}{
		{nil, "either --config or both --processes and --files are required"},
		{[]string{"--config", "c.yaml", "--files", "f.txt"}, "cannot be combined"},
		{[]string{"--processes", "p.txt"}, "must be given together"},
		{[]string{"--config", "c.yaml", "extra"}, "unexpected arguments"},
		{[]string{"--no-such-flag"}, "unknown flag"},
	}
	for _, c := range cases {
		_, err := parseFlags(c.args)
		require.ErrorContains(t, err, c.err, c.args)
	}
}

func TestRunTextFormat(t *testing.T) {
	dir := t.TempDir()
	processes := writeFile(t, dir, "processes.txt", "0, 0, 5\n1, 1, 2\n")
	files := writeFile(t, dir, "files.txt", "3\n6\n1\nX, 0, 1\n1, 0, A, 2\n1, 1, X\n0, 1, A\n")

	out := &bytes.Buffer{}
	require.NoError(t, run([]string{
		"--processes", processes,
		"--files", files,
		"--log-level", "ERROR",
		"--verify",
	}, out))

	require.Contains(t, out.String(), "Initial disk state:\nX,0,0,0,0,0\n")
	require.Contains(t, out.String(), "Operation 1 - Success\nfile A created by process 1\nX,AI,A,A,0,0\n")
	require.Contains(t, out.String(), "Operation 2 - Failure\n")
	require.Contains(t, out.String(), "Operation 3 - Success\nfile A deleted by process 0\nX,0,0,0,0,0\n")
	require.Contains(t, out.String(), "process 1: priority 1, attempted 2, quota left 0\n")
}

func TestRunConfigWithMetrics(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "run.yaml", `
logging:
  level: error
  output: stderr
metrics:
  enabled: true
disk:
  strategy: contiguous
  block_count: 4
processes:
  - id: 1
    priority: 0
    quota: 2
operations:
  - process: 1
    kind: create
    file: A
    size: 5
`)
	metricsOut := filepath.Join(dir, "allocsim.prom")

	out := &bytes.Buffer{}
	require.NoError(t, run([]string{"--config", cfgPath, "--metrics-out", metricsOut}, out))
	require.Contains(t, out.String(), "Operation 1 - Failure\n")

	data, err := os.ReadFile(metricsOut)
	require.NoError(t, err)
	require.Contains(t, string(data),
		`allocsim_operations_total{error="InsufficientContiguousSpace",kind="create",status="error",strategy="contiguous"} 1`)

	// a second run in the same process adds to the same series
	require.NoError(t, run([]string{"--config", cfgPath, "--metrics-out", metricsOut}, &bytes.Buffer{}))
	data, err = os.ReadFile(metricsOut)
	require.NoError(t, err)
	require.Contains(t, string(data),
		`allocsim_operations_total{error="InsufficientContiguousSpace",kind="create",status="error",strategy="contiguous"} 2`)
}

func TestRunEmitYAML(t *testing.T) {
	dir := t.TempDir()
	processes := writeFile(t, dir, "processes.txt", "0, 0, 1\n")
	files := writeFile(t, dir, "files.txt", "2\n5\n0\n0, 0, A, 1\n")

	out := &bytes.Buffer{}
	require.NoError(t, run([]string{"--processes", processes, "--files", files, "--emit-yaml"}, out))
	require.Contains(t, out.String(), "strategy: linked")
	require.Contains(t, out.String(), "block_count: 5")
	require.NotContains(t, out.String(), "Operation 1")
}

func TestRunFatalErrors(t *testing.T) {
	dir := t.TempDir()
	processes := writeFile(t, dir, "processes.txt", "0, 0, 1\n")
	files := writeFile(t, dir, "files.txt", "1\n4\n1\nX, 2, 3\n")

	err := run([]string{"--processes", processes, "--files", files, "--log-level", "ERROR"}, &bytes.Buffer{})
	require.ErrorContains(t, err, "out of space")

	err = run([]string{"--config", filepath.Join(dir, "missing.yaml")}, &bytes.Buffer{})
	require.Error(t, err)

	err = run([]string{"--processes", processes, "--files", files, "--log-level", "LOUD"}, &bytes.Buffer{})
	require.ErrorContains(t, err, "unknown log level")
}
