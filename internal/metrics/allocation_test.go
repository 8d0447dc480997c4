package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	alloc "github.com/lance6716/file-allocation-demo"
)

func TestNoopWhenDisabled(t *testing.T) {
	if IsEnabled() {
		t.Skip("global registry already initialized")
	}
	_, ok := NewAllocationMetrics(alloc.Linked).(noopAllocationMetrics)
	require.True(t, ok)
	require.NoError(t, WriteTextfile(filepath.Join(t.TempDir(), "none.prom")))
}

func TestAllocationMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := newAllocationMetrics(reg, alloc.Indexed)

	s, err := alloc.NewSimulator(
		alloc.DiskConfig{Strategy: alloc.Indexed, BlockCount: 5},
		[]alloc.ProcessSpec{{ID: 1, Priority: 0, Quota: 5}},
		m,
	)
	require.NoError(t, err)
	s.Run([]alloc.Operation{
		{ProcessID: 1, Kind: alloc.OpCreate, FileName: "A", Size: 3},
		{ProcessID: 1, Kind: alloc.OpCreate, FileName: "B", Size: 1},
		{ProcessID: 1, Kind: alloc.OpDelete, FileName: "C"},
	})

	require.Equal(t, 1.0, value(t, m.operations.WithLabelValues("indexed", "create", "success", "none")))
	require.Equal(t, 1.0, value(t, m.operations.WithLabelValues("indexed", "create", "error", "InsufficientSpace")))
	require.Equal(t, 1.0, value(t, m.operations.WithLabelValues("indexed", "delete", "error", "FileNotFound")))
	require.Equal(t, 4.0, value(t, m.blocks.WithLabelValues("used")))
	require.Equal(t, 1.0, value(t, m.blocks.WithLabelValues("free")))
	require.Equal(t, 1.0, value(t, m.largestRun))
	require.Equal(t, 1.0, value(t, m.files))
	for _, status := range []string{"success", "error"} {
		h := m.requestedSizes.WithLabelValues("indexed", status).(prometheus.Metric)
		require.EqualValues(t, 1, write(t, h).GetHistogram().GetSampleCount(), status)
	}
}

func TestAllocationMetricsSharedAcrossRuns(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := newAllocationMetrics(reg, alloc.Linked)
	second := newAllocationMetrics(reg, alloc.Linked)
	other := newAllocationMetrics(reg, alloc.Contiguous)
	require.Same(t, first.operations, second.operations)

	d := mustDisk(t, 4)
	ok := alloc.Result{Success: true, Op: alloc.Operation{Kind: alloc.OpDelete}}
	first.OnResult(ok, d)
	second.OnResult(ok, d)
	other.OnResult(ok, d)

	require.Equal(t, 2.0, value(t, first.operations.WithLabelValues("linked", "delete", "success", "none")))
	require.Equal(t, 1.0, value(t, other.operations.WithLabelValues("contiguous", "delete", "success", "none")))
	require.Equal(t, 4.0, value(t, other.blocks.WithLabelValues("free")))
}

func TestWriteTextfile(t *testing.T) {
	InitRegistry()
	m := NewAllocationMetrics(alloc.Contiguous)
	m.OnResult(alloc.Result{
		Op:      alloc.Operation{ProcessID: 1, Kind: alloc.OpDelete, FileName: "A"},
		Success: true,
	}, mustDisk(t, 4))

	path := filepath.Join(t.TempDir(), "allocsim.prom")
	require.NoError(t, WriteTextfile(path))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(content),
		`allocsim_operations_total{error="none",kind="delete",status="success",strategy="contiguous"} 1`),
		string(content))
}

func mustDisk(t *testing.T, blockCount int) *alloc.Disk {
	t.Helper()
	d, err := alloc.NewDisk(blockCount, nil)
	require.NoError(t, err)
	return d
}

func write(t *testing.T, m prometheus.Metric) *dto.Metric {
	t.Helper()
	out := &dto.Metric{}
	require.NoError(t, m.Write(out))
	return out
}

func value(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	out := write(t, m)
	if out.Counter != nil {
		return out.GetCounter().GetValue()
	}
	return out.GetGauge().GetValue()
}
