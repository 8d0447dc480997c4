package file_allocation_demo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContiguousCreate(t *testing.T) {
	d := diskWithLayout(t, "0A00BB0000")
	a := contiguousAllocator{}

	require.NoError(t, a.create(d, 7, "C", 2))
	require.Equal(t, "0ACCBB0000", layoutOf(d))
	b := d.Block(2)
	require.Equal(t, Contiguous, b.Strategy)
	require.Equal(t, ProcessID(7), b.CreatedBy)

	require.NoError(t, a.create(d, 7, "D", 1))
	require.Equal(t, "DACCBB0000", layoutOf(d))

	// 4 blocks are free but only in one run
	require.NoError(t, a.create(d, 7, "E", 4))
	require.Equal(t, "DACCBBEEEE", layoutOf(d))
	require.NoError(t, Verify(d))
}

func TestContiguousCreateRejectsFragmentedSpace(t *testing.T) {
	d := diskWithLayout(t, "00A00B00")
	require.Equal(t, 6, d.FreeRuns().Total())

	err := contiguousAllocator{}.create(d, 1, "C", 3)
	require.ErrorIs(t, err, ErrInsufficientContiguousSpace)
	require.ErrorContains(t, err, "no free run of 3 blocks for file C")
	require.Equal(t, "00A00B00", layoutOf(d))
}

func TestContiguousDelete(t *testing.T) {
	d := diskWithLayout(t, "0AAABB00")
	require.NoError(t, contiguousAllocator{}.delete(d, 1, "A"))
	require.Equal(t, "00000BB0", layoutOf(d))

	require.NoError(t, contiguousAllocator{}.delete(d, 5, "B"))
	require.Equal(t, "00000000", layoutOf(d))
}

func TestContiguousCreateThenDeleteRestoresRange(t *testing.T) {
	d := diskWithLayout(t, "A000000B")
	before := d.Clone()

	a := contiguousAllocator{}
	require.NoError(t, a.create(d, 1, "C", 4))
	require.Equal(t, "ACCCC00B", layoutOf(d))
	require.NoError(t, a.delete(d, d.findFile("C"), "C"))
	require.Equal(t, before.blocks, d.blocks)
}

func TestContiguousDeleteStopsAtIndexedFileOfSameName(t *testing.T) {
	s, err := NewSimulator(DiskConfig{
		Strategy:   Indexed,
		BlockCount: 6,
		Preload: []PreloadedFile{
			{Name: "A", Start: 0, Size: 1},
			{Name: "B", Start: 2, Size: 1},
		},
	}, admin)
	require.NoError(t, err)

	r := s.Apply(create(1, "A", 2))
	require.True(t, r.Success, r.Message)
	require.Equal(t, []string{"A", "AI", "B", "A", "A", "0"}, r.Snapshot)

	// the preloaded contiguous A comes first
	r = s.Apply(del(1, "A"))
	require.True(t, r.Success, r.Message)
	require.Equal(t, []string{"0", "AI", "B", "A", "A", "0"}, r.Snapshot)
	require.NoError(t, Verify(s.Disk()))

	r = s.Apply(del(1, "A"))
	require.True(t, r.Success, r.Message)
	require.Equal(t, []string{"0", "0", "B", "0", "0", "0"}, r.Snapshot)
	require.NoError(t, Verify(s.Disk()))
}
