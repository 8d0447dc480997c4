package file_allocation_demo

import (
	"testing"

	goerrors "github.com/go-errors/errors"
	"github.com/stretchr/testify/require"
)

func chainOf(t *testing.T, d *Disk, name string) []int {
	t.Helper()
	head := d.findFile(name)
	require.NotEqual(t, -1, head)
	chain, err := walkChain(d, head, name)
	require.NoError(t, err)
	return chain
}

func TestLinkedCreate(t *testing.T) {
	d := diskWithLayout(t, "0A00B00000000000")
	a := linkedAllocator{}

	require.NoError(t, a.create(d, 3, "C", 5))
	// 5 + ceil(5/10) blocks in ascending free order
	require.Equal(t, []int{0, 2, 3, 5, 6, 7}, chainOf(t, d, "C"))
	require.Equal(t, "CACCBCCC00000000", layoutOf(d))

	last := d.Block(7)
	require.Equal(t, noBlock, last.Next)
	require.Equal(t, Linked, last.Strategy)
	require.Equal(t, ProcessID(3), last.CreatedBy)
	require.NoError(t, Verify(d))
}

func TestLinkedCreateBlockCount(t *testing.T) {
	for _, size := range []int{1, 9, 10, 11, 25} {
		d, err := NewDisk(64, nil)
		require.NoError(t, err)
		require.NoError(t, linkedAllocator{}.create(d, 1, "A", size))
		require.Len(t, chainOf(t, d, "A"), linkedBlockCnt(size))
		require.Equal(t, 64-linkedBlockCnt(size), d.FreeRuns().Total())
	}
}

func TestLinkedCreateInsufficientSpace(t *testing.T) {
	d := diskWithLayout(t, "0A0000000000")
	// 11 free, 10 + 1 needed
	require.NoError(t, linkedAllocator{}.create(d, 1, "B", 10))
	require.Equal(t, "BABBBBBBBBBB", layoutOf(d))

	d = diskWithLayout(t, "0A000000000")
	err := linkedAllocator{}.create(d, 1, "B", 10)
	require.ErrorIs(t, err, ErrInsufficientSpace)
	require.ErrorContains(t, err, "file B needs 11 blocks, 10 free")
	require.Equal(t, "0A000000000", layoutOf(d))
}

func TestLinkedDelete(t *testing.T) {
	d := diskWithLayout(t, "0A0B000")
	a := linkedAllocator{}
	require.NoError(t, a.create(d, 1, "C", 3))
	require.Equal(t, "CACBCC0", layoutOf(d))

	require.NoError(t, a.delete(d, 0, "C"))
	require.Equal(t, "0A0B000", layoutOf(d))
	require.NoError(t, Verify(d))
}

func TestLinkedDeleteCorruption(t *testing.T) {
	cases := []struct {
		name    string
		corrupt func(d *Disk)
		msg     string
	}{
		{
			"outside",
			func(d *Disk) { d.blocks[2].Next = 100 },
			"link to block 100 outside the disk",
		},
		{
			"foreign",
			func(d *Disk) { d.blocks[2].Next = 1 },
			`link to block 1 owned by "A"`,
		},
		{
			"free",
			func(d *Disk) { d.blocks[2].Next = 6 },
			`link to block 6 owned by "0"`,
		},
		{
			"cycle",
			func(d *Disk) { d.blocks[4].Next = 0 },
			"cycle at block 0",
		},
	}

	for _, c := range cases {
		d := diskWithLayout(t, "0A0B000")
		require.NoError(t, linkedAllocator{}.create(d, 1, "C", 3))
		c.corrupt(d)
		before := d.Clone()

		err := linkedAllocator{}.delete(d, 0, "C")
		require.ErrorIs(t, err, ErrChainCorruption, c.name)
		require.NotErrorIs(t, err, ErrFileNotFound, c.name)
		require.ErrorContains(t, err, c.msg, c.name)
		var stackErr *goerrors.Error
		require.ErrorAs(t, err, &stackErr, c.name)
		require.NotEmpty(t, stackErr.ErrorStack(), c.name)
		require.Equal(t, before.blocks, d.blocks, c.name)
		require.Error(t, Verify(d), c.name)
	}
}
