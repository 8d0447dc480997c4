package file_allocation_demo

import "github.com/pkg/errors"

type contiguousAllocator struct{}

func (contiguousAllocator) create(d *Disk, pid ProcessID, name string, size int) error {
	start, ok := d.FreeRuns().FirstFit(size)
	if !ok {
		return errors.Wrapf(ErrInsufficientContiguousSpace, "no free run of %d blocks for file %s", size, name)
	}
	for i := start; i < start+size; i++ {
		d.assign(i, contiguousBlock(name, pid))
	}
	return nil
}

// delete frees blocks from head while they are contiguous blocks carrying the
// file name. Two contiguous files of the same name laid out back to back would
// be freed together.
func (contiguousAllocator) delete(d *Disk, head int, name string) error {
	for i := head; i < d.Len() && isContiguousBlockOf(&d.blocks[i], name); i++ {
		d.release(i)
	}
	return nil
}

func isContiguousBlockOf(b *Block, name string) bool {
	return b.Owner == name && b.Strategy == Contiguous && !b.IsIndex
}
