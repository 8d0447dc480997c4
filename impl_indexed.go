package file_allocation_demo

import (
	goerrors "github.com/go-errors/errors"
	"github.com/pkg/errors"
)

type indexedAllocator struct{}

// create takes the lowest free block as the index block, then the following
// lowest free blocks as data blocks, recording each in the index block.
func (indexedAllocator) create(d *Disk, pid ProcessID, name string, size int) error {
	need := indexedBlockCnt(size)
	if free := d.FreeRuns().Total(); free < need {
		return errors.Wrapf(ErrInsufficientSpace, "file %s needs %d blocks, %d free", name, need, free)
	}

	indexIdx := d.lowestFree(0)
	d.assign(indexIdx, indexBlock(name, pid))

	cur := indexIdx
	for i := 0; i < size; i++ {
		cur = d.lowestFree(cur + 1)
		d.assign(cur, indexedDataBlock(name, pid))
		d.blocks[indexIdx].Entries = append(d.blocks[indexIdx].Entries, cur)
	}
	return nil
}

func (indexedAllocator) delete(d *Disk, head int, name string) error {
	ib := &d.blocks[head]
	if !ib.IsIndex {
		return errors.Wrapf(ErrNotAnIndexBlock, "block %d of file %s", head, name)
	}
	if ib.Entries == nil {
		return errors.Wrapf(ErrMissingIndexEntries, "block %d of file %s", head, name)
	}
	if err := checkIndexEntries(d, head, name); err != nil {
		return err
	}

	for _, idx := range ib.Entries {
		d.release(idx)
	}
	d.release(head)
	return nil
}

// checkIndexEntries makes sure every entry of the index block at head refers
// to a distinct data block of the same file.
func checkIndexEntries(d *Disk, head int, name string) error {
	seen := make(map[int]struct{}, len(d.blocks[head].Entries))
	for _, idx := range d.blocks[head].Entries {
		if !d.inRange(idx) {
			return indexCorruption(name, "entry %d outside the disk", idx)
		}
		b := &d.blocks[idx]
		if b.Owner != name || b.IsIndex || b.Strategy != Indexed {
			return indexCorruption(name, "entry %d refers to block %q", idx, b.DisplayName())
		}
		if _, ok := seen[idx]; ok {
			return indexCorruption(name, "duplicate entry %d", idx)
		}
		seen[idx] = struct{}{}
	}
	return nil
}

func indexCorruption(name string, format string, args ...any) error {
	return goerrors.WrapPrefix(
		errors.Wrapf(ErrIndexCorruption, format, args...),
		"indexed file "+name,
		1,
	)
}
