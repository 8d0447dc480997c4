package file_allocation_demo

import (
	"fmt"
	"slices"

	"github.com/pkg/errors"
)

// PreloadedFile is a file that already occupies a contiguous range of the disk
// before any operation runs.
type PreloadedFile struct {
	Name  string
	Start int
	Size  int
}

// Disk is the block store: a fixed-size sequence of blocks addressed by index.
// Linked chains and index entries refer to other blocks by their index.
type Disk struct {
	blocks []Block
}

// NewDisk creates a disk of blockCount free blocks and lays out the preloaded
// files. It returns ErrOutOfSpace if a preloaded file does not fit.
func NewDisk(blockCount int, preload []PreloadedFile) (*Disk, error) {
	if blockCount <= 0 {
		return nil, errors.Errorf("block count should be positive, got: %d", blockCount)
	}

	d := &Disk{blocks: make([]Block, blockCount)}
	for _, f := range preload {
		if err := d.preload(f); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *Disk) preload(f PreloadedFile) error {
	if err := checkFileName(f.Name); err != nil {
		return err
	}
	if f.Size <= 0 {
		return errors.Wrapf(ErrInvalidRequest, "preloaded file %s has size %d", f.Name, f.Size)
	}
	if f.Start < 0 || f.Start+f.Size > len(d.blocks) {
		return errors.Wrapf(
			ErrOutOfSpace,
			"preloaded file %s at [%d, %d) does not fit in %d blocks",
			f.Name, f.Start, f.Start+f.Size, len(d.blocks),
		)
	}
	for i := f.Start; i < f.Start+f.Size; i++ {
		if b := &d.blocks[i]; !b.IsFree() {
			return errors.Wrapf(
				ErrOutOfSpace,
				"preloaded file %s overlaps file %s at block %d",
				f.Name, b.Owner, i,
			)
		}
	}
	for i := f.Start; i < f.Start+f.Size; i++ {
		d.blocks[i] = contiguousBlock(f.Name, AdminProcess)
	}
	return nil
}

// Len returns the number of blocks, which never changes.
func (d *Disk) Len() int {
	return len(d.blocks)
}

// Block returns a copy of the block at idx.
func (d *Disk) Block(idx int) Block {
	b := d.blocks[idx]
	b.Entries = slices.Clone(b.Entries)
	return b
}

// Snapshot returns the display name of every block, "0" for free blocks.
func (d *Disk) Snapshot() []string {
	names := make([]string, len(d.blocks))
	for i := range d.blocks {
		names[i] = d.blocks[i].DisplayName()
	}
	return names
}

// FreeRuns recomputes the free runs of the disk.
func (d *Disk) FreeRuns() FreeRuns {
	return loadFreeRuns(d.blocks)
}

// Clone returns a deep copy of the disk.
func (d *Disk) Clone() *Disk {
	c := &Disk{blocks: make([]Block, len(d.blocks))}
	for i := range d.blocks {
		c.blocks[i] = d.Block(i)
	}
	return c
}

// findFile returns the index of the first block owned by name, or -1.
func (d *Disk) findFile(name string) int {
	return slices.IndexFunc(d.blocks, func(b Block) bool {
		return b.Owner == name
	})
}

// lowestFree returns the lowest free block index that is >= from, or -1.
func (d *Disk) lowestFree(from int) int {
	for i := from; i < len(d.blocks); i++ {
		if d.blocks[i].IsFree() {
			return i
		}
	}
	return -1
}

func (d *Disk) inRange(idx int) bool {
	return idx >= 0 && idx < len(d.blocks)
}

func (d *Disk) assign(idx int, b Block) {
	if !d.blocks[idx].IsFree() {
		panic(fmt.Sprintf("assign to used block. idx: %d, block: %s", idx, d.blocks[idx].String()))
	}
	d.blocks[idx] = b
}

func (d *Disk) release(idx int) {
	if d.blocks[idx].IsFree() {
		panic(fmt.Sprintf("release free block. idx: %d", idx))
	}
	d.blocks[idx] = Block{}
}

func checkFileName(name string) error {
	if name == "" || name == freeBlockName {
		return errors.Wrapf(ErrInvalidRequest, "file name %q is reserved", name)
	}
	return nil
}
