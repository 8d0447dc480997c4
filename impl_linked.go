package file_allocation_demo

import (
	goerrors "github.com/go-errors/errors"
	"github.com/pkg/errors"
)

type linkedAllocator struct{}

// create takes the lowest free blocks one at a time, each one pointing at the
// next lowest free block. The chain order is the ascending block order at the
// time of the allocation.
func (linkedAllocator) create(d *Disk, pid ProcessID, name string, size int) error {
	need := linkedBlockCnt(size)
	if free := d.FreeRuns().Total(); free < need {
		return errors.Wrapf(ErrInsufficientSpace, "file %s needs %d blocks, %d free", name, need, free)
	}

	cur := d.lowestFree(0)
	for i := 0; i < need; i++ {
		next := noBlock
		if i+1 < need {
			next = d.lowestFree(cur + 1)
		}
		d.assign(cur, linkedBlock(name, pid, next))
		cur = next
	}
	return nil
}

// delete walks the whole chain before freeing anything, so a corrupted chain
// leaves the disk untouched.
func (linkedAllocator) delete(d *Disk, head int, name string) error {
	chain, err := walkChain(d, head, name)
	if err != nil {
		return err
	}
	for _, idx := range chain {
		d.release(idx)
	}
	return nil
}

// walkChain follows the links from head and returns the visited blocks in
// chain order.
func walkChain(d *Disk, head int, name string) ([]int, error) {
	var (
		chain   []int
		visited = make(map[int]struct{})
	)
	for cur := head; cur != noBlock; cur = d.blocks[cur].Next {
		if !d.inRange(cur) {
			return nil, chainCorruption(name, "link to block %d outside the disk", cur)
		}
		b := &d.blocks[cur]
		if b.Owner != name || b.Strategy != Linked {
			return nil, chainCorruption(name, "link to block %d owned by %q", cur, b.DisplayName())
		}
		if _, ok := visited[cur]; ok {
			return nil, chainCorruption(name, "cycle at block %d", cur)
		}
		visited[cur] = struct{}{}
		chain = append(chain, cur)
	}
	return chain, nil
}

func chainCorruption(name string, format string, args ...any) error {
	return goerrors.WrapPrefix(
		errors.Wrapf(ErrChainCorruption, format, args...),
		"linked file "+name,
		1,
	)
}
