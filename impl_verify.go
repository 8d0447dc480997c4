package file_allocation_demo

import (
	"slices"

	goerrors "github.com/go-errors/errors"
)

type fileKey struct {
	name     string
	strategy AllocationStrategy
}

// Verify checks the layout invariants of every file on the disk:
//   - free blocks carry no metadata,
//   - a contiguous file is one unbroken run,
//   - a linked chain from the first block visits every block of the file
//     exactly once and terminates,
//   - an indexed file has exactly one index block whose entries are exactly its
//     data blocks.
//
// Two files sharing a name are reported as a violation since nothing on the
// disk can tell their blocks apart.
func Verify(d *Disk) error {
	files := make(map[fileKey][]int)
	var keys []fileKey
	for i := range d.blocks {
		b := &d.blocks[i]
		if b.IsFree() {
			if b.IsIndex || b.Entries != nil {
				return goerrors.Errorf("free block %d carries index metadata", i)
			}
			continue
		}
		if _, err := allocatorFor(b.Strategy); err != nil {
			return goerrors.WrapPrefix(err, "block "+b.Owner, 0)
		}
		k := fileKey{name: b.Owner, strategy: b.Strategy}
		if _, ok := files[k]; !ok {
			keys = append(keys, k)
		}
		files[k] = append(files[k], i)
	}

	for _, k := range keys {
		blocks := files[k]
		var err error
		switch k.strategy {
		case Contiguous:
			err = verifyContiguous(k.name, blocks)
		case Linked:
			err = verifyLinked(d, k.name, blocks)
		case Indexed:
			err = verifyIndexed(d, k.name, blocks)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func verifyContiguous(name string, blocks []int) error {
	for i := 1; i < len(blocks); i++ {
		if blocks[i] != blocks[i-1]+1 {
			return goerrors.Errorf("contiguous file %s is split at block %d", name, blocks[i])
		}
	}
	return nil
}

func verifyLinked(d *Disk, name string, blocks []int) error {
	chain, err := walkChain(d, blocks[0], name)
	if err != nil {
		return err
	}
	slices.Sort(chain)
	if !slices.Equal(chain, blocks) {
		return chainCorruption(name, "chain visits %v, file owns %v", chain, blocks)
	}
	return nil
}

func verifyIndexed(d *Disk, name string, blocks []int) error {
	head := -1
	var data []int
	for _, idx := range blocks {
		if !d.blocks[idx].IsIndex {
			data = append(data, idx)
			continue
		}
		if head != -1 {
			return indexCorruption(name, "second index block %d", idx)
		}
		head = idx
	}
	if head == -1 {
		return indexCorruption(name, "no index block")
	}
	if d.blocks[head].Entries == nil {
		return indexCorruption(name, "index block %d has no entry list", head)
	}
	if err := checkIndexEntries(d, head, name); err != nil {
		return err
	}
	entries := slices.Clone(d.blocks[head].Entries)
	slices.Sort(entries)
	if !slices.Equal(entries, data) {
		return indexCorruption(name, "entries %v, data blocks %v", entries, data)
	}
	return nil
}

// Stats summarises the usage of a disk.
type Stats struct {
	Blocks         int
	Used           int
	Free           int
	FreeRuns       int
	LargestFreeRun int
	Files          int
}

func (d *Disk) Stats() Stats {
	runs := d.FreeRuns()
	names := make(map[string]struct{})
	for i := range d.blocks {
		if !d.blocks[i].IsFree() {
			names[d.blocks[i].Owner] = struct{}{}
		}
	}
	free := runs.Total()
	return Stats{
		Blocks:         d.Len(),
		Used:           d.Len() - free,
		Free:           free,
		FreeRuns:       len(runs),
		LargestFreeRun: runs.Largest(),
		Files:          len(names),
	}
}
